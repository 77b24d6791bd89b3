package btree

import "fmt"

import "github.com/bnclabs/golog"
import s "github.com/bnclabs/gosettings"

var _ = fmt.Sprintf("dummy")

func init() {
	setts := map[string]interface{}{
		"log.level":      "ignore",
		"log.colorfatal": "red",
		"log.colorerror": "hired",
		"log.colorwarn":  "yellow",
	}
	log.SetLogger(nil, setts)
	LogComponents("self")
}

func testsettings(order int64) s.Settings {
	setts := Defaultsettings()
	setts["order"] = order
	setts["nodearena.capacity"] = int64(1024 * 1024)
	return setts
}
