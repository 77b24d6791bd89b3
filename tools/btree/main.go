package main

import "os"
import "fmt"
import "flag"

import "github.com/bnclabs/golog"
import "github.com/bnclabs/gobtree/btree"

var options struct {
	loglevel string
	args     []string
}

func argParse() {
	flag.StringVar(&options.loglevel, "log", "info",
		"log level, can be ignore, error, info, debug, trace")
	flag.Parse()
	options.args = flag.Args()
}

func main() {
	argParse()

	setts := map[string]interface{}{
		"log.level":      options.loglevel,
		"log.file":       "",
		"log.colorerror": "hired",
	}
	log.SetLogger(nil, setts)
	btree.LogComponents("all")

	if len(options.args) < 1 {
		usage()
		os.Exit(1)
	}
	switch options.args[0] {
	case "load":
		doload(options.args[1:])
	case "verify":
		doverify(options.args[1:])
	case "pools":
		dopools(options.args[1:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("usage: btree [-log level] load|verify|pools [options]\n")
	flag.PrintDefaults()
}
