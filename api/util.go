package api

import "fmt"

// Checkincl validate range inclusion argument, empty string is treated
// as "both".
func Checkincl(incl string) string {
	switch incl {
	case "":
		return InclBoth
	case InclNone, InclLow, InclHigh, InclBoth:
		return incl
	}
	panic(fmt.Errorf("invalid range inclusion %q", incl))
}

// Inclusive return whether low and high bounds are inclusive for incl.
func Inclusive(incl string) (low, high bool) {
	switch Checkincl(incl) {
	case InclLow:
		return true, false
	case InclHigh:
		return false, true
	case InclBoth:
		return true, true
	}
	return false, false
}
