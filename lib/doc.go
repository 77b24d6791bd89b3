// Package lib provide small helpers that are not tied to any particular
// index algorithm: running statistics, histograms, bit twiddling on
// bitmap bytes and formatting of statistics. Package shall not depend on
// anything other than the standard library.
package lib
