// Package main is the entry point for the ocapstats CLI tool, which aggregates
// OCAP mission statistics into season tables and awards.
package main

import "github.com/pable/go-ocap-stats/cmd"

func main() {
	cmd.Execute()
}
