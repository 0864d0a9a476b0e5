// Package main is the entry point for the crickmetrics CLI tool, which
// ingests cricsheet ball-by-ball files and answers ODI statistics queries.
package main

import "github.com/pable/go-cricket-metrics/cmd"

func main() {
	cmd.Execute()
}
