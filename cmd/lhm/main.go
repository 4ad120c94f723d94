// Package main is the entry point for the landscape health monitor.
package main

import (
	"landscape-monitor/cmd/lhm/cmd"
)

func main() {
	cmd.Execute()
}
