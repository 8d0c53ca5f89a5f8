package main

import (
	"github.com/turtacn/obsdemo/cmd/cli"
)

// main is the entry point for the obsdemo-ctl command-line tool.
// It delegates all execution to the Execute function provided by the cli package.
// main 是 obsdemo-ctl 命令行工具的入口点。
func main() {
	cli.Execute()
}
