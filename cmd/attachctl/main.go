package main

import (
	"os"

	"github.com/danmuck/attachctl/cmd/attachctl/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
