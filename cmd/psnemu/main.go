package main

import (
	"github.com/psn-tools/psnemu/internal/cli"
)

func main() {
	cli.Execute()
}
