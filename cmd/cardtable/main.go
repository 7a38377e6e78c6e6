package main

import (
	"github.com/jwpark-dev/cardtable/internal/cli"
)

func main() {
	cli.Execute()
}
