package main

import "github.com/forthview/scribe/internal/cli"

func main() {
	cli.Main()
}
