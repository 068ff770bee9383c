package main

import "github.com/cahlchang/jp-to-en/internal/cli"

func main() {
	cli.Execute()
}
