package main

import "github.com/goliatone/go-langtheme/internal/cli"

func main() {
	cli.Execute()
}
