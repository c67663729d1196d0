package main

import "github.com/viant/wasmlint/internal/cli"

func main() {
	cli.Execute()
}
