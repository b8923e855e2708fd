package main

import "github.com/mcoot/tetrisparty/internal/cli"

func main() {
	cli.Execute()
}
