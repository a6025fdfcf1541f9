package main

import "github.com/resumedj/sitegen/internal/cli"

func main() {
	cli.Execute()
}
