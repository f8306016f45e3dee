package main

import "postforge/internal/cli"

func main() {
	cli.Execute()
}
