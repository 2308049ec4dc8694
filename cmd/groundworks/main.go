package main

import "github.com/andrescamacho/groundworks-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
