package main

import "github.com/structmap/structmap/internal/cli"

func main() {
	cli.Execute()
}
