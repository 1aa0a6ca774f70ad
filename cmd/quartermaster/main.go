package main

import (
	"github.com/andrescamacho/quartermaster-go/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
