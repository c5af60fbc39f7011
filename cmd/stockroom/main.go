package main

import (
	"stockroom/internal/cli"
)

func main() {
	cli.Execute()
}
