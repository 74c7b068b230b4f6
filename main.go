package main

import (
	"funding-rate-scanner/internal/cli"
)

func main() {
	cli.Execute()
}
