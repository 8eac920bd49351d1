package main

import "github.com/vietddude/cryptoshield/internal/cli"

func main() {
	cli.Execute()
}
