package main

import "github.com/mvp-joe/detach/internal/cli"

func main() {
	cli.Execute()
}
