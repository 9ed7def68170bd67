package main

import "github.com/lyoubo/reextractor/internal/cli"

func main() {
	cli.Execute()
}
