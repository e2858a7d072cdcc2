package main

import "SmileApp/internal/cli"

func main() {
	cli.Execute()
}
