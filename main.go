package main

import "github.com/ffigura/ttcr/cmd"

func main() {
	cmd.Execute()
}
