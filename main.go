package main

import "github.com/fzzzy/rube-iks-cube/cmd"

func main() {
	cmd.Execute()
}
