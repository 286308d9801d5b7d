package main

import "github.com/papapumpkin/stencil/cmd"

func main() {
	cmd.Execute()
}
