package main

import "github.com/kamal-hamza/fxlib/cmd"

func main() {
	cmd.Execute()
}
