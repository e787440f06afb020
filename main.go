package main

import "github.com/rnwolfe/deck/cmd"

func main() {
	cmd.Execute()
}
