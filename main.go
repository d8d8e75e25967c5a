package main

import "github.com/mpapenbr/rsim/cmd"

func main() {
	cmd.Execute()
}
