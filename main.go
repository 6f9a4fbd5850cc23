package main

import "github.com/tempoclerk/tempoclerk/cmd"

func main() {
	cmd.Execute()
}
