package main

import "github.com/eslsoft/parcours/cmd"

func main() {
	cmd.Execute()
}
