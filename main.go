package main

import "github.com/pipecalc/pipecalc/cmd"

func main() {
	cmd.Execute()
}
