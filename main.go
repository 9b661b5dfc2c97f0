package main

import "github.com/josephlewis42/bsh/cmd"

func main() {
	cmd.Execute()
}
