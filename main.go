package main

import "github.com/chupakbra/mmgroups/cli"

func main() {
	cli.Execute()
}
