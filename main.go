package main

import "erpchat/cli"

func main() {
	cli.Execute()
}
