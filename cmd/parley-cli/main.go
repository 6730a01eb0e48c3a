package main

import "github.com/parley-chat/parley/cmd/parley-cli/cmd"

func main() {
	cmd.Execute()
}
