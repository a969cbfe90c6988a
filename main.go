package main

import "github.com/KaramelBytes/tabmap-cli/cmd"

func main() {
	cmd.Execute()
}
