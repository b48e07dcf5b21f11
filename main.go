package main

import "github.com/theirongolddev/blockstime/cmd"

func main() {
	cmd.Execute()
}
