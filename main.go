package main

import "github.com/agentic-research/gmextract/cmd"

func main() {
	cmd.Execute()
}
