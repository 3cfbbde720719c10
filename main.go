package main

import "github.com/forgeworks/promptsmith/cmd"

func main() {
	cmd.Execute()
}
