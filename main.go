package main

import "github.com/KaramelBytes/dataexplore-cli/cmd"

func main() {
	cmd.Execute()
}
