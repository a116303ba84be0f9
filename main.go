package main

import "coursekg/kgraph/cmd"

func main() {
	cmd.Execute()
}
