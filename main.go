package main

import "github.com/twiced-technology-gmbh/taskflow/cmd"

func main() {
	cmd.Execute()
}
