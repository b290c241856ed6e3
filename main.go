package main

import "github.com/juanibiapina/vlist/cmd"

func main() {
	cmd.Execute()
}
