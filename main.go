package main

import "github.com/gnames/gnlineage/cmd"

func main() {
	cmd.Execute()
}
