package main

import "github.com/indexforge/blockschema/cmd"

func main() {
	cmd.Execute()
}
