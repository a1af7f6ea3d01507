package main

import "github.com/nextlevelbuilder/deskrelay/cmd"

func main() {
	cmd.Execute()
}
