package main

import "github.com/dzjyyds666/tomlpatch/cmd"

func main() {
	cmd.Execute()
}
