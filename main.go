package main

import "appdeck/cmd"

func main() {
	cmd.Execute()
}
