package main

import "bling-sync/cmd"

func main() {
	cmd.Execute()
}
