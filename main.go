package main

import "facegate/cmd"

func main() {
	cmd.Execute()
}
