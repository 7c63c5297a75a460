package main

import "spendcast/cmd"

func main() {
	cmd.Execute()
}
