package main

import "chipwarden/cmd/chipwarden/cmd"

func main() {
	cmd.Execute()
}
