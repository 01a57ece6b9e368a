package main

import "github.com/pders01/ideagate/cmd"

func main() {
	cmd.Execute()
}
