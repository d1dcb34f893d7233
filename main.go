package main

import "ocicap/cmd"

func main() {
	cmd.Execute()
}
