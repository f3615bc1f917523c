package main

import "salescockpit/cmd"

func main() {
	cmd.Execute()
}
