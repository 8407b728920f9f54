package main

import "github.com/ridoystarlord/sprocmap/cmd"

func main() {
	cmd.Execute()
}
