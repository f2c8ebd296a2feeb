package main

import "github.com/opsboard/userdash/cmd"

func main() {
	cmd.Execute()
}
