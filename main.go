package main

import "github.com/jsphweid/whatkey/cmd"

func main() {
	cmd.Execute()
}
