package main

import "github.com/jsphweid/sound2sight/cmd"

func main() {
	cmd.Execute()
}
