package main

import "github.com/saarthi-labs/krishisaarthi/cli"

func main() {
	cli.Execute()
}
