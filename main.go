package main

import "github.com/peekknuf/opendataqa/cmd"

func main() {
	cmd.Execute()
}
