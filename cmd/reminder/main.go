package main

import (
	"os"
)

func main() {
	if len(os.Args) > 1 {
		if handled, code := runCLI(os.Args[1:]); handled {
			os.Exit(code)
		}
	}
	printHelp()
	os.Exit(2)
}
