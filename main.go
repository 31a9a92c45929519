package main

import (
	"os"

	"github.com/sevaagent/seva/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
