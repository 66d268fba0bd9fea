package main

import (
	"os"

	"github.com/sumedhk0/GitHubAnalyzer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
