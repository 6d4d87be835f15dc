package main

import (
	"os"

	"github.com/way-po-int/subtitle-extractor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
