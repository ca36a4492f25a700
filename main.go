package main

import (
	"os"

	"github.com/MimeLyc/resumable-sub-translator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
