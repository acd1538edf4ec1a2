package main

import (
	"os"

	"vectra/internal/engine"
)

func main() {
	if err := engine.RunDesktop(); err != nil {
		os.Exit(1)
	}
}
