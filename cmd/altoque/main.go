package main

import (
	"os"

	"github.com/calvoclucas/app-mdw-2025/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
