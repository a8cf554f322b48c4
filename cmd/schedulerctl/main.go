package main

import (
	"fmt"
	"os"

	"github.com/SAP-F-2025/assessment-scheduler/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
