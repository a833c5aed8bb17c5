package main

import (
	"fmt"
	"os"

	"github.com/de-tools/compliance-atlas/pkg/runtime/terminal"
	"github.com/de-tools/compliance-atlas/pkg/services/checks/aws"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Factory: aws.ScannerFactory,
		Output:  os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
