package terminal

import (
	"io"
	"os"

	"github.com/de-tools/compliance-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/compliance-atlas/pkg/runtime/terminal/export"

	"github.com/de-tools/compliance-atlas/pkg/services/scan"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	factory  scan.Factory
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Factory scan.Factory
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		factory:  opts.Factory,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compliance",
		Short: "Cloud compliance scanning tool",
	}

	cmd.AddCommand(commands.NewScanCmd(cli.factory, cli.reporter))
	cmd.AddCommand(commands.NewRulesCmd())

	return cmd
}
