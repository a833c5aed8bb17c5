package commands

import (
	"fmt"

	"github.com/de-tools/compliance-atlas/pkg/services/catalog"

	"github.com/spf13/cobra"
)

type RulesCmd struct {
	severity string
	category string
}

func NewRulesCmd() *cobra.Command {
	rc := &RulesCmd{}
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rules in the compliance catalog",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.severity, "severity", "", "Only show rules with this severity")
	cmd.Flags().StringVar(&rc.category, "category", "", "Only show rules in this category")

	return cmd
}

func (rc *RulesCmd) run(cmd *cobra.Command, args []string) error {
	rules := catalog.DefaultRules()

	shown := 0
	for _, rule := range rules {
		if rc.severity != "" && string(rule.Severity) != rc.severity {
			continue
		}
		if rc.category != "" && string(rule.Category) != rc.category {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-8s %-4s %s\n",
			rule.ID, rule.Severity, rule.Category, rule.Title)
		shown++
	}

	if shown == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No rules match the given filters")
	}

	return nil
}
