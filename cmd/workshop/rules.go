package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the stat and growth rules",
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective rules as YAML",
	Long:  `Print the rules in effect after defaults are applied. The output is a valid rules file.`,
	Args:  cobra.NoArgs,
	RunE:  runRulesShow,
}

func init() {
	rulesCmd.AddCommand(rulesShowCmd)
}

func runRulesShow(cmd *cobra.Command, _ []string) error {
	_, rules, closer, err := loadSettings()
	if err != nil {
		return err
	}
	defer func() {
		_ = closer.Close() // nolint:errcheck // safe to ignore in cleanup
	}()

	if jsonOutput {
		return printJSON(rules)
	}

	data, err := rules.Marshal()
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, string(data))
	return nil
}
