// Package main is the entry point for the workshop CLI
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-workshop/internal/errors"
)

var (
	// Global flags
	rulesPath  string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "workshop",
	Short: "RPG authoring workshop",
	Long: `Workshop manages monsters and characters stored in redis, simulates monster
drops and previews stat growth.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errors.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "Rules YAML file (overrides RULES_PATH)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(expectedCmd)
	rootCmd.AddCommand(monsterCmd)
	rootCmd.AddCommand(characterCmd)
	rootCmd.AddCommand(rulesCmd)
}
