package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-workshop/internal/entities"
	"github.com/KirkDiggler/rpg-workshop/internal/errors"
	"github.com/KirkDiggler/rpg-workshop/internal/orchestrators/simulator"
	"github.com/KirkDiggler/rpg-workshop/internal/pkg/rng"
)

// targetFlags selects a stored monster or an inline drop table
type targetFlags struct {
	monsterID string
	tableFile string
	items     []string
	tableName string
}

func (f *targetFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.monsterID, "monster", "", "Monster ID whose drop table is used")
	cmd.Flags().StringVar(&f.tableFile, "table", "", "YAML file with an inline drop table")
	cmd.Flags().StringArrayVar(&f.items, "item", nil, "Inline drop entry as item=probability (repeatable)")
	cmd.Flags().StringVar(&f.tableName, "name", "", "Name the inline table's stored run is kept under")
}

func (f *targetFlags) target() (simulator.Target, error) {
	t := simulator.Target{MonsterID: f.monsterID, TableName: f.tableName}

	if f.tableFile != "" && len(f.items) > 0 {
		return t, errors.InvalidArgument("use either --table or --item, not both")
	}
	if f.tableFile != "" {
		table, err := readDropTable(f.tableFile)
		if err != nil {
			return t, err
		}
		if table == nil {
			table = []entities.DropTableEntry{}
		}
		t.Table = table
	}
	if len(f.items) > 0 {
		table, err := parseDropFlags(f.items)
		if err != nil {
			return t, err
		}
		t.Table = table
	}
	return t, nil
}

var (
	simulateTarget targetFlags
	simulateTrials int
	simulateLevel  int
	simulateSeed   uint64
	showOutcomes   bool

	lastRunTarget  targetFlags
	clearRunTarget targetFlags

	expectedTarget targetFlags
	expectedTrials int
	expectedLevel  int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a drop simulation",
	Long: `Roll a drop table repeatedly and report how often each item dropped.

  simulate --monster mon_123 --trials 1000
  simulate --item スライムゼリー=0.5 --item 薬草=0.1 --level 5 --seed 42

The result replaces the previous run for the same monster or table name.`,
	Args: cobra.NoArgs,
}

var lastRunCmd = &cobra.Command{
	Use:   "last",
	Short: "Show the stored run for a monster or table",
	Args:  cobra.NoArgs,
	RunE:  withApp(runLastRun),
}

var clearRunCmd = &cobra.Command{
	Use:   "clear",
	Short: "Discard the stored run for a monster or table",
	Args:  cobra.NoArgs,
	RunE:  withApp(runClearRun),
}

var expectedCmd = &cobra.Command{
	Use:   "expected",
	Short: "Forecast item counts without rolling",
	Args:  cobra.NoArgs,
	RunE:  withApp(runExpected),
}

func init() {
	// RunE is set here because runSimulate reads simulateCmd's flags
	simulateCmd.RunE = withApp(runSimulate)
	simulateTarget.bind(simulateCmd)
	simulateCmd.Flags().IntVar(&simulateTrials, "trials", 100, "Number of trials")
	simulateCmd.Flags().IntVar(&simulateLevel, "level", 0, "Level used to scale probabilities (default: monster level)")
	simulateCmd.Flags().Uint64Var(&simulateSeed, "seed", 0, "Seed for a reproducible run")
	simulateCmd.Flags().BoolVar(&showOutcomes, "outcomes", false, "Print every trial outcome")

	lastRunTarget.bind(lastRunCmd)
	lastRunCmd.Flags().BoolVar(&showOutcomes, "outcomes", false, "Print every trial outcome")
	clearRunTarget.bind(clearRunCmd)
	simulateCmd.AddCommand(lastRunCmd)
	simulateCmd.AddCommand(clearRunCmd)

	expectedTarget.bind(expectedCmd)
	expectedCmd.Flags().IntVar(&expectedTrials, "trials", 100, "Number of trials")
	expectedCmd.Flags().IntVar(&expectedLevel, "level", 0, "Level used to scale probabilities (default: monster level)")
}

func runSimulate(ctx context.Context, a *app, _ []string) error {
	target, err := simulateTarget.target()
	if err != nil {
		return err
	}

	input := &simulator.RunSimulationInput{
		Target:     target,
		TrialCount: simulateTrials,
		Level:      simulateLevel,
	}
	if simulateCmd.Flags().Changed("seed") {
		input.Source = rng.NewSeeded(simulateSeed)
	}

	out, err := a.simulator.RunSimulation(ctx, input)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out.Run)
	}
	if out.Replaced {
		fmt.Fprintln(stdout, "Replaced the previous run.")
	}
	return printRun(out.Run, showOutcomes)
}

func runLastRun(ctx context.Context, a *app, _ []string) error {
	target, err := lastRunTarget.target()
	if err != nil {
		return err
	}

	out, err := a.simulator.GetLastRun(ctx, &simulator.GetLastRunInput{Target: target})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out.Run)
	}
	return printRun(out.Run, showOutcomes)
}

func runClearRun(ctx context.Context, a *app, _ []string) error {
	target, err := clearRunTarget.target()
	if err != nil {
		return err
	}

	out, err := a.simulator.ClearRun(ctx, &simulator.ClearRunInput{Target: target})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out)
	}
	if out.Cleared {
		fmt.Fprintln(stdout, "Run cleared.")
	} else {
		fmt.Fprintln(stdout, "No stored run.")
	}
	return nil
}

func runExpected(ctx context.Context, a *app, _ []string) error {
	target, err := expectedTarget.target()
	if err != nil {
		return err
	}

	out, err := a.simulator.CalculateExpectedValues(ctx, &simulator.CalculateExpectedValuesInput{
		Target:     target,
		TrialCount: expectedTrials,
		Level:      expectedLevel,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out)
	}

	fmt.Fprintf(stdout, "Expected counts over %d trials (level %d, multiplier %.2f)\n",
		expectedTrials, out.Level, out.Multiplier)
	tw := newTable()
	fmt.Fprintln(tw, "ITEM\tEXPECTED")
	for _, item := range sortedKeys(out.Expected) {
		fmt.Fprintf(tw, "%s\t%.2f\n", item, out.Expected[item])
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "failed to write output")
	}
	return nil
}
