package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-workshop/internal/entities"
	"github.com/KirkDiggler/rpg-workshop/internal/errors"
)

var stdout io.Writer = os.Stdout

// printJSON writes v as indented JSON
func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode output")
	}
	return nil
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
}

// parseStatFlags parses repeated "stat=value" flags
func parseStatFlags(flag string, values []string) (map[string]int, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]int, len(values))
	for _, v := range values {
		key, raw, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return nil, errors.InvalidArgumentf("--%s %q: expected stat=value", flag, v)
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.InvalidArgumentf("--%s %q: %q is not an integer", flag, v, raw)
		}
		out[key] = n
	}
	return out, nil
}

// parseDropFlags parses repeated "item=probability" flags in the given order
func parseDropFlags(values []string) ([]entities.DropTableEntry, error) {
	if len(values) == 0 {
		return nil, nil
	}
	table := make([]entities.DropTableEntry, 0, len(values))
	for _, v := range values {
		// item names may contain '=', the probability never does
		idx := strings.LastIndex(v, "=")
		if idx <= 0 {
			return nil, errors.InvalidArgumentf("--item %q: expected item=probability", v)
		}
		p, err := strconv.ParseFloat(v[idx+1:], 64)
		if err != nil {
			return nil, errors.InvalidArgumentf("--item %q: %q is not a number", v, v[idx+1:])
		}
		table = append(table, entities.DropTableEntry{ItemName: v[:idx], Probability: p})
	}
	return table, nil
}

// readDropTable loads a YAML list of drop entries
func readDropTable(path string) ([]entities.DropTableEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeNotFound, "failed to read drop table file")
	}
	var table []entities.DropTableEntry
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse drop table file")
	}
	return table, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatStats(stats map[string]int) string {
	parts := make([]string, 0, len(stats))
	for _, k := range sortedKeys(stats) {
		parts = append(parts, fmt.Sprintf("%s=%d", k, stats[k]))
	}
	return strings.Join(parts, " ")
}

func printMonster(m *entities.Monster) {
	fmt.Fprintf(stdout, "Monster: %s (%s)\n", m.Name, m.ID)
	if m.Description != "" {
		fmt.Fprintf(stdout, "  Description: %s\n", m.Description)
	}
	if m.RaceID != "" {
		fmt.Fprintf(stdout, "  Race: %s\n", m.RaceID)
	}
	fmt.Fprintf(stdout, "  Level: %d\n", m.Level)
	fmt.Fprintf(stdout, "  Base stats: %s\n", formatStats(m.BaseStats))
	if len(m.DropTable) == 0 {
		fmt.Fprintf(stdout, "  Drops: none\n")
		return
	}
	fmt.Fprintf(stdout, "  Drops:\n")
	for _, e := range m.DropTable {
		fmt.Fprintf(stdout, "    %s  %g\n", e.ItemName, e.Probability)
	}
}

func printCharacter(c *entities.Character, nextLevelExp int) {
	fmt.Fprintf(stdout, "Character: %s (%s)\n", c.Name, c.ID)
	if c.JobID != "" {
		fmt.Fprintf(stdout, "  Job: %s\n", c.JobID)
	}
	if c.RaceID != "" {
		fmt.Fprintf(stdout, "  Race: %s\n", c.RaceID)
	}
	if nextLevelExp > 0 {
		fmt.Fprintf(stdout, "  Level: %d (exp %d/%d)\n", c.Level, c.Exp, nextLevelExp)
	} else {
		fmt.Fprintf(stdout, "  Level: %d (exp %d)\n", c.Level, c.Exp)
	}
	fmt.Fprintf(stdout, "  Bonus points: %d\n", c.BonusPoints)
	fmt.Fprintf(stdout, "  Stats: %s\n", formatStats(c.Stats))
	if len(c.AllocatedBonus) > 0 {
		fmt.Fprintf(stdout, "  Allocated: %s\n", formatStats(c.AllocatedBonus))
	}
}

func printRun(run *entities.SimulationRun, showOutcomes bool) error {
	fmt.Fprintf(stdout, "Run %s for %s %s\n", run.ID, run.EntityType, run.EntityID)
	fmt.Fprintf(stdout, "  Trials: %d  Level: %d  Multiplier: %.2f\n", run.TrialCount, run.Level, run.Multiplier)

	tw := newTable()
	fmt.Fprintln(tw, "ITEM\tCOUNT\tPERCENT\tEXPECTED")
	for _, s := range run.Statistics {
		expected := "-"
		if e, ok := run.Expected[s.ItemName]; ok {
			expected = strconv.FormatFloat(e, 'f', 2, 64)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s%%\t%s\n", s.ItemName, s.Count, s.PercentageString(), expected)
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "failed to write output")
	}

	if showOutcomes {
		fmt.Fprintln(stdout, "\nOutcomes:")
		for _, o := range run.Outcomes {
			fmt.Fprintf(stdout, "  #%d %s\n", o.TrialIndex, o.ItemName)
		}
	}
	return nil
}
