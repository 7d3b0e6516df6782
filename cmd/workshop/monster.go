package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-workshop/internal/entities"
	"github.com/KirkDiggler/rpg-workshop/internal/errors"
	"github.com/KirkDiggler/rpg-workshop/internal/orchestrators/bestiary"
)

var (
	// monster create flags
	monsterID          string
	monsterName        string
	monsterDescription string
	monsterRace        string
	monsterLevel       int
	monsterStats       []string
	monsterItems       []string

	// monster set-drops flags
	dropItems []string
	dropFile  string

	// monster stats flags
	statsLevel int

	// monster import flags
	importSkipExisting bool
)

var monsterCmd = &cobra.Command{
	Use:   "monster",
	Short: "Manage monsters",
}

var monsterCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a monster",
	Long: `Create a monster. Stats that are not given start at their defaults.

  monster create --name スライム --level 3 --stat hp=30 --item スライムゼリー=0.5`,
	Args: cobra.NoArgs,
	RunE: withApp(runMonsterCreate),
}

var monsterGetCmd = &cobra.Command{
	Use:   "get [monster-id]",
	Short: "Show a monster",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runMonsterGet),
}

var monsterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List monsters",
	Args:  cobra.NoArgs,
	RunE:  withApp(runMonsterList),
}

var monsterDeleteCmd = &cobra.Command{
	Use:   "delete [monster-id]",
	Short: "Delete a monster and its stored simulation run",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runMonsterDelete),
}

var monsterSetDropsCmd = &cobra.Command{
	Use:   "set-drops [monster-id]",
	Short: "Replace a monster's drop table",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runMonsterSetDrops),
}

var monsterStatsCmd = &cobra.Command{
	Use:   "stats [monster-id]",
	Short: "Show a monster's stats at its level or at --level",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runMonsterStats),
}

var monsterImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import monsters from a YAML list",
	Long: `Import monsters from a YAML file holding a list of monsters:

  - id: slime
    name: スライム
    level: 1
    base_stats: {hp: 30}
    drop_table:
      - item_name: スライムゼリー
        probability: 0.5

Monsters without an id get a generated one.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runMonsterImport),
}

func init() {
	monsterCreateCmd.Flags().StringVar(&monsterID, "id", "", "Monster ID (generated when empty)")
	monsterCreateCmd.Flags().StringVar(&monsterName, "name", "", "Monster name")
	monsterCreateCmd.Flags().StringVar(&monsterDescription, "description", "", "Monster description")
	monsterCreateCmd.Flags().StringVar(&monsterRace, "race", "", "Race ID")
	monsterCreateCmd.Flags().IntVar(&monsterLevel, "level", 1, "Monster level")
	monsterCreateCmd.Flags().StringArrayVar(&monsterStats, "stat", nil, "Base stat as stat=value (repeatable)")
	monsterCreateCmd.Flags().StringArrayVar(&monsterItems, "item", nil, "Drop entry as item=probability (repeatable)")
	_ = monsterCreateCmd.MarkFlagRequired("name") // nolint:errcheck // flag is defined above

	monsterSetDropsCmd.Flags().StringArrayVar(&dropItems, "item", nil, "Drop entry as item=probability (repeatable)")
	monsterSetDropsCmd.Flags().StringVar(&dropFile, "table", "", "YAML file with the drop table")

	monsterStatsCmd.Flags().IntVar(&statsLevel, "level", 0, "Level to resolve at (default: monster level)")

	monsterImportCmd.Flags().BoolVar(&importSkipExisting, "skip-existing", false, "Skip monsters whose ID already exists")

	monsterCmd.AddCommand(monsterCreateCmd)
	monsterCmd.AddCommand(monsterGetCmd)
	monsterCmd.AddCommand(monsterListCmd)
	monsterCmd.AddCommand(monsterDeleteCmd)
	monsterCmd.AddCommand(monsterSetDropsCmd)
	monsterCmd.AddCommand(monsterStatsCmd)
	monsterCmd.AddCommand(monsterImportCmd)
}

func runMonsterCreate(ctx context.Context, a *app, _ []string) error {
	stats, err := parseStatFlags("stat", monsterStats)
	if err != nil {
		return err
	}
	table, err := parseDropFlags(monsterItems)
	if err != nil {
		return err
	}

	out, err := a.bestiary.CreateMonster(ctx, &bestiary.CreateMonsterInput{
		ID:          monsterID,
		Name:        monsterName,
		Description: monsterDescription,
		RaceID:      monsterRace,
		Level:       monsterLevel,
		BaseStats:   stats,
		DropTable:   table,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out.Monster)
	}
	fmt.Fprintln(stdout, "✓ Monster created")
	printMonster(out.Monster)
	return nil
}

func runMonsterGet(ctx context.Context, a *app, args []string) error {
	out, err := a.bestiary.GetMonster(ctx, &bestiary.GetMonsterInput{MonsterID: args[0]})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out.Monster)
	}
	printMonster(out.Monster)
	return nil
}

func runMonsterList(ctx context.Context, a *app, _ []string) error {
	out, err := a.bestiary.ListMonsters(ctx, &bestiary.ListMonstersInput{})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out.Monsters)
	}
	if len(out.Monsters) == 0 {
		fmt.Fprintln(stdout, "No monsters.")
		return nil
	}

	tw := newTable()
	fmt.Fprintln(tw, "ID\tNAME\tLEVEL\tRACE\tDROPS")
	for _, m := range out.Monsters {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\n", m.ID, m.Name, m.Level, m.RaceID, len(m.DropTable))
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "failed to write output")
	}
	return nil
}

func runMonsterDelete(ctx context.Context, a *app, args []string) error {
	if _, err := a.bestiary.DeleteMonster(ctx, &bestiary.DeleteMonsterInput{MonsterID: args[0]}); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(map[string]string{"deleted": args[0]})
	}
	fmt.Fprintf(stdout, "✓ Monster %s deleted\n", args[0])
	return nil
}

func runMonsterSetDrops(ctx context.Context, a *app, args []string) error {
	if dropFile != "" && len(dropItems) > 0 {
		return errors.InvalidArgument("use either --table or --item, not both")
	}

	var table []entities.DropTableEntry
	var err error
	if dropFile != "" {
		table, err = readDropTable(dropFile)
	} else {
		table, err = parseDropFlags(dropItems)
	}
	if err != nil {
		return err
	}

	out, err := a.bestiary.UpdateDropTable(ctx, &bestiary.UpdateDropTableInput{
		MonsterID: args[0],
		DropTable: table,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out.Monster)
	}
	fmt.Fprintln(stdout, "✓ Drop table updated")
	printMonster(out.Monster)
	return nil
}

func runMonsterStats(ctx context.Context, a *app, args []string) error {
	out, err := a.bestiary.ResolveMonsterStats(ctx, &bestiary.ResolveMonsterStatsInput{
		MonsterID: args[0],
		Level:     statsLevel,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(map[string]any{
			"monster_id": out.Monster.ID,
			"level":      out.Level,
			"stats":      out.Stats,
		})
	}

	fmt.Fprintf(stdout, "%s at level %d\n", out.Monster.Name, out.Level)
	tw := newTable()
	fmt.Fprintln(tw, "STAT\tLABEL\tVALUE")
	for _, spec := range a.rules.Stats {
		value, ok := out.Stats[spec.ID]
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", spec.ID, spec.Label, strconv.Itoa(value))
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "failed to write output")
	}
	return nil
}

func runMonsterImport(ctx context.Context, a *app, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeNotFound, "failed to read import file")
	}

	var monsters []entities.Monster
	if err := yaml.Unmarshal(data, &monsters); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse import file")
	}

	var created, skipped int
	for i, m := range monsters {
		_, err := a.bestiary.CreateMonster(ctx, &bestiary.CreateMonsterInput{
			ID:          m.ID,
			Name:        m.Name,
			Description: m.Description,
			RaceID:      m.RaceID,
			Level:       m.Level,
			BaseStats:   m.BaseStats,
			DropTable:   m.DropTable,
		})
		if err != nil {
			if importSkipExisting && errors.IsAlreadyExists(err) {
				slog.InfoContext(ctx, "skipping existing monster", "monster_id", m.ID)
				skipped++
				continue
			}
			return errors.Wrapf(err, "monster #%d (%s)", i+1, m.Name)
		}
		created++
	}

	if jsonOutput {
		return printJSON(map[string]int{"created": created, "skipped": skipped})
	}
	fmt.Fprintf(stdout, "✓ Imported %d monsters (%d skipped)\n", created, skipped)
	return nil
}
