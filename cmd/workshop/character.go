package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-workshop/internal/errors"
	"github.com/KirkDiggler/rpg-workshop/internal/orchestrators/character"
)

var (
	// character create flags
	characterName  string
	characterJob   string
	characterRace  string
	characterStats []string

	// character preview flags
	previewJob     string
	previewRace    string
	previewLevel   int
	previewStats   []string
	previewPending []string
)

var characterCmd = &cobra.Command{
	Use:   "character",
	Short: "Manage characters and their progression",
}

var characterCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a level 1 character",
	Args:  cobra.NoArgs,
	RunE:  withApp(runCharacterCreate),
}

var characterGetCmd = &cobra.Command{
	Use:   "get [character-id]",
	Short: "Show a character",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runCharacterGet),
}

var characterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List characters",
	Args:  cobra.NoArgs,
	RunE:  withApp(runCharacterList),
}

var characterDeleteCmd = &cobra.Command{
	Use:   "delete [character-id]",
	Short: "Delete a character",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runCharacterDelete),
}

var characterPreviewCmd = &cobra.Command{
	Use:   "preview [character-id]",
	Short: "Preview stats with pending bonus points",
	Long: `Preview stats without saving anything. Pass a character ID to preview a
stored character, or describe a draft with --job, --race, --level and --stat.

  character preview char_123 --pending hp=2
  character preview --job warrior --level 5 --pending attack=3`,
	Args: cobra.MaximumNArgs(1),
	RunE: withApp(runCharacterPreview),
}

var characterAllocateCmd = &cobra.Command{
	Use:   "allocate [character-id] [stat] [points]",
	Short: "Spend (positive) or refund (negative) bonus points",
	Args:  cobra.ExactArgs(3),
	RunE:  withApp(runCharacterAllocate),
}

var characterAddExpCmd = &cobra.Command{
	Use:   "add-exp [character-id] [amount]",
	Short: "Grant experience and apply level-ups",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(runCharacterAddExp),
}

func init() {
	characterCreateCmd.Flags().StringVar(&characterName, "name", "", "Character name")
	characterCreateCmd.Flags().StringVar(&characterJob, "job", "", "Job ID")
	characterCreateCmd.Flags().StringVar(&characterRace, "race", "", "Race ID")
	characterCreateCmd.Flags().StringArrayVar(&characterStats, "stat", nil, "Base stat as stat=value (repeatable)")
	_ = characterCreateCmd.MarkFlagRequired("name") // nolint:errcheck // flag is defined above

	characterPreviewCmd.Flags().StringVar(&previewJob, "job", "", "Draft job ID")
	characterPreviewCmd.Flags().StringVar(&previewRace, "race", "", "Draft race ID")
	characterPreviewCmd.Flags().IntVar(&previewLevel, "level", 1, "Draft level")
	characterPreviewCmd.Flags().StringArrayVar(&previewStats, "stat", nil, "Draft base stat as stat=value (repeatable)")
	characterPreviewCmd.Flags().StringArrayVar(&previewPending, "pending", nil, "Pending bonus points as stat=points (repeatable)")

	characterCmd.AddCommand(characterCreateCmd)
	characterCmd.AddCommand(characterGetCmd)
	characterCmd.AddCommand(characterListCmd)
	characterCmd.AddCommand(characterDeleteCmd)
	characterCmd.AddCommand(characterPreviewCmd)
	characterCmd.AddCommand(characterAllocateCmd)
	characterCmd.AddCommand(characterAddExpCmd)
}

func runCharacterCreate(ctx context.Context, a *app, _ []string) error {
	stats, err := parseStatFlags("stat", characterStats)
	if err != nil {
		return err
	}

	out, err := a.characters.CreateCharacter(ctx, &character.CreateCharacterInput{
		Name:      characterName,
		JobID:     characterJob,
		RaceID:    characterRace,
		BaseStats: stats,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out.Character)
	}
	fmt.Fprintln(stdout, "✓ Character created")
	printCharacter(out.Character, 0)
	return nil
}

func runCharacterGet(ctx context.Context, a *app, args []string) error {
	out, err := a.characters.GetCharacter(ctx, &character.GetCharacterInput{CharacterID: args[0]})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out)
	}
	printCharacter(out.Character, out.NextLevelExp)
	if n := len(out.Character.LevelHistory); n > 0 {
		last := out.Character.LevelHistory[n-1]
		fmt.Fprintf(stdout, "  Last level-up: level %d\n", last.Level)
	}
	return nil
}

func runCharacterList(ctx context.Context, a *app, _ []string) error {
	out, err := a.characters.ListCharacters(ctx, &character.ListCharactersInput{})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out.Characters)
	}
	if len(out.Characters) == 0 {
		fmt.Fprintln(stdout, "No characters.")
		return nil
	}

	tw := newTable()
	fmt.Fprintln(tw, "ID\tNAME\tJOB\tRACE\tLEVEL\tBONUS")
	for _, c := range out.Characters {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n", c.ID, c.Name, c.JobID, c.RaceID, c.Level, c.BonusPoints)
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "failed to write output")
	}
	return nil
}

func runCharacterDelete(ctx context.Context, a *app, args []string) error {
	if _, err := a.characters.DeleteCharacter(ctx, &character.DeleteCharacterInput{CharacterID: args[0]}); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(map[string]string{"deleted": args[0]})
	}
	fmt.Fprintf(stdout, "✓ Character %s deleted\n", args[0])
	return nil
}

func runCharacterPreview(ctx context.Context, a *app, args []string) error {
	pending, err := parseStatFlags("pending", previewPending)
	if err != nil {
		return err
	}

	input := &character.PreviewStatsInput{Pending: pending}
	if len(args) == 1 {
		input.CharacterID = args[0]
	} else {
		base, err := parseStatFlags("stat", previewStats)
		if err != nil {
			return err
		}
		input.Draft = &character.Draft{
			JobID:     previewJob,
			RaceID:    previewRace,
			Level:     previewLevel,
			BaseStats: base,
		}
	}

	out, err := a.characters.PreviewStats(ctx, input)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out)
	}

	fmt.Fprintf(stdout, "Preview at level %d (remaining bonus points: %d)\n", out.Level, out.RemainingBonusPoints)
	tw := newTable()
	fmt.Fprintln(tw, "STAT\tLABEL\tVALUE\tCHANGE")
	for _, spec := range a.rules.Stats {
		value, ok := out.Stats[spec.ID]
		if !ok {
			continue
		}
		change := ""
		if d := out.Delta[spec.ID]; d != 0 {
			change = fmt.Sprintf("%+d", d)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", spec.ID, spec.Label, value, change)
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "failed to write output")
	}
	return nil
}

func runCharacterAllocate(ctx context.Context, a *app, args []string) error {
	points, err := strconv.Atoi(args[2])
	if err != nil {
		return errors.InvalidArgumentf("points %q is not an integer", args[2])
	}

	out, err := a.characters.AllocateBonusPoint(ctx, &character.AllocateBonusPointInput{
		CharacterID: args[0],
		StatID:      args[1],
		Delta:       points,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out)
	}
	fmt.Fprintf(stdout, "✓ %s %+d (%d points applied)\n", args[1], out.Result.StatDelta, out.Result.Applied)
	printCharacter(out.Character, 0)
	return nil
}

func runCharacterAddExp(ctx context.Context, a *app, args []string) error {
	amount, err := strconv.Atoi(args[1])
	if err != nil {
		return errors.InvalidArgumentf("amount %q is not an integer", args[1])
	}

	out, err := a.characters.AddExperience(ctx, &character.AddExperienceInput{
		CharacterID: args[0],
		Amount:      amount,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out)
	}
	for _, rec := range out.LevelUps {
		fmt.Fprintf(stdout, "⬆ Level %d\n", rec.Level)
		for _, statID := range sortedKeys(rec.StatsAfter) {
			if d := rec.StatsAfter[statID] - rec.StatsBefore[statID]; d != 0 {
				fmt.Fprintf(stdout, "    %s %d → %d\n", statID, rec.StatsBefore[statID], rec.StatsAfter[statID])
			}
		}
	}
	printCharacter(out.Character, 0)
	return nil
}
