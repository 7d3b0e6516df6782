// Package character manages characters and their progression: stat previews,
// bonus point allocation and experience driven level-ups.
package character

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-workshop/internal/engine/growth"
	"github.com/KirkDiggler/rpg-workshop/internal/entities"
	"github.com/KirkDiggler/rpg-workshop/internal/errors"
	"github.com/KirkDiggler/rpg-workshop/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-workshop/internal/pkg/idgen"
	characterrepo "github.com/KirkDiggler/rpg-workshop/internal/repositories/character"
)

const (
	// MaxNameLength bounds character names in runes
	MaxNameLength = 32
	// MaxDraftLevel bounds the level of a previewed draft
	MaxDraftLevel = 999
)

// Config holds the dependencies for the character orchestrator
type Config struct {
	CharacterRepo characterrepo.Repository
	IDGenerator   idgen.Generator
	Clock         clock.Clock
	Rules         *growth.Rules

	// MaxLevelHistory caps stored level-up records; 0 keeps all
	MaxLevelHistory int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.Rules == nil {
		vb.RequiredField("Rules")
	}
	if c.MaxLevelHistory < 0 {
		vb.InvalidField("MaxLevelHistory", "must not be negative")
	}

	return vb.Build()
}

// Orchestrator implements Service
type Orchestrator struct {
	charRepo   characterrepo.Repository
	idGen      idgen.Generator
	clock      clock.Clock
	rules      *growth.Rules
	maxHistory int
}

// New creates a new character orchestrator
func New(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Orchestrator{
		charRepo:   cfg.CharacterRepo,
		idGen:      cfg.IDGenerator,
		clock:      cfg.Clock,
		rules:      cfg.Rules,
		maxHistory: cfg.MaxLevelHistory,
	}, nil
}

var _ Service = (*Orchestrator)(nil)

// CreateCharacter creates a level 1 character with stats at their declared defaults
func (o *Orchestrator) CreateCharacter(
	ctx context.Context,
	input *CreateCharacterInput,
) (*CreateCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", input.Name, vb)
	errors.ValidateMaxLength("name", input.Name, MaxNameLength, vb)
	o.validateCategory(input.JobID, input.RaceID, vb)
	o.validateStatKeys("base_stats", input.BaseStats, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	base := o.rules.DefaultStats()
	for statID, value := range input.BaseStats {
		base[statID] = value
	}

	now := o.clock.Now().Unix()
	c := &entities.Character{
		ID:             o.idGen.Generate(),
		Name:           input.Name,
		JobID:          input.JobID,
		RaceID:         input.RaceID,
		Level:          1,
		BaseStats:      base,
		AllocatedBonus: map[string]int{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	c.Stats = growth.ResolveStats(o.rules, growth.SubjectFromCharacter(c))

	out, err := o.charRepo.Create(ctx, characterrepo.CreateInput{Character: c})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create character")
	}

	slog.InfoContext(ctx, "character created",
		"character_id", c.ID,
		"job_id", c.JobID,
		"race_id", c.RaceID)

	return &CreateCharacterOutput{Character: out.Character}, nil
}

// GetCharacter loads a character
func (o *Orchestrator) GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error) {
	c, err := o.load(ctx, input.characterID())
	if err != nil {
		return nil, err
	}
	return &GetCharacterOutput{
		Character:    c,
		NextLevelExp: growth.RequiredExpForNextLevel(c.Level),
	}, nil
}

// ListCharacters returns every character ordered by ID
func (o *Orchestrator) ListCharacters(ctx context.Context, _ *ListCharactersInput) (*ListCharactersOutput, error) {
	out, err := o.charRepo.List(ctx, characterrepo.ListInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}
	return &ListCharactersOutput{Characters: out.Characters}, nil
}

// DeleteCharacter removes a character
func (o *Orchestrator) DeleteCharacter(
	ctx context.Context,
	input *DeleteCharacterInput,
) (*DeleteCharacterOutput, error) {
	if input == nil || input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	if _, err := o.charRepo.Delete(ctx, characterrepo.DeleteInput{ID: input.CharacterID}); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "character deleted", "character_id", input.CharacterID)
	return &DeleteCharacterOutput{}, nil
}

// PreviewStats resolves stats for a stored character or a draft with pending
// allocations applied. Nothing is written.
func (o *Orchestrator) PreviewStats(ctx context.Context, input *PreviewStatsInput) (*PreviewStatsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if (input.CharacterID == "") == (input.Draft == nil) {
		return nil, errors.InvalidArgument("specify either a character ID or a draft")
	}

	vb := errors.NewValidationBuilder()
	o.validateStatKeys("pending", input.Pending, vb)

	var subject growth.Subject
	var available int
	if input.Draft != nil {
		d := input.Draft
		if d.Level != 0 {
			errors.ValidateRange("level", d.Level, 1, MaxDraftLevel, vb)
		}
		o.validateCategory(d.JobID, d.RaceID, vb)
		o.validateStatKeys("base_stats", d.BaseStats, vb)
		if err := vb.Build(); err != nil {
			return nil, err
		}

		level := d.Level
		if level == 0 {
			level = 1
		}
		base := o.rules.DefaultStats()
		for statID, value := range d.BaseStats {
			base[statID] = value
		}
		subject = growth.Subject{Level: level, JobID: d.JobID, RaceID: d.RaceID, BaseStats: base}
		available = (level - 1) * growth.BonusPointsPerLevel
	} else {
		if err := vb.Build(); err != nil {
			return nil, err
		}
		c, err := o.load(ctx, input.CharacterID)
		if err != nil {
			return nil, err
		}
		subject = growth.SubjectFromCharacter(c)
		available = c.BonusPoints
	}

	withPending := subject
	withPending.Allocated = make(map[string]int, len(subject.Allocated)+len(input.Pending))
	for statID, points := range subject.Allocated {
		withPending.Allocated[statID] = points
	}
	spent := 0
	for statID, points := range input.Pending {
		withPending.Allocated[statID] += points
		if withPending.Allocated[statID] < 0 {
			return nil, errors.FailedPreconditionf("cannot refund %d points from %s", -points, statID)
		}
		spent += points
	}
	if spent > available {
		return nil, errors.FailedPreconditionf("pending allocations need %d bonus points, %d available", spent, available)
	}

	before := growth.ResolveStats(o.rules, subject)
	after := growth.ResolveStats(o.rules, withPending)
	delta := make(map[string]int)
	for statID, value := range after {
		if d := value - before[statID]; d != 0 {
			delta[statID] = d
		}
	}

	return &PreviewStatsOutput{
		Level:                subject.Level,
		Stats:                after,
		Delta:                delta,
		RemainingBonusPoints: available - spent,
	}, nil
}

// AllocateBonusPoint spends or refunds bonus points and persists the character.
// A rejected allocation returns FailedPrecondition and stores nothing.
func (o *Orchestrator) AllocateBonusPoint(
	ctx context.Context,
	input *AllocateBonusPointInput,
) (*AllocateBonusPointOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if !o.rules.HasStat(input.StatID) {
		return nil, errors.InvalidArgumentf("unknown stat %q", input.StatID)
	}

	c, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	result := growth.AllocateBonusPoint(c, input.StatID, input.Delta)
	if !result.OK {
		return nil, errors.FailedPreconditionf("cannot allocate %d points to %s", input.Delta, input.StatID).
			WithMeta("reason", string(result.Reason)).
			WithMeta("bonus_points", c.BonusPoints)
	}

	out, err := o.charRepo.Update(ctx, characterrepo.UpdateInput{Character: c})
	if err != nil {
		return nil, errors.Wrap(err, "failed to save allocation")
	}

	slog.InfoContext(ctx, "bonus points allocated",
		"character_id", c.ID,
		"stat_id", input.StatID,
		"applied", result.Applied,
		"stat_delta", result.StatDelta,
		"bonus_points", c.BonusPoints)

	return &AllocateBonusPointOutput{Character: out.Character, Result: result}, nil
}

// AddExperience grants experience, applies every earned level-up and persists
// the character. Stored history keeps only the newest MaxLevelHistory records.
func (o *Orchestrator) AddExperience(ctx context.Context, input *AddExperienceInput) (*AddExperienceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Amount <= 0 {
		return nil, errors.InvalidArgumentf("experience amount must be positive, got %d", input.Amount)
	}

	c, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	levelBefore := c.Level
	records := growth.AddExp(o.rules, c, input.Amount, o.clock.Now())
	if o.maxHistory > 0 && len(c.LevelHistory) > o.maxHistory {
		c.LevelHistory = append([]entities.LevelUpRecord(nil), c.LevelHistory[len(c.LevelHistory)-o.maxHistory:]...)
	}

	out, err := o.charRepo.Update(ctx, characterrepo.UpdateInput{Character: c})
	if err != nil {
		return nil, errors.Wrap(err, "failed to save experience")
	}

	if len(records) > 0 {
		slog.InfoContext(ctx, "character leveled up",
			"character_id", c.ID,
			"level_before", levelBefore,
			"level_after", c.Level,
			"bonus_points", c.BonusPoints)
	}

	return &AddExperienceOutput{Character: out.Character, LevelUps: records}, nil
}

func (o *Orchestrator) load(ctx context.Context, id string) (*entities.Character, error) {
	if id == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	out, err := o.charRepo.Get(ctx, characterrepo.GetInput{ID: id})
	if err != nil {
		return nil, err
	}
	return out.Character, nil
}

func (o *Orchestrator) validateCategory(jobID, raceID string, vb *errors.ValidationBuilder) {
	if jobID != "" && !o.rules.HasJob(jobID) {
		vb.Fieldf("job_id", "unknown job %q", jobID)
	}
	if raceID != "" && !o.rules.HasRace(raceID) {
		vb.Fieldf("race_id", "unknown race %q", raceID)
	}
}

func (o *Orchestrator) validateStatKeys(field string, stats map[string]int, vb *errors.ValidationBuilder) {
	for statID := range stats {
		if !o.rules.HasStat(statID) {
			vb.Fieldf(field, "unknown stat %q", statID)
		}
	}
}

func (in *GetCharacterInput) characterID() string {
	if in == nil {
		return ""
	}
	return in.CharacterID
}
