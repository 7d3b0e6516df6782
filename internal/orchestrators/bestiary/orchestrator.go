// Package bestiary manages authored monsters and derives their stats
package bestiary

//go:generate mockgen -destination=mock/mock_service.go -package=bestiarymock github.com/KirkDiggler/rpg-workshop/internal/orchestrators/bestiary Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-workshop/internal/engine/drops"
	"github.com/KirkDiggler/rpg-workshop/internal/engine/growth"
	"github.com/KirkDiggler/rpg-workshop/internal/entities"
	"github.com/KirkDiggler/rpg-workshop/internal/errors"
	"github.com/KirkDiggler/rpg-workshop/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-workshop/internal/pkg/idgen"
	monsterrepo "github.com/KirkDiggler/rpg-workshop/internal/repositories/monster"
	simulationrepo "github.com/KirkDiggler/rpg-workshop/internal/repositories/simulation"
)

const (
	// MaxNameLength bounds monster names in runes
	MaxNameLength = 64
	// MaxDescriptionLength bounds monster descriptions in runes
	MaxDescriptionLength = 1000
	// MaxLevel is the highest authored monster level
	MaxLevel = 999
)

// Service defines the interface for monster operations
type Service interface {
	CreateMonster(ctx context.Context, input *CreateMonsterInput) (*CreateMonsterOutput, error)
	GetMonster(ctx context.Context, input *GetMonsterInput) (*GetMonsterOutput, error)
	ListMonsters(ctx context.Context, input *ListMonstersInput) (*ListMonstersOutput, error)
	UpdateDropTable(ctx context.Context, input *UpdateDropTableInput) (*UpdateDropTableOutput, error)
	DeleteMonster(ctx context.Context, input *DeleteMonsterInput) (*DeleteMonsterOutput, error)

	// ResolveMonsterStats applies the shared stat formula to a stored monster
	ResolveMonsterStats(ctx context.Context, input *ResolveMonsterStatsInput) (*ResolveMonsterStatsOutput, error)
}

// Config holds the dependencies for the bestiary orchestrator
type Config struct {
	MonsterRepo monsterrepo.Repository
	// SimulationRepo is optional; when set, deleting a monster clears its last run
	SimulationRepo simulationrepo.Repository
	IDGenerator    idgen.Generator
	Clock          clock.Clock
	Rules          *growth.Rules
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.MonsterRepo == nil {
		vb.RequiredField("MonsterRepo")
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

	return vb.Build()
}

type orchestrator struct {
	monsterRepo    monsterrepo.Repository
	simulationRepo simulationrepo.Repository
	idGen          idgen.Generator
	clock          clock.Clock
	rules          *growth.Rules
}

// NewOrchestrator creates a new bestiary orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		monsterRepo:    cfg.MonsterRepo,
		simulationRepo: cfg.SimulationRepo,
		idGen:          cfg.IDGenerator,
		clock:          cfg.Clock,
		rules:          cfg.Rules,
	}, nil
}

func (o *orchestrator) validateCreate(input *CreateMonsterInput) error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("name", input.Name, vb)
	errors.ValidateMaxLength("name", input.Name, MaxNameLength, vb)
	errors.ValidateMaxLength("description", input.Description, MaxDescriptionLength, vb)
	if input.Level != 0 {
		errors.ValidateRange("level", input.Level, 1, MaxLevel, vb)
	}
	if input.RaceID != "" && !o.rules.HasRace(input.RaceID) {
		vb.Fieldf("race_id", "unknown race %q", input.RaceID)
	}
	for statID := range input.BaseStats {
		if !o.rules.HasStat(statID) {
			vb.Fieldf("base_stats", "unknown stat %q", statID)
		}
	}

	if err := vb.Build(); err != nil {
		return err
	}
	return drops.ValidateTable(input.DropTable)
}

// CreateMonster stores a new monster. Stats the input omits start at their declared defaults.
func (o *orchestrator) CreateMonster(ctx context.Context, input *CreateMonsterInput) (*CreateMonsterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := o.validateCreate(input); err != nil {
		return nil, err
	}

	id := input.ID
	if id == "" {
		id = o.idGen.Generate()
	}
	level := input.Level
	if level == 0 {
		level = 1
	}

	stats := o.rules.DefaultStats()
	for statID, value := range input.BaseStats {
		stats[statID] = value
	}

	table := input.DropTable
	if table == nil {
		table = []entities.DropTableEntry{}
	}

	now := o.clock.Now().Unix()
	monster := &entities.Monster{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		RaceID:      input.RaceID,
		Level:       level,
		BaseStats:   stats,
		DropTable:   table,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	out, err := o.monsterRepo.Create(ctx, monsterrepo.CreateInput{Monster: monster})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create monster")
	}

	slog.InfoContext(ctx, "monster created",
		"monster_id", monster.ID,
		"name", monster.Name,
		"drop_entries", len(monster.DropTable))

	return &CreateMonsterOutput{Monster: out.Monster}, nil
}

// GetMonster loads a monster
func (o *orchestrator) GetMonster(ctx context.Context, input *GetMonsterInput) (*GetMonsterOutput, error) {
	if input == nil || input.MonsterID == "" {
		return nil, errors.InvalidArgument("monster ID is required")
	}

	out, err := o.monsterRepo.Get(ctx, monsterrepo.GetInput{ID: input.MonsterID})
	if err != nil {
		return nil, err
	}
	return &GetMonsterOutput{Monster: out.Monster}, nil
}

// ListMonsters returns every monster ordered by ID
func (o *orchestrator) ListMonsters(ctx context.Context, _ *ListMonstersInput) (*ListMonstersOutput, error) {
	out, err := o.monsterRepo.List(ctx, monsterrepo.ListInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list monsters")
	}
	return &ListMonstersOutput{Monsters: out.Monsters}, nil
}

// UpdateDropTable replaces a monster's drop table. The previous simulation run stays
// until it expires or the next run replaces it.
func (o *orchestrator) UpdateDropTable(ctx context.Context, input *UpdateDropTableInput) (*UpdateDropTableOutput, error) {
	if input == nil || input.MonsterID == "" {
		return nil, errors.InvalidArgument("monster ID is required")
	}
	if err := drops.ValidateTable(input.DropTable); err != nil {
		return nil, err
	}

	current, err := o.monsterRepo.Get(ctx, monsterrepo.GetInput{ID: input.MonsterID})
	if err != nil {
		return nil, err
	}

	monster := *current.Monster
	monster.DropTable = append([]entities.DropTableEntry{}, input.DropTable...)
	monster.UpdatedAt = o.clock.Now().Unix()

	out, err := o.monsterRepo.Update(ctx, monsterrepo.UpdateInput{Monster: &monster})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update drop table")
	}

	slog.InfoContext(ctx, "drop table updated",
		"monster_id", monster.ID,
		"entries_before", len(current.Monster.DropTable),
		"entries_after", len(monster.DropTable))

	return &UpdateDropTableOutput{Monster: out.Monster}, nil
}

// DeleteMonster removes a monster and, when configured, its last simulation run
func (o *orchestrator) DeleteMonster(ctx context.Context, input *DeleteMonsterInput) (*DeleteMonsterOutput, error) {
	if input == nil || input.MonsterID == "" {
		return nil, errors.InvalidArgument("monster ID is required")
	}

	if _, err := o.monsterRepo.Delete(ctx, monsterrepo.DeleteInput{ID: input.MonsterID}); err != nil {
		return nil, err
	}

	if o.simulationRepo != nil {
		owner := &entities.Monster{ID: input.MonsterID}
		if _, err := o.simulationRepo.Delete(ctx, simulationrepo.DeleteInput{Owner: owner}); err != nil {
			// the run expires on its own
			slog.WarnContext(ctx, "failed to clear simulation run for deleted monster",
				"monster_id", input.MonsterID,
				"error", err.Error())
		}
	}

	slog.InfoContext(ctx, "monster deleted", "monster_id", input.MonsterID)
	return &DeleteMonsterOutput{}, nil
}

// ResolveMonsterStats returns the monster's stats at its authored level or at input.Level
func (o *orchestrator) ResolveMonsterStats(
	ctx context.Context,
	input *ResolveMonsterStatsInput,
) (*ResolveMonsterStatsOutput, error) {
	if input == nil || input.MonsterID == "" {
		return nil, errors.InvalidArgument("monster ID is required")
	}
	if input.Level < 0 || input.Level > MaxLevel {
		return nil, errors.OutOfRangef("level must be between 1 and %d, got %d", MaxLevel, input.Level)
	}

	out, err := o.monsterRepo.Get(ctx, monsterrepo.GetInput{ID: input.MonsterID})
	if err != nil {
		return nil, err
	}

	level := input.Level
	if level == 0 {
		level = out.Monster.Level
	}

	stats := growth.ResolveStats(o.rules, growth.SubjectFromMonster(out.Monster, level))

	return &ResolveMonsterStatsOutput{
		Monster: out.Monster,
		Level:   level,
		Stats:   stats,
	}, nil
}
