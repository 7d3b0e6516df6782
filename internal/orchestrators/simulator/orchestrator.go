// Package simulator runs drop simulations against monster or inline drop
// tables and keeps the most recent run per table.
package simulator

//go:generate mockgen -destination=mock/mock_service.go -package=simulatormock github.com/KirkDiggler/rpg-workshop/internal/orchestrators/simulator Service

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rpg-workshop/internal/engine/drops"
	"github.com/KirkDiggler/rpg-workshop/internal/entities"
	"github.com/KirkDiggler/rpg-workshop/internal/errors"
	"github.com/KirkDiggler/rpg-workshop/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-workshop/internal/pkg/rng"
	monsterrepo "github.com/KirkDiggler/rpg-workshop/internal/repositories/monster"
	simulationrepo "github.com/KirkDiggler/rpg-workshop/internal/repositories/simulation"
)

const (
	// DefaultMaxTrials bounds a single run when Config.MaxTrials is zero
	DefaultMaxTrials = 100000

	// DefaultTableName keys runs of unnamed inline tables
	DefaultTableName = "scratch"
)

// Service defines the interface for drop simulation operations
type Service interface {
	RunSimulation(ctx context.Context, input *RunSimulationInput) (*RunSimulationOutput, error)
	GetLastRun(ctx context.Context, input *GetLastRunInput) (*GetLastRunOutput, error)
	ClearRun(ctx context.Context, input *ClearRunInput) (*ClearRunOutput, error)

	// CalculateExpectedValues forecasts item counts without sampling or storing anything
	CalculateExpectedValues(ctx context.Context, input *CalculateExpectedValuesInput) (*CalculateExpectedValuesOutput, error)
}

// Config holds the dependencies for the simulator orchestrator
type Config struct {
	MonsterRepo    monsterrepo.Repository
	SimulationRepo simulationrepo.Repository
	IDGenerator    idgen.Generator
	Source         rng.Source

	MaxTrials int
	RunTTL    time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.MonsterRepo == nil {
		vb.RequiredField("MonsterRepo")
	}
	if c.SimulationRepo == nil {
		vb.RequiredField("SimulationRepo")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Source == nil {
		vb.RequiredField("Source")
	}
	if c.MaxTrials < 0 {
		vb.InvalidField("MaxTrials", "must not be negative")
	}
	if c.RunTTL < 0 {
		vb.InvalidField("RunTTL", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	monsterRepo    monsterrepo.Repository
	simulationRepo simulationrepo.Repository
	idGen          idgen.Generator
	source         rng.Source
	maxTrials      int
	runTTL         time.Duration
}

// NewOrchestrator creates a new simulator orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	maxTrials := cfg.MaxTrials
	if maxTrials == 0 {
		maxTrials = DefaultMaxTrials
	}

	return &orchestrator{
		monsterRepo:    cfg.MonsterRepo,
		simulationRepo: cfg.SimulationRepo,
		idGen:          cfg.IDGenerator,
		source:         cfg.Source,
		maxTrials:      maxTrials,
		runTTL:         cfg.RunTTL,
	}, nil
}

// resolvedTarget is a target after the monster lookup
type resolvedTarget struct {
	owner        core.Entity
	table        []entities.DropTableEntry
	defaultLevel int
}

func (o *orchestrator) resolveTarget(ctx context.Context, t Target, needTable bool) (*resolvedTarget, error) {
	if t.MonsterID != "" && t.Table != nil {
		return nil, errors.InvalidArgument("specify either a monster or an inline drop table, not both")
	}

	if t.MonsterID != "" {
		if !needTable {
			return &resolvedTarget{owner: &entities.Monster{ID: t.MonsterID}, defaultLevel: 1}, nil
		}
		out, err := o.monsterRepo.Get(ctx, monsterrepo.GetInput{ID: t.MonsterID})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load monster %s", t.MonsterID)
		}
		// stored tables predate validation, so check them on every load
		if err := drops.ValidateTable(out.Monster.DropTable); err != nil {
			return nil, errors.WrapWithCodef(err, errors.CodeFailedPrecondition,
				"stored drop table of monster %s is invalid", t.MonsterID)
		}
		level := out.Monster.Level
		if level < 1 {
			level = 1
		}
		return &resolvedTarget{owner: out.Monster, table: out.Monster.DropTable, defaultLevel: level}, nil
	}

	if needTable && t.Table == nil {
		return nil, errors.InvalidArgument("a monster or an inline drop table is required")
	}

	name := t.TableName
	if name == "" {
		name = DefaultTableName
	}
	if needTable {
		if err := drops.ValidateTable(t.Table); err != nil {
			return nil, err
		}
	}
	return &resolvedTarget{owner: entities.ScratchTable{Name: name}, table: t.Table, defaultLevel: 1}, nil
}

func (o *orchestrator) validateTrials(trialCount, level int) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("trial_count", trialCount, 1, o.maxTrials, vb)
	if level < 0 {
		vb.InvalidField("level", "must not be negative")
	}
	return vb.Build()
}

// RunSimulation samples the target's table and stores the run, replacing the previous one
func (o *orchestrator) RunSimulation(ctx context.Context, input *RunSimulationInput) (*RunSimulationOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := o.validateTrials(input.TrialCount, input.Level); err != nil {
		return nil, err
	}

	target, err := o.resolveTarget(ctx, input.Target, true)
	if err != nil {
		return nil, err
	}

	level := input.Level
	if level == 0 {
		level = target.defaultLevel
	}

	src := input.Source
	if src == nil {
		src = o.source
	}

	result, err := drops.RunSimulation(target.table, input.TrialCount, level, src)
	if err != nil {
		return nil, errors.Wrap(err, "simulation failed")
	}

	run := &entities.SimulationRun{
		ID:         o.idGen.Generate(),
		TrialCount: input.TrialCount,
		Level:      level,
		Multiplier: drops.LevelMultiplier(level),
		Outcomes:   result.Outcomes,
		Counts:     result.Counts,
		Expected:   drops.CalculateExpectedValues(target.table, input.TrialCount, level),
		Statistics: drops.GetStatistics(result.Counts, input.TrialCount),
	}

	saved, err := o.simulationRepo.Save(ctx, simulationrepo.SaveInput{
		Owner: target.owner,
		Run:   run,
		TTL:   o.runTTL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to store simulation run")
	}

	slog.InfoContext(ctx, "drop simulation completed",
		"run_id", saved.Run.ID,
		"owner_type", target.owner.GetType(),
		"owner_id", target.owner.GetID(),
		"trials", input.TrialCount,
		"level", level,
		"outcomes", len(result.Outcomes),
		"replaced", saved.Replaced)

	return &RunSimulationOutput{Run: saved.Run, Replaced: saved.Replaced}, nil
}

// GetLastRun returns the stored run for the target
func (o *orchestrator) GetLastRun(ctx context.Context, input *GetLastRunInput) (*GetLastRunOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	target, err := o.resolveTarget(ctx, input.Target, false)
	if err != nil {
		return nil, err
	}

	out, err := o.simulationRepo.Get(ctx, simulationrepo.GetInput{Owner: target.owner})
	if err != nil {
		return nil, err
	}

	return &GetLastRunOutput{Run: out.Run}, nil
}

// ClearRun discards the stored run for the target
func (o *orchestrator) ClearRun(ctx context.Context, input *ClearRunInput) (*ClearRunOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	target, err := o.resolveTarget(ctx, input.Target, false)
	if err != nil {
		return nil, err
	}

	out, err := o.simulationRepo.Delete(ctx, simulationrepo.DeleteInput{Owner: target.owner})
	if err != nil {
		return nil, errors.Wrap(err, "failed to clear simulation run")
	}

	slog.DebugContext(ctx, "simulation run cleared",
		"owner_type", target.owner.GetType(),
		"owner_id", target.owner.GetID(),
		"cleared", out.Deleted)

	return &ClearRunOutput{Cleared: out.Deleted}, nil
}

// CalculateExpectedValues forecasts item counts for the target
func (o *orchestrator) CalculateExpectedValues(
	ctx context.Context,
	input *CalculateExpectedValuesInput,
) (*CalculateExpectedValuesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := o.validateTrials(input.TrialCount, input.Level); err != nil {
		return nil, err
	}

	target, err := o.resolveTarget(ctx, input.Target, true)
	if err != nil {
		return nil, err
	}

	level := input.Level
	if level == 0 {
		level = target.defaultLevel
	}

	return &CalculateExpectedValuesOutput{
		Level:      level,
		Multiplier: drops.LevelMultiplier(level),
		Expected:   drops.CalculateExpectedValues(target.table, input.TrialCount, level),
	}, nil
}
