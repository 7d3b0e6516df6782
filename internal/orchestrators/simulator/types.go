package simulator

import (
	"github.com/KirkDiggler/rpg-workshop/internal/entities"
	"github.com/KirkDiggler/rpg-workshop/internal/pkg/rng"
)

// Target selects the drop table a request works on: a stored monster or an
// inline table. Exactly one of MonsterID and Table must be set.
type Target struct {
	MonsterID string

	Table []entities.DropTableEntry
	// TableName keys the stored run of an inline table. Defaults to DefaultTableName.
	TableName string
}

// RunSimulationInput defines the request for running a drop simulation
type RunSimulationInput struct {
	Target

	TrialCount int
	// Level scales probabilities. Zero uses the monster's level, or 1 for inline tables.
	Level int

	// Source overrides the orchestrator's random source, e.g. for seeded runs
	Source rng.Source
}

// RunSimulationOutput defines the response for running a drop simulation
type RunSimulationOutput struct {
	Run *entities.SimulationRun
	// Replaced is true when a previous run for the same target was overwritten
	Replaced bool
}

// GetLastRunInput defines the request for reading the stored run
type GetLastRunInput struct {
	Target
}

// GetLastRunOutput defines the response for reading the stored run
type GetLastRunOutput struct {
	Run *entities.SimulationRun
}

// ClearRunInput defines the request for discarding the stored run
type ClearRunInput struct {
	Target
}

// ClearRunOutput defines the response for discarding the stored run
type ClearRunOutput struct {
	Cleared bool
}

// CalculateExpectedValuesInput defines the request for a forecast
type CalculateExpectedValuesInput struct {
	Target

	TrialCount int
	Level      int
}

// CalculateExpectedValuesOutput defines the response for a forecast
type CalculateExpectedValuesOutput struct {
	Level      int
	Multiplier float64
	Expected   map[string]float64
}
