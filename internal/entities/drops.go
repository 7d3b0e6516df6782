package entities

import "fmt"

// NoDropItemName marks a trial that produced zero items
const NoDropItemName = "なし"

// DropTableEntry is one independently rolled line of a monster's drop table.
// Probability is not normalised: values above 1 mean guaranteed extra copies.
type DropTableEntry struct {
	ItemName    string  `json:"item_name" yaml:"item_name"`
	Probability float64 `json:"probability" yaml:"probability"`
}

// TrialOutcome records one dropped item (or NoDropItemName) for a trial.
// A trial that drops several items produces several outcomes with the same TrialIndex.
type TrialOutcome struct {
	TrialIndex int    `json:"trial_index"`
	ItemName   string `json:"item_name"`
}

// IsNoDrop reports whether the outcome is the "nothing dropped" marker
func (o TrialOutcome) IsNoDrop() bool {
	return o.ItemName == NoDropItemName
}

// ItemStatistic summarises how often an item dropped during a run
type ItemStatistic struct {
	ItemName   string  `json:"item_name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// PercentageString formats the percentage with two decimals, e.g. "12.50"
func (s ItemStatistic) PercentageString() string {
	return fmt.Sprintf("%.2f", s.Percentage)
}

// SimulationRun is the stored result of the latest simulation for an entity.
// A new run for the same entity replaces it.
type SimulationRun struct {
	ID         string             `json:"id"`
	EntityID   string             `json:"entity_id"`
	EntityType string             `json:"entity_type"`
	TrialCount int                `json:"trial_count"`
	Level      int                `json:"level"`
	Multiplier float64            `json:"multiplier"`
	Outcomes   []TrialOutcome     `json:"outcomes"`
	Counts     map[string]int     `json:"counts"`
	Expected   map[string]float64 `json:"expected"`
	Statistics []ItemStatistic    `json:"statistics"`
	CreatedAt  int64              `json:"created_at"`
	ExpiresAt  int64              `json:"expires_at"`
}

// GetID returns the run ID
func (r *SimulationRun) GetID() string {
	return r.ID
}

// GetType returns the entity type used in storage keys
func (r *SimulationRun) GetType() string {
	return EntityTypeSimulationRun
}
