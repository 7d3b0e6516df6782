// Package simulation stores the most recent drop simulation run per entity
package simulation

import (
	"context"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rpg-workshop/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=simulationmock github.com/KirkDiggler/rpg-workshop/internal/repositories/simulation Repository

// SaveInput contains parameters for storing a run
type SaveInput struct {
	// Owner is the monster or scratch table the run was made for
	Owner core.Entity

	Run *entities.SimulationRun

	// TTL controls how long the run lives. Zero uses the repository default.
	TTL time.Duration
}

// SaveOutput contains the stored run with CreatedAt/ExpiresAt filled in
type SaveOutput struct {
	Run *entities.SimulationRun

	// Replaced is true when a previous run for the same owner was overwritten
	Replaced bool
}

// GetInput contains parameters for retrieving the last run
type GetInput struct {
	Owner core.Entity
}

// GetOutput contains the last run
type GetOutput struct {
	Run *entities.SimulationRun
}

// DeleteInput contains parameters for clearing a run
type DeleteInput struct {
	Owner core.Entity
}

// DeleteOutput reports whether anything was removed
type DeleteOutput struct {
	Deleted bool
}

// Repository defines storage for ephemeral simulation runs
type Repository interface {
	// Save stores the run for its owner, replacing any previous run
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// Get retrieves the last run for an owner.
	// Returns errors.NotFound when there is none or it has expired.
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Delete clears the last run. Clearing a missing run is not an error.
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}
