// Package monster provides the interface for monster persistence
package monster

//go:generate mockgen -destination=mock/mock_repository.go -package=monstermock github.com/KirkDiggler/rpg-workshop/internal/repositories/monster Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-workshop/internal/entities"
)

// Repository defines the interface for monster persistence
type Repository interface {
	// Create stores a new monster
	// Returns errors.InvalidArgument for a nil monster or empty ID
	// Returns errors.AlreadyExists if a monster with the same ID exists
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a monster by ID
	// Returns errors.NotFound if the monster doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces an existing monster
	// Returns errors.NotFound if the monster doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes a monster and its index entry
	// Returns errors.NotFound if the monster doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// List returns every stored monster ordered by ID
	List(ctx context.Context, input ListInput) (*ListOutput, error)
}

// CreateInput defines the input for creating a monster
type CreateInput struct {
	Monster *entities.Monster
}

// CreateOutput defines the output for creating a monster
type CreateOutput struct {
	Monster *entities.Monster
}

// GetInput defines the input for getting a monster
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a monster
type GetOutput struct {
	Monster *entities.Monster
}

// UpdateInput defines the input for updating a monster
type UpdateInput struct {
	Monster *entities.Monster
}

// UpdateOutput defines the output for updating a monster
type UpdateOutput struct {
	Monster *entities.Monster
}

// DeleteInput defines the input for deleting a monster
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a monster
type DeleteOutput struct{}

// ListInput defines the input for listing monsters
type ListInput struct{}

// ListOutput defines the output for listing monsters
type ListOutput struct {
	Monsters []*entities.Monster
}
