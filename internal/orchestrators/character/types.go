package character

import (
	"context"

	"github.com/KirkDiggler/rpg-workshop/internal/engine/growth"
	"github.com/KirkDiggler/rpg-workshop/internal/entities"
)

//go:generate mockgen -destination=mock/mock_service.go -package=charactermock github.com/KirkDiggler/rpg-workshop/internal/orchestrators/character Service

// Service defines the character orchestrator interface
type Service interface {
	// Character lifecycle
	CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error)
	GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error)
	ListCharacters(ctx context.Context, input *ListCharactersInput) (*ListCharactersOutput, error)
	DeleteCharacter(ctx context.Context, input *DeleteCharacterInput) (*DeleteCharacterOutput, error)

	// PreviewStats computes stats without persisting anything
	PreviewStats(ctx context.Context, input *PreviewStatsInput) (*PreviewStatsOutput, error)

	// Progression
	AllocateBonusPoint(ctx context.Context, input *AllocateBonusPointInput) (*AllocateBonusPointOutput, error)
	AddExperience(ctx context.Context, input *AddExperienceInput) (*AddExperienceOutput, error)
}

// CreateCharacterInput defines the request for creating a character
type CreateCharacterInput struct {
	Name   string
	JobID  string
	RaceID string
	// BaseStats overrides the declared defaults for the listed stats
	BaseStats map[string]int
}

// CreateCharacterOutput defines the response for creating a character
type CreateCharacterOutput struct {
	Character *entities.Character
}

// GetCharacterInput defines the request for getting a character
type GetCharacterInput struct {
	CharacterID string
}

// GetCharacterOutput defines the response for getting a character
type GetCharacterOutput struct {
	Character *entities.Character
	// NextLevelExp is the experience needed to leave the current level
	NextLevelExp int
}

// ListCharactersInput defines the request for listing characters
type ListCharactersInput struct{}

// ListCharactersOutput defines the response for listing characters
type ListCharactersOutput struct {
	Characters []*entities.Character
}

// DeleteCharacterInput defines the request for deleting a character
type DeleteCharacterInput struct {
	CharacterID string
}

// DeleteCharacterOutput defines the response for deleting a character
type DeleteCharacterOutput struct{}

// Draft describes a character that has not been saved
type Draft struct {
	JobID     string
	RaceID    string
	Level     int
	BaseStats map[string]int
}

// PreviewStatsInput defines the request for a stat preview.
// Exactly one of CharacterID and Draft must be set.
type PreviewStatsInput struct {
	CharacterID string
	Draft       *Draft

	// Pending are bonus point changes per stat that have not been committed
	Pending map[string]int
}

// PreviewStatsOutput defines the response for a stat preview
type PreviewStatsOutput struct {
	Level int
	Stats map[string]int
	// Delta is Stats minus the stats without Pending
	Delta map[string]int
	// RemainingBonusPoints is what would be left after Pending; zero for drafts
	RemainingBonusPoints int
}

// AllocateBonusPointInput defines the request for spending or refunding bonus points
type AllocateBonusPointInput struct {
	CharacterID string
	StatID      string
	// Delta is positive to spend and negative to refund
	Delta int
}

// AllocateBonusPointOutput defines the response for a successful allocation
type AllocateBonusPointOutput struct {
	Character *entities.Character
	Result    growth.AllocationResult
}

// AddExperienceInput defines the request for granting experience
type AddExperienceInput struct {
	CharacterID string
	Amount      int
}

// AddExperienceOutput defines the response for granting experience
type AddExperienceOutput struct {
	Character *entities.Character
	LevelUps  []entities.LevelUpRecord
}
