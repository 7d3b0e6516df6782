// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/rpg-workshop/internal/entities"
)

// CharacterBuilder provides a fluent interface for building test Character instances
type CharacterBuilder struct {
	character *entities.Character
}

// NewCharacterBuilder creates a level 1 warrior with default stats and no bonus points
func NewCharacterBuilder() *CharacterBuilder {
	base := map[string]int{"hp": 100, "mp": 50, "attack": 10}
	return &CharacterBuilder{
		character: &entities.Character{
			ID:             "char-test-123",
			Name:           "テスト戦士",
			JobID:          "warrior",
			RaceID:         "human",
			Level:          1,
			BaseStats:      base,
			Stats:          map[string]int{"hp": 100, "mp": 50, "attack": 10},
			AllocatedBonus: map[string]int{},
		},
	}
}

// WithID sets the character ID
func (b *CharacterBuilder) WithID(id string) *CharacterBuilder {
	b.character.ID = id
	return b
}

// WithName sets the character name
func (b *CharacterBuilder) WithName(name string) *CharacterBuilder {
	b.character.Name = name
	return b
}

// WithJob sets the job ID
func (b *CharacterBuilder) WithJob(jobID string) *CharacterBuilder {
	b.character.JobID = jobID
	return b
}

// WithRace sets the race ID
func (b *CharacterBuilder) WithRace(raceID string) *CharacterBuilder {
	b.character.RaceID = raceID
	return b
}

// WithLevel sets the level without touching stats
func (b *CharacterBuilder) WithLevel(level int) *CharacterBuilder {
	b.character.Level = level
	return b
}

// WithExp sets the carried experience
func (b *CharacterBuilder) WithExp(exp int) *CharacterBuilder {
	b.character.Exp = exp
	return b
}

// WithBonusPoints sets the unspent bonus points
func (b *CharacterBuilder) WithBonusPoints(points int) *CharacterBuilder {
	b.character.BonusPoints = points
	return b
}

// WithStat sets both the base and the current value of a stat
func (b *CharacterBuilder) WithStat(statID string, value int) *CharacterBuilder {
	b.character.BaseStats[statID] = value
	b.character.Stats[statID] = value
	return b
}

// WithCurrentStat sets the current value of a stat and leaves the base alone,
// as after level-ups or allocations
func (b *CharacterBuilder) WithCurrentStat(statID string, value int) *CharacterBuilder {
	b.character.Stats[statID] = value
	return b
}

// WithAllocated records points as already allocated to statID.
// Stats are not adjusted; callers set them explicitly when it matters.
func (b *CharacterBuilder) WithAllocated(statID string, points int) *CharacterBuilder {
	b.character.AllocatedBonus[statID] = points
	return b
}

// WithHistory appends level-up records
func (b *CharacterBuilder) WithHistory(records ...entities.LevelUpRecord) *CharacterBuilder {
	b.character.LevelHistory = append(b.character.LevelHistory, records...)
	return b
}

// Build returns a copy of the built character
func (b *CharacterBuilder) Build() *entities.Character {
	return b.character.Clone()
}
