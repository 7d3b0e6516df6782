package builders

import (
	"github.com/KirkDiggler/rpg-workshop/internal/entities"
)

// MonsterBuilder provides a fluent interface for building test Monster instances
type MonsterBuilder struct {
	monster *entities.Monster
}

// NewMonsterBuilder creates a level 1 slime with a single 50% drop
func NewMonsterBuilder() *MonsterBuilder {
	return &MonsterBuilder{
		monster: &entities.Monster{
			ID:        "mon-test-123",
			Name:      "スライム",
			Level:     1,
			BaseStats: map[string]int{"hp": 30, "attack": 5},
			DropTable: []entities.DropTableEntry{
				{ItemName: "スライムゼリー", Probability: 0.5},
			},
		},
	}
}

// WithID sets the monster ID
func (b *MonsterBuilder) WithID(id string) *MonsterBuilder {
	b.monster.ID = id
	return b
}

// WithName sets the monster name
func (b *MonsterBuilder) WithName(name string) *MonsterBuilder {
	b.monster.Name = name
	return b
}

// WithRace sets the race ID used for growth bonuses
func (b *MonsterBuilder) WithRace(raceID string) *MonsterBuilder {
	b.monster.RaceID = raceID
	return b
}

// WithLevel sets the authored level
func (b *MonsterBuilder) WithLevel(level int) *MonsterBuilder {
	b.monster.Level = level
	return b
}

// WithStat sets a base stat
func (b *MonsterBuilder) WithStat(statID string, value int) *MonsterBuilder {
	b.monster.BaseStats[statID] = value
	return b
}

// WithDrops replaces the drop table
func (b *MonsterBuilder) WithDrops(entries ...entities.DropTableEntry) *MonsterBuilder {
	b.monster.DropTable = entries
	return b
}

// Build returns the built monster
func (b *MonsterBuilder) Build() *entities.Monster {
	m := *b.monster
	m.BaseStats = make(map[string]int, len(b.monster.BaseStats))
	for k, v := range b.monster.BaseStats {
		m.BaseStats[k] = v
	}
	m.DropTable = append([]entities.DropTableEntry(nil), b.monster.DropTable...)
	return &m
}
