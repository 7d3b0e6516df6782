package testutils

import (
	"github.com/KirkDiggler/rpg-workshop/internal/entities"
	"github.com/KirkDiggler/rpg-workshop/internal/testutils/builders"
)

// Character progression stages for testing
const (
	StageFresh     = "fresh"
	StageLeveled   = "leveled"
	StageAllocated = "allocated"

	// TestCharacterName is the default character name for test fixtures
	TestCharacterName = "アリス"
)

// CreateTestCharacter creates a level 1 warrior with hp 100, mp 50 and attack 10
func CreateTestCharacter(id string) *entities.Character {
	return builders.NewCharacterBuilder().
		WithID(id).
		WithName(TestCharacterName).
		Build()
}

// CreateTestCharacterAtStage creates a test character at various stages of progression.
// Grown stats follow hp +15, mp +5 and attack +3 per level, the warrior rates
// with common growth hp 10, mp 5, attack 2 and a warrior bonus of hp 5, attack 1.
func CreateTestCharacterAtStage(id string, stage string) *entities.Character {
	b := builders.NewCharacterBuilder().
		WithID(id).
		WithName(TestCharacterName)

	switch stage {
	case StageLeveled:
		b.WithLevel(3).
			WithExp(40).
			WithBonusPoints(10).
			WithCurrentStat("hp", 130).
			WithCurrentStat("mp", 60).
			WithCurrentStat("attack", 16)

	case StageAllocated:
		b.WithLevel(3).
			WithExp(40).
			WithBonusPoints(8).
			WithCurrentStat("hp", 150).
			WithCurrentStat("mp", 60).
			WithCurrentStat("attack", 16).
			WithAllocated("hp", 2)
	}

	return b.Build()
}

// SlimeDropTable is a two entry table where neither item is guaranteed
func SlimeDropTable() []entities.DropTableEntry {
	return []entities.DropTableEntry{
		{ItemName: "スライムゼリー", Probability: 0.5},
		{ItemName: "薬草", Probability: 0.1},
	}
}

// GuaranteedDropTable always drops two copies and sometimes a third
func GuaranteedDropTable() []entities.DropTableEntry {
	return []entities.DropTableEntry{
		{ItemName: "金貨", Probability: 2.5},
	}
}
