package bestiary

import (
	"github.com/KirkDiggler/rpg-workshop/internal/entities"
)

// CreateMonsterInput defines the request for creating a monster
type CreateMonsterInput struct {
	// ID is optional; imports keep their own ids
	ID          string
	Name        string
	Description string
	RaceID      string
	Level       int
	BaseStats   map[string]int
	DropTable   []entities.DropTableEntry
}

// CreateMonsterOutput defines the response for creating a monster
type CreateMonsterOutput struct {
	Monster *entities.Monster
}

// GetMonsterInput defines the request for getting a monster
type GetMonsterInput struct {
	MonsterID string
}

// GetMonsterOutput defines the response for getting a monster
type GetMonsterOutput struct {
	Monster *entities.Monster
}

// ListMonstersInput defines the request for listing monsters
type ListMonstersInput struct{}

// ListMonstersOutput defines the response for listing monsters
type ListMonstersOutput struct {
	Monsters []*entities.Monster
}

// UpdateDropTableInput defines the request for replacing a drop table
type UpdateDropTableInput struct {
	MonsterID string
	DropTable []entities.DropTableEntry
}

// UpdateDropTableOutput defines the response for replacing a drop table
type UpdateDropTableOutput struct {
	Monster *entities.Monster
}

// DeleteMonsterInput defines the request for deleting a monster
type DeleteMonsterInput struct {
	MonsterID string
}

// DeleteMonsterOutput defines the response for deleting a monster
type DeleteMonsterOutput struct{}

// ResolveMonsterStatsInput defines the request for a monster's final stats
type ResolveMonsterStatsInput struct {
	MonsterID string
	// Level overrides the authored level when positive
	Level int
}

// ResolveMonsterStatsOutput defines the response for a monster's final stats
type ResolveMonsterStatsOutput struct {
	Monster *entities.Monster
	Level   int
	Stats   map[string]int
}
