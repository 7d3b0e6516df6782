package entities

// Character is a player-authored character with level progression.
// BaseStats are the level 1 values as authored. Stats hold the persisted
// values, which already include level-up growth and allocated bonus points.
type Character struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	JobID          string          `json:"job_id,omitempty"`
	RaceID         string          `json:"race_id,omitempty"`
	Level          int             `json:"level"`
	Exp            int             `json:"exp"`
	BonusPoints    int             `json:"bonus_points"`
	BaseStats      map[string]int  `json:"base_stats"`
	Stats          map[string]int  `json:"stats"`
	AllocatedBonus map[string]int  `json:"allocated_bonus"`
	LevelHistory   []LevelUpRecord `json:"level_history,omitempty"`
	CreatedAt      int64           `json:"created_at"`
	UpdatedAt      int64           `json:"updated_at"`
}

// GetID returns the character ID
func (c *Character) GetID() string {
	return c.ID
}

// GetType returns the entity type for rpg-toolkit
func (c *Character) GetType() string {
	return EntityTypeCharacter
}

// Clone returns a deep copy so callers can try a mutation without touching the original
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	out.BaseStats = cloneStats(c.BaseStats)
	out.Stats = cloneStats(c.Stats)
	out.AllocatedBonus = cloneStats(c.AllocatedBonus)
	if c.LevelHistory != nil {
		out.LevelHistory = make([]LevelUpRecord, len(c.LevelHistory))
		copy(out.LevelHistory, c.LevelHistory)
	}
	return &out
}

// LevelUpRecord is an append-only history entry written on every level-up
type LevelUpRecord struct {
	Level       int            `json:"level"`
	StatsBefore map[string]int `json:"stats_before"`
	StatsAfter  map[string]int `json:"stats_after"`
	Timestamp   int64          `json:"timestamp"`
}

// StatSpec declares one stat tracked system-wide
type StatSpec struct {
	ID           string `json:"id" yaml:"id"`
	Label        string `json:"label" yaml:"label"`
	DefaultValue int    `json:"default_value" yaml:"default_value"`
}

func cloneStats(in map[string]int) map[string]int {
	if in == nil {
		return nil
	}
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
