package entities

// Entity types reported through core.Entity
const (
	EntityTypeMonster       = "monster"
	EntityTypeCharacter     = "character"
	EntityTypeSimulationRun = "simulation_run"
)

// Monster is an authored enemy with base stats and a drop table
type Monster struct {
	ID          string           `json:"id" yaml:"id"`
	Name        string           `json:"name" yaml:"name"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	RaceID      string           `json:"race_id,omitempty" yaml:"race_id,omitempty"`
	Level       int              `json:"level" yaml:"level"`
	BaseStats   map[string]int   `json:"base_stats" yaml:"base_stats"`
	DropTable   []DropTableEntry `json:"drop_table" yaml:"drop_table"`
	CreatedAt   int64            `json:"created_at" yaml:"-"`
	UpdatedAt   int64            `json:"updated_at" yaml:"-"`
}

// GetID returns the monster ID
func (m *Monster) GetID() string {
	return m.ID
}

// GetType returns the entity type for rpg-toolkit
func (m *Monster) GetType() string {
	return EntityTypeMonster
}

// EntityTypeScratchTable identifies runs made against an inline drop table
const EntityTypeScratchTable = "scratch_table"

// ScratchTable names an unsaved drop table so its last run can be stored
// and cleared like a monster's
type ScratchTable struct {
	Name string
}

// GetID returns the table name
func (t ScratchTable) GetID() string {
	return t.Name
}

// GetType returns the entity type for rpg-toolkit
func (t ScratchTable) GetType() string {
	return EntityTypeScratchTable
}
