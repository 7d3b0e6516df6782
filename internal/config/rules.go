package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-workshop/internal/engine/growth"
	"github.com/KirkDiggler/rpg-workshop/internal/entities"
	"github.com/KirkDiggler/rpg-workshop/internal/errors"
)

// Rules is the YAML form of the stat and growth configuration
type Rules struct {
	Stats        []entities.StatSpec       `yaml:"stats"`
	CommonGrowth map[string]int            `yaml:"common_growth"`
	JobBonus     map[string]map[string]int `yaml:"job_bonus"`
	RaceBonus    map[string]map[string]int `yaml:"race_bonus"`
}

// DefaultRules returns the stat set used when no rules file is configured
func DefaultRules() *Rules {
	return &Rules{
		Stats: []entities.StatSpec{
			{ID: "hp", Label: "HP", DefaultValue: 100},
			{ID: "mp", Label: "MP", DefaultValue: 50},
			{ID: "attack", Label: "攻撃力", DefaultValue: 10},
			{ID: "defense", Label: "防御力", DefaultValue: 10},
			{ID: "magic", Label: "魔力", DefaultValue: 10},
			{ID: "speed", Label: "素早さ", DefaultValue: 10},
		},
		CommonGrowth: map[string]int{
			"hp":      10,
			"mp":      5,
			"attack":  2,
			"defense": 2,
			"magic":   2,
			"speed":   1,
		},
		JobBonus: map[string]map[string]int{
			"warrior": {"hp": 5, "attack": 2, "defense": 1},
			"mage":    {"mp": 5, "magic": 3},
			"thief":   {"speed": 2, "attack": 1},
		},
		RaceBonus: map[string]map[string]int{
			"human": {},
			"elf":   {"mp": 2, "magic": 1},
			"dwarf": {"hp": 3, "defense": 1},
		},
	}
}

// LoadRules reads rules from path. An empty path returns DefaultRules.
// Sections missing from the file are taken from DefaultRules.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("rules file %s not found", path)
		}
		return nil, errors.Wrapf(err, "failed to read rules file %s", path)
	}

	return ParseRules(data)
}

// ParseRules decodes YAML rules and validates them
func ParseRules(data []byte) (*Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse rules")
	}

	defaults := DefaultRules()
	if len(rules.Stats) == 0 {
		rules.Stats = defaults.Stats
	}
	if rules.CommonGrowth == nil {
		rules.CommonGrowth = defaults.CommonGrowth
	}
	if rules.JobBonus == nil {
		rules.JobBonus = defaults.JobBonus
	}
	if rules.RaceBonus == nil {
		rules.RaceBonus = defaults.RaceBonus
	}

	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &rules, nil
}

// Validate checks that stat ids are unique and every stat has a label
func (r *Rules) Validate() error {
	vb := errors.NewValidationBuilder()

	seen := make(map[string]bool, len(r.Stats))
	for i, spec := range r.Stats {
		if spec.ID == "" {
			vb.Fieldf("stats", "entry %d has no id", i)
			continue
		}
		if seen[spec.ID] {
			vb.Fieldf("stats", "duplicate stat id %q", spec.ID)
		}
		seen[spec.ID] = true
		if spec.Label == "" {
			vb.Fieldf("stats", "stat %q has no label", spec.ID)
		}
	}

	return vb.Build()
}

// Growth converts the file form into the engine's rules
func (r *Rules) Growth() *growth.Rules {
	return &growth.Rules{
		StatSpecs:    append([]entities.StatSpec(nil), r.Stats...),
		CommonGrowth: r.CommonGrowth,
		JobBonus:     r.JobBonus,
		RaceBonus:    r.RaceBonus,
	}
}

// Marshal renders the rules as YAML
func (r *Rules) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal rules")
	}
	return data, nil
}
