// Package growth derives final stat values for characters and monsters and
// applies the mutations that change them: bonus point allocation and
// experience driven level-ups.
//
// The same formula serves both subjects:
//
//	final = base + growthPerLevel*(level-1) + allocated*bonusRate
//	growthPerLevel = commonGrowth[stat] + jobBonus[job][stat] + raceBonus[race][stat]
//
// Missing growth entries default to 1, missing job/race bonuses to 0. Unknown
// stat, job and race ids are tolerated through those defaults.
package growth

import "github.com/KirkDiggler/rpg-workshop/internal/entities"

const (
	// DefaultCommonGrowth is used when a stat has no common growth entry
	DefaultCommonGrowth = 1
	// BonusPointsPerLevel is granted on every level-up
	BonusPointsPerLevel = 5

	// StatHP and StatMP convert bonus points at a higher rate
	StatHP = "hp"
	StatMP = "mp"

	hpBonusRate      = 10
	mpBonusRate      = 5
	defaultBonusRate = 1
)

// Rules is the stat configuration the resolver works against
type Rules struct {
	StatSpecs    []entities.StatSpec
	CommonGrowth map[string]int
	JobBonus     map[string]map[string]int
	RaceBonus    map[string]map[string]int
}

// BonusRate returns how many stat points one allocated bonus point is worth
func BonusRate(statID string) int {
	switch statID {
	case StatHP:
		return hpBonusRate
	case StatMP:
		return mpBonusRate
	default:
		return defaultBonusRate
	}
}

// GrowthPerLevel is the additive increase a stat receives on each level-up
func (r *Rules) GrowthPerLevel(statID, jobID, raceID string) int {
	if r == nil {
		return DefaultCommonGrowth
	}
	growth, ok := r.CommonGrowth[statID]
	if !ok {
		growth = DefaultCommonGrowth
	}
	return growth + r.JobBonus[jobID][statID] + r.RaceBonus[raceID][statID]
}

// StatIDs lists the tracked stat ids in declaration order
func (r *Rules) StatIDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, len(r.StatSpecs))
	for i, spec := range r.StatSpecs {
		ids[i] = spec.ID
	}
	return ids
}

// HasStat reports whether statID is declared in StatSpecs
func (r *Rules) HasStat(statID string) bool {
	_, ok := r.spec(statID)
	return ok
}

// HasJob reports whether jobID has a bonus table
func (r *Rules) HasJob(jobID string) bool {
	if r == nil {
		return false
	}
	_, ok := r.JobBonus[jobID]
	return ok
}

// HasRace reports whether raceID has a bonus table
func (r *Rules) HasRace(raceID string) bool {
	if r == nil {
		return false
	}
	_, ok := r.RaceBonus[raceID]
	return ok
}

// DefaultStats returns every declared stat at its default value
func (r *Rules) DefaultStats() map[string]int {
	stats := make(map[string]int)
	if r == nil {
		return stats
	}
	for _, spec := range r.StatSpecs {
		stats[spec.ID] = spec.DefaultValue
	}
	return stats
}

func (r *Rules) spec(statID string) (entities.StatSpec, bool) {
	if r == nil {
		return entities.StatSpec{}, false
	}
	for _, spec := range r.StatSpecs {
		if spec.ID == statID {
			return spec, true
		}
	}
	return entities.StatSpec{}, false
}

func (r *Rules) defaultValue(statID string) int {
	spec, _ := r.spec(statID)
	return spec.DefaultValue
}
