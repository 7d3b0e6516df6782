package growth

import "github.com/KirkDiggler/rpg-workshop/internal/entities"

// StatInput describes one stat of one subject
type StatInput struct {
	StatID    string
	Level     int
	BaseValue int
	JobID     string
	RaceID    string
	Allocated int
}

// Subject is a read-only view of a character or monster for previews.
// Nothing here is persisted.
type Subject struct {
	Level     int
	JobID     string
	RaceID    string
	BaseStats map[string]int
	Allocated map[string]int
}

// SubjectFromCharacter builds a preview subject from a stored character
func SubjectFromCharacter(c *entities.Character) Subject {
	return Subject{
		Level:     c.Level,
		JobID:     c.JobID,
		RaceID:    c.RaceID,
		BaseStats: c.BaseStats,
		Allocated: c.AllocatedBonus,
	}
}

// SubjectFromMonster builds a preview subject for a monster at level.
// Monsters have no job and no allocated points.
func SubjectFromMonster(m *entities.Monster, level int) Subject {
	return Subject{
		Level:     level,
		RaceID:    m.RaceID,
		BaseStats: m.BaseStats,
	}
}

// ResolveStat returns the final value of a single stat
func ResolveStat(rules *Rules, in StatInput) int {
	levelUps := in.Level - 1
	if levelUps < 0 {
		levelUps = 0
	}
	afterGrowth := in.BaseValue + rules.GrowthPerLevel(in.StatID, in.JobID, in.RaceID)*levelUps
	return afterGrowth + in.Allocated*BonusRate(in.StatID)
}

// ResolveStats resolves every declared stat of subj. Stats missing from
// BaseStats start at their declared default. Base stats that are not declared
// are resolved too so authored data is never dropped.
func ResolveStats(rules *Rules, subj Subject) map[string]int {
	resolved := make(map[string]int)
	seen := make(map[string]bool)

	resolve := func(statID string, base int) {
		seen[statID] = true
		resolved[statID] = ResolveStat(rules, StatInput{
			StatID:    statID,
			Level:     subj.Level,
			BaseValue: base,
			JobID:     subj.JobID,
			RaceID:    subj.RaceID,
			Allocated: subj.Allocated[statID],
		})
	}

	for _, statID := range rules.StatIDs() {
		base, ok := subj.BaseStats[statID]
		if !ok {
			base = rules.defaultValue(statID)
		}
		resolve(statID, base)
	}
	for statID, base := range subj.BaseStats {
		if !seen[statID] {
			resolve(statID, base)
		}
	}
	return resolved
}
