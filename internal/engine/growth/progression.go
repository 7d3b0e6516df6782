package growth

import (
	"math"
	"sort"
	"time"

	"github.com/KirkDiggler/rpg-workshop/internal/entities"
)

// AllocationFailure explains why an allocation was not applied
type AllocationFailure string

// Allocation failure reasons
const (
	ReasonNone               AllocationFailure = ""
	ReasonZeroDelta          AllocationFailure = "zero_delta"
	ReasonInsufficientPoints AllocationFailure = "insufficient_bonus_points"
	ReasonNothingAllocated   AllocationFailure = "nothing_allocated"
)

// AllocationResult reports what AllocateBonusPoint did.
// Applied is the number of points actually moved, which can be smaller than
// the requested delta when a decrement saturates.
type AllocationResult struct {
	OK        bool
	Applied   int
	StatDelta int
	Reason    AllocationFailure
}

// AllocateBonusPoint spends (delta > 0) or refunds (delta < 0) bonus points on statID.
//
// Spending more points than the character owns fails with
// ReasonInsufficientPoints. Refunding from a stat with no allocation is a no-op
// reported as ReasonNothingAllocated; refunding more than is allocated refunds
// only what is allocated. The character is modified only when OK is true.
func AllocateBonusPoint(c *entities.Character, statID string, delta int) AllocationResult {
	if delta == 0 {
		return AllocationResult{Reason: ReasonZeroDelta}
	}

	if delta > 0 && c.BonusPoints < delta {
		return AllocationResult{Reason: ReasonInsufficientPoints}
	}

	if delta < 0 {
		allocated := c.AllocatedBonus[statID]
		if allocated <= 0 {
			return AllocationResult{Reason: ReasonNothingAllocated}
		}
		if delta < -allocated {
			delta = -allocated
		}
	}

	if c.Stats == nil {
		c.Stats = make(map[string]int)
	}
	if c.AllocatedBonus == nil {
		c.AllocatedBonus = make(map[string]int)
	}

	statDelta := delta * BonusRate(statID)
	c.Stats[statID] += statDelta
	c.BonusPoints -= delta
	c.AllocatedBonus[statID] += delta

	return AllocationResult{OK: true, Applied: delta, StatDelta: statDelta}
}

// RequiredExpForNextLevel is the experience needed to leave level:
// floor(100 * level^1.5). Levels below 1 are treated as 1.
func RequiredExpForNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(100 * math.Pow(float64(level), 1.5)))
}

// AddExp grants amount experience and performs every level-up it pays for.
// The threshold for each step uses the level before the increment and the
// remainder carries forward. Non-positive amounts change nothing.
func AddExp(rules *Rules, c *entities.Character, amount int, now time.Time) []entities.LevelUpRecord {
	if amount <= 0 {
		return nil
	}
	if c.Level < 1 {
		c.Level = 1
	}

	c.Exp += amount
	var records []entities.LevelUpRecord
	for {
		required := RequiredExpForNextLevel(c.Level)
		if c.Exp < required {
			break
		}
		c.Exp -= required
		records = append(records, LevelUp(rules, c, now))
	}
	return records
}

// LevelUp raises the level by one, grants BonusPointsPerLevel bonus points,
// applies growth to every tracked stat and appends the history record.
// Tracked stats are the declared ones plus any stat already on the character.
func LevelUp(rules *Rules, c *entities.Character, now time.Time) entities.LevelUpRecord {
	if c.Stats == nil {
		c.Stats = make(map[string]int)
	}
	before := copyStats(c.Stats)

	for _, statID := range trackedStats(rules, c) {
		if _, ok := c.Stats[statID]; !ok {
			c.Stats[statID] = rules.defaultValue(statID)
		}
		c.Stats[statID] += rules.GrowthPerLevel(statID, c.JobID, c.RaceID)
	}
	c.Level++
	c.BonusPoints += BonusPointsPerLevel

	record := entities.LevelUpRecord{
		Level:       c.Level,
		StatsBefore: before,
		StatsAfter:  copyStats(c.Stats),
		Timestamp:   now.Unix(),
	}
	c.LevelHistory = append(c.LevelHistory, record)
	return record
}

func trackedStats(rules *Rules, c *entities.Character) []string {
	ids := rules.StatIDs()
	declared := make(map[string]bool, len(ids))
	for _, id := range ids {
		declared[id] = true
	}
	var extra []string
	for id := range c.Stats {
		if !declared[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	return append(ids, extra...)
}

func copyStats(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
