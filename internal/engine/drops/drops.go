// Package drops simulates repeated loot rolls against a monster drop table.
//
// A drop table is not a probability distribution. Every entry is rolled on its
// own, so one trial can yield nothing, one item, or several items, including
// several copies of the same entry when its scaled probability exceeds 1.
//
// Preconditions shared by every function: probabilities are finite and
// non-negative. Negative or NaN values are rejected by callers before they
// reach this package; here they behave as "never drops". Probabilities above
// MaxProbability are refused by SimulateSingleTrial.
package drops

import (
	"math"
	"sort"

	"github.com/KirkDiggler/rpg-workshop/internal/entities"
	"github.com/KirkDiggler/rpg-workshop/internal/errors"
	"github.com/KirkDiggler/rpg-workshop/internal/pkg/rng"
)

const (
	// MinMultiplier applies at level 1 and below
	MinMultiplier = 1.0
	// MaxMultiplier applies at SaturationLevel and above
	MaxMultiplier = 3.0
	// SaturationLevel is the first level that receives MaxMultiplier
	SaturationLevel = 10

	// MaxProbability bounds an entry's authored probability, so one trial
	// yields at most MaxProbability*MaxMultiplier copies of it
	MaxProbability = 1000.0
)

// Result is the realised outcome of one simulation run
type Result struct {
	Outcomes []entities.TrialOutcome
	Counts   map[string]int
}

// LevelMultiplier scales drop probabilities by monster level: 1.0 at level 1,
// rising linearly to 3.0 at level 10 and flat afterwards. Levels below 1 count as 1.
func LevelMultiplier(level int) float64 {
	switch {
	case level <= 1:
		return MinMultiplier
	case level >= SaturationLevel:
		return MaxMultiplier
	default:
		step := (MaxMultiplier - MinMultiplier) / float64(SaturationLevel-1)
		return MinMultiplier + float64(level-1)*step
	}
}

// SimulateSingleTrial rolls every entry of table once and returns the dropped
// item names in table order.
//
// For each entry the scaled probability p = probability * multiplier yields
// floor(p) guaranteed copies; a remaining fraction is tested against exactly
// one draw from src. An entry above MaxProbability, or a multiplier outside
// 0..MaxMultiplier, fails with InvalidArgument before anything is drawn.
func SimulateSingleTrial(table []entities.DropTableEntry, multiplier float64, src rng.Source) ([]string, error) {
	if !(multiplier >= 0 && multiplier <= MaxMultiplier) {
		return nil, errors.InvalidArgumentf("multiplier %g outside 0..%g", multiplier, MaxMultiplier)
	}
	for _, entry := range table {
		if entry.Probability > MaxProbability {
			return nil, errors.InvalidArgumentf("probability %g of %q exceeds %g",
				entry.Probability, entry.ItemName, MaxProbability)
		}
	}

	var dropped []string
	for _, entry := range table {
		p := entry.Probability * multiplier
		if !(p > 0) {
			continue
		}

		whole := math.Floor(p)
		for i := 0; i < int(whole); i++ {
			dropped = append(dropped, entry.ItemName)
		}

		fraction := p - whole
		if fraction == 0 {
			continue
		}
		draw, err := src.Float64()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to roll %q", entry.ItemName)
		}
		if draw < fraction {
			dropped = append(dropped, entry.ItemName)
		}
	}
	return dropped, nil
}

// RunSimulation performs trialCount trials at the given level.
//
// Counts is pre-seeded with every item in table so items that never dropped are
// still reported. Trials without drops yield a single NoDropItemName outcome.
// A non-positive trialCount is rejected with InvalidArgument.
func RunSimulation(table []entities.DropTableEntry, trialCount, level int, src rng.Source) (*Result, error) {
	if trialCount <= 0 {
		return nil, errors.InvalidArgumentf("trial count must be positive, got %d", trialCount)
	}
	if src == nil {
		return nil, errors.InvalidArgument("random source is required")
	}

	counts := make(map[string]int, len(table))
	for _, entry := range table {
		counts[entry.ItemName] = 0
	}

	multiplier := LevelMultiplier(level)
	outcomes := make([]entities.TrialOutcome, 0, trialCount)
	for trial := 1; trial <= trialCount; trial++ {
		dropped, err := SimulateSingleTrial(table, multiplier, src)
		if err != nil {
			return nil, errors.Wrapf(err, "trial %d", trial)
		}
		if len(dropped) == 0 {
			outcomes = append(outcomes, entities.TrialOutcome{TrialIndex: trial, ItemName: entities.NoDropItemName})
			continue
		}
		for _, name := range dropped {
			outcomes = append(outcomes, entities.TrialOutcome{TrialIndex: trial, ItemName: name})
			counts[name]++
		}
	}

	return &Result{Outcomes: outcomes, Counts: counts}, nil
}

// CalculateExpectedValues forecasts how many of each item trialCount trials
// should yield at level. Duplicate item names accumulate.
func CalculateExpectedValues(table []entities.DropTableEntry, trialCount, level int) map[string]float64 {
	multiplier := LevelMultiplier(level)
	expected := make(map[string]float64, len(table))
	for _, entry := range table {
		expected[entry.ItemName] += entry.Probability * multiplier * float64(trialCount)
	}
	return expected
}

// GetStatistics turns counts into per-item percentages of trialCount, sorted by
// count descending. Ties are ordered by item name.
func GetStatistics(counts map[string]int, trialCount int) []entities.ItemStatistic {
	stats := make([]entities.ItemStatistic, 0, len(counts))
	for name, count := range counts {
		var pct float64
		if trialCount > 0 {
			pct = float64(count) / float64(trialCount) * 100
		}
		stats = append(stats, entities.ItemStatistic{ItemName: name, Count: count, Percentage: pct})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].ItemName < stats[j].ItemName
	})
	return stats
}
