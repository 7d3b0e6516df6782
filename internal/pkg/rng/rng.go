// Package rng provides the uniform random sources consumed by the drop simulator.
//
// Every Source yields draws in [0, 1). Production code uses a DiceSource backed
// by an rpg-toolkit dice.Roller; tests script exact draws with a Sequence.
package rng

//go:generate mockgen -destination=mock/mock.go -package=rngmock github.com/KirkDiggler/rpg-workshop/internal/pkg/rng Source

import (
	"math/rand/v2"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-workshop/internal/errors"
)

// DiceResolution is the die size rolled for each half of a draw
const DiceResolution = 1_000_000

// drawSpan is the number of distinct draws a DiceSource can produce
const drawSpan = DiceResolution * DiceResolution

// Source produces uniform draws in [0, 1)
type Source interface {
	Float64() (float64, error)
}

// DiceSource draws by rolling two d1000000 on an rpg-toolkit roller, giving
// draws on a grid of 1/DiceResolution² so rare probabilities are not rounded
// up to 1/DiceResolution
type DiceSource struct {
	roller dice.Roller
}

// NewDiceSource wraps roller. A nil roller falls back to dice.DefaultRoller.
func NewDiceSource(roller dice.Roller) *DiceSource {
	if roller == nil {
		roller = dice.DefaultRoller
	}
	return &DiceSource{roller: roller}
}

// Float64 combines a high and a low roll of 1..DiceResolution into a draw in [0, 1)
func (s *DiceSource) Float64() (float64, error) {
	high, err := s.roll()
	if err != nil {
		return 0, err
	}
	low, err := s.roll()
	if err != nil {
		return 0, err
	}
	// exact: drawSpan is below 2^53
	return float64(int64(high-1)*DiceResolution+int64(low-1)) / drawSpan, nil
}

func (s *DiceSource) roll() (int, error) {
	n, err := s.roller.Roll(DiceResolution)
	if err != nil {
		return 0, errors.Wrap(err, "failed to roll random draw")
	}
	if n < 1 || n > DiceResolution {
		return 0, errors.Internalf("roller returned %d outside 1..%d", n, DiceResolution)
	}
	return n, nil
}

// SeededSource is a reproducible PCG-backed source for CLI runs with --seed
type SeededSource struct {
	r *rand.Rand
}

// NewSeeded creates a source whose draws depend only on seed
func NewSeeded(seed uint64) *SeededSource {
	return &SeededSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Float64 returns the next draw
func (s *SeededSource) Float64() (float64, error) {
	return s.r.Float64(), nil
}

// Sequence replays a fixed list of draws, cycling when exhausted
type Sequence struct {
	draws []float64
	next  int
}

// NewSequence creates a scripted source. At least one draw is required.
func NewSequence(draws ...float64) *Sequence {
	return &Sequence{draws: draws}
}

// Float64 returns the next scripted draw
func (s *Sequence) Float64() (float64, error) {
	if len(s.draws) == 0 {
		return 0, errors.FailedPrecondition("sequence has no draws")
	}
	v := s.draws[s.next%len(s.draws)]
	s.next++
	return v, nil
}

// Consumed reports how many draws have been taken
func (s *Sequence) Consumed() int {
	return s.next
}
