package simulation_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-workshop/internal/entities"
	"github.com/KirkDiggler/rpg-workshop/internal/errors"
	"github.com/KirkDiggler/rpg-workshop/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-workshop/internal/redis"
	"github.com/KirkDiggler/rpg-workshop/internal/repositories/simulation"
	"github.com/KirkDiggler/rpg-workshop/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	client redis.Client
	mr     *miniredis.Miniredis
	clock  *clock.Fixed
	repo   simulation.Repository
	ctx    context.Context
	owner  *entities.Monster
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	s.client, s.mr = testutils.CreateTestRedisClient(s.T())
	s.clock = &clock.Fixed{At: time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)}

	repo, err := simulation.NewRedisRepository(&simulation.Config{
		Client: s.client,
		Clock:  s.clock,
		TTL:    10 * time.Minute,
	})
	s.Require().NoError(err)

	s.repo = repo
	s.ctx = context.Background()
	s.owner = &entities.Monster{ID: "mon_slime"}
}

func (s *RedisRepositoryTestSuite) run(id string) *entities.SimulationRun {
	return &entities.SimulationRun{
		ID:         id,
		TrialCount: 2,
		Level:      1,
		Multiplier: 1,
		Outcomes: []entities.TrialOutcome{
			{TrialIndex: 1, ItemName: "ゼリー"},
			{TrialIndex: 2, ItemName: entities.NoDropItemName},
		},
		Counts: map[string]int{"ゼリー": 1},
	}
}

func (s *RedisRepositoryTestSuite) TestConfigValidation() {
	_, err := simulation.NewRedisRepository(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = simulation.NewRedisRepository(&simulation.Config{Client: s.client})
	s.True(errors.IsInvalidArgument(err))

	_, err = simulation.NewRedisRepository(&simulation.Config{Client: s.client, Clock: s.clock, TTL: -time.Second})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestSaveAndGet() {
	out, err := s.repo.Save(s.ctx, simulation.SaveInput{Owner: s.owner, Run: s.run("run_1")})
	s.Require().NoError(err)
	s.False(out.Replaced)
	s.Equal("mon_slime", out.Run.EntityID)
	s.Equal(entities.EntityTypeMonster, out.Run.EntityType)
	s.Equal(s.clock.At.Unix(), out.Run.CreatedAt)
	s.Equal(s.clock.At.Add(10*time.Minute).Unix(), out.Run.ExpiresAt)

	s.True(s.mr.Exists("simulation_run:monster:mon_slime"))
	s.Equal(10*time.Minute, s.mr.TTL("simulation_run:monster:mon_slime"))

	got, err := s.repo.Get(s.ctx, simulation.GetInput{Owner: s.owner})
	s.Require().NoError(err)
	s.Equal(out.Run, got.Run)
}

func (s *RedisRepositoryTestSuite) TestSaveReplacesPreviousRun() {
	_, err := s.repo.Save(s.ctx, simulation.SaveInput{Owner: s.owner, Run: s.run("run_1")})
	s.Require().NoError(err)

	out, err := s.repo.Save(s.ctx, simulation.SaveInput{Owner: s.owner, Run: s.run("run_2"), TTL: time.Minute})
	s.Require().NoError(err)
	s.True(out.Replaced)

	got, err := s.repo.Get(s.ctx, simulation.GetInput{Owner: s.owner})
	s.Require().NoError(err)
	s.Equal("run_2", got.Run.ID)
	s.Equal(time.Minute, s.mr.TTL("simulation_run:monster:mon_slime"))
}

func (s *RedisRepositoryTestSuite) TestOwnersAreIsolated() {
	scratch := entities.ScratchTable{Name: "mon_slime"}
	_, err := s.repo.Save(s.ctx, simulation.SaveInput{Owner: s.owner, Run: s.run("run_monster")})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, simulation.GetInput{Owner: scratch})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestExpiry() {
	s.Run("redis ttl elapses", func() {
		_, err := s.repo.Save(s.ctx, simulation.SaveInput{Owner: s.owner, Run: s.run("run_1")})
		s.Require().NoError(err)

		s.mr.FastForward(11 * time.Minute)

		_, err = s.repo.Get(s.ctx, simulation.GetInput{Owner: s.owner})
		s.True(errors.IsNotFound(err))
	})

	s.Run("clock passes expiry before redis does", func() {
		_, err := s.repo.Save(s.ctx, simulation.SaveInput{Owner: s.owner, Run: s.run("run_1")})
		s.Require().NoError(err)

		s.clock.At = s.clock.At.Add(time.Hour)

		_, err = s.repo.Get(s.ctx, simulation.GetInput{Owner: s.owner})
		s.True(errors.IsNotFound(err))
		s.False(s.mr.Exists("simulation_run:monster:mon_slime"))
	})
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	_, err := s.repo.Save(s.ctx, simulation.SaveInput{Owner: s.owner, Run: s.run("run_1")})
	s.Require().NoError(err)

	out, err := s.repo.Delete(s.ctx, simulation.DeleteInput{Owner: s.owner})
	s.Require().NoError(err)
	s.True(out.Deleted)

	out, err = s.repo.Delete(s.ctx, simulation.DeleteInput{Owner: s.owner})
	s.Require().NoError(err)
	s.False(out.Deleted)
}

func (s *RedisRepositoryTestSuite) TestInvalidInput() {
	_, err := s.repo.Save(s.ctx, simulation.SaveInput{Owner: s.owner})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Get(s.ctx, simulation.GetInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Delete(s.ctx, simulation.DeleteInput{Owner: &entities.Monster{}})
	s.True(errors.IsInvalidArgument(err))
}
