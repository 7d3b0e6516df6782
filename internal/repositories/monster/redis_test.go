package monster_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-workshop/internal/entities"
	"github.com/KirkDiggler/rpg-workshop/internal/errors"
	"github.com/KirkDiggler/rpg-workshop/internal/repositories/monster"
	"github.com/KirkDiggler/rpg-workshop/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr   *miniredis.Miniredis
	repo monster.Repository
	ctx  context.Context
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, mr := testutils.CreateTestRedisClient(s.T())
	repo, err := monster.NewRedis(&monster.RedisConfig{Client: client})
	s.Require().NoError(err)

	s.mr = mr
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) slime() *entities.Monster {
	return &entities.Monster{
		ID:        "mon_slime",
		Name:      "スライム",
		Level:     1,
		BaseStats: map[string]int{"hp": 30},
		DropTable: []entities.DropTableEntry{
			{ItemName: "ゼリー", Probability: 0.5},
		},
	}
}

func (s *RedisRepositoryTestSuite) TestNewRedisValidatesConfig() {
	_, err := monster.NewRedis(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = monster.NewRedis(&monster.RedisConfig{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	_, err := s.repo.Create(s.ctx, monster.CreateInput{Monster: s.slime()})
	s.Require().NoError(err)

	s.True(s.mr.Exists("monster:mon_slime"))
	isMember, err := s.mr.SIsMember("monster:index", "mon_slime")
	s.Require().NoError(err)
	s.True(isMember)

	out, err := s.repo.Get(s.ctx, monster.GetInput{ID: "mon_slime"})
	s.Require().NoError(err)
	s.Equal(s.slime(), out.Monster)
}

func (s *RedisRepositoryTestSuite) TestCreateErrors() {
	s.Run("nil monster", func() {
		_, err := s.repo.Create(s.ctx, monster.CreateInput{})
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("empty id", func() {
		_, err := s.repo.Create(s.ctx, monster.CreateInput{Monster: &entities.Monster{Name: "x"}})
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("duplicate id", func() {
		_, err := s.repo.Create(s.ctx, monster.CreateInput{Monster: s.slime()})
		s.Require().NoError(err)
		_, err = s.repo.Create(s.ctx, monster.CreateInput{Monster: s.slime()})
		s.True(errors.IsAlreadyExists(err))
	})
}

func (s *RedisRepositoryTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(s.ctx, monster.GetInput{ID: "missing"})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestGetCorruptedRecord() {
	s.Require().NoError(s.mr.Set("monster:broken", "{not json"))
	_, err := s.repo.Get(s.ctx, monster.GetInput{ID: "broken"})
	s.Equal(errors.CodeDataLoss, errors.GetCode(err))
}

func (s *RedisRepositoryTestSuite) TestUpdate() {
	s.Run("missing monster", func() {
		_, err := s.repo.Update(s.ctx, monster.UpdateInput{Monster: s.slime()})
		s.True(errors.IsNotFound(err))
	})

	s.Run("replaces stored monster", func() {
		_, err := s.repo.Create(s.ctx, monster.CreateInput{Monster: s.slime()})
		s.Require().NoError(err)

		updated := s.slime()
		updated.DropTable = append(updated.DropTable, entities.DropTableEntry{ItemName: "王冠", Probability: 0.01})
		_, err = s.repo.Update(s.ctx, monster.UpdateInput{Monster: updated})
		s.Require().NoError(err)

		out, err := s.repo.Get(s.ctx, monster.GetInput{ID: "mon_slime"})
		s.Require().NoError(err)
		s.Len(out.Monster.DropTable, 2)
	})
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	_, err := s.repo.Create(s.ctx, monster.CreateInput{Monster: s.slime()})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, monster.DeleteInput{ID: "mon_slime"})
	s.Require().NoError(err)
	s.False(s.mr.Exists("monster:mon_slime"))

	_, err = s.repo.Delete(s.ctx, monster.DeleteInput{ID: "mon_slime"})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestListSortsAndCleansIndex() {
	for _, id := range []string{"mon_c", "mon_a", "mon_b"} {
		m := s.slime()
		m.ID = id
		_, err := s.repo.Create(s.ctx, monster.CreateInput{Monster: m})
		s.Require().NoError(err)
	}
	s.mr.Del("monster:mon_b")

	out, err := s.repo.List(s.ctx, monster.ListInput{})
	s.Require().NoError(err)
	s.Require().Len(out.Monsters, 2)
	s.Equal("mon_a", out.Monsters[0].ID)
	s.Equal("mon_c", out.Monsters[1].ID)

	isMember, err := s.mr.SIsMember("monster:index", "mon_b")
	s.Require().NoError(err)
	s.False(isMember)
}
