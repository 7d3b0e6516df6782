package character_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-workshop/internal/engine/growth"
	"github.com/KirkDiggler/rpg-workshop/internal/entities"
	"github.com/KirkDiggler/rpg-workshop/internal/errors"
	"github.com/KirkDiggler/rpg-workshop/internal/orchestrators/character"
	"github.com/KirkDiggler/rpg-workshop/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-workshop/internal/pkg/idgen"
	characterrepo "github.com/KirkDiggler/rpg-workshop/internal/repositories/character"
	charactermock "github.com/KirkDiggler/rpg-workshop/internal/repositories/character/mock"
	"github.com/KirkDiggler/rpg-workshop/internal/testutils"
	"github.com/KirkDiggler/rpg-workshop/internal/testutils/builders"
	"github.com/KirkDiggler/rpg-workshop/internal/testutils/mocks"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockCharRepo *charactermock.MockRepository
	orchestrator *character.Orchestrator
	ctx          context.Context
	now          time.Time
	rules        *growth.Rules
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockCharRepo = charactermock.NewMockRepository(s.ctrl)
	s.ctx = context.Background()
	s.now = time.Date(2026, 10, 15, 18, 30, 0, 0, time.UTC)
	s.rules = &growth.Rules{
		StatSpecs: []entities.StatSpec{
			{ID: "hp", Label: "HP", DefaultValue: 100},
			{ID: "mp", Label: "MP", DefaultValue: 50},
			{ID: "attack", Label: "攻撃力", DefaultValue: 10},
		},
		CommonGrowth: map[string]int{"hp": 10, "mp": 5, "attack": 2},
		JobBonus:     map[string]map[string]int{"warrior": {"hp": 5, "attack": 1}},
		RaceBonus:    map[string]map[string]int{"human": {}},
	}

	orch, err := character.New(&character.Config{
		CharacterRepo:   s.mockCharRepo,
		IDGenerator:     idgen.NewSequential("char"),
		Clock:           &clock.Fixed{At: s.now},
		Rules:           s.rules,
		MaxLevelHistory: 2,
	})
	s.Require().NoError(err)
	s.orchestrator = orch
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) expectGet(c *entities.Character) {
	mocks.ExpectCharacterGet(s.ctx, s.mockCharRepo, c.ID, c, nil)
}

func (s *OrchestratorTestSuite) TestNewValidatesConfig() {
	_, err := character.New(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = character.New(&character.Config{CharacterRepo: s.mockCharRepo, MaxLevelHistory: -1})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestCreateCharacter() {
	s.Run("starts at level 1 with default stats", func() {
		mocks.ExpectCharacterCreate(s.ctx, s.mockCharRepo)

		out, err := s.orchestrator.CreateCharacter(s.ctx, &character.CreateCharacterInput{
			Name:      "アリス",
			JobID:     "warrior",
			RaceID:    "human",
			BaseStats: map[string]int{"attack": 14},
		})
		s.Require().NoError(err)

		c := out.Character
		s.Equal("char_1", c.ID)
		s.Equal(1, c.Level)
		s.Equal(0, c.Exp)
		s.Equal(0, c.BonusPoints)
		s.Equal(map[string]int{"hp": 100, "mp": 50, "attack": 14}, c.Stats)
		s.Equal(c.Stats, c.BaseStats)
		s.Equal(s.now.Unix(), c.CreatedAt)
	})

	s.Run("rejects unknown references", func() {
		testCases := []*character.CreateCharacterInput{
			{Name: ""},
			{Name: "x", JobID: "bard"},
			{Name: "x", RaceID: "orc"},
			{Name: "x", BaseStats: map[string]int{"luck": 1}},
		}
		for _, input := range testCases {
			_, err := s.orchestrator.CreateCharacter(s.ctx, input)
			s.True(errors.IsInvalidArgument(err), "input %+v", input)
		}
	})
}

func (s *OrchestratorTestSuite) TestGetCharacter() {
	c := builders.NewCharacterBuilder().WithID("char_7").WithLevel(2).Build()
	s.expectGet(c)

	out, err := s.orchestrator.GetCharacter(s.ctx, &character.GetCharacterInput{CharacterID: "char_7"})
	s.Require().NoError(err)
	s.Equal(c, out.Character)
	s.Equal(282, out.NextLevelExp)

	_, err = s.orchestrator.GetCharacter(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestAllocateBonusPoint() {
	s.Run("insufficient points leaves the character untouched", func() {
		c := builders.NewCharacterBuilder().WithID("char_1").WithBonusPoints(3).Build()
		s.expectGet(c)

		_, err := s.orchestrator.AllocateBonusPoint(s.ctx, &character.AllocateBonusPointInput{
			CharacterID: "char_1",
			StatID:      "mp",
			Delta:       5,
		})
		s.True(errors.IsFailedPrecondition(err))
		s.Equal(string(growth.ReasonInsufficientPoints), errors.GetMeta(err)["reason"])
	})

	s.Run("spends points and persists", func() {
		c := builders.NewCharacterBuilder().WithID("char_1").WithBonusPoints(3).Build()
		s.expectGet(c)
		mocks.ExpectCharacterUpdate(s.ctx, s.mockCharRepo)

		out, err := s.orchestrator.AllocateBonusPoint(s.ctx, &character.AllocateBonusPointInput{
			CharacterID: "char_1",
			StatID:      "mp",
			Delta:       2,
		})
		s.Require().NoError(err)
		s.Equal(60, out.Character.Stats["mp"])
		s.Equal(1, out.Character.BonusPoints)
		s.Equal(2, out.Character.AllocatedBonus["mp"])
		s.Equal(10, out.Result.StatDelta)
	})

	s.Run("unknown stat", func() {
		_, err := s.orchestrator.AllocateBonusPoint(s.ctx, &character.AllocateBonusPointInput{
			CharacterID: "char_1",
			StatID:      "luck",
			Delta:       1,
		})
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("store failure is reported", func() {
		c := builders.NewCharacterBuilder().WithID("char_1").WithBonusPoints(1).Build()
		s.expectGet(c)
		s.mockCharRepo.EXPECT().
			Update(s.ctx, gomock.Any()).
			Return(nil, errors.Unavailablef("redis down"))

		_, err := s.orchestrator.AllocateBonusPoint(s.ctx, &character.AllocateBonusPointInput{
			CharacterID: "char_1",
			StatID:      "hp",
			Delta:       1,
		})
		s.Equal(errors.CodeUnavailable, errors.GetCode(err))
	})
}

func (s *OrchestratorTestSuite) TestAddExperience() {
	s.Run("carries the remainder", func() {
		c := builders.NewCharacterBuilder().WithID("char_1").Build()
		s.expectGet(c)
		mocks.ExpectCharacterUpdate(s.ctx, s.mockCharRepo)

		out, err := s.orchestrator.AddExperience(s.ctx, &character.AddExperienceInput{CharacterID: "char_1", Amount: 250})
		s.Require().NoError(err)
		s.Equal(2, out.Character.Level)
		s.Equal(150, out.Character.Exp)
		s.Equal(5, out.Character.BonusPoints)
		s.Len(out.LevelUps, 1)
		s.Equal(s.now.Unix(), out.LevelUps[0].Timestamp)
	})

	s.Run("caps stored history", func() {
		old := entities.LevelUpRecord{Level: 0, StatsBefore: map[string]int{}, StatsAfter: map[string]int{}}
		c := builders.NewCharacterBuilder().WithID("char_1").WithHistory(old, old).Build()
		s.expectGet(c)
		mocks.ExpectCharacterUpdate(s.ctx, s.mockCharRepo)

		out, err := s.orchestrator.AddExperience(s.ctx, &character.AddExperienceInput{CharacterID: "char_1", Amount: 910})
		s.Require().NoError(err)
		s.Len(out.LevelUps, 3)
		s.Require().Len(out.Character.LevelHistory, 2)
		s.Equal(3, out.Character.LevelHistory[0].Level)
		s.Equal(4, out.Character.LevelHistory[1].Level)
	})

	s.Run("no level-up still persists experience", func() {
		c := builders.NewCharacterBuilder().WithID("char_1").Build()
		s.expectGet(c)
		mocks.ExpectCharacterUpdate(s.ctx, s.mockCharRepo)

		out, err := s.orchestrator.AddExperience(s.ctx, &character.AddExperienceInput{CharacterID: "char_1", Amount: 40})
		s.Require().NoError(err)
		s.Empty(out.LevelUps)
		s.Equal(40, out.Character.Exp)
	})

	s.Run("from a leveled character", func() {
		c := testutils.CreateTestCharacterAtStage("char_3", testutils.StageLeveled)
		s.expectGet(c)
		mocks.ExpectCharacterUpdate(s.ctx, s.mockCharRepo)

		out, err := s.orchestrator.AddExperience(s.ctx, &character.AddExperienceInput{CharacterID: "char_3", Amount: 519})
		s.Require().NoError(err)
		s.Equal(4, out.Character.Level)
		s.Equal(40, out.Character.Exp)
		s.Equal(15, out.Character.BonusPoints)
		s.Equal(145, out.Character.Stats["hp"])
		s.Equal(19, out.Character.Stats["attack"])
	})

	s.Run("rejects non-positive amounts", func() {
		_, err := s.orchestrator.AddExperience(s.ctx, &character.AddExperienceInput{CharacterID: "char_1", Amount: 0})
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *OrchestratorTestSuite) TestPreviewStats() {
	s.Run("stored character with pending allocations", func() {
		c := builders.NewCharacterBuilder().WithID("char_1").WithBonusPoints(4).Build()
		s.expectGet(c)

		out, err := s.orchestrator.PreviewStats(s.ctx, &character.PreviewStatsInput{
			CharacterID: "char_1",
			Pending:     map[string]int{"hp": 2, "attack": 1},
		})
		s.Require().NoError(err)
		s.Equal(120, out.Stats["hp"])
		s.Equal(11, out.Stats["attack"])
		s.Equal(map[string]int{"hp": 20, "attack": 1}, out.Delta)
		s.Equal(1, out.RemainingBonusPoints)
		s.Equal(100, c.Stats["hp"], "stored character is not modified")
	})

	s.Run("pending refund of allocated points", func() {
		c := testutils.CreateTestCharacterAtStage("char_2", testutils.StageAllocated)
		s.expectGet(c)

		out, err := s.orchestrator.PreviewStats(s.ctx, &character.PreviewStatsInput{
			CharacterID: "char_2",
			Pending:     map[string]int{"hp": -1},
		})
		s.Require().NoError(err)
		s.Equal(3, out.Level)
		s.Equal(140, out.Stats["hp"])
		s.Equal(map[string]int{"hp": -10}, out.Delta)
		s.Equal(9, out.RemainingBonusPoints)
	})

	s.Run("pending over budget", func() {
		c := builders.NewCharacterBuilder().WithID("char_1").WithBonusPoints(1).Build()
		s.expectGet(c)

		_, err := s.orchestrator.PreviewStats(s.ctx, &character.PreviewStatsInput{
			CharacterID: "char_1",
			Pending:     map[string]int{"hp": 2},
		})
		s.True(errors.IsFailedPrecondition(err))
	})

	s.Run("draft at a higher level", func() {
		out, err := s.orchestrator.PreviewStats(s.ctx, &character.PreviewStatsInput{
			Draft: &character.Draft{
				JobID:     "warrior",
				Level:     5,
				BaseStats: map[string]int{"hp": 100},
			},
			Pending: map[string]int{"hp": 2},
		})
		s.Require().NoError(err)
		s.Equal(5, out.Level)
		s.Equal(180, out.Stats["hp"])
		s.Equal(18, out.RemainingBonusPoints)
	})

	s.Run("draft cannot refund", func() {
		_, err := s.orchestrator.PreviewStats(s.ctx, &character.PreviewStatsInput{
			Draft:   &character.Draft{},
			Pending: map[string]int{"mp": -1},
		})
		s.True(errors.IsFailedPrecondition(err))
	})

	s.Run("needs exactly one subject", func() {
		_, err := s.orchestrator.PreviewStats(s.ctx, &character.PreviewStatsInput{})
		s.True(errors.IsInvalidArgument(err))

		_, err = s.orchestrator.PreviewStats(s.ctx, &character.PreviewStatsInput{CharacterID: "c", Draft: &character.Draft{}})
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *OrchestratorTestSuite) TestDeleteCharacter() {
	s.mockCharRepo.EXPECT().
		Delete(s.ctx, characterrepo.DeleteInput{ID: "char_1"}).
		Return(&characterrepo.DeleteOutput{}, nil)

	_, err := s.orchestrator.DeleteCharacter(s.ctx, &character.DeleteCharacterInput{CharacterID: "char_1"})
	s.NoError(err)

	s.mockCharRepo.EXPECT().
		Delete(s.ctx, characterrepo.DeleteInput{ID: "char_2"}).
		Return(nil, errors.NotFound("character with ID char_2 not found"))

	_, err = s.orchestrator.DeleteCharacter(s.ctx, &character.DeleteCharacterInput{CharacterID: "char_2"})
	s.True(errors.IsNotFound(err))
}
