package bestiary_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-workshop/internal/config"
	"github.com/KirkDiggler/rpg-workshop/internal/entities"
	"github.com/KirkDiggler/rpg-workshop/internal/errors"
	"github.com/KirkDiggler/rpg-workshop/internal/orchestrators/bestiary"
	"github.com/KirkDiggler/rpg-workshop/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-workshop/internal/pkg/idgen"
	monsterrepo "github.com/KirkDiggler/rpg-workshop/internal/repositories/monster"
	monstermock "github.com/KirkDiggler/rpg-workshop/internal/repositories/monster/mock"
	simulationrepo "github.com/KirkDiggler/rpg-workshop/internal/repositories/simulation"
	simulationmock "github.com/KirkDiggler/rpg-workshop/internal/repositories/simulation/mock"
	"github.com/KirkDiggler/rpg-workshop/internal/testutils"
)

// OrchestratorTestSuite runs the bestiary against miniredis-backed repositories
type OrchestratorTestSuite struct {
	suite.Suite
	ctx      context.Context
	clock    *clock.Fixed
	runs     simulationrepo.Repository
	orch     bestiary.Service
	monsters monsterrepo.Repository
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = &clock.Fixed{At: time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)}

	client, _ := testutils.CreateTestRedisClient(s.T())

	monsters, err := monsterrepo.NewRedis(&monsterrepo.RedisConfig{Client: client})
	s.Require().NoError(err)
	runs, err := simulationrepo.NewRedisRepository(&simulationrepo.Config{Client: client, Clock: s.clock})
	s.Require().NoError(err)

	orch, err := bestiary.NewOrchestrator(&bestiary.Config{
		MonsterRepo:    monsters,
		SimulationRepo: runs,
		IDGenerator:    idgen.NewSequential("mon"),
		Clock:          s.clock,
		Rules:          config.DefaultRules().Growth(),
	})
	s.Require().NoError(err)

	s.monsters = monsters
	s.runs = runs
	s.orch = orch
}

func (s *OrchestratorTestSuite) createGoblin() *entities.Monster {
	out, err := s.orch.CreateMonster(s.ctx, &bestiary.CreateMonsterInput{
		Name:      "ゴブリン",
		RaceID:    "dwarf",
		Level:     5,
		BaseStats: map[string]int{"hp": 60, "attack": 12},
		DropTable: []entities.DropTableEntry{{ItemName: "こん棒", Probability: 0.2}},
	})
	s.Require().NoError(err)
	return out.Monster
}

func (s *OrchestratorTestSuite) TestCreateMonster() {
	goblin := s.createGoblin()

	s.Equal("mon_1", goblin.ID)
	s.Equal(s.clock.At.Unix(), goblin.CreatedAt)
	s.Equal(60, goblin.BaseStats["hp"])
	s.Equal(50, goblin.BaseStats["mp"], "omitted stats start at their defaults")

	got, err := s.orch.GetMonster(s.ctx, &bestiary.GetMonsterInput{MonsterID: "mon_1"})
	s.Require().NoError(err)
	s.Equal(goblin, got.Monster)
}

func (s *OrchestratorTestSuite) TestCreateMonsterDefaultsAndImportID() {
	out, err := s.orch.CreateMonster(s.ctx, &bestiary.CreateMonsterInput{ID: "imported_7", Name: "スライム"})
	s.Require().NoError(err)
	s.Equal("imported_7", out.Monster.ID)
	s.Equal(1, out.Monster.Level)
	s.NotNil(out.Monster.DropTable)

	_, err = s.orch.CreateMonster(s.ctx, &bestiary.CreateMonsterInput{ID: "imported_7", Name: "スライム"})
	s.True(errors.IsAlreadyExists(err))
}

func (s *OrchestratorTestSuite) TestCreateMonsterValidation() {
	testCases := []struct {
		name  string
		input *bestiary.CreateMonsterInput
	}{
		{name: "nil input", input: nil},
		{name: "missing name", input: &bestiary.CreateMonsterInput{}},
		{name: "level out of range", input: &bestiary.CreateMonsterInput{Name: "x", Level: 1000}},
		{name: "unknown race", input: &bestiary.CreateMonsterInput{Name: "x", RaceID: "dragonkin"}},
		{name: "unknown stat", input: &bestiary.CreateMonsterInput{Name: "x", BaseStats: map[string]int{"charisma": 3}}},
		{name: "bad drop entry", input: &bestiary.CreateMonsterInput{
			Name:      "x",
			DropTable: []entities.DropTableEntry{{ItemName: "", Probability: 0.1}},
		}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.orch.CreateMonster(s.ctx, tc.input)
			s.True(errors.IsInvalidArgument(err), "got %v", err)
		})
	}
}

func (s *OrchestratorTestSuite) TestListMonsters() {
	s.createGoblin()
	s.createGoblin()

	out, err := s.orch.ListMonsters(s.ctx, &bestiary.ListMonstersInput{})
	s.Require().NoError(err)
	s.Len(out.Monsters, 2)
}

func (s *OrchestratorTestSuite) TestUpdateDropTable() {
	goblin := s.createGoblin()
	s.clock.At = s.clock.At.Add(time.Minute)

	out, err := s.orch.UpdateDropTable(s.ctx, &bestiary.UpdateDropTableInput{
		MonsterID: goblin.ID,
		DropTable: []entities.DropTableEntry{
			{ItemName: "こん棒", Probability: 0.3},
			{ItemName: "金貨", Probability: 1.5},
		},
	})
	s.Require().NoError(err)
	s.Len(out.Monster.DropTable, 2)
	s.Equal(s.clock.At.Unix(), out.Monster.UpdatedAt)
	s.Equal(goblin.CreatedAt, out.Monster.CreatedAt)

	s.Run("rejects invalid entries", func() {
		_, err := s.orch.UpdateDropTable(s.ctx, &bestiary.UpdateDropTableInput{
			MonsterID: goblin.ID,
			DropTable: []entities.DropTableEntry{{ItemName: entities.NoDropItemName, Probability: 0.1}},
		})
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("unknown monster", func() {
		_, err := s.orch.UpdateDropTable(s.ctx, &bestiary.UpdateDropTableInput{MonsterID: "ghost"})
		s.True(errors.IsNotFound(err))
	})
}

func (s *OrchestratorTestSuite) TestDeleteMonsterClearsLastRun() {
	goblin := s.createGoblin()
	_, err := s.runs.Save(s.ctx, simulationrepo.SaveInput{Owner: goblin, Run: &entities.SimulationRun{ID: "run_1"}})
	s.Require().NoError(err)

	_, err = s.orch.DeleteMonster(s.ctx, &bestiary.DeleteMonsterInput{MonsterID: goblin.ID})
	s.Require().NoError(err)

	_, err = s.orch.GetMonster(s.ctx, &bestiary.GetMonsterInput{MonsterID: goblin.ID})
	s.True(errors.IsNotFound(err))
	_, err = s.runs.Get(s.ctx, simulationrepo.GetInput{Owner: goblin})
	s.True(errors.IsNotFound(err))

	_, err = s.orch.DeleteMonster(s.ctx, &bestiary.DeleteMonsterInput{MonsterID: goblin.ID})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestResolveMonsterStats() {
	goblin := s.createGoblin()

	s.Run("authored level", func() {
		out, err := s.orch.ResolveMonsterStats(s.ctx, &bestiary.ResolveMonsterStatsInput{MonsterID: goblin.ID})
		s.Require().NoError(err)
		s.Equal(5, out.Level)
		// dwarf hp growth is 10 + 3, four level-ups
		s.Equal(60+13*4, out.Stats["hp"])
		s.Equal(12+2*4, out.Stats["attack"])
		s.Equal(10+3*4, out.Stats["defense"])
	})

	s.Run("level override", func() {
		out, err := s.orch.ResolveMonsterStats(s.ctx, &bestiary.ResolveMonsterStatsInput{MonsterID: goblin.ID, Level: 1})
		s.Require().NoError(err)
		s.Equal(60, out.Stats["hp"])
	})

	s.Run("level out of range", func() {
		_, err := s.orch.ResolveMonsterStats(s.ctx, &bestiary.ResolveMonsterStatsInput{MonsterID: goblin.ID, Level: -1})
		s.True(errors.IsOutOfRange(err))
	})
}

// DeleteWithFailingRunStoreTestSuite checks a run-store failure does not fail the delete
type DeleteWithFailingRunStoreTestSuite struct {
	suite.Suite
}

func TestDeleteWithFailingRunStoreSuite(t *testing.T) {
	suite.Run(t, new(DeleteWithFailingRunStoreTestSuite))
}

func (s *DeleteWithFailingRunStoreTestSuite) TestDeleteMonster() {
	ctrl := gomock.NewController(s.T())
	ctx := context.Background()
	mockMonsters := monstermock.NewMockRepository(ctrl)
	mockRuns := simulationmock.NewMockRepository(ctrl)

	orch, err := bestiary.NewOrchestrator(&bestiary.Config{
		MonsterRepo:    mockMonsters,
		SimulationRepo: mockRuns,
		IDGenerator:    idgen.NewSequential("mon"),
		Clock:          clock.New(),
		Rules:          config.DefaultRules().Growth(),
	})
	s.Require().NoError(err)

	mockMonsters.EXPECT().
		Delete(ctx, monsterrepo.DeleteInput{ID: "mon_1"}).
		Return(&monsterrepo.DeleteOutput{}, nil)
	mockRuns.EXPECT().
		Delete(ctx, gomock.Any()).
		Return(nil, errors.Unavailablef("redis down"))

	_, err = orch.DeleteMonster(ctx, &bestiary.DeleteMonsterInput{MonsterID: "mon_1"})
	s.NoError(err)
}
