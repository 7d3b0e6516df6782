// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-workshop/internal/entities"
	characterrepo "github.com/KirkDiggler/rpg-workshop/internal/repositories/character"
	charactermock "github.com/KirkDiggler/rpg-workshop/internal/repositories/character/mock"
	monsterrepo "github.com/KirkDiggler/rpg-workshop/internal/repositories/monster"
	monstermock "github.com/KirkDiggler/rpg-workshop/internal/repositories/monster/mock"
	simulationrepo "github.com/KirkDiggler/rpg-workshop/internal/repositories/simulation"
	simulationmock "github.com/KirkDiggler/rpg-workshop/internal/repositories/simulation/mock"
)

// ExpectCharacterGet sets up a mock expectation for getting a character from repository
func ExpectCharacterGet(
	ctx context.Context, mockRepo *charactermock.MockRepository,
	characterID string, character *entities.Character, err error,
) *gomock.Call {
	var out *characterrepo.GetOutput
	if err == nil {
		out = &characterrepo.GetOutput{Character: character}
	}
	return mockRepo.EXPECT().
		Get(ctx, characterrepo.GetInput{ID: characterID}).
		Return(out, err)
}

// ExpectCharacterCreate sets up a mock expectation for creating a character.
// The repository returns the character it was given.
func ExpectCharacterCreate(ctx context.Context, mockRepo *charactermock.MockRepository) *gomock.Call {
	return mockRepo.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input characterrepo.CreateInput) (*characterrepo.CreateOutput, error) {
			return &characterrepo.CreateOutput{Character: input.Character}, nil
		})
}

// ExpectCharacterUpdate sets up a mock expectation for updating a character.
// The repository returns the character it was given.
func ExpectCharacterUpdate(ctx context.Context, mockRepo *charactermock.MockRepository) *gomock.Call {
	return mockRepo.EXPECT().
		Update(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input characterrepo.UpdateInput) (*characterrepo.UpdateOutput, error) {
			return &characterrepo.UpdateOutput{Character: input.Character}, nil
		})
}

// ExpectMonsterGet sets up a mock expectation for getting a monster from repository
func ExpectMonsterGet(
	ctx context.Context, mockRepo *monstermock.MockRepository,
	monsterID string, monster *entities.Monster, err error,
) *gomock.Call {
	var out *monsterrepo.GetOutput
	if err == nil {
		out = &monsterrepo.GetOutput{Monster: monster}
	}
	return mockRepo.EXPECT().
		Get(ctx, monsterrepo.GetInput{ID: monsterID}).
		Return(out, err)
}

// ExpectRunSave sets up a mock expectation for saving a simulation run.
// The repository stamps the owner onto the run and reports replaced.
func ExpectRunSave(ctx context.Context, mockRepo *simulationmock.MockRepository, replaced bool) *gomock.Call {
	return mockRepo.EXPECT().
		Save(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input simulationrepo.SaveInput) (*simulationrepo.SaveOutput, error) {
			run := *input.Run
			run.EntityID = input.Owner.GetID()
			run.EntityType = input.Owner.GetType()
			return &simulationrepo.SaveOutput{Run: &run, Replaced: replaced}, nil
		})
}
