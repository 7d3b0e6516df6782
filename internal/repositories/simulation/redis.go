package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rpg-workshop/internal/entities"
	"github.com/KirkDiggler/rpg-workshop/internal/errors"
	"github.com/KirkDiggler/rpg-workshop/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-workshop/internal/redis"
)

const (
	// Key pattern: simulation_run:{owner_type}:{owner_id}
	runKeyPrefix = "simulation_run:"

	// DefaultTTL applies when neither the input nor the config sets one
	DefaultTTL = time.Hour

	errOwnerNil     = "owner cannot be nil"
	errOwnerIDEmpty = "owner ID cannot be empty"
	errRunNil       = "run cannot be nil"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock

	// TTL overrides DefaultTTL
	TTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.TTL < 0 {
		vb.InvalidField("TTL", "must not be negative")
	}
	return vb.Build()
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	ttl    time.Duration
}

// NewRedisRepository creates a new Redis repository for simulation runs
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
		ttl:    ttl,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	key, err := buildKey(input.Owner)
	if err != nil {
		return nil, err
	}
	if input.Run == nil {
		return nil, errors.InvalidArgument(errRunNil)
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = r.ttl
	}

	now := r.clock.Now()
	run := *input.Run
	run.EntityID = input.Owner.GetID()
	run.EntityType = input.Owner.GetType()
	run.CreatedAt = now.Unix()
	run.ExpiresAt = now.Add(ttl).Unix()

	data, err := json.Marshal(&run)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal simulation run")
	}

	pipe := r.client.TxPipeline()
	existed := pipe.Exists(ctx, key)
	pipe.Set(ctx, key, data, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to store simulation run")
	}

	return &SaveOutput{
		Run:      &run,
		Replaced: existed.Val() > 0,
	}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	key, err := buildKey(input.Owner)
	if err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no simulation run for %s %s", input.Owner.GetType(), input.Owner.GetID())
		}
		return nil, errors.Wrapf(err, "failed to get simulation run")
	}

	var run entities.SimulationRun
	if err := json.Unmarshal([]byte(data), &run); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to unmarshal simulation run")
	}

	// redis expiry is authoritative but the clock may be ahead in tests
	if r.clock.Now().Unix() >= run.ExpiresAt {
		_ = r.client.Del(ctx, key)
		return nil, errors.NotFoundf("simulation run for %s %s has expired", input.Owner.GetType(), input.Owner.GetID())
	}

	return &GetOutput{Run: &run}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	key, err := buildKey(input.Owner)
	if err != nil {
		return nil, err
	}

	removed, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete simulation run")
	}

	return &DeleteOutput{Deleted: removed > 0}, nil
}

func buildKey(owner core.Entity) (string, error) {
	if owner == nil {
		return "", errors.InvalidArgument(errOwnerNil)
	}
	if owner.GetID() == "" {
		return "", errors.InvalidArgument(errOwnerIDEmpty)
	}
	return fmt.Sprintf("%s%s:%s", runKeyPrefix, owner.GetType(), owner.GetID()), nil
}
