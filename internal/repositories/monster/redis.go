package monster

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-workshop/internal/entities"
	"github.com/KirkDiggler/rpg-workshop/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-workshop/internal/redis"
)

const (
	monsterKeyPrefix = "monster:"
	monsterIndexKey  = "monster:index"

	errMonsterNil     = "monster cannot be nil"
	errMonsterIDEmpty = "monster ID cannot be empty"
)

// RedisConfig contains configuration for the Redis monster repository
type RedisConfig struct {
	Client redisclient.Client
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
}

// NewRedis creates a Redis-backed monster repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Monster == nil {
		return nil, errors.InvalidArgument(errMonsterNil)
	}
	if input.Monster.ID == "" {
		return nil, errors.InvalidArgument(errMonsterIDEmpty)
	}

	key := monsterKeyPrefix + input.Monster.ID
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("monster with ID %s already exists", input.Monster.ID)
	}

	data, err := json.Marshal(input.Monster)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal monster")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, monsterIndexKey, input.Monster.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create monster")
	}

	return &CreateOutput{Monster: input.Monster}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errMonsterIDEmpty)
	}

	result, err := r.client.Get(ctx, monsterKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("monster with ID %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get monster")
	}

	var m entities.Monster
	if err := json.Unmarshal([]byte(result), &m); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to unmarshal monster")
	}

	return &GetOutput{Monster: &m}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Monster == nil {
		return nil, errors.InvalidArgument(errMonsterNil)
	}
	if input.Monster.ID == "" {
		return nil, errors.InvalidArgument(errMonsterIDEmpty)
	}

	key := monsterKeyPrefix + input.Monster.ID
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("monster with ID %s not found", input.Monster.ID)
	}

	data, err := json.Marshal(input.Monster)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal monster")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, monsterIndexKey, input.Monster.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to update monster")
	}

	return &UpdateOutput{Monster: input.Monster}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errMonsterIDEmpty)
	}

	key := monsterKeyPrefix + input.ID
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("monster with ID %s not found", input.ID)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, monsterIndexKey, input.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete monster")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) List(ctx context.Context, _ ListInput) (*ListOutput, error) {
	ids, err := r.client.SMembers(ctx, monsterIndexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read monster index")
	}
	sort.Strings(ids)

	monsters := make([]*entities.Monster, 0, len(ids))
	for _, id := range ids {
		out, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "monster missing, cleaning up index",
					"monster_id", id)
				r.client.SRem(ctx, monsterIndexKey, id)
				continue
			}
			return nil, errors.Wrapf(err, "failed to get monster %s", id)
		}
		monsters = append(monsters, out.Monster)
	}

	slog.DebugContext(ctx, "listed monsters", "count", len(monsters))
	return &ListOutput{Monsters: monsters}, nil
}
