package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-workshop/internal/config"
	"github.com/KirkDiggler/rpg-workshop/internal/errors"
	"github.com/KirkDiggler/rpg-workshop/internal/orchestrators/bestiary"
	"github.com/KirkDiggler/rpg-workshop/internal/orchestrators/character"
	"github.com/KirkDiggler/rpg-workshop/internal/orchestrators/simulator"
	"github.com/KirkDiggler/rpg-workshop/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-workshop/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-workshop/internal/pkg/logging"
	"github.com/KirkDiggler/rpg-workshop/internal/pkg/rng"
	"github.com/KirkDiggler/rpg-workshop/internal/redis"
	characterrepo "github.com/KirkDiggler/rpg-workshop/internal/repositories/character"
	monsterrepo "github.com/KirkDiggler/rpg-workshop/internal/repositories/monster"
	simulationrepo "github.com/KirkDiggler/rpg-workshop/internal/repositories/simulation"
)

const pingTimeout = 3 * time.Second

// app holds the wired services for one command invocation
type app struct {
	cfg   *config.Config
	rules *config.Rules

	redis     redis.Client
	logCloser io.Closer

	bestiary   bestiary.Service
	simulator  simulator.Service
	characters character.Service
}

// loadSettings reads env config and the rules file and installs the logger
func loadSettings() (*config.Config, *config.Rules, io.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	closer := logging.Setup(os.Stderr, logging.Options{
		Level:    cfg.LogLevel,
		Format:   cfg.LogFormat,
		FilePath: cfg.LogFile,
	})

	path := cfg.RulesPath
	if rulesPath != "" {
		path = rulesPath
	}
	rules, err := config.LoadRules(path)
	if err != nil {
		_ = closer.Close() // nolint:errcheck // closing on an error path
		return nil, nil, nil, err
	}

	return cfg, rules, closer, nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, rules, logCloser, err := loadSettings()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, rules: rules, logCloser: logCloser}
	if err := a.wire(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context) error {
	client, err := redis.NewClient(a.cfg.RedisAddr, nil)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to create redis client")
	}
	a.redis = client

	if err := redis.Ping(ctx, client, pingTimeout); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "redis is not reachable at "+a.cfg.RedisAddr)
	}

	realClock := clock.New()
	growthRules := a.rules.Growth()

	monsterRepo, err := monsterrepo.NewRedis(&monsterrepo.RedisConfig{Client: client})
	if err != nil {
		return errors.Wrap(err, "failed to create monster repository")
	}
	characterRepo, err := characterrepo.NewRedis(&characterrepo.RedisConfig{Client: client, Clock: realClock})
	if err != nil {
		return errors.Wrap(err, "failed to create character repository")
	}
	simulationRepo, err := simulationrepo.NewRedisRepository(&simulationrepo.Config{
		Client: client,
		Clock:  realClock,
		TTL:    a.cfg.SimulationTTL,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create simulation repository")
	}

	a.bestiary, err = bestiary.NewOrchestrator(&bestiary.Config{
		MonsterRepo:    monsterRepo,
		SimulationRepo: simulationRepo,
		IDGenerator:    idgen.NewUUID("mon"),
		Clock:          realClock,
		Rules:          growthRules,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create bestiary orchestrator")
	}

	a.simulator, err = simulator.NewOrchestrator(&simulator.Config{
		MonsterRepo:    monsterRepo,
		SimulationRepo: simulationRepo,
		IDGenerator:    idgen.NewUUID("run"),
		Source:         rng.NewDiceSource(dice.DefaultRoller),
		MaxTrials:      a.cfg.MaxTrials,
		RunTTL:         a.cfg.SimulationTTL,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create simulator orchestrator")
	}

	a.characters, err = character.New(&character.Config{
		CharacterRepo:   characterRepo,
		IDGenerator:     idgen.NewUUID("char"),
		Clock:           realClock,
		Rules:           growthRules,
		MaxLevelHistory: a.cfg.MaxLevelHistory,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create character orchestrator")
	}

	slog.DebugContext(ctx, "workshop wired", "redis_addr", a.cfg.RedisAddr)
	return nil
}

// Close releases the redis connection and the log file
func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Warn("failed to close redis client", "error", err)
		}
	}
	if a.logCloser != nil {
		_ = a.logCloser.Close() // nolint:errcheck // safe to ignore in cleanup
	}
}

// withApp wires the services, cancels on SIGINT/SIGTERM and runs fn
func withApp(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		return fn(ctx, a, args)
	}
}
