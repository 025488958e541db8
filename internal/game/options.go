package game

import (
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/octoshot/internal/game/config"
)

// Config holds the gameplay tunables a Session runs with.
type Config struct {
	Width  float64
	Height float64

	Duration time.Duration

	MaxHealth          int
	HealthPerHit       int
	Invincibility      time.Duration
	PlayerSize         float64
	PlayerSpawnOffsetY float64

	BulletSpeed  float64
	BulletRadius float64
	FireInterval time.Duration

	EnemySize        float64
	EnemyMinSpeed    float64
	EnemyMaxSpeed    float64
	EnemySpeedSpread float64
	EnemySpeedStep   float64
	SpawnInterval    time.Duration
	EnemyHealthCap   int
	GrowthPeriod     time.Duration
	EnemyBaseScale   float64
	FrameDurationMs  float64
	Palette          []uint32

	ScorePerMaxHealth int
	ScrollSpeed       float64
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		Width:              config.FieldWidth,
		Height:             config.FieldHeight,
		Duration:           config.SessionDuration,
		MaxHealth:          config.PlayerMaxHealth,
		HealthPerHit:       config.PlayerHealthPerHit,
		Invincibility:      config.PlayerInvincibility,
		PlayerSize:         config.PlayerSize,
		PlayerSpawnOffsetY: config.PlayerSpawnOffsetY,
		BulletSpeed:        config.BulletSpeed,
		BulletRadius:       config.BulletRadius,
		FireInterval:       config.BulletInterval,
		EnemySize:          config.EnemySize,
		EnemyMinSpeed:      config.EnemyMinSpeed,
		EnemyMaxSpeed:      config.EnemyMaxSpeed,
		EnemySpeedSpread:   config.EnemySpeedSpread,
		EnemySpeedStep:     config.EnemySpeedStep,
		SpawnInterval:      config.EnemySpawnInterval,
		EnemyHealthCap:     config.EnemyHealthCap,
		GrowthPeriod:       config.EnemyGrowthPeriod,
		EnemyBaseScale:     config.EnemyBaseScale,
		FrameDurationMs:    config.EnemyFrameDuration,
		Palette:            append([]uint32(nil), config.EnemyPalette...),
		ScorePerMaxHealth:  config.ScorePerMaxHealth,
		ScrollSpeed:        config.BackgroundScrollSpeed,
	}
}

// Option configures a Session.
type Option func(*Session)

// WithConfig replaces the default tuning.
func WithConfig(cfg Config) Option {
	return func(s *Session) {
		s.cfg = cfg
	}
}

// WithLogger sets the logger for lifecycle and spawn messages.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		s.log = logger
	}
}

// WithRand sets the random source used for spawning.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) {
		s.rng = r
	}
}

// WithObserver subscribes o from construction on.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		s.observers = append(s.observers, o)
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

func defaultRand() *rand.Rand {
	return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6f63746f))
}
