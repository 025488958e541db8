// Package config centralizes all tunable game parameters.
package config

import "time"

// Playfield - logical coordinates shared by the simulation and every renderer.
// Portrait phone layout; hosts scale to fit.
const (
	FieldWidth  = 375
	FieldHeight = 667
)

// Session
const (
	SessionDuration = 60 * time.Second
)

// Player
const (
	PlayerMaxHealth     = 100
	PlayerHealthPerHit  = 25
	PlayerInvincibility = 3000 * time.Millisecond
	PlayerSize          = 60.0
	PlayerSpawnOffsetY  = 100.0 // Distance of the spawn point above the bottom edge
	PlayerBlinkPeriodMs = 100.0 // Divisor of the sine driving the hit blink
	PlayerBlinkAlpha    = 0.3
)

// Bullets
const (
	BulletSpeed    = 16.0 // Pixels per 60 Hz frame
	BulletRadius   = 8.0
	BulletInterval = 200 * time.Millisecond
)

// Enemies
const (
	EnemySize          = 50.0
	EnemyMinSpeed      = 2.0 // Pixels per 60 Hz frame
	EnemyMaxSpeed      = 7.0
	EnemySpeedSpread   = 3.0 // Initial width of the speed range
	EnemySpeedStep     = 1.0 // Range widening per growth period
	EnemySpawnInterval = 900 * time.Millisecond
	EnemyHealthCap     = 5
	EnemyGrowthPeriod  = 10 * time.Second
	EnemyBaseScale     = 0.5 // Sprite sheet frames are 120px, drawn at 60px
	EnemyFrameDuration = 300.0 // Milliseconds per animation phase
)

// EnemyPalette holds the tints an enemy can be spawned with.
var EnemyPalette = []uint32{
	0xff6b9d, // red
	0x6bcfff, // blue
	0xffd96b, // yellow
	0x9d6bff, // purple
	0x6bff8e, // green
}

// Scoring
const (
	ScorePerMaxHealth = 10
)

// Background
const (
	BackgroundScrollSpeed = 0.8
)

// HUD thresholds (displayed seconds remaining).
const (
	TimeDangerSeconds  = 10
	TimeWarningSeconds = 20
	TimeCautionSeconds = 30
	HealthLowPercent   = 25.0
)

// HUD colours.
const (
	ColorSafe    = 0x00ff00
	ColorCaution = 0xffff00
	ColorWarning = 0xff8800
	ColorDanger  = 0xff0000
)

// Frame clock. Deltas handed to the simulation are relative to BaseFPS.
const (
	BaseFPS         = 60
	BaseFrameTime   = time.Second / BaseFPS
	BaseFrameMillis = 1000.0 / BaseFPS
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Terminal rendering
const (
	MaxTermWidth  = 120
	MaxTermHeight = 50
)
