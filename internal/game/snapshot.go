package game

import (
	"github.com/tomz197/octoshot/internal/game/config"
	"github.com/tomz197/octoshot/internal/object"
)

// PlayerView is the render state of the craft.
type PlayerView struct {
	X, Y       float64
	Size       float64
	Alpha      float64
	Invincible bool
}

// BulletView is the render state of a bullet.
type BulletView struct {
	ID     uint64
	X, Y   float64
	Radius float64
}

// EnemyView is the render state of an enemy.
type EnemyView struct {
	ID        uint64
	X, Y      float64
	Size      float64
	Scale     float64 // Base sprite scale shrunk by remaining health
	Color     uint32
	Phase     int // Animation frame, 0 or 1
	Health    int
	MaxHealth int
}

// Snapshot is a copy of everything a renderer needs for one frame.
// It shares no memory with the Session.
type Snapshot struct {
	Scene            Scene
	Width, Height    float64
	Score            int
	Health           int
	MaxHealth        int
	TimeRemaining    float64
	HUD              HUD
	Player           PlayerView
	Bullets          []BulletView
	Enemies          []EnemyView
	BackgroundOffset float64
}

// Snapshot captures the current state. Time-dependent visuals (blink, pulse)
// use the clock sample of the latest Start or Tick.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Scene:            s.scene,
		Width:            s.cfg.Width,
		Height:           s.cfg.Height,
		Score:            s.score,
		Health:           s.health,
		MaxHealth:        s.cfg.MaxHealth,
		TimeRemaining:    s.timeRemaining,
		HUD:              deriveHUD(s.timeRemaining, s.health, s.cfg.MaxHealth, s.now),
		Player:           s.playerView(),
		Bullets:          make([]BulletView, 0, len(s.bullets)),
		Enemies:          make([]EnemyView, 0, len(s.enemies)),
		BackgroundOffset: s.scroll,
	}

	for _, b := range s.bullets {
		snap.Bullets = append(snap.Bullets, BulletView{ID: b.ID, X: b.X, Y: b.Y, Radius: b.Radius})
	}
	for _, e := range s.enemies {
		snap.Enemies = append(snap.Enemies, EnemyView{
			ID:        e.ID,
			X:         e.X,
			Y:         e.Y,
			Size:      e.Size,
			Scale:     e.Scale(s.cfg.EnemyBaseScale),
			Color:     e.Color,
			Phase:     e.Anim.Phase,
			Health:    e.Health,
			MaxHealth: e.MaxHealth,
		})
	}
	return snap
}

func (s *Session) playerView() PlayerView {
	v := PlayerView{
		X:          s.player.X,
		Y:          s.player.Y,
		Size:       s.player.Size,
		Alpha:      1,
		Invincible: s.invincible,
	}
	if s.invincible {
		v.Alpha = object.BlinkAlpha(s.now.Sub(s.invincibleSince), config.PlayerBlinkPeriodMs, config.PlayerBlinkAlpha)
	}
	return v
}
