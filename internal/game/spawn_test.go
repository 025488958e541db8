package game

import (
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/tomz197/octoshot/internal/object"
)

func newTestSpawner() spawner {
	cfg := DefaultConfig()
	return spawner{cfg: &cfg, rng: rand.New(rand.NewPCG(7, 7))}
}

func TestSpawner_EnemyHealth(t *testing.T) {
	sp := newTestSpawner()
	tests := []struct {
		elapsed time.Duration
		want    int
	}{
		{0, 1},
		{9999 * time.Millisecond, 1},
		{10 * time.Second, 2},
		{25 * time.Second, 3},
		{45 * time.Second, 5},
		{100 * time.Second, 5},
		{-time.Second, 1},
	}
	for _, tt := range tests {
		if got := sp.enemyHealth(tt.elapsed); got != tt.want {
			t.Errorf("enemyHealth(%v) = %d, want %d", tt.elapsed, got, tt.want)
		}
	}
}

func TestSpawner_SpeedRange(t *testing.T) {
	sp := newTestSpawner()
	tests := []struct {
		elapsed time.Duration
		lo, hi  float64
	}{
		{0, 2, 5},
		{10 * time.Second, 2, 6},
		{20 * time.Second, 2, 7},
		{50 * time.Second, 2, 7},
	}
	for _, tt := range tests {
		lo, hi := sp.speedRange(tt.elapsed)
		if lo != tt.lo || hi != tt.hi {
			t.Errorf("speedRange(%v) = (%v, %v), want (%v, %v)", tt.elapsed, lo, hi, tt.lo, tt.hi)
		}
	}
}

func TestSpawner_EnemyWithinBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := DefaultConfig()
		seed := rapid.Uint64().Draw(t, "seed")
		sp := spawner{cfg: &cfg, rng: rand.New(rand.NewPCG(seed, seed^0x9e37))}
		elapsed := time.Duration(rapid.Int64Range(0, int64(2*time.Minute)).Draw(t, "elapsed"))

		e := sp.enemy(3, elapsed)

		half := cfg.EnemySize / 2
		if e.X < half || e.X > cfg.Width-half {
			t.Fatalf("X = %v outside [%v, %v]", e.X, half, cfg.Width-half)
		}
		if e.Y != -cfg.EnemySize {
			t.Fatalf("Y = %v, want %v", e.Y, -cfg.EnemySize)
		}
		lo, hi := sp.speedRange(elapsed)
		if e.Speed < lo || e.Speed > hi {
			t.Fatalf("Speed = %v outside [%v, %v]", e.Speed, lo, hi)
		}
		if !slices.Contains(cfg.Palette, e.Color) {
			t.Fatalf("Color %06x not in palette", e.Color)
		}
		if e.Health != e.MaxHealth || e.MaxHealth != sp.enemyHealth(elapsed) {
			t.Fatalf("health = %d/%d, want %d", e.Health, e.MaxHealth, sp.enemyHealth(elapsed))
		}
		if e.ID != 3 {
			t.Fatalf("ID = %d, want 3", e.ID)
		}
	})
}

func TestSpawner_BulletAtNose(t *testing.T) {
	sp := newTestSpawner()
	b := sp.bullet(9, object.NewPlayer(100, 400, 60))

	if b.ID != 9 || b.X != 100 || b.Y != 370 {
		t.Errorf("bullet = %+v, want id 9 at (100, 370)", b)
	}
	if b.VY != -16 || b.Radius != 8 {
		t.Errorf("bullet VY = %v Radius = %v", b.VY, b.Radius)
	}
}

func TestIntervalTimer(t *testing.T) {
	timer := intervalTimer{interval: 900 * time.Millisecond}

	if !timer.poll(t0) {
		t.Fatal("fresh timer should fire immediately")
	}
	if timer.poll(t0.Add(900 * time.Millisecond)) {
		t.Error("timer fired at exactly one interval")
	}
	if !timer.poll(t0.Add(901 * time.Millisecond)) {
		t.Error("timer did not fire past the interval")
	}
	timer.reset()
	if !timer.poll(t0.Add(902 * time.Millisecond)) {
		t.Error("reset timer should fire immediately")
	}
}
