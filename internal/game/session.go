// Package game implements the simulation core: one Session owns the player,
// bullets and enemies of a play-through and advances them on each frame tick.
//
// The Session never reads a clock or touches a renderer. Hosts pass the
// current time and frame delta into Tick, forward pointer events, and draw
// from Snapshot. All calls must come from a single goroutine.
package game

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/octoshot/internal/game/config"
	"github.com/tomz197/octoshot/internal/object"
	"github.com/tomz197/octoshot/internal/physics"
)

// Session holds all mutable state of one play-through.
type Session struct {
	cfg       Config
	screen    object.Screen
	rng       *rand.Rand
	log       *log.Logger
	observers []Observer
	pending   []Event

	scene         Scene
	score         int
	timeRemaining float64
	health        int

	invincible      bool
	invincibleSince time.Time

	player *object.Player
	drag   dragInput

	bullets      []*object.Bullet
	enemies      []*object.Enemy
	nextBulletID uint64
	nextEnemyID  uint64

	startedAt  time.Time
	now        time.Time
	fireTimer  intervalTimer
	spawnTimer intervalTimer
	spawner    spawner
	grid       *physics.SpatialGrid

	scroll float64
}

// NewSession creates a Session in the start scene.
func NewSession(opts ...Option) *Session {
	s := &Session{
		cfg:   DefaultConfig(),
		scene: SceneStart,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = discardLogger()
	}
	if s.rng == nil {
		s.rng = defaultRand()
	}

	s.screen = object.NewScreen(s.cfg.Width, s.cfg.Height)
	s.fireTimer.interval = s.cfg.FireInterval
	s.spawnTimer.interval = s.cfg.SpawnInterval
	s.spawner = spawner{cfg: &s.cfg, rng: s.rng}

	// Cells must cover the largest bullet-enemy contact distance.
	cell := math.Max(s.cfg.EnemySize, s.cfg.BulletRadius+s.cfg.EnemySize/2)
	s.grid = physics.NewSpatialGrid(s.cfg.Width, s.cfg.Height, cell)

	s.timeRemaining = s.cfg.Duration.Seconds()
	s.health = s.cfg.MaxHealth
	s.player = s.spawnPlayer()
	return s
}

// Subscribe registers an observer for all future events.
func (s *Session) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

// Start begins a play-through from the start or gameover scene. It is
// ignored while a run is in progress.
func (s *Session) Start(now time.Time) []Event {
	if s.scene == ScenePlaying {
		s.log.Debug("start ignored", "scene", s.scene)
		return nil
	}

	prevScore, prevHealth := s.score, s.health

	s.score = 0
	s.timeRemaining = s.cfg.Duration.Seconds()
	s.health = s.cfg.MaxHealth
	s.invincible = false
	s.invincibleSince = time.Time{}
	s.clearEntities()
	s.player = s.spawnPlayer()
	s.drag.release()
	s.startedAt = now
	s.now = now
	s.fireTimer.reset()
	s.spawnTimer.reset()
	s.scroll = 0

	s.setScene(s.scene, ScenePlaying)
	if s.score != prevScore {
		s.emit(Event{Type: EventScoreChanged, Value: s.score})
	}
	if s.health != prevHealth {
		s.emit(Event{Type: EventHealthChanged, Value: s.health})
	}
	s.emit(Event{Type: EventTimeChanged, Value: DisplaySeconds(s.timeRemaining)})

	s.log.Info("session started", "duration", s.cfg.Duration, "health", s.health)
	return s.flush()
}

// ReturnToStart abandons a running session or leaves the gameover screen.
// Entities are cleared; the score is kept so it can still be read.
func (s *Session) ReturnToStart() []Event {
	if s.scene == SceneStart {
		return nil
	}

	from := s.scene
	s.clearEntities()
	s.drag.release()
	s.invincible = false
	s.setScene(from, SceneStart)

	s.log.Info("returned to start", "from", from, "score", s.score)
	return s.flush()
}

// Tick advances the simulation. now is the host's clock sample for this
// frame and deltaFrames the frame time relative to 60 Hz. Ticks outside the
// playing scene do nothing.
func (s *Session) Tick(now time.Time, deltaFrames float64) []Event {
	if s.scene != ScenePlaying {
		return nil
	}
	if deltaFrames < 0 || math.IsNaN(deltaFrames) {
		deltaFrames = 0
	}
	s.now = now

	prevScore, prevHealth := s.score, s.health

	elapsed := now.Sub(s.startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := math.Max(0, (s.cfg.Duration - elapsed).Seconds())
	s.timeRemaining = math.Min(s.timeRemaining, remaining)

	s.scroll += s.cfg.ScrollSpeed * deltaFrames

	if s.invincible && now.Sub(s.invincibleSince) > s.cfg.Invincibility {
		s.invincible = false
	}

	if s.fireTimer.poll(now) {
		s.fireBullet()
	}
	if s.spawnTimer.poll(now) {
		s.spawnEnemy(elapsed)
	}

	ctx := object.UpdateContext{
		DeltaFrames: deltaFrames,
		FrameMillis: config.BaseFrameMillis,
		Screen:      s.screen,
	}
	s.updateEntities(ctx)
	s.resolveCollisions(now)

	if s.score != prevScore {
		s.emit(Event{Type: EventScoreChanged, Value: s.score})
	}
	if s.health != prevHealth {
		s.emit(Event{Type: EventHealthChanged, Value: s.health})
	}
	s.emit(Event{Type: EventTimeChanged, Value: DisplaySeconds(s.timeRemaining)})

	if s.timeRemaining <= 0 || s.health <= 0 {
		s.endGame()
	}

	return s.flush()
}

// PointerDown anchors a drag. Ignored unless playing.
func (s *Session) PointerDown(x, y float64) {
	if s.scene != ScenePlaying {
		return
	}
	s.drag.press(x, y)
}

// PointerMove drags the player by the pointer displacement. Ignored unless
// playing or when no press is in progress.
func (s *Session) PointerMove(x, y float64) {
	if s.scene != ScenePlaying {
		return
	}
	if dx, dy, ok := s.drag.move(x, y); ok {
		s.player.MoveBy(dx, dy, s.screen)
	}
}

// PointerUp ends the current drag.
func (s *Session) PointerUp() {
	s.drag.release()
}

// Close tears the session down, dropping all entities and observers.
func (s *Session) Close() {
	s.clearEntities()
	s.drag.release()
	s.observers = nil
	s.pending = nil
	s.scene = SceneStart
}

// Score returns the current score. After gameover it is the final score.
func (s *Session) Score() int {
	return s.score
}

// Scene returns the current scene.
func (s *Session) Scene() Scene {
	return s.scene
}

// Health returns the player's health.
func (s *Session) Health() int {
	return s.health
}

// TimeRemaining returns the remaining time in seconds.
func (s *Session) TimeRemaining() float64 {
	return s.timeRemaining
}

// Invincible reports whether the player is inside the post-hit window.
func (s *Session) Invincible() bool {
	return s.invincible
}

func (s *Session) spawnPlayer() *object.Player {
	return object.NewPlayer(s.cfg.Width/2, s.cfg.Height-s.cfg.PlayerSpawnOffsetY, s.cfg.PlayerSize)
}

func (s *Session) fireBullet() {
	id := s.nextBulletID
	if n := len(s.bullets); n > 0 && s.bullets[n-1].ID >= id {
		panic(fmt.Sprintf("game: bullet id %d reused", id))
	}
	s.nextBulletID++
	s.bullets = append(s.bullets, s.spawner.bullet(id, s.player))
}

func (s *Session) spawnEnemy(elapsed time.Duration) {
	id := s.nextEnemyID
	if n := len(s.enemies); n > 0 && s.enemies[n-1].ID >= id {
		panic(fmt.Sprintf("game: enemy id %d reused", id))
	}
	s.nextEnemyID++
	e := s.spawner.enemy(id, elapsed)
	s.enemies = append(s.enemies, e)
	s.log.Debug("enemy spawned", "id", e.ID, "x", e.X, "speed", e.Speed, "health", e.MaxHealth)
}

// updateEntities moves bullets then enemies, dropping those that left the field.
func (s *Session) updateEntities(ctx object.UpdateContext) {
	for _, b := range s.bullets {
		b.Update(ctx)
	}
	for _, e := range s.enemies {
		e.Update(ctx)
	}
	s.compact()
}

func (s *Session) compact() {
	s.bullets = object.Compact(s.bullets)
	s.enemies = object.Compact(s.enemies)
}

func (s *Session) clearEntities() {
	clear(s.bullets)
	clear(s.enemies)
	s.bullets = s.bullets[:0]
	s.enemies = s.enemies[:0]
	s.grid.Clear()
}

func (s *Session) endGame() {
	reason := "time up"
	if s.health <= 0 {
		reason = "health depleted"
	}
	s.setScene(ScenePlaying, SceneGameOver)
	s.log.Info("game over", "reason", reason, "score", s.score, "health", s.health, "timeRemaining", s.timeRemaining)
}

func (s *Session) setScene(from, to Scene) {
	if s.scene != from {
		panic(fmt.Sprintf("game: scene transition %s -> %s from %s", from, to, s.scene))
	}
	s.scene = to
	s.emit(Event{Type: EventSceneChanged, Scene: to})
}

func (s *Session) emit(e Event) {
	s.pending = append(s.pending, e)
	for _, o := range s.observers {
		o.Notify(e)
	}
}

func (s *Session) flush() []Event {
	events := s.pending
	s.pending = nil
	return events
}
