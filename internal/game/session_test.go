package game

import (
	"math/rand/v2"
	"reflect"
	"testing"
	"time"

	"github.com/tomz197/octoshot/internal/object"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestSession(opts ...Option) *Session {
	base := []Option{WithRand(rand.New(rand.NewPCG(1, 2)))}
	return NewSession(append(base, opts...)...)
}

// newQuietSession returns a playing session whose fire and spawn timers will
// not trigger, so tests place entities by hand.
func newQuietSession() *Session {
	cfg := DefaultConfig()
	cfg.FireInterval = time.Hour
	cfg.SpawnInterval = time.Hour
	s := newTestSession(WithConfig(cfg))
	s.Start(t0)
	s.fireTimer.last = t0
	s.spawnTimer.last = t0
	return s
}

func (s *Session) addEnemy(x, y, speed float64, maxHealth int) *object.Enemy {
	e := object.NewEnemy(s.nextEnemyID, x, y, speed, s.cfg.EnemySize, maxHealth, 0xffffff, s.cfg.FrameDurationMs)
	s.nextEnemyID++
	s.enemies = append(s.enemies, e)
	return e
}

func (s *Session) addBullet(x, y float64) *object.Bullet {
	b := object.NewBullet(s.nextBulletID, x, y, s.cfg.BulletSpeed, s.cfg.BulletRadius)
	s.nextBulletID++
	s.bullets = append(s.bullets, b)
	return b
}

func hasEvent(events []Event, want Event) bool {
	for _, e := range events {
		if e == want {
			return true
		}
	}
	return false
}

func countType(events []Event, typ EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func TestNewSession_Defaults(t *testing.T) {
	s := newTestSession()

	if s.Scene() != SceneStart {
		t.Errorf("Scene = %v, want start", s.Scene())
	}
	if s.Health() != 100 {
		t.Errorf("Health = %d, want 100", s.Health())
	}
	if s.TimeRemaining() != 60 {
		t.Errorf("TimeRemaining = %v, want 60", s.TimeRemaining())
	}
	if s.player.X != 187.5 || s.player.Y != 567 {
		t.Errorf("player = (%v, %v), want (187.5, 567)", s.player.X, s.player.Y)
	}
}

func TestStart_EmitsSceneAndTime(t *testing.T) {
	s := newTestSession()
	events := s.Start(t0)

	if s.Scene() != ScenePlaying {
		t.Fatalf("Scene = %v, want playing", s.Scene())
	}
	want := []Event{
		{Type: EventSceneChanged, Scene: ScenePlaying},
		{Type: EventTimeChanged, Value: 60},
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %+v, want %+v", events, want)
	}
}

func TestStart_Idempotent(t *testing.T) {
	once := newTestSession()
	once.Start(t0)

	twice := newTestSession()
	twice.Start(t0)
	if events := twice.Start(t0.Add(time.Second)); events != nil {
		t.Errorf("second Start emitted %+v", events)
	}

	if !reflect.DeepEqual(once.Snapshot(), twice.Snapshot()) {
		t.Errorf("snapshots differ:\n%+v\n%+v", once.Snapshot(), twice.Snapshot())
	}
	if twice.startedAt != t0 {
		t.Errorf("startedAt moved to %v", twice.startedAt)
	}
}

func TestStart_RestartsFromGameOver(t *testing.T) {
	s := newQuietSession()
	s.addEnemy(s.player.X, s.player.Y, 0, 1)
	s.Tick(t0.Add(16*time.Millisecond), 1)
	s.score = 40
	s.Tick(t0.Add(61*time.Second), 1)
	if s.Scene() != SceneGameOver {
		t.Fatalf("Scene = %v, want gameover", s.Scene())
	}

	restart := t0.Add(62 * time.Second)
	events := s.Start(restart)
	if s.Scene() != ScenePlaying {
		t.Fatalf("Scene = %v, want playing", s.Scene())
	}
	if !hasEvent(events, Event{Type: EventSceneChanged, Scene: ScenePlaying}) {
		t.Errorf("missing scene event in %+v", events)
	}
	if !hasEvent(events, Event{Type: EventScoreChanged, Value: 0}) {
		t.Errorf("missing score reset in %+v", events)
	}
	if !hasEvent(events, Event{Type: EventHealthChanged, Value: 100}) {
		t.Errorf("missing health reset in %+v", events)
	}
	if s.Score() != 0 || s.Health() != 100 || s.TimeRemaining() != 60 {
		t.Errorf("score=%d health=%d time=%v, want 0 100 60", s.Score(), s.Health(), s.TimeRemaining())
	}
	if s.Invincible() || len(s.enemies) != 0 || len(s.bullets) != 0 {
		t.Error("restart should clear invincibility and entities")
	}
	if s.startedAt != restart {
		t.Errorf("startedAt = %v, want %v", s.startedAt, restart)
	}
}

func TestStart_IgnoredWhilePlaying(t *testing.T) {
	s := newTestSession()
	s.Start(t0)
	if events := s.Start(t0.Add(time.Second)); events != nil {
		t.Errorf("Start while playing emitted %+v", events)
	}
	if s.startedAt != t0 {
		t.Errorf("startedAt moved to %v", s.startedAt)
	}
}

func TestTick_IgnoredOutsidePlaying(t *testing.T) {
	s := newTestSession()
	if events := s.Tick(t0, 1); events != nil {
		t.Errorf("Tick in start emitted %+v", events)
	}
	if len(s.bullets) != 0 || len(s.enemies) != 0 {
		t.Error("Tick in start spawned entities")
	}
}

func TestTick_FiresAndSpawnsOnFirstTick(t *testing.T) {
	s := newTestSession()
	s.Start(t0)
	s.Tick(t0, 1)

	if len(s.bullets) != 1 {
		t.Fatalf("bullets = %d, want 1", len(s.bullets))
	}
	if b := s.bullets[0]; b.X != 187.5 || b.Y != 567-30-16 {
		t.Errorf("bullet = (%v, %v), want (187.5, %v)", b.X, b.Y, 567-30-16)
	}
	if len(s.enemies) != 1 {
		t.Fatalf("enemies = %d, want 1", len(s.enemies))
	}
	e := s.enemies[0]
	if e.MaxHealth != 1 || e.Health != 1 {
		t.Errorf("enemy health = %d/%d, want 1/1", e.Health, e.MaxHealth)
	}
	if e.Y <= -50 || e.Y > -50+5 {
		t.Errorf("enemy Y = %v, want just below -50", e.Y)
	}
}

func TestTick_FireIntervalIsStrict(t *testing.T) {
	s := newTestSession()
	s.Start(t0)

	s.Tick(t0, 0)
	s.Tick(t0.Add(100*time.Millisecond), 0)
	s.Tick(t0.Add(200*time.Millisecond), 0)
	if s.nextBulletID != 1 {
		t.Fatalf("fired %d bullets by 200ms, want 1", s.nextBulletID)
	}
	s.Tick(t0.Add(201*time.Millisecond), 0)
	if s.nextBulletID != 2 {
		t.Errorf("fired %d bullets by 201ms, want 2", s.nextBulletID)
	}
	// Cooldown restarts from the late fire, not from a fixed schedule.
	s.Tick(t0.Add(401*time.Millisecond), 0)
	if s.nextBulletID != 2 {
		t.Errorf("fired %d bullets by 401ms, want 2", s.nextBulletID)
	}
}

func TestTick_TimeRunsOutWithinTick(t *testing.T) {
	s := newTestSession()
	s.Start(t0)

	s.Tick(t0.Add(59600*time.Millisecond), 1)
	if got := s.TimeRemaining(); got < 0.39 || got > 0.41 {
		t.Fatalf("TimeRemaining = %v, want 0.4", got)
	}
	if s.Scene() != ScenePlaying {
		t.Fatalf("Scene = %v, want playing", s.Scene())
	}

	events := s.Tick(t0.Add(60600*time.Millisecond), 60)
	if s.TimeRemaining() != 0 {
		t.Errorf("TimeRemaining = %v, want 0", s.TimeRemaining())
	}
	if s.Scene() != SceneGameOver {
		t.Errorf("Scene = %v, want gameover", s.Scene())
	}
	if !hasEvent(events, Event{Type: EventTimeChanged, Value: 0}) {
		t.Errorf("missing time event in %+v", events)
	}
	if !hasEvent(events, Event{Type: EventSceneChanged, Scene: SceneGameOver}) {
		t.Errorf("missing gameover event in %+v", events)
	}
}

func TestTick_TimeEventEveryTick(t *testing.T) {
	s := newQuietSession()
	for i := 1; i <= 5; i++ {
		events := s.Tick(t0.Add(time.Duration(i)*16*time.Millisecond), 1)
		if countType(events, EventTimeChanged) != 1 {
			t.Fatalf("tick %d: events = %+v, want one time event", i, events)
		}
		if countType(events, EventScoreChanged)+countType(events, EventHealthChanged) != 0 {
			t.Fatalf("tick %d: unexpected score/health event in %+v", i, events)
		}
	}
}

func TestTick_ThreeHitsKillEnemy(t *testing.T) {
	s := newQuietSession()
	e := s.addEnemy(100, 200, 0, 3)

	for hit := 1; hit <= 3; hit++ {
		s.addBullet(100, 220)
		events := s.Tick(t0.Add(time.Duration(hit)*16*time.Millisecond), 1)

		if len(s.bullets) != 0 {
			t.Fatalf("hit %d: bullet not consumed", hit)
		}
		if hit < 3 {
			if e.Health != 3-hit || len(s.enemies) != 1 {
				t.Fatalf("hit %d: health = %d enemies = %d", hit, e.Health, len(s.enemies))
			}
			if got := s.Snapshot().Enemies[0].Scale; got != 0.5*float64(3-hit)/3 {
				t.Errorf("hit %d: scale = %v", hit, got)
			}
			if countType(events, EventScoreChanged) != 0 {
				t.Errorf("hit %d: score event before kill", hit)
			}
			continue
		}
		if len(s.enemies) != 0 {
			t.Fatalf("enemy survived third hit")
		}
		if s.Score() != 30 {
			t.Errorf("Score = %d, want 30", s.Score())
		}
		if !hasEvent(events, Event{Type: EventScoreChanged, Value: 30}) {
			t.Errorf("missing score event in %+v", events)
		}
	}
}

func TestTick_BulletDamagesOnlyOneOfStackedEnemies(t *testing.T) {
	s := newQuietSession()
	older := s.addEnemy(100, 200, 0, 2)
	newer := s.addEnemy(100, 200, 0, 2)
	s.addBullet(100, 216)

	s.Tick(t0.Add(16*time.Millisecond), 1)

	damaged := 0
	for _, e := range []*object.Enemy{older, newer} {
		if e.Health < e.MaxHealth {
			damaged++
		}
	}
	if damaged != 1 {
		t.Fatalf("damaged %d enemies, want 1", damaged)
	}
	if newer.Health != 1 {
		t.Errorf("newest enemy should take the hit, health = %d", newer.Health)
	}
}

func TestTick_EnemyMissGivesNoScore(t *testing.T) {
	s := newQuietSession()
	s.addEnemy(20, 710, 5, 1)

	s.Tick(t0.Add(16*time.Millisecond), 2)
	if len(s.enemies) != 0 {
		t.Fatalf("enemy below the field should be removed")
	}
	if s.Score() != 0 {
		t.Errorf("Score = %d, want 0", s.Score())
	}
}

func TestTick_PlayerHitOnLastHealthEndsGame(t *testing.T) {
	s := newQuietSession()
	s.health = s.cfg.HealthPerHit
	s.addEnemy(s.player.X, s.player.Y, 0, 1)

	now := t0.Add(16 * time.Millisecond)
	events := s.Tick(now, 1)

	if s.Health() != 0 {
		t.Errorf("Health = %d, want 0", s.Health())
	}
	if s.Scene() != SceneGameOver {
		t.Errorf("Scene = %v, want gameover on the same tick", s.Scene())
	}
	if !hasEvent(events, Event{Type: EventHealthChanged, Value: 0}) {
		t.Errorf("missing health event in %+v", events)
	}
	if len(s.enemies) != 0 {
		t.Error("enemy should disappear on contact")
	}
	if !s.Invincible() || s.invincibleSince != now {
		t.Error("invincibility should start at the hit")
	}
}

func TestTick_InvinciblePlayerIgnoresEnemies(t *testing.T) {
	s := newQuietSession()
	hitAt := t0.Add(time.Millisecond)
	s.invincible = true
	s.invincibleSince = hitAt
	e := s.addEnemy(s.player.X, s.player.Y, 0, 1)

	events := s.Tick(t0.Add(16*time.Millisecond), 1)

	if s.Health() != 100 {
		t.Errorf("Health = %d, want 100", s.Health())
	}
	if s.invincibleSince != hitAt {
		t.Errorf("invincibleSince moved to %v", s.invincibleSince)
	}
	if len(s.enemies) != 1 || s.enemies[0] != e {
		t.Error("enemy should remain while the player is invincible")
	}
	if countType(events, EventHealthChanged) != 0 {
		t.Errorf("unexpected health event in %+v", events)
	}
}

func TestTick_InvincibilityExpires(t *testing.T) {
	s := newQuietSession()
	s.addEnemy(s.player.X, s.player.Y, 0, 1)
	hitAt := t0.Add(16 * time.Millisecond)
	s.Tick(hitAt, 1)
	if !s.Invincible() {
		t.Fatal("player should be invincible after a hit")
	}

	s.Tick(hitAt.Add(3000*time.Millisecond), 1)
	if !s.Invincible() {
		t.Error("window should still be open at exactly 3s")
	}
	s.Tick(hitAt.Add(3001*time.Millisecond), 1)
	if s.Invincible() {
		t.Error("window should close after 3s")
	}
	if s.Snapshot().Player.Alpha != 1 {
		t.Error("alpha should be restored once the window closes")
	}
}

func TestTick_EveryContactInOneTickHurts(t *testing.T) {
	s := newQuietSession()
	s.addEnemy(s.player.X, s.player.Y, 0, 1)
	s.addEnemy(s.player.X+5, s.player.Y, 0, 1)

	now := t0.Add(16 * time.Millisecond)
	s.Tick(now, 1)
	if s.Health() != 50 {
		t.Errorf("Health = %d, want 50", s.Health())
	}
	if len(s.enemies) != 0 {
		t.Errorf("enemies = %d, want 0", len(s.enemies))
	}
	if !s.Invincible() || s.invincibleSince != now {
		t.Errorf("invincible=%v since=%v, want true since %v", s.Invincible(), s.invincibleSince, now)
	}
}

func TestTick_SimultaneousContactsClampHealth(t *testing.T) {
	s := newQuietSession()
	s.health = 25
	s.addEnemy(s.player.X, s.player.Y, 0, 1)
	s.addEnemy(s.player.X-5, s.player.Y, 0, 1)

	s.Tick(t0.Add(16*time.Millisecond), 1)
	if s.Health() != 0 {
		t.Errorf("Health = %d, want 0", s.Health())
	}
	if s.Scene() != SceneGameOver {
		t.Errorf("Scene = %v, want gameover", s.Scene())
	}
}

func TestTick_AnimatesEnemies(t *testing.T) {
	s := newQuietSession()
	e := s.addEnemy(100, 100, 0, 1)

	s.Tick(t0.Add(16*time.Millisecond), 17)
	if e.Anim.Phase != 0 {
		t.Fatalf("phase flipped early")
	}
	s.Tick(t0.Add(32*time.Millisecond), 2)
	if e.Anim.Phase != 1 {
		t.Errorf("phase = %d, want 1 after 19 frames", e.Anim.Phase)
	}
}

func TestPointerDrag(t *testing.T) {
	s := newQuietSession()
	x, y := s.player.X, s.player.Y

	s.PointerMove(300, 300)
	if s.player.X != x || s.player.Y != y {
		t.Fatal("move without press should not drag")
	}

	s.PointerDown(100, 100)
	s.PointerMove(110, 90)
	s.PointerMove(115, 95)
	if s.player.X != x+15 || s.player.Y != y-5 {
		t.Errorf("player = (%v, %v), want (%v, %v)", s.player.X, s.player.Y, x+15, y-5)
	}

	s.PointerUp()
	s.PointerMove(500, 500)
	if s.player.X != x+15 {
		t.Error("move after release should not drag")
	}

	s.PointerDown(0, 0)
	s.PointerMove(-5000, 5000)
	if s.player.X != 30 || s.player.Y != 637 {
		t.Errorf("player = (%v, %v), want clamped (30, 637)", s.player.X, s.player.Y)
	}
}

func TestPointer_IgnoredOutsidePlaying(t *testing.T) {
	s := newTestSession()
	x := s.player.X

	s.PointerDown(0, 0)
	s.PointerMove(50, 0)
	if s.player.X != x {
		t.Error("pointer should not move the player in the start scene")
	}
	if s.drag.active {
		t.Error("press should not anchor outside playing")
	}
}

func TestReturnToStart(t *testing.T) {
	s := newTestSession()
	s.Start(t0)
	s.Tick(t0, 1)
	s.score = 40

	events := s.ReturnToStart()
	if s.Scene() != SceneStart {
		t.Fatalf("Scene = %v, want start", s.Scene())
	}
	if !reflect.DeepEqual(events, []Event{{Type: EventSceneChanged, Scene: SceneStart}}) {
		t.Errorf("events = %+v", events)
	}
	if len(s.bullets) != 0 || len(s.enemies) != 0 {
		t.Error("entities not cleared")
	}
	if s.Score() != 40 {
		t.Errorf("Score = %d, want 40 kept", s.Score())
	}
	if events := s.ReturnToStart(); events != nil {
		t.Errorf("second ReturnToStart emitted %+v", events)
	}
}

func TestReturnToStart_RoundTripMatchesFreshSession(t *testing.T) {
	used := newTestSession()
	used.Start(t0)
	for i := 0; i < 120; i++ {
		used.Tick(t0.Add(time.Duration(i)*16*time.Millisecond), 1)
	}
	used.PointerDown(10, 10)
	used.PointerMove(40, 40)
	used.ReturnToStart()

	restart := t0.Add(time.Minute)
	used.Start(restart)

	fresh := newTestSession()
	fresh.Start(restart)

	if !reflect.DeepEqual(used.Snapshot(), fresh.Snapshot()) {
		t.Errorf("snapshots differ:\n%+v\n%+v", used.Snapshot(), fresh.Snapshot())
	}
	if used.drag != fresh.drag || used.fireTimer != fresh.fireTimer || used.spawnTimer != fresh.spawnTimer {
		t.Error("input or timers not reset")
	}
	if used.nextBulletID == 0 {
		t.Error("id counters are expected to keep counting across sessions")
	}
}

func TestClose(t *testing.T) {
	s := newTestSession()
	called := 0
	s.Subscribe(ObserverFunc(func(Event) { called++ }))
	s.Start(t0)
	s.Tick(t0, 1)
	before := called

	s.Close()
	if len(s.bullets) != 0 || len(s.enemies) != 0 {
		t.Error("Close should clear entities")
	}
	s.Start(t0)
	if called != before {
		t.Error("observers should be dropped on Close")
	}
}
