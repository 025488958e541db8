package game

import (
	"time"

	"github.com/tomz197/octoshot/internal/physics"
)

// resolveCollisions runs the bullet pass and then the player pass.
func (s *Session) resolveCollisions(now time.Time) {
	s.resolveBulletHits()
	s.resolvePlayerHits(now)
}

// resolveBulletHits lets every live bullet damage at most one enemy.
// Bullets are processed newest first; when several enemies overlap a bullet
// the newest enemy takes the hit, as a reverse scan over the enemies would
// find it first. Grid order is arbitrary, so the highest id decides.
// A bullet is consumed even if the enemy survives. Destroyed entities are
// compacted once the pass is done.
func (s *Session) resolveBulletHits() {
	if len(s.bullets) == 0 || len(s.enemies) == 0 {
		return
	}

	s.grid.Clear()
	for i, e := range s.enemies {
		s.grid.Insert(e.X, e.Y, i)
	}

	for i := len(s.bullets) - 1; i >= 0; i-- {
		b := s.bullets[i]
		if b.IsDestroyed() {
			continue
		}

		target := -1
		s.grid.QueryAround(b.X, b.Y, func(j int) bool {
			e := s.enemies[j]
			if e.IsDestroyed() {
				return false
			}
			if !physics.CirclesOverlap(b.X, b.Y, b.Radius, e.X, e.Y, e.Radius()) {
				return false
			}
			if target < 0 || e.ID > s.enemies[target].ID {
				target = j
			}
			return false
		})
		if target < 0 {
			continue
		}

		b.MarkDestroyed()
		e := s.enemies[target]
		if e.Hit() {
			s.score += e.ScoreValue(s.cfg.ScorePerMaxHealth)
			s.log.Debug("enemy destroyed", "id", e.ID, "maxHealth", e.MaxHealth, "score", s.score)
		}
	}

	s.compact()
}

// resolvePlayerHits checks the craft against enemies unless it was already
// protected when the pass began. Every touching enemy disappears and costs
// the player HealthPerHit; the first contact starts the invincibility window.
func (s *Session) resolvePlayerHits(now time.Time) {
	if s.invincible {
		return
	}

	p := s.player
	for i := len(s.enemies) - 1; i >= 0; i-- {
		e := s.enemies[i]
		if e.IsDestroyed() {
			continue
		}
		if !physics.CirclesOverlap(p.X, p.Y, p.Radius(), e.X, e.Y, e.Radius()) {
			continue
		}

		e.MarkDestroyed()
		s.health = max(0, s.health-s.cfg.HealthPerHit)
		if !s.invincible {
			s.invincible = true
			s.invincibleSince = now
		}
		s.log.Debug("player hit", "enemy", e.ID, "health", s.health)
	}

	s.compact()
}
