package game

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/tomz197/octoshot/internal/object"
)

// spawner creates enemies along the top edge. Toughness and speed range both
// grow with elapsed session time in whole growth periods.
type spawner struct {
	cfg *Config
	rng *rand.Rand
}

// periods returns how many whole growth periods have elapsed.
func (sp *spawner) periods(elapsed time.Duration) int {
	if elapsed <= 0 || sp.cfg.GrowthPeriod <= 0 {
		return 0
	}
	return int(elapsed / sp.cfg.GrowthPeriod)
}

// enemyHealth is min(cap, floor(elapsed/period) + 1).
func (sp *spawner) enemyHealth(elapsed time.Duration) int {
	return min(sp.cfg.EnemyHealthCap, sp.periods(elapsed)+1)
}

// speedRange returns the bounds speed is drawn from at the given time.
func (sp *spawner) speedRange(elapsed time.Duration) (lo, hi float64) {
	lo = sp.cfg.EnemyMinSpeed
	hi = lo + sp.cfg.EnemySpeedSpread + float64(sp.periods(elapsed))*sp.cfg.EnemySpeedStep
	hi = math.Min(hi, sp.cfg.EnemyMaxSpeed)
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// enemy builds a fully on-screen-x enemy just above the top edge.
func (sp *spawner) enemy(id uint64, elapsed time.Duration) *object.Enemy {
	size := sp.cfg.EnemySize
	x := sp.rng.Float64()*(sp.cfg.Width-size) + size/2
	y := -size

	lo, hi := sp.speedRange(elapsed)
	speed := lo + sp.rng.Float64()*(hi-lo)

	var color uint32
	if n := len(sp.cfg.Palette); n > 0 {
		color = sp.cfg.Palette[sp.rng.IntN(n)]
	}

	return object.NewEnemy(id, x, y, speed, size, sp.enemyHealth(elapsed), color, sp.cfg.FrameDurationMs)
}

// bullet builds a bullet at the player's nose.
func (sp *spawner) bullet(id uint64, p *object.Player) *object.Bullet {
	x, y := p.Nose()
	return object.NewBullet(id, x, y, sp.cfg.BulletSpeed, sp.cfg.BulletRadius)
}
