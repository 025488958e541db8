package game

import (
	"math"
	"time"

	"github.com/tomz197/octoshot/internal/game/config"
)

// TimeTier classifies the remaining time for HUD colouring.
type TimeTier int

const (
	TimeSafe TimeTier = iota
	TimeCaution
	TimeWarning
	TimeDanger
)

func (t TimeTier) String() string {
	switch t {
	case TimeSafe:
		return "safe"
	case TimeCaution:
		return "caution"
	case TimeWarning:
		return "warning"
	case TimeDanger:
		return "danger"
	default:
		return "unknown"
	}
}

// Color returns the 0xRRGGBB HUD colour of the tier.
func (t TimeTier) Color() uint32 {
	switch t {
	case TimeCaution:
		return config.ColorCaution
	case TimeWarning:
		return config.ColorWarning
	case TimeDanger:
		return config.ColorDanger
	default:
		return config.ColorSafe
	}
}

// HUD holds presentation values derived from the session state.
type HUD struct {
	Seconds       int // Remaining time rounded up
	Tier          TimeTier
	TimeColor     uint32
	Pulse         float64 // Scale factor for the time readout, 1 unless in danger
	HealthPercent float64
	HealthLow     bool
}

// DisplaySeconds rounds the remaining time up to whole seconds.
func DisplaySeconds(remaining float64) int {
	return int(math.Ceil(remaining))
}

// TierFor returns the tier of a displayed seconds value.
func TierFor(seconds int) TimeTier {
	switch {
	case seconds <= config.TimeDangerSeconds:
		return TimeDanger
	case seconds <= config.TimeWarningSeconds:
		return TimeWarning
	case seconds <= config.TimeCautionSeconds:
		return TimeCaution
	default:
		return TimeSafe
	}
}

// PulseAt returns the low-time pulse scale at wall-clock time now.
func PulseAt(tier TimeTier, now time.Time) float64 {
	if tier != TimeDanger {
		return 1
	}
	return math.Sin(float64(now.UnixMilli())/200)*0.15 + 0.85
}

// HealthPercent returns health as a percentage of max.
func HealthPercent(health, maxHealth int) float64 {
	if maxHealth <= 0 {
		return 0
	}
	return float64(health) / float64(maxHealth) * 100
}

func deriveHUD(remaining float64, health, maxHealth int, now time.Time) HUD {
	seconds := DisplaySeconds(remaining)
	tier := TierFor(seconds)
	pct := HealthPercent(health, maxHealth)
	return HUD{
		Seconds:       seconds,
		Tier:          tier,
		TimeColor:     tier.Color(),
		Pulse:         PulseAt(tier, now),
		HealthPercent: pct,
		HealthLow:     pct <= config.HealthLowPercent,
	}
}
