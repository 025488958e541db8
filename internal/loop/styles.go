package loop

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tomz197/octoshot/internal/draw"
	"github.com/tomz197/octoshot/internal/game"
)

// styles are the text styles of one connection, bound to its color profile.
type styles struct {
	renderer *lipgloss.Renderer
	title    lipgloss.Style
	text     lipgloss.Style
	dim      lipgloss.Style
	prompt   lipgloss.Style
	score    lipgloss.Style
}

func newStyles(w io.Writer, profile termenv.Profile) styles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return styles{
		renderer: r,
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff7edb")),
		text:     r.NewStyle().Foreground(lipgloss.Color("#e0e0e0")),
		dim:      r.NewStyle().Foreground(lipgloss.Color("#808080")),
		prompt:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd166")),
		score:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")),
	}
}

// timeStyle colors the countdown by tier. In the danger tier the readout
// flashes in step with the pulse.
func (s styles) timeStyle(hud game.HUD) lipgloss.Style {
	st := s.renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(draw.Hex(hud.TimeColor)))
	if hud.Tier == game.TimeDanger && hud.Pulse > 0.85 {
		st = st.Reverse(true)
	}
	return st
}

// healthStyle is green, or red once health is low.
func (s styles) healthStyle(hud game.HUD) lipgloss.Style {
	color := game.TimeSafe.Color()
	if hud.HealthLow {
		color = game.TimeDanger.Color()
	}
	return s.renderer.NewStyle().Foreground(lipgloss.Color(draw.Hex(color)))
}
