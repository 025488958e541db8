package loop

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/octoshot/internal/draw"
	"github.com/tomz197/octoshot/internal/game"
	"github.com/tomz197/octoshot/internal/game/config"
)

const (
	playerColor = 0x4cc9f0
	bulletColor = 0xfff3b0
	eyeColor    = 0x1b1b2f
	starCount   = 40
	healthBarW  = 10
)

// star is a background dot. depth scales its scroll speed.
type star struct {
	x, y  float64
	depth float64
	color uint32
}

func newStarfield(rng *rand.Rand, width, height float64) []star {
	stars := make([]star, starCount)
	for i := range stars {
		depth := 0.3 + rng.Float64()*0.7
		level := uint32(0x30 + depth*0x60)
		stars[i] = star{
			x:     rng.Float64() * width,
			y:     rng.Float64() * height,
			depth: depth,
			color: level<<16 | level<<8 | level,
		}
	}
	return stars
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On scene or inactivity transitions, do a full terminal clear
	// so UI elements from the previous screen don't persist.
	if c.sceneChanged || c.isInactive != c.wasInactive {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.sceneChanged = false
		c.wasInactive = c.isInactive
	}

	c.canvas.Clear()
	snap := c.session.Snapshot()

	c.drawBackground(snap)
	if snap.Scene == game.ScenePlaying {
		c.drawEntities(snap)
	}

	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)
	c.drawUI(snap)

	return c.chunkWriter.Flush()
}

func (c *Client) drawBackground(snap game.Snapshot) {
	for _, s := range c.stars {
		y := math.Mod(s.y+snap.BackgroundOffset*s.depth, snap.Height)
		c.canvas.SetFloat(s.x, y, s.color)
	}
}

func (c *Client) drawEntities(snap game.Snapshot) {
	for _, b := range snap.Bullets {
		c.canvas.FillCircle(b.X, b.Y, b.Radius, bulletColor)
	}
	for _, e := range snap.Enemies {
		c.drawEnemy(e)
	}
	c.drawPlayer(snap.Player)
}

// drawEnemy draws a round body that shrinks with damage, two eyes and
// tentacles that swap sides with the animation phase.
func (c *Client) drawEnemy(e game.EnemyView) {
	r := e.Size * e.Scale
	if r <= 0 {
		return
	}

	sway := r * 0.35
	if e.Phase == 1 {
		sway = -sway
	}
	for _, dx := range []float64{-0.6, 0, 0.6} {
		c.canvas.DrawLine(
			draw.Point{X: e.X + dx*r, Y: e.Y},
			draw.Point{X: e.X + dx*r + sway, Y: e.Y + r*1.4},
			e.Color,
		)
	}
	c.canvas.FillCircle(e.X, e.Y, r, e.Color)
	c.canvas.FillCircle(e.X-r*0.4, e.Y-r*0.2, r*0.18, eyeColor)
	c.canvas.FillCircle(e.X+r*0.4, e.Y-r*0.2, r*0.18, eyeColor)
}

// drawPlayer draws the craft as an upward triangle, dimmed while it blinks.
func (c *Client) drawPlayer(p game.PlayerView) {
	half := p.Size / 2
	points := c.canvas.BorrowPoints(3)
	points[0] = draw.Point{X: p.X, Y: p.Y - half}
	points[1] = draw.Point{X: p.X + half, Y: p.Y + half}
	points[2] = draw.Point{X: p.X - half, Y: p.Y + half}
	c.canvas.DrawPolygon(points, shade(playerColor, p.Alpha), true)
}

// shade scales each channel of a 0xRRGGBB color by f.
func shade(color uint32, f float64) uint32 {
	f = math.Max(0, math.Min(1, f))
	ch := func(shift uint) uint32 {
		return uint32(float64(color>>shift&0xff)*f) << shift
	}
	return ch(16) | ch(8) | ch(0)
}

// drawUI draws the text overlay for the current scene.
func (c *Client) drawUI(snap game.Snapshot) {
	if c.isInactive {
		c.drawInactivityScreen()
		return
	}

	switch snap.Scene {
	case game.ScenePlaying:
		c.drawPlayingHUD(snap)
	case game.SceneStart:
		c.drawStartScreen()
	case game.SceneGameOver:
		c.drawGameOverScreen(snap)
	}
}

// writeAt writes styled text at a render-area position and marks the cells
// underneath for repaint.
func (c *Client) writeAt(col, row int, s string) {
	c.chunkWriter.WriteAt(col, row, s)
	c.canvas.MarkTextDirty(col, row, lipgloss.Width(s))
}

// writeCentered writes styled text centered on row.
func (c *Client) writeCentered(row int, s string) {
	col := (c.canvas.TerminalWidth()-lipgloss.Width(s))/2 + 1
	c.writeAt(max(col, 1), row, s)
}

// drawPlayingHUD draws score, countdown and health.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(snap game.Snapshot) {
	width := c.canvas.TerminalWidth()
	height := c.canvas.TerminalHeight()
	hud := snap.HUD

	c.writeAt(1, 1, c.styles.score.Render(fmt.Sprintf("%-6d", snap.Score)))

	timeText := c.styles.timeStyle(hud).Render(fmt.Sprintf("%2ds", hud.Seconds))
	c.writeAt(width-lipgloss.Width(timeText)+1, 1, timeText)

	filled := int(math.Ceil(hud.HealthPercent / 100 * healthBarW))
	filled = max(0, min(healthBarW, filled))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", healthBarW-filled)
	health := c.styles.healthStyle(hud).Render(bar) + c.styles.dim.Render(fmt.Sprintf(" %3d", snap.Health))
	c.writeAt(1, height, health)
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen() {
	centerY := c.canvas.TerminalHeight() / 2
	s := c.styles

	c.writeCentered(centerY-6, s.title.Render("O C T O S H O T"))
	if c.username != "" {
		c.writeCentered(centerY-4, s.dim.Render(truncate("hi "+c.username, c.canvas.TerminalWidth())))
	}

	controls := []string{
		"drag . . . steer",
		"arrows . . steer",
		"fire . . . auto",
		"ESC  . . . menu",
		"Q  . . . . quit",
	}
	for i, line := range controls {
		c.writeCentered(centerY-2+i, s.text.Render(line))
	}

	// Blinking start prompt
	if c.now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerY+5, s.prompt.Render(">> SPACE / CLICK <<"))
	} else {
		c.writeCentered(centerY+5, strings.Repeat(" ", len(">> SPACE / CLICK <<")))
	}
}

// drawGameOverScreen shows the final score.
func (c *Client) drawGameOverScreen(snap game.Snapshot) {
	centerY := c.canvas.TerminalHeight() / 2
	s := c.styles

	reason := "time up"
	if snap.Health <= 0 {
		reason = "shot down"
	}
	c.writeCentered(centerY-3, s.title.Render("GAME OVER"))
	c.writeCentered(centerY-1, s.dim.Render(reason))
	c.writeCentered(centerY+1, s.score.Render(fmt.Sprintf("SCORE %d", snap.Score)))
	c.writeCentered(centerY+3, s.prompt.Render("SPACE  again"))
	c.writeCentered(centerY+4, s.text.Render("ESC  menu"))
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen() {
	centerY := c.canvas.TerminalHeight() / 2
	left := config.InactivityDisconnectUser - int(c.now().Sub(c.lastInput).Seconds())

	c.writeCentered(centerY-2, c.styles.prompt.Render("INACTIVE"))
	c.writeCentered(centerY, c.styles.text.Render(fmt.Sprintf("bye in %3ds", max(left, 0))))
	c.writeCentered(centerY+2, c.styles.dim.Render("press any key"))
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:max(width, 0)]
}
