// Package ebitenview hosts a game.Session in an Ebitengine window, with
// mouse and touch drags as pointer input.
package ebitenview

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/octoshot/internal/game"
	"github.com/tomz197/octoshot/internal/game/config"
)

var (
	colBackground = color.RGBA{0x0d, 0x0d, 0x1a, 0xff}
	colBullet     = color.RGBA{0xff, 0xf3, 0xb0, 0xff}
	colEye        = color.RGBA{0x1b, 0x1b, 0x2f, 0xff}
	colBarBack    = color.RGBA{0x30, 0x30, 0x40, 0xff}
	colStar       = color.RGBA{0x70, 0x70, 0x80, 0xff}
)

const playerColor = 0x4cc9f0

// Game adapts a Session to ebiten.Game.
type Game struct {
	session *game.Session
	log     *log.Logger
	last    time.Time

	touchID  ebiten.TouchID
	touching bool
	touchBuf []ebiten.TouchID
}

// New creates a window host with its own session.
func New(logger *log.Logger, opts ...game.Option) *Game {
	g := &Game{log: logger}
	opts = append([]game.Option{game.WithLogger(logger)}, opts...)
	g.session = game.NewSession(opts...)
	return g
}

// Update reads input and advances the session by the wall-clock time since
// the previous update.
func (g *Game) Update() error {
	now := time.Now()
	delta := config.BaseFrameTime
	if !g.last.IsZero() {
		delta = now.Sub(g.last)
	}
	g.last = now

	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.log.Info("window closed", "score", g.session.Score())
		g.session.Close()
		return ebiten.Termination
	}
	g.handleKeys(now)
	g.handleMouse(now)
	g.handleTouch(now)

	if g.session.Scene() == game.ScenePlaying {
		g.session.Tick(now, float64(delta)/float64(config.BaseFrameTime))
	}
	return nil
}

func (g *Game) handleKeys(now time.Time) {
	start := inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter)
	switch g.session.Scene() {
	case game.SceneStart:
		if start {
			g.session.Start(now)
		}
	case game.ScenePlaying:
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.session.ReturnToStart()
		}
	case game.SceneGameOver:
		if start {
			g.session.ReturnToStart()
			g.session.Start(now)
		} else if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.session.ReturnToStart()
		}
	}
}

func (g *Game) handleMouse(now time.Time) {
	x, y := ebiten.CursorPosition()
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.press(now, float64(x), float64(y))
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.session.PointerUp()
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		g.session.PointerMove(float64(x), float64(y))
	}
}

// handleTouch follows the first finger down until it lifts.
func (g *Game) handleTouch(now time.Time) {
	if !g.touching {
		g.touchBuf = inpututil.AppendJustPressedTouchIDs(g.touchBuf[:0])
		if len(g.touchBuf) == 0 {
			return
		}
		g.touchID = g.touchBuf[0]
		g.touching = true
		x, y := ebiten.TouchPosition(g.touchID)
		g.press(now, float64(x), float64(y))
		return
	}

	if inpututil.IsTouchJustReleased(g.touchID) {
		g.touching = false
		g.session.PointerUp()
		return
	}
	x, y := ebiten.TouchPosition(g.touchID)
	g.session.PointerMove(float64(x), float64(y))
}

// press starts a run from the menus, then anchors the drag.
func (g *Game) press(now time.Time, x, y float64) {
	switch g.session.Scene() {
	case game.SceneStart:
		g.session.Start(now)
	case game.SceneGameOver:
		g.session.ReturnToStart()
		g.session.Start(now)
	}
	g.session.PointerDown(x, y)
}

// Draw renders the latest snapshot.
func (g *Game) Draw(screen *ebiten.Image) {
	snap := g.session.Snapshot()
	screen.Fill(colBackground)
	drawStars(screen, snap)

	switch snap.Scene {
	case game.SceneStart:
		drawCentered(screen, snap, []string{
			"O C T O S H O T",
			"",
			"drag to steer, fire is automatic",
			"",
			"click or press SPACE to start",
		})
	case game.ScenePlaying:
		drawEntities(screen, snap)
		drawHUD(screen, snap)
	case game.SceneGameOver:
		drawCentered(screen, snap, []string{
			"GAME OVER",
			"",
			fmt.Sprintf("SCORE %d", snap.Score),
			"",
			"click or press SPACE to play again",
		})
	}
}

// Layout keeps the logical field size; ebiten scales it to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	snap := g.session.Snapshot()
	return int(snap.Width), int(snap.Height)
}

func drawStars(screen *ebiten.Image, snap game.Snapshot) {
	// Fixed pseudo-random layout, two parallax layers.
	for i := 0; i < 48; i++ {
		x := math.Mod(float64(i)*97.13, snap.Width)
		depth := 0.4 + float64(i%3)*0.3
		y := math.Mod(float64(i)*53.71+snap.BackgroundOffset*depth, snap.Height)
		vector.DrawFilledRect(screen, float32(x), float32(y), 1.5, 1.5, colStar, false)
	}
}

func drawEntities(screen *ebiten.Image, snap game.Snapshot) {
	for _, b := range snap.Bullets {
		vector.DrawFilledCircle(screen, float32(b.X), float32(b.Y), float32(b.Radius), colBullet, true)
	}

	for _, e := range snap.Enemies {
		r := float32(e.Size * e.Scale)
		if r <= 0 {
			continue
		}
		x, y := float32(e.X), float32(e.Y)
		c := rgba(e.Color, 1)
		sway := r * 0.35
		if e.Phase == 1 {
			sway = -sway
		}
		for _, dx := range []float32{-0.6, 0, 0.6} {
			vector.StrokeLine(screen, x+dx*r, y, x+dx*r+sway, y+r*1.4, 3, c, true)
		}
		vector.DrawFilledCircle(screen, x, y, r, c, true)
		vector.DrawFilledCircle(screen, x-r*0.4, y-r*0.2, r*0.18, colEye, true)
		vector.DrawFilledCircle(screen, x+r*0.4, y-r*0.2, r*0.18, colEye, true)
	}

	p := snap.Player
	half := float32(p.Size / 2)
	x, y := float32(p.X), float32(p.Y)
	c := rgba(playerColor, p.Alpha)
	vector.DrawFilledRect(screen, x-half*0.25, y-half, half*0.5, half*2, c, true)
	vector.DrawFilledRect(screen, x-half, y+half*0.1, half*2, half*0.5, c, true)
	vector.DrawFilledCircle(screen, x, y-half*0.2, half*0.35, c, true)
}

func drawHUD(screen *ebiten.Image, snap game.Snapshot) {
	hud := snap.HUD
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("SCORE %d", snap.Score), 8, 8)

	timeText := fmt.Sprintf("%2ds", hud.Seconds)
	tx := int(snap.Width) - 8 - len(timeText)*6
	ebitenutil.DebugPrintAt(screen, timeText, tx, 8)
	// Tier colored underline that swells with the low-time pulse.
	w := float32(len(timeText)*6) * float32(hud.Pulse)
	vector.DrawFilledRect(screen, float32(tx), 24, w, 3, rgba(hud.TimeColor, 1), false)

	barW := float32(snap.Width) - 16
	fill := barW * float32(hud.HealthPercent/100)
	healthColor := game.TimeSafe.Color()
	if hud.HealthLow {
		healthColor = game.TimeDanger.Color()
	}
	by := float32(snap.Height) - 16
	vector.DrawFilledRect(screen, 8, by, barW, 8, colBarBack, false)
	vector.DrawFilledRect(screen, 8, by, fill, 8, rgba(healthColor, 1), false)
}

func drawCentered(screen *ebiten.Image, snap game.Snapshot, lines []string) {
	y := int(snap.Height)/2 - len(lines)*8
	for i, line := range lines {
		x := (int(snap.Width) - len(line)*6) / 2
		ebitenutil.DebugPrintAt(screen, line, x, y+i*16)
	}
}

// rgba converts a 0xRRGGBB color with the given opacity.
func rgba(c uint32, alpha float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(c >> 16),
		G: uint8(c >> 8),
		B: uint8(c),
		A: uint8(math.Round(math.Max(0, math.Min(1, alpha)) * 255)),
	}
}
