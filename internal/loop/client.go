// Package loop runs one terminal connection: it reads keys and mouse
// reports, drives a game.Session at the terminal frame rate and draws its
// snapshots with half-block graphics.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/tomz197/octoshot/internal/draw"
	"github.com/tomz197/octoshot/internal/game"
	"github.com/tomz197/octoshot/internal/game/config"
	"github.com/tomz197/octoshot/internal/input"
)

// keyboardSpeed is how far arrow keys nudge the craft, in pixels per frame.
const keyboardSpeed = 8.0

// Client handles rendering and input for a single connection.
type Client struct {
	session      *game.Session
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	styles       styles
	log          *log.Logger
	username     string
	now          func() time.Time
	stars        []star

	fieldWidth  float64
	fieldHeight float64

	running      bool
	lastInput    time.Time
	isInactive   bool
	wasInactive  bool
	sceneChanged bool
	mouseDown    bool
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc   draw.TermSizeFunc
	Username       string
	Logger         *log.Logger
	Profile        termenv.Profile // Color depth of the terminal
	SessionOptions []game.Option
	Now            func() time.Time // Frame clock, defaults to time.Now
}

// NewClient creates a client with its own session reading from r and drawing to w.
func NewClient(r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	c := &Client{
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		styles:       newStyles(w, opts.Profile),
		log:          logger,
		username:     opts.Username,
		now:          now,
		running:      true,
		lastInput:    now(),
	}

	sessionOpts := append([]game.Option{game.WithLogger(logger)}, opts.SessionOptions...)
	sessionOpts = append(sessionOpts, game.WithObserver(game.ObserverFunc(c.onEvent)))
	c.session = game.NewSession(sessionOpts...)

	snap := c.session.Snapshot()
	c.fieldWidth, c.fieldHeight = snap.Width, snap.Height
	c.stars = newStarfield(rand.New(rand.NewPCG(1, 2)), c.fieldWidth, c.fieldHeight)

	termWidth, termHeight, _ := termSizeFunc()
	cols, rows, offsetCol, offsetRow := c.fit(termWidth, termHeight)
	c.canvas = draw.NewScaledCanvas(cols, rows, c.fieldWidth, c.fieldHeight, opts.Profile)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter = draw.NewChunkWriter(w, offsetCol, offsetRow)
	return c
}

// Session returns the client's game session.
func (c *Client) Session() *game.Session {
	return c.session
}

// Run starts the client loop. Blocks until the player quits, the input
// closes or ctx is done.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	draw.EnableMouse(c.writer)
	defer draw.ShowCursor(c.writer)
	defer draw.DisableMouse(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := c.now()

	for c.running && ctx.Err() == nil {
		frameStart := c.now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		c.update(input.ReadInput(c.inputStream), frameStart, delta)
		c.updateScreen()

		if err := c.drawFrame(); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}

		elapsed := c.now().Sub(frameStart)
		if elapsed < config.BaseFrameTime {
			time.Sleep(config.BaseFrameTime - elapsed)
		}
	}

	c.log.Info("client stopped", "score", c.session.Score(), "scene", c.session.Scene())
	c.session.Close()

	draw.ClearScreen(c.writer)
	return nil
}

// update applies one frame of input and advances the session.
func (c *Client) update(inp input.Input, now time.Time, delta time.Duration) {
	if inp.Closed {
		c.running = false
		return
	}

	idle := now.Sub(c.lastInput).Seconds()
	switch {
	case len(inp.Pressed) > 0:
		c.lastInput = now
		c.isInactive = false
	case idle > config.InactivityDisconnectUser:
		c.log.Info("disconnecting idle client", "idle", time.Duration(idle*float64(time.Second)).Round(time.Second))
		c.running = false
		return
	case idle > config.InactivityWarnUser:
		c.isInactive = true
	}

	if inp.Quit {
		c.running = false
		return
	}

	switch c.session.Scene() {
	case game.SceneStart:
		if inp.Space || inp.Enter {
			c.start(now)
		}
	case game.ScenePlaying:
		if inp.Escape {
			c.returnToStart()
		}
	case game.SceneGameOver:
		switch {
		case inp.Space || inp.Enter:
			c.restart(now)
		case inp.Escape:
			c.returnToStart()
		}
	}

	c.handleMouse(inp.Mouse, now)

	if c.session.Scene() != game.ScenePlaying {
		return
	}
	deltaFrames := float64(delta) / float64(config.BaseFrameTime)
	c.nudge(inp, deltaFrames)
	c.session.Tick(now, deltaFrames)
}

// handleMouse maps terminal mouse reports to pointer events. A click on the
// start or gameover screen starts a new run.
func (c *Client) handleMouse(events []input.MouseEvent, now time.Time) {
	for _, ev := range events {
		x, y, inside := c.canvas.TerminalToLogical(ev.Col, ev.Row)
		switch ev.Action {
		case input.MousePress:
			if !inside {
				continue
			}
			switch c.session.Scene() {
			case game.SceneStart:
				c.start(now)
			case game.SceneGameOver:
				c.restart(now)
			}
			c.mouseDown = true
			c.session.PointerDown(x, y)
		case input.MouseDrag:
			c.session.PointerMove(x, y)
		case input.MouseRelease:
			c.mouseDown = false
			c.session.PointerUp()
		}
	}
}

// nudge moves the craft with the arrow keys as a short synthetic drag.
// It yields to a mouse drag in progress.
func (c *Client) nudge(inp input.Input, deltaFrames float64) {
	if c.mouseDown {
		return
	}
	var dx, dy float64
	if inp.Left {
		dx--
	}
	if inp.Right {
		dx++
	}
	if inp.Up {
		dy--
	}
	if inp.Down {
		dy++
	}
	if dx == 0 && dy == 0 {
		return
	}
	step := keyboardSpeed * deltaFrames
	c.session.PointerDown(0, 0)
	c.session.PointerMove(dx*step, dy*step)
	c.session.PointerUp()
}

func (c *Client) start(now time.Time) {
	input.ResetKeyInput(c.inputStream)
	c.session.Start(now)
}

func (c *Client) restart(now time.Time) {
	c.session.ReturnToStart()
	c.start(now)
}

func (c *Client) returnToStart() {
	input.ResetKeyInput(c.inputStream)
	c.mouseDown = false
	c.session.ReturnToStart()
}

// onEvent observes the session so scene changes repaint the whole terminal.
func (c *Client) onEvent(e game.Event) {
	if e.Type != game.EventSceneChanged {
		return
	}
	c.sceneChanged = true
	c.log.Debug("scene changed", "scene", e.Scene, "user", c.username)
}

// updateScreen handles terminal resize. On actual size changes it clears
// the terminal to remove residue outside the new render area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	cols, rows, offsetCol, offsetRow := c.fit(termWidth, termHeight)

	if cols != c.canvas.TerminalWidth() || rows != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(cols, rows)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// fit sizes the render area to the field's portrait aspect.
func (c *Client) fit(termWidth, termHeight int) (cols, rows, offsetCol, offsetRow int) {
	return draw.FitAspect(termWidth, termHeight, config.MaxTermWidth, config.MaxTermHeight, c.fieldWidth, c.fieldHeight)
}
