// Package input decodes raw terminal bytes into key and mouse input.
package input

import (
	"bufio"
	"bytes"
	"strconv"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// MouseAction is the kind of an SGR mouse report.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseDrag
	MouseRelease
)

// MouseEvent is a left-button report in 1-based terminal cells.
type MouseEvent struct {
	Action MouseAction
	Col    int
	Row    int
}

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	Up      bool
	Down    bool
	Space   bool
	Enter   bool
	Escape  bool
	Mouse   []MouseEvent // In arrival order
	Pressed []byte       // Raw bytes read this frame
	Closed  bool         // The underlying reader is gone
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit   time.Time
	left   time.Time
	right  time.Time
	up     time.Time
	down   time.Time
	space  time.Time
	enter  time.Time
	escape time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch      chan byte
	state   keyState
	partial []byte // Incomplete escape sequence carried to the next read
	closed  bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	return readInputAt(s, time.Now())
}

func readInputAt(s *Stream, now time.Time) Input {
	buf := s.partial
	s.partial = nil

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	mouse, rest := parse(&s.state, buf, now)
	if len(rest) > 0 && !s.closed {
		s.partial = rest
		buf = buf[:len(buf)-len(rest)]
	}

	return Input{
		Quit:    now.Sub(s.state.quit) < keyHoldDuration,
		Left:    now.Sub(s.state.left) < keyHoldDuration,
		Right:   now.Sub(s.state.right) < keyHoldDuration,
		Up:      now.Sub(s.state.up) < keyHoldDuration,
		Down:    now.Sub(s.state.down) < keyHoldDuration,
		Space:   now.Sub(s.state.space) < keyHoldDuration,
		Enter:   now.Sub(s.state.enter) < keyHoldDuration,
		Escape:  now.Sub(s.state.escape) < keyHoldDuration,
		Mouse:   mouse,
		Pressed: buf,
		Closed:  s.closed,
	}
}

// ResetKeyInput forgets recent key presses so a held key does not trigger
// twice across a scene change.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
}

// parse updates key state from buf and collects mouse reports. rest is a
// trailing escape sequence that has not been fully received yet.
func parse(state *keyState, buf []byte, now time.Time) (mouse []MouseEvent, rest []byte) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			applyByteToState(state, b, now)
			continue
		}

		// ESC not followed by '[' is the Escape key.
		if i+1 >= len(buf) || buf[i+1] != '[' {
			state.escape = now
			continue
		}
		if i+2 >= len(buf) {
			return mouse, buf[i:]
		}

		switch buf[i+2] {
		case 'A':
			state.up = now
			i += 2
		case 'B':
			state.down = now
			i += 2
		case 'C':
			state.right = now
			i += 2
		case 'D':
			state.left = now
			i += 2
		case '<':
			ev, n, ok := parseSGRMouse(buf[i:])
			if n == 0 {
				return mouse, buf[i:]
			}
			if ok {
				mouse = append(mouse, ev)
			}
			i += n - 1
		default:
			state.escape = now
		}
	}
	return mouse, nil
}

// parseSGRMouse decodes "ESC [ < b ; col ; row (M|m)". n is the sequence
// length, 0 if it is incomplete. ok is false for reports other than the left
// button (wheel, right click) which are consumed and ignored.
func parseSGRMouse(buf []byte) (ev MouseEvent, n int, ok bool) {
	end := bytes.IndexAny(buf, "Mm")
	if end < 0 {
		return MouseEvent{}, 0, false
	}
	n = end + 1

	fields := bytes.Split(buf[3:end], []byte{';'})
	if len(fields) != 3 {
		return MouseEvent{}, n, false
	}
	var vals [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(string(f))
		if err != nil {
			return MouseEvent{}, n, false
		}
		vals[i] = v
	}

	button, col, row := vals[0], vals[1], vals[2]
	if button&0b11 != 0 || button&64 != 0 {
		return MouseEvent{}, n, false
	}

	ev = MouseEvent{Col: col, Row: row}
	switch {
	case buf[end] == 'm':
		ev.Action = MouseRelease
	case button&32 != 0:
		ev.Action = MouseDrag
	default:
		ev.Action = MousePress
	}
	return ev, n, true
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		state.quit = now
	case 'a', 'A', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', 'k', 'K':
		state.up = now
	case 's', 'S', 'j', 'J':
		state.down = now
	case ' ':
		state.space = now
	case '\n', '\r':
		state.enter = now
	}
}
