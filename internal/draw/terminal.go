package draw

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ChunkWriter buffers one frame of terminal output (canvas, HUD text,
// screen clears) and hands it to the connection in maxChunkSize pieces.
// Positions given to WriteAt are relative to the render area; the offset
// set by SetOffset centres that area in the terminal.
type ChunkWriter struct {
	frame   strings.Builder
	out     *bufio.Writer
	scratch [20]byte
	col     int
	row     int
}

// NewChunkWriter wraps w with the render area's top-left offset.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		out: bufio.NewWriterSize(w, 8192),
		col: offsetCol,
		row: offsetRow,
	}
}

// SetOffset moves the render area, usually after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.col, cw.row = offsetCol, offsetRow
}

func (cw *ChunkWriter) moveTo(col, row int) {
	cw.frame.WriteString("\033[")
	cw.frame.Write(strconv.AppendInt(cw.scratch[:0], int64(row+cw.row), 10))
	cw.frame.WriteByte(';')
	cw.frame.Write(strconv.AppendInt(cw.scratch[:0], int64(col+cw.col), 10))
	cw.frame.WriteByte('H')
}

// Write appends raw bytes to the frame.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	return cw.frame.Write(p)
}

// WriteString appends s to the frame.
func (cw *ChunkWriter) WriteString(s string) {
	cw.frame.WriteString(s)
}

// WriteAt places s at 1-based (col, row) of the render area.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.moveTo(col, row)
	cw.frame.WriteString(s)
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush sends the frame and empties the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.frame.String()
	cw.frame.Reset()
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := cw.out.WriteString(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return cw.out.Flush()
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

// EnableMouse turns on button-event tracking with SGR coordinates, so
// presses, drags and releases arrive as "ESC [ < b ; col ; row M/m".
func EnableMouse(w io.Writer) {
	fmt.Fprint(w, "\033[?1002h\033[?1006h")
}

// DisableMouse undoes EnableMouse.
func DisableMouse(w io.Writer) {
	fmt.Fprint(w, "\033[?1006l\033[?1002l")
}

// FitAspect returns the largest render area of at most maxCols x maxRows
// that fits the terminal and keeps the logical width/height ratio, counting
// two sub-pixels per row. The offsets center it in the terminal.
func FitAspect(termWidth, termHeight, maxCols, maxRows int, logicalWidth, logicalHeight float64) (cols, rows, offsetCol, offsetRow int) {
	rows = max(min(termHeight, maxRows), 1)
	ratio := logicalWidth / logicalHeight

	cols = int(math.Round(float64(rows*2) * ratio))
	limit := max(min(termWidth, maxCols), 1)
	if cols > limit {
		cols = limit
		rows = max(int(math.Round(float64(cols)/ratio/2)), 1)
	}
	cols = max(cols, 1)

	offsetCol = max((termWidth-cols)/2, 0)
	offsetRow = max((termHeight-rows)/2, 0)
	return cols, rows, offsetCol, offsetRow
}
