// Package draw renders colored pixel art to a terminal using half-block
// characters, two vertical sub-pixels per cell.
package draw

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/muesli/termenv"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// cell is what one terminal character shows. A zero cell is empty.
type cell struct {
	top, bottom       uint32
	hasTop, hasBottom bool
}

// staleCell never equals a drawable cell; colors fit in 24 bits.
var staleCell = cell{top: 1 << 24, hasTop: true}

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels.
type Canvas struct {
	termWidth      int      // Actual terminal columns
	termHeight     int      // Actual terminal rows
	subPixelHeight int      // termHeight * 2
	pixels         []uint32 // Flat slice: [y * termWidth + x], 0xRRGGBB
	set            []bool   // Whether the pixel at the same index is drawn

	// Last frame written to the terminal, for diffing.
	prev  []cell
	dirty bool

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area inside a larger terminal.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	profile  termenv.Profile
	fgCache  map[uint32]string
	bgCache  map[uint32]string
	cellsOut int // Cells written by the last Render

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder
	scaledBuf       []Point
	intersectionBuf []float64
	polygonBuf      []Point
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// Colors are downsampled to profile.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64, profile termenv.Profile) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
		profile:       profile,
		fgCache:       make(map[uint32]string),
		bgCache:       make(map[uint32]string),
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.pixels = make([]uint32, subPixelHeight*termWidth)
		c.set = make([]bool, subPixelHeight*termWidth)
		c.prev = make([]cell, termHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
		c.dirty = true
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.dirty = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.set)
}

// ForceRedraw makes the next Render write every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.dirty = true
}

// MarkTextDirty records that text was written over width cells starting at
// the 1-based render-area position (col, row), so the next Render repaints
// them whether or not the pixels changed.
func (c *Canvas) MarkTextDirty(col, row, width int) {
	row--
	if row < 0 || row >= c.termHeight {
		return
	}
	for x := max(col-1, 0); x < min(col-1+width, c.termWidth); x++ {
		c.prev[row*c.termWidth+x] = staleCell
	}
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, color uint32) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		i := y*c.termWidth + x
		c.pixels[i] = color
		c.set[i] = true
	}
}

func (c *Canvas) toPixel(x, y float64) (int, int) {
	return int(math.Floor(x * c.scaleX)), int(math.Floor(y * c.scaleY))
}

// SetFloat sets a pixel using float logical coordinates (applies scaling).
func (c *Canvas) SetFloat(x, y float64, color uint32) {
	px, py := c.toPixel(x, y)
	c.setPixel(px, py, color)
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point, color uint32) {
	x1, y1 := c.toPixel(p1.X, p1.Y)
	x2, y2 := c.toPixel(p2.X, p2.Y)

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1, color)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a polygon on the canvas.
// If filled is true, the interior is filled using scanline algorithm.
func (c *Canvas) DrawPolygon(points []Point, color uint32, filled bool) {
	if len(points) < 3 {
		return
	}

	if filled {
		c.fillPolygon(points, color)
	}

	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], color)
	}
}

// fillPolygon fills a polygon using scanline algorithm.
// Works in pixel space for proper scaling.
func (c *Canvas) fillPolygon(points []Point, color uint32) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	for i, p := range points {
		scaled[i] = Point{
			X: p.X * c.scaleX,
			Y: p.Y * c.scaleY,
		}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	yStart := max(int(math.Floor(minY)), 0)
	yEnd := min(int(math.Ceil(maxY)), c.subPixelHeight-1)

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]

		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}

		c.intersectionBuf = intersections
		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i] - 0.5))
			xEnd := int(math.Floor(intersections[i+1] - 0.5))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y, color)
			}
		}
	}
}

// FillCircle draws a filled circle centered at logical (cx, cy). Tiny
// circles still cover their center pixel.
func (c *Canvas) FillCircle(cx, cy, r float64, color uint32) {
	c.SetFloat(cx, cy, color)
	if r <= 0 {
		return
	}

	pcx, pcy := cx*c.scaleX, cy*c.scaleY
	rx, ry := r*c.scaleX, r*c.scaleY

	yStart := max(int(math.Floor(pcy-ry)), 0)
	yEnd := min(int(math.Ceil(pcy+ry)), c.subPixelHeight-1)
	for y := yStart; y <= yEnd; y++ {
		dy := (float64(y) + 0.5 - pcy) / ry
		if dy < -1 || dy > 1 {
			continue
		}
		half := rx * math.Sqrt(1-dy*dy)
		xStart := int(math.Ceil(pcx - half - 0.5))
		xEnd := int(math.Floor(pcx + half - 0.5))
		for x := xStart; x <= xEnd; x++ {
			c.setPixel(x, y, color)
		}
	}
}

// FillRect draws a filled axis-aligned rectangle in logical coordinates.
func (c *Canvas) FillRect(x, y, w, h float64, color uint32) {
	x1, y1 := c.toPixel(x, y)
	x2, y2 := c.toPixel(x+w, y+h)
	for py := max(y1, 0); py < min(y2, c.subPixelHeight); py++ {
		for px := max(x1, 0); px < min(x2, c.termWidth); px++ {
			c.setPixel(px, py, color)
		}
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render outputs the canvas to the writer using half-block characters.
// Only cells that changed since the previous Render are written.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	c.cellsOut = 0

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			var cur cell
			if c.set[topOffset+col] {
				cur.top, cur.hasTop = c.pixels[topOffset+col], true
			}
			if c.set[bottomOffset+col] {
				cur.bottom, cur.hasBottom = c.pixels[bottomOffset+col], true
			}

			idx := row*c.termWidth + col
			if !c.dirty && c.prev[idx] == cur {
				continue
			}
			c.prev[idx] = cur
			c.cellsOut++

			fmt.Fprintf(&c.renderBuf, "\033[%d;%dH\033[0m", row+1+c.offsetRow, col+1+c.offsetCol)
			c.writeCell(cur)
		}
	}
	if c.cellsOut > 0 {
		c.renderBuf.WriteString("\033[0m")
	}
	c.dirty = false

	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

func (c *Canvas) writeCell(cur cell) {
	switch {
	case cur.hasTop && cur.hasBottom && cur.top == cur.bottom:
		c.renderBuf.WriteString(c.fg(cur.top))
		c.renderBuf.WriteRune(BlockFull)
	case cur.hasTop && cur.hasBottom:
		c.renderBuf.WriteString(c.fg(cur.top))
		c.renderBuf.WriteString(c.bg(cur.bottom))
		c.renderBuf.WriteRune(BlockUpperHalf)
	case cur.hasTop:
		c.renderBuf.WriteString(c.fg(cur.top))
		c.renderBuf.WriteRune(BlockUpperHalf)
	case cur.hasBottom:
		c.renderBuf.WriteString(c.fg(cur.bottom))
		c.renderBuf.WriteRune(BlockLowerHalf)
	default:
		c.renderBuf.WriteByte(' ')
	}
}

func (c *Canvas) fg(color uint32) string {
	if seq, ok := c.fgCache[color]; ok {
		return seq
	}
	seq := c.sequence(color, false)
	c.fgCache[color] = seq
	return seq
}

func (c *Canvas) bg(color uint32) string {
	if seq, ok := c.bgCache[color]; ok {
		return seq
	}
	seq := c.sequence(color, true)
	c.bgCache[color] = seq
	return seq
}

func (c *Canvas) sequence(color uint32, background bool) string {
	tc := c.profile.Color(Hex(color))
	if tc == nil {
		return ""
	}
	seq := tc.Sequence(background)
	if seq == "" {
		return ""
	}
	return "\033[" + seq + "m"
}

// Hex formats a 0xRRGGBB color as "#rrggbb".
func Hex(color uint32) string {
	return fmt.Sprintf("#%06x", color&0xffffff)
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the render area on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder

	if hasV {
		if hasH {
			fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, strings.Repeat("─", c.termWidth))
			fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, strings.Repeat("─", c.termWidth))
		} else {
			fmt.Fprintf(&buf, "\033[%d;%dH%s", top, c.offsetCol+1, strings.Repeat("─", c.termWidth))
			fmt.Fprintf(&buf, "\033[%d;%dH%s", bottom, c.offsetCol+1, strings.Repeat("─", c.termWidth))
		}
	}

	if hasH {
		startRow, endRow := top+1, bottom
		if !hasV {
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}

	io.WriteString(w, buf.String())
}

// TerminalWidth returns the render area column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the render area row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to a 1-based position
// (col, row) relative to the render area.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px, py := c.toPixel(x, y)
	return px + 1, py/2 + 1
}

// TerminalToLogical converts an absolute 1-based terminal cell, as reported
// by the mouse, to the logical coordinates of its center. ok is false when
// the cell lies outside the render area; the coordinates are still valid
// and extrapolated.
func (c *Canvas) TerminalToLogical(col, row int) (x, y float64, ok bool) {
	px := col - 1 - c.offsetCol
	cy := row - 1 - c.offsetRow
	x = (float64(px) + 0.5) / c.scaleX
	y = float64(cy*2+1) / c.scaleY
	ok = px >= 0 && px < c.termWidth && cy >= 0 && cy < c.termHeight
	return x, y, ok
}

// BorrowPoints returns a reusable slice of Points with the given length.
// The returned slice is only valid until the next call to BorrowPoints.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
