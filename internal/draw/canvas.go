package draw

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x], ColorNone if unset
	shown          []cell  // Cells on screen after the last Render
	forceRedraw    bool

	// Scaling from logical to pixel coordinates
	logicalWidth  float64 // Target/logical width
	logicalHeight float64 // Target/logical height (in sub-pixels)
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder
	numBuf          [20]byte
	scaledBuf       []Point
	intersectionBuf []float64
}

// cell is the pair of sub-pixels shown by one terminal character.
type cell struct {
	top, bottom Color
}

// NewCanvas creates a canvas for the given terminal dimensions.
// The canvas has 2x vertical resolution (height*2 sub-pixels).
// No scaling is applied (1:1 mapping).
func NewCanvas(width, height int) *Canvas {
	return NewScaledCanvas(width, height, float64(width), float64(height*2))
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by the caller.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 0)
	termHeight = max(termHeight, 0)
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.pixels = make([]Color, subPixelHeight*termWidth)
		c.shown = make([]cell, termHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
		c.forceRedraw = true
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.forceRedraw = true
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
	clear(c.pixels)
}

// ForceRedraw makes the next Render repaint every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.forceRedraw = true
}

// colorDirty never appears in pixels, so a shown cell holding it always
// differs from the canvas and gets repainted.
const colorDirty Color = 255

// MarkTextDirty marks width cells starting at the 1-based canvas position for
// repaint on the next Render, e.g. after text was written over them.
func (c *Canvas) MarkTextDirty(col, row, width int) {
	row--
	if row < 0 || row >= c.termHeight {
		return
	}
	for x := max(col-1, 0); x < min(col-1+width, c.termWidth); x++ {
		c.shown[row*c.termWidth+x] = cell{top: colorDirty}
	}
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// Pixel returns the color at actual terminal sub-pixel coordinates.
func (c *Canvas) Pixel(x, y int) Color {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		return c.pixels[y*c.termWidth+x]
	}
	return ColorNone
}

// Set sets a pixel using logical coordinates (applies scaling).
func (c *Canvas) Set(p Point, col Color) {
	c.setPixel(c.toPixelX(p.X), c.toPixelY(p.Y), col)
}

func (c *Canvas) toPixelX(x float64) int {
	return int(math.Round(x * c.scaleX))
}

func (c *Canvas) toPixelY(y float64) int {
	return int(math.Round(y * c.scaleY))
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point, col Color) {
	c.DrawDashedLine(p1, p2, col, 1, 0)
}

// DrawDashedLine draws a line with on pixels set followed by off pixels skipped.
func (c *Canvas) DrawDashedLine(p1, p2 Point, col Color, on, off int) {
	x1, y1 := c.toPixelX(p1.X), c.toPixelY(p1.Y)
	x2, y2 := c.toPixelX(p2.X), c.toPixelY(p2.Y)

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
	period := max(on+off, 1)

	for step := 0; ; step++ {
		if step%period < on {
			c.setPixel(x1, y1, col)
		}

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
func (c *Canvas) DrawPolygon(points []Point, filled bool, col Color) {
	if len(points) < 3 {
		return
	}

	if filled {
		c.fillPolygon(points, col)
	}

	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], col)
	}
}

// DrawCircle draws the outline of a circle given in logical coordinates.
func (c *Canvas) DrawCircle(center Point, radius float64, col Color) {
	// Enough segments that neighbouring points touch at the current scale.
	r := radius * max(c.scaleX, c.scaleY)
	segments := max(int(2*math.Pi*r), 8)
	prev := Point{X: center.X + radius, Y: center.Y}
	for i := 1; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		next := Point{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}
		c.DrawLine(prev, next, col)
		prev = next
	}
}

// FillCircle fills a circle given in logical coordinates.
func (c *Canvas) FillCircle(center Point, radius float64, col Color) {
	cx, cy := center.X*c.scaleX, center.Y*c.scaleY
	rx, ry := radius*c.scaleX, radius*c.scaleY
	if rx <= 0 || ry <= 0 {
		return
	}
	for y := int(math.Floor(cy - ry)); y <= int(math.Ceil(cy+ry)); y++ {
		dy := (float64(y) - cy) / ry
		if dy < -1 || dy > 1 {
			continue
		}
		half := rx * math.Sqrt(1-dy*dy)
		for x := int(math.Round(cx - half)); x <= int(math.Round(cx+half)); x++ {
			c.setPixel(x, y, col)
		}
	}
	c.Set(center, col)
}

// fillPolygon fills a polygon using scanline algorithm.
// Works in pixel space for proper scaling.
func (c *Canvas) fillPolygon(points []Point, col Color) {
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
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	yStart := int(math.Floor(minY))
	yEnd := int(math.Ceil(maxY))

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]

		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				x := p1.X + t*(p2.X-p1.X)
				intersections = append(intersections, x)
			}
		}

		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i]))
			xEnd := int(math.Floor(intersections[i+1]))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y, col)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render outputs the cells that changed since the last Render using
// half-block characters, the top sub-pixel as foreground and the bottom as
// background.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 4)

	force := c.forceRedraw
	c.forceRedraw = false
	lastCol, lastRow := -1, -1
	fg, bg := ColorNone, ColorNone

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			cur := cell{top: c.pixels[topOffset+col], bottom: c.pixels[bottomOffset+col]}
			idx := row*c.termWidth + col
			if !force && c.shown[idx] == cur {
				continue
			}
			if force && cur == (cell{}) && c.shown[idx] == cur {
				continue
			}
			c.shown[idx] = cur

			if row != lastRow || col != lastCol+1 {
				c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			}
			lastCol, lastRow = col, row

			ch, wantFg, wantBg := glyph(cur)
			if wantFg != fg || wantBg != bg {
				c.writeStyle(wantFg, wantBg)
				fg, bg = wantFg, wantBg
			}
			c.renderBuf.WriteRune(ch)
		}
	}
	if fg != ColorNone || bg != ColorNone {
		c.renderBuf.WriteString(styleReset)
	}

	writeChunked(w, c.renderBuf.String())
}

// glyph picks the character and colors that display a cell.
func glyph(cl cell) (rune, Color, Color) {
	switch {
	case cl.top == ColorNone && cl.bottom == ColorNone:
		return BlockEmpty, ColorNone, ColorNone
	case cl.bottom == ColorNone:
		return BlockUpperHalf, cl.top, ColorNone
	case cl.top == ColorNone:
		return BlockLowerHalf, cl.bottom, ColorNone
	case cl.top == cl.bottom:
		return BlockFull, cl.top, ColorNone
	default:
		return BlockUpperHalf, cl.top, cl.bottom
	}
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

func (c *Canvas) writeStyle(fg, bg Color) {
	c.renderBuf.WriteString(styleReset)
	if fg != ColorNone {
		c.renderBuf.WriteString("\033[38;5;")
		c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(fg.ANSI()), 10))
		c.renderBuf.WriteByte('m')
	}
	if bg != ColorNone {
		c.renderBuf.WriteString("\033[48;5;")
		c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(bg.ANSI()), 10))
		c.renderBuf.WriteByte('m')
	}
}

func writeChunked(w io.Writer, data string) {
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

// RenderBorder draws a box border around the canvas area when there is room
// for it on either axis.
// Draws horizontal borders when there is vertical offset, vertical borders
// when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars

	// Border positions (1-based terminal coordinates)
	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder
	buf.Grow((c.termWidth+2)*2 + c.termHeight*2*12)

	if hasV {
		rule := strings.Repeat("─", c.termWidth)
		if hasH {
			buf.WriteString(cursorTo(left, top) + "┌" + rule + "┐")
			buf.WriteString(cursorTo(left, bottom) + "└" + rule + "┘")
		} else {
			buf.WriteString(cursorTo(c.offsetCol+1, top) + rule)
			buf.WriteString(cursorTo(c.offsetCol+1, bottom) + rule)
		}
	}

	if hasH {
		startRow := top + 1
		endRow := bottom
		if !hasV {
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			buf.WriteString(cursorTo(left, row) + "│" + cursorTo(right, row) + "│")
		}
	}

	io.WriteString(w, buf.String())
}

// LogicalWidth returns the logical width (target resolution).
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height (target resolution, in sub-pixels).
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to 1-based canvas position (col, row).
// This is useful for placing text overlays at positions matching canvas-drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	return c.toPixelX(x) + 1, c.toPixelY(y)/2 + 1
}

// TerminalToLogical converts a 1-based screen position (as reported by the
// terminal, offset included) to the logical coordinates of that cell's centre.
func (c *Canvas) TerminalToLogical(col, row int) Point {
	px := float64(col - c.offsetCol - 1)
	py := float64(row-c.offsetRow-1)*2 + 0.5
	if c.scaleX == 0 || c.scaleY == 0 {
		return Point{}
	}
	return Point{X: px / c.scaleX, Y: py / c.scaleY}
}
