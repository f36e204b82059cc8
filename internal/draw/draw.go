// Package draw renders to ANSI terminals with a half-block canvas.
package draw

import "strconv"

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is a palette entry. ColorNone leaves a pixel unset.
type Color uint8

const (
	ColorNone Color = iota
	ColorWhite
	ColorGray
	ColorDim
	ColorRed
	ColorRedDim
	ColorBlue
	ColorBlueDim
	ColorGold
	ColorGreen
	ColorCyan
	ColorMagenta
	ColorOrange
)

// 256-color codes for each palette entry.
var ansiCodes = [...]int{
	ColorNone:    0,
	ColorWhite:   255,
	ColorGray:    245,
	ColorDim:     238,
	ColorRed:     203,
	ColorRedDim:  95,
	ColorBlue:    75,
	ColorBlueDim: 60,
	ColorGold:    220,
	ColorGreen:   114,
	ColorCyan:    87,
	ColorMagenta: 177,
	ColorOrange:  208,
}

// ANSI returns the 256-color code of c.
func (c Color) ANSI() int {
	if int(c) < len(ansiCodes) {
		return ansiCodes[c]
	}
	return ansiCodes[ColorWhite]
}

// Foreground returns the escape sequence selecting c as text color.
func (c Color) Foreground() string {
	if c == ColorNone {
		return styleReset
	}
	return "\033[38;5;" + strconv.Itoa(c.ANSI()) + "m"
}

const styleReset = "\033[0m"

func cursorTo(col, row int) string {
	return "\033[" + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H"
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
