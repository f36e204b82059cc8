package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// Terminal control sequences.
const (
	seqClear       = "\033[H\033[2J"
	seqHideCursor  = "\033[?25l"
	seqShowCursor  = "\033[?25h"
	seqMouseOn     = "\033[?1003h\033[?1006h" // Any-motion tracking, SGR encoding
	seqMouseOff    = "\033[?1006l\033[?1003l"
	seqEnterScreen = seqHideCursor + seqMouseOn + seqClear
	seqLeaveScreen = seqMouseOff + styleReset + seqClear + seqShowCursor
)

// ChunkWriter batches one frame of text output and hands it to the
// connection in MTU sized pieces. Canvas coordinates passed to it are
// 1-based; the canvas offset is added automatically.
type ChunkWriter struct {
	out    *bufio.Writer
	frame  []byte
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		out:    bufio.NewWriterSize(w, 8192),
		frame:  make([]byte, 0, 4096),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset moves the canvas origin after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// Write implements io.Writer so a Canvas can render into the frame.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	cw.frame = append(cw.frame, p...)
	return len(p), nil
}

// Clear queues a full screen clear.
func (cw *ChunkWriter) Clear() {
	cw.frame = append(cw.frame, seqClear...)
}

// WriteAt queues s at a canvas position in the default style.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.moveTo(col, row)
	cw.frame = append(cw.frame, s...)
}

// WriteStyled queues s at a canvas position in color c.
func (cw *ChunkWriter) WriteStyled(col, row int, c Color, s string) {
	cw.moveTo(col, row)
	cw.frame = append(cw.frame, c.Foreground()...)
	cw.frame = append(cw.frame, s...)
	cw.frame = append(cw.frame, styleReset...)
}

func (cw *ChunkWriter) moveTo(col, row int) {
	cw.frame = append(cw.frame, "\033["...)
	cw.frame = strconv.AppendInt(cw.frame, int64(row+cw.offRow), 10)
	cw.frame = append(cw.frame, ';')
	cw.frame = strconv.AppendInt(cw.frame, int64(col+cw.offCol), 10)
	cw.frame = append(cw.frame, 'H')
}

// Flush sends the queued frame and starts a new one.
func (cw *ChunkWriter) Flush() error {
	data := cw.frame
	cw.frame = cw.frame[:0]
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := cw.out.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return cw.out.Flush()
}

var _ io.Writer = (*ChunkWriter)(nil)

// TermSizeFunc reports the terminal dimensions in cells.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc reads the size of the controlling terminal.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// EnterGame hides the cursor, turns on mouse reporting and clears the screen.
func EnterGame(w io.Writer) {
	io.WriteString(w, seqEnterScreen)
}

// LeaveGame undoes EnterGame and leaves a clean screen behind.
func LeaveGame(w io.Writer) {
	io.WriteString(w, seqLeaveScreen)
}
