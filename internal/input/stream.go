// Package input parses terminal input and turns pointer gestures into shots.
package input

import (
	"bufio"
	"bytes"
	"strconv"
)

// MouseAction is the kind of a pointer event.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseDrag
	MouseRelease
	MouseMove // Motion without a button held
)

// MouseEvent is a pointer event in 1-based terminal cells.
type MouseEvent struct {
	Action MouseAction
	Col    int
	Row    int
}

// Input is everything read from the stream since the last call.
type Input struct {
	Quit       bool
	Pulsar     bool // Arm the pulsar for the next shot
	Special    bool // Arm the special shot for the next King shot
	Escape     bool // Cancel the current gesture
	TogglePath bool // Show or hide the predicted trajectory
	Enter      bool
	Mouse      []MouseEvent
	Pressed    []byte
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch      chan byte
	closed  bool
	pending []byte // Start of an escape sequence still arriving
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 256)}
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

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadInput drains all available bytes from the stream (non-blocking) and
// parses them.
func ReadInput(s *Stream) Input {
	buf := s.pending
	s.pending = nil
drain:
	for {
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
	if !s.closed {
		if cut := incompleteTail(buf); cut < len(buf) {
			s.pending = append([]byte(nil), buf[cut:]...)
			buf = buf[:cut]
		}
	}
	in := Parse(buf)
	if s.closed {
		in.Quit = true
	}
	return in
}

// Parse decodes raw terminal bytes: single-key commands and SGR mouse
// sequences (ESC [ < b ; col ; row M|m).
func Parse(buf []byte) Input {
	in := Input{Pressed: buf}
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' && buf[i+2] == '<' {
			if ev, n, ok := parseSGRMouse(buf[i+3:]); ok {
				if ev.Action >= 0 {
					in.Mouse = append(in.Mouse, ev)
				}
				i += 2 + n
				continue
			}
		}
		if b == '\x1b' && i+1 < len(buf) && buf[i+1] == '[' {
			// Other CSI sequences (arrow keys) are ignored
			i += skipCSI(buf[i+2:]) + 1
			continue
		}
		applyByte(&in, b)
	}
	return in
}

// applyByte maps a single key to its command.
func applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case 'p', 'P':
		in.Pulsar = true
	case 's', 'S':
		in.Special = true
	case 'v', 'V':
		in.TogglePath = true
	case '\x1b':
		in.Escape = true
	case '\n', '\r', ' ':
		in.Enter = true
	}
}

// parseSGRMouse parses "b;col;rowM" or "...m" and returns the number of bytes
// consumed. Wheel and non-left buttons yield an event with a negative action.
func parseSGRMouse(buf []byte) (MouseEvent, int, bool) {
	var fields [3]int
	field, start := 0, 0
	for i, c := range buf {
		switch {
		case c >= '0' && c <= '9':
			continue
		case c == ';' && field < 2:
			n, err := strconv.Atoi(string(buf[start:i]))
			if err != nil {
				return MouseEvent{}, 0, false
			}
			fields[field] = n
			field++
			start = i + 1
		case (c == 'M' || c == 'm') && field == 2:
			n, err := strconv.Atoi(string(buf[start:i]))
			if err != nil {
				return MouseEvent{}, 0, false
			}
			fields[2] = n
			ev := MouseEvent{Col: fields[1], Row: fields[2], Action: mouseAction(fields[0], c == 'm')}
			return ev, i + 1, true
		default:
			return MouseEvent{}, 0, false
		}
	}
	return MouseEvent{}, 0, false
}

func mouseAction(button int, release bool) MouseAction {
	const motion = 32
	switch {
	case button&^motion == 3 && button&motion != 0:
		return MouseMove
	case button&^motion != 0:
		return -1
	case release:
		return MouseRelease
	case button&motion != 0:
		return MouseDrag
	default:
		return MousePress
	}
}

// incompleteTail returns where a trailing, unterminated CSI sequence starts,
// or len(buf) if there is none.
func incompleteTail(buf []byte) int {
	i := bytes.LastIndexByte(buf, '\x1b')
	if i < 0 || i+1 >= len(buf) || buf[i+1] != '[' {
		return len(buf)
	}
	body := buf[i+2:]
	if len(body) > maxPending {
		return len(buf)
	}
	for _, c := range body {
		if c >= 0x40 && c <= 0x7e {
			return len(buf)
		}
	}
	return i
}

const maxPending = 32

// skipCSI returns the length of a CSI body up to and including its final byte.
func skipCSI(buf []byte) int {
	for i, c := range buf {
		if c >= 0x40 && c <= 0x7e {
			return i + 1
		}
	}
	return len(buf)
}
