package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// maxSGRLen bounds an SGR mouse report; longer sequences are treated as garbage.
const maxSGRLen = 32

// Pointer is the latest mouse report of a frame, in 0-based terminal cells.
type Pointer struct {
	Col     int
	Row     int
	Clicked bool // Left button went down during the frame
}

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	Up      bool
	Down    bool
	Fire    bool
	Enter   bool
	Menu    bool
	Escape  bool
	Pointer *Pointer // Nil when the mouse did not report this frame
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit   time.Time
	left   time.Time
	right  time.Time
	up     time.Time
	down   time.Time
	fire   time.Time
	enter  time.Time
	menu   time.Time
	escape time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch      chan byte
	state   keyState
	pending []byte // Incomplete escape sequence carried into the next frame

	// A lone ESC ending a read was carried over. If the next frame adds nothing
	// it is the Escape key.
	escCarried bool
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

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles arrow keys and SGR mouse reports. Uses key state persistence so
// keys held down through terminal auto-repeat read as continuously pressed.
func ReadInput(s *Stream) Input {
	return s.parse(s.drain(), time.Now())
}

func (s *Stream) drain() []byte {
	buf := s.pending
	s.pending = nil
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				return buf
			}
			buf = append(buf, b)
		default:
			return buf
		}
	}
}

func (s *Stream) parse(buf []byte, now time.Time) Input {
	var pointer *Pointer
	carried := s.escCarried
	s.escCarried = false

scan:
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+1 == len(buf) && !(carried && len(buf) == 1) {
			// May be the first byte of an arrow key or mouse report split across reads
			s.pending = append(s.pending, b)
			s.escCarried = true
			break scan
		}

		if b == '\x1b' && i+1 < len(buf) && buf[i+1] == '[' {
			if i+2 >= len(buf) {
				s.pending = append(s.pending, buf[i:]...)
				break scan
			}

			switch buf[i+2] {
			case 'A': // Up arrow
				s.state.up = now
				i += 2
				continue
			case 'B': // Down arrow
				s.state.down = now
				i += 2
				continue
			case 'C': // Right arrow
				s.state.right = now
				i += 2
				continue
			case 'D': // Left arrow
				s.state.left = now
				i += 2
				continue
			case '<':
				n, ev, complete := parseSGRMouse(buf[i:])
				if !complete {
					s.pending = append(s.pending, buf[i:]...)
					break scan
				}
				if n == 0 {
					i += 2 // Malformed report, drop the introducer
					continue
				}
				if pointer == nil {
					pointer = &Pointer{}
				}
				pointer.Col, pointer.Row = ev.col, ev.row
				if ev.press {
					pointer.Clicked = true
				}
				i += n - 1
				continue
			}
		}

		applyByteToState(&s.state, b, now)
	}

	return Input{
		Quit:    now.Sub(s.state.quit) < keyHoldDuration,
		Left:    now.Sub(s.state.left) < keyHoldDuration,
		Right:   now.Sub(s.state.right) < keyHoldDuration,
		Up:      now.Sub(s.state.up) < keyHoldDuration,
		Down:    now.Sub(s.state.down) < keyHoldDuration,
		Fire:    now.Sub(s.state.fire) < keyHoldDuration,
		Enter:   now.Sub(s.state.enter) < keyHoldDuration,
		Menu:    now.Sub(s.state.menu) < keyHoldDuration,
		Escape:  now.Sub(s.state.escape) < keyHoldDuration,
		Pointer: pointer,
	}
}

type mouseEvent struct {
	col, row int
	press    bool // Left button pressed, not a drag or release
}

// parseSGRMouse parses ESC [ < Btn ; X ; Y M/m. It returns the sequence length,
// or 0 for a malformed report. complete is false when more bytes are needed.
func parseSGRMouse(data []byte) (n int, ev mouseEvent, complete bool) {
	end := 3
	for end < len(data) && end < maxSGRLen {
		if data[end] == 'M' || data[end] == 'm' {
			break
		}
		end++
	}
	if end >= len(data) {
		return 0, ev, len(data) >= maxSGRLen
	}
	if data[end] != 'M' && data[end] != 'm' {
		return 0, ev, true
	}

	btn, x, y, ok := parseSGRParams(data[3:end])
	if !ok {
		return 0, ev, true
	}

	ev.col, ev.row = x-1, y-1 // SGR coordinates are 1-based
	motion := btn&32 != 0
	scroll := btn&64 != 0
	ev.press = data[end] == 'M' && !motion && !scroll && btn&0x03 == 0
	return end + 1, ev, true
}

// parseSGRParams extracts btn, x, y from "Btn;X;Y" format
func parseSGRParams(data []byte) (btn, x, y int, ok bool) {
	state := 0 // 0=btn, 1=x, 2=y
	val := 0

	for _, b := range data {
		switch {
		case b == ';':
			switch state {
			case 0:
				btn = val
			case 1:
				x = val
			}
			state++
			val = 0
			if state > 2 {
				return 0, 0, 0, false
			}
		case b >= '0' && b <= '9':
			val = val*10 + int(b-'0')
			if val > 9999 {
				return 0, 0, 0, false
			}
		default:
			return 0, 0, 0, false
		}
	}

	if state != 2 {
		return 0, 0, 0, false
	}
	return btn, x, val, true
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', 0x03: // Ctrl+C
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
		state.fire = now
	case '\n', '\r':
		state.enter = now
	case 'm', 'M':
		state.menu = now
	case '\x1b':
		state.escape = now
	}
}

// Active reports whether the player did anything this frame.
func (in Input) Active() bool {
	return in.Quit || in.Left || in.Right || in.Up || in.Down ||
		in.Fire || in.Enter || in.Menu || in.Escape || in.Pointer != nil
}
