// Package input turns raw terminal bytes into per-frame key state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered held after its last byte.
// Terminals report no key releases, so holding relies on autorepeat.
const keyHoldDuration = 120 * time.Millisecond

// escTimeout is how long a lone ESC waits for the rest of an escape sequence
// before it counts as the Escape key.
const escTimeout = 50 * time.Millisecond

// Input is one frame's key state. Movement, AOE and Quit are held keys;
// Save, Load and Start are only set on the frame their byte arrived.
type Input struct {
	Quit  bool
	Left  bool
	Right bool
	Up    bool
	Down  bool
	AOE   bool

	Save  bool
	Load  bool
	Start bool
}

// Axis returns the raw movement intent, each axis in -1..1.
func (in Input) Axis() (float64, float64) {
	var x, y float64
	if in.Left {
		x--
	}
	if in.Right {
		x++
	}
	if in.Up {
		y--
	}
	if in.Down {
		y++
	}
	return x, y
}

// keyState tracks the last time each held key was seen.
type keyState struct {
	quit  time.Time
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
	aoe   time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch    chan byte
	state keyState

	pending   []byte // Unfinished escape sequence from the last drain
	pendingAt time.Time
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

// ReadInput drains all available bytes from the stream without blocking.
// A closed stream reads as Quit.
func ReadInput(s *Stream) Input {
	var buf []byte
	closed := false
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}
	in := s.apply(buf, time.Now())
	if closed {
		in.Quit = true
	}
	return in
}

// apply folds buf into the key state and builds the input for time now.
// An escape sequence cut off at the end of buf is kept for the next call.
func (s *Stream) apply(buf []byte, now time.Time) Input {
	var in Input
	carried := len(s.pending)
	if carried > 0 {
		buf = append(append([]byte(nil), s.pending...), buf...)
		s.pending = s.pending[:0]
	}

	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			applyByte(&s.state, &in, b, now)
			continue
		}

		if i+1 == len(buf) || (buf[i+1] == '[' && i+2 == len(buf)) {
			if i >= carried {
				s.pendingAt = now
			}
			s.pending = append(s.pending, buf[i:]...)
			break
		}
		if buf[i+1] != '[' {
			// ESC followed by a plain key is a bare escape.
			s.state.quit = now
			continue
		}

		// CSI arrow keys: ESC [ A..D. Other CSI finals are skipped.
		switch buf[i+2] {
		case 'A':
			s.state.up = now
		case 'B':
			s.state.down = now
		case 'C':
			s.state.right = now
		case 'D':
			s.state.left = now
		}
		i += 2
	}

	// A lone ESC with nothing after it within escTimeout is the Escape key.
	if len(s.pending) > 0 && now.Sub(s.pendingAt) >= escTimeout {
		if len(s.pending) == 1 {
			s.state.quit = now
		}
		s.pending = s.pending[:0]
	}

	in.Quit = in.Quit || now.Sub(s.state.quit) < keyHoldDuration
	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	in.Up = now.Sub(s.state.up) < keyHoldDuration
	in.Down = now.Sub(s.state.down) < keyHoldDuration
	in.AOE = now.Sub(s.state.aoe) < keyHoldDuration
	return in
}

// applyByte records one plain byte: held keys update their timestamp and
// one-shot keys set their flag directly.
func applyByte(state *keyState, in *Input, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		state.quit = now
	case 'a', 'A':
		state.left = now
	case 'd', 'D':
		state.right = now
	case 'w', 'W':
		state.up = now
	case 's', 'S':
		state.down = now
	case 'j', 'J':
		state.aoe = now
	case ' ':
		state.aoe = now
		in.Start = true
	case '\n', '\r':
		in.Start = true
	case 'p', 'P':
		in.Save = true
	case 'l', 'L':
		in.Load = true
	}
}
