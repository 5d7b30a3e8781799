package input

import (
	"bufio"
	"strings"
	"testing"
	"time"
)

func TestKeys(t *testing.T) {
	tests := []struct {
		in    string
		check func(Input) bool
	}{
		{"q", func(in Input) bool { return in.Quit }},
		{"\x03", func(in Input) bool { return in.Quit }},
		{" ", func(in Input) bool { return in.Fire }},
		{"\r", func(in Input) bool { return in.Enter }},
		{"m", func(in Input) bool { return in.Menu }},
		{"\x1b[A", func(in Input) bool { return in.Up && !in.Escape }},
		{"\x1b[B", func(in Input) bool { return in.Down }},
		{"\x1b[C", func(in Input) bool { return in.Right }},
		{"\x1b[D", func(in Input) bool { return in.Left }},
		{"a", func(in Input) bool { return in.Left }},
		{"d", func(in Input) bool { return in.Right }},
		{"w", func(in Input) bool { return in.Up }},
		{"s", func(in Input) bool { return in.Down }},
	}

	for _, tt := range tests {
		s := &Stream{}
		if in := s.parse([]byte(tt.in), time.Now()); !tt.check(in) {
			t.Errorf("%q: unexpected input %+v", tt.in, in)
		}
	}
}

func TestKeyHold(t *testing.T) {
	s := &Stream{}
	now := time.Now()
	s.parse([]byte("d"), now)

	if in := s.parse(nil, now.Add(10*time.Millisecond)); !in.Right {
		t.Error("key released too early")
	}
	if in := s.parse(nil, now.Add(keyHoldDuration)); in.Right {
		t.Error("key held too long")
	}
}

func TestMouseMotion(t *testing.T) {
	s := &Stream{}
	in := s.parse([]byte("\x1b[<35;10;5M\x1b[<35;42;7M"), time.Now())

	if in.Pointer == nil {
		t.Fatal("no pointer report")
	}
	if in.Pointer.Col != 41 || in.Pointer.Row != 6 {
		t.Errorf("pointer = (%d,%d), want (41,6)", in.Pointer.Col, in.Pointer.Row)
	}
	if in.Pointer.Clicked {
		t.Error("motion reported as click")
	}
	if in.Escape {
		t.Error("mouse report leaked an escape key")
	}
}

func TestMouseClick(t *testing.T) {
	s := &Stream{}
	in := s.parse([]byte("\x1b[<0;3;4M\x1b[<0;3;4m"), time.Now())

	if in.Pointer == nil || !in.Pointer.Clicked {
		t.Fatalf("pointer = %+v, want click", in.Pointer)
	}
	if in.Pointer.Col != 2 || in.Pointer.Row != 3 {
		t.Errorf("pointer = (%d,%d), want (2,3)", in.Pointer.Col, in.Pointer.Row)
	}
}

func TestRightClickIsNotFire(t *testing.T) {
	s := &Stream{}
	in := s.parse([]byte("\x1b[<2;3;4M"), time.Now())
	if in.Pointer == nil || in.Pointer.Clicked {
		t.Fatalf("pointer = %+v, want unclicked report", in.Pointer)
	}
}

func TestSplitMouseReport(t *testing.T) {
	s := &Stream{}
	now := time.Now()

	in := s.parse([]byte("\x1b[<35;1"), now)
	if in.Pointer != nil || in.Escape {
		t.Fatalf("partial report parsed: %+v", in)
	}
	if string(s.pending) != "\x1b[<35;1" {
		t.Fatalf("pending = %q", s.pending)
	}

	in = s.parse(append(s.pending, []byte("2;8M")...), now)
	if in.Pointer == nil || in.Pointer.Col != 11 || in.Pointer.Row != 7 {
		t.Fatalf("pointer = %+v, want (11,7)", in.Pointer)
	}
}

// next feeds more bytes the way ReadInput does, after any carried-over bytes.
func next(s *Stream, more string, now time.Time) Input {
	buf := append(s.pending, more...)
	s.pending = nil
	return s.parse(buf, now)
}

func TestSplitArrowKey(t *testing.T) {
	s := &Stream{}
	now := time.Now()

	if in := next(s, "\x1b", now); in.Escape {
		t.Fatal("trailing ESC read as the Escape key")
	}
	in := next(s, "[A", now.Add(time.Millisecond))
	if !in.Up || in.Escape || in.Left {
		t.Errorf("split arrow = %+v, want Up only", in)
	}
}

func TestLoneEscape(t *testing.T) {
	s := &Stream{}
	now := time.Now()

	next(s, "\x1b", now)
	if in := next(s, "", now.Add(16*time.Millisecond)); !in.Escape {
		t.Error("ESC with nothing after it was not reported")
	}
	if len(s.pending) != 0 {
		t.Errorf("pending = %q, want empty", s.pending)
	}

	// ESC followed by a plain key is Escape plus that key.
	if in := next(s, "\x1bq", now.Add(time.Second)); !in.Escape || !in.Quit {
		t.Errorf("input = %+v, want Escape and Quit", in)
	}
}

func TestMalformedMouseReport(t *testing.T) {
	s := &Stream{}
	in := s.parse([]byte("\x1b[<1;x;2Mq"), time.Now())
	if in.Pointer != nil {
		t.Errorf("malformed report produced pointer %+v", in.Pointer)
	}
	if !in.Quit {
		t.Error("key after malformed report was lost")
	}
}

func TestReadInputFromStream(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("q")))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ReadInput(s).Quit {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("quit key never read")
}
