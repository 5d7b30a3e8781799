package game

import "sync"

// Latch is a counting barrier: it calls onDone exactly once, after Done has been
// called total times. Done is safe to call from any goroutine.
type Latch struct {
	mu        sync.Mutex
	remaining int
	errs      []error
	fired     bool
	onDone    func(errs []error)
}

// NewLatch creates a latch waiting for total completions. A latch with nothing
// to wait for fires immediately.
func NewLatch(total int, onDone func(errs []error)) *Latch {
	l := &Latch{remaining: total, onDone: onDone}
	if total <= 0 {
		l.remaining = 0
		l.fire()
	}
	return l
}

// Done records one completion. A non-nil err marks a failed completion; it still
// counts toward the total. Calls after the latch fired are ignored.
func (l *Latch) Done(err error) {
	l.mu.Lock()
	if l.fired {
		l.mu.Unlock()
		return
	}
	if err != nil {
		l.errs = append(l.errs, err)
	}
	l.remaining--
	ready := l.remaining == 0
	l.mu.Unlock()

	if ready {
		l.fire()
	}
}

// Remaining returns how many completions are still expected.
func (l *Latch) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remaining
}

func (l *Latch) fire() {
	l.mu.Lock()
	if l.fired {
		l.mu.Unlock()
		return
	}
	l.fired = true
	errs := l.errs
	l.mu.Unlock()

	if l.onDone != nil {
		l.onDone(errs)
	}
}
