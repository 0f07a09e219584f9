package authoring

import (
	"math/rand/v2"
	"sync"
	"time"
)

const (
	DefaultProgressInterval = time.Second
	DefaultProgressCeiling  = 90
	DefaultProgressMaxStep  = 10
)

// ProgressTimer simulates progress for a long-running call: while running it
// adds a random step every interval, never passing the ceiling. The ticker
// goroutine only lives between Start and the next Stop, Complete, Fail or
// Close.
type ProgressTimer struct {
	interval time.Duration
	ceiling  int
	step     func() int
	onChange func(int)

	mu    sync.Mutex
	value int
	stop  chan struct{}
	done  chan struct{}
}

type ProgressOption func(*ProgressTimer)

func WithProgressInterval(d time.Duration) ProgressOption {
	return func(p *ProgressTimer) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithProgressStep overrides the random increment.
func WithProgressStep(step func() int) ProgressOption {
	return func(p *ProgressTimer) {
		if step != nil {
			p.step = step
		}
	}
}

// WithProgressListener is called with every new value, outside the lock.
func WithProgressListener(fn func(int)) ProgressOption {
	return func(p *ProgressTimer) {
		p.onChange = fn
	}
}

func NewProgressTimer(opts ...ProgressOption) *ProgressTimer {
	p := &ProgressTimer{
		interval: DefaultProgressInterval,
		ceiling:  DefaultProgressCeiling,
		step:     func() int { return rand.IntN(DefaultProgressMaxStep) + 1 },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start resets progress to 0 and begins ticking. A running ticker is stopped
// first.
func (p *ProgressTimer) Start() {
	p.halt()

	p.mu.Lock()
	p.value = 0
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	stop, done := p.stop, p.done
	p.mu.Unlock()

	p.notify(0)
	go p.run(stop, done)
}

func (p *ProgressTimer) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.mu.Lock()
			next := min(p.value+p.step(), p.ceiling)
			changed := next != p.value
			p.value = next
			p.mu.Unlock()
			if changed {
				p.notify(next)
			}
		}
	}
}

// Complete stops ticking and forces progress to 100.
func (p *ProgressTimer) Complete() {
	p.finish(100)
}

// Fail stops ticking and drops progress back to 0.
func (p *ProgressTimer) Fail() {
	p.finish(0)
}

// Close stops ticking and leaves the value as is. Safe to call repeatedly.
func (p *ProgressTimer) Close() {
	p.halt()
}

func (p *ProgressTimer) Value() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// Running reports whether the ticker goroutine is active.
func (p *ProgressTimer) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stop != nil
}

func (p *ProgressTimer) finish(value int) {
	p.halt()
	p.mu.Lock()
	p.value = value
	p.mu.Unlock()
	p.notify(value)
}

// halt stops the ticker goroutine and waits for it to exit.
func (p *ProgressTimer) halt() {
	p.mu.Lock()
	stop, done := p.stop, p.done
	p.stop, p.done = nil, nil
	p.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (p *ProgressTimer) notify(value int) {
	if p.onChange != nil {
		p.onChange(value)
	}
}
