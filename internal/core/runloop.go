package core

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// CancelFunc stops a scheduled callback. Safe to call more than once.
type CancelFunc func()

// Scheduler defers work onto the UI loop. All "waiting" in the engine
// is expressed as scheduled re-entry, never as a blocking call.
type Scheduler interface {
	After(d time.Duration, fn func()) CancelFunc
	Every(d time.Duration, fn func()) CancelFunc
}

// RunLoop is the single UI-affinity executor. Every engine mutation
// and every projection runs here, one closure at a time, so the
// engine itself needs no locks.
type RunLoop struct {
	tasks chan func()

	mu      sync.Mutex
	done    chan struct{}
	stopped bool
}

func NewRunLoop() *RunLoop {
	return &RunLoop{
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

// Run consumes posted closures until ctx is done. It must be called
// exactly once, and it is the only goroutine that executes tasks.
func (l *RunLoop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.stop()
			log.Info().Str("module", "core.runloop").Msg("run loop stopped")
			return
		case task := <-l.tasks:
			task()
		}
	}
}

func (l *RunLoop) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.stopped = true
	close(l.done)
}

// Post enqueues fn for execution on the loop. After the loop stops,
// Post is a no-op so late callbacks cannot revive torn-down state.
func (l *RunLoop) Post(fn func()) {
	select {
	case <-l.done:
	case l.tasks <- fn:
	}
}

// After schedules fn on the loop once d has elapsed.
func (l *RunLoop) After(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, func() { l.Post(fn) })
	return func() { t.Stop() }
}

// Every schedules fn on the loop at each d interval until cancelled.
func (l *RunLoop) Every(d time.Duration, fn func()) CancelFunc {
	stop := make(chan struct{})
	var once sync.Once
	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-l.done:
				return
			case <-ticker.C:
				l.Post(fn)
			}
		}
	}()
	return func() { once.Do(func() { close(stop) }) }
}
