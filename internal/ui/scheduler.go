package ui

import (
	"sync"
	"time"

	"github.com/rivo/tview"
)

// frameScheduler coalesces widget updates and caps the draw rate. Each
// frame also runs the registered step functions, which is what animates
// the CPU gauge between telemetry messages.
type frameScheduler struct {
	app       *tview.Application
	mu        sync.Mutex
	pending   map[string]func()
	steps     []func()
	quit      chan struct{}
	done      chan struct{}
	frameTime time.Duration
}

func newFrameScheduler(app *tview.Application, targetFPS int) *frameScheduler {
	if targetFPS <= 0 {
		targetFPS = 30
	}

	return &frameScheduler{
		app:       app,
		pending:   make(map[string]func()),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		frameTime: time.Second / time.Duration(targetFPS),
	}
}

// Schedule queues an update under an id; a later update with the same
// id before the next frame replaces the earlier one.
func (f *frameScheduler) Schedule(id string, fn func()) {
	if f == nil {
		return
	}

	f.mu.Lock()
	f.pending[id] = fn
	f.mu.Unlock()
}

// AddStep registers a function run once per frame. Registration happens
// during dashboard construction, before Start.
func (f *frameScheduler) AddStep(fn func()) {
	f.steps = append(f.steps, fn)
}

func (f *frameScheduler) Start() {
	go f.run()
}

func (f *frameScheduler) Stop() {
	close(f.quit)
	select {
	case <-f.done:
	case <-time.After(f.frameTime * 4):
	}
}

func (f *frameScheduler) run() {
	defer close(f.done)

	ticker := time.NewTicker(f.frameTime)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			f.frame()
		case <-f.quit:
			f.frame()
			return
		}
	}
}

// frame drains pending updates and runs the per-frame steps in one
// queued draw.
func (f *frameScheduler) frame() {
	f.mu.Lock()
	batch := make([]func(), 0, len(f.pending)+len(f.steps))
	for _, fn := range f.pending {
		batch = append(batch, fn)
	}
	for key := range f.pending {
		delete(f.pending, key)
	}
	f.mu.Unlock()

	batch = append(batch, f.steps...)
	if len(batch) == 0 {
		return
	}

	run := func() {
		for _, fn := range batch {
			fn()
		}
	}

	if f.app == nil {
		run()
		return
	}

	f.app.QueueUpdateDraw(run)
}
