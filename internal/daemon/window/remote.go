package window

import (
	"sync"

	"github.com/clockbar/clockbar/internal/models"
)

// Remote is a Window whose state is mirrored by an out-of-process webview
// shell. Every change is published to subscribers; the shell applies it.
type Remote struct {
	mu     sync.Mutex
	state  models.WindowState
	subs   map[int]chan models.WindowState
	nextID int
}

// NewRemote creates a hidden remote window.
func NewRemote() *Remote {
	return &Remote{subs: make(map[int]chan models.WindowState)}
}

func (r *Remote) IsVisible() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Visible
}

func (r *Remote) Show() {
	r.update(func(s *models.WindowState) { s.Visible = true })
}

func (r *Remote) Hide() {
	r.update(func(s *models.WindowState) {
		s.Visible = false
		s.Focused = false
	})
}

func (r *Remote) Focus() {
	r.update(func(s *models.WindowState) { s.Focused = s.Visible })
}

func (r *Remote) SetPosition(p models.Point) {
	r.update(func(s *models.WindowState) { s.Position = p })
}

// State returns the current window state.
func (r *Remote) State() models.WindowState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Subscribe returns a channel that receives the current state immediately
// and every later change. Slow subscribers only see the latest state.
// Call cancel to unsubscribe.
func (r *Remote) Subscribe() (<-chan models.WindowState, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	ch := make(chan models.WindowState, 1)
	ch <- r.state
	r.subs[id] = ch

	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if _, ok := r.subs[id]; ok {
			delete(r.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (r *Remote) update(fn func(*models.WindowState)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.state
	fn(&r.state)
	if r.state == prev {
		return
	}
	for _, ch := range r.subs {
		// Replace any undelivered state with the newest one.
		select {
		case <-ch:
		default:
		}
		ch <- r.state
	}
}
