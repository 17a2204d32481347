package tray

import (
	"fmt"
	"sync"
	"time"
)

// NoTimerTitle is shown in the tray title when no timer is running.
const NoTimerTitle = "No timer"

// TitleTimer keeps the tray title in sync with a running work timer,
// refreshing it once per second.
type TitleTimer struct {
	mu       sync.Mutex
	setTitle func(string)
	now      func() time.Time
	stop     chan struct{}
}

// NewTitleTimer creates a timer that writes titles through setTitle.
func NewTitleTimer(setTitle func(string)) *TitleTimer {
	return &TitleTimer{setTitle: setTitle, now: time.Now}
}

// Start shows the elapsed time since startedAt, suffixed with issueKey
// when set. A running timer is replaced.
func (t *TitleTimer) Start(startedAt time.Time, issueKey string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	stop := make(chan struct{})
	t.stop = stop

	update := func() {
		t.setTitle(TimerTitle(t.now().Sub(startedAt), issueKey))
	}
	update()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				t.mu.Lock()
				if t.stop == stop {
					update()
				}
				t.mu.Unlock()
			}
		}
	}()
}

// Stop ends the running timer and shows NoTimerTitle.
func (t *TitleTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
	t.setTitle(NoTimerTitle)
}

// Cancel ends the running timer without touching the title.
func (t *TitleTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

// Running reports whether a timer is active.
func (t *TitleTimer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

func (t *TitleTimer) cancelLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// TimerTitle formats an elapsed duration as "h:mm:ss" (or "mm:ss" under an
// hour), followed by " - issueKey" when issueKey is set. Negative
// durations clamp to zero.
func TimerTitle(elapsed time.Duration, issueKey string) string {
	secs := int(elapsed / time.Second)
	if secs < 0 {
		secs = 0
	}
	h, m, s := secs/3600, (secs%3600)/60, secs%60

	var text string
	if h > 0 {
		text = fmt.Sprintf("%d:%02d:%02d", h, m, s)
	} else {
		text = fmt.Sprintf("%02d:%02d", m, s)
	}
	if issueKey != "" {
		text += " - " + issueKey
	}
	return text
}
