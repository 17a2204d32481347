package server

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/clockbar/clockbar/internal/updater"
)

// UpdateState holds the result of the latest update check.
type UpdateState struct {
	mu            sync.RWMutex
	Available     bool
	LatestVersion string
	ReleaseURL    string
	LastChecked   time.Time
}

// UpdateCheckFunc checks for a newer release.
type UpdateCheckFunc func(context.Context) (*updater.UpdateResult, error)

// startUpdateCheck runs a single update check in a background goroutine.
func (s *Server) startUpdateCheck() {
	if s.checkUpdate == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := s.checkUpdate(ctx)
		if err != nil {
			log.Printf("[update] Check failed: %v", err)
			return
		}

		s.updateState.mu.Lock()
		defer s.updateState.mu.Unlock()
		s.updateState.LastChecked = time.Now()
		s.updateState.Available = result.Available
		if result.Available {
			s.updateState.LatestVersion = result.LatestVersion
			s.updateState.ReleaseURL = result.ReleaseURL
			log.Printf("[update] Update available: v%s → v%s", result.CurrentVersion, result.LatestVersion)
		} else {
			log.Printf("[update] Up to date (v%s)", result.CurrentVersion)
		}
	}()
}

// GetUpdateState returns the current update state.
func (s *Server) GetUpdateState() (available bool, version, url string) {
	s.updateState.mu.RLock()
	defer s.updateState.mu.RUnlock()
	return s.updateState.Available, s.updateState.LatestVersion, s.updateState.ReleaseURL
}
