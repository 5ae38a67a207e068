package stores

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/quizstate/internal/client/i18n"
	"github.com/dmitrijs2005/quizstate/internal/client/models"
)

// Stats caches the platform-wide counters.
type Stats struct {
	base

	mu    sync.RWMutex
	stats models.PlatformStats
}

func NewStats(d Deps) *Stats {
	s := &Stats{}
	s.init("stats", d)
	return s
}

// Stats returns the last fetched counters, zero before the first fetch.
func (s *Stats) Stats() models.PlatformStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// FetchStats refreshes the counters; a failure keeps the previous ones.
func (s *Stats) FetchStats(ctx context.Context) (models.PlatformStats, error) {
	defer s.begin()()

	st, err := s.api.GetPlatformStats(ctx)
	if err != nil {
		return s.Stats(), s.fail(ctx, "fetch_stats", i18n.ErrPlatformStats, err)
	}
	s.mu.Lock()
	s.stats = *st
	s.mu.Unlock()
	return *st, nil
}
