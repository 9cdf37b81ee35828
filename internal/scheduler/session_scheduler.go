package scheduler

import (
	"github.com/dferraz/mercado-backend/internal/session"
	"github.com/dferraz/mercado-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// SessionScheduler periodically prunes expired revocations from the
// in-memory session store. Not needed for the Redis store, which
// expires keys on its own.
type SessionScheduler struct {
	cron  *cron.Cron
	store *session.MemoryStore
}

func NewSessionScheduler(store *session.MemoryStore) *SessionScheduler {
	return &SessionScheduler{
		cron:  cron.New(),
		store: store,
	}
}

// Start schedules an hourly prune
func (s *SessionScheduler) Start() error {
	_, err := s.cron.AddFunc("@hourly", func() {
		pruned := s.store.PruneExpired()
		logger.Info("Pruned expired session revocations", map[string]interface{}{
			"pruned":    pruned,
			"remaining": s.store.Len(),
		})
	})
	if err != nil {
		logger.Error("Failed to schedule session store pruning", err)
		return err
	}

	s.cron.Start()
	logger.Info("Session store pruning scheduled (hourly)")
	return nil
}

// Stop stops the scheduler
func (s *SessionScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Session scheduler stopped")
}
