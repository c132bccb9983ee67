package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"checkers/internal/server/storage"
)

const (
	MaxPendingAnalyses = 64
	SessionTTL         = 7 * 24 * time.Hour
	CacheTTL           = 7 * 24 * time.Hour
	JobTTL             = 1 * time.Hour
	CleanupJobInterval = 1 * time.Hour
)

// Service coordinates analysis jobs, the result cache, operator accounts, and storage
type Service struct {
	analyses  map[string]*Analysis
	mu        sync.RWMutex
	store     *storage.Store
	jwtSecret []byte
	waiter    *WaitRegistry
	now       func() time.Time
}

// New creates a new service instance with optional storage
func New(store *storage.Store, jwtSecret []byte) *Service {
	return &Service{
		analyses:  make(map[string]*Analysis),
		store:     store,
		jwtSecret: jwtSecret,
		waiter:    NewWaitRegistry(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Shutdown gracefully shuts down the service
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.analyses = make(map[string]*Analysis)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}

// RunCleanupJob periodically removes finished jobs, stale cache entries and expired sessions
func (s *Service) RunCleanupJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanupExpired()
		}
	}
}

func (s *Service) cleanupExpired() {
	if removed := s.removeFinishedAnalyses(s.now().Add(-JobTTL)); removed > 0 {
		log.Printf("cleanup: removed %d finished analyses", removed)
	}

	if s.store == nil {
		return
	}

	if deleted, err := s.store.DeleteAnalysesBefore(s.now().Add(-CacheTTL)); err != nil {
		log.Printf("cleanup: failed to delete stale cache entries: %v", err)
	} else if deleted > 0 {
		log.Printf("cleanup: deleted %d stale cache entries", deleted)
	}

	if deleted, err := s.store.DeleteExpiredSessions(); err != nil {
		log.Printf("cleanup: failed to delete expired sessions: %v", err)
	} else if deleted > 0 {
		log.Printf("cleanup: deleted %d expired sessions", deleted)
	}
}
