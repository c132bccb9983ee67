package service

import (
	"context"
	"errors"
	"time"

	"checkers/internal/server/core"
	"checkers/internal/server/engine"

	"github.com/google/uuid"
)

var (
	ErrAnalysisNotFound  = errors.New("analysis not found")
	ErrAnalysisPending   = errors.New("analysis in progress")
	ErrTooManyAnalyses   = errors.New("too many pending analyses")
	ErrAnalysisFinalized = errors.New("analysis already finished")
)

// Analysis is an asynchronous search job
type Analysis struct {
	ID         string
	Layout     string
	Turn       core.Color
	Depth      int
	State      core.State
	Result     *engine.Result
	Cached     bool
	Err        string
	CreatedAt  time.Time
	FinishedAt time.Time
}

// CreateAnalysis registers a pending job and returns a copy of it
func (s *Service) CreateAnalysis(layout string, turn core.Color, depth int) (Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := 0
	for _, a := range s.analyses {
		if a.State == core.StatePending {
			pending++
		}
	}
	if pending >= MaxPendingAnalyses {
		return Analysis{}, ErrTooManyAnalyses
	}

	a := &Analysis{
		ID:        uuid.New().String(),
		Layout:    layout,
		Turn:      turn,
		Depth:     depth,
		State:     core.StatePending,
		CreatedAt: s.now(),
	}
	s.analyses[a.ID] = a
	return *a, nil
}

// GetAnalysis returns a copy of a job
func (s *Service) GetAnalysis(id string) (Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.analyses[id]
	if !ok {
		return Analysis{}, ErrAnalysisNotFound
	}
	return *a, nil
}

// CompleteAnalysis stores the search result and wakes waiting clients
func (s *Service) CompleteAnalysis(id string, result engine.Result, cached bool) error {
	return s.finish(id, func(a *Analysis) {
		a.State = core.StateDone
		a.Result = &result
		a.Cached = cached
	})
}

// FailAnalysis marks a job failed and wakes waiting clients
func (s *Service) FailAnalysis(id string, cause error) error {
	return s.finish(id, func(a *Analysis) {
		a.State = core.StateFailed
		a.Err = cause.Error()
	})
}

func (s *Service) finish(id string, update func(*Analysis)) error {
	s.mu.Lock()
	a, ok := s.analyses[id]
	if !ok {
		s.mu.Unlock()
		return ErrAnalysisNotFound
	}
	if a.State != core.StatePending {
		s.mu.Unlock()
		return ErrAnalysisFinalized
	}
	update(a)
	a.FinishedAt = s.now()
	state := a.State
	s.mu.Unlock()

	s.waiter.NotifyAnalysis(id, state)
	return nil
}

// DeleteAnalysis removes a finished job
func (s *Service) DeleteAnalysis(id string) error {
	s.mu.Lock()
	a, ok := s.analyses[id]
	if !ok {
		s.mu.Unlock()
		return ErrAnalysisNotFound
	}
	if a.State == core.StatePending {
		s.mu.Unlock()
		return ErrAnalysisPending
	}
	delete(s.analyses, id)
	s.mu.Unlock()

	s.waiter.RemoveAnalysis(id)
	return nil
}

// RegisterWait registers a client to wait until the job leaves the known state
func (s *Service) RegisterWait(id string, known core.State, ctx context.Context) <-chan struct{} {
	return s.waiter.RegisterWait(id, known, ctx)
}

// PendingCount returns the number of jobs not yet finished
func (s *Service) PendingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, a := range s.analyses {
		if a.State == core.StatePending {
			n++
		}
	}
	return n
}

// removeFinishedAnalyses drops jobs that finished before cutoff
func (s *Service) removeFinishedAnalyses(cutoff time.Time) int {
	s.mu.Lock()
	var removed []string
	for id, a := range s.analyses {
		if a.State != core.StatePending && a.FinishedAt.Before(cutoff) {
			delete(s.analyses, id)
			removed = append(removed, id)
		}
	}
	s.mu.Unlock()

	for _, id := range removed {
		s.waiter.RemoveAnalysis(id)
	}
	return len(removed)
}
