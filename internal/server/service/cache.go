package service

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
	"checkers/internal/server/engine"
	"checkers/internal/server/storage"
)

// LookupSearch returns a cached search result for the position, if any
func (s *Service) LookupSearch(layout string, turn core.Color, depth int) (engine.Result, bool) {
	if s.store == nil || !s.store.IsHealthy() {
		return engine.Result{}, false
	}

	rec, err := s.store.LookupAnalysis(layout, turn.String(), depth)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("cache lookup failed: %v", err)
		}
		return engine.Result{}, false
	}

	result := engine.Result{Score: rec.Score, Nodes: rec.Nodes, Depth: rec.Depth}
	if rec.Move != "" {
		m, err := board.ParseMove(rec.Move)
		if err != nil {
			log.Printf("cache entry for %s has bad move %q: %v", layout, rec.Move, err)
			return engine.Result{}, false
		}
		result.Move = m
	}
	return result, true
}

// StoreSearch queues a search result for the cache
func (s *Service) StoreSearch(layout string, turn core.Color, result engine.Result) {
	if s.store == nil {
		return
	}

	s.store.RecordAnalysis(storage.AnalysisRecord{
		Layout:    layout,
		Turn:      turn.String(),
		Depth:     result.Depth,
		Move:      result.Move.String(),
		Score:     result.Score,
		Nodes:     result.Nodes,
		CreatedAt: s.now(),
	})
}

// PurgeCache removes every cached search result
func (s *Service) PurgeCache() (int64, error) {
	if s.store == nil {
		return 0, fmt.Errorf("storage disabled")
	}
	return s.store.PurgeAnalyses()
}
