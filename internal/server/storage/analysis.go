// FILE: checkers/internal/server/storage/analysis.go
package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// RecordAnalysis asynchronously stores a search result, replacing any entry for the same key
func (s *Store) RecordAnalysis(record AnalysisRecord) {
	s.enqueue("analysis record", func(tx *sql.Tx) error {
		query := `INSERT OR REPLACE INTO analyses (
			layout, turn, depth, move, score, nodes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.Layout, record.Turn, record.Depth,
			record.Move, record.Score, record.Nodes, record.CreatedAt,
		)
		return err
	})
}

// LookupAnalysis returns the cached result for a position, sql.ErrNoRows on a miss
func (s *Store) LookupAnalysis(layout, turn string, depth int) (*AnalysisRecord, error) {
	var a AnalysisRecord
	query := `SELECT layout, turn, depth, move, score, nodes, created_at
		FROM analyses WHERE layout = ? AND turn = ? AND depth = ?`

	err := s.db.QueryRow(query, layout, turn, depth).Scan(
		&a.Layout, &a.Turn, &a.Depth, &a.Move, &a.Score, &a.Nodes, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// QueryAnalyses retrieves cached results with optional filtering; "" or "*" matches everything
func (s *Store) QueryAnalyses(layout, turn string, limit int) ([]AnalysisRecord, error) {
	query := `SELECT layout, turn, depth, move, score, nodes, created_at
	FROM analyses WHERE 1=1`

	var args []any

	if layout != "" && layout != "*" {
		query += " AND layout = ?"
		args = append(args, layout)
	}

	if turn != "" && turn != "*" {
		query += " AND turn = ?"
		args = append(args, turn)
	}

	query += " ORDER BY created_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var analyses []AnalysisRecord
	for rows.Next() {
		var a AnalysisRecord
		if err := rows.Scan(&a.Layout, &a.Turn, &a.Depth, &a.Move, &a.Score, &a.Nodes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		analyses = append(analyses, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return analyses, nil
}

// CountAnalyses returns the number of cached results
func (s *Store) CountAnalyses() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM analyses`).Scan(&n)
	return n, err
}

// DeleteAnalysesBefore removes cache entries created before cutoff
func (s *Store) DeleteAnalysesBefore(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM analyses WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// PurgeAnalyses empties the cache
func (s *Store) PurgeAnalyses() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM analyses`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
