// Package store keeps completed analyses in memory so download links keep
// working after the upload request returns. Entries expire after a TTL;
// nothing is ever written to durable storage.
package store

import (
	"sync"
	"time"

	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/domain/profile"
	"datalens/internal/errors"
)

// Analysis is one completed upload: the immutable dataset, its report,
// and enough metadata to name downloads.
type Analysis struct {
	ID        core.AnalysisID
	Filename  string
	Dataset   *dataset.Dataset
	Report    *profile.AnalysisReport
	CreatedAt time.Time
}

// Store is a mutex-guarded in-memory analysis registry with TTL eviction
type Store struct {
	mu      sync.RWMutex
	entries map[core.AnalysisID]*Analysis
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

// New creates a store whose entries expire after ttl. A background sweeper
// runs every sweepInterval until Close is called.
func New(ttl, sweepInterval time.Duration) *Store {
	s := &Store{
		entries: make(map[core.AnalysisID]*Analysis),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go s.sweep(sweepInterval)
	return s
}

// Put registers a completed analysis and returns its fresh ID
func (s *Store) Put(filename string, ds *dataset.Dataset, report *profile.AnalysisReport) *Analysis {
	analysis := &Analysis{
		ID:        core.NewAnalysisID(),
		Filename:  filename,
		Dataset:   ds,
		Report:    report,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[analysis.ID] = analysis
	return analysis
}

// Get returns the analysis for id, or a NOT_FOUND error if it is unknown
// or already expired.
func (s *Store) Get(id core.AnalysisID) (*Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	analysis, ok := s.entries[id]
	if !ok || time.Since(analysis.CreatedAt) > s.ttl {
		return nil, errors.NotFound("analysis")
	}
	return analysis, nil
}

// Len returns the number of live entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the background sweeper
func (s *Store) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Store) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *Store) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, analysis := range s.entries {
		if now.Sub(analysis.CreatedAt) > s.ttl {
			delete(s.entries, id)
		}
	}
}
