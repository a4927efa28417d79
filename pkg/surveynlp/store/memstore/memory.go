package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/internalerr"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/store"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu   sync.RWMutex
	runs map[string]store.Archive
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{runs: make(map[string]store.Archive)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun implements store.Store.
func (s *Store) SaveRun(ctx context.Context, a store.Archive) error {
	if a.Run.ID == "" {
		return fmt.Errorf("save run: %w: empty id", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[a.Run.ID] = copyArchive(a)
	return nil
}

// LoadRun implements store.Store.
func (s *Store) LoadRun(ctx context.Context, id string) (store.Archive, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.runs[id]
	if !ok {
		return store.Archive{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return copyArchive(a), nil
}

// ListRuns implements store.Store.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Run, 0, len(s.runs))
	for _, a := range s.runs {
		out = append(out, a.Run)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copyArchive(a store.Archive) store.Archive {
	out := store.Archive{Run: a.Run}
	out.Topics = make([]survey.TopicInfo, len(a.Topics))
	for i, t := range a.Topics {
		out.Topics[i] = survey.NewTopicInfo(t.TopicID, t.Words, t.Count)
	}
	out.Rows = append(survey.Table(nil), a.Rows...)
	return out
}
