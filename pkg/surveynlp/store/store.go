// Package store archives pipeline runs so topic numberings from different
// runs can be compared later.
package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

// Store is the interface for persisting and reading archived runs.
type Store interface {
	Close() error

	// SaveRun stores a run with its topics and rows. Saving an existing id
	// replaces the earlier archive.
	SaveRun(ctx context.Context, a Archive) error

	// LoadRun returns the archive for id or internalerr.ErrNotFound.
	LoadRun(ctx context.Context, id string) (Archive, error)

	// ListRuns returns run headers, newest first. limit <= 0 means all.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// Run is the header of an archived run.
type Run struct {
	ID              string
	CreatedAt       time.Time
	Engine          string
	Input           string
	RegistryVersion string
	Docs            int
	Topics          int
	Outliers        int
}

// Archive is a complete run.
type Archive struct {
	Run    Run
	Topics []survey.TopicInfo
	Rows   survey.Table
}

// IDSource hands out lexically sortable run ids.
type IDSource struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewIDSource creates an id source backed by crypto/rand.
func NewIDSource() *IDSource {
	return &IDSource{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Next returns a new id for a run created at t.
func (s *IDSource) Next(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}
