// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"net/http"
	"time"

	"github.com/huangsam/opsreport/schema"
)

// HTTPDoer defines the single HTTP operation the link checker needs.
// This allows the network layer to be replaced in tests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HistoryManager defines the interface for managing the history store.
// This allows the persistence layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for tracking pipeline runs.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(pipeline schema.Pipeline, runUUID string, startTime time.Time, configParams map[string]any) (int64, error)

	// RecordItems stores the evaluated items of a run
	RecordItems(runID int64, items []schema.RunItem) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, metrics schema.RunMetrics) error

	// LastScore returns the score of the latest completed run of a pipeline before runID.
	// The boolean is false when there is no such run.
	LastScore(pipeline schema.Pipeline, beforeRunID int64) (float64, bool, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every run ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllRunItems returns every run item ordered by run ID
	GetAllRunItems() ([]schema.RunItemRecord, error)

	// Close closes the underlying connection
	Close() error
}
