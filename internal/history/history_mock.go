package history

import (
	"time"

	"github.com/huangsam/opsreport/internal/contract"
	"github.com/huangsam/opsreport/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(pipeline schema.Pipeline, runUUID string, startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(pipeline, runUUID, startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordItems implements the HistoryStore interface.
func (m *MockHistoryStore) RecordItems(runID int64, items []schema.RunItem) error {
	args := m.Called(runID, items)
	return args.Error(0)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID int64, endTime time.Time, metrics schema.RunMetrics) error {
	args := m.Called(runID, endTime, metrics)
	return args.Error(0)
}

// LastScore implements the HistoryStore interface.
func (m *MockHistoryStore) LastScore(pipeline schema.Pipeline, beforeRunID int64) (float64, bool, error) {
	args := m.Called(pipeline, beforeRunID)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.RunRecord)
	return records, args.Error(1)
}

// GetAllRunItems implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRunItems() ([]schema.RunItemRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.RunItemRecord)
	return records, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetHistoryStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetHistoryStore() contract.HistoryStore {
	args := m.Called()
	if store, ok := args.Get(0).(contract.HistoryStore); ok {
		return store
	}
	return nil
}
