package history

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/opsreport/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteHistoryExport(t *testing.T) {
	store := newMemoryStore(t)
	now := time.Now()
	runID, err := store.BeginRun(schema.LinksPipeline, "u", now, nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordItems(runID, []schema.RunItem{
		{Name: "/", Status: "ok"},
		{Name: "/gone", Status: "not_found", Detail: "Not Found"},
	}))
	require.NoError(t, store.EndRun(runID, now.Add(time.Second), schema.RunMetrics{Score: 50, TotalItems: 2, FailedItems: 1}))

	base := filepath.Join(t.TempDir(), "out", "history")
	var buf bytes.Buffer
	require.NoError(t, ExecuteHistoryExport(&buf, store, base))

	for _, suffix := range []string{".runs.parquet", ".run_items.parquet"} {
		info, err := os.Stat(base + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
	assert.Contains(t, buf.String(), "Exported 1 runs")
	assert.Contains(t, buf.String(), "Exported 2 run items")
}

func TestExecuteHistoryExport_Errors(t *testing.T) {
	var buf bytes.Buffer

	err := ExecuteHistoryExport(&buf, newMemoryStore(t), "")
	assert.ErrorContains(t, err, "--output-file is required")

	err = ExecuteHistoryExport(&buf, nil, "out")
	assert.ErrorContains(t, err, "history tracking is not enabled")

	err = ExecuteHistoryExport(&buf, newMemoryStore(t), filepath.Join(t.TempDir(), "x"))
	assert.ErrorContains(t, err, "no run history found")

	mockStore := &MockHistoryStore{}
	mockStore.On("GetStatus").Return(schema.HistoryStatus{}, errors.New("boom"))
	err = ExecuteHistoryExport(&buf, mockStore, "out")
	assert.ErrorContains(t, err, "boom")
	mockStore.AssertExpectations(t)
}
