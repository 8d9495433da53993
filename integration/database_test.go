//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/huangsam/opsreport/internal/history"
	"github.com/huangsam/opsreport/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startContainer starts a database container and returns its host and mapped port.
func startContainer(t *testing.T, req testcontainers.ContainerRequest, port string) (string, string) {
	t.Helper()
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	mapped, err := c.MappedPort(ctx, nat.Port(port))
	require.NoError(t, err)
	return host, mapped.Port()
}

// exerciseStore runs a short run lifecycle directly against the store.
func exerciseStore(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	t.Helper()
	require.NoError(t, history.ClearHistory(backend, "", connStr))

	store, err := history.NewHistoryStore(backend, connStr)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	for i, score := range []float64{60, 80} {
		runID, err := store.BeginRun(schema.LinksPipeline, fmt.Sprintf("run-%d", i), time.Now(), map[string]any{"base_url": "http://localhost:3000"})
		require.NoError(t, err)
		require.Positive(t, runID)
		require.NoError(t, store.RecordItems(runID, []schema.RunItem{
			{Name: "/", Status: string(schema.LinkOK), Detail: "OK"},
			{Name: "/gone", Status: string(schema.LinkNotFound)},
		}))
		require.NoError(t, store.EndRun(runID, time.Now(), schema.RunMetrics{Score: score, TotalItems: 2, FailedItems: 1}))

		previous, ok, err := store.LastScore(schema.LinksPipeline, runID)
		require.NoError(t, err)
		if i == 0 {
			assert.False(t, ok)
		} else {
			assert.True(t, ok)
			assert.Equal(t, 60.0, previous)
		}
	}

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, 2, status.RunsPerPipe[schema.LinksPipeline])

	items, err := store.GetAllRunItems()
	require.NoError(t, err)
	assert.Len(t, items, 4)
}

// runCLI runs the a11y pipeline and history commands against the backend.
func runCLI(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	t.Helper()
	dir := t.TempDir()
	writeFixture(t, dir, "test-results/accessibility-results.json", a11yFixture)
	env := []string{
		"OPSREPORT_HISTORY_BACKEND=" + string(backend),
		"OPSREPORT_HISTORY_DB_CONNECT=" + connStr,
	}

	_, err := runOpsreport(t, dir, env, "history", "clear")
	require.NoError(t, err)

	// Clearing also resets the migration version, so migrate recreates the tables
	out, err := runOpsreport(t, dir, env, "history", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully migrated")

	out, err = runOpsreport(t, dir, env, "a11y", "--color", "no")
	require.NoError(t, err)
	assert.Contains(t, out, "FIRST_RUN")

	out, err = runOpsreport(t, dir, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Runs: 1")
}

// TestOpsreportWithMySQL tests the history store with a MySQL backend.
func TestOpsreportWithMySQL(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "opsreport",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}, "3306")

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/opsreport?parseTime=true&multiStatements=true", host, port)
	exerciseStore(t, schema.MySQLBackend, connStr)
	runCLI(t, schema.MySQLBackend, connStr)
}

// TestOpsreportWithPostgres tests the history store with a PostgreSQL backend.
func TestOpsreportWithPostgres(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}, "5432")

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port)
	exerciseStore(t, schema.PostgreSQLBackend, connStr)
	runCLI(t, schema.PostgreSQLBackend, connStr)
}
