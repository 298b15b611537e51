//go:build database

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestFlowlensWithMySQL imports a fixture into MySQL and runs the capacity
// model against the stored period.
func TestFlowlensWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "flowlens",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/flowlens?parseTime=true", host, port.Port())
	runBackendRoundTrip(t, "mysql", connStr)
}

// TestFlowlensWithPostgreSQL does the same round trip against PostgreSQL.
func TestFlowlensWithPostgreSQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_PASSWORD": "secret123",
			"POSTGRES_DB":       "flowlens",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://postgres:secret123@%s:%s/flowlens?sslmode=disable", host, port.Port())
	runBackendRoundTrip(t, "postgresql", connStr)
}

// runBackendRoundTrip imports the fixture into the backend and verifies the
// capacity model computed from the stored rows.
func runBackendRoundTrip(t *testing.T, backend, connStr string) {
	t.Helper()

	_ = os.Setenv("FLOWLENS_BACKEND", backend)
	_ = os.Setenv("FLOWLENS_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("FLOWLENS_BACKEND") }()
	defer func() { _ = os.Unsetenv("FLOWLENS_DB_CONNECT") }()

	input := writeFixture(t, fixtureRecords())

	out, err := runFlowlensCommand(t, "import", "--input", input)
	require.NoError(t, err, "import failed: %s", out)
	assert.Contains(t, out, "Imported 8 records")

	out, err = runFlowlensCommand(t,
		"capacity",
		"--period", "PI-2026.3",
		"--period-days", "84",
		"--output", "json",
	)
	require.NoError(t, err, "capacity failed: %s", out)

	var metrics struct {
		CompletedCount int     `json:"completed_count"`
		PredictedWIP   float64 `json:"predicted_wip"`
		Planning       struct {
			CommittedCount int `json:"committed_count"`
		} `json:"planning"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &metrics))

	assert.Equal(t, 6, metrics.CompletedCount)
	assert.Greater(t, metrics.PredictedWIP, 0.0)
	assert.Equal(t, 6, metrics.Planning.CommittedCount)
}
