//go:build integration

package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"siteE2E/internal/config"
	"siteE2E/internal/database"
	"siteE2E/internal/migrations"
	"siteE2E/internal/suite"
)

// Требует PostgreSQL из DB_* и MIGRATIONS_PATH=file://../../migrations.
func TestJournal_RoundTrip(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	if !cfg.Database.Enabled() {
		t.Skip("DB_HOST не задан")
	}
	log := zaptest.NewLogger(t)
	require.NoError(t, migrations.Run(cfg, log))

	db, err := database.New(cfg, log)
	require.NoError(t, err)
	defer db.Close(log)

	ctx := context.Background()
	repo := database.NewRunRepository(db.DB)
	journal := database.NewJournal(repo)

	id := uuid.New()
	started := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, journal.StartRun(ctx, id, started))
	require.NoError(t, journal.RecordResult(ctx, id, suite.Result{
		Scenario:  "homepage/hero section",
		Group:     suite.GroupHomepage,
		Status:    suite.StatusPassed,
		StartedAt: started,
		Duration:  time.Second,
		Metrics:   map[string]float64{"hero_visible_ms": 812},
	}))
	require.NoError(t, journal.FinishRun(ctx, suite.Summary{
		RunID:      id,
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
		Passed:     1,
	}))

	run, err := repo.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "passed", run.Status)
	assert.Equal(t, 1, run.Passed)
	require.NotNil(t, run.FinishedAt)

	results, err := repo.ResultsByRun(ctx, id)
	require.NoError(t, err)
	require.Len(t, results, 1)
	m, err := results[0].ParseMetrics()
	require.NoError(t, err)
	assert.Equal(t, float64(812), m["hero_visible_ms"])

	runs, err := repo.ListRuns(ctx, 5, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, runs)
}
