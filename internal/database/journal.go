package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"siteE2E/internal/suite"
)

// Journal пишет прогоны набора в базу. Реализует suite.Recorder.
type Journal struct {
	repo *RunRepository
}

func NewJournal(repo *RunRepository) *Journal {
	return &Journal{repo: repo}
}

func (j *Journal) StartRun(ctx context.Context, id uuid.UUID, startedAt time.Time) error {
	return j.repo.CreateRun(ctx, &Run{
		UUID:      id,
		Status:    string(suite.StatusRunning),
		StartedAt: startedAt,
	})
}

func (j *Journal) RecordResult(ctx context.Context, id uuid.UUID, r suite.Result) error {
	row, err := resultRow(id, r)
	if err != nil {
		return err
	}
	return j.repo.AddResult(ctx, &row)
}

func (j *Journal) FinishRun(ctx context.Context, s suite.Summary) error {
	return j.repo.FinishRun(ctx, s.RunID, string(s.Status()), s.Passed, s.Failed, s.Skipped, s.FinishedAt)
}

func resultRow(id uuid.UUID, r suite.Result) (ScenarioResult, error) {
	metrics := "{}"
	if len(r.Metrics) > 0 {
		b, err := json.Marshal(r.Metrics)
		if err != nil {
			return ScenarioResult{}, fmt.Errorf("метрики сценария %s: %w", r.Scenario, err)
		}
		metrics = string(b)
	}
	return ScenarioResult{
		RunUUID:        id,
		Name:           r.Scenario,
		GroupName:      string(r.Group),
		Status:         string(r.Status),
		Error:          r.ErrorText(),
		DurationMs:     r.Duration.Milliseconds(),
		ScreenshotPath: r.Screenshot,
		Metrics:        metrics,
		StartedAt:      r.StartedAt,
	}, nil
}

// ParseMetrics разбирает сохраненные измерения сценария.
func (s ScenarioResult) ParseMetrics() (map[string]float64, error) {
	var m map[string]float64
	if s.Metrics == "" {
		return m, nil
	}
	if err := json.Unmarshal([]byte(s.Metrics), &m); err != nil {
		return nil, fmt.Errorf("метрики сценария %s: %w", s.Name, err)
	}
	return m, nil
}
