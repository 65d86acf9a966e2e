package suite

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusRunning Status = "running"
)

type Result struct {
	Scenario  string
	Group     Group
	Status    Status
	Err       error
	StartedAt time.Time
	Duration  time.Duration
	// Screenshot - снимок страницы при провале, если хранилище настроено.
	Screenshot string
	// Metrics - измерения сценария (время, вес страницы).
	Metrics map[string]float64
}

func (r Result) ErrorText() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Summary - итог одного прогона.
type Summary struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []Result
	Passed     int
	Failed     int
	Skipped    int
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusPassed:
		s.Passed++
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	}
}

// Status прогона: failed, если провален хотя бы один сценарий.
func (s Summary) Status() Status {
	if s.Failed > 0 {
		return StatusFailed
	}
	return StatusPassed
}

func (s Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// Recorder сохраняет прогон. Методы вызываются из нескольких горутин.
type Recorder interface {
	StartRun(ctx context.Context, id uuid.UUID, startedAt time.Time) error
	RecordResult(ctx context.Context, id uuid.UUID, r Result) error
	FinishRun(ctx context.Context, s Summary) error
}

// NopRecorder ничего не сохраняет.
type NopRecorder struct{}

func (NopRecorder) StartRun(context.Context, uuid.UUID, time.Time) error { return nil }

func (NopRecorder) RecordResult(context.Context, uuid.UUID, Result) error { return nil }

func (NopRecorder) FinishRun(context.Context, Summary) error { return nil }
