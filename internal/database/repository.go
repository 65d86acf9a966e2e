package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RunRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) CreateRun(ctx context.Context, run *Run) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *RunRepository) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	var run Run
	if err := r.db.WithContext(ctx).Where("uuid = ?", id).First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *RunRepository) ListRuns(ctx context.Context, limit, offset int) ([]Run, error) {
	var runs []Run
	if err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Offset(offset).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *RunRepository) FinishRun(ctx context.Context, id uuid.UUID, status string, passed, failed, skipped int, finishedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&Run{}).
		Where("uuid = ?", id).
		Updates(map[string]any{
			"status":      status,
			"passed":      passed,
			"failed":      failed,
			"skipped":     skipped,
			"finished_at": finishedAt,
		}).Error
}

func (r *RunRepository) AddResult(ctx context.Context, res *ScenarioResult) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *RunRepository) ResultsByRun(ctx context.Context, id uuid.UUID) ([]ScenarioResult, error) {
	var results []ScenarioResult
	if err := r.db.WithContext(ctx).Where("run_uuid = ?", id).Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
