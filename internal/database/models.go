// Package database хранит журнал прогонов в PostgreSQL.
// Работает через GORM, запросы параметризованы.
package database

import (
	"time"

	"github.com/google/uuid"
)

// Run - один прогон набора сценариев.
// Статусы: running, passed, failed.
type Run struct {
	ID         uint       `gorm:"primaryKey"`
	UUID       uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	Status     string     `gorm:"type:varchar(16);not null;default:'running'"`
	Passed     int        `gorm:"not null;default:0"`
	Failed     int        `gorm:"not null;default:0"`
	Skipped    int        `gorm:"not null;default:0"`
	StartedAt  time.Time  `gorm:"not null"`
	FinishedAt *time.Time `gorm:"default:null"`
	CreatedAt  time.Time  `gorm:"autoCreateTime"`
}

// ScenarioResult - результат одного сценария внутри прогона.
type ScenarioResult struct {
	ID             uint      `gorm:"primaryKey"`
	RunUUID        uuid.UUID `gorm:"type:uuid;index;not null"`
	Name           string    `gorm:"type:text;not null"`
	GroupName      string    `gorm:"type:varchar(32);not null"`
	Status         string    `gorm:"type:varchar(16);not null"`
	Error          string    `gorm:"type:text"`
	DurationMs     int64     `gorm:"not null"`
	ScreenshotPath string    `gorm:"type:text"`
	Metrics        string    `gorm:"type:jsonb;not null;default:'{}'"`
	StartedAt      time.Time `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}
