package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeEntry is a unit of tracked work. A NULL EndTime means the timer is still
// running. RunningUser is a MySQL generated column (user_id while EndTime is
// NULL, otherwise NULL) carrying a unique index, so the database itself rejects
// a second open entry for the same user.
type TimeEntry struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UUID        string     `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	ProjectID   uint       `gorm:"not null;index" json:"project_id"`
	Project     Project    `gorm:"foreignKey:ProjectID" json:"project"`
	StartTime   time.Time  `gorm:"not null;index" json:"start_time"`
	EndTime     *time.Time `gorm:"type:timestamp;default:null" json:"end_time"`
	RunningUser *uint      `gorm:"->;-:migration" json:"-"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (e *TimeEntry) BeforeCreate(tx *gorm.DB) error {
	if e.UUID == "" {
		e.UUID = uuid.New().String()
	}
	return nil
}

// IsRunning reports whether the entry is still open.
func (e *TimeEntry) IsRunning() bool {
	return e.EndTime == nil
}

// DurationSeconds derives the entry duration. Running entries have no duration
// yet and report zero.
func (e *TimeEntry) DurationSeconds() int64 {
	if e.EndTime == nil {
		return 0
	}
	return int64(e.EndTime.Sub(e.StartTime).Seconds())
}

// Hours is DurationSeconds expressed in hours, for display.
func (e *TimeEntry) Hours() float64 {
	return float64(e.DurationSeconds()) / 3600
}

// Amount is the billable value of the entry at the project's current rate.
func (e *TimeEntry) Amount() float64 {
	if e.Project.ID == 0 {
		return 0
	}
	return e.Hours() * e.Project.HourlyRate
}
