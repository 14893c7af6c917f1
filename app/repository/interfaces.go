package repository

import (
	"time"

	"github.com/clocko-app/clocko/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
}

// ProjectRepository defines the interface for project operations. Every method
// takes the owning user id and applies it as a filter, so a caller can never
// reach another user's rows; a wrong or foreign uuid is indistinguishable from
// a missing one.
type ProjectRepository interface {
	Create(project *models.Project) error
	GetByUUID(userID uint, uuid string) (*models.Project, error)
	ListByUser(userID uint) ([]models.Project, error)
	Update(userID uint, uuid string, name string, hourlyRate float64) error
	Delete(userID uint, uuid string) error
}

// TimeEntryRepository defines the interface for time entry operations, scoped
// by owner the same way as ProjectRepository. List bounds are inclusive and
// apply to the start timestamp.
type TimeEntryRepository interface {
	Create(entry *models.TimeEntry) error
	FindRunning(userID uint) (*models.TimeEntry, error)
	SetEndTime(userID uint, id uint, end time.Time) error
	Delete(userID uint, uuid string) error
	List(userID uint, from, to *time.Time) ([]models.TimeEntry, error)
}
