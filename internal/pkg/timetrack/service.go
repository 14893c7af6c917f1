package timetrack

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/clocko-app/clocko/app/models"
	"github.com/clocko-app/clocko/app/repository"
)

var (
	// ErrTimerAlreadyRunning is returned when a start is attempted while an
	// open entry exists for the user.
	ErrTimerAlreadyRunning = errors.New("you already have an active timer")
	// ErrNoActiveTimer is returned when a stop is attempted with no open entry.
	ErrNoActiveTimer = errors.New("no active timer found")
	// ErrInvalidRange is returned when a manual entry does not end after it starts.
	ErrInvalidRange = errors.New("end time must be after start time")
	// ErrMissingFields is returned when required manual entry fields are absent.
	ErrMissingFields = errors.New("missing required fields")
)

// Service owns the per-user timer state machine: Idle (no open entry) and
// Running (exactly one entry with a NULL end). Manual entries bypass the
// state machine entirely, they are always created closed.
type Service struct {
	entries  repository.TimeEntryRepository
	projects repository.ProjectRepository
	now      func() time.Time
}

// NewService creates a timer service over the injected repositories.
func NewService(entries repository.TimeEntryRepository, projects repository.ProjectRepository) *Service {
	return &Service{
		entries:  entries,
		projects: projects,
		now:      time.Now,
	}
}

// Start opens a new entry for the project, moving the user from Idle to
// Running. The read check gives a friendly error on the common path; the
// unique index on the open-entry column settles the race when two starts
// arrive concurrently.
func (s *Service) Start(userID uint, projectUUID string) (*models.TimeEntry, error) {
	if projectUUID == "" {
		return nil, ErrMissingFields
	}

	project, err := s.projects.GetByUUID(userID, projectUUID)
	if err != nil {
		return nil, err
	}

	if _, err := s.entries.FindRunning(userID); err == nil {
		return nil, ErrTimerAlreadyRunning
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	entry := &models.TimeEntry{
		UserID:    userID,
		ProjectID: project.ID,
		StartTime: s.now(),
	}
	if err := s.entries.Create(entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTimerAlreadyRunning
		}
		return nil, err
	}
	return entry, nil
}

// Stop closes the open entry, moving the user back to Idle. Duration stays
// derived from the timestamps, it is never stored.
func (s *Service) Stop(userID uint) (*models.TimeEntry, error) {
	running, err := s.entries.FindRunning(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveTimer
		}
		return nil, err
	}

	end := s.now()
	if err := s.entries.SetEndTime(userID, running.ID, end); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveTimer
		}
		return nil, err
	}
	running.EndTime = &end
	return running, nil
}

// CreateManual records a closed entry with both timestamps supplied. It never
// touches the Idle/Running state.
func (s *Service) CreateManual(userID uint, projectUUID string, start, end time.Time) (*models.TimeEntry, error) {
	if projectUUID == "" || start.IsZero() || end.IsZero() {
		return nil, ErrMissingFields
	}
	if !end.After(start) {
		return nil, ErrInvalidRange
	}

	project, err := s.projects.GetByUUID(userID, projectUUID)
	if err != nil {
		return nil, err
	}

	entry := &models.TimeEntry{
		UserID:    userID,
		ProjectID: project.ID,
		StartTime: start,
		EndTime:   &end,
	}
	if err := s.entries.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Active returns the open entry with its project, or nil when Idle.
func (s *Service) Active(userID uint) (*models.TimeEntry, error) {
	entry, err := s.entries.FindRunning(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

// Entries lists the user's entries newest first, optionally bounded by
// inclusive start-time limits.
func (s *Service) Entries(userID uint, from, to *time.Time) ([]models.TimeEntry, error) {
	return s.entries.List(userID, from, to)
}

// Delete removes one of the user's entries.
func (s *Service) Delete(userID uint, entryUUID string) error {
	return s.entries.Delete(userID, entryUUID)
}
