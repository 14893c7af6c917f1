package repository

import (
	"time"

	"github.com/clocko-app/clocko/app/models"
	"gorm.io/gorm"
)

// timeEntryRepository implements the TimeEntryRepository interface
type timeEntryRepository struct {
	db *gorm.DB
}

// NewTimeEntryRepository creates a new time entry repository instance
func NewTimeEntryRepository(db *gorm.DB) TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

// Create inserts the entry. For an open entry (NULL end) the unique index on
// the running_user generated column rejects a second open row per user with a
// duplicate key error, which GORM surfaces as gorm.ErrDuplicatedKey.
func (r *timeEntryRepository) Create(entry *models.TimeEntry) error {
	return r.db.Create(entry).Error
}

func (r *timeEntryRepository) FindRunning(userID uint) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := r.db.Preload("Project").
		Where("user_id = ? AND end_time IS NULL", userID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepository) SetEndTime(userID uint, id uint, end time.Time) error {
	res := r.db.Model(&models.TimeEntry{}).
		Where("id = ? AND user_id = ? AND end_time IS NULL", id, userID).
		Update("end_time", end)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *timeEntryRepository) Delete(userID uint, uuid string) error {
	res := r.db.Where("uuid = ? AND user_id = ?", uuid, userID).Delete(&models.TimeEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *timeEntryRepository) List(userID uint, from, to *time.Time) ([]models.TimeEntry, error) {
	query := r.db.Preload("Project").
		Where("user_id = ?", userID).
		Order("start_time DESC")
	if from != nil {
		query = query.Where("start_time >= ?", *from)
	}
	if to != nil {
		query = query.Where("start_time <= ?", *to)
	}

	var entries []models.TimeEntry
	err := query.Find(&entries).Error
	return entries, err
}
