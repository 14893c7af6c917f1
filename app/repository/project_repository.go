package repository

import (
	"github.com/clocko-app/clocko/app/models"
	"gorm.io/gorm"
)

// projectRepository implements the ProjectRepository interface
type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository instance
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

func (r *projectRepository) GetByUUID(userID uint, uuid string) (*models.Project, error) {
	var project models.Project
	err := r.db.Where("uuid = ? AND user_id = ?", uuid, userID).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) ListByUser(userID uint) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

func (r *projectRepository) Update(userID uint, uuid string, name string, hourlyRate float64) error {
	res := r.db.Model(&models.Project{}).
		Where("uuid = ? AND user_id = ?", uuid, userID).
		Updates(map[string]interface{}{
			"name":        name,
			"hourly_rate": hourlyRate,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the project; its time entries go with it via the FK cascade.
func (r *projectRepository) Delete(userID uint, uuid string) error {
	res := r.db.Where("uuid = ? AND user_id = ?", uuid, userID).Delete(&models.Project{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
