package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is a client or engagement billed at a fixed hourly rate. The rate is
// read at report time, never copied onto entries, so editing it retroactively
// changes historical revenue figures.
type Project struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	UUID       string      `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID     uint        `gorm:"not null;index" json:"user_id"`
	Name       string      `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=1,max=150"`
	HourlyRate float64     `gorm:"type:decimal(10,2);not null" json:"hourly_rate" validate:"required,gt=0"`
	Entries    []TimeEntry `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Project) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	return nil
}
