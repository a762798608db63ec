package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Department struct {
	ID          string    `gorm:"primaryKey;type:text" json:"id"`
	CompanyID   string    `gorm:"index;type:text;not null" json:"company_id"`
	Name        string    `gorm:"type:text;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (d *Department) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return
}

// Sector optionally hangs under a Department.
type Sector struct {
	ID           string    `gorm:"primaryKey;type:text" json:"id"`
	CompanyID    string    `gorm:"index;type:text;not null" json:"company_id"`
	DepartmentID *string   `gorm:"type:text" json:"department_id"`
	Name         string    `gorm:"type:text;not null" json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Sector) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}

type Tag struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CompanyID string    `gorm:"index;type:text;not null" json:"company_id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Color     string    `gorm:"type:text" json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return
}
