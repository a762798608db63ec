package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is a tenant of the console. APIKey is the routing key
// (apikey_instancia) that scopes its messages.
type Company struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	UserID    string    `gorm:"uniqueIndex;type:text" json:"user_id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Email     string    `gorm:"type:text" json:"email"`
	Phone     string    `gorm:"type:text" json:"phone,omitempty"`
	APIKey    string    `gorm:"column:api_key;uniqueIndex;type:text;not null" json:"api_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate fills the ID and the routing key when the caller left them empty.
func (c *Company) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.APIKey == "" {
		c.APIKey = uuid.New().String()
	}
	return
}

// Attendant is a company user bound to at most one department and one sector.
type Attendant struct {
	ID           string    `gorm:"primaryKey;type:text" json:"id"`
	CompanyID    string    `gorm:"index;type:text;not null" json:"company_id"`
	UserID       string    `gorm:"uniqueIndex;type:text" json:"user_id"`
	Name         string    `gorm:"type:text;not null" json:"name"`
	Email        string    `gorm:"type:text" json:"email"`
	DepartmentID *string   `gorm:"type:text" json:"department_id"`
	SectorID     *string   `gorm:"type:text" json:"sector_id"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a *Attendant) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}

// SuperAdmin marks a provider user as operator of the whole platform.
type SuperAdmin struct {
	ID     string `gorm:"primaryKey;type:text" json:"id"`
	UserID string `gorm:"uniqueIndex;type:text;not null" json:"user_id"`
	Email  string `gorm:"type:text" json:"email"`
}
