package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact is the persisted directory row for one phone number within a company.
// PhoneNumber may still carry the provider JID suffix.
type Contact struct {
	ID              string     `gorm:"primaryKey;type:text" json:"id"`
	CompanyID       string     `gorm:"index;type:text;not null" json:"company_id"`
	PhoneNumber     string     `gorm:"column:phone_number;index;type:text" json:"phone_number"`
	Name            string     `gorm:"type:text" json:"name"`
	DepartmentID    *string    `gorm:"type:text" json:"department_id"`
	SectorID        *string    `gorm:"type:text" json:"sector_id"`
	TagID           *string    `gorm:"column:tag_id;type:text" json:"tag_id"` // legacy single tag
	LastMessage     string     `gorm:"type:text" json:"last_message,omitempty"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// TagIDs is loaded from contact_tags.
	TagIDs []string `gorm:"-" json:"tag_ids"`
}

func (c *Contact) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// ContactTag is the contact_tags join row.
type ContactTag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ContactID string    `gorm:"index;type:text;not null" json:"contact_id"`
	TagID     string    `gorm:"index;type:text;not null" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}
