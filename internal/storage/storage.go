// Package storage is the PostgreSQL access layer for messages, contacts,
// reference data and tenants.
package storage

import (
	"context"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/scope"
	"gorm.io/gorm"
)

type Storage interface {
	ListMessages(ctx context.Context, apiKey string, sc scope.Scope) ([]models.Message, error)
	ListSentMessages(ctx context.Context, apiKey string, sc scope.Scope) ([]models.Message, error)
	LatestMessage(ctx context.Context, apiKey, phoneKey string) (*models.Message, error)
	InsertSentMessage(ctx context.Context, msg *models.Message) error

	ListContacts(ctx context.Context, companyID string, sc scope.Scope) ([]models.Contact, error)
	GetContact(ctx context.Context, companyID, contactID string) (*models.Contact, error)
	ContactTagIDs(ctx context.Context, contactIDs []string) (map[string][]string, error)
	DeleteContactTags(ctx context.Context, contactID string) error
	InsertContactTags(ctx context.Context, contactID string, tagIDs []string) error

	ListDepartments(ctx context.Context, companyID string) ([]models.Department, error)
	GetDepartment(ctx context.Context, companyID, id string) (*models.Department, error)
	CreateDepartment(ctx context.Context, d *models.Department) error
	DeleteDepartment(ctx context.Context, companyID, id string) error
	ListSectors(ctx context.Context, companyID string) ([]models.Sector, error)
	GetSector(ctx context.Context, companyID, id string) (*models.Sector, error)
	CreateSector(ctx context.Context, s *models.Sector) error
	DeleteSector(ctx context.Context, companyID, id string) error
	ListTags(ctx context.Context, companyID string) ([]models.Tag, error)
	CreateTag(ctx context.Context, t *models.Tag) error
	DeleteTag(ctx context.Context, companyID, id string) error

	FindSuperAdmin(ctx context.Context, userID string) (*models.SuperAdmin, error)
	FindCompanyByUser(ctx context.Context, userID string) (*models.Company, error)
	FindAttendantByUser(ctx context.Context, userID string) (*models.Attendant, error)
	GetCompany(ctx context.Context, id string) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]models.Company, error)
	CreateCompany(ctx context.Context, c *models.Company) error
	UpdateCompany(ctx context.Context, c *models.Company) error
	CreateAttendant(ctx context.Context, a *models.Attendant) error
}

type Service struct {
	DB *gorm.DB
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

func (s *Service) db(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}

// scoped narrows a query to the attendant's department and sector. Callers
// check DeniesAll first; an incomplete assignment never reaches SQL.
func scoped(tx *gorm.DB, sc scope.Scope) *gorm.DB {
	if !sc.Restricted() {
		return tx
	}
	departmentID, sectorID := sc.Assignment()
	return tx.Where("department_id = ? AND sector_id = ?", *departmentID, *sectorID)
}
