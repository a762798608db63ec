// Package directory implements the tenant commands: companies, attendants
// and per-company reference data.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/config"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/realtime"
	"github.com/rs/zerolog/log"
)

var (
	ErrForbidden = errors.New("directory: forbidden")
	ErrInvalid   = errors.New("directory: invalid input")
	ErrNotFound  = errors.New("directory: not found")
)

type Store interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	GetCompany(ctx context.Context, id string) (*models.Company, error)
	CreateCompany(ctx context.Context, c *models.Company) error
	UpdateCompany(ctx context.Context, c *models.Company) error
	CreateAttendant(ctx context.Context, a *models.Attendant) error

	GetDepartment(ctx context.Context, companyID, id string) (*models.Department, error)
	CreateDepartment(ctx context.Context, d *models.Department) error
	DeleteDepartment(ctx context.Context, companyID, id string) error
	GetSector(ctx context.Context, companyID, id string) (*models.Sector, error)
	CreateSector(ctx context.Context, s *models.Sector) error
	DeleteSector(ctx context.Context, companyID, id string) error
	CreateTag(ctx context.Context, t *models.Tag) error
	DeleteTag(ctx context.Context, companyID, id string) error
}

// Service handles company and attendant commands.
type Service struct {
	Storage Store
	Feed    realtime.Feed
}

// NewService creates a new directory service. feed may be nil.
func NewService(s Store, feed realtime.Feed) *Service {
	return &Service{Storage: s, Feed: feed}
}

type CompanyInput struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	APIKey string `json:"api_key"`
}

// CompanyUpdate carries only the fields to change.
type CompanyUpdate struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type AttendantInput struct {
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	DepartmentID *string `json:"department_id"`
	SectorID     *string `json:"sector_id"`
}

// canManage: super-admins manage every company, admins only their own.
func canManage(actor models.Actor, companyID string) bool {
	switch actor.Role {
	case models.RoleSuperAdmin:
		return true
	case models.RoleCompanyAdmin:
		return companyID != "" && actor.CompanyID() == companyID
	default:
		return false
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

var validate = validator.New()

func validEmail(email string) bool {
	if email == "" {
		return true
	}
	return validate.Var(email, "email") == nil
}

func (s *Service) CreateCompany(ctx context.Context, actor models.Actor, in CompanyInput) (*models.Company, error) {
	if actor.Role != models.RoleSuperAdmin {
		return nil, ErrForbidden
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" {
		return nil, invalid("name is required")
	}
	if strings.TrimSpace(in.UserID) == "" {
		return nil, invalid("user_id is required")
	}
	if !validEmail(in.Email) {
		return nil, invalid("email %q is not valid", in.Email)
	}
	if in.APIKey == "" {
		in.APIKey = uuid.NewString()
	}

	company := &models.Company{
		UserID: strings.TrimSpace(in.UserID),
		Name:   in.Name,
		Email:  in.Email,
		Phone:  strings.TrimSpace(in.Phone),
		APIKey: in.APIKey,
	}
	if err := s.Storage.CreateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	s.announce(ctx, config.TableCompanies, realtime.OpInsert, company.ID)
	return company, nil
}

func (s *Service) ListCompanies(ctx context.Context, actor models.Actor) ([]models.Company, error) {
	if actor.Role != models.RoleSuperAdmin {
		return nil, ErrForbidden
	}
	companies, err := s.Storage.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	if companies == nil {
		companies = []models.Company{}
	}
	return companies, nil
}

func (s *Service) UpdateCompany(ctx context.Context, actor models.Actor, companyID string, upd CompanyUpdate) (*models.Company, error) {
	if !canManage(actor, companyID) {
		return nil, ErrForbidden
	}
	company, err := s.Storage.GetCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load company: %w", err)
	}
	if company == nil {
		return nil, ErrNotFound
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, invalid("name cannot be empty")
		}
		company.Name = name
	}
	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		if !validEmail(email) {
			return nil, invalid("email %q is not valid", email)
		}
		company.Email = email
	}
	if upd.Phone != nil {
		company.Phone = strings.TrimSpace(*upd.Phone)
	}

	if err := s.Storage.UpdateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	s.announce(ctx, config.TableCompanies, realtime.OpUpdate, company.ID)
	return company, nil
}

func (s *Service) CreateAttendant(ctx context.Context, actor models.Actor, companyID string, in AttendantInput) (*models.Attendant, error) {
	if !canManage(actor, companyID) {
		return nil, ErrForbidden
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" {
		return nil, invalid("name is required")
	}
	if strings.TrimSpace(in.UserID) == "" {
		return nil, invalid("user_id is required")
	}
	if !validEmail(in.Email) {
		return nil, invalid("email %q is not valid", in.Email)
	}

	company, err := s.Storage.GetCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load company: %w", err)
	}
	if company == nil {
		return nil, ErrNotFound
	}
	if err := s.checkAssignment(ctx, companyID, in.DepartmentID, in.SectorID); err != nil {
		return nil, err
	}

	attendant := &models.Attendant{
		CompanyID:    companyID,
		UserID:       strings.TrimSpace(in.UserID),
		Name:         in.Name,
		Email:        in.Email,
		DepartmentID: in.DepartmentID,
		SectorID:     in.SectorID,
		IsActive:     true,
	}
	if err := s.Storage.CreateAttendant(ctx, attendant); err != nil {
		return nil, fmt.Errorf("create attendant: %w", err)
	}
	if attendant.DepartmentID == nil || attendant.SectorID == nil {
		log.Warn().Str("attendant_id", attendant.ID).Msg("attendant created without a full department/sector assignment; it will see no conversations")
	}
	return attendant, nil
}

// checkAssignment verifies the department and sector belong to the company
// and, when the sector hangs under a department, that they agree.
func (s *Service) checkAssignment(ctx context.Context, companyID string, departmentID, sectorID *string) error {
	if departmentID != nil {
		dep, err := s.Storage.GetDepartment(ctx, companyID, *departmentID)
		if err != nil {
			return fmt.Errorf("load department: %w", err)
		}
		if dep == nil {
			return invalid("department %s does not exist", *departmentID)
		}
	}
	if sectorID != nil {
		sec, err := s.Storage.GetSector(ctx, companyID, *sectorID)
		if err != nil {
			return fmt.Errorf("load sector: %w", err)
		}
		if sec == nil {
			return invalid("sector %s does not exist", *sectorID)
		}
		if sec.DepartmentID != nil && departmentID != nil && *sec.DepartmentID != *departmentID {
			return invalid("sector %s is not part of department %s", *sectorID, *departmentID)
		}
	}
	return nil
}

func (s *Service) announce(ctx context.Context, table, op, value string) {
	if s.Feed == nil {
		return
	}
	if err := s.Feed.Publish(ctx, realtime.EventFor(table, op, value)); err != nil {
		log.Warn().Err(err).Str("table", table).Msg("failed to publish directory change")
	}
}
