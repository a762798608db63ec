package storage

import (
	"context"
	"errors"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func (s *Service) FindSuperAdmin(ctx context.Context, userID string) (*models.SuperAdmin, error) {
	var sa models.SuperAdmin
	err := s.db(ctx).Where("user_id = ?", userID).First(&sa).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sa, nil
}

func (s *Service) FindCompanyByUser(ctx context.Context, userID string) (*models.Company, error) {
	var c models.Company
	err := s.db(ctx).Where("user_id = ?", userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindAttendantByUser only returns active attendants.
func (s *Service) FindAttendantByUser(ctx context.Context, userID string) (*models.Attendant, error) {
	var a models.Attendant
	err := s.db(ctx).Where("user_id = ? AND is_active = ?", userID, true).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Service) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	var c models.Company
	err := s.db(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var out []models.Company
	if err := s.db(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		log.Error().Err(err).Msg("failed to list companies")
		return nil, err
	}
	return out, nil
}

func (s *Service) CreateCompany(ctx context.Context, c *models.Company) error {
	if err := s.db(ctx).Create(c).Error; err != nil {
		log.Error().Err(err).Str("name", c.Name).Msg("failed to create company")
		return err
	}
	return nil
}

// UpdateCompany writes the mutable fields; the routing key and owner never change here.
func (s *Service) UpdateCompany(ctx context.Context, c *models.Company) error {
	return s.db(ctx).Model(&models.Company{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"name":       c.Name,
			"email":      c.Email,
			"phone":      c.Phone,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (s *Service) CreateAttendant(ctx context.Context, a *models.Attendant) error {
	if err := s.db(ctx).Create(a).Error; err != nil {
		log.Error().Err(err).Str("company_id", a.CompanyID).Msg("failed to create attendant")
		return err
	}
	return nil
}
