package storage

import (
	"context"
	"errors"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"gorm.io/gorm"
)

func (s *Service) ListDepartments(ctx context.Context, companyID string) ([]models.Department, error) {
	var out []models.Department
	err := s.db(ctx).Where("company_id = ?", companyID).Order("name asc").Find(&out).Error
	return out, err
}

func (s *Service) GetDepartment(ctx context.Context, companyID, id string) (*models.Department, error) {
	var d models.Department
	err := s.db(ctx).Where("company_id = ? AND id = ?", companyID, id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Service) CreateDepartment(ctx context.Context, d *models.Department) error {
	return s.db(ctx).Create(d).Error
}

func (s *Service) DeleteDepartment(ctx context.Context, companyID, id string) error {
	return s.db(ctx).Where("company_id = ? AND id = ?", companyID, id).Delete(&models.Department{}).Error
}

func (s *Service) ListSectors(ctx context.Context, companyID string) ([]models.Sector, error) {
	var out []models.Sector
	err := s.db(ctx).Where("company_id = ?", companyID).Order("name asc").Find(&out).Error
	return out, err
}

func (s *Service) GetSector(ctx context.Context, companyID, id string) (*models.Sector, error) {
	var sec models.Sector
	err := s.db(ctx).Where("company_id = ? AND id = ?", companyID, id).First(&sec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sec, nil
}

func (s *Service) CreateSector(ctx context.Context, sec *models.Sector) error {
	return s.db(ctx).Create(sec).Error
}

func (s *Service) DeleteSector(ctx context.Context, companyID, id string) error {
	return s.db(ctx).Where("company_id = ? AND id = ?", companyID, id).Delete(&models.Sector{}).Error
}

func (s *Service) ListTags(ctx context.Context, companyID string) ([]models.Tag, error) {
	var out []models.Tag
	err := s.db(ctx).Where("company_id = ?", companyID).Order("name asc").Find(&out).Error
	return out, err
}

func (s *Service) CreateTag(ctx context.Context, t *models.Tag) error {
	return s.db(ctx).Create(t).Error
}

// DeleteTag also drops the tag from every contact.
func (s *Service) DeleteTag(ctx context.Context, companyID, id string) error {
	return s.db(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("company_id = ? AND id = ?", companyID, id).Delete(&models.Tag{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Where("tag_id = ?", id).Delete(&models.ContactTag{}).Error
	})
}
