package directory_test

import (
	"context"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) ListCompanies(ctx context.Context) ([]models.Company, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]models.Company)
	return v, args.Error(1)
}

func (m *MockStorage) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.Company)
	return v, args.Error(1)
}

func (m *MockStorage) CreateCompany(ctx context.Context, c *models.Company) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockStorage) UpdateCompany(ctx context.Context, c *models.Company) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockStorage) CreateAttendant(ctx context.Context, a *models.Attendant) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockStorage) GetDepartment(ctx context.Context, companyID, id string) (*models.Department, error) {
	args := m.Called(ctx, companyID, id)
	v, _ := args.Get(0).(*models.Department)
	return v, args.Error(1)
}

func (m *MockStorage) CreateDepartment(ctx context.Context, d *models.Department) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockStorage) DeleteDepartment(ctx context.Context, companyID, id string) error {
	return m.Called(ctx, companyID, id).Error(0)
}

func (m *MockStorage) GetSector(ctx context.Context, companyID, id string) (*models.Sector, error) {
	args := m.Called(ctx, companyID, id)
	v, _ := args.Get(0).(*models.Sector)
	return v, args.Error(1)
}

func (m *MockStorage) CreateSector(ctx context.Context, s *models.Sector) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockStorage) DeleteSector(ctx context.Context, companyID, id string) error {
	return m.Called(ctx, companyID, id).Error(0)
}

func (m *MockStorage) CreateTag(ctx context.Context, t *models.Tag) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockStorage) DeleteTag(ctx context.Context, companyID, id string) error {
	return m.Called(ctx, companyID, id).Error(0)
}
