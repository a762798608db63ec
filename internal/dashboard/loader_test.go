package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/dashboard"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListDepartments(ctx context.Context, companyID string) ([]models.Department, error) {
	args := m.Called(ctx, companyID)
	v, _ := args.Get(0).([]models.Department)
	return v, args.Error(1)
}

func (m *MockStore) ListSectors(ctx context.Context, companyID string) ([]models.Sector, error) {
	args := m.Called(ctx, companyID)
	v, _ := args.Get(0).([]models.Sector)
	return v, args.Error(1)
}

func (m *MockStore) ListTags(ctx context.Context, companyID string) ([]models.Tag, error) {
	args := m.Called(ctx, companyID)
	v, _ := args.Get(0).([]models.Tag)
	return v, args.Error(1)
}

func (m *MockStore) ListContacts(ctx context.Context, companyID string, sc scope.Scope) ([]models.Contact, error) {
	args := m.Called(ctx, companyID, sc)
	v, _ := args.Get(0).([]models.Contact)
	return v, args.Error(1)
}

func (m *MockStore) ListMessages(ctx context.Context, apiKey string, sc scope.Scope) ([]models.Message, error) {
	args := m.Called(ctx, apiKey, sc)
	v, _ := args.Get(0).([]models.Message)
	return v, args.Error(1)
}

func (m *MockStore) ListSentMessages(ctx context.Context, apiKey string, sc scope.Scope) ([]models.Message, error) {
	args := m.Called(ctx, apiKey, sc)
	v, _ := args.Get(0).([]models.Message)
	return v, args.Error(1)
}

func (m *MockStore) ListCompanies(ctx context.Context) ([]models.Company, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]models.Company)
	return v, args.Error(1)
}

func strPtr(s string) *string { return &s }

var acme = &models.Company{ID: "C1", APIKey: "K1", Name: "Acme"}

func expectReference(store *MockStore) {
	store.On("ListDepartments", mock.Anything, "C1").Return([]models.Department{{ID: "D1", Name: "Sales"}}, nil)
	store.On("ListSectors", mock.Anything, "C1").Return([]models.Sector{{ID: "S1", Name: "North"}}, nil)
	store.On("ListTags", mock.Anything, "C1").Return([]models.Tag{{ID: "T1", Name: "vip"}}, nil)
}

func TestLoad_AttendantWithoutDepartmentSeesNothing(t *testing.T) {
	store := new(MockStore)
	expectReference(store)
	actor := models.Actor{
		UserID:    "u-att",
		Role:      models.RoleAttendant,
		Company:   acme,
		Attendant: &models.Attendant{ID: "A1", CompanyID: "C1", DepartmentID: nil, SectorID: strPtr("S1")},
	}

	view := dashboard.NewLoader(store, nil, time.UTC).Load(context.Background(), actor)

	assert.Empty(t, view.Conversations)
	assert.Empty(t, view.Contacts)
	assert.Len(t, view.Departments, 1)
	store.AssertNotCalled(t, "ListContacts", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "ListMessages", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "ListSentMessages", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoad_CompanyAdminMergesBothTables(t *testing.T) {
	store := new(MockStore)
	expectReference(store)
	store.On("ListContacts", mock.Anything, "C1", scope.Unrestricted()).
		Return([]models.Contact{{ID: "ct-1", PhoneNumber: "551199990000", Name: "Ana", TagIDs: []string{"T1"}}}, nil)
	store.On("ListMessages", mock.Anything, "K1", scope.Unrestricted()).
		Return([]models.Message{{Numero: "551199990000@s.whatsapp.net", Body: "oi", Timestamp: "100"}}, nil)
	store.On("ListSentMessages", mock.Anything, "K1", scope.Unrestricted()).
		Return([]models.Message{{Sender: "551199990000", Body: "olá", Mine: "true", Timestamp: "200"}}, nil)

	actor := models.Actor{UserID: "owner", Role: models.RoleCompanyAdmin, Company: acme}
	view := dashboard.NewLoader(store, nil, time.UTC).Load(context.Background(), actor)

	require.Len(t, view.Conversations, 1)
	c := view.Conversations[0]
	assert.Equal(t, "551199990000", c.Phone)
	assert.Equal(t, "Ana", c.Name)
	assert.Equal(t, []string{"T1"}, c.TagIDs)
	assert.Len(t, c.Messages, 2)
	assert.Equal(t, "olá", c.LastMessage)
	assert.Len(t, view.Tags, 1)
	assert.Nil(t, view.Companies)
}

func TestLoad_AttendantScopeAppliedInMemory(t *testing.T) {
	store := new(MockStore)
	expectReference(store)
	actor := models.Actor{
		Role:      models.RoleAttendant,
		Company:   acme,
		Attendant: &models.Attendant{DepartmentID: strPtr("D1"), SectorID: strPtr("S1")},
	}
	sc := scope.ForActor(actor)
	store.On("ListContacts", mock.Anything, "C1", sc).Return([]models.Contact{}, nil)
	store.On("ListMessages", mock.Anything, "K1", sc).Return([]models.Message{
		{Numero: "1111", Body: "mine", DepartmentID: strPtr("D1"), SectorID: strPtr("S1")},
		{Numero: "2222", Body: "half", DepartmentID: strPtr("D1")},
		{Numero: "3333", Body: "other", DepartmentID: strPtr("D2"), SectorID: strPtr("S1")},
	}, nil)
	store.On("ListSentMessages", mock.Anything, "K1", sc).Return(nil, nil)

	view := dashboard.NewLoader(store, nil, time.UTC).Load(context.Background(), actor)

	require.Len(t, view.Conversations, 1)
	assert.Equal(t, "1111", view.Conversations[0].Phone)
}

func TestLoad_FetchErrorsLeaveCollectionsEmpty(t *testing.T) {
	store := new(MockStore)
	store.On("ListDepartments", mock.Anything, "C1").Return(nil, errors.New("timeout"))
	store.On("ListSectors", mock.Anything, "C1").Return([]models.Sector{{ID: "S1"}}, nil)
	store.On("ListTags", mock.Anything, "C1").Return(nil, errors.New("timeout"))
	store.On("ListContacts", mock.Anything, "C1", mock.Anything).Return([]models.Contact{{ID: "ct-1", PhoneNumber: "1111"}}, nil)
	store.On("ListMessages", mock.Anything, "K1", mock.Anything).Return(nil, errors.New("timeout"))
	store.On("ListSentMessages", mock.Anything, "K1", mock.Anything).Return([]models.Message{{Numero: "1111", Body: "sent", Mine: "true"}}, nil)

	actor := models.Actor{Role: models.RoleCompanyAdmin, Company: acme}
	view := dashboard.NewLoader(store, nil, time.UTC).Load(context.Background(), actor)

	assert.NotNil(t, view.Departments)
	assert.Empty(t, view.Departments)
	assert.Empty(t, view.Tags)
	assert.Len(t, view.Sectors, 1)
	assert.Len(t, view.Contacts, 1)
	require.Len(t, view.Conversations, 1)
	assert.Equal(t, "sent", view.Conversations[0].LastMessage)
}

func TestLoad_SuperAdminGetsCompanies(t *testing.T) {
	store := new(MockStore)
	store.On("ListCompanies", mock.Anything).Return([]models.Company{*acme}, nil)

	view := dashboard.NewLoader(store, nil, time.UTC).Load(context.Background(), models.Actor{Role: models.RoleSuperAdmin})

	require.Len(t, view.Companies, 1)
	assert.Equal(t, "Acme", view.Companies[0].Name)
	assert.Empty(t, view.Conversations)
	store.AssertNotCalled(t, "ListMessages", mock.Anything, mock.Anything, mock.Anything)
}

func TestThread(t *testing.T) {
	store := new(MockStore)
	store.On("ListContacts", mock.Anything, "C1", mock.Anything).Return([]models.Contact{}, nil)
	store.On("ListMessages", mock.Anything, "K1", mock.Anything).Return([]models.Message{
		{Numero: "1111", Body: "a", DateTime: "2024-05-01T10:00:00Z"},
		{Numero: "1111", Body: "b", DateTime: "2024-05-02T10:00:00Z"},
	}, nil)
	store.On("ListSentMessages", mock.Anything, "K1", mock.Anything).Return([]models.Message{}, nil)

	loader := dashboard.NewLoader(store, nil, time.UTC)
	actor := models.Actor{Role: models.RoleCompanyAdmin, Company: acme}

	thread, ok := loader.Thread(context.Background(), actor, "1111@s.whatsapp.net", "en")
	require.True(t, ok)
	assert.Equal(t, "1111", thread.Conversation.Phone)
	require.Len(t, thread.Days, 2)
	assert.Equal(t, "01/05/2024", thread.Days[0].Label)
	assert.Equal(t, "02/05/2024", thread.Days[1].Label)

	_, ok = loader.Thread(context.Background(), actor, "9999", "en")
	assert.False(t, ok)
}
