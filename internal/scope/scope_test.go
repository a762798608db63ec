package scope_test

import (
	"testing"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/scope"
	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func TestAttendantVisibility(t *testing.T) {
	att := scope.Attendant(ptr("D"), ptr("S"))

	tests := []struct {
		name   string
		dept   *string
		sector *string
		want   bool
	}{
		{"same department and sector", ptr("D"), ptr("S"), true},
		{"sector missing", ptr("D"), nil, false},
		{"department missing", nil, ptr("S"), false},
		{"other department", ptr("D2"), ptr("S"), false},
		{"other sector", ptr("D"), ptr("S2"), false},
		{"nothing assigned", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, att.Visible(tt.dept, tt.sector))
		})
	}
}

func TestIncompleteAttendantSeesNothing(t *testing.T) {
	for _, s := range []scope.Scope{
		scope.Attendant(nil, ptr("S")),
		scope.Attendant(ptr("D"), nil),
		scope.Attendant(nil, nil),
	} {
		assert.True(t, s.DeniesAll())
		assert.False(t, s.Visible(ptr("D"), ptr("S")))
		assert.False(t, s.Visible(nil, nil))
	}
}

func TestUnrestrictedSeesEverything(t *testing.T) {
	s := scope.Unrestricted()

	assert.False(t, s.Restricted())
	assert.False(t, s.DeniesAll())
	assert.True(t, s.Visible(nil, nil))
	assert.True(t, s.Visible(ptr("D"), nil))
}

func TestForActor(t *testing.T) {
	admin := scope.ForActor(models.Actor{Role: models.RoleCompanyAdmin})
	assert.False(t, admin.Restricted())

	root := scope.ForActor(models.Actor{Role: models.RoleSuperAdmin})
	assert.False(t, root.Restricted())

	att := scope.ForActor(models.Actor{
		Role:      models.RoleAttendant,
		Attendant: &models.Attendant{DepartmentID: ptr("D"), SectorID: ptr("S")},
	})
	assert.True(t, att.Restricted())
	dept, sector := att.Assignment()
	assert.Equal(t, "D", *dept)
	assert.Equal(t, "S", *sector)

	missing := scope.ForActor(models.Actor{Role: models.RoleAttendant})
	assert.True(t, missing.DeniesAll())

	unknown := scope.ForActor(models.Actor{Role: "guest"})
	assert.True(t, unknown.DeniesAll())
}

func TestFilters(t *testing.T) {
	att := scope.Attendant(ptr("D"), ptr("S"))

	messages := []models.Message{
		{Body: "visible", DepartmentID: ptr("D"), SectorID: ptr("S")},
		{Body: "no sector", DepartmentID: ptr("D")},
		{Body: "other desk", DepartmentID: ptr("D2"), SectorID: ptr("S")},
	}
	got := att.FilterMessages(messages)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "visible", got[0].Body)
	}

	contacts := []models.Contact{
		{ID: "c1", DepartmentID: ptr("D"), SectorID: ptr("S")},
		{ID: "c2"},
	}
	gotContacts := att.FilterContacts(contacts)
	if assert.Len(t, gotContacts, 1) {
		assert.Equal(t, "c1", gotContacts[0].ID)
	}

	assert.Len(t, scope.Unrestricted().FilterMessages(messages), 3)
	assert.Len(t, scope.Unrestricted().FilterContacts(contacts), 2)
}
