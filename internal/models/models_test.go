package models_test

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"github.com/stretchr/testify/assert"
)

// TestCompanyBeforeCreate_GeneratesIDAndAPIKey verifies that the hook fills both generated fields.
func TestCompanyBeforeCreate_GeneratesIDAndAPIKey(t *testing.T) {
	company := &models.Company{Name: "Acme", Email: "ops@acme.test"}

	err := company.BeforeCreate(nil)

	assert.NoError(t, err)
	_, idErr := uuid.Parse(company.ID)
	assert.NoError(t, idErr, "Company ID must be a valid UUID string")
	_, keyErr := uuid.Parse(company.APIKey)
	assert.NoError(t, keyErr, "APIKey must be a valid UUID string")
	assert.NotEqual(t, company.ID, company.APIKey)
}

// TestCompanyBeforeCreate_PreservesExistingValues verifies that the hook doesn't overwrite caller values.
func TestCompanyBeforeCreate_PreservesExistingValues(t *testing.T) {
	company := &models.Company{ID: "C1", APIKey: "K1", Name: "Acme"}

	assert.NoError(t, company.BeforeCreate(nil))
	assert.Equal(t, "C1", company.ID)
	assert.Equal(t, "K1", company.APIKey)
}

func TestReferenceBeforeCreate_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)

	d := &models.Department{Name: "Vendas"}
	s := &models.Sector{Name: "Varejo"}
	tg := &models.Tag{Name: "VIP"}
	c := &models.Contact{PhoneNumber: "5511999998888"}
	a := &models.Attendant{Name: "Ana"}

	assert.NoError(t, d.BeforeCreate(nil))
	assert.NoError(t, s.BeforeCreate(nil))
	assert.NoError(t, tg.BeforeCreate(nil))
	assert.NoError(t, c.BeforeCreate(nil))
	assert.NoError(t, a.BeforeCreate(nil))

	for _, id := range []string{d.ID, s.ID, tg.ID, c.ID, a.ID} {
		assert.NotEmpty(t, id)
		assert.NotContains(t, seen, id, "each entity should get its own ID")
		seen[id] = true
	}
}

// TestMessageColumnTags guards the wire column names shared with the message provider.
func TestMessageColumnTags(t *testing.T) {
	msgType := reflect.TypeOf(models.Message{})

	cases := map[string]string{
		"Numero":   "column:numero",
		"PushName": "column:pushname",
		"Kind":     "column:tipomessage",
		"Body":     "column:message",
		"APIKey":   "column:apikey_instancia",
		"Mine":     "column:minha?",
		"DateTime": "column:date_time",
	}
	for field, tag := range cases {
		f, found := msgType.FieldByName(field)
		assert.True(t, found, "%s field should exist", field)
		assert.Contains(t, f.Tag.Get("gorm"), tag)
	}

	source, _ := msgType.FieldByName("Source")
	assert.Equal(t, "-", source.Tag.Get("gorm"), "Source is not persisted")
}

func TestMessageHelpers(t *testing.T) {
	tests := []struct {
		name     string
		msg      models.Message
		phone    string
		preview  string
		outbound bool
	}{
		{
			name:    "numero wins over sender",
			msg:     models.Message{Numero: "5511@s.whatsapp.net", Sender: "5522", Body: "oi"},
			phone:   "5511@s.whatsapp.net",
			preview: "oi",
		},
		{
			name:    "sender fallback and caption preview",
			msg:     models.Message{Sender: "5522", Caption: "foto", Kind: models.KindImage},
			phone:   "5522",
			preview: "foto",
		},
		{
			name:     "media without text",
			msg:      models.Message{Numero: "5533", Kind: models.KindAudio, Mine: "true"},
			phone:    "5533",
			preview:  "[audio]",
			outbound: true,
		},
		{
			name:    "marker other than true is inbound",
			msg:     models.Message{Numero: "5544", Mine: "false"},
			phone:   "5544",
			preview: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.phone, tt.msg.RawPhone())
			assert.Equal(t, tt.preview, tt.msg.Preview())
			assert.Equal(t, tt.outbound, tt.msg.IsOutbound())
		})
	}
}

func TestActorAccessors(t *testing.T) {
	company := &models.Company{ID: "C1", APIKey: "K1", Name: "Acme", Email: "ops@acme.test"}

	admin := models.Actor{UserID: "u1", Role: models.RoleCompanyAdmin, Company: company}
	assert.Equal(t, "C1", admin.CompanyID())
	assert.Equal(t, "K1", admin.APIKey())
	assert.Equal(t, "Acme", admin.DisplayName())
	assert.Equal(t, "ops@acme.test", admin.Email())

	attendant := models.Actor{
		UserID:    "u2",
		Role:      models.RoleAttendant,
		Company:   company,
		Attendant: &models.Attendant{Name: "Ana", Email: "ana@acme.test"},
	}
	assert.Equal(t, "Ana", attendant.DisplayName())
	assert.Equal(t, "ana@acme.test", attendant.Email())

	root := models.Actor{UserID: "root", Role: models.RoleSuperAdmin}
	assert.Empty(t, root.CompanyID())
	assert.Empty(t, root.APIKey())
	assert.Equal(t, "root", root.DisplayName())
}
