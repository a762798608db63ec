package conversation_test

import (
	"testing"
	"time"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/conversation"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapLabeler map[string]string

func (m mapLabeler) GetString(lang, key string) string {
	if v, ok := m[lang+"."+key]; ok {
		return v
	}
	return key
}

func at(t time.Time) models.Message {
	return models.Message{DateTime: t.Format(time.RFC3339)}
}

func TestGroupByDate(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, loc)
	messages := []models.Message{
		at(time.Date(2024, 5, 1, 9, 0, 0, 0, loc)),
		at(time.Date(2024, 5, 1, 18, 0, 0, 0, loc)),
		at(time.Date(2024, 5, 9, 23, 59, 0, 0, loc)),
		at(time.Date(2024, 5, 10, 0, 1, 0, 0, loc)),
		at(time.Date(2024, 5, 10, 14, 0, 0, 0, loc)),
	}
	labels := mapLabeler{"pt.date.today": "Hoje", "pt.date.yesterday": "Ontem"}

	groups := conversation.GroupByDate(messages, now, loc, "pt", labels)

	require.Len(t, groups, 3)
	assert.Equal(t, "01/05/2024", groups[0].Label)
	assert.Len(t, groups[0].Messages, 2)
	assert.Equal(t, "Ontem", groups[1].Label)
	assert.Len(t, groups[1].Messages, 1)
	assert.Equal(t, "Hoje", groups[2].Label)
	assert.Len(t, groups[2].Messages, 2)
}

func TestGroupByDate_DefaultLabels(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	groups := conversation.GroupByDate([]models.Message{at(now)}, now, time.UTC, "en", nil)

	require.Len(t, groups, 1)
	assert.Equal(t, "Today", groups[0].Label)
}

func TestGroupByDate_UsesLocation(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, saoPaulo)
	// 01:00 UTC on the 10th is still the 9th in BRT.
	msg := at(time.Date(2024, 5, 10, 1, 0, 0, 0, time.UTC))

	groups := conversation.GroupByDate([]models.Message{msg}, now, saoPaulo, "en", nil)

	require.Len(t, groups, 1)
	assert.Equal(t, "Yesterday", groups[0].Label)
}

func TestGroupByDate_Empty(t *testing.T) {
	assert.Empty(t, conversation.GroupByDate(nil, time.Now(), nil, "en", nil))
}
