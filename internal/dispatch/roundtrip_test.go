package dispatch_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/dashboard"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/dispatch"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/phone"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore keeps sent messages in memory and serves both the dispatcher and
// the dashboard loader.
type memStore struct {
	mu   sync.Mutex
	sent []models.Message
}

func (s *memStore) LatestMessage(_ context.Context, apiKey, phoneKey string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.sent) - 1; i >= 0; i-- {
		if s.sent[i].APIKey == apiKey && phone.Same(s.sent[i].RawPhone(), phoneKey) {
			m := s.sent[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (s *memStore) InsertSentMessage(_ context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg.ID = uint(len(s.sent) + 1)
	s.sent = append(s.sent, *msg)
	return nil
}

func (s *memStore) GetDepartment(context.Context, string, string) (*models.Department, error) {
	return nil, nil
}

func (s *memStore) GetSector(context.Context, string, string) (*models.Sector, error) {
	return nil, nil
}

func (s *memStore) ListDepartments(context.Context, string) ([]models.Department, error) {
	return nil, nil
}

func (s *memStore) ListSectors(context.Context, string) ([]models.Sector, error) {
	return nil, nil
}

func (s *memStore) ListTags(context.Context, string) ([]models.Tag, error) {
	return nil, nil
}

func (s *memStore) ListContacts(context.Context, string, scope.Scope) ([]models.Contact, error) {
	return nil, nil
}

func (s *memStore) ListMessages(context.Context, string, scope.Scope) ([]models.Message, error) {
	return nil, nil
}

func (s *memStore) ListSentMessages(_ context.Context, apiKey string, sc scope.Scope) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Message
	for _, m := range s.sent {
		if m.APIKey == apiKey {
			out = append(out, m)
		}
	}
	return sc.FilterMessages(out), nil
}

func (s *memStore) ListCompanies(context.Context) ([]models.Company, error) {
	return nil, nil
}

func TestSendThenRefetch(t *testing.T) {
	store := &memStore{}
	d := dispatch.NewDispatcher(store, nil, nil, nil)
	loader := dashboard.NewLoader(store, nil, time.UTC)
	admin := models.Actor{Role: models.RoleCompanyAdmin, Company: acme}

	_, err := d.Send(context.Background(), admin, dispatch.SendRequest{Phone: "551199990000", Text: "bom dia"})
	require.NoError(t, err)

	view := loader.Load(context.Background(), admin)

	require.Len(t, view.Conversations, 1)
	var found bool
	for _, m := range view.Conversations[0].Messages {
		if m.Body == "bom dia" && m.Mine == "true" {
			found = true
		}
	}
	assert.True(t, found)
	assert.Equal(t, "bom dia", view.Conversations[0].LastMessage)
}
