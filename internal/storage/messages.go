package storage

import (
	"context"
	"fmt"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/config"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/conversation"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/phone"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/scope"
	"github.com/rs/zerolog/log"
)

// ListMessages returns inbound rows for a routing key, oldest first.
func (s *Service) ListMessages(ctx context.Context, apiKey string, sc scope.Scope) ([]models.Message, error) {
	return s.listMessages(ctx, config.TableMessages, apiKey, sc)
}

// ListSentMessages returns outbound rows for a routing key, oldest first.
func (s *Service) ListSentMessages(ctx context.Context, apiKey string, sc scope.Scope) ([]models.Message, error) {
	return s.listMessages(ctx, config.TableSentMessages, apiKey, sc)
}

func (s *Service) listMessages(ctx context.Context, table, apiKey string, sc scope.Scope) ([]models.Message, error) {
	var msgs []models.Message
	if sc.DeniesAll() {
		return msgs, nil
	}

	tx := s.db(ctx).Table(table).Where("apikey_instancia = ?", apiKey)
	if err := scoped(tx, sc).Order("created_at asc").Order("id asc").Find(&msgs).Error; err != nil {
		log.Error().Err(err).Str("table", table).Str("api_key", apiKey).Msg("failed to list messages")
		return nil, err
	}
	for i := range msgs {
		msgs[i].Source = table
	}
	return msgs, nil
}

// phoneKeySQL is phone.Normalize for a column: the JID user part without
// agent or device, digits only.
func phoneKeySQL(column string) string {
	return fmt.Sprintf(`regexp_replace(CASE WHEN strpos(%[1]s, '@') > 0 `+
		`THEN split_part(split_part(split_part(%[1]s, '@', 1), ':', 1), '.', 1) `+
		`ELSE %[1]s END, '\D', '', 'g')`, column)
}

// LatestMessage returns the most recent message exchanged with a phone under
// a routing key, inbound or outbound, by effective time. Stored numbers match
// in any spelling that normalizes to the same key. Absence is nil, nil.
func (s *Service) LatestMessage(ctx context.Context, apiKey, phoneKey string) (*models.Message, error) {
	key := phone.Normalize(phoneKey)
	if key == "" {
		return nil, nil
	}
	candidates := []string{key, phone.JID(key)}
	match := fmt.Sprintf("numero IN ? OR sender IN ? OR %s = ? OR %s = ?", phoneKeySQL("numero"), phoneKeySQL("sender"))

	var thread []models.Message
	for _, table := range []string{config.TableMessages, config.TableSentMessages} {
		var rows []models.Message
		err := s.db(ctx).Table(table).
			Where("apikey_instancia = ?", apiKey).
			Where(match, candidates, candidates, key, key).
			Order("created_at desc").Order("id desc").
			Limit(config.LatestMessageWindow).
			Find(&rows).Error
		if err != nil {
			log.Error().Err(err).Str("table", table).Str("phone", key).Msg("failed to look up latest message")
			return nil, err
		}
		for i := len(rows) - 1; i >= 0; i-- {
			rows[i].Source = table
			thread = append(thread, rows[i])
		}
	}

	latest, ok := conversation.Latest(thread)
	if !ok {
		return nil, nil
	}
	return &latest, nil
}

// InsertSentMessage persists an outbound row; msg.ID is filled by gorm.
func (s *Service) InsertSentMessage(ctx context.Context, msg *models.Message) error {
	if err := s.db(ctx).Table(config.TableSentMessages).Create(msg).Error; err != nil {
		log.Error().Err(err).Str("idmessage", msg.MessageID).Msg("failed to save sent message")
		return err
	}
	msg.Source = config.TableSentMessages
	return nil
}
