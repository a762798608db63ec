package storage

import (
	"context"
	"errors"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/scope"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ListContacts returns the company's directory filtered by scope, with TagIDs
// loaded from contact_tags.
func (s *Service) ListContacts(ctx context.Context, companyID string, sc scope.Scope) ([]models.Contact, error) {
	var contacts []models.Contact
	if sc.DeniesAll() {
		return contacts, nil
	}

	tx := s.db(ctx).Where("company_id = ?", companyID)
	if err := scoped(tx, sc).Order("name asc").Find(&contacts).Error; err != nil {
		log.Error().Err(err).Str("company_id", companyID).Msg("failed to list contacts")
		return nil, err
	}
	if len(contacts) == 0 {
		return contacts, nil
	}

	ids := make([]string, len(contacts))
	for i, c := range contacts {
		ids[i] = c.ID
	}
	tags, err := s.ContactTagIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range contacts {
		contacts[i].TagIDs = tags[contacts[i].ID]
		if contacts[i].TagIDs == nil {
			contacts[i].TagIDs = []string{}
		}
	}
	return contacts, nil
}

func (s *Service) GetContact(ctx context.Context, companyID, contactID string) (*models.Contact, error) {
	var contact models.Contact
	err := s.db(ctx).Where("company_id = ? AND id = ?", companyID, contactID).First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	tags, err := s.ContactTagIDs(ctx, []string{contact.ID})
	if err != nil {
		return nil, err
	}
	contact.TagIDs = tags[contact.ID]
	if contact.TagIDs == nil {
		contact.TagIDs = []string{}
	}
	return &contact, nil
}

// ContactTagIDs maps contact id to its tag ids in insertion order.
func (s *Service) ContactTagIDs(ctx context.Context, contactIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(contactIDs))
	if len(contactIDs) == 0 {
		return out, nil
	}

	var rows []models.ContactTag
	if err := s.db(ctx).Where("contact_id IN ?", contactIDs).Order("id asc").Find(&rows).Error; err != nil {
		log.Error().Err(err).Int("contacts", len(contactIDs)).Msg("failed to load contact tags")
		return nil, err
	}
	for _, r := range rows {
		out[r.ContactID] = append(out[r.ContactID], r.TagID)
	}
	return out, nil
}

func (s *Service) DeleteContactTags(ctx context.Context, contactID string) error {
	return s.db(ctx).Where("contact_id = ?", contactID).Delete(&models.ContactTag{}).Error
}

func (s *Service) InsertContactTags(ctx context.Context, contactID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]models.ContactTag, len(tagIDs))
	for i, id := range tagIDs {
		rows[i] = models.ContactTag{ContactID: contactID, TagID: id}
	}
	return s.db(ctx).Create(&rows).Error
}
