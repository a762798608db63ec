// Package conversation merges inbound and outbound messages with the contact
// directory into per-contact threads.
package conversation

import (
	"sort"
	"time"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/phone"
)

// Conversation is a derived, non-persisted thread keyed by canonical phone.
type Conversation struct {
	Phone           string           `json:"phone"`
	Name            string           `json:"name"`
	ContactID       string           `json:"contact_id,omitempty"`
	DepartmentID    *string          `json:"department_id"`
	SectorID        *string          `json:"sector_id"`
	TagIDs          []string         `json:"tag_ids"`
	Messages        []models.Message `json:"messages"`
	LastMessage     string           `json:"last_message"`
	LastMessageTime time.Time        `json:"last_message_time"`
}

type timedMessage struct {
	msg models.Message
	at  time.Time
}

// Aggregate groups messages by canonical phone, orders each thread by
// effective time (arrival order breaks ties) and orders threads by latest
// activity. Contacts only enrich threads; a contact without messages yields
// no conversation.
func Aggregate(messages []models.Message, contacts []models.Contact) []Conversation {
	directory := make(map[string]*models.Contact, len(contacts))
	for i := range contacts {
		key := phone.Normalize(contacts[i].PhoneNumber)
		if key == "" {
			continue
		}
		if _, seen := directory[key]; !seen {
			directory[key] = &contacts[i]
		}
	}

	index := make(map[string]int)
	var convs []Conversation
	var threads [][]timedMessage

	for _, m := range messages {
		key := phone.Normalize(m.RawPhone())
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(convs)
			index[key] = i
			convs = append(convs, seed(key, m, directory[key]))
			threads = append(threads, nil)
		}
		threads[i] = append(threads[i], timedMessage{msg: m, at: EffectiveTime(m)})
	}

	for i := range convs {
		thread := threads[i]
		sort.SliceStable(thread, func(a, b int) bool {
			return thread[a].at.Before(thread[b].at)
		})

		c := &convs[i]
		c.Messages = make([]models.Message, len(thread))
		for j, tm := range thread {
			c.Messages[j] = tm.msg
		}

		tail := thread[len(thread)-1]
		c.LastMessage = tail.msg.Preview()
		c.LastMessageTime = tail.at
		c.Name = resolveName(directory[c.Phone], tail.msg.PushName, c.Name)
	}

	sort.SliceStable(convs, func(a, b int) bool {
		return convs[a].LastMessageTime.After(convs[b].LastMessageTime)
	})
	return convs
}

func seed(key string, first models.Message, contact *models.Contact) Conversation {
	c := Conversation{
		Phone:  key,
		Name:   resolveName(contact, first.PushName, key),
		TagIDs: []string{},
	}
	if contact != nil {
		c.ContactID = contact.ID
		c.DepartmentID = contact.DepartmentID
		c.SectorID = contact.SectorID
		if len(contact.TagIDs) > 0 {
			c.TagIDs = append([]string(nil), contact.TagIDs...)
		}
	}
	return c
}

func resolveName(contact *models.Contact, pushName, fallback string) string {
	if contact != nil && contact.Name != "" {
		return contact.Name
	}
	if pushName != "" {
		return pushName
	}
	return fallback
}

// Find returns the conversation for a raw phone or JID.
func Find(convs []Conversation, raw string) (Conversation, bool) {
	key := phone.Normalize(raw)
	if key == "" {
		return Conversation{}, false
	}
	for _, c := range convs {
		if c.Phone == key {
			return c, true
		}
	}
	return Conversation{}, false
}
