// Package tagging replaces the tag set of a contact.
package tagging

import (
	"context"
	"errors"
	"fmt"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/config"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/realtime"
	"github.com/rs/zerolog/log"
)

var (
	ErrDelete = errors.New("tagging: delete failed")
	ErrInsert = errors.New("tagging: insert failed")
)

type Outcome string

const (
	Unchanged Outcome = "unchanged"
	Updated   Outcome = "updated"
)

type Store interface {
	DeleteContactTags(ctx context.Context, contactID string) error
	InsertContactTags(ctx context.Context, contactID string, tagIDs []string) error
}

type Editor struct {
	store Store
	feed  realtime.Feed
}

// NewEditor wires the editor; feed may be nil.
func NewEditor(store Store, feed realtime.Feed) *Editor {
	return &Editor{store: store, feed: feed}
}

// Apply deletes every association of the contact and inserts the first
// MaxContactTags proposed ids, unless both sets already hold the same ids.
// The two steps are not atomic: an insert failure leaves the contact untagged.
func (e *Editor) Apply(ctx context.Context, companyID, contactID string, current, proposed []string) (Outcome, error) {
	if SameSet(current, proposed) {
		return Unchanged, nil
	}

	if err := e.store.DeleteContactTags(ctx, contactID); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDelete, err)
	}

	next := Cap(proposed)
	if len(next) > 0 {
		if err := e.store.InsertContactTags(ctx, contactID, next); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInsert, err)
		}
	}

	if e.feed != nil {
		event := realtime.EventFor(config.TableContacts, realtime.OpUpdate, companyID)
		if err := e.feed.Publish(ctx, event); err != nil {
			log.Warn().Err(err).Str("contact_id", contactID).Msg("failed to publish tag change")
		}
	}
	return Updated, nil
}

// SameSet compares membership, ignoring order and duplicates.
func SameSet(a, b []string) bool {
	left := make(map[string]struct{}, len(a))
	for _, id := range a {
		left[id] = struct{}{}
	}
	right := make(map[string]struct{}, len(b))
	for _, id := range b {
		right[id] = struct{}{}
	}
	if len(left) != len(right) {
		return false
	}
	for id := range left {
		if _, ok := right[id]; !ok {
			return false
		}
	}
	return true
}

// Cap drops duplicates and empty ids and keeps at most MaxContactTags.
func Cap(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, config.MaxContactTags)
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		if len(out) == config.MaxContactTags {
			break
		}
	}
	return out
}
