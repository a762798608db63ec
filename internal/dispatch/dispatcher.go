// Package dispatch sends outbound messages: it persists the row, announces
// the change and relays the message to the delivery webhook.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/config"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/phone"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/realtime"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/scope"
	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyMessage  = errors.New("dispatch: empty message")
	ErrInvalidPhone  = errors.New("dispatch: invalid phone")
	ErrNoCompany     = errors.New("dispatch: actor has no company")
	ErrBadAttachment = errors.New("dispatch: bad attachment")
	// ErrForbidden covers attendants without a full assignment and
	// conversations filed under another desk.
	ErrForbidden = errors.New("dispatch: conversation not visible to actor")
)

type Store interface {
	LatestMessage(ctx context.Context, apiKey, phoneKey string) (*models.Message, error)
	InsertSentMessage(ctx context.Context, msg *models.Message) error
	GetDepartment(ctx context.Context, companyID, id string) (*models.Department, error)
	GetSector(ctx context.Context, companyID, id string) (*models.Sector, error)
}

type SendRequest struct {
	Phone      string      `json:"phone"`
	Text       string      `json:"text"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

type Dispatcher struct {
	store Store
	feed  realtime.Feed
	relay *Relay
	media MediaStore
	now   func() time.Time

	wg sync.WaitGroup
}

// NewDispatcher wires the dispatcher. feed, relay and media may be nil.
func NewDispatcher(store Store, feed realtime.Feed, relay *Relay, media MediaStore) *Dispatcher {
	return &Dispatcher{store: store, feed: feed, relay: relay, media: media, now: time.Now}
}

// Send persists one outbound message. Only lookup, attachment and insert
// failures are returned; publishing and webhook delivery are best effort.
func (d *Dispatcher) Send(ctx context.Context, actor models.Actor, req SendRequest) (*models.Message, error) {
	if actor.Company == nil {
		return nil, ErrNoCompany
	}
	sc := scope.ForActor(actor)
	if sc.DeniesAll() {
		return nil, ErrForbidden
	}
	key := phone.Normalize(req.Phone)
	if key == "" {
		return nil, ErrInvalidPhone
	}
	text := strings.TrimSpace(req.Text)
	if text == "" && req.Attachment == nil {
		return nil, ErrEmptyMessage
	}

	latest, err := d.store.LatestMessage(ctx, actor.APIKey(), key)
	if err != nil {
		return nil, fmt.Errorf("look up latest message: %w", err)
	}
	if latest != nil && !sc.Visible(latest.DepartmentID, latest.SectorID) {
		return nil, ErrForbidden
	}

	now := d.now()
	msg := &models.Message{
		MessageID: NewMessageID(now),
		Numero:    phone.JID(key),
		Kind:      models.KindText,
		Body:      text,
		APIKey:    actor.APIKey(),
		Mine:      config.OutboundFlag,
		DateTime:  now.Format(time.RFC3339Nano),
		CreatedAt: now,
	}
	inherit(msg, latest, actor)

	if req.Attachment != nil {
		if err := d.attach(ctx, msg, *req.Attachment); err != nil {
			return nil, err
		}
	}

	if err := d.store.InsertSentMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("save sent message: %w", err)
	}

	d.announce(ctx, msg)
	d.relayAsync(ctx, actor, *msg)
	return msg, nil
}

// inherit copies desk context from the newest message of the conversation,
// or falls back to the sender's own assignment and the company name.
func inherit(msg *models.Message, latest *models.Message, actor models.Actor) {
	if latest != nil {
		msg.Instance = latest.Instance
		msg.DepartmentID = latest.DepartmentID
		msg.SectorID = latest.SectorID
		msg.TagID = latest.TagID
		msg.PushName = latest.PushName
		if msg.Instance == "" {
			msg.Instance = actor.Company.Name
		}
		return
	}

	msg.Instance = actor.Company.Name
	if actor.Attendant != nil {
		msg.DepartmentID = actor.Attendant.DepartmentID
		msg.SectorID = actor.Attendant.SectorID
	}
}

func (d *Dispatcher) attach(ctx context.Context, msg *models.Message, a Attachment) error {
	data, err := a.Decode()
	if err != nil {
		return err
	}

	msg.Kind = KindFor(a.MimeType)
	msg.MimeType = a.MimeType
	msg.FileName = a.FileName
	msg.Caption = msg.Body

	uploadable := msg.Kind == models.KindImage || (msg.Kind == models.KindDocument && isPDF(a.MimeType, a.FileName))
	if d.media == nil || !uploadable {
		msg.Base64 = a.Base64
		return nil
	}

	name := a.FileName
	if name == "" {
		name = msg.Kind
	}
	url, err := d.media.Upload(ctx, path.Join(msg.APIKey, msg.MessageID, path.Base(name)), data, a.MimeType)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadAttachment, err)
	}
	if msg.Kind == models.KindImage {
		msg.ImageURL = url
	} else {
		msg.PDFURL = url
	}
	return nil
}

func (d *Dispatcher) announce(ctx context.Context, msg *models.Message) {
	if d.feed == nil {
		return
	}
	event := realtime.EventFor(config.TableSentMessages, realtime.OpInsert, msg.APIKey)
	if err := d.feed.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("idmessage", msg.MessageID).Msg("failed to publish sent message change")
	}
}

func (d *Dispatcher) relayAsync(ctx context.Context, actor models.Actor, msg models.Message) {
	if !d.relay.Enabled() {
		return
	}
	ctx = context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		payload := d.payload(ctx, actor, msg)
		if err := d.relay.Deliver(ctx, payload); err != nil {
			log.Error().Err(err).
				Str("idmessage", msg.MessageID).
				Str("api_key", msg.APIKey).
				Msg("webhook relay failed")
			return
		}
		log.Debug().Str("idmessage", msg.MessageID).Msg("webhook relay delivered")
	}()
}

func (d *Dispatcher) payload(ctx context.Context, actor models.Actor, msg models.Message) Payload {
	p := Payload{
		MessageID:    msg.MessageID,
		Phone:        phone.Normalize(msg.Numero),
		JID:          msg.Numero,
		Kind:         msg.Kind,
		Message:      msg.Body,
		Caption:      msg.Caption,
		Base64:       msg.Base64,
		ImageURL:     msg.ImageURL,
		PDFURL:       msg.PDFURL,
		FileName:     msg.FileName,
		MimeType:     msg.MimeType,
		APIKey:       msg.APIKey,
		Instance:     msg.Instance,
		DepartmentID: msg.DepartmentID,
		SectorID:     msg.SectorID,
		TagID:        msg.TagID,
		CompanyID:    actor.CompanyID(),
		CompanyName:  actor.Company.Name,
		SenderUserID: actor.UserID,
		SenderName:   actor.DisplayName(),
		SenderEmail:  actor.Email(),
		SenderRole:   string(actor.Role),
		DateTime:     msg.DateTime,
	}

	if msg.DepartmentID != nil {
		if dep, err := d.store.GetDepartment(ctx, actor.CompanyID(), *msg.DepartmentID); err != nil {
			log.Warn().Err(err).Str("department_id", *msg.DepartmentID).Msg("department lookup failed")
		} else if dep != nil {
			p.DepartmentName = dep.Name
		}
	}
	if msg.SectorID != nil {
		if sec, err := d.store.GetSector(ctx, actor.CompanyID(), *msg.SectorID); err != nil {
			log.Warn().Err(err).Str("sector_id", *msg.SectorID).Msg("sector lookup failed")
		} else if sec != nil {
			p.SectorName = sec.Name
		}
	}
	return p
}

// Wait blocks until every pending webhook relay has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
