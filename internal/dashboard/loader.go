// Package dashboard loads everything a console screen shows for one actor.
package dashboard

import (
	"context"
	"time"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/conversation"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/scope"
	"github.com/rs/zerolog/log"
)

type Store interface {
	ListDepartments(ctx context.Context, companyID string) ([]models.Department, error)
	ListSectors(ctx context.Context, companyID string) ([]models.Sector, error)
	ListTags(ctx context.Context, companyID string) ([]models.Tag, error)
	ListContacts(ctx context.Context, companyID string, sc scope.Scope) ([]models.Contact, error)
	ListMessages(ctx context.Context, apiKey string, sc scope.Scope) ([]models.Message, error)
	ListSentMessages(ctx context.Context, apiKey string, sc scope.Scope) ([]models.Message, error)
	ListCompanies(ctx context.Context) ([]models.Company, error)
}

// View is one dashboard snapshot. Companies is only filled for a
// super-admin that has not picked a tenant.
type View struct {
	Actor         models.Actor                `json:"actor"`
	Departments   []models.Department         `json:"departments"`
	Sectors       []models.Sector             `json:"sectors"`
	Tags          []models.Tag                `json:"tags"`
	Contacts      []models.Contact            `json:"contacts"`
	Conversations []conversation.Conversation `json:"conversations"`
	Companies     []models.Company            `json:"companies,omitempty"`
}

// Thread is one conversation split into calendar days.
type Thread struct {
	Conversation conversation.Conversation `json:"conversation"`
	Days         []conversation.DateGroup  `json:"days"`
}

type Loader struct {
	store  Store
	labels conversation.Labeler
	loc    *time.Location
	now    func() time.Time
}

func NewLoader(store Store, labels conversation.Labeler, loc *time.Location) *Loader {
	if loc == nil {
		loc = time.Local
	}
	return &Loader{store: store, labels: labels, loc: loc, now: time.Now}
}

// Load never fails: a collection whose fetch fails is logged and left empty.
func (l *Loader) Load(ctx context.Context, actor models.Actor) View {
	view := View{
		Actor:         actor,
		Departments:   []models.Department{},
		Sectors:       []models.Sector{},
		Tags:          []models.Tag{},
		Contacts:      []models.Contact{},
		Conversations: []conversation.Conversation{},
	}

	if actor.Role == models.RoleSuperAdmin && actor.Company == nil {
		view.Companies = []models.Company{}
		companies, err := l.store.ListCompanies(ctx)
		if err != nil {
			logFetch(err, "companies", actor)
		} else if companies != nil {
			view.Companies = companies
		}
		return view
	}

	companyID := actor.CompanyID()
	if companyID == "" {
		return view
	}

	if deps, err := l.store.ListDepartments(ctx, companyID); err != nil {
		logFetch(err, "departments", actor)
	} else if deps != nil {
		view.Departments = deps
	}
	if secs, err := l.store.ListSectors(ctx, companyID); err != nil {
		logFetch(err, "sectors", actor)
	} else if secs != nil {
		view.Sectors = secs
	}
	if tags, err := l.store.ListTags(ctx, companyID); err != nil {
		logFetch(err, "tags", actor)
	} else if tags != nil {
		view.Tags = tags
	}

	contacts, messages := l.scopedCollections(ctx, actor)
	view.Contacts = contacts
	if convs := conversation.Aggregate(messages, contacts); convs != nil {
		view.Conversations = convs
	}
	return view
}

// Thread returns the conversation for a phone, or false when the actor has
// none with it.
func (l *Loader) Thread(ctx context.Context, actor models.Actor, phone, lang string) (Thread, bool) {
	contacts, messages := l.scopedCollections(ctx, actor)
	conv, ok := conversation.Find(conversation.Aggregate(messages, contacts), phone)
	if !ok {
		return Thread{}, false
	}
	return Thread{
		Conversation: conv,
		Days:         conversation.GroupByDate(conv.Messages, l.now(), l.loc, lang, l.labels),
	}, true
}

// scopedCollections fetches contacts and both message tables under the
// actor's scope. An attendant with an incomplete assignment gets nothing
// without a query being made.
func (l *Loader) scopedCollections(ctx context.Context, actor models.Actor) ([]models.Contact, []models.Message) {
	contacts := []models.Contact{}
	messages := []models.Message{}

	sc := scope.ForActor(actor)
	if sc.DeniesAll() || actor.Company == nil {
		return contacts, messages
	}

	if found, err := l.store.ListContacts(ctx, actor.CompanyID(), sc); err != nil {
		logFetch(err, "contacts", actor)
	} else {
		contacts = append(contacts, sc.FilterContacts(found)...)
	}

	if inbound, err := l.store.ListMessages(ctx, actor.APIKey(), sc); err != nil {
		logFetch(err, "messages", actor)
	} else {
		messages = append(messages, sc.FilterMessages(inbound)...)
	}
	if outbound, err := l.store.ListSentMessages(ctx, actor.APIKey(), sc); err != nil {
		logFetch(err, "sent_messages", actor)
	} else {
		messages = append(messages, sc.FilterMessages(outbound)...)
	}
	return contacts, messages
}

func logFetch(err error, collection string, actor models.Actor) {
	log.Error().Err(err).
		Str("collection", collection).
		Str("company_id", actor.CompanyID()).
		Str("user_id", actor.UserID).
		Msg("fetch failed, showing empty collection")
}
