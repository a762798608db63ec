package config

import "time"

const (
	// Tags
	MaxContactTags = 5

	// Realtime
	DefaultRefreshInterval = 5 * time.Second
	FeedReconnectMin       = 2 * time.Second
	FeedReconnectMax       = time.Minute
	FeedPingInterval       = 90 * time.Second
	NotifyChannel          = "table_changes"

	// Outbound
	OutboundFlag          = "true"
	DefaultWebhookTimeout = 15 * time.Second
	MessageIDSuffixLen    = 8

	// LatestMessageWindow is how many newest rows per table compete for
	// "latest message" by effective time.
	LatestMessageWindow = 20

	// Sessions
	DevTokenTTL = 72 * time.Hour
)

// Realtime tables, as named in the change feed.
const (
	TableMessages     = "messages"
	TableSentMessages = "sent_messages"
	TableContacts     = "contacts"
	TableCompanies    = "companies"
	TableDepartments  = "departments"
	TableSectors      = "sectors"
	TableTags         = "tags"
)

// ScopeColumns is the equality column each realtime table is filtered on.
// Tag edits are announced on contacts, so contact_tags carries no trigger.
var ScopeColumns = map[string]string{
	TableMessages:     "apikey_instancia",
	TableSentMessages: "apikey_instancia",
	TableContacts:     "company_id",
	TableCompanies:    "id",
	TableDepartments:  "company_id",
	TableSectors:      "company_id",
	TableTags:         "company_id",
}

var SupportedLanguages = map[string]bool{
	"en": true,
	"pt": true,
}
