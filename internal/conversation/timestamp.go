package conversation

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
)

// Epoch is what EffectiveTime returns when no source resolves.
var Epoch = time.UnixMilli(0).UTC()

// date_time layouts seen from the provider and from Postgres text output.
// Zoneless layouts are read in the local zone.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// EffectiveTime resolves the instant a message is ordered by: the provider's
// epoch-seconds timestamp, then date_time, then created_at, then Epoch.
func EffectiveTime(m models.Message) time.Time {
	if ms, ok := epochMillis(m.Timestamp); ok {
		return time.UnixMilli(ms)
	}
	if t, ok := ParseDateTime(m.DateTime); ok {
		return t
	}
	if !m.CreatedAt.IsZero() {
		return m.CreatedAt
	}
	return Epoch
}

// epochMillis parses an epoch-seconds string. Zero is treated as absent;
// negative values are pre-1970 instants.
func epochMillis(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) || secs == 0 {
		return 0, false
	}
	return int64(math.Round(secs * 1000)), true
}

// ParseDateTime parses a calendar date-time string in any accepted layout.
func ParseDateTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Latest returns the message a thread ends with: the greatest effective time,
// with later positions winning ties as they do after Aggregate's stable sort.
func Latest(messages []models.Message) (models.Message, bool) {
	if len(messages) == 0 {
		return models.Message{}, false
	}
	best, bestAt := 0, EffectiveTime(messages[0])
	for i := 1; i < len(messages); i++ {
		if at := EffectiveTime(messages[i]); !at.Before(bestAt) {
			best, bestAt = i, at
		}
	}
	return messages[best], true
}
