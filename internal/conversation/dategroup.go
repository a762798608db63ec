package conversation

import (
	"time"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
)

// Translation keys used for date labels.
const (
	LabelToday     = "date.today"
	LabelYesterday = "date.yesterday"
	LabelLayout    = "date.layout"

	defaultLayout = "02/01/2006"
)

// Labeler looks up localized strings; localization.Localizer satisfies it.
type Labeler interface {
	GetString(lang, key string) string
}

type DateGroup struct {
	Label    string           `json:"label"`
	Day      time.Time        `json:"day"`
	Messages []models.Message `json:"messages"`
}

// GroupByDate partitions an already ordered thread into calendar days of loc.
// Groups appear in first-occurrence order.
func GroupByDate(messages []models.Message, now time.Time, loc *time.Location, lang string, labels Labeler) []DateGroup {
	if loc == nil {
		loc = time.Local
	}
	today := startOfDay(now.In(loc))
	yesterday := today.AddDate(0, 0, -1)

	index := make(map[time.Time]int)
	var groups []DateGroup
	for _, m := range messages {
		day := startOfDay(EffectiveTime(m).In(loc))
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, DateGroup{
				Label: dayLabel(day, today, yesterday, lang, labels),
				Day:   day,
			})
		}
		groups[i].Messages = append(groups[i].Messages, m)
	}
	return groups
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func dayLabel(day, today, yesterday time.Time, lang string, labels Labeler) string {
	switch {
	case day.Equal(today):
		return lookup(labels, lang, LabelToday, "Today")
	case day.Equal(yesterday):
		return lookup(labels, lang, LabelYesterday, "Yesterday")
	default:
		return day.Format(lookup(labels, lang, LabelLayout, defaultLayout))
	}
}

func lookup(labels Labeler, lang, key, fallback string) string {
	if labels == nil {
		return fallback
	}
	if v := labels.GetString(lang, key); v != "" && v != key {
		return v
	}
	return fallback
}
