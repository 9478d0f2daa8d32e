package progress

import (
	"strings"
	"time"
)

// Форматы отметок времени, которые встречаются в листах прогресса.
// Новые строки пишутся в RFC 3339.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04",
	"1/2/2006",
	"2006-01-02",
	"Mon Jan 2 2006 15:04:05 GMT-0700",
}

// ParseTimestamp разбирает отметку времени из ячейки. Значения без зоны
// трактуются в loc. Неразобранное значение дает нулевое время.
func ParseTimestamp(value string, loc *time.Location) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	// "Wed Oct 15 2026 09:31:00 GMT-0500 (Central Daylight Time)"
	if idx := strings.Index(value, " ("); idx != -1 {
		value = value[:idx]
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FormatTimestamp форматирует отметку времени для записи
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}
