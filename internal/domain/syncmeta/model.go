package syncmeta

import (
	"strings"
	"time"
)

// Record holds the last successful sync timestamp for one data type. The
// document id is the data type itself.
type Record struct {
	DataType     string `json:"id"`
	LastSyncedAt string `json:"last_synced_at"`
}

const (
	DataTypePlayers   = "players"
	DataTypeTeams     = "teams"
	DataTypeFixtures  = "fixtures"
	DataTypeGameweeks = "gameweeks"
)

// TrackedDataTypes lists every data type the staleness gate inspects.
func TrackedDataTypes() []string {
	return []string{DataTypePlayers, DataTypeTeams, DataTypeFixtures, DataTypeGameweeks}
}

// timestamp layouts accepted when reading stored metadata. Values without an
// offset are treated as UTC.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp reads a stored timestamp, normalizing to UTC.
func ParseTimestamp(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders a timestamp the way Record stores it.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
