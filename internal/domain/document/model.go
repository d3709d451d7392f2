package document

import (
	"fmt"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// Collection names backing each data type.
const (
	CollectionPlayers      = "players"
	CollectionTeams        = "teams"
	CollectionFixtures     = "fixtures"
	CollectionGameweeks    = "gameweeks"
	CollectionStandings    = "league_standings"
	CollectionSyncMetadata = "sync_metadata"
)

// BatchLimit is the hard ceiling on writes per storage batch.
const BatchLimit = 500

// Document is one semi-structured record as decoded from upstream JSON.
type Document map[string]any

// Key returns the string form of the document's value under idKey.
// Numeric ids are rendered without a decimal part.
func (d Document) Key(idKey string) (string, bool) {
	raw, ok := d[idKey]
	if !ok || raw == nil {
		return "", false
	}

	switch v := raw.(type) {
	case string:
		v = strings.TrimSpace(v)
		return v, v != ""
	case float64:
		return strconv.FormatInt(int64(v), 10), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	default:
		return "", false
	}
}

// Int reads an integer field, accepting the float64 form JSON decoding produces.
func (d Document) Int(key string) (int, bool) {
	switch v := d[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}

func (d Document) Float(key string) (float64, bool) {
	switch v := d[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func (d Document) String(key string) (string, bool) {
	v, ok := d[key].(string)
	return v, ok
}

func (d Document) Bool(key string) (bool, bool) {
	v, ok := d[key].(bool)
	return v, ok
}

// Decode maps the document onto a typed struct through its JSON tags.
func Decode(d Document, target any) error {
	raw, err := sonic.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// FromValue converts a typed struct into a document through its JSON tags.
func FromValue(value any) (Document, error) {
	raw, err := sonic.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	var out Document
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return out, nil
}

// Clone copies the top level of the document so callers cannot mutate stored state.
func Clone(d Document) Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for key, value := range d {
		out[key] = value
	}
	return out
}
