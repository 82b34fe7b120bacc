package room

import (
	"encoding/json"
	"strconv"

	"github.com/aura-social/liveroom/internal/domain"
)

// PlaceholderName is shown for speaker records that arrive without a name.
const PlaceholderName = "مستخدم"

// FromRecord builds a canonical Speaker from an arbitrary, possibly-partial
// record as decoded from the store. Total over any input: missing or
// malformed fields fall back to defaults, charm is coerced to a non-negative
// integer.
func FromRecord(rec map[string]any) domain.Speaker {
	s := domain.Speaker{
		ID:        stringField(rec, "id", ""),
		Name:      stringField(rec, "name", PlaceholderName),
		Avatar:    stringField(rec, "avatar", ""),
		SeatIndex: intField(rec, "seatIndex"),
		Muted:     boolField(rec, "isMuted"),
		Charm:     charmField(rec, "charm"),
	}
	return Clean(s)
}

// FromRecords sanitizes every entry of a raw speaker list.
func FromRecords(recs []map[string]any) []domain.Speaker {
	out := make([]domain.Speaker, 0, len(recs))
	for _, rec := range recs {
		out = append(out, FromRecord(rec))
	}
	return out
}

// Clean normalizes an already-typed Speaker. Idempotent; every speaker set
// handed to the store passes through here first.
func Clean(s domain.Speaker) domain.Speaker {
	if s.Name == "" {
		s.Name = PlaceholderName
	}
	if s.SeatIndex < 0 {
		s.SeatIndex = 0
	}
	if s.Charm < 0 {
		s.Charm = 0
	}
	return s
}

// CleanAll normalizes a full replacement speaker set.
func CleanAll(speakers []domain.Speaker) []domain.Speaker {
	out := make([]domain.Speaker, 0, len(speakers))
	for _, s := range speakers {
		out = append(out, Clean(s))
	}
	return out
}

func stringField(rec map[string]any, key, fallback string) string {
	if v, ok := rec[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func boolField(rec map[string]any, key string) bool {
	v, _ := rec[key].(bool)
	return v
}

func intField(rec map[string]any, key string) int {
	return int(numericField(rec, key))
}

func charmField(rec map[string]any, key string) int64 {
	n := numericField(rec, key)
	if n < 0 {
		return 0
	}
	return n
}

func numericField(rec map[string]any, key string) int64 {
	switch v := rec[key].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return int64(f)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return int64(f)
	default:
		return 0
	}
}
