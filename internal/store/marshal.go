package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// Student id lists and track sets are stored as JSON arrays in TEXT
// columns. The on-disk shape is internal to the store; nothing outside
// this package depends on it.

func marshalIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("marshal id list: %w", err)
	}
	return string(b), nil
}

func unmarshalIDs(raw string) ([]string, error) {
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("unmarshal id list: %w", err)
	}
	return ids, nil
}

// Timestamps are stored as RFC 3339 text in UTC.

func marshalTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func unmarshalTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("unmarshal timestamp %q: %w", raw, err)
	}
	return t, nil
}
