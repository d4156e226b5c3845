package operations

import (
	"net/url"
	"strings"
	"time"

	"github.com/litetable/litetable-htable/internal/litetable"
	"github.com/litetable/litetable-htable/internal/metrics"
)

// Write stores every qualifier=value pair of the query in one row, all at the same
// timestamp, and returns what was written.
func (m *Manager) Write(query string) (*litetable.Row, error) {
	parsed, err := parseWriteQuery(query, m.now())
	if err != nil {
		return nil, err
	}

	if _, err = m.descriptor(parsed.family); err != nil {
		return nil, err
	}

	cells := make([]litetable.Cell, len(parsed.qualifiers))
	row := litetable.NewRow(parsed.rowKey)
	for i, qualifier := range parsed.qualifiers {
		cells[i] = litetable.Cell{
			Row:       []byte(parsed.rowKey),
			Qualifier: []byte(qualifier),
			Timestamp: parsed.timestamp,
			Value:     parsed.values[i],
		}
		row.Append(parsed.family, &cells[i])
	}

	if err = m.storage.Put(parsed.family, cells...); err != nil {
		return nil, err
	}
	metrics.CellsWritten.WithLabelValues(parsed.family).Add(float64(len(cells)))
	return row, nil
}

type writeQuery struct {
	rowKey     string
	family     string
	qualifiers []string
	values     [][]byte
	timestamp  int64
}

// parseWriteQuery parses a write query string into a structured form
func parseWriteQuery(input string, now time.Time) (*writeQuery, error) {
	parts := strings.Fields(input)
	parsed := &writeQuery{
		timestamp: now.UnixMilli(),
	}

	for _, part := range parts {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, newError(errInvalidFormat, "expected key=value, got: %s", part)
		}

		key := strings.TrimLeft(kv[0], "-")
		value, err := url.QueryUnescape(kv[1])
		if err != nil {
			return nil, newError(errInvalidFormat, "failed to decode %s: %v", key, err)
		}

		switch key {
		case "key":
			parsed.rowKey = value
		case "family":
			parsed.family = value
		case "qualifier":
			parsed.qualifiers = append(parsed.qualifiers, value)
		case "value":
			parsed.values = append(parsed.values, []byte(value))
		case "timestamp":
			t, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return nil, newError(errInvalidFormat, "invalid timestamp format: %s", value)
			}
			parsed.timestamp = t.UnixMilli()
		case "ts":
			if parsed.timestamp, err = parseInt(key, value, 64); err != nil {
				return nil, err
			}
		default:
			return nil, newError(errUnknownParameter, "%s", key)
		}
	}

	if parsed.rowKey == "" {
		return nil, newError(errMissingKey, "key is required")
	}
	if parsed.family == "" {
		return nil, newError(errInvalidFormat, "family is required")
	}
	if len(parsed.qualifiers) == 0 {
		return nil, newError(errInvalidFormat, "at least one qualifier is required")
	}
	if len(parsed.qualifiers) != len(parsed.values) {
		return nil, newError(errInvalidFormat,
			"number of qualifiers (%d) doesn't match number of values (%d)",
			len(parsed.qualifiers), len(parsed.values))
	}
	return parsed, nil
}
