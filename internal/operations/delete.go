package operations

import (
	"errors"
	"net/url"
	"strings"

	"github.com/litetable/litetable-htable/internal/litetable"
)

// Delete removes cells from one row. With a timestamp only that version of each named
// qualifier goes; without one every version does. No qualifier means the whole row.
// It returns the number of cells removed.
func (m *Manager) Delete(query string) (int, error) {
	parsed, err := parseDeleteQuery(query)
	if err != nil {
		return 0, err
	}

	if _, err = m.descriptor(parsed.family); err != nil {
		return 0, err
	}

	var cells []litetable.Cell
	if parsed.hasTimestamp && len(parsed.qualifiers) > 0 {
		for _, q := range parsed.qualifiers {
			cells = append(cells, litetable.Cell{
				Row:       []byte(parsed.rowKey),
				Qualifier: []byte(q),
				Timestamp: parsed.timestamp,
			})
		}
	} else if cells, err = m.matchingCells(parsed); err != nil {
		return 0, err
	}

	if len(cells) == 0 {
		return 0, nil
	}
	if err = m.storage.Delete(parsed.family, cells...); err != nil {
		return 0, err
	}
	return len(cells), nil
}

// matchingCells lists the stored cells of the row that the delete names.
func (m *Manager) matchingCells(parsed *deleteQuery) ([]litetable.Cell, error) {
	sc, err := m.storage.Open(litetable.SingleRow(parsed.family, []byte(parsed.rowKey)))
	if err != nil {
		return nil, err
	}
	defer sc.Close()

	wanted := make(map[string]struct{}, len(parsed.qualifiers))
	for _, q := range parsed.qualifiers {
		wanted[q] = struct{}{}
	}

	var cells []litetable.Cell
	for {
		c, err := sc.Next()
		if errors.Is(err, litetable.ErrIterEnd) {
			return cells, nil
		}
		if err != nil {
			return nil, err
		}
		if len(wanted) > 0 {
			if _, ok := wanted[string(c.Qualifier)]; !ok {
				continue
			}
		}
		if parsed.hasTimestamp && c.Timestamp != parsed.timestamp {
			continue
		}
		cells = append(cells, c.Clone())
	}
}

type deleteQuery struct {
	rowKey       string
	family       string
	qualifiers   []string
	timestamp    int64
	hasTimestamp bool
}

func parseDeleteQuery(input string) (*deleteQuery, error) {
	parts := strings.Fields(input)
	parsed := &deleteQuery{}

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
		case "timestamp", "ts":
			if parsed.timestamp, err = parseInt(key, value, 64); err != nil {
				return nil, err
			}
			parsed.hasTimestamp = true
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
	return parsed, nil
}
