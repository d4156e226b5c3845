package operations

import (
	"net/url"
	"strings"

	"github.com/litetable/litetable-htable/internal/htable"
)

// Create creates or updates column families. family takes a comma separated list and
// every family named gets the same retention settings, either from ttl and versions or
// from a kv attributes document:
//
//	family=cf,meta ttl=3600 versions=3
//	family=cf attributes=%7B%22Hbase%22%3A%7B%22TimeToLive%22%3A60%7D%7D
func (m *Manager) Create(query string) ([]string, error) {
	families, d, err := parseCreateQuery(query)
	if err != nil {
		return nil, err
	}

	attributes := d.String()
	for _, family := range families {
		if err = m.storage.CreateFamily(family, attributes); err != nil {
			return nil, err
		}
		m.forgetDescriptor(family)
	}
	return families, nil
}

func parseCreateQuery(input string) ([]string, htable.ColumnDescriptor, error) {
	var (
		d          htable.ColumnDescriptor
		families   []string
		attributes string
		retention  bool
	)

	for _, part := range strings.Fields(input) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, d, newError(errInvalidFormat, "expected key=value, got: %s", part)
		}

		key := strings.TrimLeft(kv[0], "-")
		value, err := url.QueryUnescape(kv[1])
		if err != nil {
			return nil, d, newError(errInvalidFormat, "failed to decode %s: %v", key, err)
		}

		switch key {
		case "family":
			for _, f := range strings.Split(value, ",") {
				if f = strings.TrimSpace(f); f != "" {
					families = append(families, f)
				}
			}
		case "ttl":
			n, err := parseInt(key, value, 32)
			if err != nil {
				return nil, d, err
			}
			d.TimeToLive = int32(n)
			retention = true
		case "versions":
			n, err := parseInt(key, value, 32)
			if err != nil {
				return nil, d, err
			}
			d.MaxVersions = int32(n)
			retention = true
		case "attributes":
			attributes = value
		default:
			return nil, d, newError(errUnknownParameter, "%s", key)
		}
	}

	if len(families) == 0 {
		return nil, d, newError(errInvalidFormat, "missing family name")
	}
	if attributes != "" {
		if retention {
			return nil, d, newError(errInvalidFormat, "attributes cannot be combined with ttl or versions")
		}
		parsed, err := htable.ParseDescriptor(attributes)
		if err != nil {
			return nil, d, err
		}
		d = parsed
	}
	return families, d, nil
}
