package operations

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/litetable/litetable-htable/internal/hfilter"
	"github.com/litetable/litetable-htable/internal/htable"
	"github.com/litetable/litetable-htable/internal/litetable"
	"github.com/litetable/litetable-htable/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Read parses a read query and scans the family it names. Rows come back in scan order.
func (m *Manager) Read(ctx context.Context, query string) ([]*litetable.Row, error) {
	q, err := parseRead(query)
	if err != nil {
		return nil, err
	}
	return m.Scan(ctx, q)
}

// Scan runs one scan session to the end, page by page, and groups its cells into rows.
func (m *Manager) Scan(ctx context.Context, q *htable.Query) ([]*litetable.Row, error) {
	start := m.now()
	rows, err := m.scan(ctx, q)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.ScansTotal.WithLabelValues(q.Family, status).Inc()
	metrics.ScanDuration.WithLabelValues(q.Family).Observe(time.Since(start).Seconds())
	return rows, err
}

func (m *Manager) scan(ctx context.Context, q *htable.Query) ([]*litetable.Row, error) {
	d, err := m.descriptor(q.Family)
	if err != nil {
		return nil, err
	}

	f, err := hfilter.Parse(q.Filter, hfilter.Options{Reversed: q.Reversed, Family: q.Family})
	if err != nil {
		return nil, err
	}

	// a filter that judges whole rows cannot see a row cut in batches
	if q.BatchSize == 0 && (f == nil || !hfilter.IsRowFilter(f)) {
		q.BatchSize = m.defaultBatchSize
	}
	if q.MaxResultSize == 0 {
		q.MaxResultSize = m.defaultMaxResultSize
	}

	cfg := &htable.Config{
		Query:      q,
		Source:     m.storage,
		Descriptor: d,
		Now:        m.now,
	}
	if m.garbageCollector != nil {
		cfg.Recorder = m.garbageCollector
	}
	op, err := htable.New(cfg)
	if err != nil {
		return nil, err
	}
	if err = op.SetFilter(f); err != nil {
		return nil, err
	}
	if err = op.Init(); err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := op.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("session", op.Session()).Msg("failed to close scan")
		}
	}()

	var (
		rows    []*litetable.Row
		current *litetable.Row
	)
	for op.HasMoreResult() {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		res, err := op.GetNextResult()
		if errors.Is(err, litetable.ErrIterEnd) {
			break
		}
		if err != nil {
			return nil, err
		}
		metrics.ResultPages.WithLabelValues(q.Family).Inc()
		metrics.CellsReturned.WithLabelValues(q.Family).Add(float64(res.Len()))

		// a row cut by a page boundary continues in the next page
		cells := res.Cells()
		for i := range cells {
			c := &cells[i]
			if current == nil || current.Key != string(c.Row) {
				current = litetable.NewRow(string(c.Row))
				rows = append(rows, current)
			}
			current.Append(q.Family, c)
		}
	}
	return rows, nil
}

// parseRead parses a read query into a scan. Keys:
//
//	family=cf              required
//	key=r1                 a single row
//	start=r1 stop=r9       a row range, stop exclusive unless stop_inclusive=true
//	prefix=user:           rows starting with the prefix
//	regex=^user:[0-9]+$    rows matching the regular expression
//	qualifier=q            repeatable, none means every qualifier
//	versions=3 limit=10 offset=2 batch=100 max_size=65536
//	min_ts=0 max_ts=1700000000000 reversed=true
//	filter=PrefixFilter(%27a%27)
//
// Values are URL decoded. key, prefix and regex exclude each other.
func parseRead(input string) (*htable.Query, error) {
	parts := strings.Fields(input)
	q := &htable.Query{}

	var (
		key, prefix, regex string
		filters            []string
	)
	for _, part := range parts {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, newError(errInvalidFormat, "expected key=value, got: %s", part)
		}

		name := strings.TrimLeft(kv[0], "-")
		value, err := url.QueryUnescape(kv[1])
		if err != nil {
			return nil, newError(errInvalidFormat, "failed to decode %s: %v", name, err)
		}

		switch name {
		case "family":
			q.Family = value
		case "key":
			key = value
		case "prefix":
			prefix = value
		case "regex":
			regex = value
		case "start":
			q.StartRow = []byte(value)
		case "stop":
			q.StopRow = []byte(value)
		case "stop_inclusive":
			if q.StopInclusive, err = parseBool(name, value); err != nil {
				return nil, err
			}
		case "qualifier":
			q.Qualifiers = append(q.Qualifiers, []byte(value))
		case "versions", "latest":
			n, err := parseInt(name, value, 32)
			if err != nil {
				return nil, err
			}
			q.MaxVersions = int32(n)
		case "limit":
			n, err := parseInt(name, value, 32)
			if err != nil {
				return nil, err
			}
			q.Limit = int32(n)
		case "offset":
			n, err := parseInt(name, value, 32)
			if err != nil {
				return nil, err
			}
			q.Offset = int32(n)
		case "batch":
			n, err := parseInt(name, value, 32)
			if err != nil {
				return nil, err
			}
			q.BatchSize = int(n)
		case "max_size":
			if q.MaxResultSize, err = parseInt(name, value, 64); err != nil {
				return nil, err
			}
		case "min_ts":
			if q.MinStamp, err = parseInt(name, value, 64); err != nil {
				return nil, err
			}
		case "max_ts":
			if q.MaxStamp, err = parseInt(name, value, 64); err != nil {
				return nil, err
			}
		case "reversed":
			if q.Reversed, err = parseBool(name, value); err != nil {
				return nil, err
			}
		case "filter":
			filters = append(filters, "("+value+")")
		default:
			return nil, newError(errUnknownParameter, "%s", name)
		}
	}

	if q.Family == "" {
		return nil, newError(errInvalidFormat, "family is required")
	}

	keys := 0
	for _, k := range []string{key, prefix, regex} {
		if k != "" {
			keys++
		}
	}
	if keys > 1 {
		return nil, newError(errInvalidFormat, "only one of key, prefix or regex may be used")
	}
	if keys == 1 && (len(q.StartRow) > 0 || len(q.StopRow) > 0) {
		return nil, newError(errInvalidFormat, "start and stop cannot be combined with key, prefix or regex")
	}

	switch {
	case key != "":
		q.StartRow, q.StopRow, q.StopInclusive = []byte(key), []byte(key), true
	case prefix != "":
		if !q.Reversed {
			q.StartRow = []byte(prefix)
		}
		filters = append(filters, "PrefixFilter("+quote(prefix)+")")
	case regex != "":
		filters = append(filters, "RowFilter(=, "+quote("regexstring:"+regex)+")")
	}
	q.Filter = strings.Join(filters, " AND ")
	return q, nil
}

// quote renders s as a filter string literal.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func parseInt(name, value string, bits int) (int64, error) {
	n, err := strconv.ParseInt(value, 10, bits)
	if err != nil {
		return 0, newError(errInvalidFormat, "%s must be a number. received %s", name, value)
	}
	if n < 0 {
		return 0, newError(errInvalidFormat, "%s must not be negative. received %d", name, n)
	}
	return n, nil
}

func parseBool(name, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, newError(errInvalidFormat, "%s must be true or false. received %s", name, value)
	}
	return b, nil
}
