package htable

import (
	"bytes"
	"math"
	"sort"

	"github.com/litetable/litetable-htable/internal/litetable"
)

// columnTracker decides, per cell of the current row, whether the column is wanted and
// whether the cell's version still fits the budget. It is picked once per scan: an
// explicitTracker when qualifiers were requested, a wildcardTracker otherwise.
type columnTracker interface {
	checkColumn(c *litetable.Cell) MatchCode
	checkVersions(c *litetable.Cell) MatchCode
	// nextColumnOrRow is called once the current column needs no more cells.
	nextColumnOrRow(c *litetable.Cell) MatchCode
	done() bool
	reset()

	setLimits(l versionLimits)
	limits() versionLimits
	// curVersion is the number of versions of the current column seen so far.
	curVersion() int32
	// expired reports whether the last checked cell was past its TTL.
	expired() bool
}

// versionLimits are the per column retention rules a tracker enforces.
type versionLimits struct {
	maxVersions int32
	// oldest is the smallest timestamp still alive
	oldest int64
}

// newVersionLimits derives the oldest live timestamp from a TTL in seconds.
func newVersionLimits(maxVersions, ttl int32, nowMs int64) versionLimits {
	l := versionLimits{maxVersions: maxVersions, oldest: math.MinInt64}
	if ttl > 0 {
		l.oldest = nowMs - int64(ttl)*1000
	}
	return l
}

func (l versionLimits) isExpired(ts int64) bool {
	return ts < l.oldest
}

// charge counts ts against a column's budget. TTL is checked first: an expired cell is
// never included, whatever budget is left.
func (l versionLimits) charge(count *int32, ts int64) (MatchCode, bool) {
	if l.maxVersions <= 0 {
		return SeekNextCol, false
	}
	if l.isExpired(ts) {
		// versions come newest first, so everything after this one is expired too
		return SeekNextCol, true
	}

	*count++
	switch {
	case *count > l.maxVersions:
		return SeekNextCol, false
	case *count == l.maxVersions:
		return IncludeAndSeekNextCol, false
	}
	return Include, false
}

func newColumnTracker(qualifiers [][]byte, l versionLimits) columnTracker {
	if len(qualifiers) == 0 {
		return &wildcardTracker{lim: l}
	}
	return newExplicitTracker(qualifiers, l)
}

type columnEntry struct {
	qualifier []byte
	count     int32
}

// explicitTracker walks the requested qualifiers in the order cells arrive: ascending.
type explicitTracker struct {
	columns []columnEntry
	idx     int
	lim     versionLimits
	lastTTL bool
}

func newExplicitTracker(qualifiers [][]byte, l versionLimits) *explicitTracker {
	sorted := make([][]byte, len(qualifiers))
	copy(sorted, qualifiers)
	sort.Slice(sorted, func(i, j int) bool { return bytes.Compare(sorted[i], sorted[j]) < 0 })

	t := &explicitTracker{lim: l}
	for i, q := range sorted {
		if i > 0 && bytes.Equal(q, sorted[i-1]) {
			continue
		}
		t.columns = append(t.columns, columnEntry{qualifier: bytes.Clone(q)})
	}
	return t
}

func (t *explicitTracker) checkColumn(c *litetable.Cell) MatchCode {
	t.lastTTL = false
	for !t.done() {
		cmp := bytes.Compare(t.columns[t.idx].qualifier, c.Qualifier)
		switch {
		case cmp == 0:
			return t.checkVersions(c)
		case cmp > 0:
			// c is a column nobody asked for, the next requested one is further on
			return SeekNextCol
		}
		// the requested column had no cells in this row
		t.idx++
	}
	return Done
}

func (t *explicitTracker) checkVersions(c *litetable.Cell) MatchCode {
	if t.done() {
		return Done
	}
	code, expired := t.lim.charge(&t.columns[t.idx].count, c.Timestamp)
	t.lastTTL = expired
	return code
}

func (t *explicitTracker) nextColumnOrRow(*litetable.Cell) MatchCode {
	t.idx++
	if t.done() {
		return Done
	}
	return SeekNextCol
}

func (t *explicitTracker) done() bool {
	return t.idx >= len(t.columns)
}

func (t *explicitTracker) reset() {
	t.idx = 0
	t.lastTTL = false
	for i := range t.columns {
		t.columns[i].count = 0
	}
}

func (t *explicitTracker) setLimits(l versionLimits) { t.lim = l }
func (t *explicitTracker) limits() versionLimits     { return t.lim }
func (t *explicitTracker) expired() bool             { return t.lastTTL }

func (t *explicitTracker) curVersion() int32 {
	if t.done() {
		return 0
	}
	return t.columns[t.idx].count
}

// wildcardTracker accepts every qualifier and restarts the version count when the
// qualifier changes.
type wildcardTracker struct {
	qualifier []byte
	started   bool
	count     int32
	lim       versionLimits
	lastTTL   bool
}

func (t *wildcardTracker) checkColumn(c *litetable.Cell) MatchCode {
	return t.checkVersions(c)
}

func (t *wildcardTracker) checkVersions(c *litetable.Cell) MatchCode {
	if !t.started || !bytes.Equal(t.qualifier, c.Qualifier) {
		t.qualifier = append(t.qualifier[:0], c.Qualifier...)
		t.started = true
		t.count = 0
	}
	code, expired := t.lim.charge(&t.count, c.Timestamp)
	t.lastTTL = expired
	return code
}

func (t *wildcardTracker) nextColumnOrRow(*litetable.Cell) MatchCode {
	return SeekNextCol
}

func (t *wildcardTracker) done() bool { return false }

func (t *wildcardTracker) reset() {
	t.qualifier = t.qualifier[:0]
	t.started = false
	t.count = 0
	t.lastTTL = false
}

func (t *wildcardTracker) setLimits(l versionLimits) { t.lim = l }
func (t *wildcardTracker) limits() versionLimits     { return t.lim }
func (t *wildcardTracker) curVersion() int32         { return t.count }
func (t *wildcardTracker) expired() bool             { return t.lastTTL }
