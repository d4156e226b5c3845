package htable

import (
	"bytes"

	"github.com/litetable/litetable-htable/internal/hfilter"
	"github.com/litetable/litetable-htable/internal/litetable"
)

// ScanMatcher turns the column tracker, the time range and the optional filter into one
// MatchCode per cell. It owns its tracker.
type ScanMatcher struct {
	tracker  columnTracker
	filter   hfilter.Filter
	minStamp int64
	maxStamp int64
	reversed bool

	curRow []byte
	hasRow bool
}

func newScanMatcher(q *Query, l versionLimits, filter hfilter.Filter) *ScanMatcher {
	minStamp, maxStamp := q.timeRange()
	return &ScanMatcher{
		tracker:  newColumnTracker(q.Qualifiers, l),
		filter:   filter,
		minStamp: minStamp,
		maxStamp: maxStamp,
		reversed: q.Reversed,
	}
}

// Match decides what happens to c. The order is fixed:
//
//  1. a cell from another row ends the current one (Done)
//  2. a timestamp outside the time range is skipped before anything else sees it
//  3. the tracker charges the cell against its column and version budget
//  4. the filter code is merged with the tracker code, see mergeFilterCode
func (m *ScanMatcher) Match(c *litetable.Cell) (MatchCode, error) {
	if !m.hasRow {
		return Done, newError(ErrNoCurrentRow, "matching %s", c)
	}
	if !bytes.Equal(c.Row, m.curRow) {
		return Done, nil
	}

	if c.Timestamp < m.minStamp || c.Timestamp >= m.maxStamp {
		return Skip, nil
	}

	colCode := m.tracker.checkColumn(c)
	if m.filter == nil {
		return colCode, nil
	}

	rc, err := m.filter.FilterCell(c)
	if err != nil {
		return Done, err
	}
	return m.mergeFilterCode(rc, colCode, c), nil
}

// mergeFilterCode resolves a filter code against the tracker code. A filter DONE or
// NEXT_ROW always wins, otherwise the more restrictive of the two is used.
func (m *ScanMatcher) mergeFilterCode(rc hfilter.ReturnCode, colCode MatchCode, c *litetable.Cell) MatchCode {
	switch rc {
	case hfilter.Done:
		if m.reversed {
			return DoneReverseScan
		}
		return DoneScan
	case hfilter.NextRow:
		return SeekNextRow
	}

	// the tracker already gave up on the column or row
	switch colCode {
	case Done, SeekNextRow:
		return colCode
	case IncludeAndSeekNextRow:
		if rc == hfilter.Include {
			return colCode
		}
		return SeekNextRow
	case SeekNextCol:
		if rc == hfilter.SeekNextUsingHint {
			return SeekNextUsingHint
		}
		return SeekNextCol
	}

	// colCode is Include or IncludeAndSeekNextCol
	switch rc {
	case hfilter.SeekNextUsingHint:
		return SeekNextUsingHint
	case hfilter.NextCol:
		return m.tracker.nextColumnOrRow(c)
	case hfilter.Skip:
		if colCode == IncludeAndSeekNextCol {
			return SeekNextCol
		}
		return Skip
	}
	return colCode
}

// KeyForNextColumn is the last possible key of c's column, seeking to it skips every
// remaining version in one step.
func (m *ScanMatcher) KeyForNextColumn(c *litetable.Cell) litetable.Cell {
	return litetable.LastOnColumn(bytes.Clone(c.Row), bytes.Clone(c.Qualifier))
}

// KeyForNextRow is the last possible key of c's row.
func (m *ScanMatcher) KeyForNextRow(c *litetable.Cell) litetable.Cell {
	return litetable.LastOnRow(bytes.Clone(c.Row))
}

// NextKeyHint asks the filter where to go next. A nil key means the filter had nothing
// to offer and the scan should just move on.
func (m *ScanMatcher) NextKeyHint(c *litetable.Cell) (*litetable.Cell, error) {
	h, ok := m.filter.(hfilter.Hinter)
	if !ok {
		return nil, nil
	}
	hint, err := h.NextCellHint(c)
	if err != nil || hint == nil {
		return nil, err
	}
	out := hint.Clone()
	return &out, nil
}

// SetToNewRow starts tracking c's row.
func (m *ScanMatcher) SetToNewRow(c *litetable.Cell) {
	m.curRow = append(m.curRow[:0], c.Row...)
	m.hasRow = true
	m.tracker.reset()
}

// ClearCurrentRow forgets the current row, Match fails until SetToNewRow is called.
func (m *ScanMatcher) ClearCurrentRow() {
	m.curRow = m.curRow[:0]
	m.hasRow = false
}

// IsCurrentRowEmpty reports whether no row is being tracked.
func (m *ScanMatcher) IsCurrentRowEmpty() bool {
	return !m.hasRow
}

// CurrentRow is the row being tracked.
func (m *ScanMatcher) CurrentRow() []byte {
	return m.curRow
}

// SetFilter swaps the filter used for the following cells.
func (m *ScanMatcher) SetFilter(f hfilter.Filter) {
	m.filter = f
}
