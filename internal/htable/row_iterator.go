package htable

import (
	"bytes"
	"errors"

	"github.com/litetable/litetable-htable/internal/hfilter"
	"github.com/litetable/litetable-htable/internal/litetable"
)

type rowState uint8

const (
	// seekingRowStart: the next cell opens a new row
	seekingRowStart rowState = iota
	// inRow: cells of the current row are being matched
	inRow
	// exhausted: nothing is left to read
	exhausted
)

// RowIterator drives a cursor through the matcher and packs the matched cells into
// results. It owns the matcher and the cursor. State survives between calls to next, so
// a row cut by a limit carries on where it stopped.
//
// Forward scans read one scanner. Reversed scans read through a rowWindow, which keeps
// the in-row order ascending.
type RowIterator struct {
	cur      cursor
	matcher  *ScanMatcher
	family   string
	reversed bool

	limit   int32
	offset  int32
	batch   int
	maxSize int64

	transformer hfilter.Transformer
	rowFilter   hfilter.RowFilter
	pending     []litetable.Cell

	recorder  ExpiryRecorder
	retention ColumnDescriptor
	recorded  bool

	state       rowState
	row         []byte
	countPerRow int32
}

// openRowIterator opens the scan for q and picks the cursor for its direction.
func openRowIterator(source ScanSource, q *Query, l versionLimits, filter hfilter.Filter) (*RowIterator, error) {
	s, err := source.Open(q.scanRange())
	if err != nil {
		return nil, err
	}

	var cur cursor
	if q.Reversed {
		cur = newRowWindow(source, q.Family, s)
	} else {
		cur = newForwardCursor(s)
	}

	it := &RowIterator{
		cur:      cur,
		matcher:  newScanMatcher(q, l, nil),
		family:   q.Family,
		reversed: q.Reversed,
		limit:    q.Limit,
		offset:   q.Offset,
		batch:    q.BatchSize,
		maxSize:  q.MaxResultSize,
	}
	if err := it.setFilter(filter); err != nil {
		return nil, errors.Join(err, cur.close())
	}
	return it, nil
}

func (it *RowIterator) setFilter(f hfilter.Filter) error {
	if f == nil {
		it.matcher.SetFilter(nil)
		it.transformer = nil
		it.rowFilter = nil
		return nil
	}

	var rowFilter hfilter.RowFilter
	if hfilter.IsRowFilter(f) {
		if it.batch > 0 {
			return newError(ErrBatchWithRowFilter, "batch size %d", it.batch)
		}
		rowFilter = f.(hfilter.RowFilter)
	}

	it.matcher.SetFilter(f)
	it.transformer, _ = f.(hfilter.Transformer)
	it.rowFilter = rowFilter
	return nil
}

// setRecorder makes the iterator report rows holding dead data, judged against the
// family retention settings.
func (it *RowIterator) setRecorder(r ExpiryRecorder, retention ColumnDescriptor) {
	it.recorder = r
	it.retention = retention
}

func (it *RowIterator) hasMore() bool {
	return it.state != exhausted
}

// next fills res until the batch size or byte cap is reached or the scan ends.
func (it *RowIterator) next(res *Result) error {
	for it.state != exhausted {
		c, err := it.cur.current()
		if errors.Is(err, litetable.ErrIterEnd) {
			it.finishRow(res)
			it.state = exhausted
			return nil
		}
		if err != nil {
			return err
		}

		// limits are checked before matching, a cell left behind has not been charged yet
		if it.state == seekingRowStart {
			if it.rowFilter != nil && it.maxSize > 0 && res.Len() > 0 && res.Size() >= it.maxSize {
				return nil
			}
			it.startRow(c)
		}
		if it.rowFilter == nil && res.wouldOverflow(c, it.maxSize) {
			return nil
		}

		code, err := it.matcher.Match(c)
		if err != nil {
			return err
		}

		switch code {
		case Include, IncludeAndSeekNextCol, IncludeAndSeekNextRow:
			full, err := it.include(res, c, code)
			if err != nil {
				return err
			}
			if full {
				return nil
			}
		case Skip:
			err = it.cur.advance()
		case SeekNextCol:
			it.noteDeadColumn()
			_, err = it.cur.seek(it.matcher.KeyForNextColumn(c))
		case SeekNextRow:
			err = it.endRow(res, true)
		case SeekNextUsingHint:
			err = it.seekHint(c)
		case Done:
			// Done on a cell of the same row comes from the tracker: skip what is left of it
			err = it.endRow(res, bytes.Equal(c.Row, it.row))
		case DoneScan, DoneReverseScan:
			it.finishRow(res)
			it.state = exhausted
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (it *RowIterator) startRow(c *litetable.Cell) {
	it.row = append(it.row[:0], c.Row...)
	it.matcher.SetToNewRow(c)
	it.countPerRow = 0
	it.recorded = false
	it.state = inRow
}

// include places c in the result unless the row offset swallows it, then moves the
// cursor as code says. It reports whether the batch is full.
func (it *RowIterator) include(res *Result, c *litetable.Cell, code MatchCode) (bool, error) {
	it.countPerRow++

	rowSpent := false
	if it.countPerRow > it.offset {
		out := c.Clone()
		if it.transformer != nil {
			out = it.transformer.TransformCell(out)
		}
		if it.rowFilter != nil {
			it.pending = append(it.pending, out)
		} else {
			res.append(out)
		}
		rowSpent = it.limit > 0 && it.countPerRow-it.offset >= it.limit
	}

	var err error
	switch {
	case rowSpent || code == IncludeAndSeekNextRow:
		err = it.endRow(res, true)
	case code == IncludeAndSeekNextCol:
		var skipped int
		skipped, err = it.cur.seek(it.matcher.KeyForNextColumn(c))
		// more than this cell was passed over: the column holds versions beyond the budget
		if skipped > 1 && it.beyondFamilyVersions() {
			it.recordExpired(ExpiredByVersions)
		}
	default:
		err = it.cur.advance()
	}
	if err != nil {
		return false, err
	}
	return it.batch > 0 && res.Len() >= it.batch, nil
}

// noteDeadColumn records the row when the tracker gave up on a column because of TTL or
// because it already saw more versions than the family keeps.
func (it *RowIterator) noteDeadColumn() {
	t := it.matcher.tracker
	switch {
	case t.expired():
		it.recordExpired(ExpiredByTTL)
	case t.curVersion() > t.limits().maxVersions && it.beyondFamilyVersions():
		it.recordExpired(ExpiredByVersions)
	}
}

// beyondFamilyVersions is true when the version budget in force is the family's own,
// so extra versions are garbage rather than just unrequested.
func (it *RowIterator) beyondFamilyVersions() bool {
	kept := it.retention.MaxVersions
	return kept > 0 && it.matcher.tracker.limits().maxVersions >= kept
}

func (it *RowIterator) recordExpired(reason ExpiryReason) {
	if it.recorder == nil || it.recorded {
		return
	}
	it.recorded = true
	it.recorder.Record(ExpiredRow{
		Family:      it.family,
		RowKey:      string(it.row),
		Reason:      reason,
		TimeToLive:  it.retention.TimeToLive,
		MaxVersions: it.retention.MaxVersions,
	})
}

func (it *RowIterator) seekHint(c *litetable.Cell) error {
	hint, err := it.matcher.NextKeyHint(c)
	if err != nil {
		return err
	}
	if hint == nil || !it.ahead(hint, c) {
		return it.cur.advance()
	}
	_, err = it.cur.seek(*hint)
	return err
}

// ahead reports whether key lies after c in scan order, a hint that does not would
// never make progress.
func (it *RowIterator) ahead(key, c *litetable.Cell) bool {
	cmp := litetable.CompareRows(key, c)
	switch {
	case cmp == 0:
		return litetable.Compare(key, c) > 0
	case it.reversed:
		return cmp < 0
	}
	return cmp > 0
}

// endRow finishes the current row, first skipping what is left of it when skip is set.
func (it *RowIterator) endRow(res *Result, skip bool) error {
	if skip {
		if err := it.cur.skipRow(it.row); err != nil {
			return err
		}
	}
	it.finishRow(res)
	return nil
}

// finishRow settles the current row: buffered cells go through the row filter.
func (it *RowIterator) finishRow(res *Result) {
	if it.rowFilter != nil && len(it.pending) > 0 {
		if !it.rowFilter.FilterRow(it.pending) {
			for _, c := range it.pending {
				res.append(c)
			}
		}
		it.pending = it.pending[:0]
	}
	it.matcher.ClearCurrentRow()
	it.state = seekingRowStart
}

func (it *RowIterator) close() error {
	it.state = exhausted
	it.pending = nil
	return it.cur.close()
}
