package hfilter

import (
	"bytes"
	"sort"

	"github.com/litetable/litetable-htable/internal/litetable"
)

// PrefixFilter keeps rows whose key starts with prefix.
type PrefixFilter struct {
	prefix   []byte
	reversed bool
}

func (f *PrefixFilter) FilterCell(c *litetable.Cell) (ReturnCode, error) {
	if bytes.HasPrefix(c.Row, f.prefix) {
		return Include, nil
	}

	cmp := bytes.Compare(c.Row, f.prefix)
	if f.reversed {
		// walking down: anything below the prefix can never match again
		if cmp < 0 {
			return Done, nil
		}
		return NextRow, nil
	}

	if cmp > 0 {
		return Done, nil
	}
	return SeekNextUsingHint, nil
}

func (f *PrefixFilter) NextCellHint(c *litetable.Cell) (*litetable.Cell, error) {
	if f.reversed || bytes.Compare(c.Row, f.prefix) >= 0 {
		return nil, nil
	}
	hint := litetable.FirstOnRow(f.prefix)
	return &hint, nil
}

// InclusiveStopFilter ends the scan after the stop row, which is itself returned.
type InclusiveStopFilter struct {
	stop     []byte
	reversed bool
}

func (f *InclusiveStopFilter) FilterCell(c *litetable.Cell) (ReturnCode, error) {
	cmp := bytes.Compare(c.Row, f.stop)
	if (!f.reversed && cmp > 0) || (f.reversed && cmp < 0) {
		return Done, nil
	}
	return Include, nil
}

// RowKeyFilter compares the row key; rows that fail are skipped whole.
type RowKeyFilter struct {
	op  CompareOp
	cmp Comparator
}

func (f *RowKeyFilter) FilterCell(c *litetable.Cell) (ReturnCode, error) {
	if f.cmp.Matches(f.op, c.Row) {
		return Include, nil
	}
	return NextRow, nil
}

// QualifierFilter compares the qualifier.
type QualifierFilter struct {
	op  CompareOp
	cmp Comparator
}

func (f *QualifierFilter) FilterCell(c *litetable.Cell) (ReturnCode, error) {
	if f.cmp.Matches(f.op, c.Qualifier) {
		return Include, nil
	}
	return NextCol, nil
}

// ValueFilter compares the value.
type ValueFilter struct {
	op  CompareOp
	cmp Comparator
}

func (f *ValueFilter) FilterCell(c *litetable.Cell) (ReturnCode, error) {
	if f.cmp.Matches(f.op, c.Value) {
		return Include, nil
	}
	return Skip, nil
}

// ColumnPrefixFilter keeps qualifiers starting with prefix.
type ColumnPrefixFilter struct {
	prefix []byte
}

func (f *ColumnPrefixFilter) FilterCell(c *litetable.Cell) (ReturnCode, error) {
	if bytes.HasPrefix(c.Qualifier, f.prefix) {
		return Include, nil
	}
	if bytes.Compare(c.Qualifier, f.prefix) < 0 {
		return SeekNextUsingHint, nil
	}
	return NextRow, nil
}

func (f *ColumnPrefixFilter) NextCellHint(c *litetable.Cell) (*litetable.Cell, error) {
	hint := litetable.FirstOnColumn(bytes.Clone(c.Row), f.prefix)
	return &hint, nil
}

// MultipleColumnPrefixFilter keeps qualifiers starting with any of the prefixes.
type MultipleColumnPrefixFilter struct {
	prefixes [][]byte // sorted ascending
}

func newMultipleColumnPrefixFilter(prefixes [][]byte) *MultipleColumnPrefixFilter {
	sorted := make([][]byte, len(prefixes))
	copy(sorted, prefixes)
	sort.Slice(sorted, func(i, j int) bool { return bytes.Compare(sorted[i], sorted[j]) < 0 })
	return &MultipleColumnPrefixFilter{prefixes: sorted}
}

func (f *MultipleColumnPrefixFilter) FilterCell(c *litetable.Cell) (ReturnCode, error) {
	for _, p := range f.prefixes {
		if bytes.HasPrefix(c.Qualifier, p) {
			return Include, nil
		}
	}
	if f.nextPrefix(c.Qualifier) != nil {
		return SeekNextUsingHint, nil
	}
	return NextRow, nil
}

func (f *MultipleColumnPrefixFilter) NextCellHint(c *litetable.Cell) (*litetable.Cell, error) {
	p := f.nextPrefix(c.Qualifier)
	if p == nil {
		return nil, nil
	}
	hint := litetable.FirstOnColumn(bytes.Clone(c.Row), p)
	return &hint, nil
}

// nextPrefix is the smallest prefix sorting after qualifier.
func (f *MultipleColumnPrefixFilter) nextPrefix(qualifier []byte) []byte {
	i := sort.Search(len(f.prefixes), func(i int) bool {
		return bytes.Compare(f.prefixes[i], qualifier) > 0
	})
	if i == len(f.prefixes) {
		return nil
	}
	return f.prefixes[i]
}

// ColumnRangeFilter keeps qualifiers between min and max. An empty bound is open.
type ColumnRangeFilter struct {
	min          []byte
	minInclusive bool
	max          []byte
	maxInclusive bool
}

func (f *ColumnRangeFilter) FilterCell(c *litetable.Cell) (ReturnCode, error) {
	if len(f.min) > 0 {
		cmp := bytes.Compare(c.Qualifier, f.min)
		if cmp < 0 {
			return SeekNextUsingHint, nil
		}
		if cmp == 0 && !f.minInclusive {
			return NextCol, nil
		}
	}

	if len(f.max) > 0 {
		cmp := bytes.Compare(c.Qualifier, f.max)
		if cmp > 0 || (cmp == 0 && !f.maxInclusive) {
			return NextRow, nil
		}
	}
	return Include, nil
}

func (f *ColumnRangeFilter) NextCellHint(c *litetable.Cell) (*litetable.Cell, error) {
	hint := litetable.FirstOnColumn(bytes.Clone(c.Row), f.min)
	return &hint, nil
}

// TimestampsFilter keeps only the listed versions.
type TimestampsFilter struct {
	timestamps map[int64]struct{}
	oldest     int64
}

func newTimestampsFilter(ts []int64) *TimestampsFilter {
	f := &TimestampsFilter{timestamps: make(map[int64]struct{}, len(ts))}
	for i, t := range ts {
		f.timestamps[t] = struct{}{}
		if i == 0 || t < f.oldest {
			f.oldest = t
		}
	}
	return f
}

func (f *TimestampsFilter) FilterCell(c *litetable.Cell) (ReturnCode, error) {
	if _, ok := f.timestamps[c.Timestamp]; ok {
		return Include, nil
	}
	// versions come newest first, nothing older can be listed
	if len(f.timestamps) == 0 || c.Timestamp < f.oldest {
		return NextCol, nil
	}
	return Skip, nil
}

// KeyOnlyFilter returns cells without their values.
type KeyOnlyFilter struct{}

func (f *KeyOnlyFilter) FilterCell(*litetable.Cell) (ReturnCode, error) {
	return Include, nil
}

func (f *KeyOnlyFilter) TransformCell(c litetable.Cell) litetable.Cell {
	c.Value = nil
	return c
}

// SingleColumnValueFilter keeps rows whose latest version of qualifier compares true.
// Rows without the column are kept unless filterIfMissing is set.
type SingleColumnValueFilter struct {
	qualifier       []byte
	op              CompareOp
	cmp             Comparator
	filterIfMissing bool
	latestOnly      bool
	// the filter names a family other than the scanned one
	foreignFamily bool
}

func (f *SingleColumnValueFilter) FilterCell(*litetable.Cell) (ReturnCode, error) {
	return Include, nil
}

func (f *SingleColumnValueFilter) FilterRow(cells []litetable.Cell) bool {
	if f.foreignFamily {
		return f.filterIfMissing
	}

	found := false
	for i := range cells {
		if !bytes.Equal(cells[i].Qualifier, f.qualifier) {
			continue
		}
		found = true
		if f.cmp.Matches(f.op, cells[i].Value) {
			return false
		}
		if f.latestOnly {
			break
		}
	}

	if !found {
		return f.filterIfMissing
	}
	return true
}
