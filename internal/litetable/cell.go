package litetable

import (
	"bytes"
	"errors"
	"fmt"
	"math"
)

// ErrIterEnd is returned by every cursor in LiteTable once it has nothing left to give.
var ErrIterEnd = errors.New("iterator end")

// KeyType tells a Cell apart from the synthetic keys used to position scanners.
type KeyType uint8

const (
	// TypePut is a stored cell.
	TypePut KeyType = iota
	// TypeFirstOnRow sorts before every cell of its row.
	TypeFirstOnRow
	// TypeLastOnRow sorts after every cell of its row.
	TypeLastOnRow
	// TypeLastOnColumn sorts after every version of its row and qualifier.
	TypeLastOnColumn
)

// Cell is the atomic unit of the wide-column model: one version of one qualifier in one row.
//
// Timestamp is in milliseconds. Cells of a row are ordered by qualifier ascending, then by
// timestamp descending (newest first): storage keeps the timestamp negated so that byte
// order and recency agree.
type Cell struct {
	Row       []byte  `json:"row"`
	Qualifier []byte  `json:"qualifier"`
	Timestamp int64   `json:"timestamp"`
	Value     []byte  `json:"value,omitempty"`
	Type      KeyType `json:"-"`
}

// Size is the number of bytes the cell contributes to a result.
func (c *Cell) Size() int64 {
	// 8 bytes for the timestamp
	return int64(len(c.Row) + len(c.Qualifier) + len(c.Value) + 8)
}

// Clone returns a deep copy that owns all of its slices.
func (c *Cell) Clone() Cell {
	return Cell{
		Row:       bytes.Clone(c.Row),
		Qualifier: bytes.Clone(c.Qualifier),
		Timestamp: c.Timestamp,
		Value:     bytes.Clone(c.Value),
		Type:      c.Type,
	}
}

func (c *Cell) String() string {
	return fmt.Sprintf("%q/%q/%d", c.Row, c.Qualifier, c.Timestamp)
}

// FirstOnRow is a seek key positioned before every cell of row.
func FirstOnRow(row []byte) Cell {
	return Cell{Row: row, Timestamp: math.MaxInt64, Type: TypeFirstOnRow}
}

// LastOnRow is a seek key positioned after every cell of row.
func LastOnRow(row []byte) Cell {
	return Cell{Row: row, Timestamp: math.MinInt64, Type: TypeLastOnRow}
}

// FirstOnColumn is a seek key positioned before every version of row/qualifier.
func FirstOnColumn(row, qualifier []byte) Cell {
	return Cell{Row: row, Qualifier: qualifier, Timestamp: math.MaxInt64, Type: TypePut}
}

// LastOnColumn is a seek key positioned after every version of row/qualifier.
func LastOnColumn(row, qualifier []byte) Cell {
	return Cell{Row: row, Qualifier: qualifier, Timestamp: math.MinInt64, Type: TypeLastOnColumn}
}

// CompareRows orders two cells by row only.
func CompareRows(a, b *Cell) int {
	return bytes.Compare(a.Row, b.Row)
}

// Compare orders cells and seek keys the way the storage layer lays them out:
// row ascending, qualifier ascending, timestamp descending.
func Compare(a, b *Cell) int {
	if c := bytes.Compare(a.Row, b.Row); c != 0 {
		return c
	}

	// row level markers
	if a.Type == TypeFirstOnRow || b.Type == TypeFirstOnRow {
		return rank(a.Type == TypeFirstOnRow, b.Type == TypeFirstOnRow, -1)
	}
	if a.Type == TypeLastOnRow || b.Type == TypeLastOnRow {
		return rank(a.Type == TypeLastOnRow, b.Type == TypeLastOnRow, 1)
	}

	if c := bytes.Compare(a.Qualifier, b.Qualifier); c != 0 {
		return c
	}

	if a.Type == TypeLastOnColumn || b.Type == TypeLastOnColumn {
		return rank(a.Type == TypeLastOnColumn, b.Type == TypeLastOnColumn, 1)
	}

	switch {
	case a.Timestamp > b.Timestamp:
		return -1
	case a.Timestamp < b.Timestamp:
		return 1
	}
	return 0
}

// rank resolves a comparison where at least one side is a marker that sorts toward dir.
func rank(aMarked, bMarked bool, dir int) int {
	switch {
	case aMarked && bMarked:
		return 0
	case aMarked:
		return dir
	default:
		return -dir
	}
}

// ScanRange bounds a scan over one column family.
//
// A forward scan covers [Start, Stop). A reverse scan walks from Start down to Stop,
// covering (Stop, Start]. An empty bound is unbounded. IncludeStop makes Stop inclusive,
// which is how a single row window is expressed.
type ScanRange struct {
	Family      string
	Start       []byte
	Stop        []byte
	IncludeStop bool
	Reverse     bool
}

// SingleRow is a forward range covering exactly one row.
func SingleRow(family string, row []byte) ScanRange {
	return ScanRange{
		Family:      family,
		Start:       row,
		Stop:        row,
		IncludeStop: true,
	}
}

// Contains reports whether row falls inside the range.
func (r *ScanRange) Contains(row []byte) bool {
	lo, hi := r.Start, r.Stop
	loInclusive, hiInclusive := true, r.IncludeStop
	if r.Reverse {
		lo, hi = r.Stop, r.Start
		loInclusive, hiInclusive = r.IncludeStop, true
	}

	if len(lo) > 0 {
		c := bytes.Compare(row, lo)
		if c < 0 || (c == 0 && !loInclusive) {
			return false
		}
	}
	if len(hi) > 0 {
		c := bytes.Compare(row, hi)
		if c > 0 || (c == 0 && !hiInclusive) {
			return false
		}
	}
	return true
}
