package hfilter

import (
	"github.com/litetable/litetable-htable/internal/litetable"
)

// ReturnCode is what a filter tells the scan about a single cell.
type ReturnCode uint8

const (
	// Include the cell.
	Include ReturnCode = iota
	// Skip this cell and look at the next one.
	Skip
	// NextCol skips the remaining versions of this qualifier.
	NextCol
	// NextRow skips the rest of the row.
	NextRow
	// SeekNextUsingHint asks the scan to seek to the key given by Hinter.NextCellHint.
	SeekNextUsingHint
	// Done ends the scan.
	Done
)

func (r ReturnCode) String() string {
	switch r {
	case Include:
		return "INCLUDE"
	case Skip:
		return "SKIP"
	case NextCol:
		return "NEXT_COL"
	case NextRow:
		return "NEXT_ROW"
	case SeekNextUsingHint:
		return "SEEK_NEXT_USING_HINT"
	case Done:
		return "DONE"
	}
	return "UNKNOWN"
}

// Filter is a compiled predicate evaluated once per cell. Compiled filters are immutable:
// everything a filter decides is derived from the cell it is handed, so one filter can be
// evaluated by any number of scans.
type Filter interface {
	FilterCell(c *litetable.Cell) (ReturnCode, error)
}

// Hinter is implemented by filters that return SeekNextUsingHint. The hint is the first key
// the scan should look at next.
type Hinter interface {
	NextCellHint(c *litetable.Cell) (*litetable.Cell, error)
}

// Transformer rewrites included cells before they are returned.
type Transformer interface {
	TransformCell(c litetable.Cell) litetable.Cell
}

// RowFilter can reject a whole row once all of its included cells are known.
// FilterRow returns true when the row must be dropped.
type RowFilter interface {
	FilterRow(cells []litetable.Cell) bool
}

// Options fix the context a filter is compiled for.
type Options struct {
	// Reversed compiles row level filters for a scan walking rows in descending order.
	Reversed bool
	// Family is the column family being scanned. Filters naming another family see it as missing.
	Family string
}

// IsRowFilter reports whether f, or any filter nested inside it, needs the whole row.
func IsRowFilter(f Filter) bool {
	switch v := f.(type) {
	case *List:
		for _, sub := range v.filters {
			if IsRowFilter(sub) {
				return true
			}
		}
		return false
	case RowFilter:
		return true
	}
	return false
}
