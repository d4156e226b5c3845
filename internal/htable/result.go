package htable

import (
	"bytes"

	"github.com/litetable/litetable-htable/internal/litetable"
)

// ResultColumns are the columns of every result: row key, qualifier, timestamp, value.
var ResultColumns = []string{"K", "Q", "T", "V"}

// Result is one page of a scan. Cells are in scan order, so the cells of a row are
// contiguous. A row cut by a batch or size limit continues in the next Result.
type Result struct {
	family string
	cells  []litetable.Cell
	size   int64
}

// Len is the number of cells in the result.
func (r *Result) Len() int {
	return len(r.cells)
}

// Size is the number of bytes the cells account for.
func (r *Result) Size() int64 {
	return r.size
}

// Cells returns the cells of the result. The result owns them.
func (r *Result) Cells() []litetable.Cell {
	return r.cells
}

// Records returns the cells as K, Q, T, V tuples.
func (r *Result) Records() [][]any {
	out := make([][]any, 0, len(r.cells))
	for i := range r.cells {
		c := &r.cells[i]
		out = append(out, []any{c.Row, c.Qualifier, c.Timestamp, c.Value})
	}
	return out
}

// Rows groups the cells by row key, in scan order.
func (r *Result) Rows() []*litetable.Row {
	var rows []*litetable.Row
	var last []byte
	for i := range r.cells {
		c := &r.cells[i]
		if len(rows) == 0 || !bytes.Equal(c.Row, last) {
			rows = append(rows, litetable.NewRow(string(c.Row)))
			last = c.Row
		}
		rows[len(rows)-1].Append(r.family, c)
	}
	return rows
}

func (r *Result) append(c litetable.Cell) {
	r.size += c.Size()
	r.cells = append(r.cells, c)
}

// wouldOverflow reports whether adding c breaks maxSize. An empty result always takes
// its first cell so the scan keeps moving.
func (r *Result) wouldOverflow(c *litetable.Cell, maxSize int64) bool {
	return maxSize > 0 && len(r.cells) > 0 && r.size+c.Size() > maxSize
}
