package htable

import (
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/litetable/litetable-htable/internal/litetable"
	"github.com/stretchr/testify/require"
)

// nowMs is the clock of every test scan.
const nowMs = 1_000_000

func fixedNow() time.Time {
	return time.UnixMilli(nowMs)
}

// memSource is a sorted slice of cells behaving like the store.
type memSource struct {
	cells []litetable.Cell
	opens int
	seeks int
}

func newMemSource(cells ...litetable.Cell) *memSource {
	sort.Slice(cells, func(i, j int) bool { return litetable.Compare(&cells[i], &cells[j]) < 0 })
	return &memSource{cells: cells}
}

func (s *memSource) Open(r litetable.ScanRange) (CellScanner, error) {
	s.opens++
	var in []litetable.Cell
	for _, c := range s.cells {
		if r.Contains(c.Row) {
			in = append(in, c)
		}
	}
	if r.Reverse {
		for i, j := 0, len(in)-1; i < j; i, j = i+1, j-1 {
			in[i], in[j] = in[j], in[i]
		}
	}
	return &memScanner{src: s, cells: in, reverse: r.Reverse}, nil
}

type memScanner struct {
	src     *memSource
	cells   []litetable.Cell
	pos     int
	reverse bool
}

func (m *memScanner) Next() (*litetable.Cell, error) {
	if m.pos >= len(m.cells) {
		return nil, litetable.ErrIterEnd
	}
	c := m.cells[m.pos]
	m.pos++
	return &c, nil
}

func (m *memScanner) Seek(key litetable.Cell) error {
	m.src.seeks++
	m.pos = sort.Search(len(m.cells), func(i int) bool {
		if m.reverse {
			return litetable.Compare(&m.cells[i], &key) <= 0
		}
		return litetable.Compare(&m.cells[i], &key) >= 0
	})
	return nil
}

func (m *memScanner) Close() error {
	return nil
}

// kv builds a cell from "row/qualifier/ts" with value v.
func kv(desc, v string) litetable.Cell {
	parts := strings.Split(desc, "/")
	var ts int64
	_, _ = fmt.Sscanf(parts[2], "%d", &ts)
	return litetable.Cell{
		Row:       []byte(parts[0]),
		Qualifier: []byte(parts[1]),
		Timestamp: ts,
		Value:     []byte(v),
	}
}

// cells builds cells from "row/qualifier/ts" strings, each valued with that string.
func cells(strings ...string) []litetable.Cell {
	out := make([]litetable.Cell, 0, len(strings))
	for _, s := range strings {
		out = append(out, kv(s, s))
	}
	return out
}

func keyOf(c *litetable.Cell) string {
	return fmt.Sprintf("%s/%s/%d", c.Row, c.Qualifier, c.Timestamp)
}

// pages runs the scan to the end and returns the cell keys of every result.
func pages(t *testing.T, op *FilterOperator) [][]string {
	t.Helper()
	req := require.New(t)

	var out [][]string
	for i := 0; i < 1000; i++ {
		res, err := op.GetNextResult()
		if err != nil {
			req.ErrorIs(err, litetable.ErrIterEnd)
			req.False(op.HasMoreResult())
			return out
		}
		req.NotZero(res.Len())

		var page []string
		for j := range res.Cells() {
			page = append(page, keyOf(&res.Cells()[j]))
		}
		out = append(out, page)
	}
	req.Fail("scan did not end")
	return nil
}

// flat joins pages into one list of keys.
func flat(p [][]string) []string {
	var out []string
	for _, page := range p {
		out = append(out, page...)
	}
	return out
}

func openOperator(t *testing.T, src ScanSource, q *Query, d ColumnDescriptor) *FilterOperator {
	t.Helper()
	op, err := New(&Config{
		Query:      q,
		Source:     src,
		Descriptor: d,
		Now:        fixedNow,
	})
	require.NoError(t, err)
	require.NoError(t, op.Init())
	return op
}
