package hfilter

import (
	"github.com/litetable/litetable-htable/internal/litetable"
	"github.com/stretchr/testify/require"
	"testing"
)

func cell(row, qualifier string, ts int64, value string) *litetable.Cell {
	return &litetable.Cell{
		Row:       []byte(row),
		Qualifier: []byte(qualifier),
		Timestamp: ts,
		Value:     []byte(value),
	}
}

func mustParse(t *testing.T, expr string, opts Options) Filter {
	t.Helper()
	f, err := Parse(expr, opts)
	require.NoError(t, err)
	return f
}

func TestFilterCell(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		expr     string
		reversed bool
		cell     *litetable.Cell
		want     ReturnCode
	}{
		"prefix match":                {expr: "PrefixFilter('ab')", cell: cell("abc", "q", 1, ""), want: Include},
		"prefix before":               {expr: "PrefixFilter('ab')", cell: cell("aa", "q", 1, ""), want: SeekNextUsingHint},
		"prefix after":                {expr: "PrefixFilter('ab')", cell: cell("ac", "q", 1, ""), want: Done},
		"prefix reversed above":       {expr: "PrefixFilter('ab')", reversed: true, cell: cell("ac", "q", 1, ""), want: NextRow},
		"prefix reversed below":       {expr: "PrefixFilter('ab')", reversed: true, cell: cell("aa", "q", 1, ""), want: Done},
		"inclusive stop at stop":      {expr: "InclusiveStopFilter('m')", cell: cell("m", "q", 1, ""), want: Include},
		"inclusive stop past":         {expr: "InclusiveStopFilter('m')", cell: cell("n", "q", 1, ""), want: Done},
		"inclusive stop reversed":     {expr: "InclusiveStopFilter('m')", reversed: true, cell: cell("l", "q", 1, ""), want: Done},
		"row filter miss":             {expr: "RowFilter(=, 'binary:r1')", cell: cell("r2", "q", 1, ""), want: NextRow},
		"row filter substring":        {expr: "RowFilter(=, 'substring:SER')", cell: cell("user1", "q", 1, ""), want: Include},
		"qualifier filter miss":       {expr: "QualifierFilter(=, 'binary:a')", cell: cell("r", "b", 1, ""), want: NextCol},
		"qualifier binaryprefix":      {expr: "QualifierFilter(=, 'binaryprefix:na')", cell: cell("r", "name", 1, ""), want: Include},
		"value filter miss":           {expr: "ValueFilter(!=, 'binary:x')", cell: cell("r", "q", 1, "x"), want: Skip},
		"value regex":                 {expr: "ValueFilter(=, 'regexstring:^v\\d+$')", cell: cell("r", "q", 1, "v12"), want: Include},
		"value regex not equal":       {expr: "ValueFilter(!=, 'regexstring:^v\\d+$')", cell: cell("r", "q", 1, "v12"), want: Skip},
		"column prefix before":        {expr: "ColumnPrefixFilter('m')", cell: cell("r", "a", 1, ""), want: SeekNextUsingHint},
		"column prefix after":         {expr: "ColumnPrefixFilter('m')", cell: cell("r", "z", 1, ""), want: NextRow},
		"multiple prefixes gap":       {expr: "MultipleColumnPrefixFilter('c', 'a')", cell: cell("r", "b", 1, ""), want: SeekNextUsingHint},
		"multiple prefixes past all":  {expr: "MultipleColumnPrefixFilter('c', 'a')", cell: cell("r", "d", 1, ""), want: NextRow},
		"multiple prefixes match":     {expr: "MultipleColumnPrefixFilter('c', 'a')", cell: cell("r", "cc", 1, ""), want: Include},
		"column range below":          {expr: "ColumnRangeFilter('b', true, 'd', false)", cell: cell("r", "a", 1, ""), want: SeekNextUsingHint},
		"column range exclusive min":  {expr: "ColumnRangeFilter('b', false, 'd', false)", cell: cell("r", "b", 1, ""), want: NextCol},
		"column range exclusive max":  {expr: "ColumnRangeFilter('b', true, 'd', false)", cell: cell("r", "d", 1, ""), want: NextRow},
		"column range inside":         {expr: "ColumnRangeFilter('b', true, 'd', true)", cell: cell("r", "d", 1, ""), want: Include},
		"timestamps listed":           {expr: "TimestampsFilter(5, 9)", cell: cell("r", "q", 9, ""), want: Include},
		"timestamps between":          {expr: "TimestampsFilter(5, 9)", cell: cell("r", "q", 7, ""), want: Skip},
		"timestamps older than all":   {expr: "TimestampsFilter(5, 9)", cell: cell("r", "q", 4, ""), want: NextCol},
		"and picks most restrictive":  {expr: "KeyOnlyFilter() AND QualifierFilter(=, 'binary:a')", cell: cell("r", "b", 1, ""), want: NextCol},
		"or picks least restrictive":  {expr: "QualifierFilter(=, 'binary:a') OR ValueFilter(=, 'binary:v')", cell: cell("r", "b", 1, "v"), want: Include},
		"or of seeks falls back":      {expr: "QualifierFilter(=, 'binary:a') OR ValueFilter(=, 'binary:v')", cell: cell("r", "b", 1, "x"), want: Skip},
		"or of next rows":             {expr: "RowFilter(=, 'binary:a') OR RowFilter(=, 'binary:b')", cell: cell("c", "q", 1, ""), want: NextRow},
		"and with done wins":          {expr: "InclusiveStopFilter('a') AND PrefixFilter('b')", cell: cell("b", "q", 1, ""), want: Done},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			f := mustParse(t, tc.expr, Options{Reversed: tc.reversed})
			got, err := f.FilterCell(tc.cell)
			req.NoError(err)
			req.Equal(tc.want, got, "got %s want %s", got, tc.want)
		})
	}
}

func TestNextCellHint(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		expr string
		cell *litetable.Cell
		want litetable.Cell
	}{
		"prefix jumps to prefix row": {
			expr: "PrefixFilter('m')",
			cell: cell("a", "q", 1, ""),
			want: litetable.FirstOnRow([]byte("m")),
		},
		"column prefix jumps in row": {
			expr: "ColumnPrefixFilter('m')",
			cell: cell("r", "a", 1, ""),
			want: litetable.FirstOnColumn([]byte("r"), []byte("m")),
		},
		"multiple prefixes next one": {
			expr: "MultipleColumnPrefixFilter('x', 'c', 'a')",
			cell: cell("r", "b", 1, ""),
			want: litetable.FirstOnColumn([]byte("r"), []byte("c")),
		},
		"and takes the furthest hint": {
			expr: "ColumnPrefixFilter('m') AND ColumnRangeFilter('p', true, 'z', true)",
			cell: cell("r", "a", 1, ""),
			want: litetable.FirstOnColumn([]byte("r"), []byte("p")),
		},
		"or takes the nearest hint": {
			expr: "ColumnPrefixFilter('m') OR ColumnRangeFilter('p', true, 'z', true)",
			cell: cell("r", "a", 1, ""),
			want: litetable.FirstOnColumn([]byte("r"), []byte("m")),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			f := mustParse(t, tc.expr, Options{})

			rc, err := f.FilterCell(tc.cell)
			req.NoError(err)
			req.Equal(SeekNextUsingHint, rc)

			h, ok := f.(Hinter)
			req.True(ok)
			hint, err := h.NextCellHint(tc.cell)
			req.NoError(err)
			req.NotNil(hint)
			req.Equal(0, litetable.Compare(&tc.want, hint), "got %s", hint)
		})
	}
}

func TestKeyOnlyFilter_TransformCell(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	f := mustParse(t, "KeyOnlyFilter() AND PrefixFilter('r')", Options{})
	tr, ok := f.(Transformer)
	req.True(ok)

	out := tr.TransformCell(*cell("r", "q", 3, "value"))
	req.Nil(out.Value)
	req.Equal([]byte("q"), out.Qualifier)
	req.Equal(int64(3), out.Timestamp)
}

func TestSingleColumnValueFilter_FilterRow(t *testing.T) {
	t.Parallel()

	row := []litetable.Cell{
		*cell("r", "age", 20, "41"),
		*cell("r", "age", 10, "40"),
		*cell("r", "name", 10, "bob"),
	}

	tests := map[string]struct {
		expr string
		opts Options
		drop bool
	}{
		"latest matches":             {expr: "SingleColumnValueFilter('cf', 'age', =, 'binary:41')", drop: false},
		"latest differs":             {expr: "SingleColumnValueFilter('cf', 'age', =, 'binary:40')", drop: true},
		"any version may match":      {expr: "SingleColumnValueFilter('cf', 'age', =, 'binary:40', false, false)", drop: false},
		"missing column kept":        {expr: "SingleColumnValueFilter('cf', 'zip', =, 'binary:1')", drop: false},
		"missing column filtered":    {expr: "SingleColumnValueFilter('cf', 'zip', =, 'binary:1', true, true)", drop: true},
		"other family counts absent": {expr: "SingleColumnValueFilter('x', 'age', =, 'binary:41', true, true)", opts: Options{Family: "cf"}, drop: true},
		"or needs every row filter":  {expr: "SingleColumnValueFilter('cf', 'age', =, 'binary:40') OR SingleColumnValueFilter('cf', 'name', =, 'binary:bob')", drop: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			f := mustParse(t, tc.expr, tc.opts)
			req.True(IsRowFilter(f))

			rf, ok := f.(RowFilter)
			req.True(ok)
			req.Equal(tc.drop, rf.FilterRow(row))
		})
	}
}

func TestIsRowFilter(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	req.False(IsRowFilter(mustParse(t, "KeyOnlyFilter() AND PrefixFilter('a')", Options{})))
	req.True(IsRowFilter(mustParse(t, "KeyOnlyFilter() AND (PrefixFilter('a') OR SingleColumnValueFilter('cf', 'q', =, 'binary:v'))", Options{})))
}
