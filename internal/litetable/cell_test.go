package litetable

import (
	"github.com/stretchr/testify/require"
	"sort"
	"testing"
)

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		a, b Cell
		want int
	}{
		"row orders first": {
			a:    Cell{Row: []byte("a"), Qualifier: []byte("z")},
			b:    Cell{Row: []byte("b"), Qualifier: []byte("a")},
			want: -1,
		},
		"qualifier ascending": {
			a:    Cell{Row: []byte("r"), Qualifier: []byte("q1"), Timestamp: 1},
			b:    Cell{Row: []byte("r"), Qualifier: []byte("q2"), Timestamp: 9},
			want: -1,
		},
		"newest version first": {
			a:    Cell{Row: []byte("r"), Qualifier: []byte("q"), Timestamp: 20},
			b:    Cell{Row: []byte("r"), Qualifier: []byte("q"), Timestamp: 10},
			want: -1,
		},
		"equal": {
			a:    Cell{Row: []byte("r"), Qualifier: []byte("q"), Timestamp: 10},
			b:    Cell{Row: []byte("r"), Qualifier: []byte("q"), Timestamp: 10},
			want: 0,
		},
		"first on row before empty qualifier": {
			a:    FirstOnRow([]byte("r")),
			b:    Cell{Row: []byte("r")},
			want: -1,
		},
		"last on row after everything in row": {
			a:    LastOnRow([]byte("r")),
			b:    Cell{Row: []byte("r"), Qualifier: []byte("\xff\xff\xff")},
			want: 1,
		},
		"last on row before next row": {
			a:    LastOnRow([]byte("r")),
			b:    FirstOnRow([]byte("r\x00")),
			want: -1,
		},
		"last on column after oldest version": {
			a:    LastOnColumn([]byte("r"), []byte("q")),
			b:    Cell{Row: []byte("r"), Qualifier: []byte("q"), Timestamp: 0},
			want: 1,
		},
		"last on column before next qualifier": {
			a:    LastOnColumn([]byte("r"), []byte("q")),
			b:    Cell{Row: []byte("r"), Qualifier: []byte("q\x00"), Timestamp: 100},
			want: -1,
		},
		"first on column before newest version": {
			a:    FirstOnColumn([]byte("r"), []byte("q")),
			b:    Cell{Row: []byte("r"), Qualifier: []byte("q"), Timestamp: 1 << 50},
			want: -1,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			req.Equal(tc.want, Compare(&tc.a, &tc.b))
			req.Equal(-tc.want, Compare(&tc.b, &tc.a))
		})
	}
}

func TestCompare_sortsRowLayout(t *testing.T) {
	t.Parallel()
	cells := []Cell{
		{Row: []byte("r2"), Qualifier: []byte("a"), Timestamp: 1},
		{Row: []byte("r1"), Qualifier: []byte("b"), Timestamp: 5},
		{Row: []byte("r1"), Qualifier: []byte("a"), Timestamp: 1},
		{Row: []byte("r1"), Qualifier: []byte("a"), Timestamp: 3},
	}
	sort.Slice(cells, func(i, j int) bool { return Compare(&cells[i], &cells[j]) < 0 })

	got := make([]string, 0, len(cells))
	for i := range cells {
		got = append(got, cells[i].String())
	}
	require.Equal(t, []string{
		`"r1"/"a"/3`,
		`"r1"/"a"/1`,
		`"r1"/"b"/5`,
		`"r2"/"a"/1`,
	}, got)
}

func TestScanRange_Contains(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		r    ScanRange
		row  string
		want bool
	}{
		"unbounded":                 {r: ScanRange{}, row: "x", want: true},
		"forward start inclusive":   {r: ScanRange{Start: []byte("b")}, row: "b", want: true},
		"forward before start":      {r: ScanRange{Start: []byte("b")}, row: "a", want: false},
		"forward stop exclusive":    {r: ScanRange{Stop: []byte("c")}, row: "c", want: false},
		"forward stop inclusive":    {r: ScanRange{Stop: []byte("c"), IncludeStop: true}, row: "c", want: true},
		"single row":                {r: SingleRow("cf", []byte("r")), row: "r", want: true},
		"single row excludes other": {r: SingleRow("cf", []byte("r")), row: "r\x00", want: false},
		"reverse start inclusive":   {r: ScanRange{Start: []byte("m"), Reverse: true}, row: "m", want: true},
		"reverse above start":       {r: ScanRange{Start: []byte("m"), Reverse: true}, row: "n", want: false},
		"reverse stop exclusive": {
			r: ScanRange{Start: []byte("m"), Stop: []byte("c"), Reverse: true}, row: "c", want: false,
		},
		"reverse inside": {
			r: ScanRange{Start: []byte("m"), Stop: []byte("c"), Reverse: true}, row: "d", want: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.r.Contains([]byte(tc.row)))
		})
	}
}

func TestRow_Append(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	r := NewRow("r1")
	r.Append("cf", &Cell{Row: []byte("r1"), Qualifier: []byte("b"), Timestamp: 2, Value: []byte("v2")})
	r.Append("cf", &Cell{Row: []byte("r1"), Qualifier: []byte("a"), Timestamp: 1, Value: []byte("v1")})
	r.Append("cf", &Cell{Row: []byte("r1"), Qualifier: []byte("b"), Timestamp: 1, Value: []byte("v0")})

	req.Equal([]string{"b", "a"}, r.Qualifiers)
	req.Len(r.Columns["cf"]["b"], 2)
	req.Equal(int64(2), r.Columns["cf"]["b"][0].Timestamp)
}
