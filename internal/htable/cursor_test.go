package htable

import (
	"errors"
	"testing"

	"github.com/litetable/litetable-htable/internal/litetable"
	"github.com/stretchr/testify/require"
)

// walk reads every cell left under the cursor.
func walk(t *testing.T, cur cursor) []string {
	t.Helper()
	var out []string
	for {
		c, err := cur.current()
		if errors.Is(err, litetable.ErrIterEnd) {
			return out
		}
		require.NoError(t, err)
		out = append(out, keyOf(c))
		require.NoError(t, cur.advance())
	}
}

func TestPeekScanner_seek(t *testing.T) {
	t.Parallel()

	data := cells("r1/a/5", "r1/a/4", "r1/a/3", "r1/a/2", "r1/a/1", "r1/a/0", "r1/b/1", "r2/a/1")

	tests := map[string]struct {
		key         litetable.Cell
		wantSkipped int
		wantSeeks   int
		wantNext    string
	}{
		"already there": {
			key:         litetable.FirstOnRow([]byte("r1")),
			wantSkipped: 0,
			wantNext:    "r1/a/5",
		},
		"short hop is stepped": {
			key:         kv("r1/a/2", ""),
			wantSkipped: 3,
			wantNext:    "r1/a/2",
		},
		"long hop seeks": {
			key:         litetable.LastOnColumn([]byte("r1"), []byte("a")),
			wantSkipped: seekStepLimit + 1,
			wantSeeks:   1,
			wantNext:    "r1/b/1",
		},
		"next row": {
			key:         litetable.LastOnRow([]byte("r1")),
			wantSkipped: seekStepLimit + 1,
			wantSeeks:   1,
			wantNext:    "r2/a/1",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			src := newMemSource(append([]litetable.Cell(nil), data...)...)
			s, err := src.Open(litetable.ScanRange{Family: "cf"})
			req.NoError(err)

			cur := newForwardCursor(s)
			skipped, err := cur.seek(tc.key)
			req.NoError(err)
			req.Equal(tc.wantSkipped, skipped)
			req.Equal(tc.wantSeeks, src.seeks)

			c, err := cur.current()
			req.NoError(err)
			req.Equal(tc.wantNext, keyOf(c))
		})
	}
}

func TestPeekScanner_seekPastEnd(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	src := newMemSource(cells("r1/a/1")...)
	s, err := src.Open(litetable.ScanRange{Family: "cf"})
	req.NoError(err)

	cur := newForwardCursor(s)
	_, err = cur.seek(litetable.LastOnRow([]byte("r1")))
	req.NoError(err)
	_, err = cur.current()
	req.ErrorIs(err, litetable.ErrIterEnd)
	req.NoError(cur.advance())
	_, err = cur.current()
	req.ErrorIs(err, litetable.ErrIterEnd)
}

func TestRowWindow(t *testing.T) {
	t.Parallel()

	data := func() []litetable.Cell {
		return cells("r1/a/1", "r1/b/2", "r1/b/1", "r2/a/1", "r3/a/2", "r3/c/1")
	}

	t.Run("rows descend, cells ascend", func(t *testing.T) {
		req := require.New(t)
		src := newMemSource(data()...)
		outer, err := src.Open(litetable.ScanRange{Family: "cf", Reverse: true})
		req.NoError(err)

		w := newRowWindow(src, "cf", outer)
		req.Equal([]string{"r3/a/2", "r3/c/1", "r2/a/1", "r1/a/1", "r1/b/2", "r1/b/1"}, walk(t, w))
		// one reverse scan plus one forward scan per row
		req.Equal(4, src.opens)
		req.NoError(w.close())
	})

	t.Run("skip row moves down", func(t *testing.T) {
		req := require.New(t)
		src := newMemSource(data()...)
		outer, err := src.Open(litetable.ScanRange{Family: "cf", Reverse: true, Start: []byte("r3")})
		req.NoError(err)

		w := newRowWindow(src, "cf", outer)
		c, err := w.current()
		req.NoError(err)
		req.Equal("r3/a/2", keyOf(c))

		req.NoError(w.skipRow([]byte("r3")))
		c, err = w.current()
		req.NoError(err)
		req.Equal("r2/a/1", keyOf(c))
	})

	t.Run("seek within the row", func(t *testing.T) {
		req := require.New(t)
		src := newMemSource(data()...)
		outer, err := src.Open(litetable.ScanRange{Family: "cf", Reverse: true, Start: []byte("r1")})
		req.NoError(err)

		w := newRowWindow(src, "cf", outer)
		_, err = w.current()
		req.NoError(err)

		skipped, err := w.seek(litetable.FirstOnColumn([]byte("r1"), []byte("b")))
		req.NoError(err)
		req.Equal(1, skipped)
		req.Equal([]string{"r1/b/2", "r1/b/1"}, walk(t, w))
	})

	t.Run("seek into an earlier row", func(t *testing.T) {
		req := require.New(t)
		src := newMemSource(data()...)
		outer, err := src.Open(litetable.ScanRange{Family: "cf", Reverse: true})
		req.NoError(err)

		w := newRowWindow(src, "cf", outer)
		_, err = w.current()
		req.NoError(err)

		_, err = w.seek(litetable.FirstOnColumn([]byte("r1"), []byte("b")))
		req.NoError(err)
		req.Equal([]string{"r1/b/2", "r1/b/1"}, walk(t, w))
	})

	t.Run("seek to a missing earlier row lands on the one below", func(t *testing.T) {
		req := require.New(t)
		src := newMemSource(data()...)
		outer, err := src.Open(litetable.ScanRange{Family: "cf", Reverse: true})
		req.NoError(err)

		w := newRowWindow(src, "cf", outer)
		_, err = w.current()
		req.NoError(err)

		_, err = w.seek(litetable.FirstOnRow([]byte("r15")))
		req.NoError(err)
		c, err := w.current()
		req.NoError(err)
		req.Equal("r1/a/1", keyOf(c))
	})

	t.Run("lower bound ends the walk", func(t *testing.T) {
		req := require.New(t)
		src := newMemSource(data()...)
		outer, err := src.Open(litetable.ScanRange{Family: "cf", Reverse: true, Start: []byte("r3"), Stop: []byte("r1")})
		req.NoError(err)

		w := newRowWindow(src, "cf", outer)
		req.Equal([]string{"r3/a/2", "r3/c/1", "r2/a/1"}, walk(t, w))
	})
}
