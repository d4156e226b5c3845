package storage

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/litetable/litetable-htable/internal/htable"
	"github.com/litetable/litetable-htable/internal/litetable"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := New(&Config{InMemory: true, GCInterval: 60})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = m.Stop()
	})
	return m
}

func cell(row, qualifier string, ts int64, value string) litetable.Cell {
	return litetable.Cell{
		Row:       []byte(row),
		Qualifier: []byte(qualifier),
		Timestamp: ts,
		Value:     []byte(value),
	}
}

func seed(t *testing.T, m *Manager) {
	t.Helper()
	require.NoError(t, m.Put("cf",
		cell("r1", "a", 2, "r1a2"),
		cell("r1", "a", 1, "r1a1"),
		cell("r1", "b", 1, "r1b1"),
		cell("r2", "a", 1, "r2a1"),
		cell("r3", "a", 3, "r3a3"),
		cell("r3", "c", 1, "r3c1"),
	))
	// another family must never leak into scans of cf
	require.NoError(t, m.Put("cg", cell("r2", "z", 1, "other")))
}

func drain(t *testing.T, s htable.CellScanner) []string {
	t.Helper()
	var out []string
	for {
		c, err := s.Next()
		if errors.Is(err, litetable.ErrIterEnd) {
			return out
		}
		require.NoError(t, err)
		out = append(out, fmt.Sprintf("%s/%s/%d=%s", c.Row, c.Qualifier, c.Timestamp, c.Value))
	}
}

func TestManager_Open(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	seed(t, m)

	tests := map[string]struct {
		r    litetable.ScanRange
		want []string
	}{
		"whole family": {
			r:    litetable.ScanRange{Family: "cf"},
			want: []string{"r1/a/2=r1a2", "r1/a/1=r1a1", "r1/b/1=r1b1", "r2/a/1=r2a1", "r3/a/3=r3a3", "r3/c/1=r3c1"},
		},
		"start inclusive stop exclusive": {
			r:    litetable.ScanRange{Family: "cf", Start: []byte("r2"), Stop: []byte("r3")},
			want: []string{"r2/a/1=r2a1"},
		},
		"inclusive stop": {
			r:    litetable.ScanRange{Family: "cf", Start: []byte("r2"), Stop: []byte("r3"), IncludeStop: true},
			want: []string{"r2/a/1=r2a1", "r3/a/3=r3a3", "r3/c/1=r3c1"},
		},
		"single row": {
			r:    litetable.SingleRow("cf", []byte("r1")),
			want: []string{"r1/a/2=r1a2", "r1/a/1=r1a1", "r1/b/1=r1b1"},
		},
		"reverse whole family": {
			r:    litetable.ScanRange{Family: "cf", Reverse: true},
			want: []string{"r3/c/1=r3c1", "r3/a/3=r3a3", "r2/a/1=r2a1", "r1/b/1=r1b1", "r1/a/1=r1a1", "r1/a/2=r1a2"},
		},
		"reverse bounded": {
			r:    litetable.ScanRange{Family: "cf", Reverse: true, Start: []byte("r2"), Stop: []byte("r1")},
			want: []string{"r2/a/1=r2a1"},
		},
		"reverse inclusive stop": {
			r:    litetable.ScanRange{Family: "cf", Reverse: true, Start: []byte("r2"), Stop: []byte("r1"), IncludeStop: true},
			want: []string{"r2/a/1=r2a1", "r1/b/1=r1b1", "r1/a/1=r1a1", "r1/a/2=r1a2"},
		},
		"unknown family": {
			r: litetable.ScanRange{Family: "nope"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			s, err := m.Open(tc.r)
			req.NoError(err)
			req.Equal(tc.want, drain(t, s))
			req.NoError(s.Close())
		})
	}
}

func TestScanner_Seek(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	seed(t, m)

	tests := map[string]struct {
		r    litetable.ScanRange
		key  litetable.Cell
		want []string
	}{
		"forward to a column": {
			r:    litetable.ScanRange{Family: "cf"},
			key:  litetable.LastOnColumn([]byte("r1"), []byte("a")),
			want: []string{"r1/b/1=r1b1", "r2/a/1=r2a1", "r3/a/3=r3a3", "r3/c/1=r3c1"},
		},
		"forward to the next row": {
			r:    litetable.ScanRange{Family: "cf"},
			key:  litetable.LastOnRow([]byte("r2")),
			want: []string{"r3/a/3=r3a3", "r3/c/1=r3c1"},
		},
		"forward to a missing row": {
			r:    litetable.ScanRange{Family: "cf"},
			key:  litetable.FirstOnRow([]byte("r15")),
			want: []string{"r2/a/1=r2a1", "r3/a/3=r3a3", "r3/c/1=r3c1"},
		},
		"forward before the range is clamped": {
			r:    litetable.ScanRange{Family: "cf", Start: []byte("r2")},
			key:  litetable.FirstOnRow([]byte("r1")),
			want: []string{"r2/a/1=r2a1", "r3/a/3=r3a3", "r3/c/1=r3c1"},
		},
		"forward past the range": {
			r:   litetable.ScanRange{Family: "cf", Stop: []byte("r2")},
			key: litetable.FirstOnRow([]byte("r3")),
		},
		"reverse lands at or before": {
			r:    litetable.ScanRange{Family: "cf", Reverse: true},
			key:  litetable.FirstOnRow([]byte("r3")),
			want: []string{"r2/a/1=r2a1", "r1/b/1=r1b1", "r1/a/1=r1a1", "r1/a/2=r1a2"},
		},
		"reverse to the end of a row": {
			r:    litetable.ScanRange{Family: "cf", Reverse: true},
			key:  litetable.LastOnRow([]byte("r1")),
			want: []string{"r1/b/1=r1b1", "r1/a/1=r1a1", "r1/a/2=r1a2"},
		},
		"reverse above the range is clamped": {
			r:    litetable.ScanRange{Family: "cf", Reverse: true, Start: []byte("r2")},
			key:  litetable.LastOnRow([]byte("r9")),
			want: []string{"r2/a/1=r2a1", "r1/b/1=r1b1", "r1/a/1=r1a1", "r1/a/2=r1a2"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			s, err := m.Open(tc.r)
			req.NoError(err)
			defer s.Close()

			// read one cell first so the seek moves an iterator that is already going
			_, err = s.Next()
			req.NoError(err)

			req.NoError(s.Seek(tc.key))
			req.Equal(tc.want, drain(t, s))
		})
	}
}

func TestScanner_snapshotAndClose(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	m := newTestManager(t)
	seed(t, m)

	s, err := m.Open(litetable.SingleRow("cf", []byte("r2")))
	req.NoError(err)

	req.NoError(m.Put("cf", cell("r2", "b", 1, "late")))
	req.Equal([]string{"r2/a/1=r2a1"}, drain(t, s))

	req.NoError(s.Close())
	req.NoError(s.Close())
	_, err = s.Next()
	req.ErrorIs(err, litetable.ErrIterEnd)
}

func TestManager_PutAndDelete(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	m := newTestManager(t)
	req.ErrorIs(m.Put("", cell("r", "q", 1, "v")), ErrInvalidFamily)
	req.ErrorIs(m.Put("cf", cell("", "q", 1, "v")), ErrInvalidCell)

	req.NoError(m.Put("cf", cell("r", "q", 1, "v1"), cell("r", "q", 2, "v2")))
	req.NoError(m.Put("cf", cell("r", "q", 1, "v1b")))
	req.NoError(m.Delete("cf", litetable.Cell{Row: []byte("r"), Qualifier: []byte("q"), Timestamp: 2}))

	s, err := m.Open(litetable.ScanRange{Family: "cf"})
	req.NoError(err)
	defer s.Close()
	req.Equal([]string{"r/q/1=v1b"}, drain(t, s))
}

func TestManager_families(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	m := newTestManager(t)

	_, err := m.Descriptor("cf")
	req.ErrorIs(err, ErrFamilyNotFound)

	req.ErrorIs(m.CreateFamily(" ", ""), ErrInvalidFamily)
	req.ErrorIs(m.CreateFamily("cf", `{"Hbase":{"TimeToLive":-1}}`), htable.ErrInvalidDescriptor)

	req.NoError(m.CreateFamily("cf", `{"Hbase":{"TimeToLive":60,"MaxVersions":2}}`))
	req.NoError(m.CreateFamily("bare", ""))

	d, err := m.Descriptor("cf")
	req.NoError(err)
	req.Equal(htable.ColumnDescriptor{TimeToLive: 60, MaxVersions: 2}, d)

	d, err = m.Descriptor("bare")
	req.NoError(err)
	req.Equal(htable.ColumnDescriptor{}, d)

	req.NoError(m.CreateFamily("cf", `{"Hbase":{"MaxVersions":5}}`))
	d, err = m.Descriptor("cf")
	req.NoError(err)
	req.Equal(int32(5), d.MaxVersions)
	req.Equal(int32(0), d.TimeToLive)

	families, err := m.Families()
	req.NoError(err)
	req.Equal([]string{"bare", "cf"}, families)
}

func TestManager_CompactRow(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_000_000)

	tests := map[string]struct {
		d           htable.ColumnDescriptor
		wantRemoved int
		want        []string
	}{
		"nothing to enforce": {
			want: []string{"r/a/999000=new", "r/a/998000=mid", "r/a/500000=old", "r/b/100=ancient"},
		},
		"max versions": {
			d:           htable.ColumnDescriptor{MaxVersions: 1},
			wantRemoved: 2,
			want:        []string{"r/a/999000=new", "r/b/100=ancient"},
		},
		"ttl": {
			d:           htable.ColumnDescriptor{TimeToLive: 10},
			wantRemoved: 2,
			want:        []string{"r/a/999000=new", "r/a/998000=mid"},
		},
		"both": {
			d:           htable.ColumnDescriptor{TimeToLive: 10, MaxVersions: 1},
			wantRemoved: 3,
			want:        []string{"r/a/999000=new"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			m := newTestManager(t)
			req.NoError(m.Put("cf",
				cell("r", "a", 999_000, "new"),
				cell("r", "a", 998_000, "mid"),
				cell("r", "a", 500_000, "old"),
				cell("r", "b", 100, "ancient"),
				cell("s", "a", 1, "other row"),
			))

			removed, err := m.CompactRow("cf", []byte("r"), tc.d, now)
			req.NoError(err)
			req.Equal(tc.wantRemoved, removed)

			s, err := m.Open(litetable.SingleRow("cf", []byte("r")))
			req.NoError(err)
			defer s.Close()
			req.Equal(tc.want, drain(t, s))

			other, err := m.Open(litetable.SingleRow("cf", []byte("s")))
			req.NoError(err)
			defer other.Close()
			req.Len(drain(t, other), 1)
		})
	}
}

func TestConfig_validate(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	_, err := New(&Config{})
	req.Error(err)
	req.Contains(err.Error(), "data directory is required")
	req.Contains(err.Error(), "gc interval must be greater than 0")
}
