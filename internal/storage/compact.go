package storage

import (
	"bytes"
	"errors"
	"math"
	"time"

	"github.com/litetable/litetable-htable/internal/htable"
	"github.com/litetable/litetable-htable/internal/litetable"
)

// CompactRow deletes the cells of one row that d no longer keeps: versions older than the
// time to live, and versions past the newest MaxVersions of each qualifier. It returns how
// many cells were removed.
func (m *Manager) CompactRow(family string, row []byte, d htable.ColumnDescriptor, now time.Time) (int, error) {
	if d.TimeToLive <= 0 && d.MaxVersions <= 0 {
		return 0, nil
	}

	oldest := int64(math.MinInt64)
	if d.TimeToLive > 0 {
		oldest = now.UnixMilli() - int64(d.TimeToLive)*1000
	}

	s, err := m.Open(litetable.SingleRow(family, row))
	if err != nil {
		return 0, err
	}

	var (
		dead      []litetable.Cell
		qualifier []byte
		versions  int32
	)
	for {
		c, err := s.Next()
		if errors.Is(err, litetable.ErrIterEnd) {
			break
		}
		if err != nil {
			_ = s.Close()
			return 0, err
		}

		if qualifier == nil || !bytes.Equal(qualifier, c.Qualifier) {
			qualifier = bytes.Clone(c.Qualifier)
			versions = 0
		}
		versions++

		if c.Timestamp < oldest || (d.MaxVersions > 0 && versions > d.MaxVersions) {
			dead = append(dead, litetable.Cell{Row: c.Row, Qualifier: c.Qualifier, Timestamp: c.Timestamp})
		}
	}
	if err = s.Close(); err != nil {
		return 0, err
	}

	if len(dead) == 0 {
		return 0, nil
	}
	return len(dead), m.Delete(family, dead...)
}
