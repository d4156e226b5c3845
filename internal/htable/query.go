package htable

import (
	"bytes"
	"errors"
	"math"

	"github.com/litetable/litetable-htable/internal/litetable"
)

// Query describes one scan over one column family.
type Query struct {
	Family string
	// StartRow is where the scan begins. For a reversed scan it is the largest row returned.
	StartRow []byte
	// StopRow is where the scan ends, exclusive unless StopInclusive is set. For a reversed
	// scan it is the lower bound.
	StopRow       []byte
	StopInclusive bool
	// Qualifiers requested, none means every qualifier.
	Qualifiers [][]byte
	// MaxVersions per qualifier, 0 means 1.
	MaxVersions int32
	// Limit and Offset apply per row: the first Offset matching cells are dropped and at
	// most Limit are returned. A Limit <= 0 is unlimited.
	Limit  int32
	Offset int32
	// MaxResultSize caps the bytes of one result, 0 is unlimited.
	MaxResultSize int64
	// BatchSize caps the cells of one result, 0 is unlimited.
	BatchSize int
	// MinStamp and MaxStamp bound timestamps to [MinStamp, MaxStamp). A zero MaxStamp is unbounded.
	MinStamp int64
	MaxStamp int64
	Reversed bool
	// Filter is a filter string compiled by Init.
	Filter string
}

func (q *Query) validate() error {
	var errGrp []error
	if q.Family == "" {
		errGrp = append(errGrp, newError(ErrInvalidQuery, "family cannot be empty"))
	}
	if q.MaxVersions < 0 {
		errGrp = append(errGrp, newError(ErrInvalidQuery, "max versions must not be negative"))
	}
	if q.Offset < 0 {
		errGrp = append(errGrp, newError(ErrInvalidQuery, "offset must not be negative"))
	}
	if q.BatchSize < 0 {
		errGrp = append(errGrp, newError(ErrInvalidQuery, "batch size must not be negative"))
	}
	if q.MaxResultSize < 0 {
		errGrp = append(errGrp, newError(ErrInvalidQuery, "max result size must not be negative"))
	}
	if q.MaxStamp != 0 && q.MaxStamp <= q.MinStamp {
		errGrp = append(errGrp, newError(ErrInvalidQuery, "empty time range [%d, %d)", q.MinStamp, q.MaxStamp))
	}
	if len(q.StartRow) > 0 && len(q.StopRow) > 0 {
		cmp := bytes.Compare(q.StartRow, q.StopRow)
		if (!q.Reversed && cmp > 0) || (q.Reversed && cmp < 0) {
			errGrp = append(errGrp, newError(ErrInvalidQuery, "start row %q is past stop row %q", q.StartRow, q.StopRow))
		}
	}
	return errors.Join(errGrp...)
}

// scanRange is the range the underlying scan covers.
func (q *Query) scanRange() litetable.ScanRange {
	return litetable.ScanRange{
		Family:      q.Family,
		Start:       q.StartRow,
		Stop:        q.StopRow,
		IncludeStop: q.StopInclusive,
		Reverse:     q.Reversed,
	}
}

func (q *Query) maxVersions() int32 {
	if q.MaxVersions == 0 {
		return 1
	}
	return q.MaxVersions
}

// timeRange returns the half open stamp interval.
func (q *Query) timeRange() (int64, int64) {
	maxStamp := q.MaxStamp
	if maxStamp == 0 {
		maxStamp = math.MaxInt64
	}
	return q.MinStamp, maxStamp
}
