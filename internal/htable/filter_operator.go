package htable

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/litetable/litetable-htable/internal/hfilter"
	"github.com/litetable/litetable-htable/internal/litetable"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// FilterOperator runs one scan session: it compiles the filter, opens the row iterator
// for the scan direction and hands out results page by page. It is not safe for
// concurrent use.
type FilterOperator struct {
	query    *Query
	source   ScanSource
	recorder ExpiryRecorder
	now      func() time.Time

	retention   ColumnDescriptor
	maxVersions int32

	filter    hfilter.Filter
	filterSet bool

	iter    *RowIterator
	session string
	logger  zerolog.Logger
}

type Config struct {
	Query  *Query
	Source ScanSource
	// Descriptor holds the TTL and max versions of the scanned family.
	Descriptor ColumnDescriptor
	// Recorder is optional, it receives rows seen holding expired data.
	Recorder ExpiryRecorder
	// Now is optional, it defaults to time.Now.
	Now func() time.Time
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Query == nil {
		errGrp = append(errGrp, errors.New("query cannot be nil"))
	} else if err := c.Query.validate(); err != nil {
		errGrp = append(errGrp, err)
	}
	if c.Source == nil {
		errGrp = append(errGrp, errors.New("source cannot be nil"))
	}
	if err := c.Descriptor.validate(); err != nil {
		errGrp = append(errGrp, err)
	}
	return errors.Join(errGrp...)
}

// New creates a FilterOperator. Nothing is read until Init.
func New(cfg *Config) (*FilterOperator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	maxVersions := cfg.Query.maxVersions()
	if kept := cfg.Descriptor.MaxVersions; kept > 0 && kept < maxVersions {
		maxVersions = kept
	}

	session := uuid.NewString()
	return &FilterOperator{
		query:       cfg.Query,
		source:      cfg.Source,
		recorder:    cfg.Recorder,
		now:         now,
		retention:   cfg.Descriptor,
		maxVersions: maxVersions,
		session:     session,
		logger: log.With().
			Str("session", session).
			Str("family", cfg.Query.Family).
			Logger(),
	}, nil
}

// Session identifies the scan in logs.
func (op *FilterOperator) Session() string {
	return op.session
}

// Init compiles the filter string, unless SetFilter already supplied one, and opens the
// scan. Calling it again is a no-op.
func (op *FilterOperator) Init() error {
	if op.iter != nil {
		return nil
	}

	if !op.filterSet {
		f, err := hfilter.Parse(op.query.Filter, hfilter.Options{
			Reversed: op.query.Reversed,
			Family:   op.query.Family,
		})
		if err != nil {
			return err
		}
		op.filter = f
	}

	iter, err := openRowIterator(op.source, op.query, op.limits(), op.filter)
	if err != nil {
		return err
	}
	iter.setRecorder(op.recorder, op.retention)
	op.iter = iter

	op.logger.Debug().
		Bool("reversed", op.query.Reversed).
		Int32("maxVersions", op.maxVersions).
		Int32("ttl", op.retention.TimeToLive).
		Str("filter", op.query.Filter).
		Msg("scan initialized")
	return nil
}

func (op *FilterOperator) limits() versionLimits {
	return newVersionLimits(op.maxVersions, op.retention.TimeToLive, op.now().UnixMilli())
}

// GetNextResult returns the next page of the scan, or litetable.ErrIterEnd once there is
// nothing left. On error the scan must be abandoned.
func (op *FilterOperator) GetNextResult() (*Result, error) {
	if op.iter == nil {
		return nil, ErrNotInitialized
	}

	res := &Result{family: op.query.Family}
	if err := op.iter.next(res); err != nil {
		op.logger.Error().Err(err).Msg("scan failed")
		return nil, err
	}

	if res.Len() == 0 && !op.iter.hasMore() {
		op.logger.Debug().Msg("scan exhausted")
		return nil, litetable.ErrIterEnd
	}
	return res, nil
}

// HasMoreResult reports whether GetNextResult may still return cells. It only looks.
func (op *FilterOperator) HasMoreResult() bool {
	return op.iter != nil && op.iter.hasMore()
}

// SetTTL overrides the family TTL in seconds, 0 disables expiry.
func (op *FilterOperator) SetTTL(seconds int32) {
	op.retention.TimeToLive = seconds
	if op.iter != nil {
		op.iter.matcher.tracker.setLimits(op.limits())
		op.iter.retention.TimeToLive = seconds
	}
}

// SetMaxVersion overrides the number of versions returned per qualifier.
func (op *FilterOperator) SetMaxVersion(n int32) {
	op.maxVersions = n
	if op.iter != nil {
		op.iter.matcher.tracker.setLimits(op.limits())
	}
}

// SetFilter replaces the compiled filter. Before Init it takes the place of the query's
// filter string.
func (op *FilterOperator) SetFilter(f hfilter.Filter) error {
	if op.iter != nil {
		if err := op.iter.setFilter(f); err != nil {
			return err
		}
	}
	op.filter = f
	op.filterSet = true
	return nil
}

// Close releases the underlying scan.
func (op *FilterOperator) Close() error {
	if op.iter == nil {
		return nil
	}
	err := op.iter.close()
	op.iter = nil
	op.logger.Debug().Msg("scan closed")
	return err
}
