package reaper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/litetable/litetable-htable/internal/htable"
	"github.com/litetable/litetable-htable/internal/metrics"
	"github.com/rs/zerolog/log"
)

//go:generate mockgen -destination=./reaper_mock.go -package=reaper -source=reaper.go

const (
	reaperFile    = ".reaper.gc.log"
	collectorSize = 10000
)

type store interface {
	Descriptor(family string) (htable.ColumnDescriptor, error)
	CompactRow(family string, row []byte, d htable.ColumnDescriptor, now time.Time) (int, error)
}

var _ htable.ExpiryRecorder = (*Reaper)(nil)

// Reaper collects the rows scans saw holding expired data and removes that data from the
// store in the background. Records go to an append only log first, so a restart does not
// lose them.
type Reaper struct {
	filePath  string
	collector chan htable.ExpiredRow
	storage   store
	now       func() time.Time

	mutex        sync.Mutex
	reapInterval time.Duration

	procCtx context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

type Config struct {
	Path       string
	Storage    store
	GCInterval int
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Path == "" {
		errGrp = append(errGrp, errors.New("directory path cannot be empty"))
	}
	if c.Storage == nil {
		errGrp = append(errGrp, errors.New("storage cannot be nil"))
	}
	if c.GCInterval <= 0 {
		errGrp = append(errGrp, errors.New("GCInterval must be greater than 0"))
	}
	return errors.Join(errGrp...)
}

// New creates a new Reaper.
func New(cfg *Config) (*Reaper, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Reaper{
		filePath:     filepath.Join(cfg.Path, reaperFile),
		collector:    make(chan htable.ExpiredRow, collectorSize),
		storage:      cfg.Storage,
		now:          time.Now,
		reapInterval: time.Duration(cfg.GCInterval) * time.Second,
		procCtx:      ctx,
		cancel:       cancel,
	}, nil
}

// Record queues row for cleanup. It never blocks: when the queue is full the row is
// dropped, a later scan will see it again.
func (r *Reaper) Record(row htable.ExpiredRow) {
	if r.procCtx.Err() != nil {
		return
	}

	select {
	case r.collector <- row:
		metrics.ExpiredRows.WithLabelValues(string(row.Reason), "queued").Inc()
	default:
		metrics.ExpiredRows.WithLabelValues(string(row.Reason), "dropped").Inc()
		log.Error().
			Str("family", row.Family).
			Str("rowKey", row.RowKey).
			Msg("reaper queue is full, dropping expired row")
	}
}

func (r *Reaper) Start() error {
	if err := r.verifyLogFile(); err != nil {
		return err
	}

	r.done = make(chan struct{})
	go func() {
		defer close(r.done)

		ticker := time.NewTicker(r.reapInterval)
		defer ticker.Stop()
		for {
			select {
			case <-r.procCtx.Done():
				r.drain()
				return
			case row := <-r.collector:
				if err := r.write(row); err != nil {
					log.Error().Err(err).Msg("failed to write expired row to GC log")
				}
			case <-ticker.C:
				r.garbageCollector()
			}
		}
	}()
	return nil
}

// drain writes whatever is still queued so the next start picks it up.
func (r *Reaper) drain() {
	for {
		select {
		case row := <-r.collector:
			if err := r.write(row); err != nil {
				log.Error().Err(err).Msg("failed to write expired row to GC log")
			}
		default:
			return
		}
	}
}

func (r *Reaper) Stop() error {
	if r.cancel != nil {
		r.cancel()
	}
	if r.done != nil {
		<-r.done
	}
	return nil
}

func (r *Reaper) Name() string {
	return "Reaper"
}

// verifyLogFile checks if the log file exists, and creates it if it doesn't.
func (r *Reaper) verifyLogFile() error {
	_, err := os.Stat(r.filePath)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}

	file, err := os.Create(r.filePath)
	if err != nil {
		return err
	}
	return file.Close()
}
