package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/litetable/litetable-htable/internal/litetable"
	"github.com/rs/zerolog/log"
)

const (
	dataDirName = ".table"
	// gcDiscardRatio is the share of stale data a value log file needs before badger
	// rewrites it.
	gcDiscardRatio = 0.5
)

// Manager owns the badger database holding every column family.
type Manager struct {
	db         *badger.DB
	gcInterval time.Duration

	procCtx   context.Context
	ctxCancel context.CancelFunc
}

type Config struct {
	RootDir string
	// InMemory keeps everything in memory, RootDir is ignored.
	InMemory bool
	// GCInterval is how often, in seconds, the value log is garbage collected.
	GCInterval int
}

func (c *Config) validate() error {
	var errGrp []error
	if c.RootDir == "" && !c.InMemory {
		errGrp = append(errGrp, errors.New("data directory is required"))
	}
	if c.GCInterval <= 0 {
		errGrp = append(errGrp, errors.New("gc interval must be greater than 0"))
	}
	return errors.Join(errGrp...)
}

// New opens the store. It is ready for reads and writes before Start is called.
func New(cfg *Config) (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions("").WithInMemory(true)
	if !cfg.InMemory {
		dir := filepath.Join(cfg.RootDir, dataDirName)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		opts = badger.DefaultOptions(dir)
	}

	db, err := badger.Open(opts.WithLogger(badgerLogger{}))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		db:         db,
		gcInterval: time.Duration(cfg.GCInterval) * time.Second,
		procCtx:    ctx,
		ctxCancel:  cancel,
	}, nil
}

// Start runs value log garbage collection in the background.
func (m *Manager) Start() error {
	go func() {
		ticker := time.NewTicker(m.gcInterval)
		defer ticker.Stop()

		for {
			select {
			case <-m.procCtx.Done():
				return
			case <-ticker.C:
				m.runValueLogGC()
			}
		}
	}()
	return nil
}

// runValueLogGC rewrites value log files until badger finds nothing left worth rewriting.
func (m *Manager) runValueLogGC() {
	var rewritten int
	for {
		err := m.db.RunValueLogGC(gcDiscardRatio)
		if err == nil {
			rewritten++
			continue
		}
		if !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrGCInMemoryMode) {
			log.Error().Err(err).Msg("value log gc failed")
		}
		break
	}
	if rewritten > 0 {
		log.Debug().Int("files", rewritten).Msg("value log gc complete")
	}
}

func (m *Manager) Stop() error {
	if m.ctxCancel != nil {
		m.ctxCancel()
	}
	return m.db.Close()
}

func (m *Manager) Name() string {
	return "Badger Storage"
}

// Put writes cells into family. A cell with the same row, qualifier and timestamp as a
// stored one replaces it.
func (m *Manager) Put(family string, cells ...litetable.Cell) error {
	if family == "" {
		return newError(ErrInvalidFamily, "family is required")
	}

	wb := m.db.NewWriteBatch()
	defer wb.Cancel()

	for i := range cells {
		c := &cells[i]
		if len(c.Row) == 0 {
			return newError(ErrInvalidCell, "row key is required")
		}
		if err := wb.Set(cellKey(family, c.Row, c.Qualifier, c.Timestamp), c.Value); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// Delete removes the exact versions named by cells from family. Values are ignored.
func (m *Manager) Delete(family string, cells ...litetable.Cell) error {
	if family == "" {
		return newError(ErrInvalidFamily, "family is required")
	}

	wb := m.db.NewWriteBatch()
	defer wb.Cancel()

	for i := range cells {
		c := &cells[i]
		if err := wb.Delete(cellKey(family, c.Row, c.Qualifier, c.Timestamp)); err != nil {
			return err
		}
	}
	return wb.Flush()
}
