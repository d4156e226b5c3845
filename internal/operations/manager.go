package operations

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/litetable/litetable-htable/internal/htable"
	"github.com/litetable/litetable-htable/internal/litetable"
)

//go:generate mockgen -destination=manager_mock.go -package=operations -source=manager.go

type storageManager interface {
	htable.ScanSource
	Put(family string, cells ...litetable.Cell) error
	Delete(family string, cells ...litetable.Cell) error
	CreateFamily(family, attributes string) error
	Descriptor(family string) (htable.ColumnDescriptor, error)
}

type garbageCollector interface {
	Record(row htable.ExpiredRow)
}

// Manager runs reads and mutations against the store. Reads are scan sessions driven by
// a htable.FilterOperator.
type Manager struct {
	storage          storageManager
	garbageCollector garbageCollector
	descriptors      *ristretto.Cache
	now              func() time.Time

	defaultBatchSize     int
	defaultMaxResultSize int64
}

type Config struct {
	Storage storageManager
	// GarbageCollector is optional, scans record rows with expired data into it.
	GarbageCollector garbageCollector
	// DescriptorCacheSize is the number of column family descriptors kept in memory.
	DescriptorCacheSize int64
	// DefaultBatchSize and DefaultMaxResultSize apply to reads that do not set their own.
	DefaultBatchSize     int
	DefaultMaxResultSize int64
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Storage == nil {
		errGrp = append(errGrp, errors.New("storage cannot be nil"))
	}
	if c.DescriptorCacheSize <= 0 {
		errGrp = append(errGrp, errors.New("descriptor cache size must be greater than 0"))
	}
	if c.DefaultBatchSize < 0 {
		errGrp = append(errGrp, errors.New("default batch size must not be negative"))
	}
	if c.DefaultMaxResultSize < 0 {
		errGrp = append(errGrp, errors.New("default max result size must not be negative"))
	}
	return errors.Join(errGrp...)
}

// New creates a new operations manager
func New(cfg *Config) (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.DescriptorCacheSize * 10,
		MaxCost:     cfg.DescriptorCacheSize,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create descriptor cache: %w", err)
	}

	return &Manager{
		storage:              cfg.Storage,
		garbageCollector:     cfg.GarbageCollector,
		descriptors:          cache,
		now:                  time.Now,
		defaultBatchSize:     cfg.DefaultBatchSize,
		defaultMaxResultSize: cfg.DefaultMaxResultSize,
	}, nil
}
