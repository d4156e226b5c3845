package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

const (
	configFileName = "htable.conf"
	homeDirName    = ".litetable"
)

// Config is the contents of htable.conf, a flat key = value file:
//
//	data_dir                = /var/lib/htable
//	metrics_address         = 127.0.0.1
//	metrics_port            = 9464
//	gc_interval             = 300
//	reaper_interval         = 30
//	default_batch_size      = 0
//	default_max_result_size = 2097152
//	descriptor_cache_size   = 1024
//	debug                   = false
type Config struct {
	DataDir        string
	MetricsAddress string
	MetricsPort    int

	// GCInterval is the seconds between badger value log collections.
	GCInterval int
	// ReaperInterval is the seconds between expired row cleanups.
	ReaperInterval int

	DefaultBatchSize     int
	DefaultMaxResultSize int64
	DescriptorCacheSize  int64
	Debug                bool
}

func defaults(dataDir string) *Config {
	return &Config{
		DataDir:              dataDir,
		MetricsAddress:       "127.0.0.1",
		MetricsPort:          9464,
		GCInterval:           300,
		ReaperInterval:       30,
		DefaultMaxResultSize: 2 << 20,
		DescriptorCacheSize:  1024,
	}
}

// homeDir is ~/.litetable, where htable.conf and the data live unless configured otherwise.
func homeDir() (string, error) {
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(userHome, homeDirName), nil
}

// NewConfig reads htable.conf from ~/.litetable. A missing file means defaults.
func NewConfig() (*Config, error) {
	liteTableDir, err := homeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(liteTableDir, configFileName)
	if _, err = os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return defaults(liteTableDir), nil
	}
	return load(configPath, liteTableDir)
}

// Load reads the config file at path, which must exist.
func Load(path string) (*Config, error) {
	return load(path, filepath.Dir(path))
}

func load(path, dataDir string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	cfg := defaults(dataDir)
	section := file.Section(ini.DefaultSection)

	cfg.DataDir = section.Key("data_dir").MustString(cfg.DataDir)
	cfg.MetricsAddress = section.Key("metrics_address").MustString(cfg.MetricsAddress)
	cfg.Debug = section.Key("debug").MustBool(false)

	var errGrp []error
	intKey := func(name string, into *int) {
		if !section.HasKey(name) {
			return
		}
		v, err := section.Key(name).Int()
		if err != nil {
			errGrp = append(errGrp, fmt.Errorf("invalid %s value: %w", name, err))
			return
		}
		*into = v
	}
	int64Key := func(name string, into *int64) {
		if !section.HasKey(name) {
			return
		}
		v, err := section.Key(name).Int64()
		if err != nil {
			errGrp = append(errGrp, fmt.Errorf("invalid %s value: %w", name, err))
			return
		}
		*into = v
	}

	intKey("metrics_port", &cfg.MetricsPort)
	intKey("gc_interval", &cfg.GCInterval)
	intKey("reaper_interval", &cfg.ReaperInterval)
	intKey("default_batch_size", &cfg.DefaultBatchSize)
	int64Key("default_max_result_size", &cfg.DefaultMaxResultSize)
	int64Key("descriptor_cache_size", &cfg.DescriptorCacheSize)

	if err = errors.Join(errGrp...); err != nil {
		return nil, err
	}
	return cfg, nil
}
