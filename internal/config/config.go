// Package config loads the externally supplied constants of spec §6,
// the way the teacher's server/conf package loads my.ini via
// gopkg.in/ini.v1: struct tags carry defaults, a file overrides them.
package config

import "gopkg.in/ini.v1"

// Config holds every externally supplied constant named in spec §6.
type Config struct {
	DataDir              string `ini:"data_dir" default:"./data"`
	BlockSize            int    `ini:"block_size" default:"400"`
	BufferPoolSize       int    `ini:"buffer_pool_size" default:"8"`
	LockTimeoutMs        int    `ini:"lock_timeout_ms" default:"10000"`
	PinTimeoutMs         int    `ini:"pin_timeout_ms" default:"10000"`
	HashBucketCount      int    `ini:"hash_bucket_count" default:"100"`
	MaxIdentifierLength  int    `ini:"max_identifier_length" default:"16"`
	MaxViewDefLength     int    `ini:"max_view_definition_length" default:"100"`
	LogFile              string `ini:"log_file" default:"coredb.log"`
	LogLevel             string `ini:"log_level" default:"info"`
}

// Default returns the configuration with every default applied, as if
// loaded from an empty ini file.
func Default() *Config {
	return &Config{
		DataDir:             "./data",
		BlockSize:           400,
		BufferPoolSize:      8,
		LockTimeoutMs:       10000,
		PinTimeoutMs:        10000,
		HashBucketCount:     100,
		MaxIdentifierLength: 16,
		MaxViewDefLength:    100,
		LogFile:             "coredb.log",
		LogLevel:            "info",
	}
}

// Load reads path as an ini file, falling back to defaults for any key
// it does not set, mirroring server/conf/config.go's default-tag pattern.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	file, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	section := file.Section("")
	if err := section.MapTo(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
