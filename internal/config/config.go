package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Store backends accepted by Config.Store.
const (
	StoreMemory   = "memory"
	StoreLevelDB  = "leveldb"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	Contract     string
	Store        string
	StorePath    string
	PGDSN        string
	Ledger       uint32
	RPCURL       string
	Journal      string
	MetricsFile  string
	MaxRetries   int
	RetryBackoff time.Duration
	LogLevel     string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PAIRCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("store", StoreLevelDB)
	v.SetDefault("store-path", "./data/pairstate")
	v.SetDefault("ledger", uint32(1))
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		Contract:     strings.TrimSpace(v.GetString("contract")),
		Store:        strings.ToLower(strings.TrimSpace(v.GetString("store"))),
		StorePath:    v.GetString("store-path"),
		PGDSN:        v.GetString("pg-dsn"),
		Ledger:       v.GetUint32("ledger"),
		RPCURL:       v.GetString("rpc"),
		Journal:      v.GetString("journal"),
		MetricsFile:  v.GetString("metrics-file"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		LogLevel:     v.GetString("log-level"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the selected store backend has what it needs.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StoreLevelDB, StoreSQLite:
		if c.StorePath == "" {
			return fmt.Errorf("store-path is required for %s store", c.Store)
		}
	case StorePostgres:
		if c.PGDSN == "" {
			return fmt.Errorf("pg-dsn is required for postgres store")
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max-retries must not be negative")
	}
	return nil
}

// ParseAddress converts a hex string into common.Address.
func ParseAddress(input string) (common.Address, error) {
	input = strings.TrimSpace(input)
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("invalid address: %q", input)
	}
	return common.HexToAddress(input), nil
}
