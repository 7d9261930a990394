package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "pairctl",
		Short:        "Initialize and inspect liquidity pair instances",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file path")
	flags.String("store", "leveldb", "instance store backend (memory, leveldb, postgres, sqlite)")
	flags.String("store-path", "./data/pairstate", "leveldb directory or sqlite file")
	flags.String("pg-dsn", "", "Postgres DSN")
	flags.Uint32("ledger", 1, "static ledger sequence used when no RPC is configured")
	flags.String("rpc", "", "RPC URL; the latest block number becomes the ledger sequence")
	flags.String("journal", "", "optional invocation journal JSONL path")
	flags.String("metrics-file", "", "optional Prometheus textfile written on exit")
	flags.Int("max-retries", 5, "maximum RPC retry attempts")
	flags.Duration("retry-backoff", 500*time.Millisecond, "initial RPC retry backoff")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("contract", "", "pair contract address")

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a pair instance",
		RunE:  runInit,
	}
	initCmd.Flags().String("factory", "", "factory address")
	initCmd.Flags().String("token-a", "", "first token address")
	initCmd.Flags().String("token-b", "", "second token address")
	initCmd.Flags().String("lp-token", "", "LP token address")
	root.AddCommand(initCmd)

	root.AddCommand(&cobra.Command{
		Use:   "reserves",
		Short: "Print the reserves of a pair",
		RunE:  runReserves,
	})

	root.AddCommand(&cobra.Command{
		Use:   "fees",
		Short: "Print the fee state of a pair",
		RunE:  runFees,
	})

	root.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print identity, reserves and fee state of a pair",
		RunE:  runShow,
	})

	return root
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
