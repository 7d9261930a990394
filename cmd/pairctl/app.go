package main

import (
	"context"
	"fmt"
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pairstate/internal/chain"
	"pairstate/internal/config"
	"pairstate/internal/host"
	"pairstate/internal/pair"
	"pairstate/internal/storage"
)

// app holds the collaborators shared by every subcommand.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	store    storage.Store
	chain    *chain.Client
	chainID  *big.Int
	registry *prometheus.Registry
	host     *host.Host
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, registry: prometheus.NewRegistry()}

	a.store, err = openStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	var ledger host.Ledger = host.StaticLedger(cfg.Ledger)
	if cfg.RPCURL != "" {
		a.chain, err = chain.NewClient(ctx, cfg.RPCURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect rpc: %w", err)
		}
		a.chainID, err = a.chain.GetChainID(ctx)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("chain id: %w", err)
		}
		logger.Info("connected to chain", zap.String("rpc", cfg.RPCURL), zap.String("chain_id", a.chainID.String()))
		ledger = chain.NewLedgerClock(a.chain, cfg.MaxRetries, cfg.RetryBackoff, logger)
	}

	hostCfg := host.Config{Registerer: a.registry}
	if cfg.Journal != "" {
		hostCfg.Journal = storage.NewJsonlJournal(cfg.Journal)
	}
	a.host = host.New(hostCfg, a.store, ledger, logger)

	logger.Debug("pairctl start",
		zap.String("store", cfg.Store),
		zap.String("rpc", cfg.RPCURL),
		zap.Uint32("ledger", cfg.Ledger),
		zap.String("journal", cfg.Journal),
	)
	return a, nil
}

func (a *app) client() (*pair.Client, error) {
	if a.cfg.Contract == "" {
		return nil, fmt.Errorf("contract address is required")
	}
	contract, err := config.ParseAddress(a.cfg.Contract)
	if err != nil {
		return nil, fmt.Errorf("contract: %w", err)
	}
	return pair.NewClient(a.host, contract), nil
}

// fail logs the registered error code carried by err and returns err.
func (a *app) fail(function string, err error) error {
	codespace, code, _ := host.ErrorCode(err)
	a.logger.Error("pair operation failed",
		zap.String("function", function),
		zap.String("codespace", codespace),
		zap.Uint32("code", code),
		zap.Error(err),
	)
	return err
}

func (a *app) Close() {
	if a.cfg.MetricsFile != "" && a.registry != nil {
		if err := prometheus.WriteToTextfile(a.cfg.MetricsFile, a.registry); err != nil {
			a.logger.Warn("write metrics file failed", zap.String("path", a.cfg.MetricsFile), zap.Error(err))
		}
	}
	if a.chain != nil {
		a.chain.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("close store failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
