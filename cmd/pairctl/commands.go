package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pairstate/internal/config"
	"pairstate/internal/dex"
	"pairstate/internal/pair"
)

func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app, client *pair.Client) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	client, err := a.client()
	if err != nil {
		return err
	}
	return fn(ctx, a, client)
}

func runInit(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, a *app, client *pair.Client) error {
		factory, err := addressFlag(cmd, "factory")
		if err != nil {
			return err
		}
		tokenA, err := addressFlag(cmd, "token-a")
		if err != nil {
			return err
		}
		tokenB, err := addressFlag(cmd, "token-b")
		if err != nil {
			return err
		}
		lpToken, err := addressFlag(cmd, "lp-token")
		if err != nil {
			return err
		}

		if err := client.Initialize(ctx, factory, tokenA, tokenB, lpToken); err != nil {
			return a.fail(pair.FnInitialize, err)
		}

		view, err := client.Describe(ctx)
		if err != nil {
			return a.fail(pair.FnDescribe, err)
		}
		return printJSON(cmd, view)
	})
}

func runReserves(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, a *app, client *pair.Client) error {
		reserves, err := client.GetReserves(ctx)
		if err != nil {
			return a.fail(pair.FnGetReserves, err)
		}
		return printJSON(cmd, reserves)
	})
}

func runFees(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, a *app, client *pair.Client) error {
		fees, err := client.GetFeeState(ctx)
		if err != nil {
			return a.fail(pair.FnGetFeeState, err)
		}
		return printJSON(cmd, fees)
	})
}

func runShow(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, a *app, client *pair.Client) error {
		view, err := client.Describe(ctx)
		if err != nil {
			return a.fail(pair.FnDescribe, err)
		}
		if a.chain != nil {
			view.ChainID = a.chainID.String()
			dex.AttachTokenMeta(ctx, a.chain, dex.NewTokenMetaCache(), &view, a.logger)
		} else {
			a.logger.Debug("no rpc configured, skipping token metadata", zap.String("contract", view.Contract))
		}
		return printJSON(cmd, view)
	})
}

func addressFlag(cmd *cobra.Command, name string) (common.Address, error) {
	raw, _ := cmd.Flags().GetString(name)
	addr, err := config.ParseAddress(raw)
	if err != nil {
		return common.Address{}, fmt.Errorf("%s: %w", name, err)
	}
	return addr, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
