package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pairstate/internal/chain/chaintest"
	"pairstate/internal/model"
	"pairstate/internal/pair"
)

const (
	testContract = "0x00000000000000000000000000000000000c0de1"
	testFactory  = "0xfac7000000000000000000000000000000000001"
	testTokenLow = "0x1000000000000000000000000000000000000001"
	testTokenHi  = "0x2000000000000000000000000000000000000002"
	testLPToken  = "0x3000000000000000000000000000000000000003"
)

func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	base := []string{
		"--store", "sqlite",
		"--store-path", filepath.Join(dir, "pairs.db"),
		"--ledger", "500",
		"--journal", filepath.Join(dir, "journal.jsonl"),
		"--log-level", "error",
		"--contract", testContract,
	}
	root.SetArgs(append(base, args...))
	err := root.Execute()
	return out.String(), err
}

func TestPairctlLifecycle(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	_, err := execute(t, dir, "reserves")
	require.Error(t, err)

	out, err := execute(t, dir, "init",
		"--factory", testFactory,
		"--token-a", testTokenHi,
		"--token-b", testTokenLow,
		"--lp-token", testLPToken,
	)
	require.NoError(t, err)

	var view model.PairView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Equal(t, testTokenLow, view.Token0)
	require.Equal(t, testTokenHi, view.Token1)
	require.Equal(t, uint32(500)+pair.InstanceTTLExtendTo, view.LiveUntilLedger)

	out, err = execute(t, dir, "fees")
	require.NoError(t, err)
	var fees model.FeeState
	require.NoError(t, json.Unmarshal([]byte(out), &fees))
	require.Equal(t, pair.DefaultFeeState(), fees)

	out, err = execute(t, dir, "reserves")
	require.NoError(t, err)
	var reserves model.Reserves
	require.NoError(t, json.Unmarshal([]byte(out), &reserves))
	require.True(t, reserves.Reserve0.IsZero())

	_, err = execute(t, dir, "init",
		"--factory", testFactory,
		"--token-a", testTokenLow,
		"--token-b", testTokenHi,
		"--lp-token", testLPToken,
	)
	require.ErrorIs(t, err, pair.ErrAlreadyInitialized)

	journal, err := os.ReadFile(filepath.Join(dir, "journal.jsonl"))
	require.NoError(t, err)
	require.Equal(t, 6, bytes.Count(journal, []byte("\n")))
}

func TestPairctlInitRejectsIdenticalTokens(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	_, err := execute(t, dir, "init",
		"--factory", testFactory,
		"--token-a", testTokenLow,
		"--token-b", testTokenLow,
		"--lp-token", testLPToken,
	)
	require.ErrorIs(t, err, pair.ErrIdenticalTokens)
}

func TestPairctlRequiresContract(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--store", "memory", "--log-level", "error", "fees"})
	require.Error(t, root.Execute())
}

func TestPairctlContractFromEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("PAIRCTL_CONTRACT", testContract)

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{
		"--store", "sqlite",
		"--store-path", filepath.Join(dir, "pairs.db"),
		"--log-level", "error",
		"init",
		"--factory", testFactory,
		"--token-a", testTokenLow,
		"--token-b", testTokenHi,
		"--lp-token", testLPToken,
	})
	require.NoError(t, root.Execute())

	var view model.PairView
	require.NoError(t, json.Unmarshal(out.Bytes(), &view))
	require.Equal(t, testContract, view.Contract)
}

func TestPairctlShowWithRPC(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	node := chaintest.NewNode(t, 56, 7_000)

	_, err := execute(t, dir, "--rpc", node.URL, "init",
		"--factory", testFactory,
		"--token-a", testTokenLow,
		"--token-b", testTokenHi,
		"--lp-token", testLPToken,
	)
	require.NoError(t, err)

	node.SetBlock(7_010)
	out, err := execute(t, dir, "--rpc", node.URL, "show")
	require.NoError(t, err)

	var view model.PairView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Equal(t, "56", view.ChainID)
	require.Equal(t, uint32(7_000)+pair.InstanceTTLExtendTo, view.LiveUntilLedger)
	// The node reverts every eth_call, so no token metadata is attached.
	require.Nil(t, view.Token0Meta)
	require.Nil(t, view.Token1Meta)
}
