package host

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Env is the handle a contract operation receives for one invocation.
type Env struct {
	ctx      context.Context
	contract common.Address
	ledger   uint32
	instance *InstanceStorage
	logger   *zap.Logger
}

func (e *Env) Context() context.Context {
	return e.ctx
}

// Contract returns the address of the invoked contract instance.
func (e *Env) Contract() common.Address {
	return e.contract
}

// LedgerSequence returns the ledger the invocation runs in.
func (e *Env) LedgerSequence() uint32 {
	return e.ledger
}

// Instance returns the instance storage of the invoked contract.
func (e *Env) Instance() *InstanceStorage {
	return e.instance
}

func (e *Env) Logger() *zap.Logger {
	return e.logger
}

// Abort traps the invocation. Buffered writes are discarded.
func (e *Env) Abort(cause error) {
	abort(cause)
}
