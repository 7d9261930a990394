package host

import "context"

// Ledger reports the sequence number of the ledger an invocation runs in.
type Ledger interface {
	Sequence(ctx context.Context) (uint32, error)
}

// StaticLedger is a Ledger pinned to a fixed sequence.
type StaticLedger uint32

func (l StaticLedger) Sequence(context.Context) (uint32, error) {
	return uint32(l), nil
}
