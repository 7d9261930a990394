package host

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"pairstate/internal/model"
	"pairstate/internal/storage"
)

// Journal records finished invocations.
type Journal interface {
	Record(rec model.InvocationRecord) error
}

// Config holds optional host collaborators.
type Config struct {
	Journal    Journal
	Registerer prometheus.Registerer
}

// Host executes contract invocations against a durable store.
type Host struct {
	store   storage.Store
	ledger  Ledger
	journal Journal
	metrics *Metrics
	logger  *zap.Logger

	mu    sync.Mutex
	locks map[common.Address]*sync.Mutex
}

// New builds a Host with its dependencies.
func New(cfg Config, store storage.Store, ledger Ledger, logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Host{
		store:   store,
		ledger:  ledger,
		journal: cfg.Journal,
		logger:  logger,
		locks:   make(map[common.Address]*sync.Mutex),
	}
	if cfg.Registerer != nil {
		h.metrics = NewMetrics(cfg.Registerer)
	}
	return h
}

// MaxCommitAttempts bounds how often an invocation is re-executed after its
// commit lost a race against another writer of the same instance.
const MaxCommitAttempts = 4

// Invoke runs call as one atomic invocation of function on contract.
// Writes buffered by call are committed only when it returns nil. An abort raised
// inside call is recovered and returned as an error matching ErrAborted.
// Invocations of one contract are serialized within the Host; across hosts
// sharing a store, a commit whose reads went stale re-runs call from scratch.
func (h *Host) Invoke(ctx context.Context, contract common.Address, function string, call func(env *Env) error) error {
	if h.store == nil {
		return fmt.Errorf("store is nil")
	}
	if h.ledger == nil {
		return fmt.Errorf("ledger is nil")
	}

	unlock := h.lock(contract)
	defer unlock()

	start := time.Now()
	seq, err := h.ledger.Sequence(ctx)
	if err != nil {
		return fmt.Errorf("ledger sequence: %w", err)
	}

	ns := Namespace(contract)
	for attempt := 1; ; attempt++ {
		env := &Env{
			ctx:      ctx,
			contract: contract,
			ledger:   seq,
			instance: newInstanceStorage(ctx, h.store, ns, seq),
			logger:   h.logger.With(zap.String("contract", contract.Hex()), zap.String("function", function)),
		}

		err = run(env, call)
		if err != nil {
			break
		}

		commitErr := h.store.Commit(ctx, ns, env.instance.reads(), env.instance.writes())
		if errors.Is(commitErr, storage.ErrConflict) && attempt < MaxCommitAttempts {
			h.logger.Debug("instance storage changed during invocation, retrying",
				zap.String("contract", contract.Hex()),
				zap.String("function", function),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if commitErr != nil {
			err = fmt.Errorf("commit instance storage: %w", commitErr)
		}
		break
	}

	h.finish(contract, function, seq, start, err)
	return err
}

// Namespace returns the storage namespace owned by contract.
func Namespace(contract common.Address) string {
	return contract.Hex()
}

func run(env *Env, call func(env *Env) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			abortErr, ok := r.(*Abort)
			if !ok {
				panic(r)
			}
			err = abortErr
		}
	}()
	return call(env)
}

func (h *Host) finish(contract common.Address, function string, ledger uint32, start time.Time, err error) {
	elapsed := time.Since(start)
	rec := model.InvocationRecord{
		Contract:   contract.Hex(),
		Function:   function,
		Ledger:     ledger,
		Outcome:    model.OutcomeOK,
		DurationUS: elapsed.Microseconds(),
		InvokedAt:  start.UTC().Format(time.RFC3339Nano),
	}

	if err != nil {
		rec.Outcome = model.OutcomeError
		var abortErr *Abort
		if errors.As(err, &abortErr) {
			rec.Outcome = model.OutcomeAbort
		}
		rec.Error = err.Error()
		rec.Codespace, rec.Code, _ = ErrorCode(err)

		h.logger.Warn("invocation failed",
			zap.String("contract", rec.Contract),
			zap.String("function", function),
			zap.Uint32("ledger", ledger),
			zap.String("outcome", rec.Outcome),
			zap.String("codespace", rec.Codespace),
			zap.Uint32("code", rec.Code),
			zap.Error(err),
		)
	} else {
		h.logger.Debug("invocation complete",
			zap.String("contract", rec.Contract),
			zap.String("function", function),
			zap.Uint32("ledger", ledger),
			zap.Duration("elapsed", elapsed),
		)
	}

	h.metrics.observe(function, rec.Outcome, rec.Code, elapsed)

	if h.journal != nil {
		if jerr := h.journal.Record(rec); jerr != nil {
			h.logger.Warn("journal write failed", zap.Error(jerr))
		}
	}
}

func (h *Host) lock(contract common.Address) func() {
	h.mu.Lock()
	l, ok := h.locks[contract]
	if !ok {
		l = &sync.Mutex{}
		h.locks[contract] = l
	}
	h.mu.Unlock()

	l.Lock()
	return l.Unlock
}
