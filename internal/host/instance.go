package host

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"pairstate/internal/storage"
)

// MaxEntryTTL caps how far ahead an instance can be kept alive (~180 days of 5s ledgers).
const MaxEntryTTL uint32 = 3_110_400

// liveUntilKey holds the instance's live-until ledger. Contract keys never start with 0x00.
var liveUntilKey = []byte("\x00live_until")

// InstanceStorage is the instance-scoped view of the durable store for one invocation.
// Reads see the invocation's own pending writes; writes are buffered until commit.
// The first value observed for every key read from the store is kept so the
// commit can be rejected when another writer changed it in the meantime.
type InstanceStorage struct {
	ctx       context.Context
	store     storage.Store
	ns        string
	ledger    uint32
	pending   map[string][]byte
	order     []string
	observed  map[string]storage.Read
	readOrder []string
	checked   bool
}

func newInstanceStorage(ctx context.Context, store storage.Store, ns string, ledger uint32) *InstanceStorage {
	return &InstanceStorage{
		ctx:     ctx,
		store:   store,
		ns:      ns,
		ledger:  ledger,
		pending:  make(map[string][]byte),
		observed: make(map[string]storage.Read),
	}
}

// Has reports whether key holds a value.
func (s *InstanceStorage) Has(key []byte) bool {
	s.ensureLive()
	_, ok := s.load(key)
	return ok
}

// Get returns the value stored under key.
func (s *InstanceStorage) Get(key []byte) ([]byte, bool) {
	s.ensureLive()
	return s.load(key)
}

// MustGet returns the value stored under key and aborts the invocation when it is absent.
func (s *InstanceStorage) MustGet(key []byte) []byte {
	value, ok := s.Get(key)
	if !ok {
		abort(ErrMissingValue.Wrapf("key %x", key))
	}
	return value
}

// Set buffers a write of value under key.
func (s *InstanceStorage) Set(key, value []byte) {
	s.ensureLive()
	s.put(key, value)
}

// ExtendTTL extends the instance lifetime to ledger+extendTo when fewer than
// threshold ledgers remain. It never shortens the lifetime.
func (s *InstanceStorage) ExtendTTL(threshold, extendTo uint32) {
	if threshold > extendTo {
		abort(ErrInvalidTTL.Wrapf("threshold %d above extend_to %d", threshold, extendTo))
	}
	if extendTo > MaxEntryTTL {
		extendTo = MaxEntryTTL
	}
	s.ensureLive()

	liveUntil, _ := s.LiveUntil()
	var remaining uint32
	if liveUntil > s.ledger {
		remaining = liveUntil - s.ledger
	}
	if remaining >= threshold {
		return
	}

	target := uint64(s.ledger) + uint64(extendTo)
	if target > math.MaxUint32 {
		target = math.MaxUint32
	}
	if uint32(target) <= liveUntil {
		return
	}
	s.put(liveUntilKey, encodeUint32(uint32(target)))
}

// LiveUntil returns the last ledger the instance is live in, if it was ever extended.
func (s *InstanceStorage) LiveUntil() (uint32, bool) {
	value, ok := s.load(liveUntilKey)
	if !ok {
		return 0, false
	}
	liveUntil, err := decodeUint32(value)
	if err != nil {
		abort(err)
	}
	return liveUntil, true
}

func (s *InstanceStorage) ensureLive() {
	if s.checked {
		return
	}
	s.checked = true
	liveUntil, ok := s.LiveUntil()
	if ok && liveUntil < s.ledger {
		abort(ErrArchived.Wrapf("live until ledger %d, current ledger %d", liveUntil, s.ledger))
	}
}

func (s *InstanceStorage) load(key []byte) ([]byte, bool) {
	if value, ok := s.pending[string(key)]; ok {
		return value, true
	}
	value, ok, err := s.store.Get(s.ctx, s.ns, key)
	if err != nil {
		abort(fmt.Errorf("read instance storage: %w", err))
	}
	k := string(key)
	if _, seen := s.observed[k]; !seen {
		s.observed[k] = storage.Read{Key: []byte(k), Value: value, Found: ok}
		s.readOrder = append(s.readOrder, k)
	}
	return value, ok
}

func (s *InstanceStorage) put(key, value []byte) {
	k := string(key)
	if _, ok := s.pending[k]; !ok {
		s.order = append(s.order, k)
	}
	s.pending[k] = append([]byte(nil), value...)
}

func (s *InstanceStorage) writes() []storage.Write {
	writes := make([]storage.Write, 0, len(s.order))
	for _, k := range s.order {
		writes = append(writes, storage.Write{Key: []byte(k), Value: s.pending[k]})
	}
	return writes
}

func (s *InstanceStorage) reads() []storage.Read {
	reads := make([]storage.Read, 0, len(s.readOrder))
	for _, k := range s.readOrder {
		reads = append(reads, s.observed[k])
	}
	return reads
}

func encodeUint32(v uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return buf
}

func decodeUint32(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("invalid live-until encoding length %d", len(b))
	}
	return binary.BigEndian.Uint32(b), nil
}
