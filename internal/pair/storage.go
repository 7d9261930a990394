package pair

import (
	"encoding/json"
	"fmt"

	"pairstate/internal/host"
	"pairstate/internal/model"
)

// DataKey enumerates the instance storage records of a pair.
type DataKey byte

const (
	DataKeyPairStorage DataKey = iota + 1
	DataKeyFeeState
	DataKeyReentrancyGuard
)

func (k DataKey) Bytes() []byte {
	return []byte{byte(k)}
}

func (k DataKey) String() string {
	switch k {
	case DataKeyPairStorage:
		return "PairStorage"
	case DataKeyFeeState:
		return "FeeState"
	case DataKeyReentrancyGuard:
		return "ReentrancyGuard"
	default:
		return fmt.Sprintf("DataKey(%d)", byte(k))
	}
}

func hasRecord(env *host.Env, key DataKey) bool {
	return env.Instance().Has(key.Bytes())
}

func setRecord(env *host.Env, key DataKey, record any) {
	data, err := json.Marshal(record)
	if err != nil {
		env.Abort(fmt.Errorf("marshal %s: %w", key, err))
	}
	env.Instance().Set(key.Bytes(), data)
}

// mustGetRecord decodes the record under key into out, aborting when it is absent.
func mustGetRecord(env *host.Env, key DataKey, out any) {
	data := env.Instance().MustGet(key.Bytes())
	if err := json.Unmarshal(data, out); err != nil {
		env.Abort(fmt.Errorf("unmarshal %s: %w", key, err))
	}
}

func setPairStorage(env *host.Env, record model.PairStorage) {
	if err := record.Validate(); err != nil {
		env.Abort(err)
	}
	setRecord(env, DataKeyPairStorage, record)
}

func getPairStorage(env *host.Env) model.PairStorage {
	var record model.PairStorage
	mustGetRecord(env, DataKeyPairStorage, &record)
	if err := record.Validate(); err != nil {
		env.Abort(err)
	}
	return record
}

func getFeeState(env *host.Env) model.FeeState {
	var fees model.FeeState
	mustGetRecord(env, DataKeyFeeState, &fees)
	return fees
}

func getReentrancyGuard(env *host.Env) model.ReentrancyGuard {
	var guard model.ReentrancyGuard
	mustGetRecord(env, DataKeyReentrancyGuard, &guard)
	return guard
}
