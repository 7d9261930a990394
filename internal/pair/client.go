package pair

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"pairstate/internal/host"
	"pairstate/internal/model"
)

// Function names reported to the host journal.
const (
	FnInitialize  = "initialize"
	FnGetReserves = "get_reserves"
	FnGetFeeState = "get_fee_state"
	FnDescribe    = "describe"
)

// Client invokes pair operations on one contract instance through a host.
// Operations that would abort the invocation return an error matching host.ErrAborted.
type Client struct {
	host     *host.Host
	contract common.Address
}

func NewClient(h *host.Host, contract common.Address) *Client {
	return &Client{host: h, contract: contract}
}

// Contract returns the address of the pair instance.
func (c *Client) Contract() common.Address {
	return c.contract
}

func (c *Client) Initialize(ctx context.Context, factory, tokenA, tokenB, lpToken common.Address) error {
	return c.host.Invoke(ctx, c.contract, FnInitialize, func(env *host.Env) error {
		return Initialize(env, factory, tokenA, tokenB, lpToken)
	})
}

func (c *Client) GetReserves(ctx context.Context) (model.Reserves, error) {
	var reserves model.Reserves
	err := c.host.Invoke(ctx, c.contract, FnGetReserves, func(env *host.Env) error {
		reserves = GetReserves(env)
		return nil
	})
	return reserves, err
}

func (c *Client) GetFeeState(ctx context.Context) (model.FeeState, error) {
	var fees model.FeeState
	err := c.host.Invoke(ctx, c.contract, FnGetFeeState, func(env *host.Env) error {
		fees = GetFeeState(env)
		return nil
	})
	return fees, err
}

// Describe reads identity, reserves, fees, lock state and lifetime in a single invocation.
func (c *Client) Describe(ctx context.Context) (model.PairView, error) {
	var view model.PairView
	err := c.host.Invoke(ctx, c.contract, FnDescribe, func(env *host.Env) error {
		record := GetPair(env)
		liveUntil, _ := env.Instance().LiveUntil()
		view = model.PairView{
			Contract:        c.contract.Hex(),
			Factory:         record.Factory.Hex(),
			Token0:          record.Token0.Hex(),
			Token1:          record.Token1.Hex(),
			LPToken:         record.LPToken.Hex(),
			Reserves:        record.Reserves(),
			Fees:            GetFeeState(env),
			Locked:          IsLocked(env),
			LiveUntilLedger: liveUntil,
		}
		return nil
	})
	return view, err
}
