package pair

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
)

// Codespace of pair contract errors. Codes are part of the contract ABI and are never renumbered.
const Codespace = "pair"

var (
	ErrAlreadyInitialized = errorsmod.Register(Codespace, 100, "already initialized")
	ErrZeroAddress        = errorsmod.Register(Codespace, 101, "zero address")
	ErrIdenticalTokens    = errorsmod.Register(Codespace, 102, "identical tokens")

	// Reserved for mint, burn and swap.
	ErrInsufficientLiquidityMinted = errorsmod.Register(Codespace, 103, "insufficient liquidity minted")
	ErrInsufficientLiquidityBurned = errorsmod.Register(Codespace, 104, "insufficient liquidity burned")
	ErrInsufficientOutputAmount    = errorsmod.Register(Codespace, 105, "insufficient output amount")
	ErrInsufficientLiquidity       = errorsmod.Register(Codespace, 106, "insufficient liquidity")
	ErrInvalidAmount               = errorsmod.Register(Codespace, 107, "invalid amount")
	ErrKInvariant                  = errorsmod.Register(Codespace, 108, "k invariant violated")
	ErrInsufficientInputAmount     = errorsmod.Register(Codespace, 109, "insufficient input amount")
	ErrLocked                      = errorsmod.Register(Codespace, 110, "locked")
	ErrExpired                     = errorsmod.Register(Codespace, 111, "expired")
	ErrConstraintNotMet            = errorsmod.Register(Codespace, 112, "constraint not met")

	ErrInvalidFee = errorsmod.Register(Codespace, 113, "invalid fee")
)

// Code returns the pair error code carried by err.
func Code(err error) (uint32, bool) {
	var e *errorsmod.Error
	if errors.As(err, &e) && e.Codespace() == Codespace {
		return e.ABCICode(), true
	}
	return 0, false
}
