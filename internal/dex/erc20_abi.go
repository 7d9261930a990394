package dex

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Older tokens answer symbol and name with bytes32 instead of string.
const (
	erc20StringABIJSON = `[
  {"inputs": [], "name": "decimals", "outputs": [{"type": "uint8"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "symbol", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "name", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"}
]`
	erc20Bytes32ABIJSON = `[
  {"inputs": [], "name": "symbol", "outputs": [{"type": "bytes32"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "name", "outputs": [{"type": "bytes32"}], "stateMutability": "view", "type": "function"}
]`
)

type erc20ABIs struct {
	text    abi.ABI
	bytes32 abi.ABI
}

var loadERC20ABIs = sync.OnceValues(func() (erc20ABIs, error) {
	text, err := abi.JSON(strings.NewReader(erc20StringABIJSON))
	if err != nil {
		return erc20ABIs{}, fmt.Errorf("parse erc20 string abi: %w", err)
	}
	bytes32, err := abi.JSON(strings.NewReader(erc20Bytes32ABIJSON))
	if err != nil {
		return erc20ABIs{}, fmt.Errorf("parse erc20 bytes32 abi: %w", err)
	}
	return erc20ABIs{text: text, bytes32: bytes32}, nil
})
