package pair

import "github.com/ethereum/go-ethereum/common"

const nullAddressHex = "0x0000000000000000000000000000000000000000"

var nullAddress = common.HexToAddress(nullAddressHex)

// NullAddress returns the placeholder address rejected by Initialize.
func NullAddress() common.Address {
	return nullAddress
}

// IsNull reports whether addr is the null address.
func IsNull(addr common.Address) bool {
	return addr == nullAddress
}
