package model

// TokenMeta captures ERC20 metadata of a pooled token.
type TokenMeta struct {
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
	Symbol   string `json:"symbol,omitempty"`
	Name     string `json:"name,omitempty"`
}

// PairView is the combined, read-only description of a pair printed by tooling.
type PairView struct {
	ChainID         string     `json:"chain_id,omitempty"`
	Contract        string     `json:"contract"`
	Factory         string     `json:"factory"`
	Token0          string     `json:"token_0"`
	Token1          string     `json:"token_1"`
	LPToken         string     `json:"lp_token"`
	Reserves        Reserves   `json:"reserves"`
	Fees            FeeState   `json:"fees"`
	Locked          bool       `json:"locked"`
	LiveUntilLedger uint32     `json:"live_until_ledger,omitempty"`
	Token0Meta      *TokenMeta `json:"token_0_meta,omitempty"`
	Token1Meta      *TokenMeta `json:"token_1_meta,omitempty"`
}
