package model

// Invocation outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeAbort = "abort"
)

// InvocationRecord is the journal entry written for every contract invocation.
type InvocationRecord struct {
	Contract   string `json:"contract"`
	Function   string `json:"function"`
	Ledger     uint32 `json:"ledger"`
	Outcome    string `json:"outcome"`
	Codespace  string `json:"codespace,omitempty"`
	Code       uint32 `json:"code,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationUS int64  `json:"duration_us"`
	InvokedAt  string `json:"invoked_at"`
}
