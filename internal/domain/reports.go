package domain

import "github.com/shopspring/decimal"

// DriftDetail describes one account whose cached balance disagrees with its ledger.
type DriftDetail struct {
	AccountID AccountID       `json:"account_id"`
	Cached    decimal.Decimal `json:"cached_balance"`
	Computed  decimal.Decimal `json:"computed_balance"`
	Drift     decimal.Decimal `json:"drift"` // cached - computed
}

// DriftSummary provides high-level statistics of an audit run.
type DriftSummary struct {
	AccountsChecked int             `json:"accounts_checked"`
	DriftedAccounts int             `json:"drifted_accounts"`
	TotalAbsDrift   decimal.Decimal `json:"total_abs_drift"`
}

// DriftReport is the top-level structure for the audit JSON output.
type DriftReport struct {
	Summary DriftSummary  `json:"summary"`
	Details []DriftDetail `json:"details"`
}
