package domain

import "regexp"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name can be used as a table or column name.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// Schema maps the ledger onto storage collections and their fields.
// Empty optional attributes disable the feature they back.
type Schema struct {
	AccountTable     string `json:"account_table"`
	TransactionTable string `json:"transaction_table"`

	AccountIDColumn     string `json:"account_id_column"`
	TransactionIDColumn string `json:"transaction_id_column"`

	// AccountBalanceAttribute names the cached balance column. Optional.
	AccountBalanceAttribute string `json:"account_balance_attribute"`

	TransactionDateAttribute        string `json:"transaction_date_attribute"`
	TransactionAmountAttribute      string `json:"transaction_amount_attribute"`
	TransactionAccountLinkAttribute string `json:"transaction_account_link_attribute"`
	// TransactionDataAttribute stores the JSON payload. Optional.
	TransactionDataAttribute string `json:"transaction_data_attribute"`
	// TransactionCounterpartyAttribute links transfer legs to the opposite account. Optional.
	TransactionCounterpartyAttribute string `json:"transaction_counterparty_attribute"`
}

// DefaultSchema returns the stock BalanceAccount/BalanceTransaction layout with
// balance caching disabled.
func DefaultSchema() Schema {
	return Schema{
		AccountTable:                    "BalanceAccount",
		TransactionTable:                "BalanceTransaction",
		AccountIDColumn:                 "id",
		TransactionIDColumn:             "id",
		TransactionDateAttribute:        "date",
		TransactionAmountAttribute:      "amount",
		TransactionAccountLinkAttribute: "accountId",
		TransactionDataAttribute:        "data",
	}
}

// CachesBalance reports whether the account carries a cached balance column.
func (s Schema) CachesBalance() bool { return s.AccountBalanceAttribute != "" }

// LinksCounterparty reports whether transfer legs record the opposite account.
func (s Schema) LinksCounterparty() bool { return s.TransactionCounterpartyAttribute != "" }

// StoresData reports whether transactions carry a payload column.
func (s Schema) StoresData() bool { return s.TransactionDataAttribute != "" }

// Validate checks that every configured name is a usable identifier and that
// required names are present.
func (s Schema) Validate() error {
	required := []struct {
		name, value string
	}{
		{"account table", s.AccountTable},
		{"transaction table", s.TransactionTable},
		{"account id column", s.AccountIDColumn},
		{"transaction id column", s.TransactionIDColumn},
		{"transaction date attribute", s.TransactionDateAttribute},
		{"transaction amount attribute", s.TransactionAmountAttribute},
		{"transaction account link attribute", s.TransactionAccountLinkAttribute},
	}
	for _, r := range required {
		if r.value == "" {
			return InvalidArgumentf("schema: %s is required", r.name)
		}
		if !ValidIdentifier(r.value) {
			return InvalidArgumentf("schema: %s %q is not a valid identifier", r.name, r.value)
		}
	}

	optional := []struct {
		name, value string
	}{
		{"account balance attribute", s.AccountBalanceAttribute},
		{"transaction data attribute", s.TransactionDataAttribute},
		{"transaction counterparty attribute", s.TransactionCounterpartyAttribute},
	}
	for _, o := range optional {
		if o.value != "" && !ValidIdentifier(o.value) {
			return InvalidArgumentf("schema: %s %q is not a valid identifier", o.name, o.value)
		}
	}

	if s.AccountTable == s.TransactionTable {
		return InvalidArgumentf("schema: account and transaction tables must differ")
	}
	return nil
}
