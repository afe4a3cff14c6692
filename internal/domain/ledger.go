package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// AccountID identifies an account row. It is assigned by storage.
type AccountID int64

// TransactionID identifies a transaction row. It is assigned by storage on insert.
type TransactionID int64

// Fields holds column values of a row keyed by column name.
type Fields map[string]any

// Filter selects an account by attributes other than its id.
type Filter map[string]any

// Keys returns the filter's field names in sorted order.
func (f Filter) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Account is a balance holder. Balance is only meaningful when the schema
// configures a cached balance column.
type Account struct {
	ID      AccountID       `json:"id"`
	Fields  Fields          `json:"fields,omitempty"`
	Balance decimal.Decimal `json:"balance"`
}

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID        TransactionID   `json:"id"`
	AccountID AccountID       `json:"accountId"`
	Amount    decimal.Decimal `json:"amount"` // positive = credit, negative = debit
	Date      time.Time       `json:"date"`
	Data      map[string]any  `json:"data,omitempty"`

	// CounterpartyID is set on transfer legs when the schema links them.
	CounterpartyID *AccountID `json:"counterpartyId,omitempty"`
}

// AccountRef references an account either by id or by a lookup filter.
type AccountRef struct {
	id     AccountID
	filter Filter
	byID   bool
}

// ByID references an account by its id.
func ByID(id AccountID) AccountRef {
	return AccountRef{id: id, byID: true}
}

// ByFilter references an account by attribute values.
func ByFilter(filter Filter) AccountRef {
	return AccountRef{filter: filter}
}

// ID returns the referenced id and whether the reference is an id.
func (r AccountRef) ID() (AccountID, bool) {
	return r.id, r.byID
}

// Filter returns the lookup filter of a filter reference.
func (r AccountRef) Filter() Filter {
	return r.filter
}

func (r AccountRef) String() string {
	if r.byID {
		return fmt.Sprintf("account#%d", r.id)
	}
	return fmt.Sprintf("account %v", map[string]any(r.filter))
}

// Posting is one line of a bulk import: a signed amount against an account.
type Posting struct {
	Line    int             `json:"line"`
	Account AccountRef      `json:"-"`
	Amount  decimal.Decimal `json:"amount"`
	Data    map[string]any  `json:"data,omitempty"`
}

// AmountScale is the number of fractional digits a ledger amount may carry.
const AmountScale int32 = 8

// maxAmount bounds amounts to what NUMERIC(38,8) holds.
var maxAmount = decimal.New(1, 38-AmountScale)

// ValidateAmount rejects amounts that storage could not hold exactly.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return InvalidArgumentf("amount %s has more than %d fractional digits", amount, AmountScale)
	}
	if amount.Abs().GreaterThanOrEqual(maxAmount) {
		return InvalidArgumentf("amount %s is out of range", amount)
	}
	return nil
}
