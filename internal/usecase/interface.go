package usecase

import (
	"context"

	"balance-ledger/internal/domain"

	"github.com/shopspring/decimal"
)

// LedgerStore defines the storage boundary the balance manager runs on.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_store.go -source=interface.go LedgerStore,LedgerTx
type LedgerStore interface {
	// RunAtomic executes fn inside a storage transaction. Any error returned by fn
	// rolls back every write performed through tx.
	RunAtomic(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}

// LedgerTx exposes row-level operations within one atomic boundary.
// Lookups of missing rows return an error wrapping domain.ErrNotFound.
type LedgerTx interface {
	FindAccountByID(ctx context.Context, id domain.AccountID) (*domain.Account, error)
	FindAccountByFilter(ctx context.Context, filter domain.Filter) (*domain.Account, error)
	InsertAccount(ctx context.Context, fields domain.Fields) (*domain.Account, error)
	// IncrementAccountBalance applies field = field + delta as a single statement.
	IncrementAccountBalance(ctx context.Context, id domain.AccountID, field string, delta decimal.Decimal) error
	ListAccountIDs(ctx context.Context) ([]domain.AccountID, error)

	// InsertTransaction assigns the id, and the date when it is zero.
	InsertTransaction(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error)
	FindTransactionByID(ctx context.Context, id domain.TransactionID) (*domain.Transaction, error)
	SumTransactionAmounts(ctx context.Context, accountID domain.AccountID) (decimal.Decimal, error)
	// ListTransactions returns the newest transactions first; limit <= 0 means all.
	ListTransactions(ctx context.Context, accountID domain.AccountID, limit int) ([]domain.Transaction, error)
}
