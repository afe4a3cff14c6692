package usecase

import (
	"context"
	"errors"
	"time"

	"balance-ledger/internal/domain"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransferIDKey is the payload key shared by both legs of a transfer.
const TransferIDKey = "transferId"

// Config controls how the BalanceManager maps the ledger onto storage.
type Config struct {
	Schema domain.Schema
	// AutoCreateAccount creates an account from the lookup filter when none matches.
	AutoCreateAccount bool
	// BaseData is merged under the caller's extra data of every transaction.
	BaseData map[string]any
}

// Option customizes a BalanceManager.
type Option func(*BalanceManager)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(m *BalanceManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the source of transaction dates.
func WithClock(now func() time.Time) Option {
	return func(m *BalanceManager) {
		if now != nil {
			m.now = now
		}
	}
}

// BalanceManager records signed transactions and keeps the optional cached
// account balance equal to the ledger sum. It holds no mutable state and is
// safe for concurrent use.
type BalanceManager struct {
	store  LedgerStore
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// NewBalanceManager creates a new manager over store. The schema is validated once here.
func NewBalanceManager(store LedgerStore, cfg Config, opts ...Option) (*BalanceManager, error) {
	if store == nil {
		return nil, domain.InvalidArgumentf("ledger store is required")
	}
	if err := cfg.Schema.Validate(); err != nil {
		return nil, err
	}
	base := make(map[string]any, len(cfg.BaseData))
	for k, v := range cfg.BaseData {
		base[k] = v
	}
	cfg.BaseData = base

	m := &BalanceManager{
		store:  store,
		cfg:    cfg,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Schema returns the storage mapping the manager was built with.
func (m *BalanceManager) Schema() domain.Schema { return m.cfg.Schema }

// ResolveAccount returns the id of the referenced account, creating it from the
// filter when autoCreate is set and nothing matches.
//
// Lookup and creation run in one transaction, but two concurrent callers on a
// multi-connection database (postgres, read committed) can both miss and both
// insert. Declare the filter columns with gateway.Column{Unique: true} to make
// the second insert fail with ErrStorage instead.
func (m *BalanceManager) ResolveAccount(ctx context.Context, ref domain.AccountRef, autoCreate bool) (id domain.AccountID, err error) {
	start := time.Now()
	defer func() { observe("resolve_account", start, err) }()

	err = m.atomic(ctx, "resolve account", func(ctx context.Context, tx LedgerTx) error {
		var rErr error
		id, rErr = m.resolveAccount(ctx, tx, ref, autoCreate)
		return rErr
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Increase records amount against the referenced account and returns the new
// transaction id. Amount may have any sign.
func (m *BalanceManager) Increase(ctx context.Context, ref domain.AccountRef, amount decimal.Decimal, extra map[string]any) (id domain.TransactionID, err error) {
	start := time.Now()
	defer func() { observe("increase", start, err) }()
	return m.increase(ctx, "increase", ref, amount, extra)
}

// Decrease records -amount against the referenced account.
func (m *BalanceManager) Decrease(ctx context.Context, ref domain.AccountRef, amount decimal.Decimal, extra map[string]any) (id domain.TransactionID, err error) {
	start := time.Now()
	defer func() { observe("decrease", start, err) }()
	return m.increase(ctx, "decrease", ref, amount.Neg(), extra)
}

// Revert inserts a compensating entry for the given transaction and returns its id.
// The original row is left untouched, and reverting the same transaction twice
// records two compensations. Reverting a linked transfer leg compensates both legs.
func (m *BalanceManager) Revert(ctx context.Context, transactionID domain.TransactionID, extra map[string]any) (id domain.TransactionID, err error) {
	start := time.Now()
	defer func() { observe("revert", start, err) }()

	err = m.atomic(ctx, "revert", func(ctx context.Context, tx LedgerTx) error {
		orig, err := tx.FindTransactionByID(ctx, transactionID)
		if err != nil {
			return err
		}
		accountID, err := m.resolveAccount(ctx, tx, domain.ByID(orig.AccountID), false)
		if err != nil {
			return err
		}

		if orig.CounterpartyID != nil && m.cfg.Schema.LinksCounterparty() {
			counterpartyID, err := m.resolveAccount(ctx, tx, domain.ByID(*orig.CounterpartyID), false)
			if err != nil {
				return err
			}
			leg, _, err := m.transfer(ctx, tx, accountID, counterpartyID, orig.Amount, extra)
			if err != nil {
				return err
			}
			id = leg.ID
			return nil
		}

		rec, err := m.applyDelta(ctx, tx, accountID, orig.Amount.Neg(), nil, extra)
		if err != nil {
			return err
		}
		id = rec.ID
		return nil
	})
	if err != nil {
		m.logger.Warn("revert failed", zap.Int64("transaction_id", int64(transactionID)), zap.Error(err))
		return 0, err
	}
	m.logger.Debug("transaction reverted",
		zap.Int64("transaction_id", int64(transactionID)),
		zap.Int64("compensating_id", int64(id)),
	)
	return id, nil
}

// Transfer moves amount from one account to another as two linked legs recorded
// atomically. It returns the debit and credit transaction ids, in that order.
func (m *BalanceManager) Transfer(ctx context.Context, from, to domain.AccountRef, amount decimal.Decimal, extra map[string]any) (ids [2]domain.TransactionID, err error) {
	start := time.Now()
	defer func() { observe("transfer", start, err) }()

	if err = domain.ValidateAmount(amount); err != nil {
		return [2]domain.TransactionID{}, err
	}
	err = m.atomic(ctx, "transfer", func(ctx context.Context, tx LedgerTx) error {
		fromID, err := m.resolveAccount(ctx, tx, from, m.cfg.AutoCreateAccount)
		if err != nil {
			return err
		}
		toID, err := m.resolveAccount(ctx, tx, to, m.cfg.AutoCreateAccount)
		if err != nil {
			return err
		}
		debit, credit, err := m.transfer(ctx, tx, fromID, toID, amount, extra)
		if err != nil {
			return err
		}
		ids = [2]domain.TransactionID{debit.ID, credit.ID}
		return nil
	})
	if err != nil {
		m.logger.Warn("transfer failed", zap.Stringer("from", from), zap.Stringer("to", to), zap.Error(err))
		return [2]domain.TransactionID{}, err
	}
	return ids, nil
}

// CalculateBalance sums the ledger of an existing account. The cached balance
// column is never consulted.
func (m *BalanceManager) CalculateBalance(ctx context.Context, accountID domain.AccountID) (sum decimal.Decimal, err error) {
	start := time.Now()
	defer func() { observe("calculate_balance", start, err) }()

	err = m.atomic(ctx, "calculate balance", func(ctx context.Context, tx LedgerTx) error {
		if _, err := tx.FindAccountByID(ctx, accountID); err != nil {
			return err
		}
		var sErr error
		sum, sErr = tx.SumTransactionAmounts(ctx, accountID)
		return sErr
	})
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// Balance returns the cached balance when the schema caches one, and the
// ledger sum otherwise.
func (m *BalanceManager) Balance(ctx context.Context, accountID domain.AccountID) (balance decimal.Decimal, err error) {
	start := time.Now()
	defer func() { observe("balance", start, err) }()

	if !m.cfg.Schema.CachesBalance() {
		return m.CalculateBalance(ctx, accountID)
	}

	err = m.atomic(ctx, "balance", func(ctx context.Context, tx LedgerTx) error {
		acc, err := tx.FindAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		balance = acc.Balance
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// Statement lists the account's transactions, newest first. limit <= 0 returns all.
func (m *BalanceManager) Statement(ctx context.Context, accountID domain.AccountID, limit int) (out []domain.Transaction, err error) {
	start := time.Now()
	defer func() { observe("statement", start, err) }()

	err = m.atomic(ctx, "statement", func(ctx context.Context, tx LedgerTx) error {
		if _, err := tx.FindAccountByID(ctx, accountID); err != nil {
			return err
		}
		var lErr error
		out, lErr = tx.ListTransactions(ctx, accountID, limit)
		return lErr
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (m *BalanceManager) increase(ctx context.Context, op string, ref domain.AccountRef, amount decimal.Decimal, extra map[string]any) (domain.TransactionID, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return 0, err
	}
	var rec *domain.Transaction
	err := m.atomic(ctx, op, func(ctx context.Context, tx LedgerTx) error {
		accountID, err := m.resolveAccount(ctx, tx, ref, m.cfg.AutoCreateAccount)
		if err != nil {
			return err
		}
		rec, err = m.applyDelta(ctx, tx, accountID, amount, nil, extra)
		return err
	})
	if err != nil {
		m.logger.Warn("balance update failed",
			zap.String("operation", op),
			zap.Stringer("account", ref),
			zap.Stringer("amount", amount),
			zap.Error(err),
		)
		return 0, err
	}
	m.logger.Debug("balance updated",
		zap.String("operation", op),
		zap.Int64("account_id", int64(rec.AccountID)),
		zap.Int64("transaction_id", int64(rec.ID)),
		zap.Stringer("amount", amount),
	)
	return rec.ID, nil
}

func (m *BalanceManager) resolveAccount(ctx context.Context, tx LedgerTx, ref domain.AccountRef, autoCreate bool) (domain.AccountID, error) {
	if id, ok := ref.ID(); ok {
		acc, err := tx.FindAccountByID(ctx, id)
		if err != nil {
			return 0, err
		}
		return acc.ID, nil
	}

	filter := ref.Filter()
	if len(filter) == 0 {
		return 0, domain.InvalidArgumentf("account filter is empty")
	}
	for _, key := range filter.Keys() {
		if !domain.ValidIdentifier(key) {
			return 0, domain.InvalidArgumentf("account filter field %q is not a valid identifier", key)
		}
		if key == m.cfg.Schema.AccountIDColumn || key == m.cfg.Schema.AccountBalanceAttribute {
			return 0, domain.InvalidArgumentf("account filter may not use field %q", key)
		}
	}

	acc, err := tx.FindAccountByFilter(ctx, filter)
	switch {
	case err == nil:
		return acc.ID, nil
	case !errors.Is(err, domain.ErrNotFound):
		return 0, err
	case !autoCreate:
		return 0, domain.InvalidArgumentf("no account matches %s and auto-creation is disabled", ref)
	}

	fields := make(domain.Fields, len(filter))
	for k, v := range filter {
		fields[k] = v
	}
	acc, err = tx.InsertAccount(ctx, fields)
	if err != nil {
		return 0, err
	}
	m.logger.Info("account created", zap.Int64("account_id", int64(acc.ID)), zap.Any("fields", fields))
	return acc.ID, nil
}

// applyDelta appends one ledger entry and moves the cached balance by the same
// amount. It must run inside an open atomic boundary.
func (m *BalanceManager) applyDelta(ctx context.Context, tx LedgerTx, accountID domain.AccountID, amount decimal.Decimal, counterparty *domain.AccountID, extra map[string]any) (*domain.Transaction, error) {
	entry := domain.Transaction{
		AccountID: accountID,
		Amount:    amount,
		Date:      m.now(),
		Data:      m.payload(extra),
	}
	if m.cfg.Schema.LinksCounterparty() {
		entry.CounterpartyID = counterparty
	}

	rec, err := tx.InsertTransaction(ctx, entry)
	if err != nil {
		return nil, err
	}
	if m.cfg.Schema.CachesBalance() {
		if err := tx.IncrementAccountBalance(ctx, accountID, m.cfg.Schema.AccountBalanceAttribute, amount); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// transfer debits fromID and credits toID. Both legs share a transfer id.
func (m *BalanceManager) transfer(ctx context.Context, tx LedgerTx, fromID, toID domain.AccountID, amount decimal.Decimal, extra map[string]any) (*domain.Transaction, *domain.Transaction, error) {
	if fromID == toID {
		return nil, nil, domain.InvalidArgumentf("transfer source and destination are both account %d", fromID)
	}

	data := make(map[string]any, len(extra)+1)
	for k, v := range extra {
		data[k] = v
	}
	data[TransferIDKey] = ulid.Make().String()

	debit, err := m.applyDelta(ctx, tx, fromID, amount.Neg(), &toID, data)
	if err != nil {
		return nil, nil, err
	}
	credit, err := m.applyDelta(ctx, tx, toID, amount, &fromID, data)
	if err != nil {
		return nil, nil, err
	}
	return debit, credit, nil
}

func (m *BalanceManager) payload(extra map[string]any) map[string]any {
	if !m.cfg.Schema.StoresData() || len(m.cfg.BaseData)+len(extra) == 0 {
		return nil
	}
	data := make(map[string]any, len(m.cfg.BaseData)+len(extra))
	for k, v := range m.cfg.BaseData {
		data[k] = v
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

func (m *BalanceManager) atomic(ctx context.Context, op string, fn func(ctx context.Context, tx LedgerTx) error) error {
	if err := m.store.RunAtomic(ctx, fn); err != nil {
		return domain.NewStorageError(op, err)
	}
	return nil
}
