package gateway

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"balance-ledger/internal/domain"

	"github.com/shopspring/decimal"
)

// sqlTx implements usecase.LedgerTx on an open database transaction.
type sqlTx struct {
	tx    *sql.Tx
	store *SQLStore
}

func (t *sqlTx) ph(n int) string { return t.store.dialect.placeholder(n) }

func (t *sqlTx) FindAccountByID(ctx context.Context, id domain.AccountID) (*domain.Account, error) {
	sc := t.store.schema
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = %s",
		quote(sc.AccountTable), quote(sc.AccountIDColumn), t.ph(1))
	acc, err := t.queryAccount(ctx, "find account", query, int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("account %d", id)
	}
	return acc, err
}

func (t *sqlTx) FindAccountByFilter(ctx context.Context, filter domain.Filter) (*domain.Account, error) {
	if len(filter) == 0 {
		return nil, domain.InvalidArgumentf("account filter is empty")
	}
	sc := t.store.schema
	conds := make([]string, 0, len(filter))
	args := make([]any, 0, len(filter))
	for i, key := range filter.Keys() {
		if !domain.ValidIdentifier(key) {
			return nil, domain.InvalidArgumentf("account filter field %q is not a valid identifier", key)
		}
		conds = append(conds, quote(key)+" = "+t.ph(i+1))
		args = append(args, filter[key])
	}
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s ORDER BY %s LIMIT 1",
		quote(sc.AccountTable), strings.Join(conds, " AND "), quote(sc.AccountIDColumn))
	acc, err := t.queryAccount(ctx, "find account by filter", query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("account matching %v", map[string]any(filter))
	}
	return acc, err
}

func (t *sqlTx) InsertAccount(ctx context.Context, fields domain.Fields) (*domain.Account, error) {
	sc := t.store.schema
	var query string
	args := make([]any, 0, len(fields))
	if len(fields) == 0 {
		query = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s", quote(sc.AccountTable), quote(sc.AccountIDColumn))
	} else {
		keys := domain.Filter(fields).Keys()
		cols := make([]string, 0, len(keys))
		phs := make([]string, 0, len(keys))
		for i, key := range keys {
			if !domain.ValidIdentifier(key) {
				return nil, domain.InvalidArgumentf("account field %q is not a valid identifier", key)
			}
			cols = append(cols, quote(key))
			phs = append(phs, t.ph(i+1))
			args = append(args, fields[key])
		}
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			quote(sc.AccountTable), strings.Join(cols, ", "), strings.Join(phs, ", "), quote(sc.AccountIDColumn))
	}

	var id int64
	if err := t.tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return nil, domain.NewStorageError("insert account", err)
	}
	return t.FindAccountByID(ctx, domain.AccountID(id))
}

func (t *sqlTx) IncrementAccountBalance(ctx context.Context, id domain.AccountID, field string, delta decimal.Decimal) error {
	if !domain.ValidIdentifier(field) {
		return domain.InvalidArgumentf("balance field %q is not a valid identifier", field)
	}
	arg, err := t.store.dialect.amountArg(delta)
	if err != nil {
		return err
	}
	sc := t.store.schema
	query := fmt.Sprintf("UPDATE %s SET %s = COALESCE(%s, 0) + %s WHERE %s = %s RETURNING %s",
		quote(sc.AccountTable), quote(field), quote(field), t.ph(1), quote(sc.AccountIDColumn), t.ph(2), quote(field))
	var raw any
	err = t.tx.QueryRowContext(ctx, query, arg, int64(id)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundf("account %d", id)
	}
	if err != nil {
		return domain.NewStorageError("increment balance", err)
	}
	if _, err := t.store.dialect.amountValue(raw); err != nil {
		return domain.InvalidArgumentf("balance of account %d is out of range: %v", id, err)
	}
	return nil
}

func (t *sqlTx) ListAccountIDs(ctx context.Context) ([]domain.AccountID, error) {
	sc := t.store.schema
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		quote(sc.AccountIDColumn), quote(sc.AccountTable), quote(sc.AccountIDColumn))
	rows, err := t.tx.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.NewStorageError("list accounts", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []domain.AccountID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, domain.NewStorageError("list accounts", err)
		}
		ids = append(ids, domain.AccountID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list accounts", err)
	}
	return ids, nil
}

func (t *sqlTx) InsertTransaction(ctx context.Context, rec domain.Transaction) (*domain.Transaction, error) {
	sc := t.store.schema
	if rec.Date.IsZero() {
		rec.Date = time.Now()
	}
	rec.Date = time.Unix(rec.Date.Unix(), 0).UTC()

	cols := []string{
		quote(sc.TransactionAccountLinkAttribute),
		quote(sc.TransactionAmountAttribute),
		quote(sc.TransactionDateAttribute),
	}
	amount, err := t.store.dialect.amountArg(rec.Amount)
	if err != nil {
		return nil, err
	}
	args := []any{int64(rec.AccountID), amount, rec.Date.Unix()}
	if sc.StoresData() {
		var payload any
		if len(rec.Data) > 0 {
			raw, err := json.Marshal(rec.Data)
			if err != nil {
				return nil, domain.InvalidArgumentf("encode transaction data: %v", err)
			}
			payload = string(raw)
		}
		cols = append(cols, quote(sc.TransactionDataAttribute))
		args = append(args, payload)
	} else {
		rec.Data = nil
	}
	if sc.LinksCounterparty() {
		var counterparty any
		if rec.CounterpartyID != nil {
			counterparty = int64(*rec.CounterpartyID)
		}
		cols = append(cols, quote(sc.TransactionCounterpartyAttribute))
		args = append(args, counterparty)
	} else {
		rec.CounterpartyID = nil
	}

	phs := make([]string, len(cols))
	for i := range cols {
		phs[i] = t.ph(i + 1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		quote(sc.TransactionTable), strings.Join(cols, ", "), strings.Join(phs, ", "), quote(sc.TransactionIDColumn))

	var id int64
	if err := t.tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return nil, domain.NewStorageError("insert transaction", err)
	}
	rec.ID = domain.TransactionID(id)
	return &rec, nil
}

func (t *sqlTx) FindTransactionByID(ctx context.Context, id domain.TransactionID) (*domain.Transaction, error) {
	sc := t.store.schema
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		t.transactionColumns(), quote(sc.TransactionTable), quote(sc.TransactionIDColumn), t.ph(1))
	rows, err := t.tx.QueryContext(ctx, query, int64(id))
	if err != nil {
		return nil, domain.NewStorageError("find transaction", err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, domain.NewStorageError("find transaction", err)
		}
		return nil, domain.NotFoundf("transaction %d", id)
	}
	rec, err := t.scanTransaction(rows)
	if err != nil {
		return nil, domain.NewStorageError("find transaction", err)
	}
	return rec, nil
}

func (t *sqlTx) SumTransactionAmounts(ctx context.Context, accountID domain.AccountID) (decimal.Decimal, error) {
	sc := t.store.schema
	query := fmt.Sprintf("SELECT COALESCE(SUM(%s), 0) FROM %s WHERE %s = %s",
		quote(sc.TransactionAmountAttribute), quote(sc.TransactionTable), quote(sc.TransactionAccountLinkAttribute), t.ph(1))
	var raw any
	if err := t.tx.QueryRowContext(ctx, query, int64(accountID)).Scan(&raw); err != nil {
		return decimal.Zero, domain.NewStorageError("sum transactions", err)
	}
	sum, err := t.store.dialect.amountValue(raw)
	if err != nil {
		return decimal.Zero, domain.NewStorageError("sum transactions", err)
	}
	return sum, nil
}

func (t *sqlTx) ListTransactions(ctx context.Context, accountID domain.AccountID, limit int) ([]domain.Transaction, error) {
	sc := t.store.schema
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s ORDER BY %s DESC",
		t.transactionColumns(), quote(sc.TransactionTable), quote(sc.TransactionAccountLinkAttribute), t.ph(1), quote(sc.TransactionIDColumn))
	args := []any{int64(accountID)}
	if limit > 0 {
		query += " LIMIT " + t.ph(2)
		args = append(args, limit)
	}

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageError("list transactions", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]domain.Transaction, 0)
	for rows.Next() {
		rec, err := t.scanTransaction(rows)
		if err != nil {
			return nil, domain.NewStorageError("list transactions", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list transactions", err)
	}
	return out, nil
}

// transactionColumns selects NULL in place of disabled optional attributes so
// scanTransaction always sees the same shape.
func (t *sqlTx) transactionColumns() string {
	sc := t.store.schema
	data, counterparty := "NULL", "NULL"
	if sc.StoresData() {
		data = quote(sc.TransactionDataAttribute)
	}
	if sc.LinksCounterparty() {
		counterparty = quote(sc.TransactionCounterpartyAttribute)
	}
	return strings.Join([]string{
		quote(sc.TransactionIDColumn),
		quote(sc.TransactionAccountLinkAttribute),
		quote(sc.TransactionAmountAttribute),
		quote(sc.TransactionDateAttribute),
		data,
		counterparty,
	}, ", ")
}

func (t *sqlTx) scanTransaction(rows *sql.Rows) (*domain.Transaction, error) {
	var (
		id, accountID, date int64
		amount              any
		data                sql.NullString
		counterparty        sql.NullInt64
	)
	if err := rows.Scan(&id, &accountID, &amount, &date, &data, &counterparty); err != nil {
		return nil, err
	}
	value, err := t.store.dialect.amountValue(amount)
	if err != nil {
		return nil, err
	}
	rec := &domain.Transaction{
		ID:        domain.TransactionID(id),
		AccountID: domain.AccountID(accountID),
		Amount:    value,
		Date:      time.Unix(date, 0).UTC(),
	}
	if data.Valid && data.String != "" {
		if err := json.Unmarshal([]byte(data.String), &rec.Data); err != nil {
			return nil, fmt.Errorf("decode transaction data: %w", err)
		}
	}
	if counterparty.Valid {
		cp := domain.AccountID(counterparty.Int64)
		rec.CounterpartyID = &cp
	}
	return rec, nil
}

func (t *sqlTx) queryAccount(ctx context.Context, op, query string, args ...any) (*domain.Account, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, domain.NewStorageError(op, err)
		}
		return nil, sql.ErrNoRows
	}
	cols, err := rows.Columns()
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, domain.NewStorageError(op, err)
	}

	sc := t.store.schema
	acc := &domain.Account{Fields: domain.Fields{}, Balance: decimal.Zero}
	for i, col := range cols {
		switch col {
		case sc.AccountIDColumn:
			id, err := toInt64(vals[i])
			if err != nil {
				return nil, domain.NewStorageError(op, err)
			}
			acc.ID = domain.AccountID(id)
		case sc.AccountBalanceAttribute:
			balance, err := t.store.dialect.amountValue(vals[i])
			if err != nil {
				return nil, domain.NewStorageError(op, err)
			}
			acc.Balance = balance
		default:
			if b, ok := vals[i].([]byte); ok {
				vals[i] = string(b)
			}
			acc.Fields[col] = vals[i]
		}
	}
	return acc, nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return x, nil
	case int64:
		return decimal.NewFromInt(x), nil
	case float64, float32, string, []byte:
		var d decimal.Decimal
		if err := d.Scan(x); err != nil {
			return decimal.Zero, err
		}
		return d, nil
	case driver.Valuer:
		inner, err := x.Value()
		if err != nil {
			return decimal.Zero, err
		}
		if _, again := inner.(driver.Valuer); again {
			return decimal.Zero, fmt.Errorf("unsupported numeric value %T", v)
		}
		return toDecimal(inner)
	default:
		return decimal.Zero, fmt.Errorf("unsupported numeric value %T", v)
	}
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int32:
		return int64(x), nil
	case int:
		return int64(x), nil
	case string:
		return strconv.ParseInt(x, 10, 64)
	case []byte:
		return strconv.ParseInt(string(x), 10, 64)
	default:
		return 0, fmt.Errorf("unsupported id value %T", v)
	}
}
