package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"balance-ledger/internal/domain"
	"balance-ledger/internal/usecase"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Compile-time contract assertion ensuring the store satisfies the usecase interface.
var (
	_ usecase.LedgerStore = (*SQLStore)(nil)
	_ usecase.LedgerTx    = (*sqlTx)(nil)
)

var columnTypePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_ (),]*$`)

type dialect struct {
	name       string
	sqlDriver  string
	positional bool // $1, $2 placeholders instead of ?
	// minorUnits stores amounts as INTEGER multiples of 10^-AmountScale.
	minorUnits bool
}

var dialects = map[string]dialect{
	DriverSQLite:   {name: DriverSQLite, sqlDriver: "sqlite", minorUnits: true},
	DriverPostgres: {name: DriverPostgres, sqlDriver: "pgx", positional: true},
}

func (d dialect) placeholder(n int) string {
	if d.positional {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Column describes an owner-defined account column for EnsureTables.
// Unique adds a UNIQUE constraint, which keeps concurrent auto-creation from
// inserting the same account twice.
type Column struct {
	Name   string
	Type   string
	Unique bool
}

// SQLStore implements usecase.LedgerStore on a relational database. Table and
// column names come from the schema.
type SQLStore struct {
	db      *sql.DB
	schema  domain.Schema
	dialect dialect
}

// OpenSQLStore opens a database for driver ("sqlite" or "postgres") and wraps it.
func OpenSQLStore(ctx context.Context, driver, dsn string, schema domain.Schema) (*SQLStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, domain.InvalidArgumentf("unsupported driver %q", driver)
	}
	db, err := sql.Open(d.sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if d.name == DriverSQLite {
		// sqlite allows a single writer; one connection serializes transactions.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	store, err := NewSQLStore(db, driver, schema)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLStore wraps an already opened database.
func NewSQLStore(db *sql.DB, driver string, schema domain.Schema) (*SQLStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, domain.InvalidArgumentf("unsupported driver %q", driver)
	}
	if db == nil {
		return nil, domain.InvalidArgumentf("database handle is required")
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &SQLStore{db: db, schema: schema, dialect: d}, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *SQLStore) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *SQLStore) Close() error { return s.db.Close() }

// EnsureTables creates the account and transaction tables when missing.
// extra declares owner-defined account columns such as a user key.
func (s *SQLStore) EnsureTables(ctx context.Context, extra ...Column) error {
	for _, c := range extra {
		if !domain.ValidIdentifier(c.Name) || !columnTypePattern.MatchString(c.Type) {
			return domain.InvalidArgumentf("invalid account column %q %q", c.Name, c.Type)
		}
	}
	for _, stmt := range s.ddl(extra) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return domain.NewStorageError("ensure tables", err)
		}
	}
	return nil
}

func (s *SQLStore) ddl(extra []Column) []string {
	sc := s.schema
	idType, amountType, intType := "INTEGER PRIMARY KEY AUTOINCREMENT", "INTEGER", "INTEGER"
	if s.dialect.name == DriverPostgres {
		idType, amountType, intType = "BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY", fmt.Sprintf("NUMERIC(38,%d)", domain.AmountScale), "BIGINT"
	}

	account := []string{quote(sc.AccountIDColumn) + " " + idType}
	for _, c := range extra {
		col := quote(c.Name) + " " + c.Type
		if c.Unique {
			col += " UNIQUE"
		}
		account = append(account, col)
	}
	if sc.CachesBalance() {
		account = append(account, quote(sc.AccountBalanceAttribute)+" "+amountType+" NOT NULL DEFAULT 0")
	}

	txCols := []string{
		quote(sc.TransactionIDColumn) + " " + idType,
		quote(sc.TransactionAccountLinkAttribute) + " " + intType + " NOT NULL REFERENCES " +
			quote(sc.AccountTable) + "(" + quote(sc.AccountIDColumn) + ")",
		quote(sc.TransactionAmountAttribute) + " " + amountType + " NOT NULL",
		quote(sc.TransactionDateAttribute) + " " + intType + " NOT NULL",
	}
	if sc.StoresData() {
		txCols = append(txCols, quote(sc.TransactionDataAttribute)+" TEXT")
	}
	if sc.LinksCounterparty() {
		txCols = append(txCols, quote(sc.TransactionCounterpartyAttribute)+" "+intType)
	}

	index := fmt.Sprintf("idx_%s_%s", sc.TransactionTable, sc.TransactionAccountLinkAttribute)
	return []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", quote(sc.AccountTable), strings.Join(account, ",\n\t")),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", quote(sc.TransactionTable), strings.Join(txCols, ",\n\t")),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", quote(index), quote(sc.TransactionTable), quote(sc.TransactionAccountLinkAttribute)),
	}
}

// RunAtomic runs fn inside a database transaction and commits only when fn succeeds.
func (s *SQLStore) RunAtomic(ctx context.Context, fn func(ctx context.Context, tx usecase.LedgerTx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewStorageError("begin", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(ctx, &sqlTx{tx: tx, store: s}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return domain.NewStorageError("commit", err)
	}
	return nil
}

func quote(ident string) string {
	return `"` + ident + `"`
}
