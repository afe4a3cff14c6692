package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"balance-ledger/internal/domain"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// Environment variables read by Load.
const (
	EnvDBDriver          = "LEDGER_DB_DRIVER"
	EnvDBDSN             = "LEDGER_DB_DSN"
	EnvLogLevel          = "LEDGER_LOG_LEVEL"
	EnvAutoCreateAccount = "LEDGER_AUTO_CREATE_ACCOUNT"
	EnvAccountColumns    = "LEDGER_ACCOUNT_COLUMNS"

	EnvAccountTable                     = "LEDGER_ACCOUNT_TABLE"
	EnvTransactionTable                 = "LEDGER_TRANSACTION_TABLE"
	EnvAccountIDColumn                  = "LEDGER_ACCOUNT_ID_COLUMN"
	EnvTransactionIDColumn              = "LEDGER_TRANSACTION_ID_COLUMN"
	EnvAccountBalanceAttribute          = "LEDGER_ACCOUNT_BALANCE_ATTRIBUTE"
	EnvTransactionDateAttribute         = "LEDGER_TRANSACTION_DATE_ATTRIBUTE"
	EnvTransactionAmountAttribute       = "LEDGER_TRANSACTION_AMOUNT_ATTRIBUTE"
	EnvTransactionAccountLinkAttribute  = "LEDGER_TRANSACTION_ACCOUNT_LINK_ATTRIBUTE"
	EnvTransactionDataAttribute         = "LEDGER_TRANSACTION_DATA_ATTRIBUTE"
	EnvTransactionCounterpartyAttribute = "LEDGER_TRANSACTION_COUNTERPARTY_ATTRIBUTE"
)

// ColumnSpec declares an owner-defined account column, e.g. "userId:INTEGER"
// or "userId:INTEGER:unique".
type ColumnSpec struct {
	Name   string
	Type   string
	Unique bool
}

// Config holds everything the ledger binary needs to start.
type Config struct {
	DBDriver          string
	DBDSN             string
	LogLevel          zapcore.Level
	AutoCreateAccount bool
	AccountColumns    []ColumnSpec
	Schema            domain.Schema
}

// Load reads an optional .env file (or the given files, which must exist) and
// builds the configuration from LEDGER_* environment variables.
func Load(files ...string) (*Config, error) {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DBDriver: getenv(EnvDBDriver, "sqlite"),
		DBDSN:    getenv(EnvDBDSN, "ledger.db"),
	}

	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("%s: unsupported driver %q", EnvDBDriver, cfg.DBDriver)
	}

	level, err := zapcore.ParseLevel(getenv(EnvLogLevel, "info"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}
	cfg.LogLevel = level

	if raw := getenv(EnvAutoCreateAccount, "false"); raw != "" {
		cfg.AutoCreateAccount, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvAutoCreateAccount, err)
		}
	}

	cfg.AccountColumns, err = parseColumns(os.Getenv(EnvAccountColumns))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvAccountColumns, err)
	}

	def := domain.DefaultSchema()
	cfg.Schema = domain.Schema{
		AccountTable:                     getenv(EnvAccountTable, def.AccountTable),
		TransactionTable:                 getenv(EnvTransactionTable, def.TransactionTable),
		AccountIDColumn:                  getenv(EnvAccountIDColumn, def.AccountIDColumn),
		TransactionIDColumn:              getenv(EnvTransactionIDColumn, def.TransactionIDColumn),
		AccountBalanceAttribute:          getenv(EnvAccountBalanceAttribute, def.AccountBalanceAttribute),
		TransactionDateAttribute:         getenv(EnvTransactionDateAttribute, def.TransactionDateAttribute),
		TransactionAmountAttribute:       getenv(EnvTransactionAmountAttribute, def.TransactionAmountAttribute),
		TransactionAccountLinkAttribute:  getenv(EnvTransactionAccountLinkAttribute, def.TransactionAccountLinkAttribute),
		TransactionDataAttribute:         getenv(EnvTransactionDataAttribute, def.TransactionDataAttribute),
		TransactionCounterpartyAttribute: getenv(EnvTransactionCounterpartyAttribute, def.TransactionCounterpartyAttribute),
	}
	if err := cfg.Schema.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getenv returns fallback only when key is unset, so an explicitly empty value
// can disable an optional attribute.
func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

func parseColumns(raw string) ([]ColumnSpec, error) {
	var cols []ColumnSpec
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, rest, ok := strings.Cut(part, ":")
		typ, flag, _ := strings.Cut(rest, ":")
		name, typ, flag = strings.TrimSpace(name), strings.TrimSpace(typ), strings.TrimSpace(flag)
		if !ok || typ == "" || !domain.ValidIdentifier(name) || (flag != "" && !strings.EqualFold(flag, "unique")) {
			return nil, fmt.Errorf("malformed column %q, want name:TYPE[:unique]", part)
		}
		cols = append(cols, ColumnSpec{Name: name, Type: typ, Unique: flag != ""})
	}
	return cols, nil
}
