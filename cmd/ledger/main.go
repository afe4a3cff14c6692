package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"balance-ledger/internal/config"
	"balance-ledger/internal/domain"
	"balance-ledger/internal/gateway"
	"balance-ledger/internal/usecase"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	// Define command-line flags
	op := flag.String("op", "", "Operation: resolve, increase, decrease, revert, transfer, balance, calculate, statement, import, audit (required)")
	accountStr := flag.String("account", "", "Account id or filter such as userId=5")
	toStr := flag.String("to", "", "Destination account for transfer")
	amountStr := flag.String("amount", "", "Amount, e.g. 50 or 12.75")
	txID := flag.Int64("tx", 0, "Transaction id to revert")
	dataStr := flag.String("data", "", "Extra payload as key=value;key2=value2")
	limit := flag.Int("limit", 0, "Maximum statement rows (0 = all)")
	file := flag.String("file", "", "Postings CSV for import")
	envFile := flag.String("env", "", "Optional env file to load before reading LEDGER_* variables")
	flag.Parse()

	if *op == "" {
		fmt.Println("Error: -op is required.")
		flag.Usage()
		os.Exit(1)
	}

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger, err := zc.Build()
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Dependency Injection (Wiring the application) ---

	// 1. Open the ledger store (the outermost layer)
	store, err := gateway.OpenSQLStore(ctx, cfg.DBDriver, cfg.DBDSN, cfg.Schema)
	if err != nil {
		logger.Fatal("open ledger store", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer store.Close()

	columns := make([]gateway.Column, 0, len(cfg.AccountColumns))
	for _, c := range cfg.AccountColumns {
		columns = append(columns, gateway.Column{Name: c.Name, Type: c.Type, Unique: c.Unique})
	}
	if err := store.EnsureTables(ctx, columns...); err != nil {
		logger.Fatal("ensure ledger tables", zap.Error(err))
	}

	// 2. Create the manager and inject the store (the core logic layer)
	manager, err := usecase.NewBalanceManager(store, usecase.Config{
		Schema:            cfg.Schema,
		AutoCreateAccount: cfg.AutoCreateAccount,
	}, usecase.WithLogger(logger))
	if err != nil {
		logger.Fatal("create balance manager", zap.Error(err))
	}

	// --- Execute the Operation ---
	args := cliArgs{account: *accountStr, to: *toStr, amount: *amountStr, txID: *txID, data: *dataStr, limit: *limit, file: *file}
	result, err := run(ctx, *op, manager, store, logger, args)
	if err != nil {
		logger.Error("operation failed", zap.String("op", *op), zap.Error(err))
		os.Exit(2)
	}

	// --- Present the Output ---
	if result == nil {
		return
	}
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to generate JSON output: %v", err)
	}
	fmt.Println(string(output))
}

type cliArgs struct {
	account, to, amount string
	txID                int64
	data                string
	limit               int
	file                string
}

func run(ctx context.Context, op string, m *usecase.BalanceManager, store *gateway.SQLStore, logger *zap.Logger, a cliArgs) (any, error) {
	switch op {
	case "resolve":
		ref, err := gateway.ParseAccountRef(a.account)
		if err != nil {
			return nil, err
		}
		id, err := m.ResolveAccount(ctx, ref, false)
		return map[string]any{"account_id": id}, err

	case "increase", "decrease":
		ref, amount, extra, err := postingArgs(a)
		if err != nil {
			return nil, err
		}
		apply := m.Increase
		if op == "decrease" {
			apply = m.Decrease
		}
		id, err := apply(ctx, ref, amount, extra)
		return map[string]any{"transaction_id": id}, err

	case "revert":
		if a.txID <= 0 {
			return nil, domain.InvalidArgumentf("-tx is required")
		}
		extra, err := dataArg(a.data)
		if err != nil {
			return nil, err
		}
		id, err := m.Revert(ctx, domain.TransactionID(a.txID), extra)
		return map[string]any{"transaction_id": id}, err

	case "transfer":
		from, amount, extra, err := postingArgs(a)
		if err != nil {
			return nil, err
		}
		to, err := gateway.ParseAccountRef(a.to)
		if err != nil {
			return nil, err
		}
		ids, err := m.Transfer(ctx, from, to, amount, extra)
		return map[string]any{"debit_transaction_id": ids[0], "credit_transaction_id": ids[1]}, err

	case "balance", "calculate":
		id, err := accountIDArg(a.account)
		if err != nil {
			return nil, err
		}
		get := m.Balance
		if op == "calculate" {
			get = m.CalculateBalance
		}
		balance, err := get(ctx, id)
		return map[string]any{"account_id": id, "balance": balance}, err

	case "statement":
		id, err := accountIDArg(a.account)
		if err != nil {
			return nil, err
		}
		txs, err := m.Statement(ctx, id, a.limit)
		if err != nil {
			return nil, err
		}
		return nil, gateway.NewCSVStatementWriter().WriteStatement(os.Stdout, txs)

	case "import":
		if a.file == "" {
			return nil, domain.InvalidArgumentf("-file is required")
		}
		postings, err := gateway.NewCSVPostingReader().ReadPostings(ctx, a.file)
		if err != nil {
			return nil, err
		}
		ids := make([]domain.TransactionID, 0, len(postings))
		for _, p := range postings {
			id, err := m.Increase(ctx, p.Account, p.Amount, p.Data)
			if err != nil {
				return map[string]any{"imported": ids}, fmt.Errorf("line %d: %w", p.Line, err)
			}
			ids = append(ids, id)
		}
		logger.Info("postings imported", zap.String("file", a.file), zap.Int("count", len(ids)))
		return map[string]any{"imported": ids}, nil

	case "audit":
		auditor, err := usecase.NewDriftAuditor(store, m.Schema(), logger)
		if err != nil {
			return nil, err
		}
		var ids []domain.AccountID
		if a.account != "" {
			id, err := accountIDArg(a.account)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		report, err := auditor.Audit(ctx, ids...)
		if err != nil {
			return nil, err
		}
		return report, nil

	default:
		return nil, domain.InvalidArgumentf("unknown operation %q", op)
	}
}

func postingArgs(a cliArgs) (domain.AccountRef, decimal.Decimal, map[string]any, error) {
	ref, err := gateway.ParseAccountRef(a.account)
	if err != nil {
		return domain.AccountRef{}, decimal.Zero, nil, err
	}
	amount, err := decimal.NewFromString(a.amount)
	if err != nil {
		return domain.AccountRef{}, decimal.Zero, nil, domain.InvalidArgumentf("could not parse amount '%s'", a.amount)
	}
	extra, err := dataArg(a.data)
	if err != nil {
		return domain.AccountRef{}, decimal.Zero, nil, err
	}
	return ref, amount, extra, nil
}

func dataArg(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	return gateway.ParsePayload(raw)
}

func accountIDArg(raw string) (domain.AccountID, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.InvalidArgumentf("-account must be an account id, got '%s'", raw)
	}
	return domain.AccountID(id), nil
}
