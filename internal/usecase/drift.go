package usecase

import (
	"context"
	"time"

	"balance-ledger/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DriftAuditor compares cached account balances against their ledgers.
// It only reports; repairing drift is left to the operator.
type DriftAuditor struct {
	store  LedgerStore
	schema domain.Schema
	logger *zap.Logger
}

// NewDriftAuditor creates a new auditor. The schema must cache balances.
func NewDriftAuditor(store LedgerStore, schema domain.Schema, logger *zap.Logger) (*DriftAuditor, error) {
	if store == nil {
		return nil, domain.InvalidArgumentf("ledger store is required")
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if !schema.CachesBalance() {
		return nil, domain.InvalidArgumentf("drift audit needs an account balance attribute")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DriftAuditor{store: store, schema: schema, logger: logger}, nil
}

// Audit checks the given accounts, or every account when none are given.
func (a *DriftAuditor) Audit(ctx context.Context, ids ...domain.AccountID) (report *domain.DriftReport, err error) {
	start := time.Now()
	defer func() { observe("audit", start, err) }()

	report = &domain.DriftReport{
		Summary: domain.DriftSummary{TotalAbsDrift: decimal.Zero},
		Details: make([]domain.DriftDetail, 0),
	}

	err = a.store.RunAtomic(ctx, func(ctx context.Context, tx LedgerTx) error {
		if len(ids) == 0 {
			all, err := tx.ListAccountIDs(ctx)
			if err != nil {
				return err
			}
			ids = all
		}

		for _, id := range ids {
			acc, err := tx.FindAccountByID(ctx, id)
			if err != nil {
				return err
			}
			computed, err := tx.SumTransactionAmounts(ctx, id)
			if err != nil {
				return err
			}

			report.Summary.AccountsChecked++
			if acc.Balance.Equal(computed) {
				continue
			}
			drift := acc.Balance.Sub(computed)
			report.Summary.DriftedAccounts++
			report.Summary.TotalAbsDrift = report.Summary.TotalAbsDrift.Add(drift.Abs())
			report.Details = append(report.Details, domain.DriftDetail{
				AccountID: id,
				Cached:    acc.Balance,
				Computed:  computed,
				Drift:     drift,
			})
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewStorageError("audit", err)
	}

	if report.Summary.DriftedAccounts > 0 {
		a.logger.Warn("balance drift detected",
			zap.Int("accounts_checked", report.Summary.AccountsChecked),
			zap.Int("drifted_accounts", report.Summary.DriftedAccounts),
			zap.Stringer("total_abs_drift", report.Summary.TotalAbsDrift),
		)
	}
	return report, nil
}
