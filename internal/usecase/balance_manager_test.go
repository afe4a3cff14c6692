package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"balance-ledger/internal/domain"
	"balance-ledger/internal/usecase"
	mock_usecase "balance-ledger/internal/usecase/mocks"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var fixedNow = time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

// decimalEq matches a decimal.Decimal by value rather than representation.
type decimalEq struct{ want decimal.Decimal }

func (m decimalEq) Matches(x interface{}) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decimalEq) String() string { return "decimal equal to " + m.want.String() }

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// entryMatcher matches an inserted transaction by account and amount.
type entryMatcher struct {
	accountID domain.AccountID
	amount    decimal.Decimal
}

func (m entryMatcher) Matches(x interface{}) bool {
	tx, ok := x.(domain.Transaction)
	return ok && tx.AccountID == m.accountID && tx.Amount.Equal(m.amount) && tx.ID == 0
}

func (m entryMatcher) String() string {
	return fmt.Sprintf("transaction on account %d of %s", m.accountID, m.amount)
}

func newStore(ctrl *gomock.Controller, tx usecase.LedgerTx) *mock_usecase.MockLedgerStore {
	store := mock_usecase.NewMockLedgerStore(ctrl)
	store.EXPECT().
		RunAtomic(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, usecase.LedgerTx) error) error {
			return fn(ctx, tx)
		}).
		AnyTimes()
	return store
}

func newManager(t *testing.T, store usecase.LedgerStore, cfg usecase.Config) *usecase.BalanceManager {
	t.Helper()
	if cfg.Schema == (domain.Schema{}) {
		cfg.Schema = domain.DefaultSchema()
	}
	m, err := usecase.NewBalanceManager(store, cfg,
		usecase.WithLogger(zaptest.NewLogger(t)),
		usecase.WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)
	return m
}

func cachedSchema() domain.Schema {
	s := domain.DefaultSchema()
	s.AccountBalanceAttribute = "balance"
	return s
}

func inserted(id domain.TransactionID) func(context.Context, domain.Transaction) (*domain.Transaction, error) {
	return func(_ context.Context, tx domain.Transaction) (*domain.Transaction, error) {
		tx.ID = id
		return &tx, nil
	}
}

func TestBalanceManager_Increase(t *testing.T) {
	storageFailure := errors.New("disk full")

	tests := []struct {
		name       string
		cfg        usecase.Config
		ref        domain.AccountRef
		amount     decimal.Decimal
		setup      func(tx *mock_usecase.MockLedgerTx)
		want       domain.TransactionID
		wantErr    error
		wantCustom error
	}{
		{
			name:   "existing account by id without cached balance",
			ref:    domain.ByID(1),
			amount: dec(50),
			setup: func(tx *mock_usecase.MockLedgerTx) {
				tx.EXPECT().FindAccountByID(gomock.Any(), domain.AccountID(1)).Return(&domain.Account{ID: 1}, nil)
				tx.EXPECT().InsertTransaction(gomock.Any(), entryMatcher{1, dec(50)}).DoAndReturn(inserted(7))
			},
			want: 7,
		},
		{
			name:   "cached balance is incremented by the same amount",
			cfg:    usecase.Config{Schema: cachedSchema()},
			ref:    domain.ByID(1),
			amount: dec(-30),
			setup: func(tx *mock_usecase.MockLedgerTx) {
				gomock.InOrder(
					tx.EXPECT().FindAccountByID(gomock.Any(), domain.AccountID(1)).Return(&domain.Account{ID: 1}, nil),
					tx.EXPECT().InsertTransaction(gomock.Any(), entryMatcher{1, dec(-30)}).DoAndReturn(inserted(8)),
					tx.EXPECT().IncrementAccountBalance(gomock.Any(), domain.AccountID(1), "balance", decimalEq{dec(-30)}).Return(nil),
				)
			},
			want: 8,
		},
		{
			name:   "unknown account id",
			ref:    domain.ByID(99),
			amount: dec(10),
			setup: func(tx *mock_usecase.MockLedgerTx) {
				tx.EXPECT().FindAccountByID(gomock.Any(), domain.AccountID(99)).Return(nil, domain.NotFoundf("account 99"))
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:   "filter creates missing account when auto-create is on",
			cfg:    usecase.Config{AutoCreateAccount: true},
			ref:    domain.ByFilter(domain.Filter{"userId": 5}),
			amount: dec(10),
			setup: func(tx *mock_usecase.MockLedgerTx) {
				tx.EXPECT().FindAccountByFilter(gomock.Any(), domain.Filter{"userId": 5}).Return(nil, domain.NotFoundf("no match"))
				tx.EXPECT().InsertAccount(gomock.Any(), domain.Fields{"userId": 5}).Return(&domain.Account{ID: 3}, nil)
				tx.EXPECT().InsertTransaction(gomock.Any(), entryMatcher{3, dec(10)}).DoAndReturn(inserted(11))
			},
			want: 11,
		},
		{
			name:   "filter reuses matching account",
			cfg:    usecase.Config{AutoCreateAccount: true},
			ref:    domain.ByFilter(domain.Filter{"userId": 5}),
			amount: dec(10),
			setup: func(tx *mock_usecase.MockLedgerTx) {
				tx.EXPECT().FindAccountByFilter(gomock.Any(), domain.Filter{"userId": 5}).Return(&domain.Account{ID: 3}, nil)
				tx.EXPECT().InsertTransaction(gomock.Any(), entryMatcher{3, dec(10)}).DoAndReturn(inserted(12))
			},
			want: 12,
		},
		{
			name:   "filter without match and auto-create off",
			ref:    domain.ByFilter(domain.Filter{"userId": 10}),
			amount: dec(10),
			setup: func(tx *mock_usecase.MockLedgerTx) {
				tx.EXPECT().FindAccountByFilter(gomock.Any(), domain.Filter{"userId": 10}).Return(nil, domain.NotFoundf("no match"))
			},
			wantErr: domain.ErrInvalidArgument,
		},
		{
			name:    "amount finer than storage scale",
			ref:     domain.ByID(1),
			amount:  decimal.RequireFromString("0.123456789"),
			setup:   func(tx *mock_usecase.MockLedgerTx) {},
			wantErr: domain.ErrInvalidArgument,
		},
		{
			name:    "empty filter",
			ref:     domain.ByFilter(domain.Filter{}),
			amount:  dec(10),
			setup:   func(tx *mock_usecase.MockLedgerTx) {},
			wantErr: domain.ErrInvalidArgument,
		},
		{
			name:    "filter with unsafe field name",
			ref:     domain.ByFilter(domain.Filter{"userId; DROP TABLE x": 1}),
			amount:  dec(10),
			setup:   func(tx *mock_usecase.MockLedgerTx) {},
			wantErr: domain.ErrInvalidArgument,
		},
		{
			name:    "filter on the cached balance column",
			cfg:     usecase.Config{Schema: cachedSchema(), AutoCreateAccount: true},
			ref:     domain.ByFilter(domain.Filter{"balance": 100}),
			amount:  dec(10),
			setup:   func(tx *mock_usecase.MockLedgerTx) {},
			wantErr: domain.ErrInvalidArgument,
		},
		{
			name:   "transaction insert failure surfaces as storage error",
			cfg:    usecase.Config{Schema: cachedSchema()},
			ref:    domain.ByID(1),
			amount: dec(10),
			setup: func(tx *mock_usecase.MockLedgerTx) {
				tx.EXPECT().FindAccountByID(gomock.Any(), domain.AccountID(1)).Return(&domain.Account{ID: 1}, nil)
				tx.EXPECT().InsertTransaction(gomock.Any(), gomock.Any()).Return(nil, storageFailure)
			},
			wantErr:    domain.ErrStorage,
			wantCustom: storageFailure,
		},
		{
			name:   "balance increment failure surfaces as storage error",
			cfg:    usecase.Config{Schema: cachedSchema()},
			ref:    domain.ByID(1),
			amount: dec(10),
			setup: func(tx *mock_usecase.MockLedgerTx) {
				tx.EXPECT().FindAccountByID(gomock.Any(), domain.AccountID(1)).Return(&domain.Account{ID: 1}, nil)
				tx.EXPECT().InsertTransaction(gomock.Any(), gomock.Any()).DoAndReturn(inserted(13))
				tx.EXPECT().IncrementAccountBalance(gomock.Any(), domain.AccountID(1), "balance", gomock.Any()).Return(storageFailure)
			},
			wantErr:    domain.ErrStorage,
			wantCustom: storageFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mTx := mock_usecase.NewMockLedgerTx(ctrl)
			tt.setup(mTx)
			m := newManager(t, newStore(ctrl, mTx), tt.cfg)

			got, err := m.Increase(context.Background(), tt.ref, tt.amount, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantCustom != nil {
					assert.ErrorIs(t, err, tt.wantCustom)
				}
				assert.Zero(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBalanceManager_Decrease_NegatesAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mTx := mock_usecase.NewMockLedgerTx(ctrl)
	mTx.EXPECT().FindAccountByID(gomock.Any(), domain.AccountID(1)).Return(&domain.Account{ID: 1}, nil)
	mTx.EXPECT().InsertTransaction(gomock.Any(), entryMatcher{1, dec(-25)}).DoAndReturn(inserted(4))
	mTx.EXPECT().IncrementAccountBalance(gomock.Any(), domain.AccountID(1), "balance", decimalEq{dec(-25)}).Return(nil)

	m := newManager(t, newStore(ctrl, mTx), usecase.Config{Schema: cachedSchema()})
	got, err := m.Decrease(context.Background(), domain.ByID(1), dec(25), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionID(4), got)
}

func TestBalanceManager_Increase_Payload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var captured domain.Transaction
	mTx := mock_usecase.NewMockLedgerTx(ctrl)
	mTx.EXPECT().FindAccountByID(gomock.Any(), domain.AccountID(1)).Return(&domain.Account{ID: 1}, nil)
	mTx.EXPECT().InsertTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx domain.Transaction) (*domain.Transaction, error) {
			captured = tx
			tx.ID = 1
			return &tx, nil
		})

	m := newManager(t, newStore(ctrl, mTx), usecase.Config{
		BaseData: map[string]any{"source": "api", "extra": "base"},
	})
	_, err := m.Increase(context.Background(), domain.ByID(1), dec(50), map[string]any{"extra": "custom"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"source": "api", "extra": "custom"}, captured.Data)
	assert.Equal(t, fixedNow, captured.Date)
	assert.Nil(t, captured.CounterpartyID)
}

func TestBalanceManager_Revert(t *testing.T) {
	linked := cachedSchema()
	linked.TransactionCounterpartyAttribute = "counterpartyId"
	counterparty := domain.AccountID(2)

	tests := []struct {
		name    string
		schema  domain.Schema
		setup   func(tx *mock_usecase.MockLedgerTx)
		want    domain.TransactionID
		wantErr error
	}{
		{
			name:   "compensating entry negates the original amount",
			schema: cachedSchema(),
			setup: func(tx *mock_usecase.MockLedgerTx) {
				tx.EXPECT().FindTransactionByID(gomock.Any(), domain.TransactionID(5)).
					Return(&domain.Transaction{ID: 5, AccountID: 1, Amount: dec(10)}, nil)
				tx.EXPECT().FindAccountByID(gomock.Any(), domain.AccountID(1)).Return(&domain.Account{ID: 1}, nil)
				tx.EXPECT().InsertTransaction(gomock.Any(), entryMatcher{1, dec(-10)}).DoAndReturn(inserted(6))
				tx.EXPECT().IncrementAccountBalance(gomock.Any(), domain.AccountID(1), "balance", decimalEq{dec(-10)}).Return(nil)
			},
			want: 6,
		},
		{
			name:   "unknown transaction",
			schema: cachedSchema(),
			setup: func(tx *mock_usecase.MockLedgerTx) {
				tx.EXPECT().FindTransactionByID(gomock.Any(), domain.TransactionID(5)).Return(nil, domain.NotFoundf("transaction 5"))
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:   "transfer leg compensates both accounts",
			schema: linked,
			setup: func(tx *mock_usecase.MockLedgerTx) {
				tx.EXPECT().FindTransactionByID(gomock.Any(), domain.TransactionID(5)).
					Return(&domain.Transaction{ID: 5, AccountID: 1, Amount: dec(-40), CounterpartyID: &counterparty}, nil)
				tx.EXPECT().FindAccountByID(gomock.Any(), domain.AccountID(1)).Return(&domain.Account{ID: 1}, nil)
				tx.EXPECT().FindAccountByID(gomock.Any(), domain.AccountID(2)).Return(&domain.Account{ID: 2}, nil)
				tx.EXPECT().InsertTransaction(gomock.Any(), entryMatcher{1, dec(40)}).DoAndReturn(inserted(20))
				tx.EXPECT().IncrementAccountBalance(gomock.Any(), domain.AccountID(1), "balance", decimalEq{dec(40)}).Return(nil)
				tx.EXPECT().InsertTransaction(gomock.Any(), entryMatcher{2, dec(-40)}).DoAndReturn(inserted(21))
				tx.EXPECT().IncrementAccountBalance(gomock.Any(), domain.AccountID(2), "balance", decimalEq{dec(-40)}).Return(nil)
			},
			want: 20,
		},
		{
			name:   "counterparty ignored when schema does not link legs",
			schema: cachedSchema(),
			setup: func(tx *mock_usecase.MockLedgerTx) {
				tx.EXPECT().FindTransactionByID(gomock.Any(), domain.TransactionID(5)).
					Return(&domain.Transaction{ID: 5, AccountID: 1, Amount: dec(-40), CounterpartyID: &counterparty}, nil)
				tx.EXPECT().FindAccountByID(gomock.Any(), domain.AccountID(1)).Return(&domain.Account{ID: 1}, nil)
				tx.EXPECT().InsertTransaction(gomock.Any(), entryMatcher{1, dec(40)}).DoAndReturn(inserted(22))
				tx.EXPECT().IncrementAccountBalance(gomock.Any(), domain.AccountID(1), "balance", decimalEq{dec(40)}).Return(nil)
			},
			want: 22,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mTx := mock_usecase.NewMockLedgerTx(ctrl)
			tt.setup(mTx)
			m := newManager(t, newStore(ctrl, mTx), usecase.Config{Schema: tt.schema})

			got, err := m.Revert(context.Background(), 5, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Reverting twice is a second economic event, not a no-op.
func TestBalanceManager_Revert_IsNotIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mTx := mock_usecase.NewMockLedgerTx(ctrl)
	mTx.EXPECT().FindTransactionByID(gomock.Any(), domain.TransactionID(5)).
		Return(&domain.Transaction{ID: 5, AccountID: 1, Amount: dec(10)}, nil).Times(2)
	mTx.EXPECT().FindAccountByID(gomock.Any(), domain.AccountID(1)).Return(&domain.Account{ID: 1}, nil).Times(2)
	gomock.InOrder(
		mTx.EXPECT().InsertTransaction(gomock.Any(), entryMatcher{1, dec(-10)}).DoAndReturn(inserted(6)),
		mTx.EXPECT().InsertTransaction(gomock.Any(), entryMatcher{1, dec(-10)}).DoAndReturn(inserted(7)),
	)

	m := newManager(t, newStore(ctrl, mTx), usecase.Config{})
	first, err := m.Revert(context.Background(), 5, nil)
	require.NoError(t, err)
	second, err := m.Revert(context.Background(), 5, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestBalanceManager_Transfer(t *testing.T) {
	linked := cachedSchema()
	linked.TransactionCounterpartyAttribute = "counterpartyId"

	t.Run("records two linked legs sharing a transfer id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		var legs []domain.Transaction
		mTx := mock_usecase.NewMockLedgerTx(ctrl)
		mTx.EXPECT().FindAccountByID(gomock.Any(), domain.AccountID(1)).Return(&domain.Account{ID: 1}, nil)
		mTx.EXPECT().FindAccountByID(gomock.Any(), domain.AccountID(2)).Return(&domain.Account{ID: 2}, nil)
		mTx.EXPECT().InsertTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tx domain.Transaction) (*domain.Transaction, error) {
				tx.ID = domain.TransactionID(len(legs) + 1)
				legs = append(legs, tx)
				return &tx, nil
			}).Times(2)
		mTx.EXPECT().IncrementAccountBalance(gomock.Any(), domain.AccountID(1), "balance", decimalEq{dec(-15)}).Return(nil)
		mTx.EXPECT().IncrementAccountBalance(gomock.Any(), domain.AccountID(2), "balance", decimalEq{dec(15)}).Return(nil)

		m := newManager(t, newStore(ctrl, mTx), usecase.Config{Schema: linked})
		ids, err := m.Transfer(context.Background(), domain.ByID(1), domain.ByID(2), dec(15), map[string]any{"memo": "rent"})
		require.NoError(t, err)
		assert.Equal(t, [2]domain.TransactionID{1, 2}, ids)

		require.Len(t, legs, 2)
		require.NotNil(t, legs[0].CounterpartyID)
		require.NotNil(t, legs[1].CounterpartyID)
		assert.Equal(t, domain.AccountID(2), *legs[0].CounterpartyID)
		assert.Equal(t, domain.AccountID(1), *legs[1].CounterpartyID)
		assert.Equal(t, "rent", legs[0].Data["memo"])
		assert.NotEmpty(t, legs[0].Data[usecase.TransferIDKey])
		assert.Equal(t, legs[0].Data[usecase.TransferIDKey], legs[1].Data[usecase.TransferIDKey])
	})

	t.Run("amount finer than storage scale is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newManager(t, newStore(ctrl, mock_usecase.NewMockLedgerTx(ctrl)), usecase.Config{Schema: linked})
		_, err := m.Transfer(context.Background(), domain.ByID(1), domain.ByID(2), decimal.RequireFromString("1.000000001"), nil)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("same account is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mTx := mock_usecase.NewMockLedgerTx(ctrl)
		mTx.EXPECT().FindAccountByID(gomock.Any(), domain.AccountID(1)).Return(&domain.Account{ID: 1}, nil).Times(2)

		m := newManager(t, newStore(ctrl, mTx), usecase.Config{Schema: linked})
		_, err := m.Transfer(context.Background(), domain.ByID(1), domain.ByID(1), dec(15), nil)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

func TestBalanceManager_CalculateBalance(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(tx *mock_usecase.MockLedgerTx)
		want    decimal.Decimal
		wantErr error
	}{
		{
			name: "sums the ledger",
			setup: func(tx *mock_usecase.MockLedgerTx) {
				tx.EXPECT().FindAccountByID(gomock.Any(), domain.AccountID(1)).Return(&domain.Account{ID: 1, Balance: dec(999)}, nil)
				tx.EXPECT().SumTransactionAmounts(gomock.Any(), domain.AccountID(1)).Return(dec(25), nil)
			},
			want: dec(25),
		},
		{
			name: "account without transactions",
			setup: func(tx *mock_usecase.MockLedgerTx) {
				tx.EXPECT().FindAccountByID(gomock.Any(), domain.AccountID(1)).Return(&domain.Account{ID: 1}, nil)
				tx.EXPECT().SumTransactionAmounts(gomock.Any(), domain.AccountID(1)).Return(decimal.Zero, nil)
			},
			want: decimal.Zero,
		},
		{
			name: "missing account",
			setup: func(tx *mock_usecase.MockLedgerTx) {
				tx.EXPECT().FindAccountByID(gomock.Any(), domain.AccountID(1)).Return(nil, domain.NotFoundf("account 1"))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mTx := mock_usecase.NewMockLedgerTx(ctrl)
			tt.setup(mTx)
			m := newManager(t, newStore(ctrl, mTx), usecase.Config{Schema: cachedSchema()})

			got, err := m.CalculateBalance(context.Background(), 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestBalanceManager_Balance(t *testing.T) {
	t.Run("reads cached column when configured", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mTx := mock_usecase.NewMockLedgerTx(ctrl)
		mTx.EXPECT().FindAccountByID(gomock.Any(), domain.AccountID(1)).Return(&domain.Account{ID: 1, Balance: dec(70)}, nil)

		m := newManager(t, newStore(ctrl, mTx), usecase.Config{Schema: cachedSchema()})
		got, err := m.Balance(context.Background(), 1)
		require.NoError(t, err)
		assert.True(t, dec(70).Equal(got))
	})

	t.Run("falls back to summation without cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mTx := mock_usecase.NewMockLedgerTx(ctrl)
		mTx.EXPECT().FindAccountByID(gomock.Any(), domain.AccountID(1)).Return(&domain.Account{ID: 1}, nil)
		mTx.EXPECT().SumTransactionAmounts(gomock.Any(), domain.AccountID(1)).Return(dec(12), nil)

		m := newManager(t, newStore(ctrl, mTx), usecase.Config{})
		got, err := m.Balance(context.Background(), 1)
		require.NoError(t, err)
		assert.True(t, dec(12).Equal(got))
	})
}

func TestBalanceManager_ResolveAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mTx := mock_usecase.NewMockLedgerTx(ctrl)
	mTx.EXPECT().FindAccountByFilter(gomock.Any(), domain.Filter{"userId": 5}).Return(nil, domain.NotFoundf("no match")).Times(2)
	mTx.EXPECT().InsertAccount(gomock.Any(), domain.Fields{"userId": 5}).Return(&domain.Account{ID: 9}, nil)

	// Auto-creation is decided per call, not by the configured default.
	m := newManager(t, newStore(ctrl, mTx), usecase.Config{AutoCreateAccount: false})

	id, err := m.ResolveAccount(context.Background(), domain.ByFilter(domain.Filter{"userId": 5}), true)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountID(9), id)

	_, err = m.ResolveAccount(context.Background(), domain.ByFilter(domain.Filter{"userId": 5}), false)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestBalanceManager_Statement(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	history := []domain.Transaction{{ID: 2, AccountID: 1, Amount: dec(-5)}, {ID: 1, AccountID: 1, Amount: dec(20)}}
	mTx := mock_usecase.NewMockLedgerTx(ctrl)
	mTx.EXPECT().FindAccountByID(gomock.Any(), domain.AccountID(1)).Return(&domain.Account{ID: 1}, nil)
	mTx.EXPECT().ListTransactions(gomock.Any(), domain.AccountID(1), 10).Return(history, nil)

	m := newManager(t, newStore(ctrl, mTx), usecase.Config{})
	got, err := m.Statement(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, history, got)
}

func TestNewBalanceManager_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := usecase.NewBalanceManager(nil, usecase.Config{Schema: domain.DefaultSchema()})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	bad := domain.DefaultSchema()
	bad.AccountBalanceAttribute = "balance; --"
	_, err = usecase.NewBalanceManager(mock_usecase.NewMockLedgerStore(ctrl), usecase.Config{Schema: bad})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestBalanceManager_UnclassifiedStoreErrorIsStorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mock_usecase.NewMockLedgerStore(ctrl)
	store.EXPECT().RunAtomic(gomock.Any(), gomock.Any()).Return(context.DeadlineExceeded)

	m := newManager(t, store, usecase.Config{})
	_, err := m.Increase(context.Background(), domain.ByID(1), dec(1), nil)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
