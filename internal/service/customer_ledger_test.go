package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"stoktakip/internal/apierror"
	"stoktakip/internal/dto"
	"stoktakip/internal/kvstore/memory"
	"stoktakip/internal/model"
	"stoktakip/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledgerFixture struct {
	store        *memory.Store
	customers    repository.CustomerRepository
	transactions repository.TransactionRepository
	ledger       CustomerLedger
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	store := memory.New()
	customers := repository.NewCustomerRepository(store)
	transactions := repository.NewTransactionRepository(store)
	return &ledgerFixture{
		store:        store,
		customers:    customers,
		transactions: transactions,
		ledger:       NewCustomerLedger(customers, transactions),
	}
}

func newTestCustomer(t *testing.T, customers repository.CustomerRepository) *model.Customer {
	t.Helper()
	c := &model.Customer{
		ID:        uuid.NewString(),
		Name:      "Ayşe Yılmaz",
		Phone:     "05551234567",
		Debt:      decimal.Zero,
		Credit:    decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, customers.Create(context.Background(), c))
	return c
}

func (f *ledgerFixture) apply(t *testing.T, customerID, kind string, amount int64) *dto.TransactionResponse {
	t.Helper()
	resp, err := f.ledger.ApplyTransaction(context.Background(), dto.ApplyTransactionRequest{
		CustomerID:  customerID,
		Type:        kind,
		Amount:      decimal.NewFromInt(amount),
		Description: "test entry",
	})
	require.NoError(t, err)
	return resp
}

func (f *ledgerFixture) balances(t *testing.T, customerID string) (debt, credit decimal.Decimal) {
	t.Helper()
	c, err := f.customers.FindByID(context.Background(), customerID)
	require.NoError(t, err)
	return c.Debt, c.Credit
}

func TestLedgerBalanceRules(t *testing.T) {
	f := newLedgerFixture(t)
	c := newTestCustomer(t, f.customers)

	f.apply(t, c.ID, model.TxDebt, 100)
	debt, credit := f.balances(t, c.ID)
	assert.True(t, debt.Equal(decimal.NewFromInt(100)))
	assert.True(t, credit.IsZero())

	f.apply(t, c.ID, model.TxCredit, 40)
	debt, credit = f.balances(t, c.ID)
	assert.True(t, debt.Equal(decimal.NewFromInt(100)))
	assert.True(t, credit.Equal(decimal.NewFromInt(40)))

	f.apply(t, c.ID, model.TxPaymentReceived, 30)
	debt, _ = f.balances(t, c.ID)
	assert.True(t, debt.Equal(decimal.NewFromInt(70)))

	f.apply(t, c.ID, model.TxPaymentMade, 15)
	_, credit = f.balances(t, c.ID)
	assert.True(t, credit.Equal(decimal.NewFromInt(25)))
}

func TestLedgerPaymentsClampAtZero(t *testing.T) {
	f := newLedgerFixture(t)
	c := newTestCustomer(t, f.customers)

	f.apply(t, c.ID, model.TxDebt, 50)
	// Paying more than is owed clamps the balance, it does not go negative
	// and does not spill into credit.
	f.apply(t, c.ID, model.TxPaymentReceived, 80)

	debt, credit := f.balances(t, c.ID)
	assert.True(t, debt.IsZero(), "debt %s", debt)
	assert.True(t, credit.IsZero(), "credit %s", credit)

	f.apply(t, c.ID, model.TxPaymentMade, 10)
	_, credit = f.balances(t, c.ID)
	assert.True(t, credit.IsZero())
}

func TestLedgerRejectsBadInput(t *testing.T) {
	f := newLedgerFixture(t)
	c := newTestCustomer(t, f.customers)

	_, err := f.ledger.ApplyTransaction(context.Background(), dto.ApplyTransactionRequest{
		CustomerID: c.ID, Type: model.TxDebt, Amount: decimal.NewFromInt(-5), Description: "x",
	})
	assert.ErrorIs(t, err, apierror.ErrInvalid)

	_, err = f.ledger.ApplyTransaction(context.Background(), dto.ApplyTransactionRequest{
		CustomerID: c.ID, Type: "refund", Amount: decimal.NewFromInt(5), Description: "x",
	})
	assert.ErrorIs(t, err, apierror.ErrInvalid)

	_, err = f.ledger.ApplyTransaction(context.Background(), dto.ApplyTransactionRequest{
		CustomerID: "missing", Type: model.TxDebt, Amount: decimal.NewFromInt(5), Description: "x",
	})
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestLedgerAuditAppendFailureIsAWarningNotAnError(t *testing.T) {
	f := newLedgerFixture(t)
	c := newTestCustomer(t, f.customers)

	// The balance write is versioned; the audit append is the next plain Set.
	f.store.FailNextSet = errors.New("store outage")

	resp, err := f.ledger.ApplyTransaction(context.Background(), dto.ApplyTransactionRequest{
		CustomerID:  c.ID,
		Type:        model.TxDebt,
		Amount:      decimal.NewFromInt(60),
		Description: "phone repair on account",
	})
	require.NoError(t, err, "audit failure after balance write must not fail the call")
	assert.True(t, resp.AuditPending)

	// Balance is authoritative and updated.
	debt, _ := f.balances(t, c.ID)
	assert.True(t, debt.Equal(decimal.NewFromInt(60)))

	// The audit entry is genuinely missing.
	txs, err := f.transactions.ListByCustomer(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestLedgerListTransactionsOrderedOldestFirst(t *testing.T) {
	f := newLedgerFixture(t)
	c := newTestCustomer(t, f.customers)

	require.NoError(t, f.transactions.Append(context.Background(), &model.CustomerTransaction{
		ID: "b", CustomerID: c.ID, Type: model.TxDebt, Amount: decimal.NewFromInt(1),
		Description: "second", CreatedAt: time.Now(),
	}))
	require.NoError(t, f.transactions.Append(context.Background(), &model.CustomerTransaction{
		ID: "a", CustomerID: c.ID, Type: model.TxDebt, Amount: decimal.NewFromInt(1),
		Description: "first", CreatedAt: time.Now().Add(-time.Hour),
	}))

	txs, err := f.ledger.ListTransactions(context.Background(), c.ID)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "first", txs[0].Description)
	assert.Equal(t, "second", txs[1].Description)
}
