package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stoktakip/internal/apierror"
	"stoktakip/internal/dto"
	"stoktakip/internal/model"
	"stoktakip/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CustomerLedger maintains the derived debt/credit balances on Customer and
// the append-only transaction log that is their sole writer. Both balances
// are always >= 0: payments that exceed the open balance clamp it at zero.
type CustomerLedger interface {
	ApplyTransaction(ctx context.Context, req dto.ApplyTransactionRequest) (*dto.TransactionResponse, error)
	ListTransactions(ctx context.Context, customerID string) ([]dto.TransactionResponse, error)
}

type customerLedger struct {
	customers    repository.CustomerRepository
	transactions repository.TransactionRepository
}

func NewCustomerLedger(customers repository.CustomerRepository, transactions repository.TransactionRepository) CustomerLedger {
	return &customerLedger{customers: customers, transactions: transactions}
}

// ApplyTransaction updates exactly one balance field per the transaction kind,
// then appends the audit entry. The two writes are logically one transaction;
// if the audit append fails after the balance write succeeded, the balance is
// already correct and the degraded state is surfaced as a warning (the
// AuditPending flag), never as a fatal error.
func (l *customerLedger) ApplyTransaction(ctx context.Context, req dto.ApplyTransactionRequest) (*dto.TransactionResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive: %w", apierror.ErrInvalid)
	}

	var customer *model.Customer
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		c, err := l.customers.FindByID(ctx, req.CustomerID)
		if err != nil {
			return nil, err
		}
		if err := applyBalanceRule(c, req.Type, req.Amount); err != nil {
			return nil, err
		}
		err = l.customers.Update(ctx, c)
		if errors.Is(err, apierror.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		customer = c
		break
	}
	if customer == nil {
		return nil, fmt.Errorf("customer %s balance update: %w", req.CustomerID, apierror.ErrVersionConflict)
	}

	tx := &model.CustomerTransaction{
		ID:          uuid.NewString(),
		CustomerID:  req.CustomerID,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}
	resp := transactionToResponse(tx)

	if err := l.transactions.Append(ctx, tx); err != nil {
		// Balance is authoritative and already persisted; the audit trail is
		// short one entry. Degraded but acceptable — warn, do not fail.
		log.Warn().Err(err).
			Str("customer_id", req.CustomerID).
			Str("type", req.Type).
			Str("amount", req.Amount.String()).
			Msg("customer ledger: balance updated but audit append failed")
		resp.AuditPending = true
	}

	return resp, nil
}

// applyBalanceRule mutates exactly one of the two balance fields:
//
//	debt             → debt += amount
//	credit           → credit += amount
//	payment_received → debt = max(0, debt - amount)
//	payment_made     → credit = max(0, credit - amount)
func applyBalanceRule(c *model.Customer, kind string, amount decimal.Decimal) error {
	switch kind {
	case model.TxDebt:
		c.Debt = c.Debt.Add(amount)
	case model.TxCredit:
		c.Credit = c.Credit.Add(amount)
	case model.TxPaymentReceived:
		c.Debt = decimal.Max(decimal.Zero, c.Debt.Sub(amount))
	case model.TxPaymentMade:
		c.Credit = decimal.Max(decimal.Zero, c.Credit.Sub(amount))
	default:
		return fmt.Errorf("unknown transaction type %q: %w", kind, apierror.ErrInvalid)
	}
	return nil
}

func (l *customerLedger) ListTransactions(ctx context.Context, customerID string) ([]dto.TransactionResponse, error) {
	if _, err := l.customers.FindByID(ctx, customerID); err != nil {
		return nil, err
	}
	txs, err := l.transactions.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, *transactionToResponse(&txs[i]))
	}
	return out, nil
}

func transactionToResponse(tx *model.CustomerTransaction) *dto.TransactionResponse {
	return &dto.TransactionResponse{
		ID:          tx.ID,
		CustomerID:  tx.CustomerID,
		Type:        tx.Type,
		Amount:      tx.Amount.Round(2),
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
	}
}
