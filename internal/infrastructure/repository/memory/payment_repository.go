package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/poolhouse/confidence-pool/internal/domain/payment"
)

type PaymentRepository struct {
	mu     sync.RWMutex
	tables map[string]payment.PrizeTable
	ledger []payment.Payment
	nextID int
}

func NewPaymentRepository(tables map[string]payment.PrizeTable, ledger []payment.Payment) *PaymentRepository {
	if tables == nil {
		tables = map[string]payment.PrizeTable{}
	}
	return &PaymentRepository{tables: tables, ledger: append([]payment.Payment(nil), ledger...)}
}

func (r *PaymentRepository) GetPrizeTable(_ context.Context, pool string) (payment.PrizeTable, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	table, ok := r.tables[pool]
	return table, ok, nil
}

func (r *PaymentRepository) BalanceCents(_ context.Context, userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var balance int64
	for _, item := range r.ledger {
		if item.UserID == userID {
			balance += item.AmountCents
		}
	}
	return balance, nil
}

func (r *PaymentRepository) ReplacePrizes(_ context.Context, pool string, week *int, rows []payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.ledger[:0]
	for _, item := range r.ledger {
		if item.Kind == payment.KindPrize && item.Pool == pool && weekMatches(item.Week, week) {
			continue
		}
		kept = append(kept, item)
	}
	r.ledger = kept

	for _, row := range rows {
		if row.ID == "" {
			r.nextID++
			row.ID = fmt.Sprintf("pay-%s", strconv.Itoa(r.nextID))
		}
		r.ledger = append(r.ledger, row)
	}
	return nil
}

// Ledger returns a copy of all rows, for seeding inspection in tests.
func (r *PaymentRepository) Ledger() []payment.Payment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]payment.Payment(nil), r.ledger...)
}

func weekMatches(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
