package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/poolhouse/confidence-pool/internal/domain/payment"
	qb "github.com/poolhouse/confidence-pool/internal/platform/querybuilder"
)

type PaymentRepository struct {
	db *sqlx.DB
	tx *Transactor
}

func NewPaymentRepository(db *sqlx.DB, tx *Transactor) *PaymentRepository {
	return &PaymentRepository{db: db, tx: tx}
}

func (r *PaymentRepository) GetPrizeTable(ctx context.Context, pool string) (payment.PrizeTable, bool, error) {
	query, args, err := qb.Select("amount_cents").
		From("prize_tables").
		Where(qb.Eq("pool", pool)).
		OrderBy("rank").
		ToSQL()
	if err != nil {
		return payment.PrizeTable{}, false, fmt.Errorf("build select prize table query: %w", err)
	}

	var amounts []int64
	if err := sqlx.SelectContext(ctx, execer(ctx, r.db), &amounts, query, args...); err != nil {
		return payment.PrizeTable{}, false, fmt.Errorf("select prize table pool=%s: %w", pool, err)
	}
	if len(amounts) == 0 {
		return payment.PrizeTable{}, false, nil
	}
	return payment.PrizeTable{Pool: pool, AmountsCents: amounts}, true, nil
}

func (r *PaymentRepository) BalanceCents(ctx context.Context, userID string) (int64, error) {
	query, args, err := qb.Select("COALESCE(SUM(amount_cents), 0)").
		From("payments").
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build select balance query: %w", err)
	}

	var balance int64
	if err := sqlx.GetContext(ctx, execer(ctx, r.db), &balance, query, args...); err != nil {
		return 0, fmt.Errorf("select balance user=%s: %w", userID, err)
	}
	return balance, nil
}

// ReplacePrizes swaps the Prize rows for (pool, week) in one transaction, so
// a settlement rerun converges to the same ledger.
func (r *PaymentRepository) ReplacePrizes(ctx context.Context, pool string, week *int, rows []payment.Payment) error {
	return r.tx.InTx(ctx, func(ctx context.Context) error {
		deleteConds := []qb.Condition{
			qb.Eq("kind", payment.KindPrize),
			qb.Eq("pool", pool),
		}
		if week == nil {
			deleteConds = append(deleteConds, qb.IsNull("week"))
		} else {
			deleteConds = append(deleteConds, qb.Eq("week", *week))
		}

		query, args, err := qb.DeleteFrom("payments").Where(deleteConds...).ToSQL()
		if err != nil {
			return fmt.Errorf("build delete prizes query: %w", err)
		}
		if _, err := execer(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete prizes pool=%s: %w", pool, err)
		}

		if len(rows) == 0 {
			return nil
		}

		builder := qb.InsertInto("payments").
			Columns("user_id", "amount_cents", "kind", "pool", "week", "note", "created_by", "created_at")
		for _, row := range rows {
			builder.Values(row.UserID, row.AmountCents, row.Kind, row.Pool, week, row.Note, row.CreatedBy, row.CreatedAt)
		}
		query, args, err = builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert prizes query: %w", err)
		}
		if _, err := execer(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert prizes pool=%s: %w", pool, err)
		}
		return nil
	})
}
