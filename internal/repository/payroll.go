package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/alituydurr/sanatmerkezi-sub001/internal/model"
)

type PayrollRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewPayrollRepository(db *sql.DB, logger *logrus.Logger) *PayrollRepository {
	return &PayrollRepository{db: db, logger: logger}
}

func (r *PayrollRepository) DB() *sql.DB {
	return r.db
}

// Upsert creates the (teacher, month) payroll row or, when it already exists,
// updates hours/rate/totals in place. Exactly one row per key.
func (r *PayrollRepository) Upsert(ctx context.Context, p *model.TeacherPayment) (*model.TeacherPayment, error) {
	query := `
        INSERT INTO teacher_payments (id, teacher_id, month_year, total_hours, hourly_rate,
                                      total_amount, paid_amount, remaining_amount, status,
                                      created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, 0, $6, 'pending', NOW(), NOW())
        ON CONFLICT (teacher_id, month_year)
        DO UPDATE SET total_hours = EXCLUDED.total_hours,
                      hourly_rate = EXCLUDED.hourly_rate,
                      total_amount = EXCLUDED.total_amount,
                      remaining_amount = EXCLUDED.total_amount - teacher_payments.paid_amount,
                      updated_at = NOW()
        RETURNING id, teacher_id, month_year, total_hours, hourly_rate, total_amount,
                  paid_amount, remaining_amount, status, cancellation_reason,
                  cancelled_at, cancelled_by, created_at, updated_at
    `

	var out model.TeacherPayment
	var cancelledBy uuid.NullUUID
	err := r.db.QueryRowContext(
		ctx,
		query,
		p.ID,
		p.TeacherID,
		p.MonthYear,
		p.TotalHours,
		p.HourlyRate,
		p.TotalAmount,
	).Scan(
		&out.ID,
		&out.TeacherID,
		&out.MonthYear,
		&out.TotalHours,
		&out.HourlyRate,
		&out.TotalAmount,
		&out.PaidAmount,
		&out.RemainingAmount,
		&out.Status,
		&out.CancellationReason,
		&out.CancelledAt,
		&cancelledBy,
		&out.CreatedAt,
		&out.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "foreign_key_violation" {
				return nil, fmt.Errorf("referenced teacher: %w", model.ErrValidation)
			}
		}
		return nil, fmt.Errorf("failed to upsert teacher payment: %w", err)
	}

	out.CancelledBy = uuidPtr(cancelledBy)
	return &out, nil
}

func (r *PayrollRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TeacherPayment, error) {
	query := `
        SELECT id, teacher_id, month_year, total_hours, hourly_rate, total_amount,
               paid_amount, remaining_amount, status, cancellation_reason,
               cancelled_at, cancelled_by, created_at, updated_at
        FROM teacher_payments
        WHERE id = $1
    `

	var p model.TeacherPayment
	var cancelledBy uuid.NullUUID
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.TeacherID,
		&p.MonthYear,
		&p.TotalHours,
		&p.HourlyRate,
		&p.TotalAmount,
		&p.PaidAmount,
		&p.RemainingAmount,
		&p.Status,
		&p.CancellationReason,
		&p.CancelledAt,
		&cancelledBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("teacher payment %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get teacher payment: %w", err)
	}

	p.CancelledBy = uuidPtr(cancelledBy)
	return &p, nil
}

func (r *PayrollRepository) ListByMonth(ctx context.Context, monthYear string) ([]model.TeacherPayment, error) {
	query := `
        SELECT id, teacher_id, month_year, total_hours, hourly_rate, total_amount,
               paid_amount, remaining_amount, status, cancellation_reason,
               cancelled_at, cancelled_by, created_at, updated_at
        FROM teacher_payments
        WHERE month_year = $1
        ORDER BY created_at
    `

	rows, err := r.db.QueryContext(ctx, query, monthYear)
	if err != nil {
		return nil, fmt.Errorf("failed to query teacher payments: %w", err)
	}
	defer rows.Close()

	var payments []model.TeacherPayment
	for rows.Next() {
		var p model.TeacherPayment
		var cancelledBy uuid.NullUUID
		if err := rows.Scan(
			&p.ID,
			&p.TeacherID,
			&p.MonthYear,
			&p.TotalHours,
			&p.HourlyRate,
			&p.TotalAmount,
			&p.PaidAmount,
			&p.RemainingAmount,
			&p.Status,
			&p.CancellationReason,
			&p.CancelledAt,
			&cancelledBy,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan teacher payment: %w", err)
		}
		p.CancelledBy = uuidPtr(cancelledBy)
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

func (r *PayrollRepository) CreateRecordTx(ctx context.Context, tx *sql.Tx, record *model.TeacherPaymentRecord) error {
	query := `
        INSERT INTO teacher_payment_records (id, teacher_payment_id, amount, payment_date, notes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	_, err := tx.ExecContext(
		ctx,
		query,
		record.ID,
		record.TeacherPaymentID,
		record.Amount,
		record.PaymentDate,
		record.Notes,
		record.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create payout record: %w", err)
	}

	return nil
}

func (r *PayrollRepository) SumRecordsTx(ctx context.Context, tx *sql.Tx, teacherPaymentID uuid.UUID) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM teacher_payment_records WHERE teacher_payment_id = $1`

	var total decimal.Decimal
	if err := tx.QueryRowContext(ctx, query, teacherPaymentID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payout records: %w", err)
	}

	return total, nil
}

func (r *PayrollRepository) UpdateProgressTx(
	ctx context.Context,
	tx *sql.Tx,
	id uuid.UUID,
	paid, remaining decimal.Decimal,
	status model.PayrollStatus,
) error {
	query := `
        UPDATE teacher_payments
        SET paid_amount = $1,
            remaining_amount = $2,
            status = $3,
            updated_at = NOW()
        WHERE id = $4
    `

	if _, err := tx.ExecContext(ctx, query, paid, remaining, status, id); err != nil {
		return fmt.Errorf("failed to update payroll progress: %w", err)
	}

	return nil
}

// Cancel flips a non-terminal payroll entry to cancelled; payout records stay.
func (r *PayrollRepository) Cancel(ctx context.Context, id uuid.UUID, reason string, cancelledBy *uuid.UUID) error {
	query := `
        UPDATE teacher_payments
        SET status = 'cancelled',
            cancellation_reason = $1,
            cancelled_at = NOW(),
            cancelled_by = $2,
            updated_at = NOW()
        WHERE id = $3 AND status IN ('pending', 'partial')
    `

	res, err := r.db.ExecContext(ctx, query, reason, uuidOrNil(cancelledBy), id)
	if err != nil {
		return fmt.Errorf("failed to cancel teacher payment: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read cancel result: %w", err)
	}
	if affected == 0 {
		var status model.PayrollStatus
		err := r.db.QueryRowContext(ctx, `SELECT status FROM teacher_payments WHERE id = $1`, id).Scan(&status)
		if err == sql.ErrNoRows {
			return fmt.Errorf("teacher payment %s: %w", id, model.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check payroll status: %w", err)
		}
		return fmt.Errorf("teacher payment already %s: %w", status, model.ErrConflict)
	}

	return nil
}
