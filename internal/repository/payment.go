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

type PaymentRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewPaymentRepository(db *sql.DB, logger *logrus.Logger) *PaymentRepository {
	return &PaymentRepository{db: db, logger: logger}
}

func (r *PaymentRepository) CreateTx(ctx context.Context, tx *sql.Tx, payment *model.Payment) error {
	r.logger.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"plan_id":    payment.PaymentPlanID,
		"amount":     payment.Amount,
	}).Info("Recording payment")

	query := `
        INSERT INTO payments (id, payment_plan_id, student_id, amount, payment_date,
                              payment_method, notes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `

	_, err := tx.ExecContext(
		ctx,
		query,
		payment.ID,
		payment.PaymentPlanID,
		uuidOrNil(payment.StudentID),
		payment.Amount,
		payment.PaymentDate,
		payment.PaymentMethod,
		payment.Notes,
		payment.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "foreign_key_violation" {
				return fmt.Errorf("referenced plan or student: %w", model.ErrValidation)
			}
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// SumForPlanTx returns the running paid total for a plan inside the calling
// transaction so the completed flip sees the payment just inserted.
func (r *PaymentRepository) SumForPlanTx(ctx context.Context, tx *sql.Tx, planID uuid.UUID) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE payment_plan_id = $1`

	var total decimal.Decimal
	if err := tx.QueryRowContext(ctx, query, planID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments: %w", err)
	}

	return total, nil
}

// ListByStudent returns the student's payments with plan and course context,
// newest first.
func (r *PaymentRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.StudentPayment, error) {
	query := `
        SELECT pm.id, pm.payment_plan_id, pm.student_id, pm.amount, pm.payment_date,
               pm.payment_method, pm.notes, pm.created_at,
               p.total_amount, p.status, COALESCE(c.name, '') AS course_name
        FROM payments pm
        JOIN payment_plans p ON p.id = pm.payment_plan_id
        LEFT JOIN courses c ON c.id = p.course_id
        WHERE pm.student_id = $1 OR (pm.student_id IS NULL AND p.student_id = $1)
        ORDER BY pm.payment_date DESC, pm.created_at DESC
    `

	rows, err := r.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query student payments: %w", err)
	}
	defer rows.Close()

	var payments []model.StudentPayment
	for rows.Next() {
		var p model.StudentPayment
		var sid uuid.NullUUID
		if err := rows.Scan(
			&p.ID,
			&p.PaymentPlanID,
			&sid,
			&p.Amount,
			&p.PaymentDate,
			&p.PaymentMethod,
			&p.Notes,
			&p.CreatedAt,
			&p.PlanTotalAmount,
			&p.PlanStatus,
			&p.CourseName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.StudentID = uuidPtr(sid)
		payments = append(payments, p)
	}

	return payments, rows.Err()
}
