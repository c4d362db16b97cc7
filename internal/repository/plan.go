package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/alituydurr/sanatmerkezi-sub001/internal/model"
)

type PlanRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewPlanRepository(db *sql.DB, logger *logrus.Logger) *PlanRepository {
	return &PlanRepository{db: db, logger: logger}
}

func (r *PlanRepository) DB() *sql.DB {
	return r.db
}

func (r *PlanRepository) CreateTx(ctx context.Context, tx *sql.Tx, plan *model.PaymentPlan) error {
	query := `
        INSERT INTO payment_plans (id, student_id, student_first_name, student_last_name,
                                   course_id, total_amount, installment_count, installment_amount,
                                   start_date, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `

	_, err := tx.ExecContext(
		ctx,
		query,
		plan.ID,
		uuidOrNil(plan.StudentID),
		plan.StudentFirstName,
		plan.StudentLastName,
		uuidOrNil(plan.CourseID),
		plan.TotalAmount,
		plan.InstallmentCount,
		plan.InstallmentAmount,
		plan.StartDate,
		plan.Status,
		plan.CreatedAt,
		plan.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "foreign_key_violation" {
				return fmt.Errorf("referenced student or course: %w", model.ErrValidation)
			}
		}
		return fmt.Errorf("failed to create payment plan: %w", err)
	}

	return nil
}

func (r *PlanRepository) CreateInstallmentsTx(ctx context.Context, tx *sql.Tx, planID uuid.UUID, dates []time.Time) error {
	query := `
        INSERT INTO plan_installments (id, payment_plan_id, installment_number, due_date)
        VALUES ($1, $2, $3, $4)
    `

	for i, date := range dates {
		if _, err := tx.ExecContext(ctx, query, uuid.New(), planID, i+1, date); err != nil {
			return fmt.Errorf("failed to create installment %d: %w", i+1, err)
		}
	}

	return nil
}

func (r *PlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PaymentPlan, error) {
	query := `
        SELECT id, student_id, student_first_name, student_last_name, course_id,
               total_amount, installment_count, installment_amount, start_date,
               status, cancellation_reason, cancelled_at, cancelled_by, created_at, updated_at
        FROM payment_plans
        WHERE id = $1
    `

	var plan model.PaymentPlan
	var studentID, courseID, cancelledBy uuid.NullUUID
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&plan.ID,
		&studentID,
		&plan.StudentFirstName,
		&plan.StudentLastName,
		&courseID,
		&plan.TotalAmount,
		&plan.InstallmentCount,
		&plan.InstallmentAmount,
		&plan.StartDate,
		&plan.Status,
		&plan.CancellationReason,
		&plan.CancelledAt,
		&cancelledBy,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("payment plan %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get payment plan: %w", err)
	}

	plan.StudentID = uuidPtr(studentID)
	plan.CourseID = uuidPtr(courseID)
	plan.CancelledBy = uuidPtr(cancelledBy)

	dates, err := r.getInstallments(ctx, id)
	if err != nil {
		return nil, err
	}
	plan.InstallmentDates = dates

	return &plan, nil
}

func (r *PlanRepository) getInstallments(ctx context.Context, planID uuid.UUID) ([]time.Time, error) {
	query := `
        SELECT due_date
        FROM plan_installments
        WHERE payment_plan_id = $1
        ORDER BY installment_number
    `

	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to query installments: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		dates = append(dates, d)
	}

	return dates, rows.Err()
}

// ListByStatus returns plans in the given status joined with student/course
// names and the running paid total.
func (r *PlanRepository) ListByStatus(ctx context.Context, status model.PlanStatus) ([]model.PlanOverview, error) {
	query := `
        SELECT p.id, p.student_id, p.student_first_name, p.student_last_name, p.course_id,
               p.total_amount, p.installment_count, p.installment_amount, p.start_date,
               p.status, p.cancellation_reason, p.cancelled_at, p.cancelled_by,
               p.created_at, p.updated_at,
               COALESCE(NULLIF(TRIM(s.first_name || ' ' || s.last_name), ''),
                        TRIM(p.student_first_name || ' ' || p.student_last_name)) AS student_name,
               COALESCE(c.name, '') AS course_name,
               COALESCE((SELECT SUM(pm.amount) FROM payments pm WHERE pm.payment_plan_id = p.id), 0) AS paid_amount
        FROM payment_plans p
        LEFT JOIN students s ON s.id = p.student_id
        LEFT JOIN courses c ON c.id = p.course_id
        WHERE p.status = $1
        ORDER BY p.created_at DESC
    `

	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var plans []model.PlanOverview
	for rows.Next() {
		var p model.PlanOverview
		var studentID, courseID, cancelledBy uuid.NullUUID
		if err := rows.Scan(
			&p.ID,
			&studentID,
			&p.StudentFirstName,
			&p.StudentLastName,
			&courseID,
			&p.TotalAmount,
			&p.InstallmentCount,
			&p.InstallmentAmount,
			&p.StartDate,
			&p.Status,
			&p.CancellationReason,
			&p.CancelledAt,
			&cancelledBy,
			&p.CreatedAt,
			&p.UpdatedAt,
			&p.StudentName,
			&p.CourseName,
			&p.PaidAmount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		p.StudentID = uuidPtr(studentID)
		p.CourseID = uuidPtr(courseID)
		p.CancelledBy = uuidPtr(cancelledBy)
		p.Remaining = p.TotalAmount.Sub(p.PaidAmount)
		plans = append(plans, p)
	}

	return plans, rows.Err()
}

// Cancel flips an active plan to cancelled. Returns ErrNotFound when the plan
// does not exist and ErrConflict when it is already in a terminal status.
func (r *PlanRepository) Cancel(ctx context.Context, id uuid.UUID, reason string, cancelledBy *uuid.UUID) error {
	query := `
        UPDATE payment_plans
        SET status = 'cancelled',
            cancellation_reason = $1,
            cancelled_at = NOW(),
            cancelled_by = $2,
            updated_at = NOW()
        WHERE id = $3 AND status = 'active'
    `

	res, err := r.db.ExecContext(ctx, query, reason, uuidOrNil(cancelledBy), id)
	if err != nil {
		return fmt.Errorf("failed to cancel plan: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read cancel result: %w", err)
	}
	if affected == 0 {
		var status model.PlanStatus
		err := r.db.QueryRowContext(ctx, `SELECT status FROM payment_plans WHERE id = $1`, id).Scan(&status)
		if err == sql.ErrNoRows {
			return fmt.Errorf("payment plan %s: %w", id, model.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check plan status: %w", err)
		}
		return fmt.Errorf("plan already %s: %w", status, model.ErrConflict)
	}

	return nil
}

// MarkCompletedTx flips an active plan to completed. Idempotent: a plan that
// is already completed is left untouched.
func (r *PlanRepository) MarkCompletedTx(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	query := `
        UPDATE payment_plans
        SET status = 'completed',
            updated_at = NOW()
        WHERE id = $1 AND status = 'active'
    `

	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to mark plan completed: %w", err)
	}

	return nil
}

func (r *PlanRepository) ExistsForStudent(ctx context.Context, studentID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM payment_plans WHERE student_id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, studentID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check plans for student: %w", err)
	}

	return exists, nil
}

func uuidOrNil(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func uuidPtr(id uuid.NullUUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	u := id.UUID
	return &u
}
