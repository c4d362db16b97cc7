package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/alituydurr/sanatmerkezi-sub001/internal/model"
)

type EventRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewEventRepository(db *sql.DB, logger *logrus.Logger) *EventRepository {
	return &EventRepository{db: db, logger: logger}
}

func (r *EventRepository) DB() *sql.DB {
	return r.db
}

func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	query := `
        INSERT INTO events (id, name, event_type, start_date, end_date, price,
                            status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `

	_, err := r.db.ExecContext(
		ctx,
		query,
		event.ID,
		event.Name,
		event.EventType,
		event.StartDate,
		event.EndDate,
		event.Price,
		event.Status,
		event.CreatedAt,
		event.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	query := `
        SELECT id, name, event_type, start_date, end_date, price, status,
               cancellation_reason, cancelled_at, cancelled_by, created_at, updated_at
        FROM events
        WHERE id = $1
    `

	var event model.Event
	var cancelledBy uuid.NullUUID
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.Name,
		&event.EventType,
		&event.StartDate,
		&event.EndDate,
		&event.Price,
		&event.Status,
		&event.CancellationReason,
		&event.CancelledAt,
		&cancelledBy,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("event %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	event.CancelledBy = uuidPtr(cancelledBy)
	return &event, nil
}

func (r *EventRepository) List(ctx context.Context) ([]model.Event, error) {
	query := `
        SELECT id, name, event_type, start_date, end_date, price, status,
               cancellation_reason, cancelled_at, cancelled_by, created_at, updated_at
        FROM events
        ORDER BY start_date DESC
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var event model.Event
		var cancelledBy uuid.NullUUID
		if err := rows.Scan(
			&event.ID,
			&event.Name,
			&event.EventType,
			&event.StartDate,
			&event.EndDate,
			&event.Price,
			&event.Status,
			&event.CancellationReason,
			&event.CancelledAt,
			&cancelledBy,
			&event.CreatedAt,
			&event.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		event.CancelledBy = uuidPtr(cancelledBy)
		events = append(events, event)
	}

	return events, rows.Err()
}

// Cancel flips a scheduled event to cancelled; enrollments and their payments
// stay untouched.
func (r *EventRepository) Cancel(ctx context.Context, id uuid.UUID, reason string, cancelledBy *uuid.UUID) error {
	query := `
        UPDATE events
        SET status = 'cancelled',
            cancellation_reason = $1,
            cancelled_at = NOW(),
            cancelled_by = $2,
            updated_at = NOW()
        WHERE id = $3 AND status = 'scheduled'
    `

	res, err := r.db.ExecContext(ctx, query, reason, uuidOrNil(cancelledBy), id)
	if err != nil {
		return fmt.Errorf("failed to cancel event: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read cancel result: %w", err)
	}
	if affected == 0 {
		var status model.EventStatus
		err := r.db.QueryRowContext(ctx, `SELECT status FROM events WHERE id = $1`, id).Scan(&status)
		if err == sql.ErrNoRows {
			return fmt.Errorf("event %s: %w", id, model.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check event status: %w", err)
		}
		return fmt.Errorf("event already %s: %w", status, model.ErrConflict)
	}

	return nil
}

// AccumulatePaymentTx adds amount to the (event, student) enrollment row,
// creating it when absent, and returns the accumulated paid total. The NULL
// student key (direct payment) collapses onto a single row via the COALESCE
// unique index.
func (r *EventRepository) AccumulatePaymentTx(
	ctx context.Context,
	tx *sql.Tx,
	eventID uuid.UUID,
	studentID *uuid.UUID,
	amount decimal.Decimal,
	paymentDate time.Time,
) (uuid.UUID, decimal.Decimal, error) {
	query := `
        INSERT INTO event_enrollments (id, event_id, student_id, paid_amount,
                                       payment_status, payment_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, 'pending', $5, NOW(), NOW())
        ON CONFLICT (event_id, COALESCE(student_id, '00000000-0000-0000-0000-000000000000'::uuid))
        DO UPDATE SET paid_amount = event_enrollments.paid_amount + EXCLUDED.paid_amount,
                      payment_date = EXCLUDED.payment_date,
                      updated_at = NOW()
        RETURNING id, paid_amount
    `

	var enrollmentID uuid.UUID
	var paid decimal.Decimal
	err := tx.QueryRowContext(ctx, query, uuid.New(), eventID, uuidOrNil(studentID), amount, paymentDate).
		Scan(&enrollmentID, &paid)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "foreign_key_violation" {
				return uuid.Nil, decimal.Zero, fmt.Errorf("referenced event or student: %w", model.ErrValidation)
			}
		}
		return uuid.Nil, decimal.Zero, fmt.Errorf("failed to accumulate event payment: %w", err)
	}

	return enrollmentID, paid, nil
}

func (r *EventRepository) UpdateEnrollmentStatusTx(
	ctx context.Context,
	tx *sql.Tx,
	enrollmentID uuid.UUID,
	status model.EnrollmentPaymentStatus,
) error {
	query := `UPDATE event_enrollments SET payment_status = $1, updated_at = NOW() WHERE id = $2`

	if _, err := tx.ExecContext(ctx, query, status, enrollmentID); err != nil {
		return fmt.Errorf("failed to update enrollment status: %w", err)
	}

	return nil
}

func (r *EventRepository) GetEnrollment(ctx context.Context, id uuid.UUID) (*model.EventEnrollment, error) {
	query := `
        SELECT id, event_id, student_id, paid_amount, payment_status, payment_date,
               created_at, updated_at
        FROM event_enrollments
        WHERE id = $1
    `

	var e model.EventEnrollment
	var sid uuid.NullUUID
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID,
		&e.EventID,
		&sid,
		&e.PaidAmount,
		&e.PaymentStatus,
		&e.PaymentDate,
		&e.CreatedAt,
		&e.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("enrollment %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	e.StudentID = uuidPtr(sid)
	return &e, nil
}

func (r *EventRepository) ListEnrollments(ctx context.Context, eventID uuid.UUID) ([]model.EventEnrollment, error) {
	query := `
        SELECT id, event_id, student_id, paid_amount, payment_status, payment_date,
               created_at, updated_at
        FROM event_enrollments
        WHERE event_id = $1
        ORDER BY created_at
    `

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []model.EventEnrollment
	for rows.Next() {
		var e model.EventEnrollment
		var sid uuid.NullUUID
		if err := rows.Scan(
			&e.ID,
			&e.EventID,
			&sid,
			&e.PaidAmount,
			&e.PaymentStatus,
			&e.PaymentDate,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		e.StudentID = uuidPtr(sid)
		enrollments = append(enrollments, e)
	}

	return enrollments, rows.Err()
}
