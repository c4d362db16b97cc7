package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

func (s EventStatus) Terminal() bool {
	return s == EventStatusCancelled || s == EventStatusCompleted
}

type EnrollmentPaymentStatus string

const (
	EnrollmentPending EnrollmentPaymentStatus = "pending"
	EnrollmentPartial EnrollmentPaymentStatus = "partial"
	EnrollmentPaid    EnrollmentPaymentStatus = "paid"
)

// DerivePaymentStatus computes the enrollment status from the accumulated
// paid amount against the event price. Overpayment still counts as paid.
func DerivePaymentStatus(paid, price decimal.Decimal) EnrollmentPaymentStatus {
	switch {
	case paid.LessThanOrEqual(decimal.Zero):
		return EnrollmentPending
	case paid.GreaterThanOrEqual(price):
		return EnrollmentPaid
	default:
		return EnrollmentPartial
	}
}

type Event struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	Name               string          `json:"name" db:"name"`
	EventType          string          `json:"event_type" db:"event_type"`
	StartDate          time.Time       `json:"start_date" db:"start_date"`
	EndDate            time.Time       `json:"end_date" db:"end_date"`
	Price              decimal.Decimal `json:"price" db:"price"`
	Status             EventStatus     `json:"status" db:"status"`
	CancellationReason string          `json:"cancellation_reason,omitempty" db:"cancellation_reason"`
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CancelledBy        *uuid.UUID      `json:"cancelled_by,omitempty" db:"cancelled_by"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// EventEnrollment accumulates payments for one student (or a NULL student for
// direct payments) against an event. At most one row per (event, student).
type EventEnrollment struct {
	ID            uuid.UUID               `json:"id" db:"id"`
	EventID       uuid.UUID               `json:"event_id" db:"event_id"`
	StudentID     *uuid.UUID              `json:"student_id" db:"student_id"`
	PaidAmount    decimal.Decimal         `json:"paid_amount" db:"paid_amount"`
	PaymentStatus EnrollmentPaymentStatus `json:"payment_status" db:"payment_status"`
	PaymentDate   time.Time               `json:"payment_date" db:"payment_date"`
	CreatedAt     time.Time               `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at" db:"updated_at"`
}

type CreateEventRequest struct {
	Name      string          `json:"name" validate:"required"`
	EventType string          `json:"event_type"`
	StartDate string          `json:"start_date" validate:"required"` // YYYY-MM-DD
	EndDate   string          `json:"end_date"`
	Price     decimal.Decimal `json:"price" validate:"required"`
}

type EventPaymentRequest struct {
	StudentID   *uuid.UUID      `json:"student_id"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	PaymentDate string          `json:"payment_date"`
}
