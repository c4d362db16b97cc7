package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PayrollStatus string

const (
	PayrollPending   PayrollStatus = "pending"
	PayrollPartial   PayrollStatus = "partial"
	PayrollCompleted PayrollStatus = "completed"
	PayrollCancelled PayrollStatus = "cancelled"
)

func (s PayrollStatus) Terminal() bool {
	return s == PayrollCompleted || s == PayrollCancelled
}

// DerivePayrollStatus computes the payroll status from accumulated payouts.
func DerivePayrollStatus(paid, total decimal.Decimal) PayrollStatus {
	switch {
	case paid.LessThanOrEqual(decimal.Zero):
		return PayrollPending
	case paid.GreaterThanOrEqual(total):
		return PayrollCompleted
	default:
		return PayrollPartial
	}
}

// TeacherPayment is the payroll owed to a teacher for one month. Exactly one
// row per (teacher, month_year); re-creating for the same key updates it.
type TeacherPayment struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	TeacherID          uuid.UUID       `json:"teacher_id" db:"teacher_id"`
	MonthYear          string          `json:"month_year" db:"month_year"` // YYYY-MM
	TotalHours         decimal.Decimal `json:"total_hours" db:"total_hours"`
	HourlyRate         decimal.Decimal `json:"hourly_rate" db:"hourly_rate"`
	TotalAmount        decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaidAmount         decimal.Decimal `json:"paid_amount" db:"paid_amount"`
	RemainingAmount    decimal.Decimal `json:"remaining_amount" db:"remaining_amount"`
	Status             PayrollStatus   `json:"status" db:"status"`
	CancellationReason string          `json:"cancellation_reason,omitempty" db:"cancellation_reason"`
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CancelledBy        *uuid.UUID      `json:"cancelled_by,omitempty" db:"cancelled_by"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// TeacherPaymentRecord is a single payout against a TeacherPayment. Additive
// and immutable; its own payment_date drives expense recognition.
type TeacherPaymentRecord struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	TeacherPaymentID uuid.UUID       `json:"teacher_payment_id" db:"teacher_payment_id"`
	Amount           decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate      time.Time       `json:"payment_date" db:"payment_date"`
	Notes            string          `json:"notes" db:"notes"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

type UpsertTeacherPaymentRequest struct {
	TeacherID  uuid.UUID       `json:"teacher_id" validate:"required"`
	MonthYear  string          `json:"month_year" validate:"required"`
	TotalHours decimal.Decimal `json:"total_hours" validate:"required"`
	HourlyRate decimal.Decimal `json:"hourly_rate" validate:"required"`
}

type RecordPayoutRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	PaymentDate string          `json:"payment_date"`
	Notes       string          `json:"notes"`
}
