package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Payment struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	PaymentPlanID uuid.UUID       `json:"payment_plan_id" db:"payment_plan_id"`
	StudentID     *uuid.UUID      `json:"student_id" db:"student_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate   time.Time       `json:"payment_date" db:"payment_date"`
	PaymentMethod string          `json:"payment_method" db:"payment_method"`
	Notes         string          `json:"notes" db:"notes"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// StudentPayment is a payment joined with its plan and course context for the
// per-student history listing.
type StudentPayment struct {
	Payment
	PlanTotalAmount decimal.Decimal `json:"plan_total_amount"`
	PlanStatus      PlanStatus      `json:"plan_status"`
	CourseName      string          `json:"course_name"`
}

type RecordPaymentRequest struct {
	PaymentPlanID uuid.UUID       `json:"payment_plan_id" validate:"required"`
	StudentID     *uuid.UUID      `json:"student_id"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	PaymentDate   string          `json:"payment_date"` // YYYY-MM-DD, defaults to today
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
}
