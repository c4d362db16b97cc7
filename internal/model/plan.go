package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusCompleted PlanStatus = "completed"
	PlanStatusCancelled PlanStatus = "cancelled"
)

// CanTransitionTo reports whether a plan may move from its current status to
// the target one. Completed and cancelled are terminal; completion is
// system-driven on full payment, cancellation is user-driven.
func (s PlanStatus) CanTransitionTo(target PlanStatus) bool {
	if s != PlanStatusActive {
		return false
	}
	return target == PlanStatusCompleted || target == PlanStatusCancelled
}

type PaymentPlan struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	StudentID          *uuid.UUID      `json:"student_id" db:"student_id"`
	StudentFirstName   string          `json:"student_first_name" db:"student_first_name"`
	StudentLastName    string          `json:"student_last_name" db:"student_last_name"`
	CourseID           *uuid.UUID      `json:"course_id" db:"course_id"`
	TotalAmount        decimal.Decimal `json:"total_amount" db:"total_amount"`
	InstallmentCount   int             `json:"installment_count" db:"installment_count"`
	InstallmentAmount  decimal.Decimal `json:"installment_amount" db:"installment_amount"`
	StartDate          time.Time       `json:"start_date" db:"start_date"`
	InstallmentDates   []time.Time     `json:"installment_dates"`
	Status             PlanStatus      `json:"status" db:"status"`
	CancellationReason string          `json:"cancellation_reason,omitempty" db:"cancellation_reason"`
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CancelledBy        *uuid.UUID      `json:"cancelled_by,omitempty" db:"cancelled_by"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// PlanOverview is the list projection: a plan joined with student/course names
// and the running paid/remaining totals.
type PlanOverview struct {
	PaymentPlan
	StudentName string          `json:"student_name"`
	CourseName  string          `json:"course_name"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Remaining   decimal.Decimal `json:"remaining_amount"`
}

type CreatePlanRequest struct {
	StudentID        *uuid.UUID      `json:"student_id"`
	StudentFirstName string          `json:"student_first_name"`
	StudentLastName  string          `json:"student_last_name"`
	CourseID         *uuid.UUID      `json:"course_id"`
	TotalAmount      decimal.Decimal `json:"total_amount" validate:"required"`
	InstallmentCount int             `json:"installment_count" validate:"gte=0,lte=48"`
	StartDate        string          `json:"start_date"` // YYYY-MM-DD, defaults to today
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"required"`
}
