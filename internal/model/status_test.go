package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPlanStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to PlanStatus
		allowed  bool
	}{
		{PlanStatusActive, PlanStatusCompleted, true},
		{PlanStatusActive, PlanStatusCancelled, true},
		{PlanStatusActive, PlanStatusActive, false},
		{PlanStatusCompleted, PlanStatusCancelled, false},
		{PlanStatusCompleted, PlanStatusActive, false},
		{PlanStatusCancelled, PlanStatusCompleted, false},
		{PlanStatusCancelled, PlanStatusActive, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestDerivePaymentStatus(t *testing.T) {
	price := decimal.NewFromInt(100)

	assert.Equal(t, EnrollmentPending, DerivePaymentStatus(decimal.Zero, price))
	assert.Equal(t, EnrollmentPartial, DerivePaymentStatus(decimal.NewFromInt(50), price))
	assert.Equal(t, EnrollmentPaid, DerivePaymentStatus(decimal.NewFromInt(100), price))
	// Accumulated 50 + 70 overshoots the price and still reads as paid.
	assert.Equal(t, EnrollmentPaid, DerivePaymentStatus(decimal.NewFromInt(120), price))
}

func TestDerivePayrollStatus(t *testing.T) {
	total := decimal.RequireFromString("937.50")

	assert.Equal(t, PayrollPending, DerivePayrollStatus(decimal.Zero, total))
	assert.Equal(t, PayrollPartial, DerivePayrollStatus(decimal.NewFromInt(400), total))
	assert.Equal(t, PayrollCompleted, DerivePayrollStatus(total, total))
	assert.Equal(t, PayrollCompleted, DerivePayrollStatus(decimal.NewFromInt(1000), total))
}

func TestEventStatusTerminal(t *testing.T) {
	assert.False(t, EventStatusScheduled.Terminal())
	assert.True(t, EventStatusCancelled.Terminal())
	assert.True(t, EventStatusCompleted.Terminal())
}
