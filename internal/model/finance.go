package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlySummary holds the five figures for one calendar month. Actual figures
// are keyed on payment execution dates, planned figures on due/event dates;
// the two time axes are deliberately distinct.
type MonthlySummary struct {
	MonthYear       string          `json:"month_year"`
	ActualIncome    decimal.Decimal `json:"actual_income"`
	ActualExpense   decimal.Decimal `json:"actual_expense"`
	PlannedIncome   decimal.Decimal `json:"planned_income"`
	PlannedExpense  decimal.Decimal `json:"planned_expense"`
	NetProfit       decimal.Decimal `json:"net_profit"`
	ProjectedProfit decimal.Decimal `json:"projected_profit"`
}

// IncomeItem is one realized income row: a plan payment or an event payment.
type IncomeItem struct {
	Source      string          `json:"source"` // "plan_payment" or "event_payment"
	ReferenceID uuid.UUID       `json:"reference_id"`
	Label       string          `json:"label"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
}

// ExpenseItem is one realized payroll payout row.
type ExpenseItem struct {
	RecordID    uuid.UUID       `json:"record_id"`
	TeacherName string          `json:"teacher_name"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
}

// PlannedIncomeItem is an expected installment or an unpaid event balance.
type PlannedIncomeItem struct {
	Source      string          `json:"source"` // "installment" or "event_balance"
	ReferenceID uuid.UUID       `json:"reference_id"`
	Label       string          `json:"label"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
}

// PlannedExpenseItem is an outstanding payroll balance for the month.
type PlannedExpenseItem struct {
	TeacherPaymentID uuid.UUID       `json:"teacher_payment_id"`
	TeacherName      string          `json:"teacher_name"`
	Amount           decimal.Decimal `json:"amount"`
}

// DetailedReport is the drill-down variant: the same aggregates plus the rows
// that fed each one.
type DetailedReport struct {
	MonthlySummary
	Income          []IncomeItem         `json:"income"`
	Expenses        []ExpenseItem        `json:"expenses"`
	PlannedIncome   []PlannedIncomeItem  `json:"planned_income_items"`
	PlannedExpenses []PlannedExpenseItem `json:"planned_expense_items"`
}

// DuePlan is a plan with an installment due today and no payment yet today.
type DuePlan struct {
	PlanID            uuid.UUID       `json:"plan_id"`
	StudentName       string          `json:"student_name"`
	CourseName        string          `json:"course_name"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	DueDate           time.Time       `json:"due_date"`
}

// ReceivedPayment is a payment that landed today.
type ReceivedPayment struct {
	PaymentID   uuid.UUID       `json:"payment_id"`
	PlanID      uuid.UUID       `json:"plan_id"`
	StudentName string          `json:"student_name"`
	Amount      decimal.Decimal `json:"amount"`
}

// DueEvent is an event starting today with a positive unpaid balance.
type DueEvent struct {
	EventID   uuid.UUID       `json:"event_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Remaining decimal.Decimal `json:"remaining"`
}

// TodaysPayments is the same-day operational view. A plan with a payment
// recorded today appears only under Received, never under Due.
type TodaysPayments struct {
	Date     time.Time         `json:"date"`
	Due      []DuePlan         `json:"due"`
	Received []ReceivedPayment `json:"received"`
	Events   []DueEvent        `json:"events"`
}
