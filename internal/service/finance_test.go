package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/alituydurr/sanatmerkezi-sub001/internal/model"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBuildSummaryFolds(t *testing.T) {
	income := []model.IncomeItem{
		{Source: "plan_payment", Amount: money("400.00")},
		{Source: "event_payment", Amount: money("150.50")},
	}
	expenses := []model.ExpenseItem{
		{TeacherName: "A. Teacher", Amount: money("300.00")},
	}
	plannedIncome := []model.PlannedIncomeItem{
		{Source: "installment", Amount: money("400.00")},
		{Source: "event_balance", Amount: money("49.50")},
	}
	plannedExpenses := []model.PlannedExpenseItem{
		{TeacherName: "A. Teacher", Amount: money("200.00")},
	}

	summary := buildSummary("2025-08", income, expenses, plannedIncome, plannedExpenses)

	assert.Equal(t, "2025-08", summary.MonthYear)
	assert.True(t, summary.ActualIncome.Equal(money("550.50")), "actual income = %s", summary.ActualIncome)
	assert.True(t, summary.ActualExpense.Equal(money("300.00")))
	assert.True(t, summary.PlannedIncome.Equal(money("449.50")))
	assert.True(t, summary.PlannedExpense.Equal(money("200.00")))
	assert.True(t, summary.NetProfit.Equal(money("250.50")), "net profit = %s", summary.NetProfit)
	// (550.50 + 449.50) - (300.00 + 200.00)
	assert.True(t, summary.ProjectedProfit.Equal(money("500.00")), "projected profit = %s", summary.ProjectedProfit)
}

func TestBuildSummaryEmptyMonth(t *testing.T) {
	summary := buildSummary("2025-01", nil, nil, nil, nil)

	assert.True(t, summary.ActualIncome.IsZero())
	assert.True(t, summary.ActualExpense.IsZero())
	assert.True(t, summary.PlannedIncome.IsZero())
	assert.True(t, summary.PlannedExpense.IsZero())
	assert.True(t, summary.NetProfit.IsZero())
	assert.True(t, summary.ProjectedProfit.IsZero())
}

// Expenses exceeding income must yield a negative profit, not clamp at zero.
func TestBuildSummaryNegativeProfit(t *testing.T) {
	expenses := []model.ExpenseItem{{Amount: money("750.00")}}
	income := []model.IncomeItem{{Amount: money("500.00")}}

	summary := buildSummary("2025-03", income, expenses, nil, nil)

	assert.True(t, summary.NetProfit.Equal(money("-250.00")), "net profit = %s", summary.NetProfit)
}
