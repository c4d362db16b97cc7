package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/alituydurr/sanatmerkezi-sub001/internal/model"
	"github.com/alituydurr/sanatmerkezi-sub001/internal/repository"
)

// FinanceService computes monthly summaries and the same-day operational
// view. Actual figures are keyed on payment execution dates, planned figures
// on due/event dates; the two axes are never mixed.
type FinanceService struct {
	financeRepo *repository.FinanceRepository
	logger      *logrus.Logger
}

func NewFinanceService(financeRepo *repository.FinanceRepository, logger *logrus.Logger) *FinanceService {
	return &FinanceService{financeRepo: financeRepo, logger: logger}
}

// Summarize returns the five aggregate figures for the given YYYY-MM month.
func (s *FinanceService) Summarize(ctx context.Context, monthYear string) (*model.MonthlySummary, error) {
	report, err := s.DetailedReport(ctx, monthYear)
	if err != nil {
		return nil, err
	}
	return &report.MonthlySummary, nil
}

// DetailedReport returns the aggregates plus the itemized rows feeding each
// one.
func (s *FinanceService) DetailedReport(ctx context.Context, monthYear string) (*model.DetailedReport, error) {
	from, to, err := parseMonthWindow(monthYear)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"month_year": monthYear,
		"from":       from.Format("2006-01-02"),
		"to":         to.Format("2006-01-02"),
	}).Debug("Computing financial summary")

	planIncome, err := s.financeRepo.PlanPaymentsInWindow(ctx, from, to)
	if err != nil {
		return nil, err
	}
	eventIncome, err := s.financeRepo.EventPaymentsInWindow(ctx, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.financeRepo.PayrollRecordsInWindow(ctx, from, to)
	if err != nil {
		return nil, err
	}
	dueInstallments, err := s.financeRepo.DueInstallmentsInWindow(ctx, from, to)
	if err != nil {
		return nil, err
	}
	eventBalances, err := s.financeRepo.EventBalancesInWindow(ctx, from, to)
	if err != nil {
		return nil, err
	}
	outstandingPayroll, err := s.financeRepo.OutstandingPayrollForMonth(ctx, monthYear)
	if err != nil {
		return nil, err
	}

	income := append(planIncome, eventIncome...)
	plannedIncome := append(dueInstallments, eventBalances...)

	report := &model.DetailedReport{
		MonthlySummary:  buildSummary(monthYear, income, expenses, plannedIncome, outstandingPayroll),
		Income:          income,
		Expenses:        expenses,
		PlannedIncome:   plannedIncome,
		PlannedExpenses: outstandingPayroll,
	}

	s.logger.WithFields(logrus.Fields{
		"month_year":     monthYear,
		"actual_income":  report.ActualIncome,
		"actual_expense": report.ActualExpense,
		"net_profit":     report.NetProfit,
	}).Info("Financial summary computed")

	return report, nil
}

// buildSummary folds the itemized rows into the five figures.
func buildSummary(
	monthYear string,
	income []model.IncomeItem,
	expenses []model.ExpenseItem,
	plannedIncome []model.PlannedIncomeItem,
	plannedExpenses []model.PlannedExpenseItem,
) model.MonthlySummary {
	summary := model.MonthlySummary{MonthYear: monthYear}

	for _, item := range income {
		summary.ActualIncome = summary.ActualIncome.Add(item.Amount)
	}
	for _, item := range expenses {
		summary.ActualExpense = summary.ActualExpense.Add(item.Amount)
	}
	for _, item := range plannedIncome {
		summary.PlannedIncome = summary.PlannedIncome.Add(item.Amount)
	}
	for _, item := range plannedExpenses {
		summary.PlannedExpense = summary.PlannedExpense.Add(item.Amount)
	}

	summary.NetProfit = summary.ActualIncome.Sub(summary.ActualExpense)
	summary.ProjectedProfit = summary.ActualIncome.Add(summary.PlannedIncome).
		Sub(summary.ActualExpense.Add(summary.PlannedExpense))

	return summary
}

// TodaysPayments partitions today's activity: plans due and unpaid, payments
// already received, and events starting today with a balance. A plan with a
// payment recorded today never shows up as due.
func (s *FinanceService) TodaysPayments(ctx context.Context) (*model.TodaysPayments, error) {
	today := dateOnly(time.Now())

	due, err := s.financeRepo.DuePlansForDay(ctx, today)
	if err != nil {
		return nil, err
	}
	received, err := s.financeRepo.ReceivedPaymentsForDay(ctx, today)
	if err != nil {
		return nil, err
	}
	events, err := s.financeRepo.EventsDueForDay(ctx, today)
	if err != nil {
		return nil, err
	}

	return &model.TodaysPayments{
		Date:     today,
		Due:      due,
		Received: received,
		Events:   events,
	}, nil
}

// ExportSummary renders the detailed report as an XLSX workbook.
func (s *FinanceService) ExportSummary(ctx context.Context, monthYear string) (*bytes.Buffer, error) {
	report, err := s.DetailedReport(ctx, monthYear)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Summary"
	f.SetSheetName("Sheet1", sheet)

	rows := [][]interface{}{
		{"Month", report.MonthYear},
		{"Actual income", decimalFloat(report.ActualIncome)},
		{"Actual expense", decimalFloat(report.ActualExpense)},
		{"Planned income", decimalFloat(report.MonthlySummary.PlannedIncome)},
		{"Planned expense", decimalFloat(report.PlannedExpense)},
		{"Net profit", decimalFloat(report.NetProfit)},
		{"Projected profit", decimalFloat(report.ProjectedProfit)},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	incomeSheet := "Income"
	if _, err := f.NewSheet(incomeSheet); err != nil {
		return nil, fmt.Errorf("failed to add income sheet: %w", err)
	}
	header := []interface{}{"Source", "Label", "Amount", "Date"}
	if err := f.SetSheetRow(incomeSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write income header: %w", err)
	}
	for i, item := range report.Income {
		row := []interface{}{item.Source, item.Label, decimalFloat(item.Amount), item.PaymentDate.Format("2006-01-02")}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(incomeSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write income row: %w", err)
		}
	}

	expenseSheet := "Expenses"
	if _, err := f.NewSheet(expenseSheet); err != nil {
		return nil, fmt.Errorf("failed to add expense sheet: %w", err)
	}
	expHeader := []interface{}{"Teacher", "Amount", "Date"}
	if err := f.SetSheetRow(expenseSheet, "A1", &expHeader); err != nil {
		return nil, fmt.Errorf("failed to write expense header: %w", err)
	}
	for i, item := range report.Expenses {
		row := []interface{}{item.TeacherName, decimalFloat(item.Amount), item.PaymentDate.Format("2006-01-02")}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(expenseSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write expense row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	return buf, nil
}

func decimalFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
