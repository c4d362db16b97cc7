package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alituydurr/sanatmerkezi-sub001/internal/model"
)

// FinanceRepository serves the aggregator with itemized rows; summing happens
// in the service so the detailed report reuses the same queries.
type FinanceRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewFinanceRepository(db *sql.DB, logger *logrus.Logger) *FinanceRepository {
	return &FinanceRepository{db: db, logger: logger}
}

// PlanPaymentsInWindow returns realized plan payments with payment_date in
// [from, to], regardless of the plan's current status.
func (r *FinanceRepository) PlanPaymentsInWindow(ctx context.Context, from, to time.Time) ([]model.IncomeItem, error) {
	query := `
        SELECT pm.id, pm.amount, pm.payment_date,
               COALESCE(NULLIF(TRIM(s.first_name || ' ' || s.last_name), ''),
                        TRIM(p.student_first_name || ' ' || p.student_last_name)) AS label
        FROM payments pm
        JOIN payment_plans p ON p.id = pm.payment_plan_id
        LEFT JOIN students s ON s.id = COALESCE(pm.student_id, p.student_id)
        WHERE pm.payment_date >= $1 AND pm.payment_date <= $2
        ORDER BY pm.payment_date
    `

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query plan payments: %w", err)
	}
	defer rows.Close()

	var items []model.IncomeItem
	for rows.Next() {
		item := model.IncomeItem{Source: "plan_payment"}
		if err := rows.Scan(&item.ReferenceID, &item.Amount, &item.PaymentDate, &item.Label); err != nil {
			return nil, fmt.Errorf("failed to scan plan payment: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// EventPaymentsInWindow returns enrollment payments dated inside the window.
// Event status is deliberately ignored: realized payments are never rescinded
// by a later cancellation.
func (r *FinanceRepository) EventPaymentsInWindow(ctx context.Context, from, to time.Time) ([]model.IncomeItem, error) {
	query := `
        SELECT en.id, en.paid_amount, en.payment_date, ev.name
        FROM event_enrollments en
        JOIN events ev ON ev.id = en.event_id
        WHERE en.paid_amount > 0 AND en.payment_date >= $1 AND en.payment_date <= $2
        ORDER BY en.payment_date
    `

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query event payments: %w", err)
	}
	defer rows.Close()

	var items []model.IncomeItem
	for rows.Next() {
		item := model.IncomeItem{Source: "event_payment"}
		if err := rows.Scan(&item.ReferenceID, &item.Amount, &item.PaymentDate, &item.Label); err != nil {
			return nil, fmt.Errorf("failed to scan event payment: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// PayrollRecordsInWindow returns payouts dated inside the window whose parent
// payroll entry is not cancelled.
func (r *FinanceRepository) PayrollRecordsInWindow(ctx context.Context, from, to time.Time) ([]model.ExpenseItem, error) {
	query := `
        SELECT rec.id, rec.amount, rec.payment_date, u.username
        FROM teacher_payment_records rec
        JOIN teacher_payments tp ON tp.id = rec.teacher_payment_id
        JOIN users u ON u.id = tp.teacher_id
        WHERE rec.payment_date >= $1 AND rec.payment_date <= $2
          AND tp.status <> 'cancelled'
        ORDER BY rec.payment_date
    `

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll records: %w", err)
	}
	defer rows.Close()

	var items []model.ExpenseItem
	for rows.Next() {
		var item model.ExpenseItem
		if err := rows.Scan(&item.RecordID, &item.Amount, &item.PaymentDate, &item.TeacherName); err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// DueInstallmentsInWindow returns one row per active plan with at least one
// installment due inside the window; the amount is the plan's installment
// amount counted once.
func (r *FinanceRepository) DueInstallmentsInWindow(ctx context.Context, from, to time.Time) ([]model.PlannedIncomeItem, error) {
	query := `
        SELECT DISTINCT ON (p.id) p.id, p.installment_amount, i.due_date,
               COALESCE(NULLIF(TRIM(s.first_name || ' ' || s.last_name), ''),
                        TRIM(p.student_first_name || ' ' || p.student_last_name)) AS label
        FROM payment_plans p
        JOIN plan_installments i ON i.payment_plan_id = p.id
        LEFT JOIN students s ON s.id = p.student_id
        WHERE p.status = 'active' AND i.due_date >= $1 AND i.due_date <= $2
        ORDER BY p.id, i.due_date
    `

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query due installments: %w", err)
	}
	defer rows.Close()

	var items []model.PlannedIncomeItem
	for rows.Next() {
		item := model.PlannedIncomeItem{Source: "installment"}
		if err := rows.Scan(&item.ReferenceID, &item.Amount, &item.DueDate, &item.Label); err != nil {
			return nil, fmt.Errorf("failed to scan due installment: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// EventBalancesInWindow returns events starting inside the window that are
// neither cancelled nor completed and still have a positive unpaid balance.
func (r *FinanceRepository) EventBalancesInWindow(ctx context.Context, from, to time.Time) ([]model.PlannedIncomeItem, error) {
	query := `
        SELECT ev.id, ev.name, ev.start_date,
               ev.price - COALESCE(SUM(en.paid_amount), 0) AS remaining
        FROM events ev
        LEFT JOIN event_enrollments en ON en.event_id = ev.id
        WHERE ev.start_date >= $1 AND ev.start_date <= $2
          AND ev.status NOT IN ('cancelled', 'completed')
        GROUP BY ev.id
        HAVING ev.price - COALESCE(SUM(en.paid_amount), 0) > 0
        ORDER BY ev.start_date
    `

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query event balances: %w", err)
	}
	defer rows.Close()

	var items []model.PlannedIncomeItem
	for rows.Next() {
		item := model.PlannedIncomeItem{Source: "event_balance"}
		if err := rows.Scan(&item.ReferenceID, &item.Label, &item.DueDate, &item.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan event balance: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// OutstandingPayrollForMonth returns payroll entries for the month that still
// owe money (pending or partial).
func (r *FinanceRepository) OutstandingPayrollForMonth(ctx context.Context, monthYear string) ([]model.PlannedExpenseItem, error) {
	query := `
        SELECT tp.id, u.username, tp.total_amount - tp.paid_amount
        FROM teacher_payments tp
        JOIN users u ON u.id = tp.teacher_id
        WHERE tp.month_year = $1 AND tp.status IN ('pending', 'partial')
        ORDER BY u.username
    `

	rows, err := r.db.QueryContext(ctx, query, monthYear)
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding payroll: %w", err)
	}
	defer rows.Close()

	var items []model.PlannedExpenseItem
	for rows.Next() {
		var item model.PlannedExpenseItem
		if err := rows.Scan(&item.TeacherPaymentID, &item.TeacherName, &item.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan outstanding payroll: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// DuePlansForDay returns active plans with an installment due on the given day
// and no payment recorded that day. A plan paid today belongs to the received
// bucket instead.
func (r *FinanceRepository) DuePlansForDay(ctx context.Context, day time.Time) ([]model.DuePlan, error) {
	query := `
        SELECT p.id, p.installment_amount, i.due_date,
               COALESCE(NULLIF(TRIM(s.first_name || ' ' || s.last_name), ''),
                        TRIM(p.student_first_name || ' ' || p.student_last_name)) AS student_name,
               COALESCE(c.name, '') AS course_name
        FROM payment_plans p
        JOIN plan_installments i ON i.payment_plan_id = p.id
        LEFT JOIN students s ON s.id = p.student_id
        LEFT JOIN courses c ON c.id = p.course_id
        WHERE p.status = 'active'
          AND i.due_date = $1
          AND NOT EXISTS (
              SELECT 1 FROM payments pm
              WHERE pm.payment_plan_id = p.id AND pm.payment_date = $1
          )
        ORDER BY student_name
    `

	rows, err := r.db.QueryContext(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query due plans: %w", err)
	}
	defer rows.Close()

	var plans []model.DuePlan
	for rows.Next() {
		var p model.DuePlan
		if err := rows.Scan(&p.PlanID, &p.InstallmentAmount, &p.DueDate, &p.StudentName, &p.CourseName); err != nil {
			return nil, fmt.Errorf("failed to scan due plan: %w", err)
		}
		plans = append(plans, p)
	}

	return plans, rows.Err()
}

// ReceivedPaymentsForDay returns payments recorded on the given day.
func (r *FinanceRepository) ReceivedPaymentsForDay(ctx context.Context, day time.Time) ([]model.ReceivedPayment, error) {
	query := `
        SELECT pm.id, pm.payment_plan_id, pm.amount,
               COALESCE(NULLIF(TRIM(s.first_name || ' ' || s.last_name), ''),
                        TRIM(p.student_first_name || ' ' || p.student_last_name)) AS student_name
        FROM payments pm
        JOIN payment_plans p ON p.id = pm.payment_plan_id
        LEFT JOIN students s ON s.id = COALESCE(pm.student_id, p.student_id)
        WHERE pm.payment_date = $1
        ORDER BY pm.created_at
    `

	rows, err := r.db.QueryContext(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query received payments: %w", err)
	}
	defer rows.Close()

	var payments []model.ReceivedPayment
	for rows.Next() {
		var p model.ReceivedPayment
		if err := rows.Scan(&p.PaymentID, &p.PlanID, &p.Amount, &p.StudentName); err != nil {
			return nil, fmt.Errorf("failed to scan received payment: %w", err)
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

// EventsDueForDay returns events starting on the given day with a positive
// unpaid balance.
func (r *FinanceRepository) EventsDueForDay(ctx context.Context, day time.Time) ([]model.DueEvent, error) {
	query := `
        SELECT ev.id, ev.name, ev.price,
               ev.price - COALESCE(SUM(en.paid_amount), 0) AS remaining
        FROM events ev
        LEFT JOIN event_enrollments en ON en.event_id = ev.id
        WHERE ev.start_date = $1 AND ev.status NOT IN ('cancelled', 'completed')
        GROUP BY ev.id
        HAVING ev.price - COALESCE(SUM(en.paid_amount), 0) > 0
        ORDER BY ev.name
    `

	rows, err := r.db.QueryContext(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query due events: %w", err)
	}
	defer rows.Close()

	var events []model.DueEvent
	for rows.Next() {
		var e model.DueEvent
		if err := rows.Scan(&e.EventID, &e.Name, &e.Price, &e.Remaining); err != nil {
			return nil, fmt.Errorf("failed to scan due event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
