package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Migrate creates the schema if it does not exist yet. Statements are
// idempotent so the server can run them on every start.
func Migrate(ctx context.Context, db *sql.DB, logger *logrus.Logger) error {
	logger.Info("Running database migrations...")

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'admin2',
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS password_resets (
			token TEXT PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS students (
			id UUID PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS courses (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS payment_plans (
			id UUID PRIMARY KEY,
			student_id UUID REFERENCES students(id),
			student_first_name TEXT NOT NULL DEFAULT '',
			student_last_name TEXT NOT NULL DEFAULT '',
			course_id UUID REFERENCES courses(id),
			total_amount NUMERIC(12,2) NOT NULL,
			installment_count INTEGER NOT NULL CHECK (installment_count >= 1),
			installment_amount NUMERIC(12,2) NOT NULL,
			start_date DATE NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			cancellation_reason TEXT NOT NULL DEFAULT '',
			cancelled_at TIMESTAMPTZ,
			cancelled_by UUID REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS plan_installments (
			id UUID PRIMARY KEY,
			payment_plan_id UUID NOT NULL REFERENCES payment_plans(id) ON DELETE CASCADE,
			installment_number INTEGER NOT NULL,
			due_date DATE NOT NULL,
			UNIQUE (payment_plan_id, installment_number)
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY,
			payment_plan_id UUID NOT NULL REFERENCES payment_plans(id),
			student_id UUID REFERENCES students(id),
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			payment_date DATE NOT NULL,
			payment_method TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			event_type TEXT NOT NULL DEFAULT '',
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			price NUMERIC(12,2) NOT NULL,
			status TEXT NOT NULL DEFAULT 'scheduled',
			cancellation_reason TEXT NOT NULL DEFAULT '',
			cancelled_at TIMESTAMPTZ,
			cancelled_by UUID REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS event_enrollments (
			id UUID PRIMARY KEY,
			event_id UUID NOT NULL REFERENCES events(id),
			student_id UUID REFERENCES students(id),
			paid_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			payment_status TEXT NOT NULL DEFAULT 'pending',
			payment_date DATE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		// NULL student_id marks a direct payment against the event; the
		// COALESCE expression makes that row unique per event too.
		`CREATE UNIQUE INDEX IF NOT EXISTS event_enrollments_event_student_key
			ON event_enrollments (event_id, COALESCE(student_id, '00000000-0000-0000-0000-000000000000'::uuid))`,
		`CREATE TABLE IF NOT EXISTS teacher_payments (
			id UUID PRIMARY KEY,
			teacher_id UUID NOT NULL REFERENCES users(id),
			month_year TEXT NOT NULL,
			total_hours NUMERIC(8,2) NOT NULL,
			hourly_rate NUMERIC(12,2) NOT NULL,
			total_amount NUMERIC(12,2) NOT NULL,
			paid_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			remaining_amount NUMERIC(12,2) NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			cancellation_reason TEXT NOT NULL DEFAULT '',
			cancelled_at TIMESTAMPTZ,
			cancelled_by UUID REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			UNIQUE (teacher_id, month_year)
		)`,
		`CREATE TABLE IF NOT EXISTS teacher_payment_records (
			id UUID PRIMARY KEY,
			teacher_payment_id UUID NOT NULL REFERENCES teacher_payments(id),
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			payment_date DATE NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS payments_payment_date_idx ON payments (payment_date)`,
		`CREATE INDEX IF NOT EXISTS plan_installments_due_date_idx ON plan_installments (due_date)`,
		`CREATE INDEX IF NOT EXISTS teacher_payment_records_payment_date_idx ON teacher_payment_records (payment_date)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.WithError(err).Error("Migration statement failed")
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	logger.Info("Database migrations completed")
	return nil
}
