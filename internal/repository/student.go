package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/alituydurr/sanatmerkezi-sub001/internal/model"
)

type StudentRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewStudentRepository(db *sql.DB, logger *logrus.Logger) *StudentRepository {
	return &StudentRepository{db: db, logger: logger}
}

func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	query := `
        SELECT id, first_name, last_name, email, phone, created_at, updated_at
        FROM students
        WHERE id = $1
    `

	var s model.Student
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID,
		&s.FirstName,
		&s.LastName,
		&s.Email,
		&s.Phone,
		&s.CreatedAt,
		&s.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("student %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return &s, nil
}

// Delete removes a student unless any payment plan references them.
func (r *StudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var hasPlans bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM payment_plans WHERE student_id = $1)`, id).Scan(&hasPlans)
	if err != nil {
		return fmt.Errorf("failed to check plans for student: %w", err)
	}
	if hasPlans {
		return fmt.Errorf("student has payment plans: %w", model.ErrConflict)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("student %s: %w", id, model.ErrNotFound)
	}

	return nil
}
