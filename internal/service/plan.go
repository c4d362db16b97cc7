package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/alituydurr/sanatmerkezi-sub001/internal/model"
	"github.com/alituydurr/sanatmerkezi-sub001/internal/repository"
)

type PlanService struct {
	planRepo    *repository.PlanRepository
	studentRepo *repository.StudentRepository
	logger      *logrus.Logger
}

func NewPlanService(
	planRepo *repository.PlanRepository,
	studentRepo *repository.StudentRepository,
	logger *logrus.Logger,
) *PlanService {
	return &PlanService{
		planRepo:    planRepo,
		studentRepo: studentRepo,
		logger:      logger,
	}
}

// CreatePlan builds the installment schedule and stores the plan together
// with its installment rows in one transaction.
func (s *PlanService) CreatePlan(ctx context.Context, req model.CreatePlanRequest) (*model.PaymentPlan, error) {
	if req.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("total_amount must be positive: %w", model.ErrValidation)
	}
	if req.StudentID == nil && req.StudentFirstName == "" {
		return nil, fmt.Errorf("student_id or student name is required: %w", model.ErrValidation)
	}

	if req.StudentID != nil {
		if _, err := s.studentRepo.GetByID(ctx, *req.StudentID); err != nil {
			return nil, err
		}
	}

	start := dateOnly(time.Now())
	if req.StartDate != "" {
		parsed, err := parseDate(req.StartDate)
		if err != nil {
			return nil, err
		}
		start = parsed
	}

	count := req.InstallmentCount
	if count < 1 {
		count = 1
	}

	amount, dates := BuildSchedule(req.TotalAmount, count, start)

	now := time.Now()
	plan := &model.PaymentPlan{
		ID:                uuid.New(),
		StudentID:         req.StudentID,
		StudentFirstName:  req.StudentFirstName,
		StudentLastName:   req.StudentLastName,
		CourseID:          req.CourseID,
		TotalAmount:       req.TotalAmount,
		InstallmentCount:  count,
		InstallmentAmount: amount,
		StartDate:         start,
		InstallmentDates:  dates,
		Status:            model.PlanStatusActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	s.logger.WithFields(logrus.Fields{
		"plan_id":      plan.ID,
		"total":        plan.TotalAmount,
		"installments": plan.InstallmentCount,
		"start_date":   start.Format("2006-01-02"),
	}).Info("Creating payment plan")

	tx, err := s.planRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.planRepo.CreateTx(ctx, tx, plan); err != nil {
		return nil, err
	}
	if err := s.planRepo.CreateInstallmentsTx(ctx, tx, plan.ID, dates); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return plan, nil
}

func (s *PlanService) GetPlan(ctx context.Context, id uuid.UUID) (*model.PaymentPlan, error) {
	return s.planRepo.GetByID(ctx, id)
}

func (s *PlanService) ListActive(ctx context.Context) ([]model.PlanOverview, error) {
	return s.planRepo.ListByStatus(ctx, model.PlanStatusActive)
}

func (s *PlanService) ListCancelled(ctx context.Context) ([]model.PlanOverview, error) {
	return s.planRepo.ListByStatus(ctx, model.PlanStatusCancelled)
}

// CancelPlan moves an active plan to cancelled. Prior payments stay counted
// as income; nothing is reversed.
func (s *PlanService) CancelPlan(ctx context.Context, id uuid.UUID, reason string, cancelledBy *uuid.UUID) error {
	if isBlank(reason) {
		return fmt.Errorf("cancellation reason is required: %w", model.ErrValidation)
	}

	s.logger.WithFields(logrus.Fields{
		"plan_id": id,
		"reason":  reason,
	}).Info("Cancelling payment plan")

	return s.planRepo.Cancel(ctx, id, reason, cancelledBy)
}

// DeleteStudent removes a student record; blocked while any plan references
// the student.
func (s *PlanService) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	return s.studentRepo.Delete(ctx, id)
}
