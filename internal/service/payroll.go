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

type PayrollService struct {
	payrollRepo *repository.PayrollRepository
	userRepo    *repository.UserRepository
	logger      *logrus.Logger
}

func NewPayrollService(
	payrollRepo *repository.PayrollRepository,
	userRepo *repository.UserRepository,
	logger *logrus.Logger,
) *PayrollService {
	return &PayrollService{
		payrollRepo: payrollRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// UpsertTeacherPayment creates or updates the single payroll row for the
// (teacher, month) key. total = hours * rate, rounded to 2 places.
func (s *PayrollService) UpsertTeacherPayment(ctx context.Context, req model.UpsertTeacherPaymentRequest) (*model.TeacherPayment, error) {
	if _, _, err := parseMonthWindow(req.MonthYear); err != nil {
		return nil, err
	}
	if req.TotalHours.LessThanOrEqual(decimal.Zero) || req.HourlyRate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("total_hours and hourly_rate must be positive: %w", model.ErrValidation)
	}

	teacher, err := s.userRepo.GetByID(ctx, req.TeacherID)
	if err != nil {
		return nil, err
	}
	if teacher.Role != model.RoleTeacher {
		return nil, fmt.Errorf("user %s is not a teacher: %w", req.TeacherID, model.ErrValidation)
	}

	payment := &model.TeacherPayment{
		ID:          uuid.New(),
		TeacherID:   req.TeacherID,
		MonthYear:   req.MonthYear,
		TotalHours:  req.TotalHours,
		HourlyRate:  req.HourlyRate,
		TotalAmount: req.TotalHours.Mul(req.HourlyRate).Round(2),
	}

	out, err := s.payrollRepo.Upsert(ctx, payment)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"teacher_payment_id": out.ID,
		"teacher_id":         out.TeacherID,
		"month_year":         out.MonthYear,
		"total_amount":       out.TotalAmount,
	}).Info("Teacher payment upserted")

	return out, nil
}

// RecordPayout inserts a payout record and recomputes paid/remaining/status
// for the parent payroll entry in one transaction.
func (s *PayrollService) RecordPayout(ctx context.Context, teacherPaymentID uuid.UUID, req model.RecordPayoutRequest) (*model.TeacherPaymentRecord, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("amount must be positive: %w", model.ErrValidation)
	}

	payment, err := s.payrollRepo.GetByID(ctx, teacherPaymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status == model.PayrollCancelled {
		return nil, fmt.Errorf("teacher payment is cancelled: %w", model.ErrConflict)
	}

	paymentDate := dateOnly(time.Now())
	if req.PaymentDate != "" {
		if paymentDate, err = parseDate(req.PaymentDate); err != nil {
			return nil, err
		}
	}

	record := &model.TeacherPaymentRecord{
		ID:               uuid.New(),
		TeacherPaymentID: payment.ID,
		Amount:           req.Amount,
		PaymentDate:      paymentDate,
		Notes:            req.Notes,
		CreatedAt:        time.Now(),
	}

	tx, err := s.payrollRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.payrollRepo.CreateRecordTx(ctx, tx, record); err != nil {
		return nil, err
	}

	paid, err := s.payrollRepo.SumRecordsTx(ctx, tx, payment.ID)
	if err != nil {
		return nil, err
	}

	remaining := payment.TotalAmount.Sub(paid)
	status := model.DerivePayrollStatus(paid, payment.TotalAmount)
	if err := s.payrollRepo.UpdateProgressTx(ctx, tx, payment.ID, paid, remaining, status); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"teacher_payment_id": payment.ID,
		"record_id":          record.ID,
		"paid_total":         paid,
		"status":             status,
	}).Info("Teacher payout recorded")

	return record, nil
}

// CancelTeacherPayment flips a pending/partial payroll entry to cancelled.
// Past payout records stay counted as expense.
func (s *PayrollService) CancelTeacherPayment(ctx context.Context, id uuid.UUID, reason string, cancelledBy *uuid.UUID) error {
	if isBlank(reason) {
		return fmt.Errorf("cancellation reason is required: %w", model.ErrValidation)
	}

	s.logger.WithFields(logrus.Fields{
		"teacher_payment_id": id,
		"reason":             reason,
	}).Info("Cancelling teacher payment")

	return s.payrollRepo.Cancel(ctx, id, reason, cancelledBy)
}

func (s *PayrollService) GetTeacherPayment(ctx context.Context, id uuid.UUID) (*model.TeacherPayment, error) {
	return s.payrollRepo.GetByID(ctx, id)
}

func (s *PayrollService) ListByMonth(ctx context.Context, monthYear string) ([]model.TeacherPayment, error) {
	if _, _, err := parseMonthWindow(monthYear); err != nil {
		return nil, err
	}
	return s.payrollRepo.ListByMonth(ctx, monthYear)
}
