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

// LedgerService records payments against plans. Payments are additive and
// immutable; the only write beyond the insert is the flip to completed once
// the plan is fully paid.
type LedgerService struct {
	planRepo    *repository.PlanRepository
	paymentRepo *repository.PaymentRepository
	studentRepo *repository.StudentRepository
	emailSender *EmailSender
	logger      *logrus.Logger
}

func NewLedgerService(
	planRepo *repository.PlanRepository,
	paymentRepo *repository.PaymentRepository,
	studentRepo *repository.StudentRepository,
	emailSender *EmailSender,
	logger *logrus.Logger,
) *LedgerService {
	return &LedgerService{
		planRepo:    planRepo,
		paymentRepo: paymentRepo,
		studentRepo: studentRepo,
		emailSender: emailSender,
		logger:      logger,
	}
}

// RecordPayment inserts a payment and, when the running total reaches the
// plan's total amount, marks the plan completed inside the same transaction.
// Overpayment is accepted; remaining simply goes negative.
func (s *LedgerService) RecordPayment(ctx context.Context, req model.RecordPaymentRequest) (*model.Payment, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("amount must be positive: %w", model.ErrValidation)
	}

	plan, err := s.planRepo.GetByID(ctx, req.PaymentPlanID)
	if err != nil {
		return nil, err
	}

	// Explicit student wins, else the plan's own student reference.
	studentID := req.StudentID
	if studentID == nil {
		studentID = plan.StudentID
	}

	paymentDate := dateOnly(time.Now())
	if req.PaymentDate != "" {
		parsed, err := parseDate(req.PaymentDate)
		if err != nil {
			return nil, err
		}
		paymentDate = parsed
	}

	payment := &model.Payment{
		ID:            uuid.New(),
		PaymentPlanID: plan.ID,
		StudentID:     studentID,
		Amount:        req.Amount,
		PaymentDate:   paymentDate,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		CreatedAt:     time.Now(),
	}

	tx, err := s.planRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.paymentRepo.CreateTx(ctx, tx, payment); err != nil {
		return nil, err
	}

	totalPaid, err := s.paymentRepo.SumForPlanTx(ctx, tx, plan.ID)
	if err != nil {
		return nil, err
	}

	if plan.Status == model.PlanStatusActive && totalPaid.GreaterThanOrEqual(plan.TotalAmount) {
		if err := s.planRepo.MarkCompletedTx(ctx, tx, plan.ID); err != nil {
			return nil, err
		}
		s.logger.WithFields(logrus.Fields{
			"plan_id":    plan.ID,
			"total_paid": totalPaid,
		}).Info("Plan fully paid, marked completed")
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"plan_id":    plan.ID,
		"amount":     payment.Amount,
	}).Info("Payment recorded")

	// Receipt email after commit; a delivery failure never rolls anything back.
	if studentID != nil {
		if student, err := s.studentRepo.GetByID(ctx, *studentID); err == nil && student.Email != "" {
			go func(email string, amount decimal.Decimal, planID uuid.UUID) {
				if err := s.emailSender.SendPaymentReceipt(email, amount, planID); err != nil {
					s.logger.WithError(err).Warn("Failed to send payment receipt")
				}
			}(student.Email, payment.Amount, plan.ID)
		}
	}

	return payment, nil
}

// StudentPayments lists a student's payments with plan/course context, newest
// first.
func (s *LedgerService) StudentPayments(ctx context.Context, studentID uuid.UUID) ([]model.StudentPayment, error) {
	return s.paymentRepo.ListByStudent(ctx, studentID)
}
