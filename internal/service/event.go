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

type EventService struct {
	eventRepo *repository.EventRepository
	logger    *logrus.Logger
}

func NewEventService(eventRepo *repository.EventRepository, logger *logrus.Logger) *EventService {
	return &EventService{eventRepo: eventRepo, logger: logger}
}

func (s *EventService) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	if req.Price.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("price must not be negative: %w", model.ErrValidation)
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end := start
	if req.EndDate != "" {
		if end, err = parseDate(req.EndDate); err != nil {
			return nil, err
		}
		if end.Before(start) {
			return nil, fmt.Errorf("end_date before start_date: %w", model.ErrValidation)
		}
	}

	now := time.Now()
	event := &model.Event{
		ID:        uuid.New(),
		Name:      req.Name,
		EventType: req.EventType,
		StartDate: start,
		EndDate:   end,
		Price:     req.Price,
		Status:    model.EventStatusScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"event_id": event.ID,
		"name":     event.Name,
		"price":    event.Price,
	}).Info("Event created")

	return event, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

func (s *EventService) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.eventRepo.List(ctx)
}

// CancelEvent flips a scheduled event to cancelled. Enrollment payments made
// so far remain income.
func (s *EventService) CancelEvent(ctx context.Context, id uuid.UUID, reason string, cancelledBy *uuid.UUID) error {
	if isBlank(reason) {
		return fmt.Errorf("cancellation reason is required: %w", model.ErrValidation)
	}

	s.logger.WithFields(logrus.Fields{
		"event_id": id,
		"reason":   reason,
	}).Info("Cancelling event")

	return s.eventRepo.Cancel(ctx, id, reason, cancelledBy)
}

// RecordEventPayment accumulates a payment onto the (event, student)
// enrollment row, creating it on first contact, and rederives the payment
// status from the new total. A nil student is the direct-payment row.
func (s *EventService) RecordEventPayment(
	ctx context.Context,
	eventID uuid.UUID,
	req model.EventPaymentRequest,
) (*model.EventEnrollment, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("amount must be positive: %w", model.ErrValidation)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	paymentDate := dateOnly(time.Now())
	if req.PaymentDate != "" {
		if paymentDate, err = parseDate(req.PaymentDate); err != nil {
			return nil, err
		}
	}

	tx, err := s.eventRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	enrollmentID, paid, err := s.eventRepo.AccumulatePaymentTx(ctx, tx, event.ID, req.StudentID, req.Amount, paymentDate)
	if err != nil {
		return nil, err
	}

	status := model.DerivePaymentStatus(paid, event.Price)
	if err := s.eventRepo.UpdateEnrollmentStatusTx(ctx, tx, enrollmentID, status); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"event_id":      event.ID,
		"enrollment_id": enrollmentID,
		"paid_total":    paid,
		"status":        status,
	}).Info("Event payment recorded")

	return s.eventRepo.GetEnrollment(ctx, enrollmentID)
}

func (s *EventService) ListEnrollments(ctx context.Context, eventID uuid.UUID) ([]model.EventEnrollment, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListEnrollments(ctx, eventID)
}
