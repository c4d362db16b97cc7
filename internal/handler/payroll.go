package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/alituydurr/sanatmerkezi-sub001/internal/model"
	"github.com/alituydurr/sanatmerkezi-sub001/internal/service"
)

type PayrollHandler struct {
	payrollService *service.PayrollService
	logger         *logrus.Logger
}

func NewPayrollHandler(payrollService *service.PayrollService, logger *logrus.Logger) *PayrollHandler {
	return &PayrollHandler{
		payrollService: payrollService,
		logger:         logger,
	}
}

// RegisterRoutes wires the administrative payroll operations.
func (h *PayrollHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.UpsertTeacherPayment).Methods("POST")
	router.HandleFunc("", h.ListByMonth).Methods("GET")
	router.HandleFunc("/{paymentId}/records", h.RecordPayout).Methods("POST")
	router.HandleFunc("/{paymentId}/cancel", h.CancelTeacherPayment).Methods("POST")
}

// RegisterReadRoutes wires the single-entry lookup, which teachers may call
// for their own payroll rows.
func (h *PayrollHandler) RegisterReadRoutes(router *mux.Router) {
	router.HandleFunc("/{paymentId}", h.GetTeacherPayment).Methods("GET")
}

func (h *PayrollHandler) UpsertTeacherPayment(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertTeacherPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Warn("Failed to decode teacher payment request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	payment, err := h.payrollService.UpsertTeacherPayment(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, payment)
}

func (h *PayrollHandler) ListByMonth(w http.ResponseWriter, r *http.Request) {
	monthYear := r.URL.Query().Get("month_year")
	if monthYear == "" {
		http.Error(w, "month_year query parameter is required", http.StatusBadRequest)
		return
	}

	payments, err := h.payrollService.ListByMonth(r.Context(), monthYear)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, payments)
}

func (h *PayrollHandler) GetTeacherPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, err := uuid.Parse(mux.Vars(r)["paymentId"])
	if err != nil {
		http.Error(w, "Invalid payment ID", http.StatusBadRequest)
		return
	}

	payment, err := h.payrollService.GetTeacherPayment(r.Context(), paymentID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	// Teachers may only read their own payroll entries.
	if role, ok := callerRole(r); ok && role == model.RoleTeacher {
		if uid, ok := callerID(r); !ok || payment.TeacherID != uid {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
	}

	respondJSON(w, http.StatusOK, payment)
}

func (h *PayrollHandler) RecordPayout(w http.ResponseWriter, r *http.Request) {
	paymentID, err := uuid.Parse(mux.Vars(r)["paymentId"])
	if err != nil {
		http.Error(w, "Invalid payment ID", http.StatusBadRequest)
		return
	}

	var req model.RecordPayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Warn("Failed to decode payout request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	record, err := h.payrollService.RecordPayout(r.Context(), paymentID, req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, record)
}

func (h *PayrollHandler) CancelTeacherPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, err := uuid.Parse(mux.Vars(r)["paymentId"])
	if err != nil {
		http.Error(w, "Invalid payment ID", http.StatusBadRequest)
		return
	}

	var req model.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	var cancelledBy *uuid.UUID
	if id, ok := callerID(r); ok {
		cancelledBy = &id
	}

	if err := h.payrollService.CancelTeacherPayment(r.Context(), paymentID, req.Reason, cancelledBy); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
