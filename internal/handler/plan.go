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

type PlanHandler struct {
	planService   *service.PlanService
	ledgerService *service.LedgerService
	logger        *logrus.Logger
}

func NewPlanHandler(planService *service.PlanService, ledgerService *service.LedgerService, logger *logrus.Logger) *PlanHandler {
	return &PlanHandler{
		planService:   planService,
		ledgerService: ledgerService,
		logger:        logger,
	}
}

func (h *PlanHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.CreatePlan).Methods("POST")
	router.HandleFunc("/active", h.ListActive).Methods("GET")
	router.HandleFunc("/cancelled", h.ListCancelled).Methods("GET")
	router.HandleFunc("/{planId}", h.GetPlan).Methods("GET")
	router.HandleFunc("/{planId}/cancel", h.CancelPlan).Methods("POST")
	router.HandleFunc("/{planId}/payments", h.RecordPayment).Methods("POST")
}

// RegisterStudentRoutes mounts the student-scoped payment endpoints.
func (h *PlanHandler) RegisterStudentRoutes(router *mux.Router) {
	router.HandleFunc("/{studentId}/payments", h.StudentPayments).Methods("GET")
	router.HandleFunc("/{studentId}", h.DeleteStudent).Methods("DELETE")
}

func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Warn("Failed to decode create plan request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	plan, err := h.planService.CreatePlan(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, plan)
}

func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := uuid.Parse(mux.Vars(r)["planId"])
	if err != nil {
		http.Error(w, "Invalid plan ID", http.StatusBadRequest)
		return
	}

	plan, err := h.planService.GetPlan(r.Context(), planID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, plan)
}

func (h *PlanHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	plans, err := h.planService.ListActive(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, plans)
}

func (h *PlanHandler) ListCancelled(w http.ResponseWriter, r *http.Request) {
	plans, err := h.planService.ListCancelled(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, plans)
}

func (h *PlanHandler) CancelPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := uuid.Parse(mux.Vars(r)["planId"])
	if err != nil {
		http.Error(w, "Invalid plan ID", http.StatusBadRequest)
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

	if err := h.planService.CancelPlan(r.Context(), planID, req.Reason, cancelledBy); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *PlanHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	planID, err := uuid.Parse(mux.Vars(r)["planId"])
	if err != nil {
		http.Error(w, "Invalid plan ID", http.StatusBadRequest)
		return
	}

	var req model.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Warn("Failed to decode payment request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.PaymentPlanID = planID

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	payment, err := h.ledgerService.RecordPayment(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, payment)
}

func (h *PlanHandler) StudentPayments(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuid.Parse(mux.Vars(r)["studentId"])
	if err != nil {
		http.Error(w, "Invalid student ID", http.StatusBadRequest)
		return
	}

	payments, err := h.ledgerService.StudentPayments(r.Context(), studentID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, payments)
}

func (h *PlanHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuid.Parse(mux.Vars(r)["studentId"])
	if err != nil {
		http.Error(w, "Invalid student ID", http.StatusBadRequest)
		return
	}

	if err := h.planService.DeleteStudent(r.Context(), studentID); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
