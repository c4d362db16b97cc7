package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/alituydurr/sanatmerkezi-sub001/internal/service"
)

type FinanceHandler struct {
	financeService *service.FinanceService
	logger         *logrus.Logger
}

func NewFinanceHandler(financeService *service.FinanceService, logger *logrus.Logger) *FinanceHandler {
	return &FinanceHandler{
		financeService: financeService,
		logger:         logger,
	}
}

func (h *FinanceHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/summary", h.MonthlySummary).Methods("GET")
	router.HandleFunc("/summary/detailed", h.DetailedReport).Methods("GET")
	router.HandleFunc("/summary/export", h.ExportSummary).Methods("GET")
	router.HandleFunc("/today", h.TodaysPayments).Methods("GET")
}

func (h *FinanceHandler) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	monthYear := r.URL.Query().Get("month_year")
	if monthYear == "" {
		http.Error(w, "month_year query parameter is required", http.StatusBadRequest)
		return
	}

	summary, err := h.financeService.Summarize(r.Context(), monthYear)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func (h *FinanceHandler) DetailedReport(w http.ResponseWriter, r *http.Request) {
	monthYear := r.URL.Query().Get("month_year")
	if monthYear == "" {
		http.Error(w, "month_year query parameter is required", http.StatusBadRequest)
		return
	}

	report, err := h.financeService.DetailedReport(r.Context(), monthYear)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

func (h *FinanceHandler) ExportSummary(w http.ResponseWriter, r *http.Request) {
	monthYear := r.URL.Query().Get("month_year")
	if monthYear == "" {
		http.Error(w, "month_year query parameter is required", http.StatusBadRequest)
		return
	}

	buf, err := h.financeService.ExportSummary(r.Context(), monthYear)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=financial-summary-%s.xlsx", monthYear))
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WithError(err).Error("Failed to stream summary export")
	}
}

func (h *FinanceHandler) TodaysPayments(w http.ResponseWriter, r *http.Request) {
	today, err := h.financeService.TodaysPayments(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, today)
}
