package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/alituydurr/sanatmerkezi-sub001/internal/model"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// respondError maps domain error categories onto HTTP status codes. Anything
// unclassified is a 500 with a generic body; the real error goes to the log.
func respondError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, model.ErrConflict):
		respondJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, model.ErrForbidden):
		respondJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	default:
		logger.WithError(err).Error("Unhandled error")
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
