// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/carelink/middleware"
	"github.com/danielhkuo/carelink/models"
	"github.com/danielhkuo/carelink/provision"
)

type ConsumerHandler struct {
	writer *provision.Writer
}

func NewConsumerHandler(writer *provision.Writer) *ConsumerHandler {
	return &ConsumerHandler{writer: writer}
}

// CreateConsumer handles POST /api/consumers
func (h *ConsumerHandler) CreateConsumer(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestID(r.Context())

	var req models.SignupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		if errors.Is(err, middleware.ErrBodyTooLarge) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, models.CodeInvalidRequest, "Request body too large")
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeInvalidRequest, "Invalid JSON")
		return
	}

	consumer, err := h.writer.Provision(r.Context(), req)
	if err != nil {
		writeProvisionError(w, requestID, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SignupResponse{
		Message: models.SignupSuccessMessage,
		User:    consumer,
	})
}

// writeProvisionError maps a provisioning failure to a client response.
// Causes are logged but never sent to the client.
func writeProvisionError(w http.ResponseWriter, requestID string, err error) {
	var perr *provision.Error
	switch {
	case errors.Is(err, provision.ErrValidation):
		var fields []string
		if errors.As(err, &perr) {
			fields = perr.Fields
		}
		middleware.JSONResponse(w, http.StatusBadRequest, models.ErrorResponse{
			Message: "Missing or invalid fields: " + strings.Join(fields, ", "),
			Error:   models.CodeValidationFailed,
			Fields:  fields,
		})

	case errors.Is(err, provision.ErrConflict):
		slog.Info("signup rejected", "request_id", requestID, "reason", "email_taken")
		middleware.ErrorResponse(w, http.StatusConflict, models.CodeEmailTaken, "An account with this email already exists")

	default:
		slog.Error("failed to save consumer", "request_id", requestID, "outcome", provision.Outcome(err), "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to save consumer data")
	}
}
