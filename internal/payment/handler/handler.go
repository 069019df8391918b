package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/hanifmaliki/shopcore/internal/order"
	"github.com/hanifmaliki/shopcore/internal/payment"
	"github.com/hanifmaliki/shopcore/pkg/logger"
)

// WebhookHandler is the single inbound HTTP surface of the settlement core.
// Non-2xx answers make the gateway retry on its own schedule.
type WebhookHandler struct {
	uc     payment.UseCase
	logger logger.ZapLogger
}

func NewWebhookHandler(uc payment.UseCase, log logger.ZapLogger) *WebhookHandler {
	return &WebhookHandler{uc: uc, logger: log}
}

func (h *WebhookHandler) HandleNotification(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
		return
	}

	err = h.uc.HandleNotification(r.Context(), body)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	case errors.Is(err, payment.ErrMalformedPayload), errors.Is(err, payment.ErrSignatureMismatch):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, order.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
	case order.IsIllegalTransition(err):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		h.logger.Error("webhook processing failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
