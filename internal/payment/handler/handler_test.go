package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hanifmaliki/shopcore/internal/order"
	"github.com/hanifmaliki/shopcore/internal/payment"
	"github.com/hanifmaliki/shopcore/pkg/logger"
)

type stubUseCase struct {
	err error
}

func (s *stubUseCase) HandleNotification(_ context.Context, _ []byte) error {
	return s.err
}

func post(t *testing.T, h *WebhookHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleNotification(rec, req)
	return rec
}

func TestHandleNotificationStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"processed", nil, http.StatusOK},
		{"malformed payload", payment.ErrMalformedPayload, http.StatusBadRequest},
		{"bad signature", payment.ErrSignatureMismatch, http.StatusBadRequest},
		{"unknown order", order.ErrOrderNotFound, http.StatusNotFound},
		{"illegal transition", &order.IllegalTransitionError{Field: "payment_status", From: "paid", To: "expired"}, http.StatusUnprocessableEntity},
		{"unexpected failure", errors.New("db connection lost"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewWebhookHandler(&stubUseCase{err: tt.err}, logger.NewNop())
			rec := post(t, h, `{"transaction_status":"settlement"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestHandleNotificationRejectsNonPost(t *testing.T) {
	h := NewWebhookHandler(&stubUseCase{}, logger.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/webhooks/payment", nil)
	rec := httptest.NewRecorder()
	h.HandleNotification(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
