package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanifmaliki/shopcore/config"
	"github.com/hanifmaliki/shopcore/internal/model"
)

func TestHTTPGatewayCreateTransaction(t *testing.T) {
	ctx := context.Background()
	o := &model.Order{
		BaseModel: model.BaseModel{ID: "o-1"},
		Code:      "ORD-20260828-AB12CD34",
		Total:     220000,
	}

	t.Run("charges the order total under its code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/transactions", r.URL.Path)
			assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Basic "))

			var req map[string]map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "ORD-20260828-AB12CD34", req["transaction_details"]["order_id"])
			assert.Equal(t, float64(220000), req["transaction_details"]["gross_amount"])

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{
				"token":        "txn-token-1",
				"redirect_url": "https://pay.example/txn-token-1",
			})
		}))
		defer srv.Close()

		g := NewHTTPGateway(&config.PaymentConfig{BaseURL: srv.URL, ServerKey: "sk"})
		txn, err := g.CreateTransaction(ctx, o)
		require.NoError(t, err)
		assert.Equal(t, "txn-token-1", txn.Reference)
		assert.Equal(t, "https://pay.example/txn-token-1", txn.RedirectURL)
	})

	t.Run("non-2xx answer is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
		}))
		defer srv.Close()

		g := NewHTTPGateway(&config.PaymentConfig{BaseURL: srv.URL, ServerKey: "sk"})
		_, err := g.CreateTransaction(ctx, o)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "402")
	})

	t.Run("unreachable gateway is an error", func(t *testing.T) {
		g := NewHTTPGateway(&config.PaymentConfig{BaseURL: "http://127.0.0.1:1", ServerKey: "sk"})
		_, err := g.CreateTransaction(ctx, o)
		require.Error(t, err)
	})
}
