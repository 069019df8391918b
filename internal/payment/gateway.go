package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hanifmaliki/shopcore/config"
	"github.com/hanifmaliki/shopcore/internal/model"
)

// Transaction is what the gateway hands back when a charge is initiated: an
// opaque reference plus the URL/token the customer is redirected to.
type Transaction struct {
	Reference   string
	RedirectURL string
}

// Gateway is the outbound payment collaborator. Inbound notifications come
// back asynchronously through the webhook usecase.
type Gateway interface {
	CreateTransaction(ctx context.Context, order *model.Order) (*Transaction, error)
}

type httpGateway struct {
	baseURL   string
	serverKey string
	client    *http.Client
}

func NewHTTPGateway(cfg *config.PaymentConfig) Gateway {
	return &httpGateway{
		baseURL:   cfg.BaseURL,
		serverKey: cfg.ServerKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type chargeRequest struct {
	TransactionDetails struct {
		OrderID     string `json:"order_id"`
		GrossAmount int64  `json:"gross_amount"`
	} `json:"transaction_details"`
}

type chargeResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

func (g *httpGateway) CreateTransaction(ctx context.Context, order *model.Order) (*Transaction, error) {
	var payload chargeRequest
	payload.TransactionDetails.OrderID = order.Code
	payload.TransactionDetails.GrossAmount = order.Total

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(g.serverKey+":")))

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var out chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	return &Transaction{Reference: out.Token, RedirectURL: out.RedirectURL}, nil
}
