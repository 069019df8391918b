package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hanifmaliki/shopcore/config"
	"github.com/hanifmaliki/shopcore/pkg/logger"
)

// ServiceOption is one courier service quote for a destination and weight.
type ServiceOption struct {
	Courier string `json:"courier"`
	Service string `json:"service"`
	Cost    int64  `json:"cost"`
	ETA     string `json:"eta"`
}

// RateClient quotes delivery costs. Checkout treats it as a black box.
type RateClient interface {
	CalculateCost(ctx context.Context, destinationCity, courier, service string, weightGrams int) (int64, error)
	ListServices(ctx context.Context, destinationCity string, weightGrams int) ([]ServiceOption, error)
}

type httpClient struct {
	baseURL    string
	apiKey     string
	originCity string
	client     *http.Client
	logger     logger.ZapLogger
}

func NewHTTPClient(cfg *config.ShippingConfig, log logger.ZapLogger) RateClient {
	return &httpClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		originCity: cfg.OriginCity,
		client:     &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
		logger:     log,
	}
}

type costRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Weight      int    `json:"weight"`
	Courier     string `json:"courier"`
}

type costResponse struct {
	Results []struct {
		Code  string `json:"code"`
		Costs []struct {
			Service string `json:"service"`
			Cost    []struct {
				Value int64  `json:"value"`
				ETD   string `json:"etd"`
			} `json:"cost"`
		} `json:"costs"`
	} `json:"results"`
}

func (c *httpClient) fetchCosts(ctx context.Context, destinationCity, courier string, weightGrams int) (*costResponse, error) {
	body, err := json.Marshal(costRequest{
		Origin:      c.originCity,
		Destination: destinationCity,
		Weight:      weightGrams,
		Courier:     courier,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cost", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shipping provider returned status %d", resp.StatusCode)
	}

	var out costResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CalculateCost asks the provider; when the provider is down or the service
// is missing from its answer, checkout still needs a number, so we degrade to
// the deterministic weight-tiered fallback instead of blocking the sale.
func (c *httpClient) CalculateCost(ctx context.Context, destinationCity, courier, service string, weightGrams int) (int64, error) {
	out, err := c.fetchCosts(ctx, destinationCity, courier, weightGrams)
	if err != nil {
		c.logger.Warn("shipping provider unavailable, using fallback rate",
			zap.String("destination", destinationCity),
			zap.String("courier", courier),
			zap.Error(err))
		return FallbackCost(weightGrams), nil
	}

	for _, result := range out.Results {
		if result.Code != courier {
			continue
		}
		for _, svc := range result.Costs {
			if svc.Service != service {
				continue
			}
			if len(svc.Cost) > 0 {
				return svc.Cost[0].Value, nil
			}
		}
	}

	c.logger.Warn("courier service not in provider response, using fallback rate",
		zap.String("courier", courier), zap.String("service", service))
	return FallbackCost(weightGrams), nil
}

func (c *httpClient) ListServices(ctx context.Context, destinationCity string, weightGrams int) ([]ServiceOption, error) {
	out, err := c.fetchCosts(ctx, destinationCity, "", weightGrams)
	if err != nil {
		c.logger.Warn("shipping provider unavailable, listing fallback service", zap.Error(err))
		return []ServiceOption{{
			Courier: FallbackCourier,
			Service: FallbackService,
			Cost:    FallbackCost(weightGrams),
			ETA:     "3-7 days",
		}}, nil
	}

	var options []ServiceOption
	for _, result := range out.Results {
		for _, svc := range result.Costs {
			if len(svc.Cost) == 0 {
				continue
			}
			options = append(options, ServiceOption{
				Courier: result.Code,
				Service: svc.Service,
				Cost:    svc.Cost[0].Value,
				ETA:     svc.Cost[0].ETD,
			})
		}
	}
	return options, nil
}
