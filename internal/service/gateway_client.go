package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// PaymentGateway authorizes card charges with an external processor.
type PaymentGateway interface {
	Authorize(ctx context.Context, req GatewayAuthorizeRequest) error
}

// GatewayAuthorizeRequest is the charge sent to the processor. The card
// number never leaves this call; only the masked tail is persisted.
type GatewayAuthorizeRequest struct {
	Amount     float64 `json:"amount"`
	Method     string  `json:"method"`
	CardNumber string  `json:"cardNumber"`
	Reference  string  `json:"reference"`
}

type gatewayResponse struct {
	Approved bool   `json:"approved"`
	Message  string `json:"message"`
}

// RestyGateway is the HTTP card-processor client.
type RestyGateway struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewRestyGateway(baseURL, apiKey string, logger *zap.Logger) *RestyGateway {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("Authorization", "Bearer "+apiKey)

	return &RestyGateway{httpClient: client, logger: logger}
}

var _ PaymentGateway = (*RestyGateway)(nil)

func (g *RestyGateway) Authorize(ctx context.Context, req GatewayAuthorizeRequest) error {
	var result gatewayResponse
	resp, err := g.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/v1/charges")
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("gateway returned %s", resp.Status())
	}
	if !result.Approved {
		return fmt.Errorf("charge declined: %s", result.Message)
	}

	g.logger.Info("charge authorized",
		zap.String("reference", req.Reference),
		zap.Float64("amount", req.Amount))
	return nil
}
