package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 15 * time.Second

var (
	// ErrGatewayURLRequired is returned when the gateway base URL is missing.
	ErrGatewayURLRequired = errors.New("sms gateway url is required")
	// ErrAPIKeyRequired is returned when the gateway API key is missing.
	ErrAPIKeyRequired = errors.New("sms api key is required")
)

// Gateway is an SMS implementation backed by an HTTP bulk-SMS provider.
type Gateway struct {
	baseURL string
	apiKey  string
	sender  string
	client  *http.Client
}

// GatewayConfig configures the HTTP gateway implementation.
type GatewayConfig struct {
	// BaseURL is the provider's send endpoint.
	BaseURL string
	// APIKey authenticates requests to the provider.
	APIKey string
	// Sender is the originating line number shown to recipients.
	Sender string
	// Timeout bounds each HTTP call; defaults to 15s when zero.
	Timeout time.Duration
}

// NewGateway constructs an HTTP SMS gateway client.
func NewGateway(cfg GatewayConfig) (*Gateway, error) {
	if cfg.BaseURL == "" {
		return nil, ErrGatewayURLRequired
	}
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Gateway{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		sender:  cfg.Sender,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type gatewayRequest struct {
	Sender  string `json:"sender"`
	To      string `json:"to"`
	Message string `json:"message"`
	Flash   bool   `json:"flash"`
}

// Send delivers a message through the provider. The message body is never logged.
func (g *Gateway) Send(ctx context.Context, msg Message) error {
	raw, err := json.Marshal(gatewayRequest{
		Sender:  g.sender,
		To:      msg.To,
		Message: msg.Body,
		Flash:   msg.Flash,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sms: request failed status=%d body=%s", resp.StatusCode, string(b))
	}

	return nil
}

// Close implements io.Closer for interface compatibility.
func (g *Gateway) Close() error {
	g.client.CloseIdleConnections()
	return nil
}
