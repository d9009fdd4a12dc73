package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewaySend(t *testing.T) {
	var got gatewayRequest
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gw, err := NewGateway(GatewayConfig{BaseURL: srv.URL, APIKey: "key-123", Sender: "3000505"})
	require.NoError(t, err)
	defer gw.Close()

	err = gw.Send(context.Background(), Message{To: "09123456789", Body: "code 123456", Flash: true})
	require.NoError(t, err)

	assert.Equal(t, "key-123", auth)
	assert.Equal(t, "3000505", got.Sender)
	assert.Equal(t, "09123456789", got.To)
	assert.Equal(t, "code 123456", got.Message)
	assert.True(t, got.Flash)
}

func TestGatewaySendNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "out of credit", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	gw, err := NewGateway(GatewayConfig{BaseURL: srv.URL, APIKey: "key-123"})
	require.NoError(t, err)

	err = gw.Send(context.Background(), Message{To: "09123456789", Body: "code"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "402")
}

func TestNewGatewayValidation(t *testing.T) {
	_, err := NewGateway(GatewayConfig{APIKey: "key"})
	require.ErrorIs(t, err, ErrGatewayURLRequired)

	_, err = NewGateway(GatewayConfig{BaseURL: "http://example.com"})
	require.ErrorIs(t, err, ErrAPIKeyRequired)
}
