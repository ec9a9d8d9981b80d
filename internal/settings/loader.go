package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/richxcame/limo-booking/internal/fare"
	"github.com/richxcame/limo-booking/pkg/httpclient"
	"github.com/richxcame/limo-booking/pkg/logger"
	"github.com/richxcame/limo-booking/pkg/resilience"
	"go.uber.org/zap"
)

// PublicSettingsPath is where a pricing service exposes its settings
const PublicSettingsPath = "/api/v1/settings/public"

// Loader fetches settings from another pricing service over HTTP. Each
// call makes at most one request; failures resolve to the defaults.
type Loader struct {
	client  *httpclient.Client
	breaker *resilience.CircuitBreaker
	path    string
}

// NewLoader creates a remote settings loader. A nil breaker calls straight through.
func NewLoader(client *httpclient.Client, breaker *resilience.CircuitBreaker) *Loader {
	return &Loader{
		client:  client,
		breaker: breaker,
		path:    PublicSettingsPath,
	}
}

// Current implements Provider
func (l *Loader) Current(ctx context.Context) fare.PricingSettings {
	settings, err := l.Fetch(ctx)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		logger.WarnContext(ctx, "settings endpoint circuit open, using defaults",
			zap.String("breaker", l.breaker.Name()),
			zap.String("path", l.path),
		)
		return fare.DefaultSettings()
	}
	if err != nil {
		logger.WarnContext(ctx, "failed to fetch pricing settings, using defaults",
			zap.String("path", l.path),
			zap.Error(err),
		)
		return fare.DefaultSettings()
	}
	return settings
}

// Fetch performs one request and resolves the returned document. While the
// breaker is open no request is made and ErrCircuitOpen is returned.
func (l *Loader) Fetch(ctx context.Context) (fare.PricingSettings, error) {
	if !l.breaker.Allow() {
		return fare.PricingSettings{}, resilience.ErrCircuitOpen
	}
	result, err := l.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		var body json.RawMessage
		if err := l.client.GetJSON(ctx, l.path, &body); err != nil {
			return nil, err
		}
		return decodeSettings(body)
	})
	if err != nil {
		return fare.PricingSettings{}, err
	}
	return result.(fare.PricingSettings), nil
}

// decodeSettings accepts a bare settings document, the {"data": ...}
// response envelope, or an envelope around a SettingsResponse.
func decodeSettings(body []byte) (fare.PricingSettings, error) {
	payload := bytes.TrimSpace(body)
	if len(payload) == 0 || payload[0] != '{' {
		return fare.PricingSettings{}, fmt.Errorf("settings payload is not a JSON object")
	}

	var envelope struct {
		Data     json.RawMessage `json:"data"`
		Settings json.RawMessage `json:"settings"`
	}
	for i := 0; i < 2; i++ {
		if err := json.Unmarshal(payload, &envelope); err != nil {
			return fare.PricingSettings{}, fmt.Errorf("failed to decode settings: %w", err)
		}
		switch {
		case isObject(envelope.Data):
			payload = envelope.Data
		case isObject(envelope.Settings):
			payload = envelope.Settings
		}
		envelope.Data, envelope.Settings = nil, nil
	}

	var doc fare.SettingsDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return fare.PricingSettings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return doc.Resolve(), nil
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
