package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"estatedash/internal/domain/valuation"
)

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

var (
	ErrPredictionUnavailable = errors.New("pricing: prediction service unavailable")
	ErrPredictionRejected    = errors.New("pricing: prediction service returned error")
	ErrPredictionMalformed   = errors.New("pricing: malformed prediction")
)

// MLPredictor delegates valuations to the external prediction service.
type MLPredictor struct {
	Client  HTTPClient
	BaseURL string
	Logger  *slog.Logger
}

func (p *MLPredictor) endpoint() string {
	return strings.TrimRight(p.BaseURL, "/") + "/predict"
}

// Predict posts the payload to /predict.
func (p *MLPredictor) Predict(ctx context.Context, payload valuation.Payload) (valuation.Prediction, error) {
	var zero valuation.Prediction
	if p == nil || p.Client == nil {
		return zero, errors.New("pricing: http client not configured")
	}
	if strings.TrimSpace(p.BaseURL) == "" {
		return zero, errors.New("pricing: prediction endpoint not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return zero, err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(), bytes.NewReader(body))
	if err != nil {
		return zero, err
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(request)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrPredictionUnavailable, err)
		p.logError("prediction request failed", payload, err)
		return zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("%w: status %d: %s", ErrPredictionRejected, resp.StatusCode, strings.TrimSpace(string(snippet)))
		p.logError("prediction returned error", payload, err)
		return zero, err
	}

	var raw struct {
		PredictedPrice *float64 `json:"predicted_price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		err = fmt.Errorf("%w: %w", ErrPredictionMalformed, err)
		p.logError("prediction decode failed", payload, err)
		return zero, err
	}
	if raw.PredictedPrice == nil || math.IsNaN(*raw.PredictedPrice) || *raw.PredictedPrice < 0 {
		err := fmt.Errorf("%w: predicted_price missing or negative", ErrPredictionMalformed)
		p.logError("prediction decode failed", payload, err)
		return zero, err
	}

	if p.Logger != nil {
		p.Logger.Info(
			"valuation predicted",
			"city", payload.City,
			"district", payload.District,
			"type", payload.Type,
			"area", payload.Area,
			"predicted_price", *raw.PredictedPrice,
		)
	}
	return valuation.Prediction{PredictedPrice: *raw.PredictedPrice}, nil
}

func (p *MLPredictor) logError(msg string, payload valuation.Payload, err error) {
	if p.Logger == nil {
		return
	}
	p.Logger.Error(msg, "city", payload.City, "type", payload.Type, "error", err)
}
