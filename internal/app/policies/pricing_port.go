package policies

import (
	"context"

	"estatedash/internal/domain/valuation"
)

// Predictor prices a property from its valuation payload.
type Predictor interface {
	Predict(ctx context.Context, payload valuation.Payload) (valuation.Prediction, error)
}
