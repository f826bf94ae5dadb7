package memory

import (
	"context"
	"errors"
	"math"
	"strings"

	"estatedash/internal/app/policies"
	"estatedash/internal/domain/listings"
	"estatedash/internal/domain/valuation"
)

// Predictor is a deterministic valuation used for local demos when the
// prediction service is not running. Prices are per m² in VND.
type Predictor struct {
	BasePerM2   float64
	CityPerM2   map[string]float64
	TypeFactors map[string]float64
}

var ErrAreaRequired = errors.New("memory: area must be positive")

// NewPredictor returns a predictor with rough market defaults.
func NewPredictor() *Predictor {
	return &Predictor{
		BasePerM2: 30_000_000,
		CityPerM2: map[string]float64{
			"Hà Nội":               120_000_000,
			listings.HoChiMinhCity: 110_000_000,
			"Đà Nẵng":              60_000_000,
		},
		TypeFactors: map[string]float64{
			"chung cư": 0.8,
			"nhà phố":  1.0,
			"biệt thự": 1.4,
			"đất nền":  0.7,
		},
	}
}

func (p *Predictor) Predict(ctx context.Context, payload valuation.Payload) (valuation.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return valuation.Prediction{}, err
	}
	if payload.Area <= 0 {
		return valuation.Prediction{}, ErrAreaRequired
	}
	perM2 := p.BasePerM2
	if v, ok := p.CityPerM2[listings.CanonicalCity(payload.City)]; ok {
		perM2 = v
	}
	factor := 1.0
	if v, ok := p.TypeFactors[strings.ToLower(strings.TrimSpace(payload.Type))]; ok {
		factor = v
	}
	// Rooms and frontage add a few percent each, capped.
	factor *= 1 + 0.03*float64(min(payload.Bedroom+payload.Bathroom, 10))
	factor *= 1 + 0.02*math.Min(payload.Frontage, 10)
	if payload.Legal == valuation.UnknownLegal {
		factor *= 0.9
	}
	price := math.Round(payload.Area*perM2*factor/1_000_000) * 1_000_000
	return valuation.Prediction{PredictedPrice: price}, nil
}

var _ policies.Predictor = (*Predictor)(nil)
