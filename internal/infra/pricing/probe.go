package pricing

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

const probeTimeout = 3 * time.Second

// Ping checks that the prediction service answers at its root. Any HTTP
// response below 500 counts as reachable.
func (p *MLPredictor) Ping(ctx context.Context) error {
	if p == nil || p.Client == nil || strings.TrimSpace(p.BaseURL) == "" {
		return errors.New("pricing: prediction service not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(p.BaseURL, "/")+"/", nil)
	if err != nil {
		return err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			err = fmt.Errorf("%w: timeout (%s)", ErrPredictionUnavailable, p.BaseURL)
		} else {
			err = fmt.Errorf("%w: unreachable (%s)", ErrPredictionUnavailable, p.BaseURL)
		}
		if p.Logger != nil {
			p.Logger.Warn("prediction probe failed", "error", err)
		}
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrPredictionUnavailable, resp.StatusCode)
	}
	return nil
}
