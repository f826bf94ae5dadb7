package pages

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"estatedash/internal/app/commands"
	"estatedash/internal/app/dto"
	valuationhandlers "estatedash/internal/app/handlers/valuation"
	"estatedash/internal/app/queries"
	"estatedash/internal/domain/valuation"
)

// Valuation is the manual valuation form. A form with missing fields is
// answered with a warning and never reaches the prediction service.
type Valuation struct {
	commands commands.Bus
	queries  queries.Bus
	logger   *slog.Logger
	guard    fetchGuard

	mu      sync.Mutex
	form    valuation.Form
	result  *dto.ValuationResult
	missing []string
	warning string
	failure string
	history []dto.ValuationResult
	errors  widgetErrors
}

func NewValuation(cmdBus commands.Bus, queryBus queries.Bus, logger *slog.Logger) *Valuation {
	return &Valuation{commands: cmdBus, queries: queryBus, logger: loggerOrDefault(logger)}
}

func (v *Valuation) SetForm(form valuation.Form) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form = form
}

// Submit prices the current form. Validation problems end up in the view as a
// warning; a failed prediction as an error message. Only unexpected bus
// failures are returned.
func (v *Valuation) Submit(ctx context.Context) error {
	v.mu.Lock()
	form := v.form
	v.result, v.missing, v.warning, v.failure = nil, nil, "", ""
	v.mu.Unlock()

	res, err := commands.Dispatch[valuationhandlers.PredictFormCommand, dto.ValuationResult](ctx, v.commands, valuationhandlers.PredictFormCommand{Form: form})

	v.mu.Lock()
	defer v.mu.Unlock()
	var verr *valuation.ValidationError
	switch {
	case errors.As(err, &verr):
		v.missing = verr.Missing
		v.warning = verr.Message()
		return nil
	case err != nil:
		v.logger.WarnContext(ctx, "valuation failed", "city", form.City, "error", err)
		v.failure = MsgValuationFailed
		return err
	}
	v.result = &res
	v.history = append([]dto.ValuationResult{res}, v.history...)
	return nil
}

// LoadHistory fills the history widget; a failure only marks the widget.
func (v *Valuation) LoadHistory(ctx context.Context, limit int) {
	fetch := func(ctx context.Context) ([]dto.ValuationResult, error) {
		return queries.Ask[valuationhandlers.ListHistoryQuery, []dto.ValuationResult](ctx, v.queries, valuationhandlers.ListHistoryQuery{Limit: limit})
	}
	_ = track(ctx, &v.mu, &v.guard, dto.WidgetHistory, fetch, func(rows []dto.ValuationResult, err error) {
		v.history = settle(ctx, v.logger, &v.errors, "valuation", dto.WidgetHistory, MsgHistoryFailed, rows, err)
	})()
}

func (v *Valuation) View() dto.ValuationView {
	v.mu.Lock()
	defer v.mu.Unlock()
	history := v.history
	if history == nil {
		history = []dto.ValuationResult{}
	}
	return dto.ValuationView{
		Form:    v.form,
		Result:  v.result,
		Missing: v.missing,
		Warning: v.warning,
		Error:   v.failure,
		History: history,
		Errors:  v.errors.snapshot(),
	}
}
