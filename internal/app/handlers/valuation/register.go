package valuation

import (
	"estatedash/internal/app/commands"
	"estatedash/internal/app/dto"
	"estatedash/internal/app/queries"
)

// Register wires the prediction commands and the history query.
func Register(cmdBus *commands.InMemoryBus, queryBus *queries.InMemoryBus, predict *PredictHandler, history *ListHistoryHandler) {
	commands.Register[PredictFormCommand, dto.ValuationResult](cmdBus, commands.HandlerFunc[PredictFormCommand, dto.ValuationResult](predict.HandleForm))
	commands.Register[PredictListingCommand, dto.ValuationResult](cmdBus, commands.HandlerFunc[PredictListingCommand, dto.ValuationResult](predict.HandleListing))
	queries.Register[ListHistoryQuery, []dto.ValuationResult](queryBus, history)
}
