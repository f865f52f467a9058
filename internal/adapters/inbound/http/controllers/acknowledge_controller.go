package controllers

import (
	"net/http"

	"klarnasync/internal/application/dto"
	portsin "klarnasync/internal/application/ports/in"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

const klarnaOrderIDField = "klarna_order_id"

// AcknowledgeController receives Klarna's push notification. Klarna retries
// anything but a 200, so failures are logged and still answered with 200.
type AcknowledgeController struct {
	useCase portsin.AcknowledgeOrderUseCase
	logger  *zap.Logger
}

func NewAcknowledgeController(useCase portsin.AcknowledgeOrderUseCase, logger *zap.Logger) *AcknowledgeController {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AcknowledgeController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *AcknowledgeController) Acknowledge(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	klarnaOrderID := r.FormValue(klarnaOrderIDField)

	output, appErr := c.useCase.Execute(r.Context(), dto.AcknowledgeOrderCommand{KlarnaOrderID: klarnaOrderID})
	if appErr != nil {
		c.logger.Error("acknowledge failed",
			zap.String("klarna_order_id", klarnaOrderID),
			zap.String("action", string(output.Action)),
			zap.String("code", appErr.Code),
			zap.String("message", appErr.Message),
		)
	} else if output.Action != dto.AcknowledgeActionNone {
		c.logger.Info("acknowledge handled",
			zap.String("klarna_order_id", klarnaOrderID),
			zap.String("action", string(output.Action)),
			zap.Int64("prior_attempts", output.PriorAttempts),
		)
	}

	w.WriteHeader(http.StatusOK)
}
