package controllers

import (
	"net/http"

	"klarnasync/internal/application/dto"
	portsin "klarnasync/internal/application/ports/in"
	valueobjects "klarnasync/internal/domain/value_objects"

	"go.uber.org/zap"
)

type HealthController struct {
	useCase portsin.GetHealthUseCase
	logger  *zap.Logger
}

func NewHealthController(useCase portsin.GetHealthUseCase, logger *zap.Logger) *HealthController {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HealthController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *HealthController) GetHealth(w http.ResponseWriter, r *http.Request) {
	output, appErr := c.useCase.Execute(r.Context(), dto.GetHealthCommand{})
	if appErr != nil {
		c.logger.Error("request error",
			zap.String("path", "/healthz"),
			zap.String("method", r.Method),
			zap.String("code", appErr.Code),
			zap.String("message", appErr.Message),
		)
		writeAppError(w, appErr)
		return
	}

	status := http.StatusOK
	if output.Status == valueobjects.NewDegradedStatus().String() {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, output)
}
