package controllers

import (
	"net/http"

	"klarnasync/internal/application/dto"
	portsin "klarnasync/internal/application/ports/in"

	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

const openAPISpecPath = "/swagger/openapi.yaml"

type SwaggerController struct {
	useCase         portsin.GetOpenAPISpecUseCase
	logger          *zap.Logger
	swaggerUIHandle http.Handler
}

func NewSwaggerController(useCase portsin.GetOpenAPISpecUseCase, logger *zap.Logger) *SwaggerController {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SwaggerController{
		useCase: useCase,
		logger:  logger,
		swaggerUIHandle: httpSwagger.Handler(
			httpSwagger.URL(openAPISpecPath),
			httpSwagger.PersistAuthorization(true),
		),
	}
}

func (c *SwaggerController) RedirectToIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/swagger/index.html", http.StatusTemporaryRedirect)
}

// Serve handles everything under /swagger/: the raw document and the UI assets.
func (c *SwaggerController) Serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == openAPISpecPath {
		c.GetOpenAPISpec(w, r)
		return
	}

	c.swaggerUIHandle.ServeHTTP(w, r)
}

func (c *SwaggerController) GetOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	output, appErr := c.useCase.Execute(r.Context(), dto.GetOpenAPISpecQuery{})
	if appErr != nil {
		c.logger.Error("request error",
			zap.String("path", openAPISpecPath),
			zap.String("method", r.Method),
			zap.String("code", appErr.Code),
			zap.String("message", appErr.Message),
		)
		writeAppError(w, appErr)
		return
	}

	w.Header().Set("Content-Type", output.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(output.Content); err != nil {
		c.logger.Warn("response write error", zap.String("path", openAPISpecPath), zap.Error(err))
	}
}
