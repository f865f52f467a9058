package router

import (
	"net/http"

	"klarnasync/internal/adapters/inbound/http/controllers"

	"github.com/julienschmidt/httprouter"
)

type Dependencies struct {
	HealthController      *controllers.HealthController
	SwaggerController     *controllers.SwaggerController
	OrdersController      *controllers.OrdersController
	AcknowledgeController *controllers.AcknowledgeController
}

func New(deps Dependencies) *httprouter.Router {
	router := httprouter.New()

	router.HandlerFunc(http.MethodGet, "/healthz", deps.HealthController.GetHealth)
	router.HandlerFunc(http.MethodGet, "/swagger", deps.SwaggerController.RedirectToIndex)
	router.HandlerFunc(http.MethodGet, "/swagger/*filepath", deps.SwaggerController.Serve)

	router.GET("/v1/admin/orders/:id/overview", deps.OrdersController.GetOverview)
	router.GET("/v1/admin/orders/:id/klarna", deps.OrdersController.GetKlarnaDetails)
	router.POST("/v1/admin/orders/:id/capture", deps.OrdersController.Capture)
	router.POST("/v1/admin/orders/:id/refunds", deps.OrdersController.Refund)
	router.POST("/v1/admin/orders/:id/cancel", deps.OrdersController.Cancel)

	router.GET("/klarna/acknowledge", deps.AcknowledgeController.Acknowledge)
	router.POST("/klarna/acknowledge", deps.AcknowledgeController.Acknowledge)

	return router
}
