package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orderdesk/orderdesk/internal/metrics"
	"github.com/orderdesk/orderdesk/internal/server/http/handlers"
	"github.com/orderdesk/orderdesk/internal/server/http/middleware"
	"github.com/orderdesk/orderdesk/internal/server/ws"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.WorkflowFacade, hub *ws.Hub, m *metrics.Metrics, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.CollectMetrics(m))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	routingHandler := handlers.NewRoutingHandler(facade)
	invoiceHandler := handlers.NewInvoiceHandler(facade)
	notificationHandler := handlers.NewNotificationHandler(facade)

	engine.GET("/healthz", func(c *gin.Context) {
		if err := facade.HealthCheck(c.Request.Context()); err != nil {
			c.Status(http.StatusServiceUnavailable)
			return
		}
		c.Status(http.StatusOK)
	})
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	api := engine.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))
	authed.POST("/orders", orderHandler.Create)
	authed.GET("/orders", orderHandler.List)
	authed.GET("/orders/:id", orderHandler.Get)
	authed.GET("/orders/:id/products", orderHandler.Products)
	authed.GET("/orders/:id/audit", orderHandler.Audit)
	authed.POST("/orders/:id/email", orderHandler.Email)
	authed.POST("/orders/:id/route", routingHandler.BulkRoute)
	authed.POST("/orders/:id/sample/route", routingHandler.RouteSample)
	authed.POST("/invoices", invoiceHandler.Create)
	authed.GET("/invoices", invoiceHandler.List)
	authed.GET("/invoices/:id", invoiceHandler.Get)
	authed.POST("/invoices/:id/send", invoiceHandler.Send)
	authed.GET("/invoices/:id/export", invoiceHandler.Export)
	authed.GET("/notifications", notificationHandler.List)
	authed.GET("/ws", hub.Handle)

	return engine
}
