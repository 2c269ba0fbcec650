/*
 * Boutique Orders API
 *
 * Order intake for the storefront plus the admin back office.
 *
 * API version: 1.0.0
 */

package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/boutique-orders/internal/shared/errors"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Admin marks routes that require an admin token.
	Admin bool
}

// ApiHandleFunctions groups the handlers of every API surface.
type ApiHandleFunctions struct {
	// Routes for the OrderAPI part of the API
	OrderAPI OrderAPI
	// Routes for the AdminAPI part of the API
	AdminAPI AdminAPI
	// Ops serves health probes and metrics; nil handlers are skipped.
	Ops OpsHandlers
}

// OpsHandlers are the operational endpoints mounted next to the API.
type OpsHandlers struct {
	Health    gin.HandlerFunc
	Readiness gin.HandlerFunc
	Metrics   http.Handler
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine add routes to existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	requireAdmin := handleFunctions.AdminAPI.RequireAdmin()
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := []gin.HandlerFunc{route.HandlerFunc}
		if route.Admin {
			handlers = append([]gin.HandlerFunc{requireAdmin}, handlers...)
		}
		router.Handle(route.Method, route.Pattern, handlers...)
	}

	// The persisted order document is never served.
	router.Any("/data/*path", notFound)
	router.NoRoute(notFound)

	ops := handleFunctions.Ops
	if ops.Health != nil {
		router.GET("/healthz", ops.Health)
	}
	if ops.Readiness != nil {
		router.GET("/readyz", ops.Readiness)
	}
	if ops.Metrics != nil {
		router.GET("/metrics", gin.WrapH(ops.Metrics))
	}
	return router
}

// DefaultHandleFunc is the default handler for not yet implemented routes.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func notFound(c *gin.Context) {
	respondProblem(c, apierrors.ErrNotFound)
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"AdminLogin",
			http.MethodPost,
			"/api/admin/login",
			handleFunctions.AdminAPI.Login,
			false,
		},
		{
			"PlaceOrder",
			http.MethodPost,
			"/api/orders",
			handleFunctions.OrderAPI.PlaceOrder,
			false,
		},
		{
			"ListOrders",
			http.MethodGet,
			"/api/orders",
			handleFunctions.OrderAPI.ListOrders,
			true,
		},
		{
			"GetOrderById",
			http.MethodGet,
			"/api/orders/:id",
			handleFunctions.OrderAPI.GetOrderById,
			false,
		},
		{
			"UpdateOrderStatus",
			http.MethodPatch,
			"/api/orders/:id",
			handleFunctions.OrderAPI.UpdateOrderStatus,
			true,
		},
		{
			"DeleteOrder",
			http.MethodDelete,
			"/api/orders/:id",
			handleFunctions.OrderAPI.DeleteOrder,
			true,
		},
	}
}
