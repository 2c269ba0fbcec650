/*
 * Boutique Orders API
 *
 * Order intake for the storefront plus the admin back office.
 *
 * API version: 1.0.0
 */

package storefrontserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/oapi-codegen/runtime"

	"github.com/Apurer/boutique-orders/internal/domains/orders/domain"
	"github.com/Apurer/boutique-orders/internal/domains/orders/ports"
	apierrors "github.com/Apurer/boutique-orders/internal/shared/errors"
)

const (
	headerIdempotencyKey   = "Idempotency-Key"
	headerIdempotentReplay = "Idempotent-Replay"
	headerForwardedFor     = "X-Forwarded-For"
	unknownClientKey       = "unknown"
)

// OrderAPI wires HTTP transport with the orders service and workflows.
type OrderAPI struct {
	service   ports.Service
	workflows ports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service ports.Service, workflows ports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /api/orders
// Place an order from the storefront form or a pre-assembled order
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	payload, err := readSubmission(c)
	if err != nil {
		apierrors.DefaultResponder.BadRequest(c, "request body must be a JSON object or a form")
		return
	}
	ctx := c.Request.Context()
	draft, err := api.service.DraftOrder(ctx, ports.PlaceOrderInput{
		ClientKey:      clientKey(c.Request),
		IdempotencyKey: c.GetHeader(headerIdempotencyKey),
		Payload:        payload,
	})
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	order, err := api.placeOrder(ctx, *draft)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	if draft.Replayed {
		c.Header(headerIdempotentReplay, "true")
	}
	c.JSON(http.StatusCreated, order)
}

func (api *OrderAPI) placeOrder(ctx context.Context, draft ports.Draft) (*domain.Order, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, draft)
	}
	return api.service.PersistOrder(ctx, draft)
}

// Get /api/orders
// List every order, newest first
func (api *OrderAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context())
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Get /api/orders/:id
// Find order by ID
func (api *OrderAPI) GetOrderById(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondOrderLookupError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Patch /api/orders/:id
// Change the status of an order
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var payload StatusUpdate
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		apierrors.DefaultResponder.BadRequest(c, err.Error())
		return
	}
	order, err := api.service.UpdateOrderStatus(c.Request.Context(), id, domain.Status(payload.StatusText()))
	if err != nil {
		respondOrderLookupError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Delete /api/orders/:id
// Delete an order
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	removed, err := api.service.DeleteOrder(c.Request.Context(), id)
	if err != nil {
		respondOrderLookupError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, DeleteResult{Ok: true, Id: removed})
}

// respondOrderLookupError names the missing order in the problem detail.
func respondOrderLookupError(c *gin.Context, id string, err error) {
	if errors.Is(err, ports.ErrNotFound) {
		apierrors.DefaultResponder.NotFound(c, "order", id)
		return
	}
	respondOrderServiceError(c, err)
}

// readSubmission accepts the storefront form either as JSON or url-encoded.
func readSubmission(c *gin.Context) (map[string]any, error) {
	if c.ContentType() != binding.MIMEPOSTForm {
		return decodeSubmission(c.Request.Body)
	}
	form := map[string]string{}
	if err := c.ShouldBindWith(form, binding.FormPost); err != nil {
		return nil, err
	}
	payload := make(map[string]any, len(form))
	for key, value := range form {
		payload[key] = value
	}
	return payload, nil
}

// decodeSubmission reads a JSON object; an empty body is an empty submission.
func decodeSubmission(body io.Reader) (map[string]any, error) {
	payload := map[string]any{}
	if body == nil {
		return payload, nil
	}
	err := json.NewDecoder(body).Decode(&payload)
	if errors.Is(err, io.EOF) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return payload, nil
}

// clientKey identifies the submitter for rate limiting.
func clientKey(r *http.Request) string {
	if forwarded := r.Header.Get(headerForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if addr := strings.TrimSpace(r.RemoteAddr); addr != "" {
		return addr
	}
	return unknownClientKey
}

func parseIDParam(c *gin.Context) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil || strings.TrimSpace(id) == "" {
		apierrors.DefaultResponder.BadRequest(c, "invalid order id")
		return "", false
	}
	return id, true
}
