//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/boutique-orders/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type orderItem struct {
	Name  string  `json:"name"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"`
}

type orderPayload struct {
	ID           string      `json:"id"`
	CustomerName string      `json:"customerName"`
	Items        []orderItem `json:"items"`
	Total        float64     `json:"total"`
	Status       string      `json:"status"`
}

type problemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail"`
	Extensions map[string]any `json:"extensions"`
}

type apiError struct {
	status  int
	problem problemDetail
}

func (e apiError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.problem.Title, e.problem.Detail, e.status)
}

func TestStorefrontContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	orderMatcher := matchers.Map{
		"id":           matchers.Like("lx2k9a-4f0q"),
		"customerName": matchers.Like("Pact Customer"),
		"items": matchers.ArrayMinLike(matchers.Map{
			"name":  matchers.Like("Premium Hoodie (Black, M)"),
			"qty":   matchers.Like(2),
			"price": matchers.Like(2990),
		}, 1),
		"total":  matchers.Like(6380),
		"status": matchers.Term("pending", "pending|processing|shipped|delivered|cancelled"),
	}

	pact.AddInteraction().
		Given(pacttest.StateOrdersBaseline).
		UponReceiving("a storefront order submission").
		WithRequest("POST", "/api/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleOrderForm())
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(orderMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateOrdersBaseline).
		UponReceiving("a storefront order submission with an invalid phone").
		WithRequest("POST", "/api/orders", func(b *pactconsumer.V2RequestBuilder) {
			form := pacttest.ExampleOrderForm()
			form["phone"] = "123"
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(form)
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/validation-error"),
				"status": matchers.Like(http.StatusBadRequest),
				"detail": matchers.S("Validation failed"),
				"extensions": matchers.Map{
					"details": matchers.EachLike("invalid phone", 1),
				},
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderExists).
		UponReceiving("a request for an existing order").
		WithRequest("GET", "/api/orders/"+pacttest.ExistingOrderID).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(orderMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("a request for a missing order").
		WithRequest("GET", "/api/orders/"+pacttest.MissingOrderID).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := &storefrontClient{baseURL: fmt.Sprintf("http://%s:%d", config.Host, config.Port), http: &http.Client{Timeout: 5 * time.Second}}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := client.PlaceOrder(ctx, pacttest.ExampleOrderForm())
		if err != nil {
			return fmt.Errorf("place order: %w", err)
		}
		if created.ID == "" || len(created.Items) == 0 {
			return fmt.Errorf("expected a created order, got %+v", created)
		}

		invalid := pacttest.ExampleOrderForm()
		invalid["phone"] = "123"
		if _, err := client.PlaceOrder(ctx, invalid); err == nil {
			return fmt.Errorf("expected validation error for invalid phone")
		}

		fetched, err := client.GetOrder(ctx, pacttest.ExistingOrderID)
		if err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		if fetched.ID == "" {
			return fmt.Errorf("expected order id to be set")
		}

		if _, err := client.GetOrder(ctx, pacttest.MissingOrderID); err == nil {
			return fmt.Errorf("expected 404 for order %s", pacttest.MissingOrderID)
		}
		return nil
	})
	require.NoError(t, err)
}

type storefrontClient struct {
	baseURL string
	http    *http.Client
}

func (c *storefrontClient) PlaceOrder(ctx context.Context, form map[string]any) (*orderPayload, error) {
	body, err := json.Marshal(form)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doOrder(req, http.StatusCreated)
}

func (c *storefrontClient) GetOrder(ctx context.Context, id string) (*orderPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/orders/"+id, nil)
	if err != nil {
		return nil, err
	}
	return c.doOrder(req, http.StatusOK)
}

func (c *storefrontClient) doOrder(req *http.Request, want int) (*orderPayload, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != want {
		var problem problemDetail
		_ = json.NewDecoder(resp.Body).Decode(&problem)
		return nil, apiError{status: resp.StatusCode, problem: problem}
	}
	var order orderPayload
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}
