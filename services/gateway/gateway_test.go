package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type upstreamRequest struct {
	Method    string
	Path      string
	Query     string
	Body      string
	RequestID string
}

// newUpstream sobe um serviço falso que ecoa o que recebeu
func newUpstream(t *testing.T, name string) (*httptest.Server, chan upstreamRequest) {
	t.Helper()
	received := make(chan upstreamRequest, 10)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"service":"` + name + `"}`))
			return
		}

		body, _ := io.ReadAll(r.Body)
		received <- upstreamRequest{
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.RawQuery,
			Body:      string(body),
			RequestID: r.Header.Get("X-Request-ID"),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"service":"` + name + `"}}`))
	}))
	t.Cleanup(srv.Close)

	return srv, received
}

func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func newTestConfig(books, users, orders, reviews string) *Config {
	return &Config{
		Port:              "3000",
		ServiceName:       "gateway",
		LogLevel:          "info",
		HealthTimeout:     time.Second,
		BooksServiceURL:   books,
		UsersServiceURL:   users,
		OrdersServiceURL:  orders,
		ReviewsServiceURL: reviews,
	}
}

type gatewayResponse struct {
	Code   int
	Header http.Header
	Body   string
}

// newTestGateway sobe o router do gateway em um servidor HTTP real
func newTestGateway(t *testing.T, cfg *Config) (*httptest.Server, *ServerMetrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	metrics := NewServerMetrics(cfg.ServiceName)
	r, err := setupRouter(cfg, metrics, zap.NewNop())
	require.NoError(t, err)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, metrics
}

func serve(t *testing.T, srv *httptest.Server, method, path, body string) gatewayResponse {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return gatewayResponse{Code: resp.StatusCode, Header: resp.Header, Body: string(respBody)}
}

func receive(t *testing.T, ch <-chan upstreamRequest) upstreamRequest {
	t.Helper()
	select {
	case got := <-ch:
		return got
	case <-time.After(5 * time.Second):
		require.FailNow(t, "upstream did not receive the request")
		return upstreamRequest{}
	}
}

func TestGateway_Health(t *testing.T) {
	cfg := newTestConfig("http://books:3001", "http://users:3002", "http://orders:3003", "http://reviews:3004")
	srv, _ := newTestGateway(t, cfg)

	w := serve(t, srv, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success   bool              `json:"success"`
		Message   string            `json:"message"`
		Timestamp string            `json:"timestamp"`
		Services  map[string]string `json:"services"`
	}
	require.NoError(t, json.Unmarshal([]byte(w.Body), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "API Gateway is running", body.Message)
	_, err := time.Parse(time.RFC3339Nano, body.Timestamp)
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{
		"books":   "http://books:3001",
		"users":   "http://users:3002",
		"orders":  "http://orders:3003",
		"reviews": "http://reviews:3004",
	}, body.Services)
}

func TestGateway_ProxyPreservesPath(t *testing.T) {
	books, booksReqs := newUpstream(t, "books")
	orders, ordersReqs := newUpstream(t, "orders")
	cfg := newTestConfig(books.URL, deadURL(t), orders.URL, deadURL(t))
	srv, _ := newTestGateway(t, cfg)

	w := serve(t, srv, http.MethodPost, "/api/orders/order-1/items?trace=1", `{"bookId":"book-1"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"service":"orders"}}`, w.Body)
	assert.Len(t, w.Header.Values("X-Request-ID"), 1)

	got := receive(t, ordersReqs)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/orders/order-1/items", got.Path)
	assert.Equal(t, "trace=1", got.Query)
	assert.Equal(t, `{"bookId":"book-1"}`, got.Body)
	assert.Equal(t, w.Header.Get("X-Request-ID"), got.RequestID)

	w = serve(t, srv, http.MethodGet, "/api/books", "")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/books", receive(t, booksReqs).Path)
}

func TestGateway_ProxyUnavailable(t *testing.T) {
	tests := []struct {
		path    string
		wantErr string
	}{
		{path: "/api/books", wantErr: "Books Service unavailable"},
		{path: "/api/users/user-1", wantErr: "Users Service unavailable"},
		{path: "/api/orders", wantErr: "Orders Service unavailable"},
		{path: "/api/reviews/book/book-1", wantErr: "Reviews Service unavailable"},
	}

	dead := deadURL(t)
	srv, _ := newTestGateway(t, newTestConfig(dead, dead, dead, dead))

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serve(t, srv, http.MethodGet, tt.path, "")

			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
			assert.JSONEq(t, `{"success":false,"error":"`+tt.wantErr+`"}`, w.Body)
		})
	}
}

func TestGateway_HealthServices(t *testing.T) {
	books, _ := newUpstream(t, "books")
	users, _ := newUpstream(t, "users")
	orders, _ := newUpstream(t, "orders")
	reviews, _ := newUpstream(t, "reviews")

	t.Run("all up", func(t *testing.T) {
		srv, _ := newTestGateway(t, newTestConfig(books.URL, users.URL, orders.URL, reviews.URL))

		w := serve(t, srv, http.MethodGet, "/health/services", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Success bool                     `json:"success"`
			Data    map[string]ServiceHealth `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(w.Body), &body))
		assert.True(t, body.Success)
		require.Len(t, body.Data, 4)
		for name, health := range body.Data {
			assert.Equal(t, serviceUp, health.Status, name)
		}
	})

	t.Run("one down", func(t *testing.T) {
		srv, _ := newTestGateway(t, newTestConfig(books.URL, users.URL, deadURL(t), reviews.URL))

		w := serve(t, srv, http.MethodGet, "/health/services", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var body struct {
			Success bool                     `json:"success"`
			Data    map[string]ServiceHealth `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(w.Body), &body))
		assert.False(t, body.Success)
		assert.Equal(t, serviceDown, body.Data["orders"].Status)
		assert.NotEmpty(t, body.Data["orders"].Error)
		assert.Equal(t, serviceUp, body.Data["books"].Status)
	})
}

func TestGateway_UnknownRoute(t *testing.T) {
	dead := deadURL(t)
	srv, _ := newTestGateway(t, newTestConfig(dead, dead, dead, dead))

	w := serve(t, srv, http.MethodGet, "/api/payments", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Route not found"}`, w.Body)
}

func TestGateway_Metrics(t *testing.T) {
	dead := deadURL(t)
	srv, metrics := newTestGateway(t, newTestConfig(dead, dead, dead, dead))

	serve(t, srv, http.MethodGet, "/health", "")
	serve(t, srv, http.MethodGet, "/health", "")
	serve(t, srv, http.MethodGet, "/api/orders/order-1", "")
	serve(t, srv, http.MethodGet, "/nowhere", "")

	counted := func(handler, status string, want float64) func() bool {
		return func() bool {
			return testutil.ToFloat64(metrics.Requests.WithLabelValues(handler, "GET", status)) == want
		}
	}
	assert.Eventually(t, counted("/health", "200", 2), time.Second, 10*time.Millisecond)
	assert.Eventually(t, counted("/api/orders/*path", "503", 1), time.Second, 10*time.Millisecond)
	assert.Eventually(t, counted("unmatched", "404", 1), time.Second, 10*time.Millisecond)

	w := serve(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body, "bookstore_gateway_http_requests_total")
	assert.Contains(t, w.Body, "bookstore_gateway_http_request_duration_ms")
}

func TestGateway_InvalidUpstreamURL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := newTestConfig("books:3001", "http://users:3002", "http://orders:3003", "http://reviews:3004")

	_, err := setupRouter(cfg, NewServerMetrics("gateway"), zap.NewNop())

	assert.ErrorContains(t, err, "invalid Books service url")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Port = "" }, wantErr: "PORT is required"},
		{name: "empty service name", mutate: func(c *Config) { c.ServiceName = "" }, wantErr: `SERVICE_NAME "" must contain only letters, digits and underscores`},
		{name: "hyphenated service name", mutate: func(c *Config) { c.ServiceName = "api-gateway" }, wantErr: `SERVICE_NAME "api-gateway" must contain only letters, digits and underscores`},
		{name: "zero timeout", mutate: func(c *Config) { c.HealthTimeout = 0 }, wantErr: "HEALTH_TIMEOUT must be positive"},
		{name: "missing upstream", mutate: func(c *Config) { c.ReviewsServiceURL = "" }, wantErr: "REVIEWS_SERVICE_URL is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig("http://b", "http://u", "http://o", "http://r")
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestNewServerMetrics_AcceptsValidServiceName(t *testing.T) {
	cfg := newTestConfig("http://b", "http://u", "http://o", "http://r")
	cfg.ServiceName = "api_gateway"
	require.NoError(t, cfg.Validate())

	assert.NotPanics(t, func() { NewServerMetrics(cfg.ServiceName) })
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SERVICE_NAME", "gateway")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HEALTH_TIMEOUT", "500ms")
	t.Setenv("BOOKS_SERVICE_URL", "http://books:3001")
	t.Setenv("USERS_SERVICE_URL", "http://users:3002")
	t.Setenv("ORDERS_SERVICE_URL", "http://orders:3003")
	t.Setenv("REVIEWS_SERVICE_URL", "http://reviews:3004")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.HealthTimeout)
	assert.Equal(t, "http://orders:3003", cfg.OrdersServiceURL)
	assert.Equal(t, "/api/orders", cfg.Upstreams()[2].Prefix)
}
