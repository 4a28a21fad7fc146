package main

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/matheusmosca/bookstore-microservices/shared/envelope"
)

const (
	serviceUp   = "up"
	serviceDown = "down"
)

// ServiceHealth é o resultado da sonda de um upstream
type ServiceHealth struct {
	URL       string `json:"url"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}

// HealthHandler responde pela saúde do gateway e dos serviços atrás dele
type HealthHandler struct {
	upstreams []Upstream
	client    *resty.Client
	logger    *zap.Logger
}

// NewHealthHandler cria o handler com um cliente resty limitado por timeout
func NewHealthHandler(upstreams []Upstream, timeout time.Duration, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		upstreams: upstreams,
		client:    resty.New().SetTimeout(timeout),
		logger:    logger,
	}
}

// Health informa que o gateway está no ar e para onde ele encaminha
func (h *HealthHandler) Health(c *gin.Context) {
	services := make(map[string]string, len(h.upstreams))
	for _, up := range h.upstreams {
		services[strings.ToLower(up.Name)] = up.Target
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "API Gateway is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"services":  services,
	})
}

// Services sonda o /health de cada upstream em paralelo
func (h *HealthHandler) Services(c *gin.Context) {
	results := h.probeAll(c.Request.Context())

	status := http.StatusOK
	for _, r := range results {
		if r.Status != serviceUp {
			status = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(status, envelope.Response{Success: status == http.StatusOK, Data: results})
}

func (h *HealthHandler) probeAll(ctx context.Context) map[string]ServiceHealth {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]ServiceHealth, len(h.upstreams))
	)

	for _, up := range h.upstreams {
		wg.Add(1)
		go func(up Upstream) {
			defer wg.Done()
			result := h.probe(ctx, up)

			mu.Lock()
			results[strings.ToLower(up.Name)] = result
			mu.Unlock()
		}(up)
	}
	wg.Wait()

	return results
}

func (h *HealthHandler) probe(ctx context.Context, up Upstream) ServiceHealth {
	start := time.Now()
	result := ServiceHealth{URL: up.Target, Status: serviceDown}

	resp, err := h.client.R().SetContext(ctx).Get(strings.TrimRight(up.Target, "/") + "/health")
	result.LatencyMS = time.Since(start).Milliseconds()

	switch {
	case err != nil:
		result.Error = err.Error()
		h.logger.Warn("⚠️ Service health probe failed", zap.String("service", up.Name), zap.Error(err))
	case !resp.IsSuccess():
		result.Error = resp.Status()
		h.logger.Warn("⚠️ Service unhealthy", zap.String("service", up.Name), zap.Int("status", resp.StatusCode()))
	default:
		result.Status = serviceUp
	}

	return result
}
