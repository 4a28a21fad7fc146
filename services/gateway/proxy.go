package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matheusmosca/bookstore-microservices/shared/envelope"
	"github.com/matheusmosca/bookstore-microservices/shared/middleware"
)

// newProxy cria o reverse proxy de um upstream. O caminho é repassado sem reescrita
// e falhas de conexão viram 503 com o envelope padrão.
func newProxy(up Upstream, logger *zap.Logger) (gin.HandlerFunc, error) {
	target, err := url.Parse(up.Target)
	if err != nil {
		return nil, fmt.Errorf("invalid %s service url: %w", up.Name, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid %s service url: %q", up.Name, up.Target)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	director := proxy.Director
	proxy.Director = func(req *http.Request) {
		director(req)
		req.Host = target.Host
	}
	// o gateway já devolve o seu próprio X-Request-ID
	proxy.ModifyResponse = func(resp *http.Response) error {
		resp.Header.Del(middleware.RequestIDHeader)
		return nil
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, req *http.Request, err error) {
		logger.Error(up.Name+" Service Error",
			zap.Error(err),
			zap.String("path", req.URL.Path),
			zap.String("request_id", req.Header.Get(middleware.RequestIDHeader)),
		)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(envelope.Response{
			Success: false,
			Error:   up.Name + " Service unavailable",
		})
	}

	return func(c *gin.Context) {
		if id := c.GetString("request_id"); id != "" {
			c.Request.Header.Set(middleware.RequestIDHeader, id)
		}
		proxy.ServeHTTP(c.Writer, c.Request)
	}, nil
}

// registerProxies liga cada prefixo /api/<recurso> ao seu upstream
func registerProxies(r gin.IRouter, upstreams []Upstream, logger *zap.Logger) error {
	for _, up := range upstreams {
		handler, err := newProxy(up, logger)
		if err != nil {
			return err
		}
		r.Any(up.Prefix, handler)
		r.Any(up.Prefix+"/*path", handler)
	}
	return nil
}
