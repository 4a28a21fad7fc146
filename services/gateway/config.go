package main

import (
	"fmt"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config reúne as variáveis de ambiente do API Gateway
type Config struct {
	Port          string        `envconfig:"PORT" default:"3000"`
	ServiceName   string        `envconfig:"SERVICE_NAME" default:"api_gateway"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	HealthTimeout time.Duration `envconfig:"HEALTH_TIMEOUT" default:"2s"`

	BooksServiceURL   string `envconfig:"BOOKS_SERVICE_URL" default:"http://localhost:3001"`
	UsersServiceURL   string `envconfig:"USERS_SERVICE_URL" default:"http://localhost:3002"`
	OrdersServiceURL  string `envconfig:"ORDERS_SERVICE_URL" default:"http://localhost:3003"`
	ReviewsServiceURL string `envconfig:"REVIEWS_SERVICE_URL" default:"http://localhost:3004"`
}

// serviceNamePattern é o formato aceito pelo Prometheus como subsystem das métricas
var serviceNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Upstream descreve um serviço atrás do gateway
type Upstream struct {
	Key    string
	Name   string
	Prefix string
	Target string
}

// LoadConfig lê o .env (se existir) e as variáveis de ambiente
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if !serviceNamePattern.MatchString(c.ServiceName) {
		return fmt.Errorf("SERVICE_NAME %q must contain only letters, digits and underscores", c.ServiceName)
	}
	if c.HealthTimeout <= 0 {
		return fmt.Errorf("HEALTH_TIMEOUT must be positive")
	}
	for _, up := range c.Upstreams() {
		if up.Target == "" {
			return fmt.Errorf("%s_SERVICE_URL is required", up.Key)
		}
	}
	return nil
}

// Upstreams retorna os serviços na ordem em que são registrados
func (c *Config) Upstreams() []Upstream {
	return []Upstream{
		{Key: "BOOKS", Name: "Books", Prefix: "/api/books", Target: c.BooksServiceURL},
		{Key: "USERS", Name: "Users", Prefix: "/api/users", Target: c.UsersServiceURL},
		{Key: "ORDERS", Name: "Orders", Prefix: "/api/orders", Target: c.OrdersServiceURL},
		{Key: "REVIEWS", Name: "Reviews", Prefix: "/api/reviews", Target: c.ReviewsServiceURL},
	}
}
