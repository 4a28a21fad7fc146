package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config reúne as variáveis de ambiente do serviço de pedidos
type Config struct {
	Port           string `envconfig:"PORT" default:"3003"`
	ServiceName    string `envconfig:"SERVICE_NAME" default:"orders-service"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	OTelEnabled    bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTLPEndpoint   string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4318"`
	SeedSampleData bool   `envconfig:"SEED_SAMPLE_DATA" default:"true"`
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
	if c.ServiceName == "" {
		return fmt.Errorf("SERVICE_NAME is required")
	}
	if c.OTelEnabled && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED is set")
	}
	return nil
}
