package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	AdminAPIKey string `env:"ADMIN_API_KEY"`

	// RendererAddr is the external renderer's host:port. Empty means the
	// bridge runs viewer-only.
	RendererAddr          string `env:"RENDERER_ADDR"`
	RendererDialTimeoutMS int    `env:"RENDERER_DIAL_TIMEOUT_MS" envDefault:"3000"`

	QualityIntervalSeconds int   `env:"QUALITY_INTERVAL_SECONDS" envDefault:"5"`
	ViewerSendBuffer       int   `env:"VIEWER_SEND_BUFFER" envDefault:"16"`
	GameSeed               int64 `env:"GAME_SEED" envDefault:"0"`

	MCPEnabled bool `env:"MCP_ENABLED" envDefault:"true"`
}

func (c ServerConfig) RendererDialTimeout() time.Duration {
	return time.Duration(c.RendererDialTimeoutMS) * time.Millisecond
}

func (c ServerConfig) QualityInterval() time.Duration {
	return time.Duration(c.QualityIntervalSeconds) * time.Second
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
