// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/vantage/internal/config"
	"github.com/JaimeStill/vantage/internal/infrastructure"
	"github.com/JaimeStill/vantage/pkg/middleware"
	"github.com/JaimeStill/vantage/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// A startup hook warms the semantic search index from persisted embeddings.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	runtime.Lifecycle.OnStartup(func() {
		ctx := runtime.Lifecycle.Context()
		count, err := domain.Signals.WarmIndex(ctx)
		if err != nil {
			runtime.Logger.Error("semantic index warmup failed", "error", err)
			return
		}
		runtime.Logger.Info("semantic index warmed", "embeddings", count)
	})

	mux := http.NewServeMux()
	registerRoutes(mux, domain)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
