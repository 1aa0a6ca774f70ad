package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andrescamacho/quartermaster-go/internal/infrastructure/config"
)

// Serve starts the Prometheus HTTP endpoint in a background goroutine.
// Returns the server so the caller can shut it down.
func Serve(cfg *config.MetricsConfig) (*http.Server, error) {
	if Registry == nil {
		return nil, fmt.Errorf("metrics registry not initialized")
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: mux,
	}
	go func() {
		// ErrServerClosed is the normal shutdown path.
		_ = srv.ListenAndServe()
	}()
	return srv, nil
}
