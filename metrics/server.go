package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/canopy-network/lphelper/lib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsPattern = "/metrics"

// Server represents a server that exposes Prometheus metrics
type Server struct {
	server *http.Server
	log    lib.LoggerI
}

// NewServer creates a new metrics server, nil when metrics are disabled
func NewServer(config lib.MetricsConfig, log lib.LoggerI) *Server {
	if !config.MetricsEnabled {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle(metricsPattern, promhttp.Handler())
	return &Server{
		server: &http.Server{
			Addr:              config.PrometheusAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

// Start serves the metrics until ctx is done
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	go func() {
		<-ctx.Done()
		if err := s.Stop(); err != nil {
			s.log.Errorf("Metrics shutdown failed with err: %s", err.Error())
		}
	}()
	s.log.Infof("Starting metrics server at %s", s.server.Addr)
	UpdateNodeStatus(true)
	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops the metrics server
func (s *Server) Stop() error {
	if s == nil {
		return nil
	}
	UpdateNodeStatus(false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
