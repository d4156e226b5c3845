package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

//go:generate mockgen -destination=./server_mock.go -package=server -source=server.go

const (
	serverName = "HTable metrics server"
	// startupGrace is how long Start waits for the listener to fail before it reports
	// the server as running.
	startupGrace = 50 * time.Millisecond
	stopTimeout  = 5 * time.Second
)

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// Server exposes the prometheus registry and a health check over plain HTTP.
type Server struct {
	address string
	port    int
	server  httpServer
}

type Config struct {
	Address string
	Port    int
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Address == "" {
		errGrp = append(errGrp, errors.New("address is required"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errGrp = append(errGrp, errors.New("port must be between 1 and 65535"))
	}
	return errors.Join(errGrp...)
}

func New(cfg *Config) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	})

	return &Server{
		address: cfg.Address,
		port:    cfg.Port,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Start serves in the background. It only fails when the listener cannot come up.
func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == nil {
			return nil
		}
		if errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server closed during start: %w", err)
		}
		return fmt.Errorf("failed to start %s: %w", serverName, err)
	case <-time.After(startupGrace):
		log.Info().Str("address", s.address).Int("port", s.port).Msg("metrics server listening")
		return nil
	}
}

func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop %s: %w", serverName, err)
	}
	return nil
}

func (s *Server) Name() string {
	return serverName
}
