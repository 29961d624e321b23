// Package server wires the extraction service, provider registry, and
// endpoint registry into an HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jackzampolin/titlescan/internal/api"
	"github.com/jackzampolin/titlescan/internal/config"
	"github.com/jackzampolin/titlescan/internal/extract"
	"github.com/jackzampolin/titlescan/internal/home"
	"github.com/jackzampolin/titlescan/internal/llmcall"
	"github.com/jackzampolin/titlescan/internal/providers"
	"github.com/jackzampolin/titlescan/internal/server/endpoints"
	"github.com/jackzampolin/titlescan/internal/svcctx"
)

// Server is the main titlescan HTTP server.
type Server struct {
	httpServer *http.Server
	registry   *providers.Registry
	configMgr  *config.Manager
	calls      *llmcall.Store
	logger     *slog.Logger
	homeDir    *home.Dir

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu        sync.RWMutex
	extractor *extract.Extractor
	running   bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Home is the titlescan home directory
	Home *home.Dir
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ConfigManager == nil {
		return nil, errors.New("config manager is required")
	}

	registry := providers.NewRegistry()
	registry.SetLogger(cfg.Logger)
	registry.Reload(cfg.ConfigManager.Get().ToProviderRegistryConfig())

	s := &Server{
		registry:  registry,
		configMgr: cfg.ConfigManager,
		calls:     llmcall.NewStore(cfg.ConfigManager.Get().Extraction.CallHistory),
		logger:    cfg.Logger,
		homeDir:   cfg.Home,
	}

	if err := s.rebuildExtractor(cfg.ConfigManager.Get()); err != nil {
		cfg.Logger.Warn("extraction service not ready", "error", err)
	}

	// Config changes remap providers and rebuild the extractor.
	cfg.ConfigManager.OnChange(func(c *config.Config) {
		registry.Reload(c.ToProviderRegistryConfig())
		if err := s.rebuildExtractor(c); err != nil {
			cfg.Logger.Error("failed to rebuild extraction service", "error", err)
			return
		}
		cfg.Logger.Info("extraction service reloaded from config")
	})

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // Extraction responses wait on the model call
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// rebuildExtractor constructs the extraction service from the default
// provider named in config.
func (s *Server) rebuildExtractor(c *config.Config) error {
	name := c.Defaults.Provider
	client, err := s.registry.GetLLM(name)
	if err != nil {
		s.setExtractor(nil)
		return fmt.Errorf("default provider %q not available: %w", name, err)
	}

	ex, err := extract.New(extract.Config{
		Client:              client,
		FewShotExamplesPath: c.Extraction.FewShotExamplesPath,
		Temperature:         c.Defaults.Temperature,
		MaxTokens:           c.Defaults.MaxTokens,
		Logger:              s.logger,
	})
	if err != nil {
		s.setExtractor(nil)
		return err
	}

	s.setExtractor(ex)
	return nil
}

func (s *Server) setExtractor(ex *extract.Extractor) {
	s.mu.Lock()
	s.extractor = ex
	if s.services != nil {
		s.services.Extractor = ex
	}
	s.mu.Unlock()
}

// Start starts the server. It blocks until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true

	s.services = &svcctx.Services{
		Extractor:     s.extractor,
		Registry:      s.registry,
		ConfigManager: s.configMgr,
		Calls:         s.calls,
		Logger:        s.logger,
		Home:          s.homeDir,
	}
	s.mu.Unlock()

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Extractor returns the current extraction service (nil if not configured).
func (s *Server) Extractor() *extract.Extractor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.extractor
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the fully wired HTTP handler (used by tests).
func (s *Server) Handler() http.Handler {
	s.mu.Lock()
	if s.services == nil {
		s.services = &svcctx.Services{
			Extractor:     s.extractor,
			Registry:      s.registry,
			ConfigManager: s.configMgr,
			Calls:         s.calls,
			Logger:        s.logger,
			Home:          s.homeDir,
		}
	}
	s.mu.Unlock()
	return s.httpServer.Handler
}

// withServices enriches request contexts with the service container.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		s.mu.RLock()
		services := s.services
		s.mu.RUnlock()
		if services != nil {
			ctx = svcctx.WithServices(ctx, services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the extraction service is ready.
// Returns 503 Service Unavailable until a provider is configured.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Extractor() == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"extraction service not configured"}`))
			return
		}
		next(w, r)
	}
}
