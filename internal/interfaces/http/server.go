package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/dexhound/dexhound/internal/domain"
	"github.com/dexhound/dexhound/internal/portfolio"
)

// MarketService is the read contract the handlers serve. Implemented by
// application.Service.
type MarketService interface {
	GetMarketData(ctx context.Context, force bool) (domain.RankedResult, domain.Source)
	GetTokenDetails(ctx context.Context, query string) *domain.MarketEntry
}

// PortfolioService resolves wallet portfolios. Implemented by
// portfolio.Router.
type PortfolioService interface {
	Fetch(ctx context.Context, chain, address string) (portfolio.Snapshot, error)
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Server is the read-only consumer API.
type Server struct {
	router     *mux.Router
	server     *http.Server
	market     MarketService
	portfolios PortfolioService
	metrics    http.Handler
}

// NewServer builds the server and its routes.
func NewServer(cfg ServerConfig, market MarketService, portfolios PortfolioService, metricsHandler http.Handler) *Server {
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}

	s := &Server{
		router:     mux.NewRouter(),
		market:     market,
		portfolios: portfolios,
		metrics:    metricsHandler,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/market", s.handleMarket).Methods(http.MethodGet)
	api.HandleFunc("/token", s.handleToken).Methods(http.MethodGet)
	if s.portfolios != nil {
		api.HandleFunc("/portfolio/{chain}/{address}", s.handlePortfolio).Methods(http.MethodGet)
	}

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics).Methods(http.MethodGet)
	}
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
