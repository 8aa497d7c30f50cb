package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/tradeguard/dashkit/pkg/logger"
)

// Server serves the dashboard gateway over HTTP and shuts down gracefully on
// context cancellation or termination signals.
type Server struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	listener        net.Listener
	log             *slog.Logger

	mu      sync.Mutex
	running bool
	srv     *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address. Ignored when a listener is injected.
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithReadTimeout bounds reading a full request.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.readTimeout = d
		}
	}
}

// WithWriteTimeout bounds writing a response. Leave unset when the handler
// serves SSE streams.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.writeTimeout = d
		}
	}
}

// WithIdleTimeout bounds keep-alive idleness.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.idleTimeout = d
		}
	}
}

// WithShutdownTimeout bounds how long shutdown waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithListener serves on an existing listener instead of binding addr.
// Tests use it to serve on an ephemeral port.
func WithListener(l net.Listener) Option {
	return func(s *Server) {
		s.listener = l
	}
}

// WithServerLogger sets the structured logger.
func WithServerLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a server with dashboard-friendly defaults.
func New(opts ...Option) *Server {
	s := &Server{
		addr:            ":8080",
		readTimeout:     30 * time.Second,
		idleTimeout:     2 * time.Minute,
		shutdownTimeout: 10 * time.Second,
		log:             slog.Default().With(logger.Component("httpserver")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config carries the server settings read from the environment.
type Config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"0"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// NewFromConfig creates a server from environment-derived settings. Extra
// options apply on top.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	base := []Option{
		WithAddr(cfg.Addr),
		WithReadTimeout(cfg.ReadTimeout),
		WithWriteTimeout(cfg.WriteTimeout),
		WithIdleTimeout(cfg.IdleTimeout),
		WithShutdownTimeout(cfg.ShutdownTimeout),
	}
	return New(append(base, opts...)...)
}

// Addr returns the address the server is listening on. Useful with an
// ephemeral-port listener.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Run serves handler until the context is cancelled or a termination signal
// arrives, then drains within the shutdown timeout. It blocks for the
// server's whole lifetime.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.srv = &http.Server{
		Addr:         s.addr,
		Handler:      handler,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
		IdleTimeout:  s.idleTimeout,
	}
	srv := s.srv
	listener := s.listener
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.log.InfoContext(ctx, "listening", slog.String("addr", s.Addr()))
		if listener != nil {
			errCh <- srv.Serve(listener)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	var serveErr error
	select {
	case <-ctx.Done():
		serveErr = s.drain(errCh)
	case sig := <-stop:
		s.log.Info("termination signal", slog.String("signal", sig.String()))
		serveErr = s.drain(errCh)
	case serveErr = <-errCh:
	}

	if serveErr == nil || errors.Is(serveErr, http.ErrServerClosed) {
		return nil
	}
	if errors.Is(serveErr, ErrShutdown) {
		return serveErr
	}
	return fmt.Errorf("%w: %v", ErrServe, serveErr)
}

func (s *Server) drain(errCh <-chan error) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.log.Error("shutdown incomplete", logger.Error(err))
		_ = s.srv.Close()
		<-errCh
		return fmt.Errorf("%w: %v", ErrShutdown, err)
	}

	s.log.Info("stopped")
	return <-errCh
}
