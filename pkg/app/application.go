package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"

	"holidayplanner/internal/holidays/handler"
	"holidayplanner/pkg/auth"
	"holidayplanner/pkg/config"
	"holidayplanner/pkg/contracts"
	"holidayplanner/pkg/middleware"
)

const StreamPrefix = "/ws/"

// ShutdownHook releases a background resource during graceful shutdown.
type ShutdownHook func(ctx context.Context) error

type namedHook struct {
	name string
	hook ShutdownHook
}

type Application struct {
	cfg              *config.Config
	verifier         *auth.Verifier
	server           *http.Server
	idempotencyStore *middleware.InMemoryIdempotencyStore
	rateLimiter      *middleware.RateLimiter
	healthHandler    http.Handler
	appHttpHandler   http.Handler
	streamHandler    http.Handler
	hooks            []namedHook
}

func NewApplication(cfg *config.Config, verifier *auth.Verifier) *Application {
	a := &Application{
		cfg:      cfg,
		verifier: verifier,
	}
	a.setHealthHandler()
	return a
}

// SetApp mounts the API handlers behind the full middleware stack.
func (a *Application) SetApp(handlers ...contracts.Handler) {
	appRouter := httprouter.New()
	for _, h := range handlers {
		h.RegisterRoutes(appRouter)
	}

	a.idempotencyStore = middleware.NewInMemoryIdempotencyStore(a.cfg.IdempotencyTTL)
	a.rateLimiter = middleware.NewRateLimiter(
		a.cfg.RateLimitRequests,
		a.cfg.RateLimitWindow,
		middleware.ActorKey,
		a.cfg.Log,
	)

	// Recovery → Logging → CORS → MaxSize → ContentType → Auth → RateLimit → Timeout → Idempotency → Router
	a.appHttpHandler = middleware.Chain(appRouter,
		middleware.Recovery(a.cfg.Log),
		middleware.RequestLogging(a.cfg.Log),
		middleware.NewCORSHandler(a.cfg.CORSAllowedOrigins),
		middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize), a.cfg.Log),
		middleware.ContentTypeValidation(a.cfg.Log),
		middleware.Authenticate(a.verifier, a.cfg.Log),
		middleware.RateLimit(a.rateLimiter),
		middleware.RequestTimeout(a.cfg.RequestTimeout, a.cfg.Log),
		middleware.Idempotency(a.idempotencyStore, middleware.DefaultIdempotencyHeader),
	)
	a.cfg.Log.Info("Application endpoints configured with full security middleware stack")
}

// SetStream mounts long-lived connections under StreamPrefix. They
// authenticate themselves and skip the request timeout.
func (a *Application) SetStream(streamHandler contracts.Handler) {
	streamRouter := httprouter.New()
	streamHandler.RegisterRoutes(streamRouter)

	a.streamHandler = middleware.Chain(streamRouter,
		middleware.Recovery(a.cfg.Log),
		middleware.RequestLogging(a.cfg.Log),
		middleware.NewCORSHandler(a.cfg.CORSAllowedOrigins),
	)
	a.cfg.Log.Info("Stream endpoints configured", "prefix", StreamPrefix)
}

// OnShutdown registers a hook run, in registration order, before the server stops.
func (a *Application) OnShutdown(name string, hook ShutdownHook) {
	a.hooks = append(a.hooks, namedHook{name: name, hook: hook})
}

func (a *Application) setHealthHandler() {
	var db handler.Pinger
	if a.cfg.Client != nil && a.cfg.Client.Mongo != nil {
		db = a.cfg.Client.Mongo
	}

	healthRouter := httprouter.New()
	healthHandler := handler.NewHealthHandler(db, a.cfg.Log)
	healthHandler.RegisterRoutes(healthRouter)

	a.healthHandler = middleware.Chain(healthRouter,
		middleware.Recovery(a.cfg.Log),
		middleware.RequestLogging(a.cfg.Log),
	)
	a.cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery + Logging only)")
}

// Handler returns the routed handler the server serves.
func (a *Application) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	if a.streamHandler != nil {
		mux.Handle(StreamPrefix, a.streamHandler)
	}
	if a.appHttpHandler != nil {
		mux.Handle("/", a.appHttpHandler)
	}
	return mux
}

func (a *Application) setAppServer() {
	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      a.Handler(),
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

func (a *Application) Run() {
	a.setAppServer()
	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			a.cfg.Log.Fatal("HTTP server failed", "error", err)
		}

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Fatal("Could not stop server gracefully", "error", err)
		}
	}

	a.cfg.Log.Info("Stopping background workers...")
	a.stopWorkers(ctx)
	a.cfg.Log.Info("Background workers stopped")

	a.cfg.GracefulShutdown()
	a.cfg.Log.Info("Server stopped gracefully")
}

func (a *Application) stopWorkers(ctx context.Context) {
	if a.idempotencyStore != nil {
		a.idempotencyStore.Stop()
	}
	if a.rateLimiter != nil {
		a.rateLimiter.Stop()
	}
	for _, h := range a.hooks {
		if err := h.hook(ctx); err != nil {
			a.cfg.Log.Error("Shutdown hook failed", "hook", h.name, "error", err)
		}
	}
}
