package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"budget/internal/log"
	"budget/internal/middleware/ratelimit"
	"budget/internal/middleware/security"
	"budget/internal/middleware/trace"
	"budget/internal/ports"
	"budget/internal/services"
)

// Dependencies are the collaborators the handlers call into.
type Dependencies struct {
	Transactions *services.TransactionService
	Users        *services.UserService
	// Activity and Directory are optional; /api/activity is only routed
	// when both are set.
	Activity  ports.ActivityLog
	Directory ports.UserDirectory
	// Ready is optional; /readyz reports ready when it is nil.
	Ready func(ctx context.Context) error
}

type Options struct {
	RateLimitPerMinute int
	CORSAllowedOrigin  string
	Logger             *log.Logger
}

type Server struct {
	http.Server
	transactions *services.TransactionService
	users        *services.UserService
	activity     ports.ActivityLog
	directory    ports.UserDirectory
	ready        func(ctx context.Context) error
	rateLimiter  *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Dependencies, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)
	}

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		transactions: deps.Transactions,
		users:        deps.Users,
		activity:     deps.Activity,
		directory:    deps.Directory,
		ready:        deps.Ready,
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	mux.HandleFunc("POST /api/transactions", s.handleAddTransaction)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("GET /api/transactions/date-range", s.handleListByDateRange)
	mux.HandleFunc("GET /api/transactions/dashboard", s.handleDashboard)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	if s.activity != nil && s.directory != nil {
		mux.HandleFunc("GET /api/activity", s.handleListActivity)
	}

	ipResolver := security.NewClientIPResolver()
	allowedOrigin := opts.CORSAllowedOrigin
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(ipResolver.ExtractClientIP, ratelimit.MutatingOnly, func(w http.ResponseWriter, r *http.Request) {
		writeErrorMessage(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
	})(handler)
	handler = security.CORS(allowedOrigin)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = log.RequestIDMiddleware(trace.GetRequestID)(handler)
	handler = log.Middleware(logger)(handler)
	handler = trace.NewMiddleware(ipResolver.ExtractClientIP).Middleware(handler)

	s.Handler = handler
	return s
}

// Shutdown stops the rate limiter and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			log.FromContext(ctx).WarnContext(ctx, "Readiness check failed", log.FieldError, err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
