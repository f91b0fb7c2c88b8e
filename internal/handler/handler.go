package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"proximart/webclient/internal/observability"
	"proximart/webclient/internal/service"
	"proximart/webclient/internal/session"
	"proximart/webclient/internal/view"
	"proximart/webclient/web"
)

type Options struct {
	Suppliers *service.SupplierService
	Orders    *service.OrderService
	Inventory *service.InventoryService
	Help      *service.HelpService

	Views    *view.Engine
	Sessions *session.Manager
	CSRF     *session.CSRF
	Metrics  *observability.Metrics
	Logger   *slog.Logger

	// RateLimitPerMinute of zero disables per-IP limiting.
	RateLimitPerMinute int
	SecureCookies      bool
}

type Handler struct {
	router    *chi.Mux
	suppliers *service.SupplierService
	orders    *service.OrderService
	inventory *service.InventoryService
	help      *service.HelpService
	views     *view.Engine
	csrf      *session.CSRF
	logger    *slog.Logger
}

func NewHandler(opts Options) *Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(opts.Logger))
	router.Use(middleware.Recoverer)
	router.Use(secureHeaders(opts.SecureCookies))
	if opts.RateLimitPerMinute > 0 {
		router.Use(httprate.Limit(opts.RateLimitPerMinute, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
	}
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
	}

	h := &Handler{
		router:    router,
		suppliers: opts.Suppliers,
		orders:    opts.Orders,
		inventory: opts.Inventory,
		help:      opts.Help,
		views:     opts.Views,
		csrf:      opts.CSRF,
		logger:    opts.Logger,
	}

	h.registerRoutes(opts)
	return h
}

func (h *Handler) registerRoutes(opts Options) {
	h.router.NotFound(h.NotFound)
	h.router.Handle("/static/*", http.FileServerFS(web.Static))
	h.router.Handle("/metrics", opts.Metrics.Handler())

	h.router.Group(func(r chi.Router) {
		r.Use(opts.Sessions.Middleware)
		r.Use(h.csrfGuard)

		r.Get("/", h.SuppliersPage)
		r.Get("/suppliers", h.SuppliersPage)
		r.Get("/supplier/{id}", h.SupplierPage)
		r.Post("/supplier/{id}/draft", h.UpdateDraft)
		r.Post("/supplier/{id}/order", h.PlaceOrder)
		r.Get("/orders", h.OrdersPage)
		r.Get("/inventory", h.InventoryPage)
		r.Get("/help", h.HelpPage)

		r.Route("/v1", func(r chi.Router) {
			r.Get("/health", h.HealthCheck)
			r.Get("/suppliers", h.GetSuppliers)
			r.Get("/suppliers/{id}", h.GetSupplier)
			r.Get("/orders", h.GetOrders)
			r.Get("/inventory", h.GetInventory)
			r.Get("/faqs", h.GetFAQs)
		})
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func secureHeaders(httpsOnly bool) func(http.Handler) http.Handler {
	return secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'",
		SSLRedirect:           httpsOnly,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	}).Handler
}

// csrfGuard rejects state-changing requests whose token does not match the
// session.
func (h *Handler) csrfGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		token := r.PostFormValue(session.CSRFFormField)
		if token == "" {
			token = r.Header.Get(session.CSRFHeader)
		}
		if err := h.csrf.Verify(session.ID(r.Context()), token); err != nil {
			h.logger.WarnContext(r.Context(), "csrf validation failed", slog.String("path", r.URL.Path), slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.InfoContext(r.Context(), "request",
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
		})
	}
}
