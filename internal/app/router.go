package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/chronos-hr/chronos/internal/access"
	audithttp "github.com/chronos-hr/chronos/internal/audit/http"
	"github.com/chronos-hr/chronos/internal/auth"
	"github.com/chronos-hr/chronos/internal/hr/employees"
	"github.com/chronos-hr/chronos/internal/hr/timesheets"
	"github.com/chronos-hr/chronos/internal/observability"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	Resolver          auth.Resolver
	Guard             access.Guard
	AuthHandler       *auth.Handler
	EmployeesHandler  *employees.Handler
	TimesheetsHandler *timesheets.Handler
	AuditHandler      *audithttp.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with chronos defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:   params.Logger,
		Config:   params.Config,
		Resolver: params.Resolver,
		Metrics:  params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	if params.EmployeesHandler != nil {
		r.Route("/employees", func(r chi.Router) {
			params.EmployeesHandler.MountRoutes(r, params.Guard)
		})
	}
	if params.TimesheetsHandler != nil {
		r.Route("/timesheets", func(r chi.Router) {
			params.TimesheetsHandler.MountRoutes(r, params.Guard)
		})
	}
	if params.AuditHandler != nil {
		r.Route("/audit", func(r chi.Router) {
			params.AuditHandler.MountRoutes(r, params.Guard)
		})
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
