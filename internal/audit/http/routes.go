package audithttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/chronos-hr/chronos/internal/access"
)

const exportRateLimit = 10
const exportRateWindow = time.Minute

// MountRoutes registers the timeline endpoint and the CSV export. The
// export is rate limited per principal because it scans without paging.
func (h *Handler) MountRoutes(r chi.Router, guard access.Guard) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(exportRateLimit, exportRateWindow,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)
	r.With(guard.Require("audit", "list")).Get("/", h.handleTimeline)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.With(guard.Require("audit", "export")).Get("/export.csv", h.handleExport)
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	if p := access.PrincipalFromContext(r.Context()); p != nil {
		return "user:" + p.ID, nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
