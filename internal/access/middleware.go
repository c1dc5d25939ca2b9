package access

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/chronos-hr/chronos/internal/shared"
)

// AuditHook receives the operation result after the response is finalized.
// Implementations must never fail the request; errors stay internal.
type AuditHook interface {
	Record(ctx context.Context, d Descriptor, p *Principal, params ParamSource, outcome any)
}

// Guard wires the registry and engine into chi middleware.
type Guard struct {
	Registry *Registry
	Engine   *Engine
	Audit    AuditHook
	Logger   *slog.Logger
	// OnDecision observes every decision, typically for metrics.
	OnDecision func(resource, operation string, allowed bool)
}

type outcomeBox struct {
	value any
	set   bool
}

type outcomeContextKey struct{}

// CaptureOutcome hands the handler's result to the audit pipeline. Calling
// it outside a guarded route is a no-op.
func CaptureOutcome(ctx context.Context, outcome any) {
	box, _ := ctx.Value(outcomeContextKey{}).(*outcomeBox)
	if box == nil {
		return
	}
	box.value = outcome
	box.set = true
}

// Require gates the wrapped handler with the descriptor declared for the
// operation, and triggers audit recording once the handler has responded.
func (g Guard) Require(resource, operation string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, ok := g.Registry.Lookup(resource, operation)
			if !ok {
				// An undeclared operation is public by definition, but worth
				// a warning: bootstrap likely forgot to register it.
				if g.Logger != nil {
					g.Logger.Warn("no access descriptor declared",
						slog.String("resource", resource),
						slog.String("operation", operation))
				}
				next.ServeHTTP(w, r)
				return
			}

			p := PrincipalFromContext(r.Context())
			params := RequestParams(r)

			decision := g.Engine.Decide(p, d, params)
			if g.OnDecision != nil {
				g.OnDecision(resource, operation, decision.Allowed)
			}
			if !decision.Allowed {
				status := http.StatusForbidden
				if p == nil || p.RoleName() == "" {
					status = http.StatusUnauthorized
				}
				shared.RespondError(w, status, decision.Message)
				return
			}

			box := &outcomeBox{}
			ctx := context.WithValue(r.Context(), outcomeContextKey{}, box)
			next.ServeHTTP(w, r.WithContext(ctx))

			// The response is already written; recording is a side channel
			// and must survive request cancellation.
			if g.Audit != nil && d.Audit != nil && box.set {
				g.Audit.Record(context.WithoutCancel(ctx), d, p, params, box.value)
			}
		})
	}
}
