package access

import (
	"fmt"
	"log/slog"
	"strings"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	// Message carries the human-readable deny reason. Empty on allow.
	Message string
}

// Allow is the positive decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny is the negative decision with a reason.
func Deny(message string) Decision {
	return Decision{Allowed: false, Message: message}
}

// Engine computes allow/deny from a principal, a descriptor and the request
// parameters. Decide is a pure function of its inputs; the logger is a side
// effect only and never influences the decision.
type Engine struct {
	logger *slog.Logger
}

// NewEngine constructs an Engine.
func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{logger: logger}
}

// Decide evaluates the descriptor against the principal, in fixed
// precedence: public operations always pass, a missing principal or role
// always fails, then role membership OR ownership decides.
func (e *Engine) Decide(p *Principal, d Descriptor, params ParamSource) Decision {
	if d.Public() {
		e.trace(d, p, "no role restriction declared")
		return Allow()
	}

	if p == nil || p.RoleName() == "" {
		e.trace(d, p, "no authenticated principal")
		return Deny(denyMessage(d, true))
	}

	roleMatch := d.RequiresRole(p.Role.Name)

	selfMatch := false
	if d.Options.AllowSelfAccess {
		resolver := d.Owner
		if resolver == nil {
			resolver = SelfParam(d.Options.ParamName)
		}
		selfMatch = resolver(p, params)
	}

	if !roleMatch && !selfMatch {
		e.trace(d, p, "role and ownership checks failed")
		return Deny(denyMessage(d, false))
	}

	e.trace(d, p, "allowed")
	return Allow()
}

func denyMessage(d Descriptor, unauthenticated bool) string {
	if d.Options.Message != "" {
		return d.Options.Message
	}
	if unauthenticated {
		return "authentication required"
	}
	msg := fmt.Sprintf("requires one of roles [%s]", strings.Join(d.RequiredRoles, ", "))
	if d.Options.AllowSelfAccess {
		msg += ", or ownership of the record"
	}
	return msg
}

func (e *Engine) trace(d Descriptor, p *Principal, note string) {
	if e == nil || e.logger == nil || !d.Options.EnableLogging {
		return
	}
	e.logger.Debug("access decision",
		slog.String("resource", d.Resource),
		slog.String("operation", d.Operation),
		slog.String("principal", p.RoleName()),
		slog.String("note", note),
	)
}
