package access

// Options tunes how a descriptor's decision is made and reported.
type Options struct {
	// Message overrides the default deny message.
	Message string
	// EnableLogging emits a trace for every decision on this operation.
	EnableLogging bool
	// AllowSelfAccess grants access when the caller acts on their own
	// record, identified by ParamName (or a custom OwnerResolver).
	AllowSelfAccess bool
	// ParamName is the request parameter compared against the principal ID.
	ParamName string
}

// OwnerResolver reports whether the principal owns the record addressed by
// the request. SelfParam is the default implementation.
type OwnerResolver func(p *Principal, params ParamSource) bool

// SelfParam builds the single-field ownership check: the named request
// parameter must equal the principal's ID, string equality.
func SelfParam(name string) OwnerResolver {
	return func(p *Principal, params ParamSource) bool {
		if p == nil || p.ID == "" {
			return false
		}
		v, ok := params.Param(name)
		return ok && v == p.ID
	}
}

// RecordIDFunc derives a stable record identifier from a handler outcome.
// An empty result means the outcome carries no usable identifier.
type RecordIDFunc func(outcome any) string

// DetailsFunc derives the audit details payload from the outcome and the
// request parameters.
type DetailsFunc func(outcome any, params ParamSource) map[string]any

// AuditDescriptor declares how a permitted mutation is recorded.
type AuditDescriptor struct {
	// Resource is the logical entity name; defaults to the descriptor's
	// resource when empty.
	Resource string
	// Action is the audit action name (CREATE, UPDATE, APPROVE, ...).
	Action string
	// RecordID extracts the target record identifier. Required: descriptors
	// without one are rejected at registration.
	RecordID RecordIDFunc
	// Details extracts the change description. Optional; defaults to an
	// empty map.
	Details DetailsFunc
}

// Descriptor is the immutable policy and audit metadata attached to one
// operation at bootstrap.
type Descriptor struct {
	Resource  string
	Operation string
	// RequiredRoles gates the operation. Empty means public.
	RequiredRoles []string
	Options       Options
	Audit         *AuditDescriptor
	// Owner overrides the default single-parameter ownership check.
	Owner OwnerResolver

	roleSet map[string]struct{}
}

// RequiresRole reports case-sensitive membership in the required role set.
func (d Descriptor) RequiresRole(name string) bool {
	if d.roleSet != nil {
		_, ok := d.roleSet[name]
		return ok
	}
	for _, r := range d.RequiredRoles {
		if r == name {
			return true
		}
	}
	return false
}

// Public reports whether the operation carries no role requirement.
func (d Descriptor) Public() bool {
	return len(d.RequiredRoles) == 0
}

// Option mutates a descriptor during declaration.
type Option func(*Descriptor)

// RequireRoles declares the role names allowed to execute the operation.
func RequireRoles(roles ...string) Option {
	return func(d *Descriptor) {
		d.RequiredRoles = append(d.RequiredRoles, roles...)
	}
}

// AccessOptions attaches decision options.
func AccessOptions(o Options) Option {
	return func(d *Descriptor) {
		d.Options = o
	}
}

// AuditAs attaches audit metadata.
func AuditAs(a AuditDescriptor) Option {
	return func(d *Descriptor) {
		d.Audit = &a
	}
}

// OwnedBy attaches a custom ownership resolver.
func OwnedBy(resolver OwnerResolver) Option {
	return func(d *Descriptor) {
		d.Owner = resolver
	}
}
