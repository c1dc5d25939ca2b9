package access

import (
	"fmt"
	"sync"
)

// Registry associates descriptors with operations. It is populated at
// bootstrap, sealed, and read-only at request time. Lookup resolves the
// nearest applicable descriptor: an operation-specific entry overrides the
// resource-level default.
type Registry struct {
	mu       sync.RWMutex
	sealed   bool
	defaults map[string]Descriptor
	ops      map[string]Descriptor
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defaults: make(map[string]Descriptor),
		ops:      make(map[string]Descriptor),
	}
}

// SetDefault declares the resource-level default descriptor.
func (r *Registry) SetDefault(resource string, opts ...Option) error {
	d, err := buildDescriptor(resource, "", opts)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("access: registry sealed, cannot declare default for %q", resource)
	}
	if _, exists := r.defaults[resource]; exists {
		return fmt.Errorf("access: duplicate default descriptor for %q", resource)
	}
	r.defaults[resource] = d
	return nil
}

// Register declares the descriptor for one operation.
func (r *Registry) Register(resource, operation string, opts ...Option) error {
	if operation == "" {
		return fmt.Errorf("access: operation name required for %q", resource)
	}
	d, err := buildDescriptor(resource, operation, opts)
	if err != nil {
		return err
	}
	key := resource + "." + operation
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("access: registry sealed, cannot register %s", key)
	}
	if _, exists := r.ops[key]; exists {
		return fmt.Errorf("access: duplicate descriptor for %s", key)
	}
	r.ops[key] = d
	return nil
}

// MustSetDefault is SetDefault that panics on declaration errors. Intended
// for bootstrap code where a bad descriptor must abort startup.
func (r *Registry) MustSetDefault(resource string, opts ...Option) {
	if err := r.SetDefault(resource, opts...); err != nil {
		panic(err)
	}
}

// MustRegister is Register that panics on declaration errors.
func (r *Registry) MustRegister(resource, operation string, opts ...Option) {
	if err := r.Register(resource, operation, opts...); err != nil {
		panic(err)
	}
}

// Seal freezes the registry. All declaration must happen before serving.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Lookup returns the nearest applicable descriptor for an operation.
func (r *Registry) Lookup(resource, operation string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.ops[resource+"."+operation]; ok {
		return d, true
	}
	if d, ok := r.defaults[resource]; ok {
		d.Operation = operation
		return d, true
	}
	return Descriptor{}, false
}

func buildDescriptor(resource, operation string, opts []Option) (Descriptor, error) {
	if resource == "" {
		return Descriptor{}, fmt.Errorf("access: resource name required")
	}
	d := Descriptor{Resource: resource, Operation: operation}
	for _, opt := range opts {
		opt(&d)
	}
	name := resource
	if operation != "" {
		name = resource + "." + operation
	}
	if d.Options.AllowSelfAccess && d.Options.ParamName == "" && d.Owner == nil {
		return Descriptor{}, fmt.Errorf("access: %s allows self-access but names no parameter", name)
	}
	if d.Audit != nil {
		if d.Audit.Action == "" {
			return Descriptor{}, fmt.Errorf("access: %s audit descriptor missing action", name)
		}
		// Missing extractors fail here, at startup, never at audit time.
		if d.Audit.RecordID == nil {
			return Descriptor{}, fmt.Errorf("access: %s audit descriptor missing record id extractor", name)
		}
		if d.Audit.Resource == "" {
			d.Audit.Resource = resource
		}
	}
	if len(d.RequiredRoles) > 0 {
		set := make(map[string]struct{}, len(d.RequiredRoles))
		for _, role := range d.RequiredRoles {
			if role == "" {
				return Descriptor{}, fmt.Errorf("access: %s declares an empty role name", name)
			}
			set[role] = struct{}{}
		}
		d.roleSet = set
	}
	return d, nil
}
