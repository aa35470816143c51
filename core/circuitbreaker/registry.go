package circuitbreaker

import "sync"

// Registry is a process-wide collection of breakers keyed by upstream
// authority (scheme://host[:port]). The first access for a given key
// lazily constructs a breaker using the registry's configured defaults.
type Registry struct {
	cfg Config

	mu       sync.Mutex
	breakers map[string]*Breaker
}

// NewRegistry creates a Registry whose lazily-created breakers use cfg.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:      cfg,
		breakers: make(map[string]*Breaker),
	}
}

// Get returns the breaker for authority, creating it on first access.
func (r *Registry) Get(authority string) *Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.breakers[authority]
	if !ok {
		b = New(r.cfg)
		r.breakers[authority] = b
	}
	return b
}

// Breakers returns a snapshot of all known authority -> breaker pairs,
// for metrics/diagnostics.
func (r *Registry) Breakers() map[string]*Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]*Breaker, len(r.breakers))
	for k, v := range r.breakers {
		out[k] = v
	}
	return out
}
