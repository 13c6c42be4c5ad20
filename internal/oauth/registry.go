package oauth

import "sort"

// Registry maps provider names to their exchangers.
type Registry struct {
	exchangers map[string]Exchanger
}

// NewRegistry builds a registry from the given exchangers, keyed by Name.
func NewRegistry(exchangers ...Exchanger) *Registry {
	byName := make(map[string]Exchanger, len(exchangers))
	for _, e := range exchangers {
		byName[e.Name()] = e
	}
	return &Registry{exchangers: byName}
}

// Get returns the exchanger for a provider name.
func (r *Registry) Get(name string) (Exchanger, bool) {
	e, ok := r.exchangers[name]
	return e, ok
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.exchangers))
	for name := range r.exchangers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
