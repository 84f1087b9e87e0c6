package backend

import "sort"

// Registry maps logical service names to backend base URLs. It is built once
// at startup from configuration and never mutated afterwards.
type Registry struct {
	addrs map[string]string
}

func NewRegistry(addrs map[string]string) Registry {
	m := make(map[string]string, len(addrs))
	for name, addr := range addrs {
		m[name] = addr
	}
	return Registry{addrs: m}
}

// Resolve returns the base URL for a logical service name. Unknown names are
// a client-input condition, reported via the second return value.
func (r Registry) Resolve(name string) (string, bool) {
	addr, ok := r.addrs[name]
	return addr, ok
}

// Names returns the registered service names in sorted order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r.addrs))
	for name := range r.addrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
