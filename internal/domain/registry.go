package domain

import "strings"

// RegistryEntry describes a known administrator identity.
type RegistryEntry struct {
	Identity      string
	Role          Role
	LocationScope LocationScope
	DisplayName   string
	Organization  string
}

// Registry is a read-only lookup of administrator identities.
type Registry interface {
	Lookup(identity string) (RegistryEntry, bool)
}

// NormalizeIdentity returns the canonical form used for identity comparison.
func NormalizeIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

// StaticRegistry is an immutable Registry built once at start-up.
type StaticRegistry struct {
	entries map[string]RegistryEntry
	order   []string
}

// NewStaticRegistry creates a registry from entries.
// Entries with an empty identity are skipped; the first entry wins on duplicates.
func NewStaticRegistry(entries []RegistryEntry) *StaticRegistry {
	reg := &StaticRegistry{
		entries: make(map[string]RegistryEntry, len(entries)),
		order:   make([]string, 0, len(entries)),
	}

	for _, e := range entries {
		key := NormalizeIdentity(e.Identity)
		if key == "" {
			continue
		}
		if _, exists := reg.entries[key]; exists {
			continue
		}
		e.Identity = key
		reg.entries[key] = e
		reg.order = append(reg.order, key)
	}

	return reg
}

// Lookup finds an entry by identity, case-insensitively.
func (r *StaticRegistry) Lookup(identity string) (RegistryEntry, bool) {
	if r == nil {
		return RegistryEntry{}, false
	}
	e, ok := r.entries[NormalizeIdentity(identity)]
	return e, ok
}

// Entries returns a copy of all entries in registration order.
func (r *StaticRegistry) Entries() []RegistryEntry {
	if r == nil {
		return nil
	}
	out := make([]RegistryEntry, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.entries[key])
	}
	return out
}

// Len returns the number of registered identities.
func (r *StaticRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}
