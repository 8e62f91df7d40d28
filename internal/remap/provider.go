package remap

import "github.com/Zuo-Peng/awremap/internal/mapping"

// Provider resolves symbols from the source namespace of a widener file to
// the target namespace. Every lookup either resolves completely or misses.
type Provider interface {
	Class(name string) (string, bool)
	Field(owner, name, desc string) (mapping.Member, bool)
	Method(owner, name, desc string) (mapping.Member, bool)
	// RemapDescriptor renames every class referenced by desc.
	RemapDescriptor(desc string) string
}
