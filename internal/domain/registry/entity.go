package registry

import (
	"fmt"
	"sort"
	"strings"
)

// SpecID identifier type
type SpecID string

// SpecDescriptor describes one specification document: where it lives,
// what it is called, and which keywords mark code as relevant to it.
type SpecDescriptor struct {
	ID         SpecID   `json:"id"`
	Title      string   `json:"title"`
	SourceURL  string   `json:"source_url"`
	FocusAreas []string `json:"focus_areas"`
	Keywords   []string `json:"keywords"`
}

// Implementation describes one code base under analysis.
type Implementation struct {
	Name     string `json:"name"`
	RepoURL  string `json:"repo_url"`
	Branch   string `json:"branch"`
	Language string `json:"language"`
}

// SourceFile is one mapped file with its language tag.
type SourceFile struct {
	Path     string `json:"path"`
	Language string `json:"language"`
}

// FileMapping lists the files believed to implement a spec in one
// implementation. Order is significant: reports preserve it.
type FileMapping struct {
	ImplName string       `json:"impl_name"`
	SpecID   SpecID       `json:"spec_id"`
	Files    []SourceFile `json:"files"`
}

type mappingKey struct {
	impl string
	spec SpecID
}

// Registry is the immutable lookup from spec IDs and implementation names
// to their metadata. Built once at startup; safe for concurrent reads.
type Registry struct {
	specs    map[SpecID]SpecDescriptor
	impls    map[string]Implementation
	mappings map[mappingKey]FileMapping

	specOrder []SpecID
	implOrder []string
}

// New builds a registry from descriptor tables. Duplicate IDs and mappings
// that reference unknown specs or implementations are rejected.
func New(specs []SpecDescriptor, impls []Implementation, mappings []FileMapping) (*Registry, error) {
	r := &Registry{
		specs:    make(map[SpecID]SpecDescriptor, len(specs)),
		impls:    make(map[string]Implementation, len(impls)),
		mappings: make(map[mappingKey]FileMapping, len(mappings)),
	}

	for _, s := range specs {
		id := SpecID(strings.TrimSpace(string(s.ID)))
		if id == "" {
			return nil, fmt.Errorf("spec descriptor with empty id")
		}
		if _, dup := r.specs[id]; dup {
			return nil, fmt.Errorf("duplicate spec id: %s", id)
		}
		s.ID = id
		r.specs[id] = s
		r.specOrder = append(r.specOrder, id)
	}

	for _, im := range impls {
		name := strings.TrimSpace(im.Name)
		if name == "" {
			return nil, fmt.Errorf("implementation with empty name")
		}
		if _, dup := r.impls[name]; dup {
			return nil, fmt.Errorf("duplicate implementation: %s", name)
		}
		im.Name = name
		r.impls[name] = im
		r.implOrder = append(r.implOrder, name)
	}

	for _, m := range mappings {
		if _, ok := r.specs[m.SpecID]; !ok {
			return nil, fmt.Errorf("mapping references unknown spec: %s", m.SpecID)
		}
		im, ok := r.impls[m.ImplName]
		if !ok {
			return nil, fmt.Errorf("mapping references unknown implementation: %s", m.ImplName)
		}
		key := mappingKey{impl: m.ImplName, spec: m.SpecID}
		if _, dup := r.mappings[key]; dup {
			return nil, fmt.Errorf("duplicate mapping: %s / %s", m.ImplName, m.SpecID)
		}
		// Files without an explicit language inherit the implementation's.
		files := make([]SourceFile, len(m.Files))
		for i, f := range m.Files {
			if f.Language == "" {
				f.Language = im.Language
			}
			files[i] = f
		}
		m.Files = files
		r.mappings[key] = m
	}

	return r, nil
}

// Describe returns the descriptor for a spec ID.
func (r *Registry) Describe(id SpecID) (SpecDescriptor, error) {
	s, ok := r.specs[id]
	if !ok {
		return SpecDescriptor{}, fmt.Errorf("%w: spec %q", ErrNotFound, id)
	}
	return s, nil
}

// Implementation returns the metadata for a registered implementation.
func (r *Registry) Implementation(name string) (Implementation, error) {
	im, ok := r.impls[name]
	if !ok {
		return Implementation{}, fmt.Errorf("%w: implementation %q", ErrNotFound, name)
	}
	return im, nil
}

// Mapping returns the file mapping for an (implementation, spec) pair.
func (r *Registry) Mapping(implName string, id SpecID) (FileMapping, error) {
	if _, ok := r.impls[implName]; !ok {
		return FileMapping{}, fmt.Errorf("%w: implementation %q", ErrNotFound, implName)
	}
	m, ok := r.mappings[mappingKey{impl: implName, spec: id}]
	if !ok {
		return FileMapping{}, fmt.Errorf("%w: no mapping for %s in %s", ErrNotFound, id, implName)
	}
	return m, nil
}

// ListSpecs returns all registered specs in registration order.
func (r *Registry) ListSpecs() []SpecDescriptor {
	out := make([]SpecDescriptor, 0, len(r.specOrder))
	for _, id := range r.specOrder {
		out = append(out, r.specs[id])
	}
	return out
}

// ListImplementations returns all registered implementations in registration order.
func (r *Registry) ListImplementations() []Implementation {
	out := make([]Implementation, 0, len(r.implOrder))
	for _, name := range r.implOrder {
		out = append(out, r.impls[name])
	}
	return out
}

// ListSpecsFor returns the spec IDs mapped for an implementation, sorted.
func (r *Registry) ListSpecsFor(implName string) []SpecID {
	var out []SpecID
	for key := range r.mappings {
		if key.impl == implName {
			out = append(out, key.spec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
