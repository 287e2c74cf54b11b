package validator

import (
	"maps"
	"slices"
	"sync"
)

// TagSet is a set of tag names.
type TagSet map[string]struct{}

// NewTagSet creates a set holding tags.
func NewTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, tag := range tags {
		s[tag] = struct{}{}
	}
	return s
}

// Add inserts tags into the set.
func (s TagSet) Add(tags ...string) {
	for _, tag := range tags {
		s[tag] = struct{}{}
	}
}

// Has returns true if tag is in the set. A nil set is empty.
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Sorted returns the members in lexical order.
func (s TagSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// ElSpecs is the schema entry for one tag name.
type ElSpecs struct {
	// Allowed lists the tags permitted as direct children.
	Allowed TagSet

	// Required lists the tags that must appear among direct children.
	Required TagSet

	// DefaultValue is the fallback leaf text for the tag, if any.
	DefaultValue string
}

// Equal reports whether two entries hold the same sets and default.
func (e ElSpecs) Equal(other ElSpecs) bool {
	return maps.Equal(nonNil(e.Allowed), nonNil(other.Allowed)) &&
		maps.Equal(nonNil(e.Required), nonNil(other.Required)) &&
		e.DefaultValue == other.DefaultValue
}

func nonNil(s TagSet) TagSet {
	if s == nil {
		return TagSet{}
	}
	return s
}

// Specs is the schema context threaded through validation and merging.
type Specs struct {
	// Elements maps a tag name to its schema entry.
	Elements map[string]ElSpecs

	// NonMergable lists the tags whose repetition is legitimate and which are
	// therefore never merged.
	NonMergable TagSet
}

// NewSpecs creates an empty schema.
func NewSpecs() *Specs {
	return &Specs{
		Elements:    make(map[string]ElSpecs),
		NonMergable: make(TagSet),
	}
}

// Lookup returns the entry for tag. Unknown tags get an empty entry, so any
// structural child violates it and leaf tags pass.
func (s *Specs) Lookup(tag string) (ElSpecs, bool) {
	if s == nil {
		return ElSpecs{}, false
	}
	e, ok := s.Elements[tag]
	return e, ok
}

// IsMergable returns true if duplicates of tag may be merged.
func (s *Specs) IsMergable(tag string) bool {
	return s == nil || !s.NonMergable.Has(tag)
}

// Extend overwrites or adds entries.
func (s *Specs) Extend(elements map[string]ElSpecs) {
	maps.Copy(s.Elements, elements)
}

// Equal reports whether two schemas are identical.
func (s *Specs) Equal(other *Specs) bool {
	if s == nil || other == nil {
		return s == other
	}
	return maps.EqualFunc(s.Elements, other.Elements, ElSpecs.Equal) &&
		maps.Equal(nonNil(s.NonMergable), nonNil(other.NonMergable))
}

// Clone returns a deep copy.
func (s *Specs) Clone() *Specs {
	c := NewSpecs()
	for tag, e := range s.Elements {
		c.Elements[tag] = ElSpecs{
			Allowed:      maps.Clone(e.Allowed),
			Required:     maps.Clone(e.Required),
			DefaultValue: e.DefaultValue,
		}
	}
	maps.Copy(c.NonMergable, s.NonMergable)
	return c
}

// Registry holds the current schema for a process or a test session.
// Mutations must not race with validation sessions that use Current.
type Registry struct {
	mu    sync.RWMutex
	specs *Specs
}

// NewRegistry creates a registry holding an empty schema.
func NewRegistry() *Registry {
	return &Registry{specs: NewSpecs()}
}

// Current returns the installed schema.
func (r *Registry) Current() *Specs {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.specs
}

// Set installs specs, replacing the current schema.
func (r *Registry) Set(specs *Specs) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs = specs
}

// Extend merges element entries and exemptions into the current schema.
func (r *Registry) Extend(elements map[string]ElSpecs, nonMergable TagSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := r.specs.Clone()
	next.Extend(elements)
	next.NonMergable.Add(nonMergable.Sorted()...)
	r.specs = next
}

// Clear replaces the schema with an empty one and returns the previous schema.
func (r *Registry) Clear() *Specs {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.specs
	r.specs = NewSpecs()
	return prev
}
