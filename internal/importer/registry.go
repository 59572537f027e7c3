package importer

import "sort"

// Registry holds bank format descriptors in registration order. Detection
// walks the slice front to back, so more specific formats register first.
type Registry struct {
	formats []*FormatDescriptor
	byTag   map[string]*FormatDescriptor
}

// NewRegistry creates an empty format registry.
func NewRegistry() *Registry {
	return &Registry{byTag: make(map[string]*FormatDescriptor)}
}

// Register adds a descriptor. Panics on duplicate tag; registration happens
// at startup and a duplicate is a programming error.
func (r *Registry) Register(d *FormatDescriptor) {
	if _, ok := r.byTag[d.Tag]; ok {
		panic("duplicate bank format tag: " + d.Tag)
	}
	r.byTag[d.Tag] = d
	r.formats = append(r.formats, d)
}

// Get returns the descriptor for tag, or nil.
func (r *Registry) Get(tag string) *FormatDescriptor {
	return r.byTag[tag]
}

// Formats returns the registered descriptors sorted by label for display.
// The returned slice is a copy; detection order is unaffected.
func (r *Registry) Formats() []*FormatDescriptor {
	out := make([]*FormatDescriptor, len(r.formats))
	copy(out, r.formats)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Label < out[j].Label
	})
	return out
}
