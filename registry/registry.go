// Package registry holds the plugin registry data model the resolver
// operates on: descriptors, prerequisites, fragments, extensions, extension
// points, and libraries, arranged as an arena keyed by (id, version) per the
// Design Notes' "no owning back-references" guidance — extensions and
// extension points hold forward handles to the descriptor that declared them
// and, after cross-linking, to the extension point they target.
package registry

import (
	"fmt"

	"github.com/mbarbero/eclipse.platform.runtime/version"
)

// Key identifies a descriptor by its unique (id, version) pair.
type Key struct {
	ID      string
	Version string
}

func (k Key) String() string {
	return fmt.Sprintf("%s_%s", k.ID, k.Version)
}

// Plugin is the capability set the resolver actually needs from a
// descriptor. Separating it from *Descriptor keeps index/solve/link
// decoupled from the concrete struct, per the Design Notes' instruction that
// the resolver "never inspects concrete type identity".
type Plugin interface {
	ID() string
	Ver() version.Version
	Requires() []*Prerequisite
	DeclaredExtensions() []*Extension
	DeclaredExtensionPoints() []*ExtensionPoint
	Libraries() []*Library
	Fragments() []*Fragment
	Enabled() bool
	SetEnabled(bool)
	// AllowsConcurrency reports whether a second, concurrently-enabled
	// version of this plugin id could coexist with this one: true iff it
	// declares zero extensions and zero extension points.
	AllowsConcurrency() bool
}

// Descriptor is a single (id, version) plugin record.
type Descriptor struct {
	Name     string
	PluginID string
	Version  version.Version

	PrereqList   []*Prerequisite
	Extensions   []*Extension
	ExtPoints    []*ExtensionPoint
	LibraryList  []*Library
	FragmentList []*Fragment

	enabled bool
}

var _ Plugin = (*Descriptor)(nil)

func (d *Descriptor) ID() string                                 { return d.PluginID }
func (d *Descriptor) Ver() version.Version                       { return d.Version }
func (d *Descriptor) Requires() []*Prerequisite                  { return d.PrereqList }
func (d *Descriptor) DeclaredExtensions() []*Extension           { return d.Extensions }
func (d *Descriptor) DeclaredExtensionPoints() []*ExtensionPoint { return d.ExtPoints }
func (d *Descriptor) Libraries() []*Library                      { return d.LibraryList }
func (d *Descriptor) Fragments() []*Fragment                     { return d.FragmentList }
func (d *Descriptor) Enabled() bool                              { return d.enabled }
func (d *Descriptor) SetEnabled(v bool)                          { d.enabled = v }

func (d *Descriptor) AllowsConcurrency() bool {
	return len(d.Extensions) == 0 && len(d.ExtPoints) == 0
}

// Key returns this descriptor's unique (id, version) identity.
func (d *Descriptor) Key() Key {
	return Key{ID: d.PluginID, Version: d.Version.String()}
}

// MatchType enumerates how a Prerequisite constrains the target plugin's
// version, derived from whether a version and the match flag were supplied.
type MatchType int

const (
	// MatchLatest applies when no version was declared on the prerequisite.
	MatchLatest MatchType = iota
	// MatchExact requires equivalentTo.
	MatchExact
	// MatchCompatible requires compatibleWith.
	MatchCompatible
)

func (m MatchType) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchCompatible:
		return "compatible"
	default:
		return "latest"
	}
}

// Prerequisite is a relation held by a parent descriptor naming a target
// plugin id, with an optional required version and match flag.
type Prerequisite struct {
	Parent *Descriptor

	PluginID string
	Ver      *version.Version // nil => no required version => MatchLatest
	Match    bool             // true => exact, false => compatible (only meaningful when Ver != nil)

	// ResolvedVersion is back-annotated by the constraint engine once a
	// satisfier has been chosen.
	ResolvedVersion string
}

// MatchType derives the match discipline this prerequisite enforces.
func (p *Prerequisite) MatchType() MatchType {
	if p.Ver == nil {
		return MatchLatest
	}
	if p.Match {
		return MatchExact
	}
	return MatchCompatible
}

// GetPlugin returns the target plugin id this prerequisite names, used by
// the solver's orphan bookkeeping.
func (p *Prerequisite) GetPlugin() string {
	return p.PluginID
}

// ExtensionPoint is a producer/consumer target for extensions, declared by a
// host plugin.
type ExtensionPoint struct {
	Host *Descriptor

	ID   string
	Name string

	// DeclaredExtensions is populated post cross-link (§4.7): every
	// Extension anywhere in the registry that targets this extension point.
	DeclaredExtensions []*Extension
}

// Extension is a contribution declared by a host plugin, targeting an
// extension point elsewhere in the registry by "pluginId.extPointId".
type Extension struct {
	Host *Descriptor

	Target string // "pluginId.extPointId"

	// ResolvedTarget is populated post cross-link; nil until §4.7 runs
	// successfully for this extension.
	ResolvedTarget *ExtensionPoint
}

// Library is a declared library contribution; only Name is load-bearing for
// validation (§4.2), the rest is opaque to the resolver.
type Library struct {
	Host *Descriptor
	Name string
}

// Fragment carries auxiliary contributions bound to a specific plugin
// version, spliced into that plugin by the linker/merger (§4.3).
type Fragment struct {
	Name          string
	ID            string
	Version       version.Version
	PluginID      string
	PluginVersion version.Version

	Extensions   []*Extension
	ExtPoints    []*ExtensionPoint
	LibraryList  []*Library
	PrereqList   []*Prerequisite

	// Attached is set once linkage (§4.3 phase 1) finds this fragment's
	// target plugin.
	Attached *Descriptor
}

// Registry is the in-memory store the resolver mutates in place. It is not
// safe for concurrent use: §5 specifies the resolver holds a mutable borrow
// for the duration of one Resolve call.
type Registry struct {
	descriptors map[Key]*Descriptor
	order       []Key // insertion order, for deterministic iteration pre-index

	fragments []*Fragment

	// Resolved mirrors the "resolved" flag on the platform registry:
	// Resolve is idempotent and returns immediately once this is true.
	Resolved bool
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{descriptors: make(map[Key]*Descriptor)}
}

// AddDescriptor inserts d into the registry. If a descriptor with the same
// (id, version) key is already present, d is ignored (first wins).
func (r *Registry) AddDescriptor(d *Descriptor) {
	k := d.Key()
	if _, exists := r.descriptors[k]; exists {
		return
	}
	r.descriptors[k] = d
	r.order = append(r.order, k)
}

// AddFragment registers a fragment with the registry, prior to linkage.
func (r *Registry) AddFragment(f *Fragment) {
	r.fragments = append(r.fragments, f)
}

// Fragments returns every fragment registered with the registry, in
// insertion order.
func (r *Registry) Fragments() []*Fragment {
	return r.fragments
}

// Lookup finds a descriptor by exact (id, version) key.
func (r *Registry) Lookup(id, ver string) (*Descriptor, bool) {
	d, ok := r.descriptors[Key{ID: id, Version: ver}]
	return d, ok
}

// All returns every descriptor currently in the registry, in insertion
// order.
func (r *Registry) All() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.order))
	for _, k := range r.order {
		if d, ok := r.descriptors[k]; ok {
			out = append(out, d)
		}
	}
	return out
}

// RemoveDisabled deletes every descriptor whose Enabled() is false, the
// trimming step of §4.7.
func (r *Registry) RemoveDisabled() {
	kept := r.order[:0]
	for _, k := range r.order {
		d := r.descriptors[k]
		if d.Enabled() {
			kept = append(kept, k)
			continue
		}
		delete(r.descriptors, k)
	}
	r.order = kept
}
