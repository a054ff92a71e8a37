// Package resolver is the public facade over the plugin registry resolver:
// fragment linkage/merge, validation, indexing, constraint-driven DFS
// resolution, and post-resolution cross-linking/trimming
// (eclipse.platform.runtime §1–§7).
package resolver

import (
	"context"
	"strings"

	"github.com/mbarbero/eclipse.platform.runtime/diag"
	"github.com/mbarbero/eclipse.platform.runtime/index"
	"github.com/mbarbero/eclipse.platform.runtime/link"
	"github.com/mbarbero/eclipse.platform.runtime/linker"
	"github.com/mbarbero/eclipse.platform.runtime/registry"
	"github.com/mbarbero/eclipse.platform.runtime/solve"
	"github.com/mbarbero/eclipse.platform.runtime/validate"
)

// Resolver runs one resolve pass over a registry. It holds only the two
// tuning switches and the debug toggle from §6; it carries no state between
// calls.
type Resolver struct {
	trimPlugins bool
	crossLink   bool
	debug       bool
}

// Option configures a Resolver at construction time.
type Option func(*Resolver)

// WithTrimPlugins controls whether disabled descriptors are removed from
// the registry at the end of a resolve pass. Default: true.
func WithTrimPlugins(v bool) Option {
	return func(r *Resolver) { r.trimPlugins = v }
}

// WithCrossLink controls whether §4.7 cross-linking runs at all. Default:
// true.
func WithCrossLink(v bool) Option {
	return func(r *Resolver) { r.crossLink = v }
}

// WithDebugResolve enables verbose trace logging through diag.Logger (logrus,
// debug level); trace lines are not added to the returned Status.
func WithDebugResolve(v bool) Option {
	return func(r *Resolver) { r.debug = v }
}

// OptionFromProperty reimagines the platform's stringly-typed
// "registry/debug/resolve" property (§6) as a typed Option, for callers
// still configuring via that convention.
func OptionFromProperty(name, value string) Option {
	if strings.EqualFold(name, "registry/debug/resolve") {
		return WithDebugResolve(diag.EnabledFromProperty(value))
	}
	return func(*Resolver) {}
}

// New builds a Resolver with trimPlugins and crossLink both defaulted to
// true, then applies opts.
func New(opts ...Option) *Resolver {
	r := &Resolver{trimPlugins: true, crossLink: true}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve runs the full algorithm against reg, mutating it in place:
// fragment merge, validation, indexing, constraint propagation, cross-link,
// and (if enabled) trim. It is idempotent — if reg.Resolved is already set,
// it returns an empty OK status immediately without touching reg again.
//
// ctx is honored only as a between-invocations cancellation point (§5): it
// is checked once before any work begins, not threaded into the DFS.
func (r *Resolver) Resolve(ctx context.Context, reg *registry.Registry) (*diag.Status, error) {
	if reg.Resolved {
		return diag.NewStatus(), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	status := diag.NewStatus()
	log := diag.NewLogger(status.Correlation, r.debug)

	linker.Link(reg, status)

	for _, d := range reg.All() {
		if ok, diags := validate.Descriptor(d); !ok {
			d.SetEnabled(false)
			for _, di := range diags {
				status.Add(di)
			}
			continue
		}
		d.SetEnabled(true)
	}

	ix := index.New()
	for _, d := range reg.All() {
		ix.Add(d)
	}

	roots := solve.SelectRoots(ix, log)
	solve.Run(ix, roots, status, log)

	if r.crossLink {
		link.CrossLink(reg, status)
	}
	if r.trimPlugins {
		link.Trim(reg)
	}

	reg.Resolved = true
	return status, nil
}
