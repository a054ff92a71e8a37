// Package linker implements fragment linkage and merging
// (eclipse.platform.runtime §4.3): attaching each fragment to its target
// plugin version, then folding the winning same-id fragment's contents into
// that plugin.
package linker

import (
	"fmt"

	"github.com/mbarbero/eclipse.platform.runtime/diag"
	"github.com/mbarbero/eclipse.platform.runtime/registry"
	"github.com/mbarbero/eclipse.platform.runtime/validate"
)

// Link runs both phases against every fragment registered with reg,
// appending diagnostics to status.
//
// Phase 1 (linkage) deduplicates fragment ids using a first-seen set before
// attachment — a quirk inherited, not fixed, from the source algorithm (see
// DESIGN.md): a later fragment sharing an id already seen during linkage is
// silently skipped for attachment purposes, even if it targets a different
// plugin. Phase 2 (merge) does not apply this dedup; it re-examines every
// fragment actually attached to a given plugin.
func Link(reg *registry.Registry, status *diag.Status) {
	linkage(reg, status)
	merge(reg, status)
}

func linkage(reg *registry.Registry, status *diag.Status) {
	seen := make(map[string]bool)

	for _, f := range reg.Fragments() {
		if ok, diags := validate.Fragment(f); !ok {
			for _, d := range diags {
				status.Add(d)
			}
			continue
		}

		if seen[f.ID] {
			continue
		}
		seen[f.ID] = true

		target, found := reg.Lookup(f.PluginID, f.PluginVersion.String())
		if !found {
			status.Add(diag.Diagnostic{
				Kind:          diag.KindMissingFragmentPD,
				Severity:      diag.Warning,
				Message:       fmt.Sprintf("fragment %s targets missing plugin %s_%s", f.ID, f.PluginID, f.PluginVersion),
				PluginID:      f.ID,
				PluginVersion: f.Version.String(),
			})
			continue
		}

		f.Attached = target
		target.FragmentList = append(target.FragmentList, f)
	}
}

// merge groups, per plugin, the fragments attached to it by fragment id, and
// for each group retains only the fragment whose pluginVersion agrees with
// the plugin on major and minor and whose own version is greatest. That
// fragment's extensions, extension points, libraries, and prerequisites are
// spliced into the plugin.
func merge(reg *registry.Registry, status *diag.Status) {
	for _, plugin := range reg.All() {
		if len(plugin.FragmentList) == 0 {
			continue
		}

		groups := make(map[string][]*registry.Fragment)
		var order []string
		for _, f := range plugin.FragmentList {
			if _, exists := groups[f.ID]; !exists {
				order = append(order, f.ID)
			}
			groups[f.ID] = append(groups[f.ID], f)
		}

		for _, id := range order {
			candidates := groups[id]
			var winner *registry.Fragment
			for _, f := range candidates {
				if !f.PluginVersion.SameMajorMinor(plugin.Version) {
					continue
				}
				if winner == nil || f.Version.GreaterThan(winner.Version) {
					winner = f
				}
			}
			if winner == nil {
				continue
			}
			spliceInto(plugin, winner)
		}
	}
}

func spliceInto(plugin *registry.Descriptor, f *registry.Fragment) {
	for _, e := range f.Extensions {
		e.Host = plugin
		plugin.Extensions = append(plugin.Extensions, e)
	}
	for _, ep := range f.ExtPoints {
		ep.Host = plugin
		plugin.ExtPoints = append(plugin.ExtPoints, ep)
	}
	plugin.LibraryList = append(plugin.LibraryList, f.LibraryList...)
	for _, p := range f.PrereqList {
		p.Parent = plugin
		plugin.PrereqList = append(plugin.PrereqList, p)
	}
}
