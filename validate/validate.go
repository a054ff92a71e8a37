// Package validate decides whether a descriptor, fragment, or any of their
// contained elements carries every attribute the resolver requires before it
// can participate in resolution (eclipse.platform.runtime §4.2).
package validate

import (
	"fmt"

	"github.com/mbarbero/eclipse.platform.runtime/diag"
	"github.com/mbarbero/eclipse.platform.runtime/registry"
)

// Descriptor reports whether d has every required attribute: name, id,
// version on d itself; a target id on every prerequisite; an extension-point
// target on every extension; id and name on every extension point; a name on
// every library; and every attached fragment passing Fragment (an invalid
// attached fragment adds a Warning diagnostic and makes d invalid).
func Descriptor(d *registry.Descriptor) (bool, []diag.Diagnostic) {
	var diags []diag.Diagnostic

	if d.Name == "" || d.PluginID == "" || d.Version.Raw() == "" {
		diags = append(diags, diag.Diagnostic{
			Kind:          diag.KindPluginMissingIDName,
			Severity:      diag.MustResolve,
			Message:       "descriptor missing name, id, or version",
			PluginID:      d.PluginID,
			PluginVersion: d.Version.String(),
		})
	}

	for _, p := range d.PrereqList {
		if p.PluginID == "" {
			diags = append(diags, diag.Diagnostic{
				Kind:          diag.KindPluginMissingAttr,
				Severity:      diag.MustResolve,
				Message:       "prerequisite missing target plugin id",
				PluginID:      d.PluginID,
				PluginVersion: d.Version.String(),
			})
		}
	}

	for _, e := range d.Extensions {
		if e.Target == "" {
			diags = append(diags, diag.Diagnostic{
				Kind:          diag.KindPluginMissingAttr,
				Severity:      diag.MustResolve,
				Message:       "extension missing extension-point target",
				PluginID:      d.PluginID,
				PluginVersion: d.Version.String(),
			})
		}
	}

	for _, ep := range d.ExtPoints {
		if ep.ID == "" || ep.Name == "" {
			diags = append(diags, diag.Diagnostic{
				Kind:          diag.KindPluginMissingAttr,
				Severity:      diag.MustResolve,
				Message:       "extension point missing id or name",
				PluginID:      d.PluginID,
				PluginVersion: d.Version.String(),
			})
		}
	}

	for _, lib := range d.LibraryList {
		if lib.Name == "" {
			diags = append(diags, diag.Diagnostic{
				Kind:          diag.KindPluginMissingAttr,
				Severity:      diag.MustResolve,
				Message:       "library missing name",
				PluginID:      d.PluginID,
				PluginVersion: d.Version.String(),
			})
		}
	}

	for _, f := range d.FragmentList {
		if ok, _ := Fragment(f); !ok {
			diags = append(diags, diag.Diagnostic{
				Kind:          diag.KindPluginMissingAttr,
				Severity:      diag.Warning,
				Message:       fmt.Sprintf("attached fragment %s is itself invalid", f.ID),
				PluginID:      d.PluginID,
				PluginVersion: d.Version.String(),
			})
		}
	}

	return len(diags) == 0, diags
}

// Fragment reports whether f has every required attribute: name, id,
// plugin, pluginVersion, version.
func Fragment(f *registry.Fragment) (bool, []diag.Diagnostic) {
	var diags []diag.Diagnostic

	missing := func(cond bool, what string) {
		if cond {
			diags = append(diags, diag.Diagnostic{
				Kind:          diag.KindFragmentMissingID,
				Severity:      diag.MustResolve,
				Message:       fmt.Sprintf("fragment missing %s", what),
				PluginID:      f.ID,
				PluginVersion: f.Version.String(),
			})
		}
	}

	missing(f.Name == "", "name")
	missing(f.ID == "", "id")
	missing(f.PluginID == "", "plugin")
	missing(f.PluginVersion.Raw() == "", "pluginVersion")
	missing(f.Version.Raw() == "", "version")

	return len(diags) == 0, diags
}
