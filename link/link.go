// Package link implements the post-resolution cross-linker and trimmer
// (eclipse.platform.runtime §4.7): attaching enabled extensions to their
// extension points, and optionally removing every disabled descriptor from
// the registry.
package link

import (
	"fmt"
	"strings"

	"github.com/mbarbero/eclipse.platform.runtime/diag"
	"github.com/mbarbero/eclipse.platform.runtime/registry"
)

// CrossLink walks every enabled plugin's declared extensions, parses the
// "pluginId.extPointId" target by splitting at the last '.', locates the
// target plugin (which must be enabled) and the extension point by id on
// it, and appends the extension to that extension point's declared list.
func CrossLink(reg *registry.Registry, status *diag.Status) {
	for _, plugin := range reg.All() {
		if !plugin.Enabled() {
			continue
		}
		for _, ext := range plugin.Extensions {
			linkExtension(reg, plugin, ext, status)
		}
	}
}

func linkExtension(reg *registry.Registry, host *registry.Descriptor, ext *registry.Extension, status *diag.Status) {
	idx := strings.LastIndex(ext.Target, ".")
	if idx < 0 {
		status.Add(diag.Diagnostic{
			Kind:          diag.KindExtPointUnknown,
			Severity:      diag.Warning,
			Message:       fmt.Sprintf("malformed extension point target %q", ext.Target),
			PluginID:      host.PluginID,
			PluginVersion: host.Version.String(),
		})
		return
	}
	targetPluginID, extPointID := ext.Target[:idx], ext.Target[idx+1:]

	var target *registry.Descriptor
	var anyVersion bool
	for _, d := range reg.All() {
		if d.PluginID != targetPluginID {
			continue
		}
		anyVersion = true
		if d.Enabled() {
			target = d
			break
		}
	}
	if target == nil {
		kind := diag.KindExtPointUnknown
		msg := fmt.Sprintf("extension point target plugin %q not found", targetPluginID)
		if anyVersion {
			kind = diag.KindExtPointDisabled
			msg = fmt.Sprintf("extension point target plugin %q is disabled", targetPluginID)
		}
		status.Add(diag.Diagnostic{
			Kind:          kind,
			Severity:      diag.Warning,
			Message:       msg,
			PluginID:      host.PluginID,
			PluginVersion: host.Version.String(),
		})
		return
	}

	var ep *registry.ExtensionPoint
	for _, candidate := range target.ExtPoints {
		if candidate.ID == extPointID {
			ep = candidate
			break
		}
	}
	if ep == nil {
		status.Add(diag.Diagnostic{
			Kind:          diag.KindExtPointUnknown,
			Severity:      diag.Warning,
			Message:       fmt.Sprintf("unknown extension point %q on plugin %q", extPointID, targetPluginID),
			PluginID:      host.PluginID,
			PluginVersion: host.Version.String(),
		})
		return
	}

	ext.ResolvedTarget = ep
	ep.DeclaredExtensions = append(ep.DeclaredExtensions, ext)
}

// Trim removes every disabled descriptor from the registry.
func Trim(reg *registry.Registry) {
	reg.RemoveDisabled()
}
