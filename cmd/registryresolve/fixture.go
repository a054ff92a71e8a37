package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mbarbero/eclipse.platform.runtime/registry"
	"github.com/mbarbero/eclipse.platform.runtime/version"
)

// rawRegistry is the on-disk fixture format: a human-editable YAML
// rendering of a plugin registry. Parsing this format is explicitly out of
// scope for the resolver itself (eclipse.platform.runtime §1); it exists
// only so this CLI has something to exercise the library with.
type rawRegistry struct {
	Plugins   []rawPlugin   `yaml:"plugins"`
	Fragments []rawFragment `yaml:"fragments"`
}

type rawPlugin struct {
	ID              string              `yaml:"id"`
	Name            string              `yaml:"name"`
	Version         string              `yaml:"version"`
	Requires        []rawPrereq         `yaml:"requires"`
	Extensions      []rawExtension      `yaml:"extensions"`
	ExtensionPoints []rawExtensionPoint `yaml:"extensionPoints"`
	Libraries       []string            `yaml:"libraries"`
}

type rawPrereq struct {
	Plugin  string `yaml:"plugin"`
	Version string `yaml:"version"`
	Match   string `yaml:"match"` // "exact", else compatible; ignored (latest) when Version is empty
}

type rawExtension struct {
	Target string `yaml:"target"` // "pluginId.extPointId"
}

type rawExtensionPoint struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type rawFragment struct {
	ID            string      `yaml:"id"`
	Name          string      `yaml:"name"`
	Version       string      `yaml:"version"`
	Plugin        string      `yaml:"plugin"`
	PluginVersion string      `yaml:"pluginVersion"`
	Requires      []rawPrereq `yaml:"requires"`
	Extensions    []rawExtension      `yaml:"extensions"`
	ExtensionPoints []rawExtensionPoint `yaml:"extensionPoints"`
	Libraries     []string    `yaml:"libraries"`
}

func loadRegistry(path string) (*registry.Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening registry fixture %q", path)
	}
	defer f.Close()

	var raw rawRegistry
	if err := yaml.NewDecoder(f).Decode(&raw); err != nil {
		return nil, errors.Wrapf(err, "parsing registry fixture %q", path)
	}

	reg := registry.New()
	for _, rp := range raw.Plugins {
		d := &registry.Descriptor{
			Name:    rp.Name,
			PluginID: rp.ID,
			Version: version.Parse(rp.Version),
		}
		for _, ep := range rp.ExtensionPoints {
			d.ExtPoints = append(d.ExtPoints, &registry.ExtensionPoint{Host: d, ID: ep.ID, Name: ep.Name})
		}
		for _, ext := range rp.Extensions {
			d.Extensions = append(d.Extensions, &registry.Extension{Host: d, Target: ext.Target})
		}
		for _, lib := range rp.Libraries {
			d.LibraryList = append(d.LibraryList, &registry.Library{Host: d, Name: lib})
		}
		for _, pr := range rp.Requires {
			d.PrereqList = append(d.PrereqList, toPrereq(d, pr))
		}
		reg.AddDescriptor(d)
	}

	for _, rf := range raw.Fragments {
		f := &registry.Fragment{
			Name:          rf.Name,
			ID:            rf.ID,
			Version:       version.Parse(rf.Version),
			PluginID:      rf.Plugin,
			PluginVersion: version.Parse(rf.PluginVersion),
		}
		for _, ep := range rf.ExtensionPoints {
			f.ExtPoints = append(f.ExtPoints, &registry.ExtensionPoint{ID: ep.ID, Name: ep.Name})
		}
		for _, ext := range rf.Extensions {
			f.Extensions = append(f.Extensions, &registry.Extension{Target: ext.Target})
		}
		for _, lib := range rf.Libraries {
			f.LibraryList = append(f.LibraryList, &registry.Library{Name: lib})
		}
		for _, pr := range rf.Requires {
			f.PrereqList = append(f.PrereqList, toPrereq(nil, pr))
		}
		reg.AddFragment(f)
	}

	return reg, nil
}

func toPrereq(parent *registry.Descriptor, pr rawPrereq) *registry.Prerequisite {
	p := &registry.Prerequisite{Parent: parent, PluginID: pr.Plugin}
	if pr.Version != "" {
		v := version.Parse(pr.Version)
		p.Ver = &v
		p.Match = pr.Match == "exact"
	}
	return p
}

func describeMatch(p *registry.Prerequisite) string {
	switch p.MatchType() {
	case registry.MatchExact:
		return fmt.Sprintf("=%s", p.Ver)
	case registry.MatchCompatible:
		return fmt.Sprintf("~%s", p.Ver)
	default:
		return "latest"
	}
}
