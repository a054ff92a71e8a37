package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mbarbero/eclipse.platform.runtime/registry"
	"github.com/mbarbero/eclipse.platform.runtime/version"
)

func TestDescriptorValidMinimal(t *testing.T) {
	d := &registry.Descriptor{Name: "a", PluginID: "a", Version: version.Parse("1.0.0")}
	ok, diags := Descriptor(d)
	assert.True(t, ok)
	assert.Empty(t, diags)
}

func TestDescriptorMissingName(t *testing.T) {
	d := &registry.Descriptor{PluginID: "a", Version: version.Parse("1.0.0")}
	ok, diags := Descriptor(d)
	assert.False(t, ok)
	assert.NotEmpty(t, diags)
}

func TestDescriptorMissingVersion(t *testing.T) {
	d := &registry.Descriptor{Name: "a", PluginID: "a"}
	ok, _ := Descriptor(d)
	assert.False(t, ok)
}

func TestDescriptorPrerequisiteMissingTarget(t *testing.T) {
	d := &registry.Descriptor{Name: "a", PluginID: "a", Version: version.Parse("1.0.0")}
	d.PrereqList = append(d.PrereqList, &registry.Prerequisite{Parent: d})
	ok, diags := Descriptor(d)
	assert.False(t, ok)
	assert.Len(t, diags, 1)
}

func TestDescriptorExtensionMissingTarget(t *testing.T) {
	d := &registry.Descriptor{Name: "a", PluginID: "a", Version: version.Parse("1.0.0")}
	d.Extensions = append(d.Extensions, &registry.Extension{Host: d})
	ok, _ := Descriptor(d)
	assert.False(t, ok)
}

func TestDescriptorExtensionPointMissingIDOrName(t *testing.T) {
	d := &registry.Descriptor{Name: "a", PluginID: "a", Version: version.Parse("1.0.0")}
	d.ExtPoints = append(d.ExtPoints, &registry.ExtensionPoint{Host: d, ID: "ep"})
	ok, _ := Descriptor(d)
	assert.False(t, ok)
}

func TestFragmentMissingAttributes(t *testing.T) {
	f := &registry.Fragment{}
	ok, diags := Fragment(f)
	assert.False(t, ok)
	assert.Len(t, diags, 5)
}

func TestFragmentValid(t *testing.T) {
	f := &registry.Fragment{
		Name:          "frag",
		ID:            "frag.id",
		PluginID:      "host",
		PluginVersion: version.Parse("1.0.0"),
		Version:       version.Parse("1.0.0"),
	}
	ok, diags := Fragment(f)
	assert.True(t, ok)
	assert.Empty(t, diags)
}
