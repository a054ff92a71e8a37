package index

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mbarbero/eclipse.platform.runtime/registry"
	"github.com/mbarbero/eclipse.platform.runtime/version"
)

func nonConcurrentPlugin(id, ver string) *registry.Descriptor {
	d := plugin(id, ver)
	d.Extensions = append(d.Extensions, &registry.Extension{Host: d, Target: "x.y"})
	return d
}

func TestGetMatchingDescriptorsLatestNoNarrowing(t *testing.T) {
	ix := New()
	ix.Add(plugin("a", "1.0.0"))
	ix.Add(plugin("a", "2.0.0"))

	entry, _ := ix.Get("a")
	matches := entry.GetMatchingDescriptors(entry.Groups()[0])
	assert.Len(t, matches, 2)
	assert.Equal(t, "2.0.0", matches[0].Ver().String())
}

func TestGetMatchingDescriptorsExactNarrows(t *testing.T) {
	ix := New()
	ix.Add(plugin("a", "1.0.0"))
	ix.Add(plugin("a", "2.0.0"))

	entry, _ := ix.Get("a")
	v := version.Parse("1.0.0")
	c := NewConstraint(plugin("p", "1.0.0"), &registry.Prerequisite{PluginID: "a", Ver: &v, Match: true})
	group := entry.AddConstraint(c)
	assert.NotNil(t, group)

	matches := entry.GetMatchingDescriptors(group)
	assert.Len(t, matches, 1)
	assert.Equal(t, "1.0.0", matches[0].Ver().String())
}

func TestAddConstraintSingleGroupRejectsUnsatisfiable(t *testing.T) {
	ix := New()
	d := nonConcurrentPlugin("a", "1.0.0")
	ix.Add(d)

	entry, _ := ix.Get("a")
	v := version.Parse("2.0.0")
	c := NewConstraint(plugin("p", "1.0.0"), &registry.Prerequisite{PluginID: "a", Ver: &v, Match: true})
	group := entry.AddConstraint(c)
	assert.Nil(t, group, "an unsatisfiable exact constraint against the sole group must fail")
}

func TestAddConstraintOpensNewGroupWhenConcurrencyAllowed(t *testing.T) {
	ix := New()
	ix.Add(plugin("a", "1.0.0"))
	ix.Add(plugin("a", "2.0.0"))

	entry, _ := ix.Get("a")
	base := entry.Groups()[0]

	v1 := version.Parse("1.0.0")
	c1 := NewConstraint(plugin("p1", "1.0.0"), &registry.Prerequisite{PluginID: "a", Ver: &v1, Match: true})
	g1 := entry.AddConstraint(c1)
	assert.Same(t, base, g1, "first constraint always lands in the base group")

	v2 := version.Parse("2.0.0")
	c2 := NewConstraint(plugin("p2", "1.0.0"), &registry.Prerequisite{PluginID: "a", Ver: &v2, Match: true})
	g2 := entry.AddConstraint(c2)
	assert.NotNil(t, g2, "plugins with no declared extensions/extension-points allow concurrency, so a second incompatible constraint opens a new group")
	assert.NotSame(t, base, g2)
	assert.Len(t, entry.Groups(), 2)
}

func TestAddConstraintRefusesNewGroupWhenConcurrencyForbidden(t *testing.T) {
	ix := New()
	ix.Add(nonConcurrentPlugin("a", "1.0.0"))
	ix.Add(nonConcurrentPlugin("a", "2.0.0"))

	entry, _ := ix.Get("a")
	v1 := version.Parse("1.0.0")
	c1 := NewConstraint(plugin("p1", "1.0.0"), &registry.Prerequisite{PluginID: "a", Ver: &v1, Match: true})
	entry.AddConstraint(c1)

	v2 := version.Parse("2.0.0")
	c2 := NewConstraint(plugin("p2", "1.0.0"), &registry.Prerequisite{PluginID: "a", Ver: &v2, Match: true})
	g2 := entry.AddConstraint(c2)
	assert.Nil(t, g2, "plugins declaring extensions forbid concurrency, so an incompatible second constraint has no group to land in")
	assert.Len(t, entry.Groups(), 1)
}

func TestRemoveConstraintDeletesEmptyNonBaseGroup(t *testing.T) {
	ix := New()
	ix.Add(plugin("a", "1.0.0"))
	ix.Add(plugin("a", "2.0.0"))

	entry, _ := ix.Get("a")
	v1 := version.Parse("1.0.0")
	c1 := NewConstraint(plugin("p1", "1.0.0"), &registry.Prerequisite{PluginID: "a", Ver: &v1, Match: true})
	entry.AddConstraint(c1)

	v2 := version.Parse("2.0.0")
	c2 := NewConstraint(plugin("p2", "1.0.0"), &registry.Prerequisite{PluginID: "a", Ver: &v2, Match: true})
	entry.AddConstraint(c2)

	assert.Len(t, entry.Groups(), 2)
	entry.RemoveConstraint(c2)
	assert.Len(t, entry.Groups(), 1, "removing the last constraint in a non-base group must delete it")
}

func TestResolveDependenciesEnablesOnlyWinner(t *testing.T) {
	ix := New()
	a1 := plugin("a", "1.0.0")
	a2 := plugin("a", "2.0.0")
	ix.Add(a1)
	ix.Add(a2)

	entry, _ := ix.Get("a")
	entry.ResolveDependencies(true)

	assert.True(t, a2.Enabled())
	assert.False(t, a1.Enabled())
}

func TestResolveDependenciesUnparticipatingIDIsUntouched(t *testing.T) {
	ix := New()
	a1 := plugin("a", "1.0.0") // plugin() in index_test.go pre-enables it
	ix.Add(a1)

	entry, _ := ix.Get("a")
	entry.ResolveDependencies(false)

	assert.True(t, a1.Enabled(), "an id that is neither a root nor the target of any constraint never entered the DFS and keeps its prior enabled state")
}
