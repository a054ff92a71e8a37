package index

import (
	"github.com/mbarbero/eclipse.platform.runtime/registry"
)

// GetMatchingDescriptors narrows the enabled descriptors in the entry's
// verList (descending order preserved) by every constraint in group, in the
// order given in eclipse.platform.runtime §4.5.1.
//
// This deliberately re-filters verList for every constraint rather than
// narrowing a running candidate set — preserved from the source algorithm's
// O(|verList| x |constraints|) shape rather than optimized away (§9); the
// result is identical either way, just slower for large concurrency groups.
func (e *IndexEntry) GetMatchingDescriptors(group *ConstraintsEntry) []registry.Plugin {
	result := make([]registry.Plugin, 0, len(e.verList))
	for _, d := range e.verList {
		if d.Enabled() {
			result = append(result, d)
		}
	}

	for _, c := range group.Constraints {
		switch c.MatchType {
		case registry.MatchLatest:
			// no narrowing
		case registry.MatchExact:
			result = filterVerList(e.verList, func(d registry.Plugin) bool {
				return d.Ver().EquivalentTo(*c.Ver)
			}, result)
		case registry.MatchCompatible:
			result = filterVerList(e.verList, func(d registry.Plugin) bool {
				return d.Ver().CompatibleWith(*c.Ver)
			}, result)
		}
	}
	return result
}

// filterVerList re-derives the candidate list straight from verList
// (preserving the documented re-scan behavior) intersected against which
// descriptors are still enabled and already present in prior.
func filterVerList(verList []registry.Plugin, pred func(registry.Plugin) bool, prior []registry.Plugin) []registry.Plugin {
	allowed := make(map[registry.Plugin]bool, len(prior))
	for _, d := range prior {
		allowed[d] = true
	}
	out := make([]registry.Plugin, 0, len(verList))
	for _, d := range verList {
		if d.Enabled() && allowed[d] && pred(d) {
			out = append(out, d)
		}
	}
	return out
}

// AddConstraint attempts to place c into one of the entry's concurrency
// groups (eclipse.platform.runtime §4.5.2). It returns the group c was
// placed in, or nil if no group could accommodate it.
func (e *IndexEntry) AddConstraint(c *Constraint) *ConstraintsEntry {
	for _, group := range e.concurrentList {
		group.Constraints = append(group.Constraints, c)
		matches := e.GetMatchingDescriptors(group)

		if len(matches) > 0 {
			if len(e.concurrentList) == 1 {
				c.OwningGroup = group
				return group
			}
			if matches[0].AllowsConcurrency() {
				c.OwningGroup = group
				return group
			}
		}
		// revert and try the next group
		group.Constraints = group.Constraints[:len(group.Constraints)-1]
	}

	// No existing group accepted c; try opening a new one. This is only
	// permitted if the base group's current best match also allows
	// concurrency.
	base := e.concurrentList[0]
	baseMatches := e.GetMatchingDescriptors(base)
	if len(baseMatches) == 0 || !baseMatches[0].AllowsConcurrency() {
		return nil
	}

	newGroup := &ConstraintsEntry{Constraints: []*Constraint{c}}
	newMatches := e.GetMatchingDescriptors(newGroup)
	if len(newMatches) == 0 || !newMatches[0].AllowsConcurrency() {
		return nil
	}

	c.OwningGroup = newGroup
	e.concurrentList = append(e.concurrentList, newGroup)
	return newGroup
}

// RemoveConstraint detaches c from its owning group. If a non-base group
// becomes empty as a result, it is deleted; the base group always persists.
func (e *IndexEntry) RemoveConstraint(c *Constraint) {
	group := c.OwningGroup
	if group == nil {
		return
	}
	for i, gc := range group.Constraints {
		if gc == c {
			group.Constraints = append(group.Constraints[:i], group.Constraints[i+1:]...)
			break
		}
	}
	group.resolved = false
	c.OwningGroup = nil

	if group == e.concurrentList[0] {
		return
	}
	if len(group.Constraints) == 0 {
		for i, g := range e.concurrentList {
			if g == group {
				e.concurrentList = append(e.concurrentList[:i], e.concurrentList[i+1:]...)
				break
			}
		}
	}
}

// RemoveConstraintFor removes whichever constraint in any group of this
// entry references prereq, the prereq-keyed variant the rollback path uses
// (eclipse.platform.runtime §4.6 step 7).
func (e *IndexEntry) RemoveConstraintFor(prereq *registry.Prerequisite) {
	for _, group := range e.concurrentList {
		for _, c := range group.Constraints {
			if c.Prereq == prereq {
				e.RemoveConstraint(c)
				return
			}
		}
	}
}

// ResolveDependencies implements eclipse.platform.runtime §4.5.4: per group,
// compute and memoise the winning descriptor, then disable every version of
// the id before re-enabling exactly the chosen descriptors.
//
// An id that is neither a root nor the target of any surviving constraint
// never entered the DFS at all (e.g. the target of a prerequisite whose
// match failed outright, §4.6 step 3) — its descriptors are left exactly as
// validation left them rather than being swept to disabled.
func (e *IndexEntry) ResolveDependencies(isRoot bool) {
	participated := isRoot
	for _, group := range e.concurrentList {
		if len(group.Constraints) > 0 {
			participated = true
		}
	}
	if !participated {
		return
	}

	for _, group := range e.concurrentList {
		if len(group.Constraints) == 0 {
			if isRoot && len(e.verList) > 0 {
				latest := e.verList[0]
				group.bestMatch = latest
				group.bestMatchEnabled = latest.Enabled()
			} else {
				group.bestMatch = nil
			}
			continue
		}

		matches := e.GetMatchingDescriptors(group)
		if len(matches) > 0 {
			group.bestMatch = matches[0]
			group.bestMatchEnabled = true
		} else {
			group.bestMatch = nil
		}
	}

	for _, d := range e.verList {
		d.SetEnabled(false)
	}

	for _, group := range e.concurrentList {
		if group.bestMatch == nil {
			continue
		}
		group.bestMatch.SetEnabled(group.bestMatchEnabled)
		for _, c := range group.Constraints {
			c.Prereq.ResolvedVersion = group.bestMatch.Ver().String()
		}
	}
}

// NewConstraint builds a Constraint for the parent -> prereq edge.
func NewConstraint(parent registry.Plugin, prereq *registry.Prerequisite) *Constraint {
	return newConstraint(parent, prereq)
}

// MarkResolved sets the per-pass memoisation guard used by the solver's
// step-5 check, and (preserving the source quirk noted in §9) separately
// stamps lastResolved, which nothing downstream ever reads again.
func (c *ConstraintsEntry) MarkResolved(winner registry.Plugin) {
	c.resolved = true
	c.lastResolved = winner
}

// Resolved reports whether MarkResolved has already been called for this
// group during the current solve pass.
func (c *ConstraintsEntry) Resolved() bool {
	return c.resolved
}
