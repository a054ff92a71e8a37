// Package solve implements the recursive constraint resolver
// (eclipse.platform.runtime §4.6): a DFS from root plugin ids that
// accumulates constraints into the index package's engine, detects per-path
// cycles, rolls back on conflict, and recovers orphaned sub-DAGs with a
// second sweep.
package solve

import (
	"fmt"
	"sort"

	"github.com/mbarbero/eclipse.platform.runtime/diag"
	"github.com/mbarbero/eclipse.platform.runtime/index"
	"github.com/mbarbero/eclipse.platform.runtime/registry"
)

// cookie is the per-root-DFS-subtree rollback log: every constraint added
// while resolving one root, in order, plus whether that subtree is still
// on a viable path.
type cookie struct {
	entries []*index.Constraint
	ok      bool
}

func (c *cookie) contains(prereq *registry.Prerequisite) bool {
	for _, e := range c.entries {
		if e.Prereq == prereq {
			return true
		}
	}
	return false
}

// SelectRoots implements eclipse.platform.runtime §4.6 "Root selection":
// an id is a root unless it is named in the prerequisite list of some other
// id's *highest*-version descriptor — lower versions' prerequisites do not
// demote roots, preserved verbatim from the source algorithm (§9) rather
// than broadened to consider every version. For every surviving root, every
// version but the highest is disabled. The returned list is lexicographic.
func SelectRoots(ix *index.Index, log *diag.Logger) []string {
	candidates := make(map[string]bool)
	for _, id := range ix.Ids() {
		candidates[id] = true
	}

	for _, id := range ix.Ids() {
		entry, _ := ix.Get(id)
		vl := entry.VerList()
		if len(vl) == 0 {
			continue
		}
		highest := vl[0]
		for _, pr := range highest.Requires() {
			delete(candidates, pr.PluginID)
		}
	}

	roots := make([]string, 0, len(candidates))
	for id := range candidates {
		roots = append(roots, id)
	}
	sort.Strings(roots)

	for _, id := range roots {
		entry, _ := ix.Get(id)
		vl := entry.VerList()
		for i, d := range vl {
			if i > 0 {
				d.SetEnabled(false)
			}
		}
	}

	log.Tracef("roots identified: %v", roots)
	return roots
}

// Run drives the full DFS described in §4.6: an initial sweep over roots,
// then a single orphan-recovery sweep over any id freed by a rollback that
// is not already a root, then a final per-id resolveDependencies pass
// (§4.5.4) over the whole index.
func Run(ix *index.Index, roots []string, status *diag.Status, log *diag.Logger) {
	if len(roots) == 0 {
		status.Add(diag.Diagnostic{
			Kind:     diag.KindUnableToResolve,
			Severity: diag.CannotResolve,
			Message:  "no roots discoverable in registry",
		})
		return
	}

	isRoot := make(map[string]bool, len(roots))
	for _, id := range roots {
		isRoot[id] = true
	}

	orphans := make(map[string]bool)
	for _, id := range roots {
		ck := &cookie{ok: true}
		resolveNode(ix, id, nil, nil, ck, orphans, status, log)
	}

	var recovered []string
	for id := range orphans {
		if !isRoot[id] {
			recovered = append(recovered, id)
		}
	}
	sort.Strings(recovered)
	for _, id := range recovered {
		isRoot[id] = true
		ck := &cookie{ok: true}
		resolveNode(ix, id, nil, nil, ck, orphans, status, log)
	}

	for _, id := range ix.Ids() {
		entry, _ := ix.Get(id)
		entry.ResolveDependencies(isRoot[id])
	}
}

// resolveNode implements the per-node algorithm of §4.6. Go's native call
// stack stands in for an explicit work stack; recursion depth is bounded by
// the longest acyclic prerequisite chain (§5).
func resolveNode(ix *index.Index, childID string, parent registry.Plugin, prereq *registry.Prerequisite, ck *cookie, orphans map[string]bool, status *diag.Status, log *diag.Logger) {
	entry, found := ix.Get(childID)
	if !found {
		ck.ok = false
		if parent != nil {
			status.Add(diag.Diagnostic{
				Kind:          diag.KindPrereqDisabled,
				Severity:      diag.MustResolve,
				Message:       fmt.Sprintf("prerequisite %q of %s@%s has no matching plugin in the registry", childID, parent.ID(), parent.Ver()),
				PluginID:      parent.ID(),
				PluginVersion: parent.Ver().String(),
			})
		}
		return
	}

	var group *index.ConstraintsEntry
	var c *index.Constraint

	if parent != nil {
		c = index.NewConstraint(parent, prereq)
		log.Tracef("push %s -> %s (%s)", parent.ID(), childID, prereq.MatchType())
		group = entry.AddConstraint(c)
		if group == nil {
			log.Tracef("conflict: no satisfier for %s under constraint from %s", childID, parent.ID())
			status.Add(diag.Diagnostic{
				Kind:          diag.KindUnsatisfiedPrereq,
				Severity:      diag.MustResolve,
				Message:       fmt.Sprintf("no version of %s satisfies the constraint from %s@%s", childID, parent.ID(), parent.Ver()),
				PluginID:      parent.ID(),
				PluginVersion: parent.Ver().String(),
			})
			ck.ok = false
			return
		}
		if ck.contains(prereq) {
			entry.RemoveConstraint(c)
			log.Tracef("conflict: loop detected on prerequisite %s -> %s", parent.ID(), childID)
			status.Add(diag.Diagnostic{
				Kind:          diag.KindPrereqLoop,
				Severity:      diag.MustResolve,
				Message:       fmt.Sprintf("prerequisite loop involving %s and %s", parent.ID(), childID),
				PluginID:      parent.ID(),
				PluginVersion: parent.Ver().String(),
			})
			ck.ok = false
			return
		}
		ck.entries = append(ck.entries, c)
	} else {
		group = entry.Groups()[0]
	}

	matches := entry.GetMatchingDescriptors(group)
	if len(matches) == 0 {
		ck.ok = false
		return
	}
	chosen := matches[0]

	if group.Resolved() {
		return
	}

	for _, pr := range chosen.Requires() {
		resolveNode(ix, pr.PluginID, chosen, pr, ck, orphans, status, log)
		if !ck.ok {
			break
		}
	}

	if !ck.ok {
		log.Tracef("pop: rolling back %s@%s", chosen.ID(), chosen.Ver())
		kept := ck.entries[:0]
		for _, e := range ck.entries {
			if e.Parent == chosen {
				if targetEntry, ok := ix.Get(e.Prereq.PluginID); ok {
					targetEntry.RemoveConstraintFor(e.Prereq)
				}
				orphans[e.Prereq.GetPlugin()] = true
				continue
			}
			kept = append(kept, e)
		}
		ck.entries = kept
		chosen.SetEnabled(false)
		return
	}

	group.MarkResolved(chosen)
}
