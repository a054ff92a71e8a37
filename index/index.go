// Package index builds and maintains the per-plugin-id version index and the
// constraint engine that runs on top of it (eclipse.platform.runtime §4.4,
// §4.5). IndexEntry and ConstraintsEntry live in one package alongside the
// working state they mutate (selection, version queues) rather than being
// split out by noun.
package index

import (
	"sort"

	radix "github.com/armon/go-radix"

	"github.com/mbarbero/eclipse.platform.runtime/registry"
	"github.com/mbarbero/eclipse.platform.runtime/version"
)

// Constraint is created on traversal of parent -> prereq and records the
// match discipline it imposes on the target id's IndexEntry.
type Constraint struct {
	Parent      registry.Plugin
	Prereq      *registry.Prerequisite
	Ver         *version.Version
	MatchType   registry.MatchType
	OwningGroup *ConstraintsEntry
}

func newConstraint(parent registry.Plugin, prereq *registry.Prerequisite) *Constraint {
	return &Constraint{
		Parent:    parent,
		Prereq:    prereq,
		Ver:       prereq.Ver,
		MatchType: prereq.MatchType(),
	}
}

// ConstraintsEntry is one concurrency group: a set of constraints on the
// same target id that are jointly satisfiable by a single descriptor.
type ConstraintsEntry struct {
	Constraints []*Constraint

	bestMatch        registry.Plugin
	bestMatchEnabled bool

	// lastResolved is set on every successful resolveNode completion against
	// this group. The source algorithm this is grounded on never reads it
	// back; that quirk is preserved deliberately rather than fixed (see
	// DESIGN.md) — the actual resolved-for-this-pass memoisation guard used
	// by the solver is the unexported `resolved` field below.
	lastResolved registry.Plugin

	resolved bool
}

// BestMatch returns the group's memoised best-match descriptor and whether
// it should end up enabled, valid only after resolveDependencies has run.
func (c *ConstraintsEntry) BestMatch() (registry.Plugin, bool) {
	return c.bestMatch, c.bestMatchEnabled
}

// IndexEntry holds everything the engine tracks for one plugin id.
type IndexEntry struct {
	ID             string
	verList        []registry.Plugin // descending version order
	concurrentList []*ConstraintsEntry
}

func newIndexEntry(id string) *IndexEntry {
	base := &ConstraintsEntry{}
	return &IndexEntry{ID: id, concurrentList: []*ConstraintsEntry{base}}
}

// VerList returns the descending-version list of enabled-or-not descriptors
// for this id.
func (e *IndexEntry) VerList() []registry.Plugin {
	return e.verList
}

// Groups returns the concurrency groups for this id; element 0 is always the
// base group.
func (e *IndexEntry) Groups() []*ConstraintsEntry {
	return e.concurrentList
}

func (e *IndexEntry) add(d registry.Plugin) {
	for _, existing := range e.verList {
		if existing.Ver().EquivalentTo(d.Ver()) {
			return // first wins
		}
	}
	i := sort.Search(len(e.verList), func(i int) bool {
		return d.Ver().GreaterThan(e.verList[i].Ver()) || d.Ver().EquivalentTo(e.verList[i].Ver())
	})
	e.verList = append(e.verList, nil)
	copy(e.verList[i+1:], e.verList[i:])
	e.verList[i] = d
}

// Index is the resolver-scoped collection of IndexEntry, one per plugin id,
// keyed by a radix tree so callers can walk ids (Ids) in deterministic
// lexicographic order.
type Index struct {
	tree *radix.Tree
}

// New builds an empty Index.
func New() *Index {
	return &Index{tree: radix.New()}
}

// Add inserts d into the index, creating its IndexEntry if this is the
// first descriptor seen for d's id.
func (ix *Index) Add(d registry.Plugin) {
	e, ok := ix.tree.Get(d.ID())
	var entry *IndexEntry
	if ok {
		entry = e.(*IndexEntry)
	} else {
		entry = newIndexEntry(d.ID())
		ix.tree.Insert(d.ID(), entry)
	}
	entry.add(d)
}

// Get returns the IndexEntry for id, if any.
func (ix *Index) Get(id string) (*IndexEntry, bool) {
	e, ok := ix.tree.Get(id)
	if !ok {
		return nil, false
	}
	return e.(*IndexEntry), true
}

// Ids returns every plugin id currently indexed, in lexicographic order.
func (ix *Index) Ids() []string {
	var ids []string
	ix.tree.Walk(func(s string, _ interface{}) bool {
		ids = append(ids, s)
		return false
	})
	return ids
}

// Len reports how many distinct plugin ids are indexed.
func (ix *Index) Len() int {
	return ix.tree.Len()
}
