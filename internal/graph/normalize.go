package graph

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/hargabyte/eqg/internal/dataset"
)

// EdgeKind distinguishes percentage-bearing equity edges from qualitative
// control edges.
type EdgeKind string

const (
	EdgeEquity  EdgeKind = "equity"
	EdgeControl EdgeKind = "control"
)

// Edge is one directed relationship in the normalized graph.
type Edge struct {
	Parent      string
	Child       string
	Kind        EdgeKind
	Percentage  float64
	Description string
}

func edgeKey(parent, child string) string {
	return parent + "\x00" + child
}

// normalize reconciles the dataset's overlapping relationship lists into two
// disjoint edge sets.
//
// entity_relationships (and control_relationships) are the single source of
// truth for which edges exist. Shareholder and top-level-entity lists only
// contribute percentage lookups and entity discovery; an entry there with no
// matching explicit relationship produces no edge. Earlier behavior that
// auto-created shareholder edges from a bare percentage silently resurrected
// relationships users had deleted.
//
// The one exception is the subsidiaries list: core->subsidiary edges are
// emitted directly whenever the held percentage is positive.
//
// A control edge suppresses the equity edge for the same (parent, child)
// pair. Duplicates keep the first occurrence and are reported, not fatal.
func normalize(ds *dataset.Ownership, logger *log.Logger) (equity, control []Edge, issues []Issue) {
	// percentage lookups from the holder lists
	holderPct := make(map[string]float64)
	for _, h := range ds.Shareholders {
		if h.Name != "" && h.Percentage > 0 {
			holderPct[edgeKey(h.Name, ds.CoreCompany)] = h.Percentage
		}
	}
	for _, t := range ds.TopLevelEntities {
		if t.Name != "" && t.Percentage > 0 {
			k := edgeKey(t.Name, ds.CoreCompany)
			if _, ok := holderPct[k]; !ok {
				holderPct[k] = t.Percentage
			}
		}
	}

	seen := make(map[string]bool)

	for _, rel := range ds.EntityRelationships {
		if rel.Parent == "" || rel.Child == "" {
			issues = append(issues, Issue{IssueMalformedRelationship,
				fmt.Sprintf("equity relationship %q -> %q missing a name", rel.Parent, rel.Child)})
			continue
		}
		k := edgeKey(rel.Parent, rel.Child)
		if seen[k] {
			logger.Debug("dropping duplicate equity relationship", "parent", rel.Parent, "child", rel.Child)
			issues = append(issues, Issue{IssueDuplicateRelationship,
				fmt.Sprintf("equity relationship %q -> %q listed more than once", rel.Parent, rel.Child)})
			continue
		}
		seen[k] = true

		pct := rel.Percentage
		if pct == 0 {
			pct = holderPct[k]
		}
		equity = append(equity, Edge{Parent: rel.Parent, Child: rel.Child, Kind: EdgeEquity, Percentage: pct})
	}

	// core->subsidiary edges, independent of entity_relationships
	for _, sub := range ds.Subsidiaries {
		if sub.Name == "" || ds.CoreCompany == "" || sub.Percentage <= 0 {
			continue
		}
		k := edgeKey(ds.CoreCompany, sub.Name)
		if seen[k] {
			continue
		}
		seen[k] = true
		equity = append(equity, Edge{Parent: ds.CoreCompany, Child: sub.Name, Kind: EdgeEquity, Percentage: sub.Percentage})
	}

	// control edges win over equity on the same pair
	controlPairs := make(map[string]bool)
	for _, rel := range ds.ControlRelationships {
		if rel.Parent == "" || rel.Child == "" {
			issues = append(issues, Issue{IssueMalformedRelationship,
				fmt.Sprintf("control relationship %q -> %q missing a name", rel.Parent, rel.Child)})
			continue
		}
		k := edgeKey(rel.Parent, rel.Child)
		if controlPairs[k] {
			logger.Debug("dropping duplicate control relationship", "parent", rel.Parent, "child", rel.Child)
			issues = append(issues, Issue{IssueDuplicateRelationship,
				fmt.Sprintf("control relationship %q -> %q listed more than once", rel.Parent, rel.Child)})
			continue
		}
		controlPairs[k] = true
		control = append(control, Edge{
			Parent:      rel.Parent,
			Child:       rel.Child,
			Kind:        EdgeControl,
			Description: rel.Description,
		})
	}

	if len(controlPairs) > 0 {
		kept := equity[:0]
		for _, e := range equity {
			if controlPairs[edgeKey(e.Parent, e.Child)] {
				logger.Debug("equity edge suppressed by control relationship", "parent", e.Parent, "child", e.Child)
				continue
			}
			kept = append(kept, e)
		}
		equity = kept
	}

	return equity, control, issues
}
