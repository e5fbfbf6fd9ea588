package graph

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// OrphanLevel is the sentinel assigned to entities never connected to the
// root graph. It renders them far above everything else, visually
// segregated, instead of failing the build.
const OrphanLevel = -10

// assignLevels computes an integer hierarchy level for every known entity,
// rooted at the core company (level 0), such that every parent sits strictly
// above its children.
//
// The input graph is not guaranteed acyclic and relationships may reference
// a child before its parent is known, so a single top-down pass is not
// enough. A bounded fixed-point relaxation walks the combined edge set,
// pushing children below known parents and lifting parents above known
// children, until a full pass changes nothing or the iteration cap is hit.
// A genuine cycle never converges; the cap bounds the cost and the caller
// gets an explicit converged flag instead of a silent truncation.
func assignLevels(core string, edges []Edge, names []string, topEntities map[string]bool, maxIterations int, logger *log.Logger) (levels map[string]int, converged bool, issues []Issue) {
	levels = make(map[string]int)
	if core != "" {
		levels[core] = 0
	}

	for i := 0; i < maxIterations; i++ {
		changed := false
		for _, e := range edges {
			if e.Parent == "" || e.Child == "" {
				continue
			}
			parentLevel, parentKnown := levels[e.Parent]
			childLevel, childKnown := levels[e.Child]

			// push the child below a known parent
			if parentKnown && (!childKnown || childLevel <= parentLevel) {
				if !childKnown || childLevel != parentLevel+1 {
					levels[e.Child] = parentLevel + 1
					childLevel, childKnown = parentLevel+1, true
					changed = true
				}
			}

			// lift the parent above a known child
			if childKnown && (!parentKnown || parentLevel >= childLevel) {
				if !parentKnown || parentLevel != childLevel-1 {
					levels[e.Parent] = childLevel - 1
					changed = true
				}
			}
		}
		if !changed {
			converged = true
			break
		}
	}
	if !converged {
		logger.Debug("level assignment hit iteration cap", "iterations", maxIterations)
		issues = append(issues, Issue{IssueLevelsNotConverged,
			fmt.Sprintf("level assignment did not settle within %d iterations; layout may be imperfect", maxIterations)})
	}

	// Lift parentless holders to sit directly above their highest child, so
	// a stray minority shareholder hugs its children instead of floating at
	// the top of the diagram.
	children := make(map[string][]string)
	hasParent := make(map[string]bool)
	for _, e := range edges {
		if e.Parent == "" || e.Child == "" {
			continue
		}
		children[e.Parent] = append(children[e.Parent], e.Child)
		hasParent[e.Child] = true
	}
	for name, level := range levels {
		if hasParent[name] || len(children[name]) == 0 {
			continue
		}
		minChild := 0
		found := false
		for _, ch := range children[name] {
			if l, ok := levels[ch]; ok && (!found || l < minChild) {
				minChild, found = l, true
			}
		}
		if found && level < minChild-1 {
			levels[name] = minChild - 1
		}
	}

	// defaults for everything the relaxation never reached
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := levels[name]; ok {
			continue
		}
		switch {
		case name == core:
			levels[name] = 0
		case topEntities[name]:
			levels[name] = -1
		default:
			levels[name] = OrphanLevel
			issues = append(issues, Issue{IssueUnresolvedLevel,
				fmt.Sprintf("entity %q is not connected to the root graph", name)})
		}
	}

	return levels, converged, issues
}
