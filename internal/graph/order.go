package graph

import "sort"

// Sibling ordering within one level. Processing runs from the deepest level
// upward so that a level can align itself with the horizontal positions its
// children already received, which keeps most equity lines from crossing.

// minSmartSortNodes is the sibling count below which barycenter alignment
// is not worth the churn.
const minSmartSortNodes = 4

// minPlacedChildren is how many positioned nodes the deeper level needs
// before alignment against it is meaningful.
const minPlacedChildren = 2

// assignPositions orders the siblings of every level and writes evenly
// spaced x coordinates centered on zero. The coordinates are layout hints;
// the rendering backend may still run its own solver on top.
func assignPositions(reg *Registry, equity []Edge, spacing float64) {
	byLevel := make(map[int][]*Node)
	for _, n := range reg.Nodes() {
		byLevel[n.Level] = append(byLevel[n.Level], n)
	}

	children := make(map[string][]string)
	outgoingPct := make(map[string]float64)
	for _, e := range equity {
		children[e.Parent] = append(children[e.Parent], e.Child)
		outgoingPct[e.Parent] += e.Percentage
	}

	levelKeys := make([]int, 0, len(byLevel))
	for l := range byLevel {
		levelKeys = append(levelKeys, l)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(levelKeys)))

	for _, level := range levelKeys {
		siblings := byLevel[level]
		if len(siblings) > 1 {
			deeper := byLevel[level+1]
			if len(siblings) >= minSmartSortNodes && len(deeper) >= minPlacedChildren {
				sortByChildAlignment(siblings, reg, children, outgoingPct, level+1)
			} else {
				sortByImportance(siblings, children, outgoingPct)
			}
		}
		setXPositions(siblings, spacing)
	}
}

// sortByChildAlignment orders siblings by the mean x of their children in
// the already-positioned deeper level, descending percentage as tiebreak.
// Childless siblings keep a zero barycenter and fall back to percentage.
func sortByChildAlignment(siblings []*Node, reg *Registry, children map[string][]string, outgoingPct map[string]float64, childLevel int) {
	meanChildX := func(n *Node) (float64, bool) {
		var sum float64
		var count int
		for _, childName := range children[n.Name] {
			child, ok := reg.Lookup(childName)
			if !ok || child.Level != childLevel {
				continue
			}
			sum += child.X
			count++
		}
		if count == 0 {
			return 0, false
		}
		return sum / float64(count), true
	}

	sort.SliceStable(siblings, func(i, j int) bool {
		xi, oki := meanChildX(siblings[i])
		xj, okj := meanChildX(siblings[j])
		if oki != okj {
			return okj // placed children sort ahead of none
		}
		if xi != xj {
			return xi < xj
		}
		return outgoingPct[siblings[i].Name] > outgoingPct[siblings[j].Name]
	})
}

// sortByImportance orders siblings by descending total outgoing percentage,
// companies before persons, then by descending child count.
func sortByImportance(siblings []*Node, children map[string][]string, outgoingPct map[string]float64) {
	sort.SliceStable(siblings, func(i, j int) bool {
		a, b := siblings[i], siblings[j]
		if pa, pb := outgoingPct[a.Name], outgoingPct[b.Name]; pa != pb {
			return pa > pb
		}
		aPerson, bPerson := a.Class == ClassPerson, b.Class == ClassPerson
		if aPerson != bPerson {
			return bPerson
		}
		return len(children[a.Name]) > len(children[b.Name])
	})
}

// setXPositions spreads nodes evenly around x=0.
func setXPositions(siblings []*Node, spacing float64) {
	start := -float64(len(siblings)-1) * spacing / 2
	for i, n := range siblings {
		n.X = start + float64(i)*spacing
	}
}
