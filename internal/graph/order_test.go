package graph

import "testing"

func TestPositionsCenteredAndSpaced(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"A", "B", "C"} {
		n := r.GetOrCreate(name)
		n.Level = -1
	}
	assignPositions(r, nil, 300)

	xs := make(map[string]float64)
	for _, n := range r.Nodes() {
		xs[n.Name] = n.X
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	if sum != 0 {
		t.Errorf("positions not centered: %v", xs)
	}
	// 3 nodes at spacing 300: -300, 0, 300 in some order
	seen := map[float64]bool{}
	for _, x := range xs {
		seen[x] = true
	}
	for _, want := range []float64{-300, 0, 300} {
		if !seen[want] {
			t.Errorf("missing x position %v, got %v", want, xs)
		}
	}
}

func TestImportanceSortOrdersByPercentage(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"Small", "Big", "PersonBig"} {
		n := r.GetOrCreate(name)
		n.Level = -1
	}
	person, _ := r.Lookup("PersonBig")
	person.Class = ClassPerson

	edges := []Edge{
		{Parent: "Small", Child: "Core", Percentage: 10},
		{Parent: "Big", Child: "Core", Percentage: 70},
		{Parent: "PersonBig", Child: "Core", Percentage: 70},
	}
	assignPositions(r, edges, 100)

	big, _ := r.Lookup("Big")
	small, _ := r.Lookup("Small")
	personBig, _ := r.Lookup("PersonBig")
	if !(big.X < personBig.X && personBig.X < small.X) {
		t.Errorf("order Big(%v) PersonBig(%v) Small(%v), want percentage desc with companies before persons",
			big.X, personBig.X, small.X)
	}
}

func TestBarycenterAlignsParentsWithChildren(t *testing.T) {
	// Four parents over two positioned children. Parents connected to the
	// leftmost child must end up left of parents connected to the rightmost.
	r := NewRegistry()
	parents := []string{"HolderA", "HolderB", "HolderC", "HolderD"}
	for _, name := range parents {
		n := r.GetOrCreate(name)
		n.Level = -1
	}
	for _, name := range []string{"CLeft", "CRight"} {
		n := r.GetOrCreate(name)
		n.Level = 0
	}

	edges := []Edge{
		// HolderB and HolderD own the left child; HolderA and HolderC own the right child.
		{Parent: "HolderB", Child: "CLeft", Percentage: 50},
		{Parent: "HolderD", Child: "CLeft", Percentage: 50},
		{Parent: "HolderA", Child: "CRight", Percentage: 50},
		{Parent: "HolderC", Child: "CRight", Percentage: 50},
		// child ordering: CLeft heavier so it sorts first (leftmost)
		{Parent: "CLeft", Child: "D", Percentage: 90},
	}
	assignPositions(r, edges, 100)

	left, _ := r.Lookup("CLeft")
	right, _ := r.Lookup("CRight")
	if left.X >= right.X {
		t.Fatalf("child layout CLeft=%v CRight=%v, want CLeft left of CRight", left.X, right.X)
	}

	for _, leftParent := range []string{"HolderB", "HolderD"} {
		lp, _ := r.Lookup(leftParent)
		for _, rightParent := range []string{"HolderA", "HolderC"} {
			rp, _ := r.Lookup(rightParent)
			if lp.X >= rp.X {
				t.Errorf("%s(%v) not left of %s(%v)", leftParent, lp.X, rightParent, rp.X)
			}
		}
	}
}
