package graph

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/hargabyte/eqg/internal/dataset"
)

func discard() *log.Logger {
	return log.New(io.Discard)
}

func TestNormalizeNoEdgeWithoutExplicitRelationship(t *testing.T) {
	// A shareholder percentage alone must not synthesize an edge; only
	// entity_relationships create them.
	ds := &dataset.Ownership{
		CoreCompany: "Acme",
		Shareholders: []dataset.Holding{
			{Name: "Alice", Percentage: 60},
		},
	}

	equity, control, _ := normalize(ds, discard())
	if len(equity) != 0 {
		t.Errorf("equity = %+v, want no auto-synthesized shareholder edge", equity)
	}
	if len(control) != 0 {
		t.Errorf("control = %+v, want empty", control)
	}
}

func TestNormalizeExplicitShareholderEdge(t *testing.T) {
	ds := &dataset.Ownership{
		CoreCompany: "Acme",
		Shareholders: []dataset.Holding{
			{Name: "Alice", Percentage: 60},
		},
		EntityRelationships: []dataset.EquityRelation{
			{Parent: "Alice", Child: "Acme"}, // percentage looked up from the holder list
		},
	}

	equity, _, _ := normalize(ds, discard())
	if len(equity) != 1 {
		t.Fatalf("equity = %+v, want one edge", equity)
	}
	e := equity[0]
	if e.Parent != "Alice" || e.Child != "Acme" || e.Percentage != 60 {
		t.Errorf("edge = %+v, want Alice -> Acme at 60", e)
	}
}

func TestNormalizeSubsidiaryEdges(t *testing.T) {
	ds := &dataset.Ownership{
		CoreCompany: "Acme",
		Subsidiaries: []dataset.Holding{
			{Name: "Acme Sub", Percentage: 100},
			{Name: "Zero Sub", Percentage: 0}, // not drawn
		},
	}

	equity, _, _ := normalize(ds, discard())
	if len(equity) != 1 {
		t.Fatalf("equity = %+v, want only the positive-percentage subsidiary", equity)
	}
	if equity[0].Parent != "Acme" || equity[0].Child != "Acme Sub" {
		t.Errorf("edge = %+v, want Acme -> Acme Sub", equity[0])
	}
}

func TestNormalizeControlSuppressesEquity(t *testing.T) {
	ds := &dataset.Ownership{
		CoreCompany: "Acme",
		EntityRelationships: []dataset.EquityRelation{
			{Parent: "Bob", Child: "Acme", Percentage: 30},
		},
		ControlRelationships: []dataset.ControlRelation{
			{Parent: "Bob", Child: "Acme", Description: "ultimate control"},
		},
	}

	equity, control, _ := normalize(ds, discard())
	if len(equity) != 0 {
		t.Errorf("equity = %+v, want suppressed by control edge", equity)
	}
	if len(control) != 1 || control[0].Description != "ultimate control" {
		t.Errorf("control = %+v, want the single control edge", control)
	}
}

func TestNormalizeDeduplication(t *testing.T) {
	ds := &dataset.Ownership{
		CoreCompany: "Acme",
		EntityRelationships: []dataset.EquityRelation{
			{Parent: "Alice", Child: "Acme", Percentage: 60},
			{Parent: "Alice", Child: "Acme", Percentage: 55},
		},
	}

	equity, _, issues := normalize(ds, discard())
	if len(equity) != 1 {
		t.Fatalf("equity = %+v, want one deduplicated edge", equity)
	}
	if equity[0].Percentage != 60 {
		t.Errorf("Percentage = %v, want first occurrence kept", equity[0].Percentage)
	}
	found := false
	for _, iss := range issues {
		if iss.Kind == IssueDuplicateRelationship {
			found = true
		}
	}
	if !found {
		t.Errorf("issues = %v, want a duplicate-relationship report", issues)
	}
}

func TestNormalizeSkipsMalformedEntries(t *testing.T) {
	ds := &dataset.Ownership{
		CoreCompany: "Acme",
		EntityRelationships: []dataset.EquityRelation{
			{Parent: "", Child: "Acme", Percentage: 10},
			{Parent: "Alice", Child: "", Percentage: 20},
			{Parent: "Alice", Child: "Acme", Percentage: 30},
		},
		ControlRelationships: []dataset.ControlRelation{
			{Parent: "", Child: "Acme"},
		},
	}

	equity, control, issues := normalize(ds, discard())
	if len(equity) != 1 {
		t.Errorf("equity = %+v, want malformed entries skipped", equity)
	}
	if len(control) != 0 {
		t.Errorf("control = %+v, want malformed entry skipped", control)
	}
	malformed := 0
	for _, iss := range issues {
		if iss.Kind == IssueMalformedRelationship {
			malformed++
		}
	}
	if malformed != 3 {
		t.Errorf("malformed issues = %d, want 3", malformed)
	}
}
