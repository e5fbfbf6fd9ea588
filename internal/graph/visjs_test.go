package graph

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hargabyte/eqg/internal/dataset"
)

func TestVisJSNodesAndEdges(t *testing.T) {
	g := buildTest(t, &dataset.Ownership{
		CoreCompany: "Acme",
		Controller:  "Bob",
		Shareholders: []dataset.Holding{
			{Name: "Alice", Percentage: 60},
		},
		EntityRelationships: []dataset.EquityRelation{
			{Parent: "Alice", Child: "Acme", Percentage: 60},
		},
		ControlRelationships: []dataset.ControlRelation{
			{Parent: "Bob", Child: "Acme", Description: "ultimate control"},
		},
		AllEntities: []dataset.Entity{
			{Name: "Alice", Type: "person"},
			{Name: "Bob", Type: "person"},
		},
	})
	res := g.VisJS()

	if len(res.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(res.Nodes))
	}

	byLabel := make(map[string]VisNode)
	for _, n := range res.Nodes {
		byLabel[n.Label] = n
	}
	acme := byLabel["Acme"]
	if !acme.IsCore {
		t.Errorf("core node not flagged isCore")
	}
	if acme.Color.Background != "#fff8e1" || acme.Color.Border != "#ff9100" {
		t.Errorf("core palette = %+v, want amber", acme.Color)
	}
	bob := byLabel["Bob"]
	if bob.Color.Background != "#0d47a1" || bob.Font.Color != "#ffffff" {
		t.Errorf("controller palette = %+v / font %+v, want dark blue with white font", bob.Color, bob.Font)
	}
	alice := byLabel["Alice"]
	if alice.Color.Background != "#e8f5e9" {
		t.Errorf("person palette = %+v, want green", alice.Color)
	}

	if acme.Shape != "box" || acme.WidthConstraint.Maximum != 100 || acme.HeightConstraint.Minimum != 57 {
		t.Errorf("node sizing = %+v, want fixed box constraints", acme)
	}

	if len(res.Edges) != 2 {
		t.Fatalf("edges = %+v, want control + equity", res.Edges)
	}
	ctl := res.Edges[0]
	if ctl.Color.Color != "#d32f2f" || len(ctl.Dashes) != 2 {
		t.Errorf("control edge = %+v, want dashed red", ctl)
	}
	if ctl.Label != "ultimate control" {
		t.Errorf("control label = %q", ctl.Label)
	}
	eq := res.Edges[1]
	if eq.Color.Color != "#1976d2" || eq.Dashes != nil {
		t.Errorf("equity edge = %+v, want solid blue", eq)
	}
	if eq.Label != "60%" {
		t.Errorf("equity label = %q, want 60%%", eq.Label)
	}
}

func TestVisJSFiltersUnreferencedEntities(t *testing.T) {
	g := buildTest(t, &dataset.Ownership{
		CoreCompany: "Acme",
		AllEntities: []dataset.Entity{
			{Name: "abcd", Type: "company"}, // referenced by nothing
		},
	})
	res := g.VisJS()
	for _, n := range res.Nodes {
		if n.Label == "abcd" {
			t.Errorf("unreferenced catalog entity rendered: %+v", n)
		}
	}
}

func TestVisJSSubsidiaryGrouping(t *testing.T) {
	g := buildTest(t, &dataset.Ownership{
		CoreCompany: "Acme",
		Subsidiaries: []dataset.Holding{
			{Name: "Sub A", Percentage: 100},
			{Name: "Sub B", Percentage: 80},
		},
	})
	res := g.VisJS()

	if len(res.Subgraphs) != 1 {
		t.Fatalf("subgraphs = %+v, want one core group", res.Subgraphs)
	}
	sg := res.Subgraphs[0]
	if sg.Label != "Acme" || len(sg.Nodes) != 3 {
		t.Errorf("subgraph = %+v, want core plus two subsidiaries", sg)
	}
	if sg.Color == "" || sg.BorderColor == "" {
		t.Errorf("subgraph missing colors: %+v", sg)
	}
}

func TestVisJSNoGroupForSingleSubsidiary(t *testing.T) {
	g := buildTest(t, &dataset.Ownership{
		CoreCompany: "Acme",
		Subsidiaries: []dataset.Holding{
			{Name: "Sub A", Percentage: 100},
		},
	})
	res := g.VisJS()
	if len(res.Subgraphs) != 0 {
		t.Errorf("subgraphs = %+v, want none for a single subsidiary", res.Subgraphs)
	}
}

func TestVisJSMetadataLabel(t *testing.T) {
	g := buildTest(t, &dataset.Ownership{
		CoreCompany: "宏济堂",
		AllEntities: []dataset.Entity{
			{
				Name:                "宏济堂",
				Type:                "company",
				RegistrationCapital: "5000万元",
				EstablishmentDate:   "2010-06-15",
			},
		},
	})
	res := g.VisJS()
	if len(res.Nodes) != 1 {
		t.Fatalf("nodes = %+v, want one", res.Nodes)
	}
	lbl := res.Nodes[0].Label
	for _, want := range []string{"宏济堂", "Cap: RMB50M", "Established: June.2010"} {
		if !strings.Contains(lbl, want) {
			t.Errorf("label %q missing %q", lbl, want)
		}
	}
	if !strings.Contains(lbl, "\n") {
		t.Errorf("multi-line label not newline-joined: %q", lbl)
	}
}

func TestVisJSSerializes(t *testing.T) {
	g := buildTest(t, &dataset.Ownership{CoreCompany: "Acme"})
	data, err := json.Marshal(g.VisJS())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"nodes"`, `"edges"`, `"subgraphs"`, `"widthConstraint"`, `"isCore"`} {
		if !strings.Contains(s, want) {
			t.Errorf("serialized output missing %s", want)
		}
	}
}
