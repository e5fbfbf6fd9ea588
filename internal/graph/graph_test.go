package graph

import (
	"strings"
	"testing"

	"github.com/hargabyte/eqg/internal/dataset"
)

func TestBuildLevelsMonotonicOverConnectedGraph(t *testing.T) {
	ds := &dataset.Ownership{
		CoreCompany: "核心公司",
		Shareholders: []dataset.Holding{
			{Name: "控股集团", Percentage: 48.5},
		},
		Subsidiaries: []dataset.Holding{
			{Name: "子公司一", Percentage: 100},
			{Name: "子公司二", Percentage: 60},
		},
		EntityRelationships: []dataset.EquityRelation{
			{Parent: "控股集团", Child: "核心公司", Percentage: 48.5},
			{Parent: "创始人", Child: "控股集团", Percentage: 80},
		},
	}
	g, issues := Build(ds, DefaultOptions())

	if !g.Converged {
		t.Errorf("Converged = false for acyclic input, issues: %v", issues)
	}
	if g.Levels["核心公司"] != 0 {
		t.Errorf("core level = %d, want 0", g.Levels["核心公司"])
	}
	all := append(append([]Edge{}, g.Equity...), g.Control...)
	for _, e := range all {
		if g.Levels[e.Parent] >= g.Levels[e.Child] {
			t.Errorf("level(%s)=%d not above level(%s)=%d",
				e.Parent, g.Levels[e.Parent], e.Child, g.Levels[e.Child])
		}
	}
}

func TestBuildCJKLabelRoundTrip(t *testing.T) {
	// Mixed CJK name with a trailing parenthetical must survive the whole
	// pipeline with every character intact and the parenthetical on its
	// own line.
	name := "泉州市志成投资合伙企业 (有限合伙)"
	ds := &dataset.Ownership{
		CoreCompany: "核心公司",
		Shareholders: []dataset.Holding{
			{Name: name, Percentage: 30},
		},
		EntityRelationships: []dataset.EquityRelation{
			{Parent: name, Child: "核心公司", Percentage: 30},
		},
	}
	g, _ := Build(ds, DefaultOptions())
	out := g.Mermaid()

	for _, r := range "泉州市志成投资合伙企业有限合伙" {
		if !strings.ContainsRune(out, r) {
			t.Errorf("output lost rune %q", r)
		}
	}
	node, ok := g.Registry.Lookup(name)
	if !ok {
		t.Fatalf("node for %q missing", name)
	}
	if !strings.Contains(out, node.ID+`["`) {
		t.Errorf("node declaration missing for %q", name)
	}
	// the parenthetical renders as the trailing label line
	if !strings.Contains(out, "<br/>(有限合伙)") {
		t.Errorf("parenthetical not on its own line:\n%s", out)
	}
}

func TestBuildNeverErrors(t *testing.T) {
	datasets := []*dataset.Ownership{
		{},
		{CoreCompany: ""},
		{
			CoreCompany: "Acme",
			EntityRelationships: []dataset.EquityRelation{
				{Parent: "", Child: ""},
			},
		},
		{
			CoreCompany: "A",
			EntityRelationships: []dataset.EquityRelation{
				{Parent: "A", Child: "B"},
				{Parent: "B", Child: "A"}, // cycle
			},
		},
	}
	for i, ds := range datasets {
		g, _ := Build(ds, DefaultOptions())
		if g == nil {
			t.Fatalf("dataset %d: Build returned nil graph", i)
		}
		if out := g.Mermaid(); out == "" {
			t.Errorf("dataset %d: empty Mermaid output", i)
		}
		if res := g.VisJS(); res == nil {
			t.Errorf("dataset %d: nil VisJS output", i)
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	ds := &dataset.Ownership{
		CoreCompany: "Acme",
		Shareholders: []dataset.Holding{
			{Name: "Alice", Percentage: 60},
			{Name: "Bob", Percentage: 40},
		},
		EntityRelationships: []dataset.EquityRelation{
			{Parent: "Alice", Child: "Acme", Percentage: 60},
			{Parent: "Bob", Child: "Acme", Percentage: 40},
		},
		Subsidiaries: []dataset.Holding{
			{Name: "Sub", Percentage: 100},
		},
	}
	g1, _ := Build(ds, DefaultOptions())
	g2, _ := Build(ds, DefaultOptions())
	if out1, out2 := g1.Mermaid(), g2.Mermaid(); out1 != out2 {
		t.Errorf("Mermaid output not deterministic:\n%s\n---\n%s", out1, out2)
	}
}

func TestBuildOrphanIsolatedNotFatal(t *testing.T) {
	ds := &dataset.Ownership{
		CoreCompany: "Acme",
		Shareholders: []dataset.Holding{
			{Name: "Stray", Percentage: 5}, // no explicit relationship
		},
	}
	g, issues := Build(ds, DefaultOptions())

	stray, ok := g.Registry.Lookup("Stray")
	if !ok {
		t.Fatalf("Stray not registered")
	}
	if stray.Level != OrphanLevel {
		t.Errorf("Stray level = %d, want orphan sentinel", stray.Level)
	}
	found := false
	for _, iss := range issues {
		if iss.Kind == IssueUnresolvedLevel {
			found = true
		}
	}
	if !found {
		t.Errorf("issues = %v, want unresolved-level report", issues)
	}
	// and no edge was invented for the stray holder
	if len(g.Equity) != 0 {
		t.Errorf("equity = %+v, want none", g.Equity)
	}
}

func TestClassifierPriority(t *testing.T) {
	ds := &dataset.Ownership{
		CoreCompany: "Core",
		Controller:  "Boss",
		Subsidiaries: []dataset.Holding{
			{Name: "SubPerson", Percentage: 100},
		},
		TopLevelEntities: []dataset.TopEntity{
			{Name: "Apex", Percentage: 50},
			{Name: "Boss", Percentage: 30},
		},
		AllEntities: []dataset.Entity{
			{Name: "SubPerson", Type: "person"},
			{Name: "Somebody", Type: "person"},
			{Name: "Plain", Type: "company"},
		},
	}
	cls := newClassifier(ds)

	tests := []struct {
		name string
		want StyleClass
	}{
		{"Core", ClassCoreCompany},
		{"Boss", ClassController},    // controller beats topEntity
		{"SubPerson", ClassSubsidiary}, // structural role beats person type
		{"Somebody", ClassPerson},
		{"Apex", ClassTopEntity},
		{"Plain", ClassCompany},
		{"Unknown", ClassCompany},
	}
	for _, tt := range tests {
		if got := cls.StyleFor(tt.name); got != tt.want {
			t.Errorf("StyleFor(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}
