package graph

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hargabyte/eqg/internal/label"
)

// Mermaid renders the graph as flowchart-notation text: class definitions,
// one declaration and class line per entity, then solid equity connectors
// and dashed control connectors.
//
// The emitter never propagates a failure. Anything unexpected is caught and
// converted into a minimal one-node error diagram, so callers always get a
// parseable string.
func (g *Graph) Mermaid() (out string) {
	defer func() {
		if r := recover(); r != nil {
			g.Issues = append(g.Issues, Issue{IssueRenderFailure, fmt.Sprint(r)})
			out = ErrorDiagram(fmt.Sprintf("diagram generation failed: %v", r))
		}
	}()

	var b strings.Builder
	b.WriteString("graph " + g.opts.Direction + "\n")
	for _, cd := range classDefs {
		fmt.Fprintf(&b, "    classDef %s %s;\n", cd.Name, cd.Style)
	}

	for _, n := range g.Registry.Nodes() {
		fmt.Fprintf(&b, "    %s[\"%s\"]\n", n.ID, g.mermaidLabel(n.Name))
		fmt.Fprintf(&b, "    class %s %s;\n", n.ID, n.Class)
	}

	for _, e := range g.Equity {
		if e.Percentage <= 0 {
			continue // a zero-percentage holding is not drawn
		}
		from, okF := g.Registry.Lookup(e.Parent)
		to, okT := g.Registry.Lookup(e.Child)
		if !okF || !okT {
			continue
		}
		fmt.Fprintf(&b, "    %s -->|\"%s%%\"| %s\n", from.ID, formatPercentage(e.Percentage), to.ID)
	}

	for _, e := range g.Control {
		from, okF := g.Registry.Lookup(e.Parent)
		to, okT := g.Registry.Lookup(e.Child)
		if !okF || !okT {
			continue
		}
		fmt.Fprintf(&b, "    %s -.->|\"%s\"| %s\n", from.ID, label.EscapeMermaid(g.controlLabel(e)), to.ID)
	}

	return b.String()
}

// ErrorDiagram builds the one-node fallback diagram bearing msg as its
// label.
func ErrorDiagram(msg string) string {
	return fmt.Sprintf("graph TD\n    error[\"%s\"]\n    classDef error %s;\n    class error error;",
		label.EscapeMermaid(msg), errorClassDef)
}

// mermaidLabel composes and escapes the multi-line node label for name.
func (g *Graph) mermaidLabel(name string) string {
	meta := label.Meta{}
	if e, ok := g.catalog[name]; ok {
		meta = label.Meta{
			EnglishName:         e.EnglishName,
			RegistrationCapital: e.RegistrationCapital,
			EstablishmentDate:   e.EstablishmentDate,
		}
	}
	return label.EscapeMermaid(label.Format(name, meta))
}

var descPercentRe = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)

// controlLabel picks the label for a control edge: a percentage embedded in
// the description if present, the description itself when short enough,
// otherwise the default label.
func (g *Graph) controlLabel(e Edge) string {
	if m := descPercentRe.FindStringSubmatch(e.Description); m != nil {
		return m[1] + "%"
	}
	if e.Description != "" && len([]rune(e.Description)) < g.opts.EdgeLabelLimit {
		return e.Description
	}
	return "control"
}

// formatPercentage trims trailing zeros: 60 -> "60", 48.5 -> "48.5".
func formatPercentage(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
