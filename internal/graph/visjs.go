package graph

import (
	"strings"

	"github.com/hargabyte/eqg/internal/label"
)

// vis.js Network object shapes. Field names and constants follow what the
// interactive renderer expects; see https://visjs.github.io/vis-network.

type VisConstraint struct {
	Minimum int `json:"minimum"`
	Maximum int `json:"maximum,omitempty"`
}

type VisNodeFont struct {
	Size  int    `json:"size"`
	Color string `json:"color"`
	Multi string `json:"multi"`
}

type VisHighlight struct {
	Background string `json:"background"`
	Border     string `json:"border"`
}

type VisNodeColor struct {
	Background string       `json:"background"`
	Border     string       `json:"border"`
	Highlight  VisHighlight `json:"highlight"`
}

type VisMargin struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

type VisFixed struct {
	X bool `json:"x"`
	Y bool `json:"y"`
}

type VisNode struct {
	ID               int           `json:"id"`
	Label            string        `json:"label"`
	Shape            string        `json:"shape"`
	WidthConstraint  VisConstraint `json:"widthConstraint"`
	HeightConstraint VisConstraint `json:"heightConstraint"`
	Font             VisNodeFont   `json:"font"`
	Color            VisNodeColor  `json:"color"`
	BorderWidth      int           `json:"borderWidth"`
	Margin           VisMargin     `json:"margin"`
	Level            int           `json:"level"`
	X                float64       `json:"x"`
	Fixed            VisFixed      `json:"fixed"`
	IsCore           bool          `json:"isCore"`
}

type VisArrowHead struct {
	Enabled     bool    `json:"enabled"`
	ScaleFactor float64 `json:"scaleFactor"`
	Type        string  `json:"type"`
}

type VisArrows struct {
	To VisArrowHead `json:"to"`
}

type VisEdgeFont struct {
	Size        int    `json:"size"`
	Align       string `json:"align"`
	Background  string `json:"background"`
	StrokeWidth int    `json:"strokeWidth"`
	StrokeColor string `json:"strokeColor"`
	Color       string `json:"color"`
	Multi       string `json:"multi"`
}

type VisEdgeColor struct {
	Color     string `json:"color"`
	Highlight string `json:"highlight"`
}

type VisSmooth struct {
	Type    string `json:"type"`
	Enabled bool   `json:"enabled"`
}

type VisEdge struct {
	From   int          `json:"from"`
	To     int          `json:"to"`
	Arrows VisArrows    `json:"arrows"`
	Label  string       `json:"label"`
	Font   VisEdgeFont  `json:"font"`
	Color  VisEdgeColor `json:"color"`
	Width  float64      `json:"width"`
	Dashes []int        `json:"dashes,omitempty"`
	Smooth VisSmooth    `json:"smooth"`
}

// VisSubgraph is an optional grouping box enclosing a named set of nodes.
type VisSubgraph struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Nodes       []int  `json:"nodes"`
	Color       string `json:"color"`
	BorderColor string `json:"borderColor"`
}

// VisResult is the full graph-object output for the interactive renderer.
type VisResult struct {
	Nodes     []VisNode     `json:"nodes"`
	Edges     []VisEdge     `json:"edges"`
	Subgraphs []VisSubgraph `json:"subgraphs"`
}

const (
	subgraphFill   = "rgba(108, 117, 125, 0.1)"
	subgraphBorder = "#6c757d"
)

// VisJS renders the graph as vis.js node and edge objects. Control edges
// come first (dashed red), then equity edges (solid blue), matching how the
// interactive renderer stacks overlapping labels.
func (g *Graph) VisJS() *VisResult {
	res := &VisResult{
		Nodes:     []VisNode{},
		Edges:     []VisEdge{},
		Subgraphs: []VisSubgraph{},
	}

	index := make(map[string]int, g.Registry.Len())
	for i, n := range g.Registry.Nodes() {
		index[n.Name] = i

		entityType := ""
		meta := label.Meta{}
		if e, ok := g.catalog[n.Name]; ok {
			entityType = e.Type
			meta = label.Meta{
				EnglishName:         e.EnglishName,
				RegistrationCapital: e.RegistrationCapital,
				EstablishmentDate:   e.EstablishmentDate,
			}
		}
		pal := paletteFor(n.Class, entityType)

		res.Nodes = append(res.Nodes, VisNode{
			ID:               i,
			Label:            strings.Join(label.Lines(n.Name, meta), "\n"),
			Shape:            "box",
			WidthConstraint:  VisConstraint{Minimum: 100, Maximum: 100},
			HeightConstraint: VisConstraint{Minimum: 57},
			Font:             VisNodeFont{Size: 12, Color: pal.Font, Multi: "html"},
			Color: VisNodeColor{
				Background: pal.Background,
				Border:     pal.Border,
				Highlight:  VisHighlight{Background: pal.HighlightBG, Border: pal.HighlightBorder},
			},
			BorderWidth: 1,
			Margin:      VisMargin{Top: 4, Right: 4, Bottom: 4, Left: 4},
			Level:       n.Level,
			X:           n.X,
			Fixed:       VisFixed{X: false, Y: false},
			IsCore:      n.Name == g.Core && g.Core != "",
		})
	}

	for _, e := range g.Control {
		from, okF := index[e.Parent]
		to, okT := index[e.Child]
		if !okF || !okT {
			continue
		}
		lbl := e.Description
		if lbl == "" || len([]rune(lbl)) >= g.opts.EdgeLabelLimit {
			lbl = "control"
		}
		res.Edges = append(res.Edges, VisEdge{
			From:   from,
			To:     to,
			Arrows: defaultArrows(),
			Label:  lbl,
			Font:   defaultEdgeFont(),
			Color:  VisEdgeColor{Color: "#d32f2f", Highlight: "#b71c1c"},
			Width:  1.5,
			Dashes: []int{5, 5},
			Smooth: VisSmooth{Type: "continuous", Enabled: true},
		})
	}

	for _, e := range g.Equity {
		from, okF := index[e.Parent]
		to, okT := index[e.Child]
		if !okF || !okT {
			continue
		}
		lbl := ""
		if e.Percentage > 0 {
			lbl = formatPercentage(e.Percentage) + "%"
		}
		res.Edges = append(res.Edges, VisEdge{
			From:   from,
			To:     to,
			Arrows: defaultArrows(),
			Label:  lbl,
			Font:   defaultEdgeFont(),
			Color:  VisEdgeColor{Color: "#1976d2", Highlight: "#0d47a1"},
			Width:  2,
			Smooth: VisSmooth{Type: "continuous", Enabled: true},
		})
	}

	// one grouping box around the core and its direct subsidiaries, when
	// there is enough of a cluster to be worth outlining
	if g.Core != "" {
		var members []int
		if coreIdx, ok := index[g.Core]; ok {
			members = append(members, coreIdx)
		}
		subs := 0
		for _, n := range g.Registry.Nodes() {
			if n.Class == ClassSubsidiary {
				if i, ok := index[n.Name]; ok {
					members = append(members, i)
					subs++
				}
			}
		}
		if subs >= 2 {
			res.Subgraphs = append(res.Subgraphs, VisSubgraph{
				ID:          "core-group",
				Label:       g.Core,
				Nodes:       members,
				Color:       subgraphFill,
				BorderColor: subgraphBorder,
			})
		}
	}

	return res
}

func defaultArrows() VisArrows {
	return VisArrows{To: VisArrowHead{Enabled: true, ScaleFactor: 0.6, Type: "arrow"}}
}

func defaultEdgeFont() VisEdgeFont {
	return VisEdgeFont{
		Size:        12,
		Align:       "horizontal",
		Background:  "rgba(255, 255, 255, 0.95)",
		StrokeWidth: 1,
		StrokeColor: "rgba(0, 0, 0, 0.1)",
		Color:       "#000000",
		Multi:       "html",
	}
}
