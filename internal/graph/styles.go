package graph

import "github.com/hargabyte/eqg/internal/dataset"

// classifier resolves an entity name to its style class. The priority order
// is load-bearing: structural role in the diagram beats catalog type, so an
// entity that is both a subsidiary and a person renders as a subsidiary.
type classifier struct {
	core         string
	controller   string
	subsidiaries map[string]bool
	topEntities  map[string]bool
	types        map[string]string
}

func newClassifier(ds *dataset.Ownership) classifier {
	types := make(map[string]string, len(ds.AllEntities))
	for _, e := range ds.AllEntities {
		if e.Name != "" {
			if _, ok := types[e.Name]; !ok {
				types[e.Name] = e.Type
			}
		}
	}
	return classifier{
		core:         ds.CoreCompany,
		controller:   ds.Controller,
		subsidiaries: ds.SubsidiaryNames(),
		topEntities:  ds.TopEntityNames(),
		types:        types,
	}
}

// StyleFor determines the visual class by priority: core company,
// controller, subsidiary, person, top-level entity, then plain company.
func (c classifier) StyleFor(name string) StyleClass {
	switch {
	case name != "" && name == c.core:
		return ClassCoreCompany
	case name != "" && name == c.controller:
		return ClassController
	case c.subsidiaries[name]:
		return ClassSubsidiary
	case c.types[name] == "person" || c.types[name] == "individual":
		return ClassPerson
	case c.topEntities[name]:
		return ClassTopEntity
	default:
		return ClassCompany
	}
}

// classDefs are the Mermaid style definitions, emitted in this order at the
// top of every diagram.
var classDefs = []struct {
	Name  StyleClass
	Style string
}{
	{ClassCompany, "fill:#f3f4f6,stroke:#5a6772,stroke-width:2px,rx:4,ry:4"},
	{ClassPerson, "fill:#e8f5e9,stroke:#4caf50,stroke-width:1.5px,rx:4,ry:4"},
	{ClassSubsidiary, "fill:#ffffff,stroke:#1e88e5,stroke-width:1.5px,rx:4,ry:4"},
	{ClassTopEntity, "fill:#0d47a1,color:#ffffff,stroke:#ffffff,stroke-width:2px,rx:4,ry:4"},
	{ClassController, "fill:#0d47a1,color:#ffffff,stroke:#1565c0,stroke-width:2px,rx:4,ry:4"},
	{ClassCoreCompany, "fill:#fff8e1,stroke:#ff9100,stroke-width:2px,rx:6,ry:6"},
}

// errorClassDef styles the single node of a fallback error diagram.
const errorClassDef = "fill:#ffebee,stroke:#c62828,stroke-width:2px,rx:4,ry:4"

// palette holds the vis.js color set for one node.
type palette struct {
	Background      string
	Border          string
	Font            string
	HighlightBG     string
	HighlightBorder string
}

// paletteFor returns the vis.js palette for a node. The entity type breaks
// the tie for plain companies, where government bodies render gray.
func paletteFor(class StyleClass, entityType string) palette {
	switch class {
	case ClassController:
		return palette{"#0d47a1", "#0d47a1", "#ffffff", "#1565c0", "#0d47a1"}
	case ClassCoreCompany:
		return palette{"#fff8e1", "#ff9100", "#000000", "#ffecb3", "#ff6f00"}
	case ClassPerson:
		return palette{"#e8f5e9", "#4caf50", "#000000", "#c8e6c9", "#388e3c"}
	}
	if entityType == "government" || entityType == "institution" {
		return palette{"#f5f5f5", "#757575", "#000000", "#eeeeee", "#616161"}
	}
	return palette{"#ffffff", "#1976d2", "#000000", "#e3f2fd", "#1565c0"}
}
