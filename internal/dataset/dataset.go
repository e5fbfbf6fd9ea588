// Package dataset defines the ownership dataset model and its tolerant
// decoding from JSON or YAML. The data typically originates from an
// AI-extraction step, so field names vary and values may be loosely typed;
// decoding normalizes all of that once at the boundary.
package dataset

// Holding is a direct equity position in or under the core company.
type Holding struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// TopEntity is an apex holder with no further upstream owner known.
type TopEntity struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	EntityType string  `json:"entity_type"`
}

// EquityRelation is an explicit percentage-bearing ownership edge.
type EquityRelation struct {
	Parent     string  `json:"parent"`
	Child      string  `json:"child"`
	Percentage float64 `json:"percentage"`
}

// ControlRelation is a qualitative, non-percentage control edge.
type ControlRelation struct {
	Parent           string `json:"parent"`
	Child            string `json:"child"`
	Description      string `json:"description"`
	RelationshipType string `json:"relationship_type"`
}

// Entity is a catalog entry carrying display metadata for one entity.
type Entity struct {
	Name                string `json:"name"`
	Type                string `json:"type"`
	EnglishName         string `json:"english_name,omitempty"`
	RegistrationCapital string `json:"registration_capital,omitempty"`
	EstablishmentDate   string `json:"establishment_date,omitempty"`
}

// Ownership is one complete ownership dataset. Entity names are the sole
// identity key: two entries refer to the same entity only when their name
// strings are byte-identical.
type Ownership struct {
	CoreCompany          string            `json:"core_company"`
	Controller           string            `json:"controller,omitempty"`
	Shareholders         []Holding         `json:"shareholders,omitempty"`
	Subsidiaries         []Holding         `json:"subsidiaries,omitempty"`
	TopLevelEntities     []TopEntity       `json:"top_level_entities,omitempty"`
	EntityRelationships  []EquityRelation  `json:"entity_relationships,omitempty"`
	ControlRelationships []ControlRelation `json:"control_relationships,omitempty"`
	AllEntities          []Entity          `json:"all_entities,omitempty"`
}

// Catalog returns a name-indexed view of AllEntities. First entry wins on
// duplicate names.
func (o *Ownership) Catalog() map[string]Entity {
	m := make(map[string]Entity, len(o.AllEntities))
	for _, e := range o.AllEntities {
		if e.Name == "" {
			continue
		}
		if _, ok := m[e.Name]; !ok {
			m[e.Name] = e
		}
	}
	return m
}

// SubsidiaryNames returns the set of names in the subsidiaries list.
func (o *Ownership) SubsidiaryNames() map[string]bool {
	s := make(map[string]bool, len(o.Subsidiaries))
	for _, h := range o.Subsidiaries {
		if h.Name != "" {
			s[h.Name] = true
		}
	}
	return s
}

// TopEntityNames returns the set of names in the top-level-entities list.
func (o *Ownership) TopEntityNames() map[string]bool {
	s := make(map[string]bool, len(o.TopLevelEntities))
	for _, t := range o.TopLevelEntities {
		if t.Name != "" {
			s[t.Name] = true
		}
	}
	return s
}

// ReferencedNames returns every entity name reachable from a relationship,
// holder list, or designation. Catalog entries outside this set are
// stray extraction artifacts and are skipped by the emitters.
func (o *Ownership) ReferencedNames() map[string]bool {
	refs := make(map[string]bool)
	for _, rel := range o.EntityRelationships {
		if rel.Parent != "" {
			refs[rel.Parent] = true
		}
		if rel.Child != "" {
			refs[rel.Child] = true
		}
	}
	for _, rel := range o.ControlRelationships {
		if rel.Parent != "" {
			refs[rel.Parent] = true
		}
		if rel.Child != "" {
			refs[rel.Child] = true
		}
	}
	for _, h := range o.Shareholders {
		if h.Name != "" {
			refs[h.Name] = true
		}
	}
	for _, h := range o.Subsidiaries {
		if h.Name != "" {
			refs[h.Name] = true
		}
	}
	for _, t := range o.TopLevelEntities {
		if t.Name != "" {
			refs[t.Name] = true
		}
	}
	if o.CoreCompany != "" {
		refs[o.CoreCompany] = true
	}
	if o.Controller != "" {
		refs[o.Controller] = true
	}
	return refs
}
