package dataset

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decode parses an ownership dataset from JSON. Decoding is deliberately
// tolerant: field aliases from older extraction prompts are accepted,
// percentages may arrive as strings with a trailing "%", and entries of the
// wrong JSON type are dropped rather than rejected.
func Decode(data []byte) (*Ownership, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}

	o := &Ownership{}
	o.CoreCompany = flexString(pick(raw, "core_company", "main_company"))
	o.Controller = flexString(pick(raw, "controller", "actual_controller"))

	for _, el := range rawList(pick(raw, "shareholders")) {
		if h, ok := decodeHolding(el); ok {
			o.Shareholders = append(o.Shareholders, h)
		}
	}
	for _, el := range rawList(pick(raw, "subsidiaries")) {
		if h, ok := decodeHolding(el); ok {
			o.Subsidiaries = append(o.Subsidiaries, h)
		}
	}
	for _, el := range rawList(pick(raw, "top_level_entities")) {
		if t, ok := decodeTopEntity(el); ok {
			o.TopLevelEntities = append(o.TopLevelEntities, t)
		}
	}
	for _, el := range rawList(pick(raw, "entity_relationships")) {
		if r, ok := decodeEquityRelation(el); ok {
			o.EntityRelationships = append(o.EntityRelationships, r)
		}
	}
	for _, el := range rawList(pick(raw, "control_relationships")) {
		if r, ok := decodeControlRelation(el); ok {
			o.ControlRelationships = append(o.ControlRelationships, r)
		}
	}
	for _, el := range rawList(pick(raw, "all_entities")) {
		if e, ok := decodeEntity(el); ok {
			o.AllEntities = append(o.AllEntities, e)
		}
	}

	return o, nil
}

// DecodeYAML parses a YAML dataset by converting it to JSON first, so both
// formats share one set of alias and type-coercion rules.
func DecodeYAML(data []byte) (*Ownership, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}
	jsonData, err := json.Marshal(normalizeYAML(doc))
	if err != nil {
		return nil, fmt.Errorf("converting dataset: %w", err)
	}
	return Decode(jsonData)
}

// normalizeYAML rewrites yaml.v3's map[any]any values (possible under merge
// keys and non-string keys) into JSON-marshalable map[string]any.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, e := range val {
			m[k] = normalizeYAML(e)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, e := range val {
			m[fmt.Sprint(k)] = normalizeYAML(e)
		}
		return m
	case []any:
		for i, e := range val {
			val[i] = normalizeYAML(e)
		}
		return val
	default:
		return v
	}
}

func decodeHolding(raw json.RawMessage) (Holding, bool) {
	m, ok := rawObject(raw)
	if !ok {
		return Holding{}, false
	}
	h := Holding{
		Name:       flexString(pick(m, "name", "entity", "entity_name")),
		Percentage: flexPercent(m),
	}
	return h, true
}

func decodeTopEntity(raw json.RawMessage) (TopEntity, bool) {
	m, ok := rawObject(raw)
	if !ok {
		return TopEntity{}, false
	}
	t := TopEntity{
		Name:       flexString(pick(m, "name", "entity", "entity_name")),
		Percentage: flexPercent(m),
		EntityType: flexString(pick(m, "entity_type", "type")),
	}
	return t, true
}

func decodeEquityRelation(raw json.RawMessage) (EquityRelation, bool) {
	m, ok := rawObject(raw)
	if !ok {
		return EquityRelation{}, false
	}
	r := EquityRelation{
		Parent:     flexString(pick(m, "parent", "from")),
		Child:      flexString(pick(m, "child", "to")),
		Percentage: flexPercent(m),
	}
	return r, true
}

func decodeControlRelation(raw json.RawMessage) (ControlRelation, bool) {
	m, ok := rawObject(raw)
	if !ok {
		return ControlRelation{}, false
	}
	r := ControlRelation{
		Parent:           flexString(pick(m, "parent", "controller", "from")),
		Child:            flexString(pick(m, "child", "controlled_entity", "controlled", "to")),
		Description:      flexString(pick(m, "description", "desc")),
		RelationshipType: flexString(pick(m, "relationship_type", "type")),
	}
	return r, true
}

func decodeEntity(raw json.RawMessage) (Entity, bool) {
	m, ok := rawObject(raw)
	if !ok {
		return Entity{}, false
	}
	e := Entity{
		Name:                flexString(pick(m, "name")),
		Type:                flexString(pick(m, "type", "entity_type")),
		EnglishName:         flexString(pick(m, "english_name")),
		RegistrationCapital: flexString(pick(m, "registration_capital", "registered_capital")),
		EstablishmentDate:   flexString(pick(m, "establishment_date", "established_date")),
	}
	if e.Type == "" {
		e.Type = "company"
	}
	return e, true
}

// pick returns the first present key's raw value.
func pick(m map[string]json.RawMessage, keys ...string) json.RawMessage {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}

// rawObject decodes raw as a JSON object, returning false for any other type.
func rawObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false
	}
	return m, true
}

// rawList decodes raw as a JSON array, returning nil for any other type.
func rawList(raw json.RawMessage) []json.RawMessage {
	if raw == nil {
		return nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return list
}

// flexString extracts a string from a value that may be a string, a number,
// or a list whose first string-typed element is taken.
func flexString(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, el := range list {
			if v := flexString(el); v != "" {
				return v
			}
		}
	}
	return ""
}

// flexPercent reads a 0-100 percentage from a relationship object. The
// "percentage" key may hold a number or a string like "48.5%"; a "ratio"
// key holding a 0-1 fraction is scaled up.
func flexPercent(m map[string]json.RawMessage) float64 {
	if raw := pick(m, "percentage", "percent"); raw != nil {
		if v, ok := flexFloat(raw); ok {
			return v
		}
	}
	if raw := pick(m, "ratio"); raw != nil {
		if v, ok := flexFloat(raw); ok {
			if v <= 1.0 {
				return v * 100
			}
			return v
		}
	}
	return 0
}

func flexFloat(raw json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}
