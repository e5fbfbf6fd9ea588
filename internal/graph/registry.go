package graph

import "fmt"

// StyleClass is the visual category of a node. It decides color and shape
// in both emitters.
type StyleClass string

const (
	ClassCoreCompany StyleClass = "coreCompany"
	ClassController  StyleClass = "controller"
	ClassTopEntity   StyleClass = "topEntity"
	ClassSubsidiary  StyleClass = "subsidiary"
	ClassPerson      StyleClass = "person"
	ClassCompany     StyleClass = "company"
)

// Node is one entity in the diagram. Nodes are owned by the Registry of a
// single build; nothing survives across builds.
type Node struct {
	ID    string
	Name  string
	Class StyleClass
	Level int
	X     float64
}

// Registry assigns stable identifiers to entity names. Names are the sole
// identity key; the same exact string always maps to the same node.
type Registry struct {
	byName map[string]*Node
	order  []*Node
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Node)}
}

// GetOrCreate returns the node for name, creating it on first reference.
// IDs are E1, E2, ... in first-reference order.
func (r *Registry) GetOrCreate(name string) *Node {
	if n, ok := r.byName[name]; ok {
		return n
	}
	n := &Node{
		ID:    fmt.Sprintf("E%d", len(r.order)+1),
		Name:  name,
		Class: ClassCompany,
	}
	r.byName[name] = n
	r.order = append(r.order, n)
	return n
}

// IsKnown reports whether name has been registered.
func (r *Registry) IsKnown(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Lookup returns the node for name without creating one.
func (r *Registry) Lookup(name string) (*Node, bool) {
	n, ok := r.byName[name]
	return n, ok
}

// Nodes returns all nodes in first-reference order.
func (r *Registry) Nodes() []*Node {
	return r.order
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int {
	return len(r.order)
}
