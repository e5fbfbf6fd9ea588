package graph

import "fmt"

// IssueKind classifies a non-fatal data-quality problem found while
// building or rendering a graph.
type IssueKind string

const (
	// IssueMalformedRelationship marks a relationship entry missing its
	// parent or child name. The entry is skipped.
	IssueMalformedRelationship IssueKind = "malformed_relationship"

	// IssueDuplicateRelationship marks a repeated (parent, child) pair.
	// The first occurrence wins.
	IssueDuplicateRelationship IssueKind = "duplicate_relationship"

	// IssueUnresolvedLevel marks an entity never connected to the root
	// graph. It is rendered at a sentinel level, visually isolated.
	IssueUnresolvedLevel IssueKind = "unresolved_level"

	// IssueLevelsNotConverged marks a level assignment that hit the
	// iteration cap, usually a sign of cyclic extraction noise.
	IssueLevelsNotConverged IssueKind = "levels_not_converged"

	// IssueRenderFailure marks an unexpected failure inside an emitter.
	// The emitter returns a one-node error diagram instead.
	IssueRenderFailure IssueKind = "render_failure"
)

// Issue is one recoverable problem. Building a graph never fails outright;
// it degrades and reports what it skipped or substituted.
type Issue struct {
	Kind   IssueKind
	Detail string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Kind, i.Detail)
}
