// Package grammar holds the fixed mapping from diagram category to markup
// dialect. It is the single source of truth shared by the prompt builder
// (which tells the generation service what to emit) and the diagram parser
// (which consumes that markup), so the two cannot drift apart.
package grammar

import (
	"fmt"

	"github.com/studymap/studymap-api/internal/domain"
)

// Spec describes the markup dialect required for one diagram category.
type Spec struct {
	// Keyword is the required top-level keyword the markup must start with.
	Keyword string

	// Dialect is the human-readable name of the markup dialect, used in
	// prompt instructions.
	Dialect string

	// Rules are the category-specific structural rules the generated markup
	// must follow. They are embedded verbatim in prompt instructions.
	Rules []string
}

// table is the fixed category → dialect mapping. Keywords are pairwise
// distinct prefixes so a markup body identifies exactly one category.
var table = map[domain.DiagramCategory]Spec{
	domain.CategoryHierarchyMap: {
		Keyword: "mindmap",
		Dialect: "mindmap",
		Rules: []string{
			"The first line must be exactly 'mindmap'.",
			"Place a single root topic on the next line, indented by two spaces.",
			"Indent each deeper tier by two additional spaces; do not use edge arrows.",
			"Keep node labels short; never include parentheses or square brackets inside labels.",
		},
	},
	domain.CategoryFlowchart: {
		Keyword: "flowchart TD",
		Dialect: "flowchart",
		Rules: []string{
			"The first line must be exactly 'flowchart TD'.",
			"Declare each node as id[Label] with an alphanumeric id.",
			"Connect nodes with '-->' arrows; label an arrow as -->|label| when needed.",
			"Use id{Label} for decision points and id([Label]) for start and end points.",
		},
	},
	domain.CategorySequence: {
		Keyword: "sequenceDiagram",
		Dialect: "sequence diagram",
		Rules: []string{
			"The first line must be exactly 'sequenceDiagram'.",
			"Declare every actor first with 'participant Name'.",
			"Write each message as 'A->>B: message text' in chronological order.",
			"Use '-->>' for reply messages.",
		},
	},
	domain.CategoryTimeline: {
		Keyword: "timeline",
		Dialect: "timeline",
		Rules: []string{
			"The first line must be exactly 'timeline'.",
			"Follow it with a single 'title ...' line.",
			"Group events under 'section ...' headings in chronological order.",
			"Write each event as 'period : event description' on its own line.",
		},
	},
	domain.CategoryOrgHierarchy: {
		Keyword: "graph TD",
		Dialect: "organization chart",
		Rules: []string{
			"The first line must be exactly 'graph TD'.",
			"Order tiers strictly top to bottom: the topmost role appears first.",
			"Declare each role as id[Role name] and each reporting line as 'manager --> report'.",
			"There must be exactly one root node with no incoming arrows.",
		},
	},
	domain.CategorySchedule: {
		Keyword: "gantt",
		Dialect: "gantt chart",
		Rules: []string{
			"The first line must be exactly 'gantt'.",
			"Follow it with 'dateFormat YYYY-MM-DD' and a single 'title ...' line.",
			"Group tasks under 'section ...' headings.",
			"Write each task as 'Task name :YYYY-MM-DD, YYYY-MM-DD' with explicit calendar dates.",
		},
	},
}

// For returns the dialect spec for the given category.
// Returns domain.ErrInvalidCategory for unknown categories.
func For(category domain.DiagramCategory) (Spec, error) {
	spec, ok := table[category]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", domain.ErrInvalidCategory, category)
	}
	return spec, nil
}

// Keyword returns the required top-level keyword for the category, or the
// empty string for unknown categories.
func Keyword(category domain.DiagramCategory) string {
	return table[category].Keyword
}
