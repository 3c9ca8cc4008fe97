package domain

import "errors"

// ErrInvalidCategory is returned when a diagram category is not one of the
// six supported values.
var ErrInvalidCategory = errors.New("invalid diagram category")

// DiagramCategory identifies which kind of diagram the generation call
// should produce. It is a closed enumeration: the set of categories is
// fixed and each one selects a markup dialect in the grammar table.
// The category is immutable once generation starts.
type DiagramCategory string

const (
	CategoryHierarchyMap DiagramCategory = "hierarchy-map"
	CategoryFlowchart    DiagramCategory = "flowchart"
	CategorySequence     DiagramCategory = "sequence"
	CategoryTimeline     DiagramCategory = "timeline"
	CategoryOrgHierarchy DiagramCategory = "org-hierarchy"
	CategorySchedule     DiagramCategory = "schedule"
)

// Categories returns all supported diagram categories in a stable order.
func Categories() []DiagramCategory {
	return []DiagramCategory{
		CategoryHierarchyMap,
		CategoryFlowchart,
		CategorySequence,
		CategoryTimeline,
		CategoryOrgHierarchy,
		CategorySchedule,
	}
}

// Valid reports whether the category is one of the supported values.
func (c DiagramCategory) Valid() bool {
	switch c {
	case CategoryHierarchyMap, CategoryFlowchart, CategorySequence,
		CategoryTimeline, CategoryOrgHierarchy, CategorySchedule:
		return true
	}
	return false
}

// Validate returns ErrInvalidCategory if the category is not supported.
func (c DiagramCategory) Validate() error {
	if !c.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// String implements fmt.Stringer.
func (c DiagramCategory) String() string {
	return string(c)
}
