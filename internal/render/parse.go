package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/studymap/studymap-api/internal/domain"
	"github.com/studymap/studymap-api/internal/grammar"
)

// Parse converts diagram markup of the given category's dialect into the
// intermediate model. The markup must open with the category's required
// keyword from the grammar table; anything else is a render error carrying
// the raw markup for fallback display.
func Parse(category domain.DiagramCategory, markup string) (*DiagramModel, error) {
	spec, err := grammar.For(category)
	if err != nil {
		return nil, newError(markup, "unknown diagram category %q", category)
	}

	lines := markupLines(markup)
	if len(lines) == 0 {
		return nil, newError(markup, "markup is empty")
	}

	if !strings.HasPrefix(lines[0], spec.Keyword) {
		return nil, newError(markup, "markup must start with %q, got %q", spec.Keyword, firstWords(lines[0]))
	}
	body := lines[1:]

	var model *DiagramModel
	switch category {
	case domain.CategoryHierarchyMap:
		model, err = parseMindmap(markup, body)
	case domain.CategoryFlowchart, domain.CategoryOrgHierarchy:
		model, err = parseFlowGraph(markup, body)
	case domain.CategorySequence:
		model, err = parseSequence(markup, body)
	case domain.CategoryTimeline:
		model, err = parseTimeline(markup, body)
	case domain.CategorySchedule:
		model, err = parseGantt(markup, body)
	}
	if err != nil {
		return nil, err
	}

	if len(model.Nodes) == 0 {
		return nil, newError(markup, "markup contains no nodes")
	}

	return model, nil
}

// markupLines splits markup into lines, dropping blank lines and %% comment
// lines but preserving indentation (significant for mindmaps).
func markupLines(markup string) []string {
	var lines []string
	for _, line := range strings.Split(markup, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "%%") {
			continue
		}
		lines = append(lines, strings.TrimRight(line, " \t\r"))
	}
	return lines
}

// firstWords returns a short prefix of a line for error messages.
func firstWords(line string) string {
	line = strings.TrimSpace(line)
	if len(line) > 40 {
		return line[:40] + "…"
	}
	return line
}

// parseMindmap reads an indentation-structured outline: one root, two extra
// spaces per tier, no edge syntax.
func parseMindmap(markup string, body []string) (*DiagramModel, error) {
	model := &DiagramModel{}

	type frame struct {
		indent int
		id     string
	}
	var stack []frame

	for i, line := range body {
		label := strings.TrimSpace(line)
		indent := len(line) - len(strings.TrimLeft(line, " \t"))

		id := fmt.Sprintf("n%d", i)
		shape := ShapeRounded

		// Pop back to this node's parent tier.
		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			if len(model.Nodes) > 0 {
				return nil, newError(markup, "mindmap has more than one root: %q", label)
			}
			model.Title = label
			shape = ShapeCircle
		} else {
			model.Edges = append(model.Edges, Edge{From: stack[len(stack)-1].id, To: id})
		}

		model.Nodes = append(model.Nodes, &Node{ID: id, Label: label, Shape: shape})
		stack = append(stack, frame{indent: indent, id: id})
	}

	return model, nil
}

var (
	// nodeRefRe matches a node reference with an optional shaped label:
	// id, id[Label], id(Label), id([Label]), id((Label)), id{Label}.
	nodeRefRe = regexp.MustCompile(`^(\w+)\s*(?:\(\[(.*)\]\)|\(\((.*)\)\)|\[(.*)\]|\((.*)\)|\{(.*)\})?$`)

	// edgeLabelRe matches the optional |label| immediately after an arrow.
	edgeLabelRe = regexp.MustCompile(`^\|([^|]*)\|\s*`)
)

// parseNodeRef decodes one node reference, returning its id, label, and
// shape. Reports ok=false for tokens that are not node references.
func parseNodeRef(token string) (id, label string, shape NodeShape, ok bool) {
	m := nodeRefRe.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return "", "", "", false
	}

	id = m[1]
	switch {
	case m[2] != "":
		return id, m[2], ShapeEllipse, true // stadium: start/end points
	case m[3] != "":
		return id, m[3], ShapeCircle, true
	case m[4] != "":
		return id, m[4], ShapeBox, true
	case m[5] != "":
		return id, m[5], ShapeRounded, true
	case m[6] != "":
		return id, m[6], ShapeDiamond, true
	}
	return id, "", ShapeBox, true
}

// parseFlowGraph reads flowchart and organization chart bodies: node
// declarations and --> edges, with optional |labels|.
func parseFlowGraph(markup string, body []string) (*DiagramModel, error) {
	model := &DiagramModel{}

	for _, line := range body {
		line = strings.TrimSpace(line)

		// Subgraph wrappers carry no structure we draw.
		if strings.HasPrefix(line, "subgraph") || line == "end" {
			continue
		}

		if !strings.Contains(line, "-->") {
			if id, label, shape, ok := parseNodeRef(line); ok {
				model.ensureNode(id, label, shape)
				continue
			}
			return nil, newError(markup, "unrecognized line %q", firstWords(line))
		}

		segments := strings.Split(line, "-->")
		prev := ""
		for i, segment := range segments {
			segment = strings.TrimSpace(segment)

			edgeLabel := ""
			if i > 0 {
				if m := edgeLabelRe.FindStringSubmatch(segment); m != nil {
					edgeLabel = m[1]
					segment = segment[len(m[0]):]
				}
			}

			id, label, shape, ok := parseNodeRef(segment)
			if !ok {
				return nil, newError(markup, "unrecognized node reference %q", firstWords(segment))
			}
			model.ensureNode(id, label, shape)

			if i > 0 {
				model.Edges = append(model.Edges, Edge{From: prev, To: id, Label: edgeLabel})
			}
			prev = id
		}
	}

	return model, nil
}

// sequenceMsgRe matches one sequence message: A->>B: text, with -->> for
// replies.
var sequenceMsgRe = regexp.MustCompile(`^(\w+)\s*(-->>|->>|-->|->)\s*(\w+)\s*:\s*(.*)$`)

// parseSequence reads participant declarations and chronological messages.
// Message order is preserved by numbering edge labels.
func parseSequence(markup string, body []string) (*DiagramModel, error) {
	model := &DiagramModel{}
	msgNum := 0

	for _, line := range body {
		line = strings.TrimSpace(line)

		if name, found := strings.CutPrefix(line, "participant "); found {
			model.ensureNode(strings.TrimSpace(name), strings.TrimSpace(name), ShapeBox)
			continue
		}
		if name, found := strings.CutPrefix(line, "actor "); found {
			model.ensureNode(strings.TrimSpace(name), strings.TrimSpace(name), ShapeBox)
			continue
		}

		m := sequenceMsgRe.FindStringSubmatch(line)
		if m == nil {
			return nil, newError(markup, "unrecognized sequence line %q", firstWords(line))
		}

		from, arrow, to, text := m[1], m[2], m[3], m[4]
		model.ensureNode(from, from, ShapeBox)
		model.ensureNode(to, to, ShapeBox)

		msgNum++
		model.Edges = append(model.Edges, Edge{
			From:   from,
			To:     to,
			Label:  fmt.Sprintf("%d. %s", msgNum, text),
			Dashed: strings.HasPrefix(arrow, "--"),
		})
	}

	return model, nil
}

// parseTimeline reads a title, section headings, and "period : event" lines.
// Events are chained in chronological order and grouped by section.
func parseTimeline(markup string, body []string) (*DiagramModel, error) {
	model := &DiagramModel{}
	var cluster *Cluster
	prevID := ""

	for i, line := range body {
		line = strings.TrimSpace(line)

		if title, found := strings.CutPrefix(line, "title "); found {
			model.Title = strings.TrimSpace(title)
			continue
		}
		if section, found := strings.CutPrefix(line, "section "); found {
			model.Clusters = append(model.Clusters, Cluster{Label: strings.TrimSpace(section)})
			cluster = &model.Clusters[len(model.Clusters)-1]
			continue
		}

		period, event, found := strings.Cut(line, ":")
		label := strings.TrimSpace(period)
		if found {
			label = fmt.Sprintf("%s\n%s", strings.TrimSpace(period), strings.TrimSpace(event))
		}

		id := fmt.Sprintf("t%d", i)
		model.Nodes = append(model.Nodes, &Node{ID: id, Label: label, Shape: ShapeBox})
		if prevID != "" {
			model.Edges = append(model.Edges, Edge{From: prevID, To: id})
		}
		prevID = id

		if cluster != nil {
			cluster.NodeIDs = append(cluster.NodeIDs, id)
		}
	}

	return model, nil
}

// ganttDateRe matches an explicit calendar date as the schedule grammar
// requires.
var ganttDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// parseGantt reads the dateFormat/title preamble, section headings, and
// task lines of the form "Task name :2024-01-01, 2024-01-05".
// Tasks without an explicit calendar date are a render error: the schedule
// dialect demands absolute dates, not relative offsets.
func parseGantt(markup string, body []string) (*DiagramModel, error) {
	model := &DiagramModel{}
	var cluster *Cluster
	prevID := ""
	taskNum := 0

	for _, line := range body {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "dateFormat") || strings.HasPrefix(line, "axisFormat") ||
			strings.HasPrefix(line, "excludes") {
			continue
		}
		if title, found := strings.CutPrefix(line, "title "); found {
			model.Title = strings.TrimSpace(title)
			continue
		}
		if section, found := strings.CutPrefix(line, "section "); found {
			model.Clusters = append(model.Clusters, Cluster{Label: strings.TrimSpace(section)})
			cluster = &model.Clusters[len(model.Clusters)-1]
			continue
		}

		name, spans, found := strings.Cut(line, ":")
		if !found {
			return nil, newError(markup, "unrecognized schedule line %q", firstWords(line))
		}
		name = strings.TrimSpace(name)

		dates := ganttDateRe.FindAllString(spans, -1)
		if len(dates) == 0 {
			return nil, newError(markup, "task %q has no explicit calendar date", name)
		}

		taskNum++
		id := fmt.Sprintf("task%d", taskNum)
		model.Nodes = append(model.Nodes, &Node{
			ID:    id,
			Label: fmt.Sprintf("%s\n%s", name, strings.Join(dates, " – ")),
			Shape: ShapeBox,
		})
		if prevID != "" {
			model.Edges = append(model.Edges, Edge{From: prevID, To: id})
		}
		prevID = id

		if cluster != nil {
			cluster.NodeIDs = append(cluster.NodeIDs, id)
		}
	}

	return model, nil
}
