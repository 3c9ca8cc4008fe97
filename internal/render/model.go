package render

// NodeShape selects the visual shape a node is drawn with.
type NodeShape string

const (
	ShapeBox     NodeShape = "box"
	ShapeRounded NodeShape = "rounded"
	ShapeDiamond NodeShape = "diamond"
	ShapeEllipse NodeShape = "ellipse"
	ShapeCircle  NodeShape = "circle"
)

// DiagramModel is the intermediate representation shared by all dialect
// parsers and consumed by the SVG backend.
type DiagramModel struct {
	Title    string
	Nodes    []*Node
	Edges    []Edge
	Clusters []Cluster
}

// Node is a single element of the diagram.
type Node struct {
	ID    string
	Label string
	Shape NodeShape
}

// Edge connects two nodes, optionally labeled. Dashed edges are used for
// reply messages in sequence diagrams.
type Edge struct {
	From   string
	To     string
	Label  string
	Dashed bool
}

// Cluster groups nodes visually (timeline sections, schedule sections).
type Cluster struct {
	Label   string
	NodeIDs []string
}

// node returns the node with the given ID, or nil.
func (m *DiagramModel) node(id string) *Node {
	for _, n := range m.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// ensureNode adds a node if no node with the ID exists yet, returning the
// existing or new node. An empty label defaults to the ID.
func (m *DiagramModel) ensureNode(id, label string, shape NodeShape) *Node {
	if n := m.node(id); n != nil {
		if label != "" && n.Label == n.ID {
			n.Label = label
		}
		return n
	}
	if label == "" {
		label = id
	}
	n := &Node{ID: id, Label: label, Shape: shape}
	m.Nodes = append(m.Nodes, n)
	return n
}
