package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// RenderSVG lays out a DiagramModel top-to-bottom with graphviz and returns
// the SVG bytes.
func RenderSVG(ctx context.Context, model *DiagramModel) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("render: create graphviz: %w", err)
	}
	defer gv.Close()

	gv.SetLayout(graphviz.DOT)

	graph, err := gv.Graph()
	if err != nil {
		return nil, fmt.Errorf("render: create graph: %w", err)
	}
	defer graph.Close()

	graph.SetRankDir(cgraph.TBRank)
	if model.Title != "" {
		graph.SetLabel(model.Title)
	}

	gvNodes := make(map[string]*cgraph.Node, len(model.Nodes))
	for _, node := range model.Nodes {
		gvNode, nErr := graph.CreateNodeByName(node.ID)
		if nErr != nil {
			return nil, fmt.Errorf("render: create node %s: %w", node.ID, nErr)
		}
		gvNode.SetLabel(node.Label)
		applyShape(gvNode, node.Shape)
		gvNodes[node.ID] = gvNode
	}

	// Section clusters (timeline eras, schedule sections).
	for i, cluster := range model.Clusters {
		sub, subErr := graph.CreateSubGraphByName(fmt.Sprintf("cluster_%d", i))
		if subErr != nil {
			continue
		}
		sub.SetLabel(cluster.Label)
		sub.SetStyle(cgraph.DashedGraphStyle)

		for _, id := range cluster.NodeIDs {
			if gvNode := gvNodes[id]; gvNode != nil {
				sub.CreateNodeByName(id)
			}
		}
	}

	for _, edge := range model.Edges {
		fromGV, toGV := gvNodes[edge.From], gvNodes[edge.To]
		if fromGV == nil || toGV == nil {
			continue
		}
		e, eErr := graph.CreateEdgeByName("", fromGV, toGV)
		if eErr != nil {
			continue
		}
		if edge.Label != "" {
			e.SetLabel(edge.Label)
		}
		if edge.Dashed {
			e.SetStyle(cgraph.DashedEdgeStyle)
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: render SVG: %w", err)
	}

	return buf.Bytes(), nil
}

// applyShape maps the model shape to graphviz node attributes.
func applyShape(gvNode *cgraph.Node, shape NodeShape) {
	switch shape {
	case ShapeDiamond:
		gvNode.SetShape(cgraph.DiamondShape)
	case ShapeEllipse:
		gvNode.SetShape(cgraph.EllipseShape)
	case ShapeCircle:
		gvNode.SetShape(cgraph.CircleShape)
	case ShapeRounded:
		gvNode.SetShape(cgraph.BoxShape)
		gvNode.SetStyle(cgraph.RoundedNodeStyle)
	default:
		gvNode.SetShape(cgraph.BoxShape)
	}
}
