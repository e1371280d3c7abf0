package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/bundlegraph/pkg/dag"
	"github.com/matzehuels/bundlegraph/pkg/engine"
)

// Options configures DOT generation.
type Options struct {
	// Report colours nodes by status and labels edges with asset counts.
	Report *engine.Report
	// Detailed adds node ids and revisit reasons to the labels.
	Detailed bool
	// Horizontal lays the graph out left to right.
	Horizontal bool
}

// Fill colours by node status.
var statusFill = map[engine.Status]string{
	engine.StatusCached:   "#e8f5e9",
	engine.StatusFailed:   "#ffcdd2",
	engine.StatusBlocked:  "#eeeeee",
	engine.StatusPrepared: "#e3f2fd",
	engine.StatusAborted:  "#fff9c4",
}

// builtFill marks nodes that ran Build in the reported run.
const builtFill = "#bbdefb"

// ToDOT converts g to Graphviz DOT. Nodes and edges appear in graph
// insertion order so the output is stable.
func ToDOT(g *dag.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.Horizontal {
		buf.WriteString("  rankdir=LR;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=11];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, c := range g.Connections() {
		attrs := edgeAttrs(g, c, opts)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", c.FromNodeID, c.ToNodeID)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", c.FromNodeID, c.ToNodeID, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n *dag.Node, res engine.NodeResult, ok, detailed bool) string {
	lines := []string{n.Name, "<" + string(n.Kind()) + ">"}
	if !detailed {
		return strings.Join(lines, "\n")
	}
	lines = append(lines, n.ID)
	if ok && res.Dirty {
		lines = append(lines, "revisit: "+res.Reason)
	}
	return strings.Join(lines, "\n")
}

func nodeAttrs(n *dag.Node, opts Options) []string {
	var res engine.NodeResult
	var ok bool
	if opts.Report != nil {
		res, ok = opts.Report.Result(n.ID)
	}
	attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n, res, ok, opts.Detailed))}
	if !ok {
		return attrs
	}
	fill := statusFill[res.Status]
	if res.Built && res.Status == engine.StatusCached {
		fill = builtFill
	}
	if fill != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
	}
	switch res.Status {
	case engine.StatusFailed:
		attrs = append(attrs, "color=\"#c62828\"", "penwidth=2")
	case engine.StatusBlocked, engine.StatusAborted:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

func edgeAttrs(g *dag.Graph, c *dag.Connection, opts Options) []string {
	var labels []string
	if _, p, ok := g.FindPoint(c.FromPointID); ok && p.Label != dag.DefaultOutputLabel {
		labels = append(labels, p.Label)
	}
	if opts.Report != nil {
		if res, ok := opts.Report.Result(c.FromNodeID); ok {
			if gs, ok := res.Outputs[c.ID]; ok {
				labels = append(labels, fmt.Sprintf("%d assets", gs.Count()))
			}
		}
	}
	if len(labels) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("label=%q", strings.Join(labels, "\n"))}
}
