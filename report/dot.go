package report

import (
	"fmt"
	"io"

	"github.com/aclements/staticauditor/pta"
)

// WriteCallGraphDot writes result's context-sensitive call graph in
// the dot language to w, in the same style as rtcheck's lock-graph
// dot writer (rtcheck/order.go's WriteToDot): one node per method,
// one edge per call-graph edge, labeled by call kind.
func WriteCallGraphDot(w io.Writer, result *pta.Result) {
	fmt.Fprintf(w, "digraph callgraph {\n")
	fmt.Fprintf(w, "  tooltip=\" \";\n")
	seen := map[*pta.CSMethod]bool{}
	id := map[*pta.CSMethod]string{}
	next := 0
	nodeID := func(m *pta.CSMethod) string {
		if s, ok := id[m]; ok {
			return s
		}
		s := fmt.Sprintf("m%d", next)
		next++
		id[m] = s
		return s
	}
	for _, e := range result.CallGraphEdges() {
		from, to := nodeID(e.Caller), nodeID(e.Callee)
		fmt.Fprintf(w, "  %s -> %s [label=%q];\n", from, to, e.Kind.String())
		if !seen[e.Caller] {
			seen[e.Caller] = true
			fmt.Fprintf(w, "  %s [label=%q];\n", from, e.Caller.String())
		}
		if !seen[e.Callee] {
			seen[e.Callee] = true
			fmt.Fprintf(w, "  %s [label=%q];\n", to, e.Callee.String())
		}
	}
	fmt.Fprintf(w, "}\n")
}
