package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/crypto/ssh/terminal"

	"github.com/aclements/staticauditor/deadcode"
	"github.com/aclements/staticauditor/ir"
	"github.com/aclements/staticauditor/taint"
)

// textWidth picks a line width for the text report: the terminal's
// actual width when stdout is a terminal, matching the same
// TERM/IsTerminal probe stress2's NewStdoutReporter (reporter.go) and
// benchmany's status line (status.go) use, or a fixed fallback width
// for CI/redirected output.
func textWidth() int {
	if os.Getenv("TERM") != "" && os.Getenv("TERM") != "dumb" && terminal.IsTerminal(syscall.Stdout) {
		if w, _, err := terminal.GetSize(syscall.Stdout); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

// WriteTextReport renders a CI-friendly plain-text summary: the
// pointer-analysis stats, every taint flow, and every dead-code
// finding, ordered the way a human scanning top-to-bottom would want
// to triage them (taint flows first, as the more actionable
// findings).
func WriteTextReport(w io.Writer, stats Stats, flows []taint.TaintFlow, findings []deadcode.Finding) {
	width := textWidth()
	rule := strings.Repeat("-", width)

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "reachable methods: %d   call-graph edges: %d   vars: %d\n",
		stats.ReachableMethods, stats.CallGraphEdges, stats.Vars)
	fmt.Fprintf(w, "mean points-to size: %.2f   mean call-graph out-degree: %.2f\n",
		stats.MeanPointsToSize, stats.MeanOutDegree)
	fmt.Fprintln(w, rule)

	if len(flows) == 0 {
		fmt.Fprintln(w, "no taint flows found")
	}
	for _, f := range flows {
		fmt.Fprintf(w, "taint: %s (%s) -> arg %d of %s\n",
			f.SourceSite, f.SourceType, f.ArgIndex, f.SinkSite)
	}

	fmt.Fprintln(w, rule)
	if len(findings) == 0 {
		fmt.Fprintln(w, "no dead code found")
	}
	for _, f := range findings {
		fmt.Fprintf(w, "dead code [%s]: %s\n", f.Reason, stmtSummary(f.Stmt))
	}
}

func stmtSummary(s ir.Stmt) string {
	if str, ok := s.(fmt.Stringer); ok {
		return str.String()
	}
	return fmt.Sprintf("%T", s)
}
