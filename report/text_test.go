package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aclements/staticauditor/deadcode"
	"github.com/aclements/staticauditor/report"
	"github.com/aclements/staticauditor/taint"
)

func TestWriteTextReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	report.WriteTextReport(&buf, report.Stats{}, nil, nil)
	out := buf.String()
	if !strings.Contains(out, "no taint flows found") {
		t.Errorf("output missing no-flows line:\n%s", out)
	}
	if !strings.Contains(out, "no dead code found") {
		t.Errorf("output missing no-dead-code line:\n%s", out)
	}
}

func TestWriteTextReportFlowsAndFindings(t *testing.T) {
	var buf bytes.Buffer
	flows := []taint.TaintFlow{{SourceType: "SECRET", ArgIndex: 0}}
	findings := []deadcode.Finding{{Reason: deadcode.UnreachableCode}}
	report.WriteTextReport(&buf, report.Stats{ReachableMethods: 3}, flows, findings)
	out := buf.String()
	if !strings.Contains(out, "SECRET") {
		t.Errorf("output missing taint flow type:\n%s", out)
	}
	if !strings.Contains(out, "unreachable code") {
		t.Errorf("output missing dead-code reason:\n%s", out)
	}
	if !strings.Contains(out, "reachable methods: 3") {
		t.Errorf("output missing stats line:\n%s", out)
	}
}
