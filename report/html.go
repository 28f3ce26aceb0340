package report

import (
	"bytes"
	"html/template"
	"io"
	"log"
	"os/exec"

	"github.com/aclements/staticauditor/deadcode"
	"github.com/aclements/staticauditor/pta"
	"github.com/aclements/staticauditor/taint"
)

var htmlTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><title>static analysis report</title></head>
<body>
<h1>call graph</h1>
{{.CallGraphSVG}}
<h1>taint flows</h1>
<ul>
{{range .Flows}}<li>{{.SourceSite}} ({{.SourceType}}) &rarr; arg {{.ArgIndex}} of {{.SinkSite}}</li>
{{end}}
</ul>
<h1>dead code</h1>
<ul>
{{range .DeadCode}}<li>[{{.Reason}}]</li>
{{end}}
</ul>
</body>
</html>
`))

type htmlData struct {
	CallGraphSVG template.HTML
	Flows        []taint.TaintFlow
	DeadCode     []deadcode.Finding
}

// WriteHTMLReport writes a self-contained interactive HTML report to
// w, in the shape of rtcheck's WriteToHTML (rtcheck/order.go): the
// call graph is rendered to SVG by shelling out to the `dot` binary
// and inlined directly into the page, exactly as rtcheck does for its
// lock graph. If dot is not on $PATH, the raw dot source is embedded
// as a <pre> block instead of failing the whole report.
func WriteHTMLReport(w io.Writer, result *pta.Result, flows []taint.TaintFlow, findings []deadcode.Finding) error {
	var dotSrc bytes.Buffer
	WriteCallGraphDot(&dotSrc, result)

	svg := renderDot(dotSrc.Bytes())

	return htmlTmpl.Execute(w, htmlData{
		CallGraphSVG: template.HTML(svg),
		Flows:        flows,
		DeadCode:     findings,
	})
}

// renderDot shells out to `dot -Tsvg`. A missing `dot` binary degrades
// to a <pre> of the raw source instead of failing outright, since a
// report command should still produce useful output without an
// external tool installed.
func renderDot(dotSrc []byte) []byte {
	cmd := exec.Command("dot", "-Tsvg")
	cmd.Stdin = bytes.NewReader(dotSrc)
	out, err := cmd.Output()
	if err != nil {
		log.Printf("report: running dot: %v (falling back to raw source)", err)
		return []byte("<pre>" + template.HTMLEscapeString(string(dotSrc)) + "</pre>")
	}
	if i := bytes.Index(out, []byte("<svg")); i > 0 {
		out = out[i:]
	}
	return out
}
