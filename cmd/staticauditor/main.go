// Command staticauditor runs the whole-program pointer, constant-flow,
// taint, and dead-code analyses over one of the package's built-in
// demo programs and writes the resulting reports.
//
// There is no source-language front end here; staticauditor instead
// builds its program directly from internal/toyir's named demo
// builders, the same way this repository's own tests do. It exists to
// exercise the pipeline end to end and to give the report package
// something real to render.
package main

import (
	"flag"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/aclements/staticauditor/callgraph"
	"github.com/aclements/staticauditor/config"
	"github.com/aclements/staticauditor/deadcode"
	"github.com/aclements/staticauditor/icfg"
	"github.com/aclements/staticauditor/internal/toyir"
	"github.com/aclements/staticauditor/ir"
	"github.com/aclements/staticauditor/pta"
	"github.com/aclements/staticauditor/report"
	"github.com/aclements/staticauditor/taint"
)

func main() {
	var (
		demoName    string
		contextSens bool
		k           int
		taintConfig string
		extraArgs   string
		outDot      string
		outHTML     string
		outChart    string
		outText     string
	)
	flag.StringVar(&demoName, "demo", "merge", "built-in demo program to analyze (one of: "+demoNames()+")")
	flag.BoolVar(&contextSens, "cs", false, "use k-call-site-sensitive pointer analysis instead of context-insensitive")
	flag.IntVar(&k, "k", 1, "call-string depth for -cs")
	flag.StringVar(&taintConfig, "taint-config", "", "path to a YAML taint configuration; overrides the demo's built-in config if set")
	flag.StringVar(&extraArgs, "root-args", "", "shell-quoted extra flags, merged into the parsed flag set before running (e.g. -root-args='-cs -k=2')")
	flag.StringVar(&outDot, "dot", "", "write the call graph in dot format to `file`")
	flag.StringVar(&outHTML, "html", "", "write an HTML report to `file`")
	flag.StringVar(&outChart, "chart", "", "write a points-to size histogram SVG to `file`")
	flag.StringVar(&outText, "text", "", "write the text report to `file` instead of stdout")
	flag.Parse()

	if extraArgs != "" {
		args, err := shellquote.Split(extraArgs)
		if err != nil {
			log.Fatalf("staticauditor: parsing -root-args: %v", err)
		}
		if err := flag.CommandLine.Parse(args); err != nil {
			log.Fatalf("staticauditor: applying -root-args: %v", err)
		}
	}

	build, ok := toyir.Demos[demoName]
	if !ok {
		log.Fatalf("staticauditor: unknown -demo %q (want one of: %s)", demoName, demoNames())
	}
	demo := build()

	opts := config.NewOptions()
	reg := config.NewRegistry()

	var ptaResult *pta.Result
	var flows []taint.TaintFlow
	tcfg := demo.TaintConfig
	if taintConfig != "" {
		loaded, err := taint.LoadConfigFile(taintConfig)
		if err != nil {
			log.Fatalf("staticauditor: %v", err)
		}
		tcfg = loaded
	}

	if contextSens {
		solver := pta.NewSolver(pta.NewCallStringSelector(k), demo.Hierarchy, demo.Heap)
		var pipeline *taint.Pipeline
		if tcfg != nil {
			pipeline = taint.NewPipeline(solver, tcfg)
		}
		ptaResult = solver.Solve(demo.Entry)
		if pipeline != nil {
			ptaResult.SetAux("taint", pipeline.Flows)
			flows = pipeline.Flows
		}
	} else {
		ptaResult = pta.SolveCI(demo.Hierarchy, demo.Heap, demo.Entry)
		if tcfg != nil {
			// Taint co-iterates inside the CS solver only; a CI run
			// still gets a points-to result, just no taint flows.
			log.Printf("staticauditor: taint configuration present but -cs not set; taint analysis requires context sensitivity, skipping")
		}
	}

	// Hand the result off through the options/registry indirection
	// rather than threading ptaResult as a bare argument, so the
	// inter-procedural stage is decoupled from how the pointer
	// analysis was actually run (CI or CS, with or without taint).
	reg.Put("pta", ptaResult)
	opts.Set("pta", "pta")
	if taintConfig != "" {
		opts.Set("taint-config", taintConfig)
	}
	resolvedPTA, _, err := icfg.ResolveOptions(opts, reg)
	if err != nil {
		log.Fatalf("staticauditor: %v", err)
	}

	cg := callgraph.BuildCHA(demo.Hierarchy, demo.Entry)
	g := icfg.Build(cg, toyir.CFGFor)

	ciForAlias := resolvedPTA
	if contextSens {
		// The alias extension is defined over a context-insensitive
		// result; a CS run's resolvedPTA isn't one, so solve CI
		// separately for the alias state.
		ciForAlias = pta.SolveCI(demo.Hierarchy, demo.Heap, demo.Entry)
	}
	alias := icfg.NewAliasState(ciForAlias)
	icfgResult := icfg.Solve(g, []*ir.Method{demo.Entry}, alias)

	reachable := make([]*ir.Method, 0, len(cg.Reachable))
	for m := range cg.Reachable {
		if m.Stmts != nil {
			reachable = append(reachable, m)
		}
	}
	sort.Slice(reachable, func(i, j int) bool { return reachable[i].String() < reachable[j].String() })

	var findings []deadcode.Finding
	for _, m := range reachable {
		cfg := toyir.CFGFor(m)
		live := deadcode.AnalyzeLiveness(cfg)
		findings = append(findings, deadcode.Analyze(cfg, icfgResult, live)...)
	}

	stats := report.Compute(ptaResult)

	var textOut *os.File = os.Stdout
	if outText != "" {
		f, err := os.Create(outText)
		if err != nil {
			log.Fatalf("staticauditor: %v", err)
		}
		defer f.Close()
		textOut = f
	}
	report.WriteTextReport(textOut, stats, flows, findings)

	if outDot != "" {
		f, err := os.Create(outDot)
		if err != nil {
			log.Fatalf("staticauditor: %v", err)
		}
		report.WriteCallGraphDot(f, ptaResult)
		f.Close()
	}
	if outHTML != "" {
		f, err := os.Create(outHTML)
		if err != nil {
			log.Fatalf("staticauditor: %v", err)
		}
		if err := report.WriteHTMLReport(f, ptaResult, flows, findings); err != nil {
			log.Fatalf("staticauditor: writing HTML report: %v", err)
		}
		f.Close()
	}
	if outChart != "" {
		f, err := os.Create(outChart)
		if err != nil {
			log.Fatalf("staticauditor: %v", err)
		}
		if err := report.PointsToHistogram(f, ptaResult, 640, 480); err != nil {
			log.Fatalf("staticauditor: writing chart: %v", err)
		}
		f.Close()
	}
}

func demoNames() string {
	names := make([]string, 0, len(toyir.Demos))
	for name := range toyir.Demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
