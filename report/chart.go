package report

import (
	"io"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/staticauditor/pta"
)

// ptsSample is one row of the points-to-set-size sample table: one
// row per variable the solver created a VarPtr for, carrying the
// final size of its points-to set.
type ptsSample struct {
	Size float64
}

// PointsToHistogram renders a kernel-density estimate of points-to
// set sizes across every variable in result — the same "grammar of
// graphics" pipeline benchplot/plot.go uses for its benchmark charts
// (table.TableFromStructs -> ggstat.Density -> gg.LayerPaths ->
// Plot.WriteSVG), applied here to a pointer-analysis result instead
// of a benchmark table.
func PointsToHistogram(w io.Writer, result *pta.Result, width, height int) error {
	var rows []ptsSample
	for _, v := range result.Vars() {
		rows = append(rows, ptsSample{Size: float64(len(result.PointsToMerged(v)))})
	}
	if len(rows) == 0 {
		rows = []ptsSample{{Size: 0}}
	}

	tab := table.TableFromStructs(rows)
	plot := gg.NewPlot(tab)
	plot.SetData(ggstat.Density{X: "Size"}.F(plot.Data()))
	plot.Add(gg.LayerPaths{})
	return plot.WriteSVG(w, width, height)
}

// convergenceSample is one row of the CP worklist convergence sample:
// the number of nodes whose out-fact changed during a given worklist
// pass.
type convergenceSample struct {
	Iteration float64
	Changed   float64
}

// ConvergenceChart renders how many nodes still had a changing
// out-fact at each iteration of an inter-procedural CP solve, for
// visual confirmation that the worklist is actually converging rather
// than oscillating. counts[i] is the number of nodes whose out-fact
// changed during worklist pass i.
func ConvergenceChart(w io.Writer, counts []int, width, height int) error {
	var rows []convergenceSample
	for i, c := range counts {
		rows = append(rows, convergenceSample{Iteration: float64(i), Changed: float64(c)})
	}
	if len(rows) == 0 {
		rows = []convergenceSample{{Iteration: 0, Changed: 0}}
	}

	tab := table.TableFromStructs(rows)
	plot := gg.NewPlot(tab)
	plot.Add(gg.LayerLines{X: "Iteration", Y: "Changed"})
	return plot.WriteSVG(w, width, height)
}
