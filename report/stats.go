package report

import (
	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/staticauditor/pta"
)

// Stats summarizes a completed pointer-analysis run: the same kind of
// descriptive statistics benchmany's ComputeStats (readlog.go) derives
// from a benchmark's raw samples, computed here over points-to-set
// sizes and call-graph out-degree instead of benchmark measurements.
type Stats struct {
	ReachableMethods  int
	CallGraphEdges    int
	Vars              int
	MeanPointsToSize  float64
	MeanOutDegree     float64
}

// Compute derives Stats from a completed pointer-analysis result.
func Compute(result *pta.Result) Stats {
	vars := result.Vars()
	sizes := make([]float64, 0, len(vars))
	for _, v := range vars {
		sizes = append(sizes, float64(len(result.PointsToMerged(v))))
	}

	methods := result.ReachableMethods()
	outDegree := make([]float64, 0, len(methods))
	for _, m := range methods {
		outDegree = append(outDegree, float64(len(result.CG.OutEdges(m))))
	}

	return Stats{
		ReachableMethods: len(methods),
		CallGraphEdges:   len(result.CallGraphEdges()),
		Vars:             len(vars),
		MeanPointsToSize: stats.Mean(sizes),
		MeanOutDegree:    stats.Mean(outDegree),
	}
}
