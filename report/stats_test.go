package report_test

import (
	"testing"

	"github.com/aclements/staticauditor/internal/toyir"
	"github.com/aclements/staticauditor/pta"
	"github.com/aclements/staticauditor/report"
)

func TestComputeCountsReachableMethodsAndVars(t *testing.T) {
	demo := toyir.BuildMergeDemo()
	result := pta.SolveCI(demo.Hierarchy, demo.Heap, demo.Entry)

	stats := report.Compute(result)
	if stats.ReachableMethods == 0 {
		t.Error("ReachableMethods = 0, want > 0")
	}
	if stats.Vars == 0 {
		t.Error("Vars = 0, want > 0")
	}
	if stats.MeanPointsToSize <= 0 {
		t.Errorf("MeanPointsToSize = %v, want > 0 (the merged variable points to two objects)", stats.MeanPointsToSize)
	}
}
