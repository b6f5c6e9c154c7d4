package genes

import (
	"fmt"
	"strings"
	"time"

	"github.com/grailbio/base/log"
)

// FaultInjectionScaffold is a reserved scaffold identifier whose processing
// always fails, exercising the per-scaffold failure isolation path end to
// end. The literal matches the identifier the upstream profiler reserves
// for the same purpose.
const FaultInjectionScaffold = "FailureScaffoldHeaderTesting"

// stageTrace accumulates wall-clock stage timings for one scaffold so the
// aggregator can surface slow scaffolds at debug level.
type stageTrace struct {
	b strings.Builder
}

func newStageTrace(scaffold string) *stageTrace {
	t := &stageTrace{}
	fmt.Fprintf(&t.b, "scaffold %s:", scaffold)
	return t
}

func (t *stageTrace) add(stage string, d time.Duration) {
	fmt.Fprintf(&t.b, " %s=%s", stage, d)
}

func (t *stageTrace) String() string {
	return t.b.String()
}

// profileScaffold runs the per-gene computations for one scaffold: depth
// summaries across cumulative coverage snapshots, clonality summaries across
// diversity snapshots, variant density, then variant effects. A scaffold
// missing from the coverage or diversity store contributes empty tables for
// the affected metrics and is logged, not failed.
func profileScaffold(rc *RunContext, scaffold string) *ScaffoldResult {
	if scaffold == FaultInjectionScaffold {
		panic(fmt.Sprintf("profileScaffold: reserved scaffold %q", scaffold))
	}
	gs := rc.Genes.ScaffoldGenes(scaffold)
	res := &ScaffoldResult{Scaffold: scaffold}
	trace := newStageTrace(scaffold)

	if cov := rc.Coverage[scaffold]; cov != nil {
		start := time.Now()
		res.Coverage = calcGeneCoverage(gs, cov)
		trace.add("coverage", time.Since(start))
	} else {
		log.Printf("profileScaffold: scaffold %s has no coverage profile", scaffold)
	}

	if div := rc.Diversity[scaffold]; div != nil {
		start := time.Now()
		res.Clonality = calcGeneClonality(gs, div)
		trace.add("clonality", time.Since(start))
	} else {
		log.Printf("profileScaffold: scaffold %s has no diversity profile", scaffold)
	}

	variants := rc.Variants[scaffold]
	start := time.Now()
	res.Density = calcGeneSNPDensity(gs, variants)
	trace.add("density", time.Since(start))

	start = time.Now()
	res.Mutations = characterizeVariants(gs, rc.Sequences, variants)
	trace.add("effects", time.Since(start))

	res.Trace = trace.String()
	return res
}
