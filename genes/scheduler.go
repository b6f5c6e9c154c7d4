package genes

// CostFunc estimates the wall-clock seconds needed to profile one scaffold
// from its gene count. The scheduler treats the estimate as opaque, so a
// better model (one that weighs profile density, say) drops in without
// touching the batching logic.
type CostFunc func(geneCount int) float64

// DefaultSecondsPerGene is the slope of the default linear cost model.
const DefaultSecondsPerGene = 0.01

// maxBatchSeconds caps the per-batch cost target: small batches cost
// scheduling overhead, large ones risk one worker finishing long after the
// rest.
const maxBatchSeconds = 60.0

// LinearCost returns a cost model charging a constant time per gene.
func LinearCost(secondsPerGene float64) CostFunc {
	return func(geneCount int) float64 {
		return float64(geneCount) * secondsPerGene
	}
}

// Batch is one unit of work handed to a worker: a run of consecutive
// scaffolds plus the scheduler's cost estimate for the run. Each batch is
// consumed exactly once.
type Batch struct {
	Scaffolds []string
	Cost      float64
}

// planBatches groups scaffolds into batches of roughly equal estimated
// cost. The per-batch target is total estimated cost split evenly across
// workers plus one, capped at maxBatchSeconds. Scaffolds are taken in the
// order given; a batch is cut as soon as its accumulated cost reaches the
// target, and a final partial batch is emitted whenever scaffolds remain.
// Every scaffold lands in exactly one batch.
func planBatches(t *Table, scaffolds []string, cost CostFunc, workers int) []Batch {
	costs := make([]float64, len(scaffolds))
	total := 0.0
	for i, s := range scaffolds {
		costs[i] = cost(t.GeneCount(s))
		total += costs[i]
	}
	target := total / float64(workers+1)
	if target > maxBatchSeconds {
		target = maxBatchSeconds
	}
	var batches []Batch
	var cur Batch
	for i, s := range scaffolds {
		cur.Scaffolds = append(cur.Scaffolds, s)
		cur.Cost += costs[i]
		if cur.Cost >= target {
			batches = append(batches, cur)
			cur = Batch{}
		}
	}
	if len(cur.Scaffolds) > 0 {
		batches = append(batches, cur)
	}
	return batches
}
