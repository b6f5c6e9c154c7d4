package genes

// Opts contains the run-level knobs for gene profiling.
type Opts struct {
	// Workers is the number of concurrent scaffold processors. 1 profiles
	// scaffolds synchronously on the calling goroutine; 0 means
	// runtime.NumCPU().
	Workers int
	// EstimateCost predicts per-scaffold runtime for the batch scheduler.
	// Nil selects LinearCost(DefaultSecondsPerGene).
	EstimateCost CostFunc
	// MinANI is the population-ANI level used to pick the reporting
	// threshold for the gene info table. 0 admits every threshold. Values
	// above 1 are read as percentages.
	MinANI float64
	// Progress draws a terminal progress bar, one tick per finished batch.
	Progress bool
}

// DefaultOpts mirror the upstream profiler's defaults.
var DefaultOpts = Opts{
	Workers: 6,
	MinANI:  0,
}
