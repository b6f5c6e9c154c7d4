package genes

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/grailbio/base/log"
	"gopkg.in/cheggaaa/pb.v1"
)

// CalculateGeneMetrics profiles every scaffold in the run context, fanning
// cost-balanced batches of scaffolds out to Opts.Workers goroutines, and
// concatenates the per-scaffold tables. Scaffolds that fail are logged and
// dropped; their siblings are unaffected. Empty input yields empty tables.
func CalculateGeneMetrics(rc *RunContext) *Results {
	batches := planBatches(rc.Genes, rc.scaffolds, rc.Opts.EstimateCost, rc.Opts.Workers)
	log.Printf("CalculateGeneMetrics: profiling %d scaffolds in %d batches on %d workers",
		len(rc.scaffolds), len(batches), rc.Opts.Workers)

	batchCh := make(chan Batch, len(batches))
	resultCh := make(chan []*ScaffoldResult, len(batches))
	for _, b := range batches {
		batchCh <- b
	}
	close(batchCh)

	var wg sync.WaitGroup
	if rc.Opts.Workers > 1 {
		for i := 0; i < rc.Opts.Workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				runWorker(rc, batchCh, resultCh)
			}()
		}
	} else {
		// Single-worker mode: the same pull-loop, run synchronously. The
		// queue is already closed and fully buffered, so the loop drains it
		// without blocking.
		runWorker(rc, batchCh, resultCh)
	}

	var bar *pb.ProgressBar
	if rc.Opts.Progress {
		bar = pb.StartNew(len(batches))
		defer bar.Finish()
	}
	// The batch count is known up front; read exactly that many result
	// messages, then join the workers.
	res := &Results{}
	for i := 0; i < len(batches); i++ {
		for _, sr := range <-resultCh {
			if sr == nil {
				continue
			}
			log.Debug.Printf("%s", sr.Trace)
			res.add(sr)
		}
		if bar != nil {
			bar.Increment()
		}
	}
	wg.Wait()
	return res
}

// runWorker drains the batch queue, publishing one result list per batch.
// The list holds one entry per scaffold, nil where processing failed.
func runWorker(rc *RunContext, batchCh <-chan Batch, resultCh chan<- []*ScaffoldResult) {
	for b := range batchCh {
		out := make([]*ScaffoldResult, 0, len(b.Scaffolds))
		for _, scaffold := range b.Scaffolds {
			sr, err := safeProfileScaffold(rc, scaffold)
			if err != nil {
				log.Error.Printf("gene profiling failed for scaffold %s: %v", scaffold, err)
				out = append(out, nil)
				continue
			}
			out = append(out, sr)
		}
		resultCh <- out
	}
}

// safeProfileScaffold isolates one scaffold's computation, converting a
// panic into an error carrying the stack so sibling scaffolds keep going.
func safeProfileScaffold(rc *RunContext, scaffold string) (sr *ScaffoldResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v\n%s", r, debug.Stack())
		}
	}()
	return profileScaffold(rc, scaffold), nil
}
