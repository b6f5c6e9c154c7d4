package genes

import (
	"runtime"
	"sync"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"

	"github.com/liupfskygre/inStrain/profile"
)

// RunContext carries the inputs shared by every worker: the gene table, the
// gene sequences, and the per-scaffold profiles of the scaffolds being
// processed. It is built once, before workers start, and never mutated
// afterwards; workers treat every field as read-only.
type RunContext struct {
	Genes     *Table
	Sequences SequenceMap
	Opts      Opts

	// Coverage, Diversity and Variants are keyed by scaffold and restricted
	// to the run's scaffold set. A scaffold may be missing from Coverage or
	// Diversity; the processor reports empty tables for it.
	Coverage  map[string]profile.CoverageProfile
	Diversity map[string]profile.DiversityProfile
	Variants  map[string][]profile.VariantRecord

	scaffolds []string
}

// Scaffolds returns the scaffolds this run processes: those with both gene
// calls and profile data, sorted.
func (rc *RunContext) Scaffolds() []string {
	return rc.scaffolds
}

// NewRunContext loads everything the workers need from the store: the
// profiles of every scaffold appearing in both the gene table and the
// store, plus the variant table grouped by scaffold. Scaffolds outside that
// intersection are dropped from the run up front.
func NewRunContext(store *profile.Store, t *Table, seqs SequenceMap, opts Opts) (*RunContext, error) {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.EstimateCost == nil {
		opts.EstimateCost = LinearCost(DefaultSecondsPerGene)
	}
	stored, err := store.Scaffolds()
	if err != nil {
		return nil, err
	}
	inStore := make(map[string]bool, len(stored))
	for _, s := range stored {
		inStore[s] = true
	}
	rc := &RunContext{
		Genes:     t,
		Sequences: seqs,
		Opts:      opts,
		Coverage:  make(map[string]profile.CoverageProfile),
		Diversity: make(map[string]profile.DiversityProfile),
		Variants:  make(map[string][]profile.VariantRecord),
	}
	for _, s := range t.Scaffolds() {
		if inStore[s] {
			rc.scaffolds = append(rc.scaffolds, s)
		}
	}
	log.Printf("NewRunContext: %d scaffolds with gene calls, %d profiled, %d in common",
		len(t.Scaffolds()), len(stored), len(rc.scaffolds))

	var mu sync.Mutex
	err = traverse.Each(len(rc.scaffolds), func(i int) error {
		s := rc.scaffolds[i]
		cov, err := store.Coverage(s)
		if err != nil {
			return err
		}
		div, err := store.Diversity(s)
		if err != nil {
			return err
		}
		mu.Lock()
		if cov != nil {
			rc.Coverage[s] = cov
		}
		if div != nil {
			rc.Diversity[s] = div
		}
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	variants, err := store.Variants()
	if err != nil {
		return nil, err
	}
	inRun := make(map[string]bool, len(rc.scaffolds))
	for _, s := range rc.scaffolds {
		inRun[s] = true
	}
	for _, v := range variants {
		if inRun[v.Scaffold] {
			rc.Variants[v.Scaffold] = append(rc.Variants[v.Scaffold], v)
		}
	}
	return rc, nil
}
