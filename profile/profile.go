// Package profile reads and writes the keyed tables produced by the upstream
// read profiler for one sequencing run: per-scaffold read depth and clonality
// partitioned by mismatch threshold, the cumulative variant table, and run
// metadata. The backing file is a single bolt database with msgpack-encoded
// values, so a store can be handed between the profiler, this engine, and
// tests as one path.
package profile

import "sort"

// CoverageProfile maps a mismatch threshold to the read depth observed at
// exactly that threshold, keyed by 0-based scaffold position. Values are
// per-threshold deltas: depth contributed by reads admitted at exactly that
// threshold, not running totals.
type CoverageProfile map[int]map[int]int

// DiversityProfile maps a mismatch threshold to per-position clonality
// values in [0, 1] observed at exactly that threshold.
type DiversityProfile map[int]map[int]float64

// VariantRecord is one row of the cumulative variant table.
type VariantRecord struct {
	Scaffold string
	// Position is 0-based on the scaffold.
	Position int
	// MM is the mismatch threshold the call was made at. A position called
	// at several thresholds appears once per threshold.
	MM      int
	RefBase byte
	ConBase byte
	VarBase byte
	// Cryptic marks calls excluded from mutation-effect analysis by the
	// profiler's quality policy.
	Cryptic bool
	// AlleleCount is the number of alleles passing filters at the position.
	AlleleCount int
}

// RunInfo is the metadata block stored alongside the profiler's tables.
type RunInfo struct {
	// MeanReadLength is the average length of a read pair, used to convert
	// ANI levels into mismatch thresholds.
	MeanReadLength float64
	// Workers is the process count the profiler ran with; consumers may use
	// it as a default.
	Workers int
	// SkipMMProfiling is set when read tracking was reduced to unordered
	// sets, collapsing all tables onto a single threshold.
	SkipMMProfiling bool
}

// SortByMM stably sorts variant records by ascending mismatch threshold,
// preserving the profiler's emission order within a threshold.
func SortByMM(recs []VariantRecord) {
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].MM < recs[j].MM })
}
