// Package genes computes gene-level population-genetics metrics from the
// per-position profiles produced by the upstream read profiler: mean depth
// and breadth of coverage, clonality and microdiversity, variant density,
// and per-variant mutation effects, each reported across the family of
// mismatch thresholds present in the run. Scaffolds are processed in
// parallel by a cost-balanced worker pool.
package genes

import (
	"sort"
)

// GeneRecord describes one gene call on a scaffold. Coordinates are 0-based
// and inclusive on both ends. Direction is +1 for genes annotated on the
// forward strand and -1 for the reverse strand.
type GeneRecord struct {
	Gene      string
	Scaffold  string
	Start     int
	End       int
	Direction int
	// Partial marks genes whose call runs off a contig edge.
	Partial bool
}

// Length returns the gene span in bases.
func (g *GeneRecord) Length() int {
	return g.End - g.Start + 1
}

// SequenceMap maps a gene identifier to its nucleotide sequence, oriented
// 5'->3' on the coding strand as annotated and uppercased. Shared read-only
// across workers.
type SequenceMap map[string]string

// Table is an immutable collection of gene records ordered by scaffold and
// then start coordinate.
type Table struct {
	records    []GeneRecord
	byScaffold map[string][]GeneRecord
	scaffolds  []string
}

// NewTable copies records into a table, ordering them by scaffold, start,
// and gene identifier.
func NewTable(records []GeneRecord) *Table {
	t := &Table{
		records:    append([]GeneRecord(nil), records...),
		byScaffold: make(map[string][]GeneRecord),
	}
	sort.SliceStable(t.records, func(i, j int) bool {
		ri, rj := &t.records[i], &t.records[j]
		if ri.Scaffold != rj.Scaffold {
			return ri.Scaffold < rj.Scaffold
		}
		if ri.Start != rj.Start {
			return ri.Start < rj.Start
		}
		return ri.Gene < rj.Gene
	})
	start := 0
	for i := 1; i <= len(t.records); i++ {
		if i == len(t.records) || t.records[i].Scaffold != t.records[start].Scaffold {
			name := t.records[start].Scaffold
			t.byScaffold[name] = t.records[start:i:i]
			t.scaffolds = append(t.scaffolds, name)
			start = i
		}
	}
	return t
}

// Len returns the number of gene records.
func (t *Table) Len() int {
	return len(t.records)
}

// Records returns all gene records in table order. Callers must not modify
// the returned slice.
func (t *Table) Records() []GeneRecord {
	return t.records
}

// Scaffolds returns the scaffold names appearing in the table, sorted.
func (t *Table) Scaffolds() []string {
	return t.scaffolds
}

// ScaffoldGenes returns the records for one scaffold in start order, or nil
// if the scaffold has no gene calls.
func (t *Table) ScaffoldGenes(scaffold string) []GeneRecord {
	return t.byScaffold[scaffold]
}

// GeneCount returns the number of gene calls on one scaffold.
func (t *Table) GeneCount(scaffold string) int {
	return len(t.byScaffold[scaffold])
}
