package genes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/biogo/store/interval"

	"github.com/liupfskygre/inStrain/profile"
)

// geneInterval adapts one gene record to the interval-tree interface. The
// tree works on half-open ranges, so end is the gene's inclusive end plus
// one.
type geneInterval struct {
	id         uintptr
	start, end int
}

func (iv geneInterval) Overlap(b interval.IntRange) bool {
	return iv.start < b.End && b.Start < iv.end
}

func (iv geneInterval) ID() uintptr { return iv.id }

func (iv geneInterval) Range() interval.IntRange {
	return interval.IntRange{Start: iv.start, End: iv.end}
}

// geneIndex answers point queries against one scaffold's gene intervals.
type geneIndex struct {
	genes []GeneRecord
	tree  interval.IntTree
}

func newGeneIndex(gs []GeneRecord) *geneIndex {
	idx := &geneIndex{genes: gs}
	for i := range gs {
		iv := geneInterval{id: uintptr(i), start: gs[i].Start, end: gs[i].End + 1}
		if err := idx.tree.Insert(iv, true); err != nil {
			panic(fmt.Sprintf("newGeneIndex: insert %s: %v", gs[i].Gene, err))
		}
	}
	idx.tree.AdjustRanges()
	return idx
}

// overlapping returns the genes whose span contains pos, in table order.
func (idx *geneIndex) overlapping(pos int) []*GeneRecord {
	hits := idx.tree.Get(geneInterval{start: pos, end: pos + 1})
	if len(hits) == 0 {
		return nil
	}
	ids := make([]int, len(hits))
	for i, h := range hits {
		ids[i] = int(h.ID())
	}
	sort.Ints(ids)
	out := make([]*GeneRecord, len(ids))
	for i, id := range ids {
		out[i] = &idx.genes[id]
	}
	return out
}

// dedupVariants collapses a scaffold's variant records to one per position,
// keeping the record observed at the highest mismatch threshold, and returns
// them in position order.
func dedupVariants(variants []profile.VariantRecord) []profile.VariantRecord {
	best := make(map[int]profile.VariantRecord, len(variants))
	for _, v := range variants {
		if cur, ok := best[v.Position]; !ok || v.MM > cur.MM {
			best[v.Position] = v
		}
	}
	out := make([]profile.VariantRecord, 0, len(best))
	for _, v := range best {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// characterizeVariants classifies each usable variant on one scaffold by
// genomic context and amino-acid effect. Deduplication happens first, so a
// position whose highest-threshold record is cryptic or outside the allele
// window drops out entirely even if an earlier record would have passed.
func characterizeVariants(gs []GeneRecord, seqs SequenceMap, variants []profile.VariantRecord) []MutationRow {
	deduped := dedupVariants(variants)
	if len(deduped) == 0 {
		return nil
	}
	idx := newGeneIndex(gs)
	var rows []MutationRow
	for _, v := range deduped {
		if v.Cryptic || v.AlleleCount <= 0 || v.AlleleCount >= 3 {
			continue
		}
		row := MutationRow{
			Scaffold:    v.Scaffold,
			Position:    v.Position,
			RefBase:     v.RefBase,
			ConBase:     v.ConBase,
			VarBase:     v.VarBase,
			AlleleCount: v.AlleleCount,
		}
		hits := idx.overlapping(v.Position)
		switch len(hits) {
		case 0:
			row.Class = ClassIntergenic
		case 1:
			g := hits[0]
			row.Class, row.Mutation = codingEffect(g, seqs[g.Gene], v)
			row.Gene = g.Gene
		default:
			row.Class = ClassAmbiguous
			names := make([]string, len(hits))
			for i, g := range hits {
				names[i] = g.Gene
			}
			row.Gene = strings.Join(names, ",")
		}
		rows = append(rows, row)
	}
	return rows
}

// codingEffect reports whether substituting the variant base changes the
// gene's protein product. The stored sequence is coding-orientation, so
// minus-strand genes are flipped to reference orientation for offset
// arithmetic and flipped back for translation. When the variant base
// matches the base already at the offset, the consensus base is substituted
// instead, so the mutant always differs from the original at that position.
// Only the first divergent residue is reported.
func codingEffect(g *GeneRecord, seq string, v profile.VariantRecord) (byte, string) {
	if g.Direction == -1 {
		seq = ReverseComplement(seq)
	}
	offset := v.Position - g.Start
	mutant := []byte(seq)
	mutant[offset] = v.VarBase
	if mutant[offset] == seq[offset] {
		mutant[offset] = v.ConBase
	}
	var oldAA, newAA string
	if g.Direction == -1 {
		oldAA = Translate(ReverseComplement(seq))
		newAA = Translate(ReverseComplement(string(mutant)))
	} else {
		oldAA = Translate(seq)
		newAA = Translate(string(mutant))
	}
	for i := 0; i < len(oldAA) && i < len(newAA); i++ {
		if oldAA[i] != newAA[i] {
			return ClassNonsynonymous, fmt.Sprintf("N:%c%d%c", oldAA[i], offset, newAA[i])
		}
	}
	return ClassSynonymous, fmt.Sprintf("S:%d", offset)
}
