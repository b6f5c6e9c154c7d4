package genes

import (
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"

	"github.com/liupfskygre/inStrain/profile"
)

func TestCharacterizeVariantsIntergenic(t *testing.T) {
	gs := []GeneRecord{{Gene: "s_1", Scaffold: "s", Start: 10, End: 18, Direction: 1}}
	seqs := SequenceMap{"s_1": "ATGAAACCC"}
	rows := characterizeVariants(gs, seqs, []profile.VariantRecord{
		{Scaffold: "s", Position: 3, MM: 0, RefBase: 'A', ConBase: 'A', VarBase: 'T', AlleleCount: 2},
	})
	require.Len(t, rows, 1)
	expect.EQ(t, rows[0].Class, byte(ClassIntergenic))
	expect.EQ(t, rows[0].Mutation, "")
	expect.EQ(t, rows[0].Gene, "")
}

func TestCharacterizeVariantsAmbiguous(t *testing.T) {
	gs := []GeneRecord{
		{Gene: "s_1", Scaffold: "s", Start: 0, End: 8, Direction: 1},
		{Gene: "s_2", Scaffold: "s", Start: 6, End: 14, Direction: -1},
	}
	seqs := SequenceMap{"s_1": "ATGAAACCC", "s_2": "ATGAAACCC"}
	rows := characterizeVariants(gs, seqs, []profile.VariantRecord{
		{Scaffold: "s", Position: 7, MM: 0, RefBase: 'C', ConBase: 'C', VarBase: 'A', AlleleCount: 2},
	})
	require.Len(t, rows, 1)
	expect.EQ(t, rows[0].Class, byte(ClassAmbiguous))
	expect.EQ(t, rows[0].Gene, "s_1,s_2")
	expect.EQ(t, rows[0].Mutation, "")
}

func TestCharacterizeVariantsSynonymous(t *testing.T) {
	// CTT -> CTC is Leu -> Leu.
	gs := []GeneRecord{{Gene: "s_1", Scaffold: "s", Start: 0, End: 2, Direction: 1}}
	seqs := SequenceMap{"s_1": "CTT"}
	rows := characterizeVariants(gs, seqs, []profile.VariantRecord{
		{Scaffold: "s", Position: 2, MM: 0, RefBase: 'T', ConBase: 'T', VarBase: 'C', AlleleCount: 2},
	})
	require.Len(t, rows, 1)
	expect.EQ(t, rows[0].Class, byte(ClassSynonymous))
	expect.EQ(t, rows[0].Mutation, "S:2")
	expect.EQ(t, rows[0].Gene, "s_1")
}

func TestCharacterizeVariantsNonsynonymous(t *testing.T) {
	// ATG AAA CCC with an A->T at position 3 becomes ATG TAA CCC: the second
	// residue flips from Lys to a stop.
	gs := []GeneRecord{{Gene: "s_1", Scaffold: "s", Start: 0, End: 8, Direction: 1}}
	seqs := SequenceMap{"s_1": "ATGAAACCC"}
	rows := characterizeVariants(gs, seqs, []profile.VariantRecord{
		{Scaffold: "s", Position: 3, MM: 0, RefBase: 'A', ConBase: 'A', VarBase: 'T', AlleleCount: 2},
	})
	require.Len(t, rows, 1)
	expect.EQ(t, rows[0].Class, byte(ClassNonsynonymous))
	expect.EQ(t, rows[0].Mutation, "N:K3*")
	expect.EQ(t, rows[0].Gene, "s_1")
}

func TestCharacterizeVariantsMinusStrand(t *testing.T) {
	// The stored sequence is coding-orientation ATG TTT (Met Phe); on the
	// reference strand the gene reads AAACAT. Offsets in the mutation string
	// stay reference-relative.
	gs := []GeneRecord{{Gene: "s_1", Scaffold: "s", Start: 0, End: 5, Direction: -1}}
	seqs := SequenceMap{"s_1": "ATGTTT"}

	// Reference position 5 is the first coding base: T->G turns Met into Leu.
	rows := characterizeVariants(gs, seqs, []profile.VariantRecord{
		{Scaffold: "s", Position: 5, MM: 0, RefBase: 'T', ConBase: 'T', VarBase: 'G', AlleleCount: 2},
	})
	require.Len(t, rows, 1)
	expect.EQ(t, rows[0].Class, byte(ClassNonsynonymous))
	expect.EQ(t, rows[0].Mutation, "N:M5L")

	// Reference position 0 is the wobble base of the last codon: A->G keeps
	// Phe (TTT -> TTC).
	rows = characterizeVariants(gs, seqs, []profile.VariantRecord{
		{Scaffold: "s", Position: 0, MM: 0, RefBase: 'A', ConBase: 'A', VarBase: 'G', AlleleCount: 2},
	})
	require.Len(t, rows, 1)
	expect.EQ(t, rows[0].Class, byte(ClassSynonymous))
	expect.EQ(t, rows[0].Mutation, "S:0")
}

func TestCharacterizeVariantsConsensusFallback(t *testing.T) {
	// The variant base matches the stored sequence, so the consensus base is
	// substituted instead: ATG -> CTG, Met -> Leu.
	gs := []GeneRecord{{Gene: "s_1", Scaffold: "s", Start: 0, End: 2, Direction: 1}}
	seqs := SequenceMap{"s_1": "ATG"}
	rows := characterizeVariants(gs, seqs, []profile.VariantRecord{
		{Scaffold: "s", Position: 0, MM: 0, RefBase: 'A', ConBase: 'C', VarBase: 'A', AlleleCount: 2},
	})
	require.Len(t, rows, 1)
	expect.EQ(t, rows[0].Class, byte(ClassNonsynonymous))
	expect.EQ(t, rows[0].Mutation, "N:M0L")
}

func TestCharacterizeVariantsFiltersAfterDedup(t *testing.T) {
	gs := []GeneRecord{{Gene: "s_1", Scaffold: "s", Start: 0, End: 8, Direction: 1}}
	seqs := SequenceMap{"s_1": "ATGAAACCC"}
	variants := []profile.VariantRecord{
		// Position 3: usable at mm=0 but cryptic at mm=2. The higher
		// threshold wins the dedup, so the position drops out entirely.
		{Scaffold: "s", Position: 3, MM: 0, RefBase: 'A', ConBase: 'A', VarBase: 'T', AlleleCount: 2},
		{Scaffold: "s", Position: 3, MM: 2, RefBase: 'A', ConBase: 'A', VarBase: 'T', AlleleCount: 2, Cryptic: true},
		// Fixed difference (single allele above the calling threshold).
		{Scaffold: "s", Position: 4, MM: 0, RefBase: 'A', ConBase: 'T', VarBase: 'T', AlleleCount: 1},
		// Too many alleles.
		{Scaffold: "s", Position: 5, MM: 0, RefBase: 'A', ConBase: 'A', VarBase: 'T', AlleleCount: 3},
		// No alleles above the calling threshold.
		{Scaffold: "s", Position: 6, MM: 0, RefBase: 'C', ConBase: 'C', VarBase: 'A', AlleleCount: 0},
	}
	rows := characterizeVariants(gs, seqs, variants)
	require.Len(t, rows, 1)
	expect.EQ(t, rows[0].Position, 4)
	expect.EQ(t, rows[0].AlleleCount, 1)
}

func TestCharacterizeVariantsEmpty(t *testing.T) {
	gs := []GeneRecord{{Gene: "s_1", Scaffold: "s", Start: 0, End: 2, Direction: 1}}
	expect.EQ(t, len(characterizeVariants(gs, SequenceMap{"s_1": "ATG"}, nil)), 0)
}

func TestDedupVariants(t *testing.T) {
	variants := []profile.VariantRecord{
		{Scaffold: "s", Position: 9, MM: 0, VarBase: 'A'},
		{Scaffold: "s", Position: 2, MM: 1, VarBase: 'C'},
		{Scaffold: "s", Position: 2, MM: 3, VarBase: 'G'},
		{Scaffold: "s", Position: 2, MM: 2, VarBase: 'T'},
	}
	got := dedupVariants(variants)
	require.Len(t, got, 2)
	expect.EQ(t, got[0].Position, 2)
	expect.EQ(t, got[0].VarBase, byte('G'))
	expect.EQ(t, got[0].MM, 3)
	expect.EQ(t, got[1].Position, 9)
}

func TestGeneIndexOverlapping(t *testing.T) {
	gs := []GeneRecord{
		{Gene: "s_1", Scaffold: "s", Start: 0, End: 9, Direction: 1},
		{Gene: "s_2", Scaffold: "s", Start: 5, End: 14, Direction: 1},
		{Gene: "s_3", Scaffold: "s", Start: 20, End: 29, Direction: -1},
	}
	idx := newGeneIndex(gs)

	hits := idx.overlapping(7)
	require.Len(t, hits, 2)
	expect.EQ(t, hits[0].Gene, "s_1")
	expect.EQ(t, hits[1].Gene, "s_2")

	// Gene ends are inclusive.
	hits = idx.overlapping(14)
	require.Len(t, hits, 1)
	expect.EQ(t, hits[0].Gene, "s_2")

	hits = idx.overlapping(20)
	require.Len(t, hits, 1)
	expect.EQ(t, hits[0].Gene, "s_3")

	expect.EQ(t, len(idx.overlapping(15)), 0)
	expect.EQ(t, len(idx.overlapping(30)), 0)
}
