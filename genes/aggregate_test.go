package genes

import (
	"math"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liupfskygre/inStrain/profile"
)

func TestCalcGeneCoverage(t *testing.T) {
	gs := []GeneRecord{{Gene: "s_1", Scaffold: "s", Start: 0, End: 8, Direction: 1}}
	prof := profile.CoverageProfile{
		0: {0: 2, 1: 2, 2: 2},
		1: {0: 1, 8: 3},
	}
	rows := calcGeneCoverage(gs, prof)
	require.Len(t, rows, 2)
	expect.EQ(t, rows[0], CoverageRow{Gene: "s_1", Coverage: 6.0 / 9.0, Breadth: 3.0 / 9.0, MM: 0})
	// mm=1 sees the mm=0 reads too: depth 2+1,2,2 plus position 8 at depth 3.
	expect.EQ(t, rows[1], CoverageRow{Gene: "s_1", Coverage: 10.0 / 9.0, Breadth: 4.0 / 9.0, MM: 1})
}

func TestCalcGeneCoverageBounds(t *testing.T) {
	gs := []GeneRecord{
		{Gene: "s_1", Scaffold: "s", Start: 10, End: 19, Direction: 1},
		{Gene: "s_2", Scaffold: "s", Start: 15, End: 44, Direction: -1},
	}
	prof := profile.CoverageProfile{
		0: {10: 1, 11: 9, 18: 2},
		2: {15: 4, 40: 1, 44: 7},
		5: {10: 2},
	}
	for _, r := range calcGeneCoverage(gs, prof) {
		assert.True(t, r.Breadth >= 0 && r.Breadth <= 1, "breadth out of range: %+v", r)
		assert.True(t, r.Coverage >= 0, "negative coverage: %+v", r)
	}
}

func TestCalcGeneClonality(t *testing.T) {
	gs := []GeneRecord{
		{Gene: "s_1", Scaffold: "s", Start: 0, End: 3, Direction: 1},
		{Gene: "s_2", Scaffold: "s", Start: 100, End: 103, Direction: 1},
	}
	prof := profile.DiversityProfile{1: {0: 1.0, 1: 0.5, 3: 0.9}}
	rows := calcGeneClonality(gs, prof)
	require.Len(t, rows, 2)

	assert.Equal(t, "s_1", rows[0].Gene)
	assert.InDelta(t, 0.8, rows[0].Clonality, 1e-12)
	assert.InDelta(t, 0.2, rows[0].Microdiversity, 1e-12)
	expect.EQ(t, rows[0].MaskedBreadth, 0.75)
	expect.EQ(t, rows[0].MM, 1)

	// No profiled position falls inside s_2.
	assert.Equal(t, "s_2", rows[1].Gene)
	assert.True(t, math.IsNaN(rows[1].Clonality))
	assert.True(t, math.IsNaN(rows[1].Microdiversity))
	expect.EQ(t, rows[1].MaskedBreadth, 0.0)
}

func TestCalcGeneSNPDensity(t *testing.T) {
	gs := []GeneRecord{{Gene: "s_1", Scaffold: "s", Start: 0, End: 9, Direction: 1}}
	variants := []profile.VariantRecord{
		{Scaffold: "s", Position: 2, MM: 0},
		{Scaffold: "s", Position: 2, MM: 1}, // same position again at a looser threshold
		{Scaffold: "s", Position: 7, MM: 1},
		{Scaffold: "s", Position: 50, MM: 0}, // outside the gene
	}
	rows := calcGeneSNPDensity(gs, variants)
	require.Len(t, rows, 2)
	expect.EQ(t, rows[0], DensityRow{Gene: "s_1", SNPsPerBP: 1.0 / 10.0, MM: 0})
	// At mm=1 position 2 still counts once.
	expect.EQ(t, rows[1], DensityRow{Gene: "s_1", SNPsPerBP: 2.0 / 10.0, MM: 1})
}

func TestCalcGeneSNPDensityNoVariants(t *testing.T) {
	gs := []GeneRecord{{Gene: "s_1", Scaffold: "s", Start: 0, End: 9, Direction: 1}}
	assert.Nil(t, calcGeneSNPDensity(gs, nil))
}
