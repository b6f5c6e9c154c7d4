package genes

import (
	"testing"

	"github.com/grailbio/testutil/expect"

	"github.com/liupfskygre/inStrain/profile"
)

func copyIntMap(m map[int]int) map[int]int {
	out := make(map[int]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyFloatMap(m map[int]float64) map[int]float64 {
	out := make(map[int]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func TestCumulativeCoverageAccumulates(t *testing.T) {
	prof := profile.CoverageProfile{
		0: {5: 2, 6: 1},
		2: {5: 3, 9: 4},
	}
	var mms []int
	snaps := make(map[int]map[int]int)
	forEachCumulativeCoverage(prof, func(mm int, depth map[int]int) {
		mms = append(mms, mm)
		snaps[mm] = copyIntMap(depth)
	})
	expect.EQ(t, mms, []int{0, 2})
	expect.EQ(t, snaps[0], map[int]int{5: 2, 6: 1})
	// Depth at a threshold includes everything admitted at stricter ones.
	expect.EQ(t, snaps[2], map[int]int{5: 5, 6: 1, 9: 4})
}

func TestCumulativeCoverageMonotonic(t *testing.T) {
	prof := profile.CoverageProfile{
		0: {1: 1},
		1: {1: 1, 2: 2},
		3: {2: 1, 7: 5},
	}
	last := make(map[int]int)
	forEachCumulativeCoverage(prof, func(mm int, depth map[int]int) {
		for pos, d := range last {
			if depth[pos] < d {
				t.Errorf("mm %d: depth at position %d dropped from %d to %d", mm, pos, d, depth[pos])
			}
		}
		last = copyIntMap(depth)
	})
	expect.EQ(t, last, map[int]int{1: 2, 2: 3, 7: 5})
}

func TestDiversitySnapshotHigherThresholdWins(t *testing.T) {
	prof := profile.DiversityProfile{
		0: {5: 0.95, 6: 0.99},
		2: {5: 0.90},
	}
	snaps := make(map[int]map[int]float64)
	forEachDiversitySnapshot(prof, func(mm int, vals map[int]float64) {
		snaps[mm] = copyFloatMap(vals)
	})
	// Position 5 is revisited at mm=2: the more permissive estimate replaces
	// the stricter one, it does not merge with it. Position 6, untouched at
	// mm=2, keeps the value written at mm=0.
	expect.EQ(t, snaps[0], map[int]float64{5: 0.95, 6: 0.99})
	expect.EQ(t, snaps[2], map[int]float64{5: 0.90, 6: 0.99})
}

func TestThresholdSkipsEmptySnapshots(t *testing.T) {
	visited := 0
	forEachCumulativeCoverage(profile.CoverageProfile{0: {}, 1: {}}, func(int, map[int]int) {
		visited++
	})
	expect.EQ(t, visited, 0)
	forEachDiversitySnapshot(profile.DiversityProfile{3: {}}, func(int, map[int]float64) {
		visited++
	})
	expect.EQ(t, visited, 0)
}

func TestVariantThresholds(t *testing.T) {
	recs := []profile.VariantRecord{
		{Position: 1, MM: 2},
		{Position: 2, MM: 0},
		{Position: 3, MM: 2},
	}
	expect.EQ(t, variantThresholds(recs), []int{0, 2})
	expect.EQ(t, len(variantThresholds(nil)), 0)
}
