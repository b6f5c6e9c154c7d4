package genes

import (
	"sort"

	"github.com/liupfskygre/inStrain/profile"
)

func coverageThresholds(p profile.CoverageProfile) []int {
	mms := make([]int, 0, len(p))
	for mm := range p {
		mms = append(mms, mm)
	}
	sort.Ints(mms)
	return mms
}

func diversityThresholds(p profile.DiversityProfile) []int {
	mms := make([]int, 0, len(p))
	for mm := range p {
		mms = append(mms, mm)
	}
	sort.Ints(mms)
	return mms
}

func variantThresholds(recs []profile.VariantRecord) []int {
	seen := make(map[int]bool)
	var mms []int
	for i := range recs {
		if mm := recs[i].MM; !seen[mm] {
			seen[mm] = true
			mms = append(mms, mm)
		}
	}
	sort.Ints(mms)
	return mms
}

// forEachCumulativeCoverage visits the thresholds of prof in ascending order,
// accumulating per-position depth as it goes: a read admitted at exactly k
// mismatches also satisfies every limit above k, so the snapshot passed to
// fn at threshold k sums the deltas of all thresholds <= k. Thresholds whose
// accumulated snapshot is empty are skipped. The snapshot map is reused
// between calls; fn must not retain it.
func forEachCumulativeCoverage(prof profile.CoverageProfile, fn func(mm int, depth map[int]int)) {
	running := make(map[int]int)
	for _, mm := range coverageThresholds(prof) {
		for pos, n := range prof[mm] {
			running[pos] += n
		}
		if len(running) == 0 {
			continue
		}
		fn(mm, running)
	}
}

// forEachDiversitySnapshot visits the thresholds of prof in ascending order,
// overwriting the running per-position value with each threshold's entries
// and passing the whole accumulated mapping to fn. A position's published
// value is therefore the one from the highest threshold that has touched it
// so far; positions untouched since a lower threshold keep their older
// value. Thresholds whose snapshot is empty are skipped. The snapshot map is
// reused between calls; fn must not retain it.
func forEachDiversitySnapshot(prof profile.DiversityProfile, fn func(mm int, vals map[int]float64)) {
	running := make(map[int]float64)
	for _, mm := range diversityThresholds(prof) {
		for pos, v := range prof[mm] {
			running[pos] = v
		}
		if len(running) == 0 {
			continue
		}
		fn(mm, running)
	}
}
