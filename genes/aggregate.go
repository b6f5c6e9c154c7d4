package genes

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/liupfskygre/inStrain/profile"
)

// calcGeneCoverage summarizes read depth for every gene on a scaffold at
// every mismatch threshold with observed coverage.
func calcGeneCoverage(gs []GeneRecord, prof profile.CoverageProfile) []CoverageRow {
	var rows []CoverageRow
	forEachCumulativeCoverage(prof, func(mm int, depth map[int]int) {
		for i := range gs {
			g := &gs[i]
			var sum, covered int
			for pos := g.Start; pos <= g.End; pos++ {
				if d, ok := depth[pos]; ok {
					sum += d
					covered++
				}
			}
			gLen := float64(g.Length())
			rows = append(rows, CoverageRow{
				Gene:     g.Gene,
				Coverage: float64(sum) / gLen,
				Breadth:  float64(covered) / gLen,
				MM:       mm,
			})
		}
	})
	return rows
}

// calcGeneClonality summarizes per-position clonality for every gene on a
// scaffold at every mismatch threshold with diversity data. Genes without a
// single profiled position report NaN clonality and microdiversity.
func calcGeneClonality(gs []GeneRecord, prof profile.DiversityProfile) []ClonalityRow {
	var rows []ClonalityRow
	forEachDiversitySnapshot(prof, func(mm int, vals map[int]float64) {
		for i := range gs {
			g := &gs[i]
			var clon []float64
			for pos := g.Start; pos <= g.End; pos++ {
				if v, ok := vals[pos]; ok {
					clon = append(clon, v)
				}
			}
			clonality, err := stats.Mean(clon)
			if err != nil {
				clonality = math.NaN()
			}
			rows = append(rows, ClonalityRow{
				Gene:           g.Gene,
				Clonality:      clonality,
				Microdiversity: 1 - clonality,
				MaskedBreadth:  float64(len(clon)) / float64(g.Length()),
				MM:             mm,
			})
		}
	})
	return rows
}

// calcGeneSNPDensity computes variants per base for every gene at every
// mismatch threshold carrying at least one variant. For threshold t the
// variant table is restricted to records called at <= t mismatches and
// collapsed to one entry per position.
func calcGeneSNPDensity(gs []GeneRecord, variants []profile.VariantRecord) []DensityRow {
	if len(variants) == 0 {
		return nil
	}
	var rows []DensityRow
	for _, mm := range variantThresholds(variants) {
		positions := make(map[int]bool)
		for i := range variants {
			if variants[i].MM <= mm {
				positions[variants[i].Position] = true
			}
		}
		if len(positions) == 0 {
			continue
		}
		for i := range gs {
			g := &gs[i]
			n := 0
			for pos := range positions {
				if pos >= g.Start && pos <= g.End {
					n++
				}
			}
			rows = append(rows, DensityRow{
				Gene:      g.Gene,
				SNPsPerBP: float64(n) / float64(g.Length()),
				MM:        mm,
			})
		}
	}
	return rows
}
