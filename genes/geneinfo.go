package genes

import "math"

// ANIToThreshold converts a population-ANI level into the equivalent
// mismatch threshold for reads of the given mean length: a read pair of
// length L at ANI a carries about L*(1-a) mismatches. Levels above 1 are
// read as percentages. An ANI of 0 admits every threshold.
func ANIToThreshold(ani, readLength float64) int {
	if ani > 1 {
		ani = ani / 100
	}
	return int(math.Round(readLength - readLength*ani))
}

// GeneInfoRow is one gene's annotation joined with its metric values at the
// most permissive threshold admitted by the run's ANI level. Metrics with no
// surviving row are NaN.
type GeneInfoRow struct {
	GeneRecord
	Coverage       float64
	Breadth        float64
	Clonality      float64
	Microdiversity float64
	MaskedBreadth  float64
	SNPsPerBP      float64
	MinANI         float64
}

// GeneInfo joins the three per-gene metric tables onto the gene table. For
// each gene and metric table, rows above the threshold implied by ani are
// discarded and the highest remaining threshold wins.
func GeneInfo(t *Table, res *Results, readLength, ani float64) []GeneInfoRow {
	maxMM := ANIToThreshold(ani, readLength)

	cov := make(map[string]CoverageRow)
	for _, r := range res.Coverage {
		if r.MM > maxMM {
			continue
		}
		if cur, ok := cov[r.Gene]; !ok || r.MM > cur.MM {
			cov[r.Gene] = r
		}
	}
	clon := make(map[string]ClonalityRow)
	for _, r := range res.Clonality {
		if r.MM > maxMM {
			continue
		}
		if cur, ok := clon[r.Gene]; !ok || r.MM > cur.MM {
			clon[r.Gene] = r
		}
	}
	dens := make(map[string]DensityRow)
	for _, r := range res.Density {
		if r.MM > maxMM {
			continue
		}
		if cur, ok := dens[r.Gene]; !ok || r.MM > cur.MM {
			dens[r.Gene] = r
		}
	}

	nan := math.NaN()
	rows := make([]GeneInfoRow, 0, t.Len())
	for _, g := range t.Records() {
		row := GeneInfoRow{
			GeneRecord:     g,
			Coverage:       nan,
			Breadth:        nan,
			Clonality:      nan,
			Microdiversity: nan,
			MaskedBreadth:  nan,
			SNPsPerBP:      nan,
			MinANI:         ani,
		}
		if r, ok := cov[g.Gene]; ok {
			row.Coverage, row.Breadth = r.Coverage, r.Breadth
		}
		if r, ok := clon[g.Gene]; ok {
			row.Clonality, row.Microdiversity, row.MaskedBreadth = r.Clonality, r.Microdiversity, r.MaskedBreadth
		}
		if r, ok := dens[g.Gene]; ok {
			row.SNPsPerBP = r.SNPsPerBP
		}
		rows = append(rows, row)
	}
	return rows
}
