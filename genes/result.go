package genes

// CoverageRow is one gene's depth summary at one mismatch threshold.
type CoverageRow struct {
	Gene string
	// Coverage is mean read depth over the gene span.
	Coverage float64
	// Breadth is the fraction of the gene span with any observed depth.
	Breadth float64
	MM      int
}

// ClonalityRow is one gene's diversity summary at one mismatch threshold.
type ClonalityRow struct {
	Gene string
	// Clonality is the mean per-position clonality over the gene span; NaN
	// when no profiled position falls inside the gene.
	Clonality float64
	// Microdiversity is 1 - Clonality (NaN propagates).
	Microdiversity float64
	// MaskedBreadth is the fraction of the gene span with a clonality value.
	MaskedBreadth float64
	MM            int
}

// DensityRow is one gene's variant density at one mismatch threshold.
type DensityRow struct {
	Gene      string
	SNPsPerBP float64
	MM        int
}

// Variant classification outcomes.
const (
	ClassIntergenic    = 'I' // position inside no annotated gene
	ClassAmbiguous     = 'M' // position inside two or more overlapping genes
	ClassSynonymous    = 'S'
	ClassNonsynonymous = 'N'
)

// MutationRow is one classified variant.
type MutationRow struct {
	Scaffold    string
	Position    int
	RefBase     byte
	ConBase     byte
	VarBase     byte
	AlleleCount int
	// Class is one of the Class* constants.
	Class byte
	// Mutation encodes the amino-acid effect for coding variants:
	// "S:<offset>" or "N:<old aa><offset><new aa>", where offset is the
	// 0-based nucleotide offset within the gene. Empty for intergenic and
	// ambiguous variants.
	Mutation string
	// Gene is the owning gene identifier, or a comma-joined list of all
	// overlapping genes for ambiguous variants.
	Gene string
}

// ScaffoldResult holds one scaffold's output tables plus a stage-timing
// trace. A nil *ScaffoldResult marks a scaffold whose processing failed.
type ScaffoldResult struct {
	Scaffold  string
	Coverage  []CoverageRow
	Clonality []ClonalityRow
	Density   []DensityRow
	Mutations []MutationRow
	Trace     string
}

// Results concatenates per-scaffold tables across one run. Row order across
// scaffolds is not defined.
type Results struct {
	Coverage  []CoverageRow
	Clonality []ClonalityRow
	Density   []DensityRow
	Mutations []MutationRow
}

func (r *Results) add(sr *ScaffoldResult) {
	r.Coverage = append(r.Coverage, sr.Coverage...)
	r.Clonality = append(r.Clonality, sr.Clonality...)
	r.Density = append(r.Density, sr.Density...)
	r.Mutations = append(r.Mutations, sr.Mutations...)
}
