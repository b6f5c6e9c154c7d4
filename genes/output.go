package genes

import (
	"io"
	"math"
	"strconv"

	"github.com/grailbio/base/tsv"
)

// writeFloat renders NaN as an empty cell, matching the convention of the
// upstream profiler's tables.
func writeFloat(tw *tsv.Writer, v float64) {
	if math.IsNaN(v) {
		tw.WriteString("")
		return
	}
	tw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
}

// WriteGeneInfo writes the joined gene info table as headered TSV.
// Positions are 0-based, as everywhere else in the store.
func WriteGeneInfo(w io.Writer, rows []GeneInfoRow) error {
	tw := tsv.NewWriter(w)
	tw.WriteString("gene\tscaffold\tstart\tend\tdirection\tpartial\tgene_length\t" +
		"coverage\tbreadth\tclonality\tmicrodiversity\tmasked_breadth\tSNPs_per_bp\tmin_ANI")
	if err := tw.EndLine(); err != nil {
		return err
	}
	for i := range rows {
		r := &rows[i]
		tw.WriteString(r.Gene)
		tw.WriteString(r.Scaffold)
		tw.WriteString(strconv.Itoa(r.Start))
		tw.WriteString(strconv.Itoa(r.End))
		tw.WriteString(strconv.Itoa(r.Direction))
		tw.WriteString(strconv.FormatBool(r.Partial))
		tw.WriteString(strconv.Itoa(r.Length()))
		writeFloat(tw, r.Coverage)
		writeFloat(tw, r.Breadth)
		writeFloat(tw, r.Clonality)
		writeFloat(tw, r.Microdiversity)
		writeFloat(tw, r.MaskedBreadth)
		writeFloat(tw, r.SNPsPerBP)
		writeFloat(tw, r.MinANI)
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteMutationTypes writes the variant-effect table as headered TSV.
func WriteMutationTypes(w io.Writer, rows []MutationRow) error {
	tw := tsv.NewWriter(w)
	tw.WriteString("scaffold\tposition\tref_base\tcon_base\tvar_base\tallele_count\tmutation_type\tmutation\tgene")
	if err := tw.EndLine(); err != nil {
		return err
	}
	for i := range rows {
		r := &rows[i]
		tw.WriteString(r.Scaffold)
		tw.WriteString(strconv.Itoa(r.Position))
		tw.WriteByte(r.RefBase)
		tw.WriteByte(r.ConBase)
		tw.WriteByte(r.VarBase)
		tw.WriteString(strconv.Itoa(r.AlleleCount))
		tw.WriteByte(r.Class)
		tw.WriteString(r.Mutation)
		tw.WriteString(r.Gene)
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}
