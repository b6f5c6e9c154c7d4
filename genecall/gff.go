package genecall

import (
	"io"
	"strconv"
	"strings"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"github.com/liupfskygre/inStrain/encoding/fasta"
	"github.com/liupfskygre/inStrain/genes"
)

// ParseGFF reads CDS features from GFF annotation and extracts each gene's
// sequence from the assembly, reverse-complementing reverse-strand genes so
// the stored sequence is always the coding strand. Gene identifiers follow
// the prodigal convention <scaffold>_<ordinal>, taking the ordinal from the
// feature's ID attribute when present and from a per-scaffold counter
// otherwise.
func ParseGFF(r io.Reader, assembly fasta.Fasta) (*genes.Table, genes.SequenceMap, error) {
	if assembly == nil {
		return nil, nil, errors.New("genecall: GFF annotation requires the assembly fasta")
	}
	sc := featio.NewScanner(gff.NewReader(r))
	var recs []genes.GeneRecord
	seqs := genes.SequenceMap{}
	partial := 0
	counter := make(map[string]int)
	for sc.Next() {
		f, ok := sc.Feat().(*gff.Feature)
		if !ok || f.Feature != "CDS" {
			continue
		}
		scaffold := f.SeqName
		counter[scaffold]++
		ordinal := strconv.Itoa(counter[scaffold])
		if id := attrValue(f.FeatAttributes, "ID"); id != "" {
			// prodigal writes ID=<seqnum>_<ordinal>.
			if cut := strings.LastIndex(id, "_"); cut >= 0 {
				ordinal = id[cut+1:]
			} else {
				ordinal = id
			}
		}
		gene := scaffold + "_" + ordinal

		var dir int
		switch f.FeatStrand {
		case seq.Plus:
			dir = 1
		case seq.Minus:
			dir = -1
		default:
			return nil, nil, errors.Errorf("genecall: gene %s has no strand", gene)
		}

		// The reader's start is 0-based and its end exclusive.
		start, end := f.FeatStart, f.FeatEnd-1
		length, err := assembly.Len(scaffold)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "genecall: gene %s: scaffold %s not in assembly", gene, scaffold)
		}
		if start < 0 || end < start || uint64(end) >= length {
			return nil, nil, errors.Errorf("genecall: gene %s spans [%d,%d] outside scaffold %s of length %d",
				gene, start, end, scaffold, length)
		}
		sq, err := assembly.Get(scaffold, uint64(start), uint64(end)+1)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "genecall: extracting gene %s", gene)
		}
		sq = strings.ToUpper(sq)
		if dir == -1 {
			sq = genes.ReverseComplement(sq)
		}
		if _, ok := seqs[gene]; ok {
			return nil, nil, errors.Errorf("genecall: duplicate gene %s", gene)
		}

		isPartial := false
		if p := attrValue(f.FeatAttributes, "partial"); p != "" && p != "00" {
			isPartial = true
		}
		if isPartial {
			partial++
		}
		recs = append(recs, genes.GeneRecord{
			Gene:      gene,
			Scaffold:  scaffold,
			Start:     start,
			End:       end,
			Direction: dir,
			Partial:   isPartial,
		})
		seqs[gene] = sq
	}
	if err := sc.Error(); err != nil {
		return nil, nil, errors.Wrap(err, "genecall: reading gff")
	}
	if len(recs) == 0 {
		return nil, nil, errors.New("genecall: no CDS features found")
	}
	log.Debug.Printf("genecall: %d of %d gene calls are partial", partial, len(recs))
	return genes.NewTable(recs), seqs, nil
}

// attrValue fetches one attribute value, tolerating both GFF2 "tag value"
// pairs and GFF3 "tag=value" pairs. A GFF3 attribute column has no spaces,
// so a GFF2 parse can leave one or more key=value pairs glued into a tag.
func attrValue(attrs gff.Attributes, tag string) string {
	for _, a := range attrs {
		if a.Tag == tag {
			return strings.Trim(a.Value, `"`)
		}
		for _, kv := range strings.Split(a.Tag, ";") {
			if strings.HasPrefix(kv, tag+"=") {
				return strings.TrimPrefix(kv, tag+"=")
			}
		}
	}
	return ""
}
