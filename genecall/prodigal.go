package genecall

import (
	"io"
	"strconv"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"github.com/liupfskygre/inStrain/genes"
)

// ParseProdigal reads a prodigal gene FASTA. Each record header carries the
// call's coordinates and metadata as "#"-separated fields:
//
//	>scaf_1 # 337 # 2799 # 1 # ID=1_1;partial=00;start_type=ATG;...
//
// Header coordinates are 1-based inclusive and convert to 0-based here. The
// record sequence is the coding strand as prodigal wrote it; it is stored
// uppercased.
func ParseProdigal(r io.Reader) (*genes.Table, genes.SequenceMap, error) {
	sc := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNAredundant)))
	var recs []genes.GeneRecord
	seqs := genes.SequenceMap{}
	partial := 0
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		rec, err := parseProdigalHeader(s.Name(), s.Description())
		if err != nil {
			return nil, nil, err
		}
		if _, ok := seqs[rec.Gene]; ok {
			return nil, nil, errors.Errorf("genecall: duplicate gene %s", rec.Gene)
		}
		if rec.Partial {
			partial++
		}
		recs = append(recs, rec)
		seqs[rec.Gene] = strings.ToUpper(s.Seq.String())
	}
	if err := sc.Error(); err != nil {
		return nil, nil, errors.Wrap(err, "genecall: reading gene fasta")
	}
	if len(recs) == 0 {
		return nil, nil, errors.New("genecall: no gene records found")
	}
	log.Debug.Printf("genecall: %d of %d gene calls are partial", partial, len(recs))
	return genes.NewTable(recs), seqs, nil
}

// parseProdigalHeader decodes one record's name and description. The
// description retains everything after the record name, so "#"-splitting it
// leaves the start, end and strand at indices 1 through 3.
func parseProdigalHeader(name, desc string) (genes.GeneRecord, error) {
	cut := strings.LastIndex(name, "_")
	if cut <= 0 {
		return genes.GeneRecord{}, errors.Errorf("genecall: gene %q has no scaffold_N form", name)
	}
	fields := strings.Split(desc, "#")
	if len(fields) < 4 {
		return genes.GeneRecord{}, errors.Errorf("genecall: gene %q: malformed header %q", name, desc)
	}
	start, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return genes.GeneRecord{}, errors.Wrapf(err, "genecall: gene %q: bad start", name)
	}
	end, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return genes.GeneRecord{}, errors.Wrapf(err, "genecall: gene %q: bad end", name)
	}
	if start < 1 || end < start {
		return genes.GeneRecord{}, errors.Errorf("genecall: gene %q spans [%d,%d]", name, start, end)
	}
	var dir int
	switch strings.TrimSpace(fields[3]) {
	case "1":
		dir = 1
	case "-1":
		dir = -1
	default:
		return genes.GeneRecord{}, errors.Errorf("genecall: gene %q: bad strand %q", name, fields[3])
	}
	return genes.GeneRecord{
		Gene:      name,
		Scaffold:  name[:cut],
		Start:     start - 1,
		End:       end - 1,
		Direction: dir,
		Partial:   !strings.Contains(desc, "partial=00"),
	}, nil
}
