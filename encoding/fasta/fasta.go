// Package fasta provides random access to the sequences of an assembly
// FASTA, either fully in memory or through a samtools faidx index
// (http://www.htslib.org/doc/faidx.html). A sequence name is the stretch of
// header characters up to the first whitespace: ">scaf_47 flag=1" names the
// sequence "scaf_47".
package fasta

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Fasta is a set of named sequences.
type Fasta interface {
	// Get returns the bases of seqName in [start, end), 0-based half-open.
	// Get is safe for concurrent use.
	Get(seqName string, start, end uint64) (string, error)

	// Len returns the length of seqName in bases.
	Len(seqName string) (uint64, error)

	// SeqNames returns all sequence names in file order.
	SeqNames() []string
}

type memFasta struct {
	seqs     map[string]string
	seqNames []string
}

// New reads every sequence from r into memory. Line endings may be LF or
// CRLF; blank lines are ignored. Case is preserved.
func New(r io.Reader) (Fasta, error) {
	f := &memFasta{seqs: make(map[string]string)}
	br := bufio.NewReader(r)
	var name string
	var seq strings.Builder
	flush := func() error {
		if name == "" {
			return nil
		}
		if _, ok := f.seqs[name]; ok {
			return errors.Errorf("fasta: duplicate sequence %s", name)
		}
		f.seqs[name] = seq.String()
		f.seqNames = append(f.seqNames, name)
		seq.Reset()
		return nil
	}
	for {
		line, err := br.ReadBytes('\n')
		line = bytes.TrimRight(line, "\r\n")
		if len(line) > 0 {
			if line[0] == '>' {
				if err := flush(); err != nil {
					return nil, err
				}
				fields := bytes.Fields(line[1:])
				if len(fields) == 0 {
					return nil, errors.New("fasta: header with no sequence name")
				}
				name = string(fields[0])
			} else {
				if name == "" {
					return nil, errors.New("fasta: sequence data before first header")
				}
				seq.Write(line)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "fasta: read")
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(f.seqNames) == 0 {
		return nil, errors.New("fasta: no sequences found")
	}
	return f, nil
}

// Get implements Fasta.Get().
func (f *memFasta) Get(seqName string, start, end uint64) (string, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return "", errors.Errorf("fasta: sequence not found: %s", seqName)
	}
	if end <= start || end > uint64(len(s)) {
		return "", errors.Errorf("fasta: invalid range [%d,%d) for sequence %s of length %d",
			start, end, seqName, len(s))
	}
	return s[start:end], nil
}

// Len implements Fasta.Len().
func (f *memFasta) Len(seqName string) (uint64, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return 0, errors.Errorf("fasta: sequence not found: %s", seqName)
	}
	return uint64(len(s)), nil
}

// SeqNames implements Fasta.SeqNames().
func (f *memFasta) SeqNames() []string {
	return f.seqNames
}
