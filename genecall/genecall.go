// Package genecall loads gene annotations into the table and sequence map
// the profiler consumes. Two encodings are supported: the gene FASTA written
// by a prodigal run, where coordinates ride in the record headers, and GFF
// feature annotation paired with the assembly the coordinates refer to.
package genecall

import (
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/liupfskygre/inStrain/encoding/fasta"
	"github.com/liupfskygre/inStrain/genes"
)

// Format identifies one supported annotation encoding.
type Format int

const (
	// FormatProdigal is a prodigal gene FASTA: one record per gene call,
	// with coordinates, strand and completeness in the header.
	FormatProdigal Format = iota
	// FormatGFF is feature annotation; gene sequences come from the
	// assembly.
	FormatGFF
)

func (f Format) String() string {
	switch f {
	case FormatProdigal:
		return "prodigal"
	case FormatGFF:
		return "gff"
	}
	return "unknown"
}

// ParseFormat maps a format name to its Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "prodigal":
		return FormatProdigal, nil
	case "gff":
		return FormatGFF, nil
	}
	return 0, errors.Errorf("genecall: unknown annotation format %q", name)
}

// DetectFormat guesses the annotation format from a file name: .fna, .fa and
// .fasta mean a prodigal gene FASTA, .gff and .gff3 mean feature annotation.
func DetectFormat(path string) (Format, error) {
	switch {
	case strings.HasSuffix(path, ".fna"), strings.HasSuffix(path, ".fa"), strings.HasSuffix(path, ".fasta"):
		return FormatProdigal, nil
	case strings.HasSuffix(path, ".gff"), strings.HasSuffix(path, ".gff3"):
		return FormatGFF, nil
	}
	return 0, errors.Errorf("genecall: cannot infer annotation format of %q", path)
}

// Parse reads one annotation source. assembly supplies gene sequences for
// FormatGFF and is ignored for FormatProdigal, whose records carry their own.
func Parse(format Format, annotation io.Reader, assembly fasta.Fasta) (*genes.Table, genes.SequenceMap, error) {
	switch format {
	case FormatProdigal:
		return ParseProdigal(annotation)
	case FormatGFF:
		return ParseGFF(annotation, assembly)
	}
	return nil, nil, errors.Errorf("genecall: unsupported annotation format %v", format)
}
