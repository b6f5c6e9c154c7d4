package genecall

import (
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	for _, tc := range []struct {
		path string
		want Format
	}{
		{"genes.fna", FormatProdigal},
		{"out/genes.fa", FormatProdigal},
		{"genes.fasta", FormatProdigal},
		{"genes.gff", FormatGFF},
		{"genes.gff3", FormatGFF},
	} {
		got, err := DetectFormat(tc.path)
		require.NoError(t, err, tc.path)
		expect.EQ(t, got, tc.want)
	}
	_, err := DetectFormat("genes.gbk")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("prodigal")
	require.NoError(t, err)
	expect.EQ(t, f, FormatProdigal)
	f, err = ParseFormat("gff")
	require.NoError(t, err)
	expect.EQ(t, f, FormatGFF)
	_, err = ParseFormat("genbank")
	assert.Error(t, err)
}

func TestFormatString(t *testing.T) {
	expect.EQ(t, FormatProdigal.String(), "prodigal")
	expect.EQ(t, FormatGFF.String(), "gff")
	expect.EQ(t, Format(99).String(), "unknown")
}

func TestParseDispatch(t *testing.T) {
	tbl, seqs, err := Parse(FormatProdigal, strings.NewReader(prodigalFasta), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())
	assert.Len(t, seqs, 3)

	in := gffLines("scafA\tprodigal\tCDS\t1\t9\t.\t+\t0\tID \"1_1\"; partial \"00\"")
	tbl, seqs, err = Parse(FormatGFF, strings.NewReader(in), testAssembly(t))
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
	assert.Len(t, seqs, 1)

	_, _, err = Parse(Format(99), strings.NewReader(""), nil)
	assert.Error(t, err)
}
