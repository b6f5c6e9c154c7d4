package genes

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestTranslate(t *testing.T) {
	expect.EQ(t, Translate("ATGAAACCC"), "MKP")
	expect.EQ(t, Translate("ATGTAACCC"), "M*P") // internal stop does not terminate
	expect.EQ(t, Translate("ATGAA"), "M")       // trailing partial codon dropped
	expect.EQ(t, Translate("ATNGGG"), "XG")     // ambiguity code
	expect.EQ(t, Translate(""), "")
}

func TestReverseComplement(t *testing.T) {
	expect.EQ(t, ReverseComplement("ATGC"), "GCAT")
	expect.EQ(t, ReverseComplement("AAACAT"), "ATGTTT")
	expect.EQ(t, ReverseComplement("RYSWKM"), "KMWSRY")
	expect.EQ(t, ReverseComplement("A.C"), "GNT") // unknown letters map to N
	expect.EQ(t, ReverseComplement(ReverseComplement("GATTACA")), "GATTACA")
}
