package genes

// codonTable is the standard genetic code keyed by DNA codon.
var codonTable = map[string]byte{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"TAT": 'Y', "TAC": 'Y', "TAA": '*', "TAG": '*',
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"TGT": 'C', "TGC": 'C', "TGA": '*', "TGG": 'W',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

var complementTable = map[byte]byte{
	'A': 'T', 'T': 'A', 'G': 'C', 'C': 'G',
	'R': 'Y', 'Y': 'R', 'S': 'S', 'W': 'W', 'K': 'M', 'M': 'K',
	'B': 'V', 'V': 'B', 'D': 'H', 'H': 'D', 'N': 'N',
}

// Translate converts an uppercase nucleotide sequence to amino acids using
// the standard genetic code. Trailing bases short of a full codon are
// dropped; codons containing ambiguity codes translate to 'X'; stop codons
// render as '*' and do not terminate translation.
func Translate(seq string) string {
	n := len(seq) / 3
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		aa, ok := codonTable[seq[3*i:3*i+3]]
		if !ok {
			aa = 'X'
		}
		out[i] = aa
	}
	return string(out)
}

// ReverseComplement returns the reverse complement of an uppercase DNA
// sequence, preserving IUPAC ambiguity codes. Unrecognized letters map to
// 'N'.
func ReverseComplement(seq string) string {
	out := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		c, ok := complementTable[seq[i]]
		if !ok {
			c = 'N'
		}
		out[len(seq)-1-i] = c
	}
	return string(out)
}
