package genes

import (
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	tbl := NewTable([]GeneRecord{
		{Gene: "b_2", Scaffold: "b", Start: 30, End: 38, Direction: -1},
		{Gene: "a_1", Scaffold: "a", Start: 0, End: 8, Direction: 1},
		{Gene: "b_1", Scaffold: "b", Start: 5, End: 13, Direction: 1},
		{Gene: "a_2", Scaffold: "a", Start: 12, End: 20, Direction: 1, Partial: true},
	})

	expect.EQ(t, tbl.Len(), 4)
	expect.EQ(t, tbl.Scaffolds(), []string{"a", "b"})
	expect.EQ(t, tbl.GeneCount("a"), 2)
	expect.EQ(t, tbl.GeneCount("b"), 2)
	expect.EQ(t, tbl.GeneCount("missing"), 0)

	recs := tbl.Records()
	require.Len(t, recs, 4)
	expect.EQ(t, recs[0].Gene, "a_1")
	expect.EQ(t, recs[1].Gene, "a_2")
	expect.EQ(t, recs[2].Gene, "b_1")
	expect.EQ(t, recs[3].Gene, "b_2")

	gs := tbl.ScaffoldGenes("b")
	require.Len(t, gs, 2)
	expect.EQ(t, gs[0].Gene, "b_1")
	expect.EQ(t, gs[1].Gene, "b_2")
	expect.EQ(t, len(tbl.ScaffoldGenes("missing")), 0)
}

func TestNewTableEmpty(t *testing.T) {
	tbl := NewTable(nil)
	expect.EQ(t, tbl.Len(), 0)
	expect.EQ(t, len(tbl.Scaffolds()), 0)
}

func TestGeneRecordLength(t *testing.T) {
	g := GeneRecord{Start: 10, End: 18}
	expect.EQ(t, g.Length(), 9)
}
