package main

/*
instrain-genes computes gene-level population-genetics metrics from a profile
store and a gene annotation: depth and breadth of coverage, clonality and
microdiversity, variant density, and per-variant mutation effects, each
resolved across the run's mismatch thresholds. It writes a gene info table
and a variant effect table as TSV.
*/

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/liupfskygre/inStrain/encoding/fasta"
	"github.com/liupfskygre/inStrain/genecall"
	"github.com/liupfskygre/inStrain/genes"
	"github.com/liupfskygre/inStrain/profile"
)

var (
	outPrefix   = flag.String("out", "instrain-genes", "Output path prefix")
	processes   = flag.Int("processes", genes.DefaultOpts.Workers, "Number of concurrent scaffold processors; 0 = runtime.NumCPU()")
	minANI      = flag.Float64("ani", genes.DefaultOpts.MinANI, "Population ANI level selecting the reporting threshold for the gene info table; 0 admits every threshold")
	format      = flag.String("format", "auto", "Gene annotation format; 'auto', 'prodigal', and 'gff' supported")
	fastaPath   = flag.String("fasta", "", "Assembly FASTA path; required with gff annotation")
	fastaIndex  = flag.String("fasta-index", "", "Optional faidx index for -fasta; the assembly is then read on demand instead of loaded into memory")
	readLength  = flag.Float64("read-length", 0, "Mean read length for the ANI threshold conversion; 0 = use the value stored with the profile")
	progress    = flag.Bool("progress", false, "Draw a progress bar, one tick per finished batch")
	storeTables = flag.Bool("store-tables", false, "Also persist the result tables into the profile store")
)

func instrainGenesUsage() {
	fmt.Printf("Usage: %s [OPTIONS] storepath genepath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = instrainGenesUsage
	shutdown := grail.Init()
	defer shutdown()

	allArgs := flag.Args()
	nPositionalArgs := flag.NArg()
	positionalArgs := allArgs[len(allArgs)-nPositionalArgs:]
	if nPositionalArgs != 2 {
		if nPositionalArgs < 2 {
			log.Fatalf("Missing positional arguments (storepath and genepath required); please check flag syntax: '%s'", strings.Join(positionalArgs, " "))
		}
		log.Fatalf("Too many positional arguments (only storepath and genepath expected); please check flag syntax: '%s'", strings.Join(positionalArgs, " "))
	}
	storePath, genePath := positionalArgs[0], positionalArgs[1]
	ctx := vcontext.Background()

	gf, err := resolveFormat(genePath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	tbl, seqs := parseAnnotation(ctx, gf, genePath)

	store, err := profile.Open(storePath)
	if err != nil {
		log.Fatalf("open profile store %s: %v", storePath, err)
	}
	defer store.Close() // nolint: errcheck

	opts := genes.DefaultOpts
	opts.Workers = *processes
	opts.MinANI = *minANI
	opts.Progress = *progress
	rc, err := genes.NewRunContext(store, tbl, seqs, opts)
	if err != nil {
		log.Panicf("%v", err)
	}
	res := genes.CalculateGeneMetrics(rc)

	length := *readLength
	if length <= 0 {
		info, err := store.Info()
		if err != nil {
			log.Fatalf("profile store carries no run info; pass -read-length: %v", err)
		}
		length = info.MeanReadLength
	}
	rows := genes.GeneInfo(tbl, res, length, *minANI)

	writeGeneInfo(ctx, *outPrefix+".gene_info.tsv", rows)
	writeMutationTypes(ctx, *outPrefix+".SNP_mutation_types.tsv", res.Mutations)
	if *storeTables {
		persist(store, rows, res)
	}
	log.Debug.Printf("exiting")
}

func resolveFormat(genePath string) (genecall.Format, error) {
	if *format == "auto" {
		return genecall.DetectFormat(genePath)
	}
	return genecall.ParseFormat(*format)
}

// loadAssembly opens the assembly named by -fasta. With -fasta-index it
// returns an indexed reader backed by the open file; the returned closer must
// be called once gene extraction is done.
func loadAssembly(ctx context.Context) (fasta.Fasta, func()) {
	in, err := file.Open(ctx, *fastaPath)
	if err != nil {
		log.Panicf("open %v: %v", *fastaPath, err)
	}
	if *fastaIndex == "" {
		assembly, err := fasta.New(in.Reader(ctx))
		if err != nil {
			log.Panicf("read %v: %v", *fastaPath, err)
		}
		if err := in.Close(ctx); err != nil {
			log.Panicf("close %v: %v", *fastaPath, err)
		}
		return assembly, func() {}
	}
	idxIn, err := file.Open(ctx, *fastaIndex)
	if err != nil {
		log.Panicf("open %v: %v", *fastaIndex, err)
	}
	assembly, err := fasta.NewIndexed(in.Reader(ctx), idxIn.Reader(ctx))
	if err != nil {
		log.Panicf("fasta.NewIndexed %s,%s: %v", *fastaPath, *fastaIndex, err)
	}
	if err := idxIn.Close(ctx); err != nil {
		log.Panicf("close %v: %v", *fastaIndex, err)
	}
	return assembly, func() {
		if err := in.Close(ctx); err != nil {
			log.Panicf("close %v: %v", *fastaPath, err)
		}
	}
}

func parseAnnotation(ctx context.Context, gf genecall.Format, genePath string) (*genes.Table, genes.SequenceMap) {
	var assembly fasta.Fasta
	if gf == genecall.FormatGFF {
		if *fastaPath == "" {
			log.Fatalf("-fasta is required with gff annotation")
		}
		var done func()
		assembly, done = loadAssembly(ctx)
		defer done()
	}
	in, err := file.Open(ctx, genePath)
	if err != nil {
		log.Panicf("open %v: %v", genePath, err)
	}
	tbl, seqs, err := genecall.Parse(gf, in.Reader(ctx), assembly)
	if err != nil {
		log.Panicf("parse %v: %v", genePath, err)
	}
	if err := in.Close(ctx); err != nil {
		log.Panicf("close %v: %v", genePath, err)
	}
	log.Printf("Loaded %d gene calls on %d scaffolds from %s", tbl.Len(), len(tbl.Scaffolds()), genePath)
	return tbl, seqs
}

func writeGeneInfo(ctx context.Context, path string, rows []genes.GeneInfoRow) {
	out, err := file.Create(ctx, path)
	if err != nil {
		log.Panicf("create %v: %v", path, err)
	}
	if err := genes.WriteGeneInfo(out.Writer(ctx), rows); err != nil {
		log.Panicf("write %v: %v", path, err)
	}
	if err := out.Close(ctx); err != nil {
		log.Panicf("close %v: %v", path, err)
	}
	log.Printf("Wrote %d genes to %s", len(rows), path)
}

func writeMutationTypes(ctx context.Context, path string, rows []genes.MutationRow) {
	out, err := file.Create(ctx, path)
	if err != nil {
		log.Panicf("create %v: %v", path, err)
	}
	if err := genes.WriteMutationTypes(out.Writer(ctx), rows); err != nil {
		log.Panicf("write %v: %v", path, err)
	}
	if err := out.Close(ctx); err != nil {
		log.Panicf("close %v: %v", path, err)
	}
	log.Printf("Wrote %d variants to %s", len(rows), path)
}

func persist(store *profile.Store, rows []genes.GeneInfoRow, res *genes.Results) {
	for _, d := range []struct {
		name string
		v    interface{}
	}{
		{"gene_info", rows},
		{"genes_coverage", res.Coverage},
		{"genes_clonality", res.Clonality},
		{"genes_SNP_density", res.Density},
		{"SNP_mutation_types", res.Mutations},
	} {
		if err := store.PutDataset(d.name, d.v); err != nil {
			log.Panicf("store dataset %s: %v", d.name, err)
		}
	}
	log.Printf("Stored result tables in the profile store")
}
