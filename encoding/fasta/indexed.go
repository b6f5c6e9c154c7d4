package fasta

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// faidxEntry is one line of a samtools faidx index: sequence length in
// bases, byte offset of the first base, bases per line, and bytes per line
// including the terminator.
type faidxEntry struct {
	length    uint64
	offset    uint64
	lineBase  uint64
	lineWidth uint64
}

type indexedFasta struct {
	mu       sync.Mutex
	r        io.ReadSeeker
	seqs     map[string]faidxEntry
	seqNames []string
	buf      []byte
}

// NewIndexed returns a Fasta that resolves lookups through a faidx index and
// reads sequence data on demand. fastaR must remain open for the life of the
// returned value.
func NewIndexed(fastaR io.ReadSeeker, index io.Reader) (Fasta, error) {
	f := &indexedFasta{r: fastaR, seqs: make(map[string]faidxEntry)}
	sc := bufio.NewScanner(index)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			return nil, errors.Errorf("fasta: malformed index line %q", line)
		}
		var (
			ent faidxEntry
			err error
		)
		if ent.length, err = strconv.ParseUint(fields[1], 10, 64); err != nil {
			return nil, errors.Wrapf(err, "fasta: index line %q", line)
		}
		if ent.offset, err = strconv.ParseUint(fields[2], 10, 64); err != nil {
			return nil, errors.Wrapf(err, "fasta: index line %q", line)
		}
		if ent.lineBase, err = strconv.ParseUint(fields[3], 10, 64); err != nil {
			return nil, errors.Wrapf(err, "fasta: index line %q", line)
		}
		if ent.lineWidth, err = strconv.ParseUint(fields[4], 10, 64); err != nil {
			return nil, errors.Wrapf(err, "fasta: index line %q", line)
		}
		if ent.lineBase == 0 || ent.lineWidth <= ent.lineBase {
			return nil, errors.Errorf("fasta: index line %q has impossible line geometry", line)
		}
		name := fields[0]
		if _, ok := f.seqs[name]; ok {
			return nil, errors.Errorf("fasta: duplicate sequence %s in index", name)
		}
		f.seqs[name] = ent
		f.seqNames = append(f.seqNames, name)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "fasta: reading index")
	}
	if len(f.seqNames) == 0 {
		return nil, errors.New("fasta: empty index")
	}
	return f, nil
}

// Get implements Fasta.Get().
func (f *indexedFasta) Get(seqName string, start, end uint64) (string, error) {
	ent, ok := f.seqs[seqName]
	if !ok {
		return "", errors.Errorf("fasta: sequence not found in index: %s", seqName)
	}
	if end <= start || end > ent.length {
		return "", errors.Errorf("fasta: invalid range [%d,%d) for sequence %s of length %d",
			start, end, seqName, ent.length)
	}

	// Byte offset of the first requested base, counting the terminators of
	// the lines before it, and the byte span through the last requested
	// base.
	term := ent.lineWidth - ent.lineBase
	off := ent.offset + start + term*(start/ent.lineBase)
	span := (end - start) + term*((end-1)/ent.lineBase-start/ent.lineBase)

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.r.Seek(int64(off), io.SeekStart); err != nil {
		return "", errors.Wrapf(err, "fasta: seek %s", seqName)
	}
	if uint64(cap(f.buf)) < span {
		f.buf = make([]byte, span)
	}
	buf := f.buf[:span]
	if _, err := io.ReadFull(f.r, buf); err != nil {
		return "", errors.Wrapf(err, "fasta: read %s [%d,%d): truncated file or stale index",
			seqName, start, end)
	}

	out := make([]byte, 0, end-start)
	col := start % ent.lineBase
	for _, b := range buf {
		if col < ent.lineBase {
			out = append(out, b)
		}
		col++
		if col == ent.lineWidth {
			col = 0
		}
	}
	return string(out), nil
}

// Len implements Fasta.Len().
func (f *indexedFasta) Len(seqName string) (uint64, error) {
	ent, ok := f.seqs[seqName]
	if !ok {
		return 0, errors.Errorf("fasta: sequence not found in index: %s", seqName)
	}
	return ent.length, nil
}

// SeqNames implements Fasta.SeqNames().
func (f *indexedFasta) SeqNames() []string {
	return f.seqNames
}
