// This is the upper level for reading PDB files.
// Decide if a file is compressed or not, and what format it is in.
// Old style PDB files are read into a Structure. mmCIF is recognised,
// but refused, since it has no SSBOND or CONECT records for us to
// rewrite.

package pdb

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/edsrzf/mmap-go"
	"go.uber.org/multierr"

	"github.com/andrew-torda/ssbond/pdb/zwrap"
)

const (
	oldFmt byte = iota
	mmcifFmt
	unkFmt
)

// ErrFormat is returned for files we cannot or will not read.
var ErrFormat = errors.New("unsupported structure file")

// comparefirst says if s starts with the word w.
func comparefirst(s, w string) bool {
	return len(s) >= len(w) && s[:len(w)] == w
}

// lookInFile opens a file and guesses if it is in old PDB format or
// in mmcif.
func lookInFile(fname string) (byte, error) {
	pdbWords := []string{"HEADER", "COMPND", "SOURCE", "REMARK", "SEQRES",
		"SSBOND", "CRYST1", "MODEL", "HETATM", "ATOM"}
	mmcifWords := []string{"data_", "_entry.id", "loop_"}
	rdr, err := zwrap.Open(fname)
	if err != nil {
		return unkFmt, err
	}
	defer rdr.Close()

	const maxTestLines = 5000
	scnnr := bufio.NewScanner(rdr)
	for i := 0; scnnr.Scan() && i < maxTestLines; i++ {
		s := scnnr.Text()
		for _, w := range mmcifWords {
			if comparefirst(s, w) {
				return mmcifFmt, nil
			}
		}
		for _, w := range pdbWords {
			if comparefirst(s, w) {
				return oldFmt, nil
			}
		}
	}
	return unkFmt, fmt.Errorf("%w: %s: cannot recognise format", ErrFormat, fname)
}

// oldOrMmcif decides what format we will use.
// It uses the file name if it can, otherwise it peeks inside.
// We cannot use the function from filepath to get the file type,
// since it will return .gz if we feed it a.pdb.gz.
func oldOrMmcif(fname string) (byte, error) {
	s := filepath.Base(fname)
	if i := strings.IndexByte(s, '.'); i != -1 {
		s = strings.ToLower(s[i+1:]) // change .ent to ent
		if strings.Contains(s, "pdb") || strings.Contains(s, "ent") {
			return oldFmt, nil
		} else if strings.Contains(s, "mmcif") || strings.Contains(s, "cif") {
			return mmcifFmt, nil
		}
	}
	return lookInFile(fname)
}

// ReadFile reads a structure from a PDB file, which may be gzipped.
// Plain files are memory mapped.
// The structure is named after the file, without directory or suffix.
func ReadFile(fname string) (*Structure, error) {
	typ, err := oldOrMmcif(fname)
	if err != nil {
		return nil, err
	}
	if typ == mmcifFmt {
		return nil, fmt.Errorf("%w: %s is mmcif, convert to pdb format", ErrFormat, fname)
	}
	name := objName(fname)

	rdr, err := zwrap.Open(fname)
	if err != nil {
		return nil, err
	}
	if rdr.Compressed() {
		defer rdr.Close()
		return Read(rdr, name)
	}
	if err = rdr.Close(); err != nil {
		return nil, err
	}
	return readMapped(fname, name)
}

// readMapped maps an uncompressed file and parses it from memory.
// Everything we keep is copied out before the unmap.
func readMapped(fname, name string) (s *Structure, err error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer func() { err = multierr.Append(err, fp.Close()) }()
	fi, err := fp.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrFormat, fname)
	}
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer func() { err = multierr.Append(err, mm.Unmap()) }()
	return Read(bytes.NewReader(mm), name)
}

// objName turns /a/b/1abc.pdb.gz into 1abc.
func objName(fname string) string {
	s := filepath.Base(fname)
	if i := strings.IndexByte(s, '.'); i > 0 {
		s = s[:i]
	}
	return s
}

// Read parses PDB records from a reader. Only the first model is
// kept. The name is used in messages and by Structure.Name.
func Read(r io.Reader, name string) (*Structure, error) {
	s := New(name)
	var p parser
	scnnr := bufio.NewScanner(r)
	for scnnr.Scan() {
		p.n++
		if err := p.line(s, scnnr.Text()); err != nil {
			return nil, err
		}
	}
	if err := scnnr.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(s.atoms) == 0 {
		return nil, fmt.Errorf("%w: %s has no atoms", ErrFormat, name)
	}
	p.finish(s)
	return s, nil
}
