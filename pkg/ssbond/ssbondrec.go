package ssbond

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

const ssbondTag = "SSBOND"

// SSBondLine formats one SSBOND record. Both residues are written as
// CYS and the symmetry operators are both identity.
func SSBondLine(serial int, k PairKey) string {
	return fmt.Sprintf("SSBOND %3d CYS %1s %4d    CYS %1s %4d                          1555",
		serial, k.Chain1, k.Resi1, k.Chain2, k.Resi2)
}

// InjectSSBondStream copies r to w, dropping any SSBOND records and
// putting new ones, numbered from 1, in front of everything else.
// Other lines are copied byte for byte.
func InjectSSBondStream(r io.Reader, w io.Writer, keys []PairKey) error {
	bw := bufio.NewWriter(w)
	for i, k := range keys {
		if _, err := fmt.Fprintln(bw, SSBondLine(i+1, k)); err != nil {
			return err
		}
	}
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 && !bytes.HasPrefix(line, []byte(ssbondTag)) {
			if _, werr := bw.Write(line); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// InjectSSBond rewrites a structure file in place with new SSBOND
// records. A failed write is reported, not undone.
func InjectSSBond(path string, keys []PairKey) error {
	old, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := InjectSSBondStream(bytes.NewReader(old), &buf, keys); err != nil {
		return fmt.Errorf("ssbond records for %s: %w", path, err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), fi.Mode().Perm()); err != nil {
		return fmt.Errorf("rewriting %s: %w", path, err)
	}
	return nil
}
