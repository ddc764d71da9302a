package ssbond

import (
	"bytes"

	"github.com/andrew-torda/ssbond/pdb/cmmn"
)

// Placeholder is used for unknown residues and gaps.
const Placeholder byte = 'X'

var oneLetter = map[string]byte{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C', "CYX": 'C',
	"GLN": 'Q', "GLU": 'E', "GLY": 'G', "HIS": 'H', "ILE": 'I', "LEU": 'L',
	"LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P', "SER": 'S', "THR": 'T',
	"TRP": 'W', "TYR": 'Y', "VAL": 'V',
}

// OneLetter maps a residue name to its code or Placeholder.
func OneLetter(resn string) byte {
	if c, ok := oneLetter[resn]; ok {
		return c
	}
	return Placeholder
}

// Fingerprint is the sequence from resi-window to resi+window on one
// chain, one letter per residue. Residues which are missing or
// unknown give Placeholder, so the result always has 2*window+1
// letters. If the provider cannot answer, the whole fingerprint is
// Placeholder. It never fails.
func Fingerprint(p Provider, chain string, resi, window int) string {
	if window < 0 {
		window = 0
	}
	start := resi - window
	fp := bytes.Repeat([]byte{Placeholder}, 2*window+1)
	sel := cmmn.Selection{
		Chain: chain, ExactChain: true, HasResi: true, ResiLo: start, ResiHi: resi + window,
		Names: []string{"CA"},
	}
	atoms, err := p.Atoms(sel)
	if err != nil {
		return string(fp)
	}
	filled := make([]bool, len(fp))
	for _, a := range atoms {
		i := a.ResNum - start
		if i < 0 || i >= len(fp) || filled[i] { // insertion codes, first wins
			continue
		}
		fp[i] = OneLetter(a.ResName)
		filled[i] = true
	}
	return string(fp)
}

// SeqScore is the fraction of positions at which two fingerprints
// agree, over the length of the longer one. It is 0 if either is
// empty. Shifts and gaps are not handled; this is not an alignment.
func SeqScore(s1, s2 string) float64 {
	if len(s1) == 0 || len(s2) == 0 {
		return 0
	}
	n := min(len(s1), len(s2))
	matches := 0
	for i := 0; i < n; i++ {
		if s1[i] == s2[i] {
			matches++
		}
	}
	return float64(matches) / float64(max(len(s1), len(s2)))
}
