// Package pdb/cmmn has common definitions for atoms, selections and
// the bonded model handed out by a structure.
package cmmn

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrNoAtoms means a selection matched nothing.
	ErrNoAtoms = errors.New("selection matches no atoms")
	// ErrBadSelection is returned for selections that cannot match,
	// like a residue range running backwards.
	ErrBadSelection = errors.New("bad selection")
)

// Atom is one ATOM or HETATM record.
type Atom struct {
	Serial    int
	Name      string // SG, CA, ...
	AltLoc    byte
	ResName   string // CYS, ALA, ...
	Chain     string
	ResNum    int
	InsCode   byte
	Coord     r3.Vec
	Occupancy float64
	BFactor   float64
	Element   string
	Het       bool
}

// Model is a set of atoms with bonds given as pairs of indices
// into Atoms.
type Model struct {
	Atoms []Atom
	Bonds [][2]int
}

// Selection picks atoms. Zero values mean "anything", so the zero
// Selection matches every atom. With ExactChain set, an empty Chain
// only matches atoms with a blank chain identifier.
type Selection struct {
	Chain      string
	ExactChain bool
	HasResi    bool
	ResiLo     int
	ResiHi     int
	Names      []string // atom names
	ResNames   []string // residue names
	Serial     int      // 0 means any
}

// Residue returns a selection for a single named atom in one residue.
func Residue(chain string, resi int, name string) Selection {
	s := Selection{Chain: chain, ExactChain: true, HasResi: true, ResiLo: resi, ResiHi: resi}
	if name != "" {
		s.Names = []string{name}
	}
	return s
}

// Check says if a selection makes sense.
func (s Selection) Check() error {
	if s.HasResi && s.ResiLo > s.ResiHi {
		return fmt.Errorf("%w: residue range %d-%d", ErrBadSelection, s.ResiLo, s.ResiHi)
	}
	return nil
}

func inList(s string, l []string) bool {
	if len(l) == 0 {
		return true
	}
	for _, x := range l {
		if x == s {
			return true
		}
	}
	return false
}

// Match says if an atom is picked by the selection.
func (s Selection) Match(a *Atom) bool {
	if s.Serial != 0 && a.Serial != s.Serial {
		return false
	}
	if (s.Chain != "" || s.ExactChain) && a.Chain != s.Chain {
		return false
	}
	if s.HasResi && (a.ResNum < s.ResiLo || a.ResNum > s.ResiHi) {
		return false
	}
	return inList(a.Name, s.Names) && inList(a.ResName, s.ResNames)
}

// String gives the selection back in the syntax ParseSelection reads.
func (s Selection) String() string {
	chain, resi, name := "*", "*", "*"
	if s.Chain != "" {
		chain = s.Chain
	}
	if s.HasResi {
		resi = strconv.Itoa(s.ResiLo)
		if s.ResiHi != s.ResiLo {
			resi += ":" + strconv.Itoa(s.ResiHi)
		}
	}
	if len(s.Names) > 0 {
		name = strings.Join(s.Names, "+")
	}
	r := chain + "/" + resi + "/" + name
	if len(s.ResNames) > 0 {
		r += "/" + strings.Join(s.ResNames, "+")
	}
	return r
}

// ParseSelection reads selections written like
//
//	A/26/SG        atom SG of residue 26, chain A
//	A/10:20/CA     alpha carbons of residues 10 to 20
//	B              everything in chain B
//	*/*/SG/CYS+CYX every cysteine sulfur
//
// Fields are chain, residue or residue range, atom names and residue
// names. Empty fields and "*" match anything. Ranges use a colon, so
// negative residue numbers still work.
func ParseSelection(str string) (Selection, error) {
	var s Selection
	str = strings.TrimSpace(str)
	f := strings.Split(str, "/")
	if len(f) > 4 {
		return s, fmt.Errorf("%w: too many fields in %q", ErrBadSelection, str)
	}
	for len(f) < 4 {
		f = append(f, "")
	}
	wild := func(x string) bool { return x == "" || x == "*" }
	if !wild(f[0]) {
		s.Chain = f[0]
	}
	if !wild(f[1]) {
		lo, hi, found := strings.Cut(f[1], ":")
		var err error
		if s.ResiLo, err = strconv.Atoi(lo); err != nil {
			return s, fmt.Errorf("%w: residue %q", ErrBadSelection, f[1])
		}
		s.ResiHi = s.ResiLo
		if found {
			if s.ResiHi, err = strconv.Atoi(hi); err != nil {
				return s, fmt.Errorf("%w: residue %q", ErrBadSelection, f[1])
			}
		}
		s.HasResi = true
	}
	if !wild(f[2]) {
		s.Names = strings.Split(f[2], "+")
	}
	if !wild(f[3]) {
		s.ResNames = strings.Split(f[3], "+")
	}
	return s, s.Check()
}
