package pdb

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrew-torda/ssbond/geom"
	"github.com/andrew-torda/ssbond/pdb/cmmn"
)

// Structure is one model read from a PDB file. It answers atom and
// topology queries and takes edits: new bonds, translations and
// marker points. Edits take effect immediately.
type Structure struct {
	name    string
	header  []string // records before the coordinates, written back verbatim
	atoms   []cmmn.Atom
	bonds   [][2]int // i < j, indices into atoms
	bset    map[[2]int]bool
	markers []r3.Vec
}

// New returns an empty structure.
func New(name string) *Structure {
	return &Structure{name: name, bset: make(map[[2]int]bool)}
}

// FromAtoms builds a structure directly. Used when the atoms come
// from somewhere other than a file.
func FromAtoms(name string, atoms []cmmn.Atom) *Structure {
	s := New(name)
	s.atoms = append(s.atoms, atoms...)
	return s
}

// Name of the structure, usually the file name without suffix.
func (s *Structure) Name() string { return s.name }

// NAtom is the number of atoms.
func (s *Structure) NAtom() int { return len(s.atoms) }

// Header returns the records kept from before the coordinates.
func (s *Structure) Header() []string { return s.header }

// Markers returns the positions placed with PlaceMarker.
func (s *Structure) Markers() []r3.Vec { return s.markers }

func (s *Structure) addBond(i, j int) bool {
	if i == j {
		return false
	}
	if i > j {
		i, j = j, i
	}
	k := [2]int{i, j}
	if s.bset[k] {
		return false
	}
	s.bset[k] = true
	s.bonds = append(s.bonds, k)
	return true
}

// first returns the index of the first atom matching sel or -1.
func (s *Structure) first(sel cmmn.Selection) int {
	for i := range s.atoms {
		if sel.Match(&s.atoms[i]) {
			return i
		}
	}
	return -1
}

// firstOrErr is first, but with an error naming the selection.
func (s *Structure) firstOrErr(sel cmmn.Selection) (int, error) {
	if err := sel.Check(); err != nil {
		return -1, err
	}
	i := s.first(sel)
	if i < 0 {
		return -1, fmt.Errorf("%s %s: %w", s.name, sel, cmmn.ErrNoAtoms)
	}
	return i, nil
}

// Atoms returns copies of the atoms matching sel, in file order.
func (s *Structure) Atoms(sel cmmn.Selection) ([]cmmn.Atom, error) {
	if err := sel.Check(); err != nil {
		return nil, err
	}
	var ret []cmmn.Atom
	for i := range s.atoms {
		if sel.Match(&s.atoms[i]) {
			ret = append(ret, s.atoms[i])
		}
	}
	return ret, nil
}

// Topology returns the atoms matching sel and the bonds between them,
// renumbered to index the returned atoms.
func (s *Structure) Topology(sel cmmn.Selection) (cmmn.Model, error) {
	var m cmmn.Model
	if err := sel.Check(); err != nil {
		return m, err
	}
	newNdx := make(map[int]int)
	for i := range s.atoms {
		if sel.Match(&s.atoms[i]) {
			newNdx[i] = len(m.Atoms)
			m.Atoms = append(m.Atoms, s.atoms[i])
		}
	}
	for _, b := range s.bonds {
		i, ok1 := newNdx[b[0]]
		j, ok2 := newNdx[b[1]]
		if ok1 && ok2 {
			m.Bonds = append(m.Bonds, [2]int{i, j})
		}
	}
	return m, nil
}

// CreateBond bonds the first atom of a to the first atom of b.
// Bonding an existing pair again is not an error.
func (s *Structure) CreateBond(a, b cmmn.Selection) error {
	i, err := s.firstOrErr(a)
	if err != nil {
		return err
	}
	j, err := s.firstOrErr(b)
	if err != nil {
		return err
	}
	if i == j {
		return fmt.Errorf("%s: cannot bond atom %d to itself", s.name, s.atoms[i].Serial)
	}
	s.addBond(i, j)
	return nil
}

// Bonded says if the first atoms of a and b are bonded.
func (s *Structure) Bonded(a, b cmmn.Selection) bool {
	i, j := s.first(a), s.first(b)
	if i < 0 || j < 0 {
		return false
	}
	if i > j {
		i, j = j, i
	}
	return s.bset[[2]int{i, j}]
}

// NBond is the number of bonds we know about.
func (s *Structure) NBond() int { return len(s.bonds) }

// Distance measures between the first atoms of a and b.
func (s *Structure) Distance(a, b cmmn.Selection) (float64, error) {
	i, err := s.firstOrErr(a)
	if err != nil {
		return 0, err
	}
	j, err := s.firstOrErr(b)
	if err != nil {
		return 0, err
	}
	return geom.Dist(s.atoms[i].Coord, s.atoms[j].Coord), nil
}

// Count is the number of atoms matching sel. Broken selections
// match nothing.
func (s *Structure) Count(sel cmmn.Selection) int {
	if sel.Check() != nil {
		return 0
	}
	n := 0
	for i := range s.atoms {
		if sel.Match(&s.atoms[i]) {
			n++
		}
	}
	return n
}

// Translate moves every atom in sel by v.
func (s *Structure) Translate(sel cmmn.Selection, v r3.Vec) error {
	if !geom.Finite(v) {
		return fmt.Errorf("%s: translation %v is not finite", s.name, v)
	}
	if err := sel.Check(); err != nil {
		return err
	}
	n := 0
	for i := range s.atoms {
		if sel.Match(&s.atoms[i]) {
			s.atoms[i].Coord = r3.Add(s.atoms[i].Coord, v)
			n++
		}
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", s.name, sel, cmmn.ErrNoAtoms)
	}
	return nil
}

// PlaceMarker remembers a point that has no atom behind it and
// returns a handle, counting from 1.
func (s *Structure) PlaceMarker(pos r3.Vec) (int, error) {
	if !geom.Finite(pos) {
		return 0, fmt.Errorf("%s: marker position %v is not finite", s.name, pos)
	}
	s.markers = append(s.markers, pos)
	return len(s.markers), nil
}

// Write writes the atoms in sel, and the bonds between them, in PDB
// format. Atoms are renumbered from 1. Markers are not written.
func (s *Structure) Write(w io.Writer, sel cmmn.Selection) error {
	if err := sel.Check(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for _, h := range s.header {
		fmt.Fprintln(bw, h)
	}
	newSerial := make(map[int]int)
	serial := 0
	var last *cmmn.Atom
	for i := range s.atoms {
		a := &s.atoms[i]
		if !sel.Match(a) {
			continue
		}
		if last != nil && last.Chain != a.Chain && !last.Het {
			serial++
			fmt.Fprintln(bw, terLine(serial, last))
		}
		serial++
		newSerial[i] = serial
		fmt.Fprintln(bw, atomLine(serial, a))
		last = a
	}
	if last != nil && !last.Het {
		serial++
		fmt.Fprintln(bw, terLine(serial, last))
	}
	for _, b := range s.bonds {
		i, ok1 := newSerial[b[0]]
		j, ok2 := newSerial[b[1]]
		if ok1 && ok2 {
			fmt.Fprintln(bw, conectLine(i, j))
		}
	}
	fmt.Fprintln(bw, "END")
	return bw.Flush()
}

// Save writes the atoms in sel to a file.
func (s *Structure) Save(path string, sel cmmn.Selection) (err error) {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, fp.Close()) }()
	if err = s.Write(fp, sel); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
