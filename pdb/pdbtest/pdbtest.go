// Package pdbtest builds small, made up PDB files for tests.
// Residues are laid out along x, 3.8 A apart, with only an alpha
// carbon, plus a sulfur for each cysteine. Sulfurs can then be put
// wherever a test wants them.
package pdbtest

import (
	"fmt"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrew-torda/ssbond/pdb"
	"github.com/andrew-torda/ssbond/pdb/cmmn"
)

const caSpacing = 3.8

var three = map[byte]string{
	'A': "ALA", 'R': "ARG", 'N': "ASN", 'D': "ASP", 'C': "CYS",
	'Q': "GLN", 'E': "GLU", 'G': "GLY", 'H': "HIS", 'I': "ILE",
	'L': "LEU", 'K': "LYS", 'M': "MET", 'F': "PHE", 'P': "PRO",
	'S': "SER", 'T': "THR", 'W': "TRP", 'Y': "TYR", 'V': "VAL",
	'X': "UNK",
}

// Builder collects atoms and records.
type Builder struct {
	header []string
	atoms  []cmmn.Atom
	conect [][2]int
	ssbond [][4]string
}

// NewBuilder starts an empty file.
func NewBuilder() *Builder { return &Builder{} }

// Header adds a record which is written before the atoms.
func (b *Builder) Header(line string) *Builder {
	b.header = append(b.header, line)
	return b
}

// Atom adds a single atom and returns its serial number.
func (b *Builder) Atom(chain string, resi int, resn, name string, pos r3.Vec) int {
	serial := len(b.atoms) + 1
	b.atoms = append(b.atoms, cmmn.Atom{
		Serial: serial, Name: name, ResName: resn, Chain: chain,
		ResNum: resi, Coord: pos, Occupancy: 1, Element: name[:1],
	})
	return serial
}

// Chain adds one residue per letter of seq, numbered from start.
// Alpha carbons sit on a line along x at height y. Each C gets a
// sulfur 1.8 A above its alpha carbon.
func (b *Builder) Chain(chain string, start int, seq string, y float64) *Builder {
	for i := 0; i < len(seq); i++ {
		resn, ok := three[seq[i]]
		if !ok {
			resn = "UNK"
		}
		ca := r3.Vec{X: caSpacing * float64(i), Y: y}
		b.Atom(chain, start+i, resn, "CA", ca)
		if seq[i] == 'C' {
			b.Atom(chain, start+i, resn, "SG", r3.Add(ca, r3.Vec{Z: 1.8}))
		}
	}
	return b
}

// find returns the index of an atom or panics, since a test asking
// for an atom it did not build is broken.
func (b *Builder) find(chain string, resi int, name string) int {
	for i, a := range b.atoms {
		if a.Chain == chain && a.ResNum == resi && a.Name == name {
			return i
		}
	}
	panic(fmt.Sprintf("pdbtest: no atom %s/%d/%s", chain, resi, name))
}

// PutSG moves the sulfur of a cysteine.
func (b *Builder) PutSG(chain string, resi int, pos r3.Vec) *Builder {
	b.atoms[b.find(chain, resi, "SG")].Coord = pos
	return b
}

// Disulfide places the sulfurs of two cysteines d apart, centred on
// mid, along x.
func (b *Builder) Disulfide(c1 string, r1 int, c2 string, r2 int, mid r3.Vec, d float64) *Builder {
	b.PutSG(c1, r1, r3.Sub(mid, r3.Vec{X: d / 2}))
	b.PutSG(c2, r2, r3.Add(mid, r3.Vec{X: d / 2}))
	return b
}

// Conect bonds the sulfurs of two cysteines with a CONECT record.
func (b *Builder) Conect(c1 string, r1 int, c2 string, r2 int) *Builder {
	i, j := b.find(c1, r1, "SG"), b.find(c2, r2, "SG")
	b.conect = append(b.conect, [2]int{b.atoms[i].Serial, b.atoms[j].Serial})
	return b
}

// SSBond adds an SSBOND header record.
func (b *Builder) SSBond(c1 string, r1 int, c2 string, r2 int) *Builder {
	b.ssbond = append(b.ssbond, [4]string{c1, fmt.Sprint(r1), c2, fmt.Sprint(r2)})
	return b
}

// String gives the file contents.
func (b *Builder) String() string {
	var sb strings.Builder
	for i, s := range b.ssbond {
		fmt.Fprintf(&sb, "SSBOND %3d CYS %1s %4s    CYS %1s %4s                          1555\n",
			i+1, s[0], s[1], s[2], s[3])
	}
	for _, h := range b.header {
		sb.WriteString(h + "\n")
	}
	for _, a := range b.atoms {
		fmt.Fprintf(&sb, "ATOM  %5d  %-3s %3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f           %1s\n",
			a.Serial, a.Name, a.ResName, a.Chain, a.ResNum,
			a.Coord.X, a.Coord.Y, a.Coord.Z, a.Occupancy, a.BFactor, a.Element)
	}
	for _, c := range b.conect {
		fmt.Fprintf(&sb, "CONECT%5d%5d\n", c[0], c[1])
	}
	sb.WriteString("END\n")
	return sb.String()
}

// Structure parses what was built.
func (b *Builder) Structure(t testing.TB, name string) *pdb.Structure {
	t.Helper()
	s, err := pdb.Read(strings.NewReader(b.String()), name)
	if err != nil {
		t.Fatalf("pdbtest: parsing built structure %s: %v", name, err)
	}
	return s
}
