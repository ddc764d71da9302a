// Fixed column PDB records. We read ATOM, HETATM, CONECT, SSBOND,
// MODEL and ENDMDL. Everything else before the coordinates is kept
// as text so it can be written back out.

package pdb

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrew-torda/ssbond/pdb/cmmn"
)

const maxMsgLen = 70

// ReadError saves the line number and the line we were trying to read.
type ReadError struct {
	N      int    // line number
	Inline string // The line that provoked the error
	Desc   string
}

func firstPart(s string) string {
	if len(s) > maxMsgLen {
		return s[:maxMsgLen]
	}
	return s
}

func (e *ReadError) Error() string {
	return "line " + strconv.Itoa(e.N) + ": " + e.Desc +
		"\nline starting with\n" + firstPart(e.Inline)
}

// ssbondPair is an SSBOND record before we know if its atoms exist.
type ssbondPair struct {
	c1, c2 string
	r1, r2 int
}

// parser carries state between lines.
type parser struct {
	n         int  // line number
	inModel   bool // between MODEL and ENDMDL
	doneModel bool // finished the first model, ignore coordinates
	serials   map[int]int
	seen      map[string]bool // atoms already read, for altlocs
	conect    [][2]int        // serial numbers
	ssbond    []ssbondPair
}

// col returns columns [i, j) of a line, trimmed. Short lines give
// empty strings.
func col(line string, i, j int) string {
	if i >= len(line) {
		return ""
	}
	if j > len(line) {
		j = len(line)
	}
	return strings.TrimSpace(line[i:j])
}

func colByte(line string, i int) byte {
	if i >= len(line) || line[i] == ' ' {
		return 0
	}
	return line[i]
}

func (p *parser) fail(line, desc string) error {
	return &ReadError{N: p.n, Inline: line, Desc: desc}
}

// recName is the record name, columns 1-6, without trailing space.
func recName(line string) string {
	return col(line, 0, 6)
}

func (p *parser) line(s *Structure, line string) error {
	switch recName(line) {
	case "MODEL":
		p.inModel = true
	case "ENDMDL":
		if p.inModel {
			p.doneModel = true
		}
		p.inModel = false
	case "ATOM", "HETATM":
		if p.doneModel {
			return nil
		}
		return p.atom(s, line)
	case "CONECT":
		return p.conectLine(line)
	case "SSBOND":
		return p.ssbondLine(line)
	case "ANISOU", "TER", "END", "MASTER", "SIGUIJ", "SIGATM":
	default:
		if len(s.atoms) == 0 && !p.doneModel {
			s.header = append(s.header, line)
		}
	}
	return nil
}

func (p *parser) atom(s *Structure, line string) error {
	var a cmmn.Atom
	var err error
	a.Het = recName(line) == "HETATM"
	a.Name = col(line, 12, 16)
	a.AltLoc = colByte(line, 16)
	a.ResName = col(line, 17, 20)
	a.Chain = col(line, 21, 22)
	if a.ResNum, err = strconv.Atoi(col(line, 22, 26)); err != nil {
		return p.fail(line, "bad residue number")
	}
	a.InsCode = colByte(line, 26)
	var xyz [3]float64
	for i := range xyz {
		lo := 30 + 8*i
		if xyz[i], err = strconv.ParseFloat(col(line, lo, lo+8), 64); err != nil {
			return p.fail(line, "bad coordinate")
		}
	}
	a.Coord = r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	a.Occupancy = parseOr(col(line, 54, 60), 1)
	a.BFactor = parseOr(col(line, 60, 66), 0)
	a.Element = col(line, 76, 78)

	key := fmt.Sprintf("%s|%d|%c|%s", a.Chain, a.ResNum, a.InsCode, a.Name)
	if p.seen == nil {
		p.seen = make(map[string]bool)
		p.serials = make(map[int]int)
	}
	if p.seen[key] { // second altloc, or a duplicate
		return nil
	}
	p.seen[key] = true

	// Big files use hybrid-36 serials. We do not decode them, so such
	// atoms just get their position in the file and no CONECT.
	serial, err := strconv.Atoi(col(line, 6, 11))
	if err != nil {
		serial = 0
	}
	a.Serial = serial
	if serial != 0 {
		if _, dup := p.serials[serial]; !dup {
			p.serials[serial] = len(s.atoms)
		}
	}
	s.atoms = append(s.atoms, a)
	return nil
}

func parseOr(s string, dflt float64) float64 {
	if x, err := strconv.ParseFloat(s, 64); err == nil {
		return x
	}
	return dflt
}

// conectLine reads an atom and up to four bonded partners.
func (p *parser) conectLine(line string) error {
	from, err := strconv.Atoi(col(line, 6, 11))
	if err != nil {
		return p.fail(line, "bad CONECT atom serial")
	}
	for i := 11; i < 31; i += 5 {
		f := col(line, i, i+5)
		if f == "" {
			continue
		}
		to, err := strconv.Atoi(f)
		if err != nil {
			return p.fail(line, "bad CONECT partner serial")
		}
		p.conect = append(p.conect, [2]int{from, to})
	}
	return nil
}

func (p *parser) ssbondLine(line string) error {
	var b ssbondPair
	var e1, e2 error
	b.c1 = col(line, 15, 16)
	b.r1, e1 = strconv.Atoi(col(line, 17, 21))
	b.c2 = col(line, 29, 30)
	b.r2, e2 = strconv.Atoi(col(line, 31, 35))
	if e1 != nil || e2 != nil {
		return p.fail(line, "bad SSBOND residue number")
	}
	p.ssbond = append(p.ssbond, b)
	return nil
}

// finish turns CONECT serials and SSBOND residues into bonds between
// atom indices. Records pointing at atoms we do not have are dropped.
func (p *parser) finish(s *Structure) {
	for _, c := range p.conect {
		i, ok1 := p.serials[c[0]]
		j, ok2 := p.serials[c[1]]
		if ok1 && ok2 {
			s.addBond(i, j)
		}
	}
	for _, b := range p.ssbond {
		i := s.first(cmmn.Residue(b.c1, b.r1, "SG"))
		j := s.first(cmmn.Residue(b.c2, b.r2, "SG"))
		if i >= 0 && j >= 0 {
			s.addBond(i, j)
		}
	}
}

// atomName puts a name in the four characters of columns 13-16.
// Names shorter than four characters start in column 14.
func atomName(n string) string {
	if len(n) >= 4 {
		return n[:4]
	}
	return " " + n + strings.Repeat(" ", 3-len(n))
}

func blankIfZero(b byte) byte {
	if b == 0 {
		return ' '
	}
	return b
}

func chainCol(c string) string {
	if c == "" {
		return " "
	}
	return c[:1]
}

// fmtCoord keeps coordinates inside their eight columns.
func fmtCoord(x float64) string {
	x = math.Max(-999.999, math.Min(9999.999, x))
	return fmt.Sprintf("%8.3f", x)
}

// atomLine formats one ATOM/HETATM record.
func atomLine(serial int, a *cmmn.Atom) string {
	rec := "ATOM  "
	if a.Het {
		rec = "HETATM"
	}
	return fmt.Sprintf("%s%5d %s%c%3s %s%4d%c   %s%s%s%6.2f%6.2f          %2s",
		rec, serial%100000, atomName(a.Name), blankIfZero(a.AltLoc), a.ResName,
		chainCol(a.Chain), a.ResNum, blankIfZero(a.InsCode),
		fmtCoord(a.Coord.X), fmtCoord(a.Coord.Y), fmtCoord(a.Coord.Z),
		a.Occupancy, a.BFactor, a.Element)
}

func terLine(serial int, a *cmmn.Atom) string {
	return fmt.Sprintf("TER   %5d      %3s %s%4d%c",
		serial%100000, a.ResName, chainCol(a.Chain), a.ResNum, blankIfZero(a.InsCode))
}

func conectLine(a, b int) string {
	return fmt.Sprintf("CONECT%5d%5d", a%100000, b%100000)
}
