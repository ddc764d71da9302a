package ssbond_test

import (
	"errors"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrew-torda/ssbond/pdb"
	"github.com/andrew-torda/ssbond/pdb/cmmn"
	"github.com/andrew-torda/ssbond/pdb/pdbtest"
)

// filler is cycled through to give residues that are not cysteines,
// so windows around different sites do not look the same.
const filler = "AGLKDESTRVNQ"

// seqFor returns residues first..last with cysteines at cys.
func seqFor(first, last int, cys ...int) string {
	isCys := make(map[int]bool)
	for _, c := range cys {
		isCys[c] = true
	}
	var sb strings.Builder
	for i := first; i <= last; i++ {
		if isCys[i] {
			sb.WriteByte('C')
		} else {
			sb.WriteByte(filler[i%len(filler)])
		}
	}
	return sb.String()
}

// refTgt builds the two structures used for comparing. ref has its
// disulfides in CONECT records. tgt has the same two, moved by 1.2 A,
// and an extra one in chain B.
func refTgt() (*pdbtest.Builder, *pdbtest.Builder) {
	seqA := seqFor(20, 115, 26, 58, 84, 110)
	ref := pdbtest.NewBuilder().Chain("A", 20, seqA, 0)
	ref.Disulfide("A", 26, "A", 84, r3.Vec{X: 10, Y: 50}, 2.05)
	ref.Disulfide("A", 58, "A", 110, r3.Vec{X: 30, Y: 50}, 2.05)
	ref.Conect("A", 26, "A", 84).Conect("A", 58, "A", 110)

	tgt := pdbtest.NewBuilder().Chain("A", 20, seqA, 0).Chain("B", 10, seqFor(10, 45, 12, 40), 20)
	tgt.Disulfide("A", 26, "A", 84, r3.Vec{X: 11.2, Y: 50}, 2.05)
	tgt.Disulfide("A", 58, "A", 110, r3.Vec{X: 30, Y: 51.2}, 2.05)
	tgt.Disulfide("B", 12, "B", 40, r3.Vec{X: 80, Y: 90}, 2.0)
	return ref, tgt
}

var errBroken = errors.New("broken provider")

// failing answers no atom queries.
type failing struct {
	*pdb.Structure
}

func (failing) Atoms(cmmn.Selection) ([]cmmn.Atom, error) { return nil, errBroken }

var pdbAll cmmn.Selection
