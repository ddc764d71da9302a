package ssbond

import (
	"fmt"

	"github.com/andrew-torda/ssbond/pdb/cmmn"
)

// PairKey names a bond by its two residues. It does not care which
// end is given first: NewPairKey puts the lower (chain, residue) end
// first, so A:84-A:26 and A:26-A:84 are the same key.
type PairKey struct {
	Chain1 string
	Resi1  int
	Chain2 string
	Resi2  int
}

func resLess(c1 string, r1 int, c2 string, r2 int) bool {
	if c1 != c2 {
		return c1 < c2
	}
	return r1 < r2
}

// NewPairKey is the only way keys should be built.
func NewPairKey(c1 string, r1 int, c2 string, r2 int) PairKey {
	if resLess(c2, r2, c1, r1) {
		c1, r1, c2, r2 = c2, r2, c1, r1
	}
	return PairKey{Chain1: c1, Resi1: r1, Chain2: c2, Resi2: r2}
}

// AtomKey is the key for a bond between two atoms.
func AtomKey(a, b *cmmn.Atom) PairKey {
	return NewPairKey(a.Chain, a.ResNum, b.Chain, b.ResNum)
}

// String is the label chain:resi-chain:resi.
func (k PairKey) String() string {
	return fmt.Sprintf("%s:%d-%s:%d", k.Chain1, k.Resi1, k.Chain2, k.Resi2)
}

// Less orders keys by first then second end.
func (k PairKey) Less(o PairKey) bool {
	if k.Chain1 != o.Chain1 || k.Resi1 != o.Resi1 {
		return resLess(k.Chain1, k.Resi1, o.Chain1, o.Resi1)
	}
	return resLess(k.Chain2, k.Resi2, o.Chain2, o.Resi2)
}

// Sel1 and Sel2 select the sulfur at each end.
func (k PairKey) Sel1() cmmn.Selection { return cmmn.Residue(k.Chain1, k.Resi1, cysSulfur) }
func (k PairKey) Sel2() cmmn.Selection { return cmmn.Residue(k.Chain2, k.Resi2, cysSulfur) }
