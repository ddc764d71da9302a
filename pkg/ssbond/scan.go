package ssbond

import (
	"fmt"
	"math"

	"github.com/andrew-torda/matrix"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrew-torda/ssbond/geom"
	"github.com/andrew-torda/ssbond/pdb/cmmn"
)

// Bond is a candidate disulfide. Atom1 is the end named first in
// Key. Seqs holds the two fingerprints, sorted, so it does not say
// which end each came from.
type Bond struct {
	Key      PairKey
	Atom1    cmmn.Atom
	Atom2    cmmn.Atom
	Midpoint r3.Vec
	Seqs     [2]string
}

// Label is the key written as chain:resi-chain:resi.
func (b *Bond) Label() string { return b.Key.String() }

// Length is the SG-SG distance.
func (b *Bond) Length() float64 { return geom.Dist(b.Atom1.Coord, b.Atom2.Coord) }

// newBond fills out a bond, including fingerprints from p.
func newBond(p Provider, a1, a2 cmmn.Atom, window int) Bond {
	key := AtomKey(&a1, &a2)
	if a1.Chain != key.Chain1 || a1.ResNum != key.Resi1 {
		a1, a2 = a2, a1
	}
	s1 := Fingerprint(p, a1.Chain, a1.ResNum, window)
	s2 := Fingerprint(p, a2.Chain, a2.ResNum, window)
	if s2 < s1 {
		s1, s2 = s2, s1
	}
	return Bond{
		Key:      key,
		Atom1:    a1,
		Atom2:    a2,
		Midpoint: geom.Midpoint(a1.Coord, a2.Coord),
		Seqs:     [2]string{s1, s2},
	}
}

// atomPair is two atoms we have decided are bonded, before any
// fingerprints are calculated.
type atomPair [2]cmmn.Atom

// dedup drops pairs whose key we have already seen, keeping the
// order of first appearance.
func dedup(pairs []atomPair) []atomPair {
	seen := make(map[PairKey]bool, len(pairs))
	ret := pairs[:0]
	for _, pr := range pairs {
		k := AtomKey(&pr[0], &pr[1])
		if seen[k] {
			continue
		}
		seen[k] = true
		ret = append(ret, pr)
	}
	return ret
}

// topologyPairs gets the bonds the structure already knows about
// between cysteine sulfurs.
func topologyPairs(p Provider) ([]atomPair, error) {
	m, err := p.Topology(sgSel)
	if err != nil {
		return nil, fmt.Errorf("topology of %s: %w", p.Name(), err)
	}
	var pairs []atomPair
	for _, bd := range m.Bonds {
		a1, a2 := m.Atoms[bd[0]], m.Atoms[bd[1]]
		if a1.Name != cysSulfur || a2.Name != cysSulfur {
			continue
		}
		pairs = append(pairs, atomPair{a1, a2})
	}
	return dedup(pairs), nil
}

// screenSlack widens float32 table lookups so that rounding never
// drops a pair. The exact float64 distance then decides.
const screenSlack = 1e-5

// DistanceTable holds the distance between every pair of atoms, in
// single precision. It is good for screening, not for cutoffs.
func DistanceTable(atoms []cmmn.Atom) *matrix.FMatrix2d {
	n := len(atoms)
	dm := matrix.NewFMatrix2d(n, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := float32(geom.Dist(atoms[i].Coord, atoms[j].Coord))
			dm.Mat[i][j], dm.Mat[j][i] = d, d
		}
	}
	return dm
}

// neighbours says if two atoms are in the same or adjacent residues
// of one chain. These are never called disulfides.
func neighbours(a, b *cmmn.Atom) bool {
	if a.Chain != b.Chain {
		return false
	}
	d := a.ResNum - b.ResNum
	return d >= -1 && d <= 1
}

// distancePairs gets sulfur pairs closer than cutoff.
func distancePairs(p Provider, cutoff float64) ([]atomPair, error) {
	atoms, err := p.Atoms(sgSel)
	if err != nil {
		return nil, fmt.Errorf("sulfurs of %s: %w", p.Name(), err)
	}
	if math.IsNaN(cutoff) {
		return nil, fmt.Errorf("cutoff is not a number")
	}
	dm := DistanceTable(atoms)
	screen := float32(cutoff * (1 + screenSlack))
	var pairs []atomPair
	for i := range atoms {
		for j := i + 1; j < len(atoms); j++ {
			a1, a2 := &atoms[i], &atoms[j]
			if neighbours(a1, a2) || dm.Mat[i][j] > screen {
				continue
			}
			if geom.Dist(a1.Coord, a2.Coord) < cutoff {
				pairs = append(pairs, atomPair{*a1, *a2})
			}
		}
	}
	return dedup(pairs), nil
}

func toBonds(p Provider, pairs []atomPair, window int) []Bond {
	bonds := make([]Bond, 0, len(pairs))
	for _, pr := range pairs {
		bonds = append(bonds, newBond(p, pr[0], pr[1], window))
	}
	return bonds
}

// ScanTopology returns the disulfides recorded in the structure's
// connectivity. There is no distance check.
func ScanTopology(p Provider, opts *Options) ([]Bond, error) {
	pairs, err := topologyPairs(p)
	if err != nil {
		return nil, err
	}
	bonds := toBonds(p, pairs, opts.window())
	opts.log().Debug("topology scan", zap.String("object", p.Name()), zap.Int("bonds", len(bonds)))
	return bonds, nil
}

// ScanDistance returns every pair of cysteine sulfurs closer than
// cutoff, leaving out pairs from the same or neighbouring residues.
func ScanDistance(p Provider, cutoff float64, opts *Options) ([]Bond, error) {
	pairs, err := distancePairs(p, cutoff)
	if err != nil {
		return nil, err
	}
	bonds := toBonds(p, pairs, opts.window())
	opts.log().Debug("distance scan", zap.String("object", p.Name()),
		zap.Float64("cutoff", cutoff), zap.Int("bonds", len(bonds)))
	return bonds, nil
}

// Keys returns the keys of some bonds, in order.
func Keys(bonds []Bond) []PairKey {
	keys := make([]PairKey, len(bonds))
	for i := range bonds {
		keys[i] = bonds[i].Key
	}
	return keys
}
