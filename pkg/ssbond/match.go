package ssbond

import (
	"sort"

	"github.com/andrew-torda/matrix"

	"github.com/andrew-torda/ssbond/geom"
)

// Candidate is a possible pairing of reference bond Ref with target
// bond Tgt. Dist is between the bond midpoints.
type Candidate struct {
	Ref   int
	Tgt   int
	Dist  float64
	Score float64
}

// Reconciliation splits two bond lists into the pairs we matched,
// reference bonds with no partner (Missing) and target bonds with no
// partner (New). Missing and New hold indices, in ascending order.
// Shared is ordered by reference index.
type Reconciliation struct {
	Shared  []Candidate
	Missing []int
	New     []int
}

// PairScore compares the fingerprints of two bonds. Seqs are stored
// sorted, so we do not know which end goes with which. Try both and
// keep the better average.
func PairScore(r, t *Bond) float64 {
	direct := (SeqScore(r.Seqs[0], t.Seqs[0]) + SeqScore(r.Seqs[1], t.Seqs[1])) / 2
	swapped := (SeqScore(r.Seqs[0], t.Seqs[1]) + SeqScore(r.Seqs[1], t.Seqs[0])) / 2
	return max(direct, swapped)
}

// midTable has the distance from each reference midpoint (rows) to
// each target midpoint (columns), for screening.
func midTable(ref, tgt []Bond) *matrix.FMatrix2d {
	dm := matrix.NewFMatrix2d(len(ref), len(tgt))
	for i := range ref {
		for j := range tgt {
			dm.Mat[i][j] = float32(geom.Dist(ref[i].Midpoint, tgt[j].Midpoint))
		}
	}
	return dm
}

// Candidates returns every pairing whose midpoints are closer than
// tolerance, best first. Best means highest score, then shortest
// distance. Candidates that tie on both keep the order ref by ref,
// target by target.
func Candidates(ref, tgt []Bond, tolerance float64) []Candidate {
	if len(ref) == 0 || len(tgt) == 0 {
		return nil
	}
	dm := midTable(ref, tgt)
	screen := float32(tolerance * (1 + screenSlack))
	var cands []Candidate
	for i := range ref {
		for j := range tgt {
			if dm.Mat[i][j] > screen {
				continue
			}
			d := geom.Dist(ref[i].Midpoint, tgt[j].Midpoint)
			if d >= tolerance {
				continue
			}
			cands = append(cands, Candidate{Ref: i, Tgt: j, Dist: d, Score: PairScore(&ref[i], &tgt[j])})
		}
	}
	sort.SliceStable(cands, func(a, b int) bool {
		if cands[a].Score != cands[b].Score {
			return cands[a].Score > cands[b].Score
		}
		return cands[a].Dist < cands[b].Dist
	})
	return cands
}

// Reconcile pairs reference and target bonds greedily. Working down
// the candidate list, a pairing is accepted if neither bond has been
// claimed. This is not an optimal assignment, but it is deterministic
// and no bond is used twice.
func Reconcile(ref, tgt []Bond, tolerance float64) Reconciliation {
	var rec Reconciliation
	refUsed := make([]bool, len(ref))
	tgtUsed := make([]bool, len(tgt))
	for _, c := range Candidates(ref, tgt, tolerance) {
		if refUsed[c.Ref] || tgtUsed[c.Tgt] {
			continue
		}
		refUsed[c.Ref], tgtUsed[c.Tgt] = true, true
		rec.Shared = append(rec.Shared, c)
	}
	sort.SliceStable(rec.Shared, func(a, b int) bool { return rec.Shared[a].Ref < rec.Shared[b].Ref })
	for i, used := range refUsed {
		if !used {
			rec.Missing = append(rec.Missing, i)
		}
	}
	for j, used := range tgtUsed {
		if !used {
			rec.New = append(rec.New, j)
		}
	}
	return rec
}
