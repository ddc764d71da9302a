package ssbond_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrew-torda/ssbond/pdb"
	"github.com/andrew-torda/ssbond/pdb/cmmn"
	"github.com/andrew-torda/ssbond/pdb/pdbtest"
	"github.com/andrew-torda/ssbond/pkg/ssbond"
)

// Two bonds in both, matched to each other, and one bond only in the
// target.
func TestCompare(t *testing.T) {
	refB, tgtB := refTgt()
	ref, tgt := refB.Structure(t, "ref"), tgtB.Structure(t, "tgt")
	rec := new(ssbond.Recorder)
	res, err := ssbond.Compare(ref, tgt, 3.0, &ssbond.Options{Annotator: rec})
	require.NoError(t, err)

	assert.False(t, res.RefFallback)
	require.Len(t, res.Ref, 2)
	require.Len(t, res.Tgt, 3)
	require.Len(t, res.Rec.Shared, 2)
	for _, c := range res.Rec.Shared {
		assert.Equal(t, res.Ref[c.Ref].Label(), res.Tgt[c.Tgt].Label())
		assert.InDelta(t, 1.2, c.Dist, 1e-3)
		assert.Equal(t, 1.0, c.Score)
	}
	assert.Empty(t, res.Rec.Missing)
	require.Len(t, res.Rec.New, 1)
	assert.Equal(t, "B:12-B:40", res.Tgt[res.Rec.New[0]].Label())

	shared := rec.Class(ssbond.Shared)
	require.Len(t, shared, 2)
	assert.Equal(t, "shared_0", shared[0].Name)
	assert.Equal(t, "tgt", shared[0].Object)
	require.NotNil(t, shared[0].Similarity)
	assert.Equal(t, 1.0, *shared[0].Similarity)
	news := rec.Class(ssbond.New)
	require.Len(t, news, 1)
	assert.Equal(t, "new_2", news[0].Name)
	assert.Nil(t, news[0].Similarity)
	assert.Empty(t, rec.Class(ssbond.Missing))
	assert.Empty(t, tgt.Markers())
}

func TestCompareMissing(t *testing.T) {
	refB, tgtB := refTgt()
	tgtB.Disulfide("A", 58, "A", 110, r3.Vec{X: 30, Y: 51.2}, 6) // pulled apart
	ref, tgt := refB.Structure(t, "ref"), tgtB.Structure(t, "tgt")
	rec := new(ssbond.Recorder)
	res, err := ssbond.Compare(ref, tgt, 0, &ssbond.Options{Annotator: rec})
	require.NoError(t, err)
	assert.Len(t, res.Rec.Shared, 1)
	assert.Equal(t, []int{1}, res.Rec.Missing)
	assert.Len(t, res.Rec.New, 1)

	miss := rec.Class(ssbond.Missing)
	require.Len(t, miss, 1)
	assert.Equal(t, "missing_1", miss[0].Name)
	assert.Equal(t, []int{1, 2}, miss[0].Markers)
	require.Len(t, tgt.Markers(), 2)
	assert.Equal(t, res.Ref[1].Atom1.Coord, tgt.Markers()[0])
	assert.Equal(t, res.Ref[1].Atom2.Coord, tgt.Markers()[1])
}

// A reference without connectivity is scanned by distance.
func TestCompareFallback(t *testing.T) {
	_, tgtB := refTgt()
	core, logs := observer.New(zap.WarnLevel)
	res, err := ssbond.Compare(tgtB.Structure(t, "ref"), tgtB.Structure(t, "tgt"), 3,
		&ssbond.Options{Log: zap.New(core)})
	require.NoError(t, err)
	assert.True(t, res.RefFallback)
	assert.Len(t, res.Rec.Shared, 3)
	assert.Empty(t, res.Rec.Missing)
	assert.Empty(t, res.Rec.New)
	assert.Equal(t, 1, logs.FilterMessageSnippet("no topology").Len())
}

func TestAutobond(t *testing.T) {
	_, tgtB := refTgt()
	s := tgtB.Structure(t, "tgt")
	rec := new(ssbond.Recorder)
	res, err := ssbond.Autobond(s, 3.0, &ssbond.Options{Annotator: rec})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)
	assert.Empty(t, res.Diags)
	bonded := rec.Class(ssbond.Bonded)
	require.Len(t, bonded, 3)
	for _, a := range bonded {
		assert.Equal(t, ssbond.Tight, a.Severity)
	}

	topo, err := ssbond.ScanTopology(s, nil)
	require.NoError(t, err)
	assert.Equal(t, ssbond.Keys(res.Bonds), ssbond.Keys(topo))

	again, err := ssbond.Autobond(s, 3.0, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Created)
	assert.Equal(t, 3, s.NBond())
}

func TestTransfer(t *testing.T) {
	refB, _ := refTgt()
	tgtB := pdbtest.NewBuilder().Chain("A", 20, seqFor(20, 115, 26, 58, 84), 0)
	tgtB.Disulfide("A", 26, "A", 84, r3.Vec{X: 10, Y: 50}, 3.8)
	tgt := tgtB.Structure(t, "tgt")
	rec := new(ssbond.Recorder)
	res, err := ssbond.Transfer(refB.Structure(t, "ref"), tgt, &ssbond.Options{Annotator: rec})
	require.NoError(t, err)

	require.Len(t, res.Applied, 1)
	bc := res.Applied[0]
	assert.Equal(t, "A:26-A:84", bc.Key.String())
	assert.True(t, bc.Found)
	assert.InDelta(t, 3.8, bc.Dist, 1e-3)
	assert.Equal(t, ssbond.Stretched, bc.Severity)
	require.Len(t, res.Diags, 1)
	assert.Equal(t, "A:58-A:110", res.Diags[0].Key)
	assert.Len(t, rec.Class(ssbond.Transferred), 1)

	topo, err := ssbond.ScanTopology(tgt, nil)
	require.NoError(t, err)
	assert.Equal(t, []ssbond.PairKey{bc.Key}, ssbond.Keys(topo))
}

// Export, then import into a fresh copy: the same keys come back.
func TestExportImport(t *testing.T) {
	_, tgtB := refTgt()
	var buf bytes.Buffer
	recs, err := ssbond.Export(tgtB.Structure(t, "tgt"), &buf, 0, nil)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	for _, r := range recs {
		assert.Equal(t, "Detected", r.Note)
	}
	csvText := buf.String()
	assert.True(t, strings.HasPrefix(csvText, "Chain1,Resi1,Chain2,Resi2,Note\n"))

	fresh := tgtB.Structure(t, "fresh")
	rec := new(ssbond.Recorder)
	res, err := ssbond.Import(fresh, strings.NewReader(csvText), &ssbond.Options{Annotator: rec})
	require.NoError(t, err)
	assert.Empty(t, res.Diags)
	var got []ssbond.PairKey
	for _, bc := range res.Applied {
		got = append(got, bc.Key)
		assert.Equal(t, ssbond.Tight, bc.Severity)
	}
	assert.Equal(t, ssbond.RecordKeys(recs), got)
	assert.Len(t, rec.Class(ssbond.Imported), 3)
	assert.Equal(t, 3, fresh.NBond())

	// No chain B this time.
	aOnly := pdbtest.NewBuilder().Chain("A", 20, seqFor(20, 115, 26, 58, 84, 110), 0).Structure(t, "aonly")
	res, err = ssbond.Import(aOnly, strings.NewReader(csvText), nil)
	require.NoError(t, err)
	assert.Len(t, res.Applied, 2)
	require.Len(t, res.Diags, 1)
	assert.Equal(t, "B:12-B:40", res.Diags[0].Key)
	assert.Equal(t, 4, res.Diags[0].Line)
	assert.Contains(t, res.Diags[0].Msg, "no atoms")
}

// Blank chains in a row only match atoms with a blank chain.
func TestImportBlankChain(t *testing.T) {
	_, tgtB := refTgt()
	s := tgtB.Structure(t, "tgt")
	res, err := ssbond.Import(s, strings.NewReader(",26,,84,x\n"), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Applied)
	require.Len(t, res.Diags, 1)
	assert.Equal(t, 1, res.Diags[0].Line)
	assert.Contains(t, res.Diags[0].Msg, "no atoms")
	assert.Equal(t, 0, s.NBond())
}

func TestExportCutoff(t *testing.T) {
	b := pdbtest.NewBuilder().Chain("A", 1, "ACAAAAAACA", 0)
	b.Disulfide("A", 2, "A", 9, r3.Vec{Y: 5}, 3.1)
	s := b.Structure(t, "x")
	var buf bytes.Buffer
	recs, err := ssbond.Export(s, &buf, 0, nil)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	recs, err = ssbond.Export(s, &buf, 3.0, nil)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestCheckDistances(t *testing.T) {
	b := pdbtest.NewBuilder().Chain("A", 20, seqFor(20, 115, 26, 58, 84, 110), 0)
	b.Disulfide("A", 26, "A", 84, r3.Vec{X: 10, Y: 50}, 2.1)
	b.Disulfide("A", 58, "A", 110, r3.Vec{X: 30, Y: 50}, 5.0)
	s := b.Structure(t, "chk")
	in := "Chain1,Resi1,Chain2,Resi2,Note\nA,26,A,84,\nA,58,A,110,\nZ,1,Z,5,\n"
	checks, diags, err := ssbond.CheckDistances(s, strings.NewReader(in), nil)
	require.NoError(t, err)
	require.Len(t, checks, 3)
	assert.Equal(t, ssbond.Tight, checks[0].Severity)
	assert.Equal(t, ssbond.Broken, checks[1].Severity)
	assert.False(t, checks[2].Found)
	assert.Equal(t, ssbond.SevUnset, checks[2].Severity)
	require.Len(t, diags, 1)
	assert.Equal(t, 4, diags[0].Line)
	assert.Zero(t, s.NBond(), "check must not bond")
}

func TestSnap(t *testing.T) {
	fixed := pdbtest.NewBuilder().Chain("A", 1, "ACA", 0).Structure(t, "fixed")
	moving := pdbtest.NewBuilder().Chain("B", 1, "ACAAA", 30).Structure(t, "moving")
	fsel := cmmn.Residue("A", 2, "SG")
	msel := cmmn.Residue("B", 2, "SG")
	chainB := cmmn.Selection{Chain: "B"}

	before, err := moving.Atoms(chainB)
	require.NoError(t, err)
	res, err := ssbond.Snap(fixed, fsel, moving, msel, chainB, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0, res.Dist, 1e-9)
	assert.Equal(t, 6, res.Moved)
	assert.InDelta(t, -30, res.Shift.Y, 1e-9)
	after, err := moving.Atoms(chainB)
	require.NoError(t, err)
	for i := range after {
		assert.InDelta(t, before[i].Coord.Y-30, after[i].Coord.Y, 1e-9)
	}

	_, err = ssbond.Snap(fixed, cmmn.Residue("A", 99, "SG"), moving, msel, chainB, nil)
	assert.ErrorIs(t, err, cmmn.ErrNoAtoms)
	_, err = ssbond.Snap(fixed, fsel, moving, msel, cmmn.Selection{Chain: "Q"}, nil)
	assert.ErrorIs(t, err, cmmn.ErrNoAtoms)
}

func TestSaveWithBondRecords(t *testing.T) {
	_, tgtB := refTgt()
	s := tgtB.Structure(t, "tgt")
	in := "Chain1,Resi1,Chain2,Resi2,Note\nA,84,A,26,Detected\nB,12,B,40,Detected\n"
	path := filepath.Join(t.TempDir(), "out.pdb")
	keys, diags, err := ssbond.SaveWithBondRecords(s, strings.NewReader(in), path, nil)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Len(t, keys, 2)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(string(raw), "\n")
	assert.Equal(t, ssbond.SSBondLine(1, keys[0]), lines[0])
	assert.Equal(t, ssbond.SSBondLine(2, keys[1]), lines[1])

	back, err := pdb.ReadFile(path)
	require.NoError(t, err)
	topo, err := ssbond.ScanTopology(back, nil)
	require.NoError(t, err)
	assert.Equal(t, keys, ssbond.Keys(topo))

	_, _, err = ssbond.SaveWithBondRecords(s, strings.NewReader(in), filepath.Join(t.TempDir(), "no", "dir", "x.pdb"), nil)
	assert.Error(t, err)
}

type badAnnotator struct{ n int }

func (b *badAnnotator) Annotate(ssbond.Annotation) error {
	b.n++
	return assert.AnError
}

// A broken annotator is logged, nothing more.
func TestAnnotatorFails(t *testing.T) {
	refB, tgtB := refTgt()
	bad := new(badAnnotator)
	core, logs := observer.New(zap.WarnLevel)
	res, err := ssbond.Compare(refB.Structure(t, "ref"), tgtB.Structure(t, "tgt"), 3,
		&ssbond.Options{Annotator: bad, Log: zap.New(core)})
	require.NoError(t, err)
	assert.Len(t, res.Rec.Shared, 2)
	assert.Equal(t, 3, bad.n)
	assert.Equal(t, 3, logs.FilterMessage("annotation failed").Len())
}
