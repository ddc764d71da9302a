package ssbond

import (
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrew-torda/ssbond/geom"
	"github.com/andrew-torda/ssbond/pdb/cmmn"
)

// warn logs a diagnostic and adds it to the list.
func warn(opts *Options, diags []Diagnostic, d Diagnostic) []Diagnostic {
	opts.log().Warn("skipped", zap.Int("line", d.Line), zap.String("bond", d.Key), zap.String("why", d.Msg))
	return append(diags, d)
}

// emit hands an annotation over. A failing annotator does not stop
// the operation.
func emit(opts *Options, a Annotation) {
	if err := opts.annotator().Annotate(a); err != nil {
		opts.log().Warn("annotation failed", zap.String("name", a.Name), zap.Error(err))
	}
}

// CompareResult holds both bond lists and how they were matched.
// RefFallback is set if the reference had no bonds in its topology
// and was scanned by distance instead.
type CompareResult struct {
	RefName     string
	TgtName     string
	Ref         []Bond
	Tgt         []Bond
	RefFallback bool
	Rec         Reconciliation
}

// Compare checks the bonds of tgt, found by distance, against the
// bonds of ref, which come from its topology where there is any.
func Compare(ref, tgt Provider, tolerance float64, opts *Options) (*CompareResult, error) {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	res := &CompareResult{RefName: ref.Name(), TgtName: tgt.Name()}
	var err error
	if res.Ref, err = ScanTopology(ref, opts); err != nil {
		return nil, err
	}
	if len(res.Ref) == 0 {
		opts.log().Warn("reference has no topology, scanning by distance",
			zap.String("object", ref.Name()), zap.Float64("cutoff", opts.cutoff()))
		res.RefFallback = true
		if res.Ref, err = ScanDistance(ref, opts.cutoff(), opts); err != nil {
			return nil, err
		}
	}
	if res.Tgt, err = ScanDistance(tgt, opts.cutoff(), opts); err != nil {
		return nil, err
	}
	res.Rec = Reconcile(res.Ref, res.Tgt, tolerance)
	opts.log().Info("compare",
		zap.String("ref", ref.Name()), zap.String("tgt", tgt.Name()),
		zap.Int("ref_bonds", len(res.Ref)), zap.Int("tgt_bonds", len(res.Tgt)),
		zap.Int("shared", len(res.Rec.Shared)), zap.Int("missing", len(res.Rec.Missing)),
		zap.Int("new", len(res.Rec.New)))
	annotateCompare(tgt, res, opts)
	return res, nil
}

func annotateCompare(tgt Provider, res *CompareResult, opts *Options) {
	for _, c := range res.Rec.Shared {
		t := &res.Tgt[c.Tgt]
		emit(opts, Annotation{
			Name: "shared_" + strconv.Itoa(c.Ref), Class: Shared, Object: tgt.Name(), Key: t.Key,
			Pos1: t.Atom1.Coord, Pos2: t.Atom2.Coord,
			Similarity: fptr(c.Score), Dist: fptr(c.Dist),
		})
	}
	for _, i := range res.Rec.Missing {
		r := &res.Ref[i]
		a := Annotation{
			Name: "missing_" + strconv.Itoa(i), Class: Missing, Object: tgt.Name(), Key: r.Key,
			Pos1: r.Atom1.Coord, Pos2: r.Atom2.Coord,
		}
		for _, pos := range []r3.Vec{r.Atom1.Coord, r.Atom2.Coord} {
			h, err := tgt.PlaceMarker(pos)
			if err != nil {
				opts.log().Warn("no marker", zap.String("bond", r.Label()), zap.Error(err))
				continue
			}
			a.Markers = append(a.Markers, h)
		}
		emit(opts, a)
	}
	for _, j := range res.Rec.New {
		t := &res.Tgt[j]
		emit(opts, Annotation{
			Name: "new_" + strconv.Itoa(j), Class: New, Object: tgt.Name(), Key: t.Key,
			Pos1: t.Atom1.Coord, Pos2: t.Atom2.Coord,
		})
	}
}

// BondCheck is the state of one bond in a structure. If Found is
// false, at least one of the sulfurs is not there and Dist means
// nothing.
type BondCheck struct {
	Key      PairKey
	Found    bool
	Dist     float64
	Severity Severity
}

// measure finds the distance for a key, or says why it cannot.
func measure(p Provider, k PairKey) (BondCheck, error) {
	bc := BondCheck{Key: k}
	s1, s2 := k.Sel1(), k.Sel2()
	if p.Count(s1) == 0 {
		return bc, fmt.Errorf("%s: %w", s1, cmmn.ErrNoAtoms)
	}
	if p.Count(s2) == 0 {
		return bc, fmt.Errorf("%s: %w", s2, cmmn.ErrNoAtoms)
	}
	d, err := p.Distance(s1, s2)
	if err != nil {
		return bc, err
	}
	bc.Found, bc.Dist, bc.Severity = true, d, Classify(d)
	return bc, nil
}

// bondKey bonds the two sulfurs of k in p and annotates the result.
func bondKey(p Provider, k PairKey, class Class, opts *Options) (BondCheck, error) {
	bc, err := measure(p, k)
	if err != nil {
		return bc, err
	}
	if err := p.CreateBond(k.Sel1(), k.Sel2()); err != nil {
		return BondCheck{Key: k}, err
	}
	a := Annotation{
		Name: class.String() + "_" + k.String(), Class: class, Object: p.Name(), Key: k,
		Dist: fptr(bc.Dist), Severity: bc.Severity,
	}
	if atoms, err := p.Atoms(k.Sel1()); err == nil && len(atoms) > 0 {
		a.Pos1 = atoms[0].Coord
	}
	if atoms, err := p.Atoms(k.Sel2()); err == nil && len(atoms) > 0 {
		a.Pos2 = atoms[0].Coord
	}
	emit(opts, a)
	return bc, nil
}

// AutobondResult lists the bonds autobond found. Created counts the
// ones that were made.
type AutobondResult struct {
	Bonds   []Bond
	Created int
	Diags   []Diagnostic
}

// Autobond bonds every pair of cysteine sulfurs closer than cutoff.
func Autobond(p Provider, cutoff float64, opts *Options) (*AutobondResult, error) {
	if cutoff <= 0 {
		cutoff = opts.cutoff()
	}
	bonds, err := ScanDistance(p, cutoff, opts)
	if err != nil {
		return nil, err
	}
	res := &AutobondResult{Bonds: bonds}
	for i := range bonds {
		b := &bonds[i]
		if err := p.CreateBond(atomSel(&b.Atom1), atomSel(&b.Atom2)); err != nil {
			res.Diags = warn(opts, res.Diags, Diagnostic{Key: b.Label(), Msg: err.Error()})
			continue
		}
		res.Created++
		d := b.Length()
		emit(opts, Annotation{
			Name: "bonded_" + strconv.Itoa(i), Class: Bonded, Object: p.Name(), Key: b.Key,
			Pos1: b.Atom1.Coord, Pos2: b.Atom2.Coord, Dist: fptr(d), Severity: Classify(d),
		})
	}
	opts.log().Info("autobond", zap.String("object", p.Name()),
		zap.Float64("cutoff", cutoff), zap.Int("created", res.Created))
	return res, nil
}

// KeyResult is what transfer and import report: one entry per bond
// that was made, and a diagnostic for each one that was not.
type KeyResult struct {
	Applied []BondCheck
	Diags   []Diagnostic
}

// applyKeys bonds each key in p if both its sulfurs are there.
func applyKeys(p Provider, recs []Record, class Class, opts *Options) *KeyResult {
	res := new(KeyResult)
	for _, rec := range recs {
		k := rec.Key
		bc, err := bondKey(p, k, class, opts)
		if err != nil {
			res.Diags = warn(opts, res.Diags, Diagnostic{Line: rec.Line, Key: k.String(), Msg: err.Error()})
			continue
		}
		res.Applied = append(res.Applied, bc)
		opts.log().Debug("bonded", zap.String("bond", k.String()),
			zap.Float64("dist", bc.Dist), zap.Stringer("severity", bc.Severity))
	}
	return res
}

// Transfer copies the disulfides in the topology of src to tgt,
// whatever the distances in tgt. Bonds whose atoms tgt lacks are
// skipped.
func Transfer(src, tgt Provider, opts *Options) (*KeyResult, error) {
	pairs, err := topologyPairs(src)
	if err != nil {
		return nil, err
	}
	recs := make([]Record, len(pairs))
	for i := range pairs {
		recs[i].Key = AtomKey(&pairs[i][0], &pairs[i][1])
	}
	res := applyKeys(tgt, recs, Transferred, opts)
	opts.log().Info("transfer", zap.String("src", src.Name()), zap.String("tgt", tgt.Name()),
		zap.Int("cloned", len(res.Applied)), zap.Int("skipped", len(res.Diags)))
	return res, nil
}

// Export writes a bond file for the sulfur pairs closer than cutoff.
// It does not need fingerprints, so none are calculated.
func Export(p Provider, w io.Writer, cutoff float64, opts *Options) ([]Record, error) {
	if cutoff <= 0 {
		cutoff = DefaultExportCut
	}
	pairs, err := distancePairs(p, cutoff)
	if err != nil {
		return nil, err
	}
	recs := make([]Record, len(pairs))
	for i := range pairs {
		recs[i] = Record{Key: AtomKey(&pairs[i][0], &pairs[i][1]), Note: NoteDefault}
	}
	if err := WriteRecords(w, recs); err != nil {
		return recs, fmt.Errorf("export %s: %w", p.Name(), err)
	}
	opts.log().Info("export", zap.String("object", p.Name()), zap.Int("bonds", len(recs)))
	return recs, nil
}

// readRecs reads a bond file and logs anything it skipped.
func readRecs(r io.Reader, opts *Options) ([]Record, []Diagnostic, error) {
	recs, rdiags, err := ReadRecords(r)
	var diags []Diagnostic
	for _, d := range rdiags {
		diags = warn(opts, diags, d)
	}
	if err != nil {
		return nil, diags, err
	}
	return recs, diags, nil
}

// Import bonds the pairs listed in a bond file.
func Import(p Provider, r io.Reader, opts *Options) (*KeyResult, error) {
	recs, diags, err := readRecs(r, opts)
	if err != nil {
		return &KeyResult{Diags: diags}, err
	}
	res := applyKeys(p, recs, Imported, opts)
	res.Diags = append(diags, res.Diags...)
	opts.log().Info("import", zap.String("object", p.Name()),
		zap.Int("applied", len(res.Applied)), zap.Int("skipped", len(res.Diags)))
	return res, nil
}

// CheckDistances measures each bond in a bond file without changing
// anything. Bonds with missing atoms are in the result with Found
// false.
func CheckDistances(p Provider, r io.Reader, opts *Options) ([]BondCheck, []Diagnostic, error) {
	recs, diags, err := readRecs(r, opts)
	if err != nil {
		return nil, diags, err
	}
	checks := make([]BondCheck, 0, len(recs))
	for _, rec := range recs {
		bc, err := measure(p, rec.Key)
		if err != nil {
			diags = warn(opts, diags, Diagnostic{Line: rec.Line, Key: rec.Key.String(), Msg: err.Error()})
		}
		checks = append(checks, bc)
	}
	return checks, diags, nil
}

// SnapResult says how far the moving object was shifted and how far
// apart the two atoms are afterwards.
type SnapResult struct {
	Shift r3.Vec
	Dist  float64
	Moved int
}

func firstAtom(p Provider, sel cmmn.Selection) (cmmn.Atom, error) {
	atoms, err := p.Atoms(sel)
	if err != nil {
		return cmmn.Atom{}, err
	}
	if len(atoms) == 0 {
		return cmmn.Atom{}, fmt.Errorf("%s %s: %w", p.Name(), sel, cmmn.ErrNoAtoms)
	}
	return atoms[0], nil
}

// Snap translates obj in moving so that the first atom of movingSel
// lands on the first atom of fixedSel. Nothing is rotated.
func Snap(fixed Provider, fixedSel cmmn.Selection, moving Provider, movingSel, obj cmmn.Selection, opts *Options) (*SnapResult, error) {
	fa, err := firstAtom(fixed, fixedSel)
	if err != nil {
		return nil, fmt.Errorf("snap: %w", err)
	}
	ma, err := firstAtom(moving, movingSel)
	if err != nil {
		return nil, fmt.Errorf("snap: %w", err)
	}
	res := &SnapResult{Shift: geom.Shift(ma.Coord, fa.Coord), Moved: moving.Count(obj)}
	if err := moving.Translate(obj, res.Shift); err != nil {
		return nil, fmt.Errorf("snap: %w", err)
	}
	if ma, err = firstAtom(moving, movingSel); err != nil {
		return nil, fmt.Errorf("snap: %w", err)
	}
	res.Dist = geom.Dist(fa.Coord, ma.Coord)
	opts.log().Info("snap", zap.String("fixed", fixedSel.String()), zap.String("moving", movingSel.String()),
		zap.Int("moved", res.Moved), zap.Float64("dist", res.Dist))
	return res, nil
}

// SaveWithBondRecords saves all of p to path, then puts one SSBOND
// record in its header for each bond in the bond file. Atoms are not
// checked.
func SaveWithBondRecords(p Provider, bondFile io.Reader, path string, opts *Options) ([]PairKey, []Diagnostic, error) {
	recs, diags, err := readRecs(bondFile, opts)
	if err != nil {
		return nil, diags, err
	}
	keys := RecordKeys(recs)
	if err := p.Save(path, cmmn.Selection{}); err != nil {
		return nil, diags, err
	}
	if err := InjectSSBond(path, keys); err != nil {
		return nil, diags, err
	}
	opts.log().Info("save", zap.String("object", p.Name()), zap.String("path", path), zap.Int("ssbond", len(keys)))
	return keys, diags, nil
}
