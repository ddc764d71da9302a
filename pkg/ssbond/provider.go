// 12 Oct 2026

// Package ssbond finds disulfide bonds in protein structures, compares
// the bonds of two structures, moves bond topology from one structure
// to another and reads and writes lists of bonds.
//
// Structures are reached through the Provider interface. Results come
// back as plain data. Anything that should be drawn goes to an
// Annotator.
package ssbond

import (
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrew-torda/ssbond/pdb/cmmn"
)

// Provider is a structure we can query and edit. pdb.Structure is
// the usual one. Calls that need a single atom return cmmn.ErrNoAtoms
// when the selection matches nothing, so callers check Count first.
type Provider interface {
	Name() string
	Atoms(sel cmmn.Selection) ([]cmmn.Atom, error)
	Topology(sel cmmn.Selection) (cmmn.Model, error)
	CreateBond(a, b cmmn.Selection) error
	Distance(a, b cmmn.Selection) (float64, error)
	Count(sel cmmn.Selection) int
	Translate(sel cmmn.Selection, v r3.Vec) error
	PlaceMarker(pos r3.Vec) (int, error)
	Save(path string, sel cmmn.Selection) error
}

// Defaults used when Options fields are zero.
const (
	DefaultWindow    = 3
	DefaultCutoff    = 3.0 // SG-SG distance for a bond
	DefaultExportCut = 3.2 // a little looser when writing bond files
	DefaultTolerance = 3.0 // midpoint distance for two bonds to match
	cysSulfur        = "SG"
)

// sgSel picks the sulfur of every cysteine.
var sgSel = cmmn.Selection{Names: []string{cysSulfur}, ResNames: []string{"CYS", "CYX"}}

// Options are shared by the operations. The zero value works.
type Options struct {
	Window    int     // fingerprint half width
	Cutoff    float64 // distance scan cutoff
	Log       *zap.Logger
	Annotator Annotator
}

func (o *Options) window() int {
	if o == nil || o.Window <= 0 {
		return DefaultWindow
	}
	return o.Window
}

func (o *Options) cutoff() float64 {
	if o == nil || o.Cutoff <= 0 {
		return DefaultCutoff
	}
	return o.Cutoff
}

func (o *Options) log() *zap.Logger {
	if o == nil || o.Log == nil {
		return zap.NewNop()
	}
	return o.Log
}

func (o *Options) annotator() Annotator {
	if o == nil || o.Annotator == nil {
		return nopAnnotator{}
	}
	return o.Annotator
}

// atomSel selects exactly one atom, by serial number if it has one.
func atomSel(a *cmmn.Atom) cmmn.Selection {
	if a.Serial != 0 {
		return cmmn.Selection{Serial: a.Serial}
	}
	return cmmn.Residue(a.Chain, a.ResNum, a.Name)
}
