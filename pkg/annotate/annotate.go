// 15 Oct 2026
// Package annotate turns bond annotations into something a person
// can look at: a command script for a molecular viewer, or log
// entries.

package annotate

import (
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrew-torda/ssbond/pkg/ssbond"
)

// Colours for each class. Bonds made or read from a file are
// coloured by severity instead.
var classColour = map[ssbond.Class]string{
	ssbond.Shared:  "green",
	ssbond.Missing: "red",
	ssbond.New:     "blue",
	ssbond.Bonded:  "yellow",
}

var sevColour = map[ssbond.Severity]string{
	ssbond.Tight:     "yellow",
	ssbond.Stretched: "magenta",
	ssbond.Broken:    "red",
}

const (
	stickRadius = 0.15
	dashGap     = 0.5
)

// Script writes viewer commands, one per line. The first write error
// is kept and returned from every later call.
type Script struct {
	w      io.Writer
	err    error
	sticks map[string]bool // objects whose cysteines are already sticks
	radius bool
}

// NewScript writes to w.
func NewScript(w io.Writer) *Script {
	return &Script{w: w, sticks: make(map[string]bool)}
}

func (s *Script) printf(format string, args ...interface{}) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format+"\n", args...)
}

// sulfur is the viewer selection for one end of a bond.
func sulfur(obj, chain string, resi int) string {
	return fmt.Sprintf("(%s) and chain %s and resi %d and name SG", obj, chain, resi)
}

func pos(v r3.Vec) string {
	return fmt.Sprintf("[%.3f, %.3f, %.3f]", v.X, v.Y, v.Z)
}

// Annotate writes the commands for one annotation.
func (s *Script) Annotate(a ssbond.Annotation) error {
	k := a.Key
	sel1 := sulfur(a.Object, k.Chain1, k.Resi1)
	sel2 := sulfur(a.Object, k.Chain2, k.Resi2)
	switch a.Class {
	case ssbond.Shared, ssbond.New:
		s.printf("distance %s, %s, %s", a.Name, sel1, sel2)
		s.printf("color %s, %s", classColour[a.Class], a.Name)
		s.printf("hide labels, %s", a.Name)
	case ssbond.Missing:
		p1, p2 := "p1_"+a.Name, "p2_"+a.Name
		s.printf("pseudoatom %s, pos=%s", p1, pos(a.Pos1))
		s.printf("pseudoatom %s, pos=%s", p2, pos(a.Pos2))
		s.printf("distance %s, %s, %s", a.Name, p1, p2)
		s.printf("color %s, %s", classColour[a.Class], a.Name)
		s.printf("set dash_gap, %g, %s", dashGap, a.Name)
		s.printf("hide nonbonded, %s", p1)
		s.printf("hide nonbonded, %s", p2)
		s.printf("hide labels, %s", a.Name)
	case ssbond.Bonded:
		s.printf("bond %s, %s", sel1, sel2)
		s.printf("color %s, %s or %s", classColour[a.Class], sel1, sel2)
	case ssbond.Transferred, ssbond.Imported:
		if !s.radius {
			s.printf("set stick_radius, %g", stickRadius)
			s.radius = true
		}
		s.printf("bond %s, %s", sel1, sel2)
		colour, ok := sevColour[a.Severity]
		if !ok {
			colour = "grey"
		}
		s.printf("color %s, %s or %s", colour, sel1, sel2)
		if a.Class == ssbond.Imported && !s.sticks[a.Object] {
			s.printf("show sticks, (%s) and resn CYS+CYX", a.Object)
			s.sticks[a.Object] = true
		}
	default:
		return fmt.Errorf("annotation %s: unknown class %d", a.Name, a.Class)
	}
	return s.err
}

// Err is the first write error, if any.
func (s *Script) Err() error { return s.err }

// Log writes annotations as log entries.
type Log struct {
	z *zap.Logger
}

// NewLog logs to z, which may be nil.
func NewLog(z *zap.Logger) *Log {
	if z == nil {
		z = zap.NewNop()
	}
	return &Log{z: z}
}

// Annotate logs at info.
func (l *Log) Annotate(a ssbond.Annotation) error {
	fields := []zap.Field{
		zap.String("name", a.Name),
		zap.Stringer("class", a.Class),
		zap.String("object", a.Object),
		zap.Stringer("bond", a.Key),
	}
	if a.Similarity != nil {
		fields = append(fields, zap.Float64("similarity", *a.Similarity))
	}
	if a.Dist != nil {
		fields = append(fields, zap.Float64("dist", *a.Dist))
	}
	if a.Severity != ssbond.SevUnset {
		fields = append(fields, zap.Stringer("severity", a.Severity))
	}
	if len(a.Markers) > 0 {
		fields = append(fields, zap.Ints("markers", a.Markers))
	}
	l.z.Info("annotation", fields...)
	return nil
}

// Multi sends each annotation to all of its members.
type Multi []ssbond.Annotator

// Annotate calls every member, even after one fails.
func (m Multi) Annotate(a ssbond.Annotation) error {
	var err error
	for _, an := range m {
		err = multierr.Append(err, an.Annotate(a))
	}
	return err
}
