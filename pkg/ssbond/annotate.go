package ssbond

import "gonum.org/v1/gonum/spatial/r3"

// Class says why a bond is being annotated.
type Class int

const (
	Shared      Class = iota // in reference and target
	Missing                  // reference only
	New                      // target only
	Bonded                   // created by autobond
	Transferred              // copied from another structure
	Imported                 // read from a bond file
)

var classNames = [...]string{"SHARED", "MISSING", "NEW", "BONDED", "TRANSFERRED", "IMPORTED"}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "UNKNOWN"
	}
	return classNames[c]
}

// Annotation is one thing for a viewer to draw. Object is the
// structure the positions belong to. For Missing bonds there are no
// atoms in the target, so Markers holds the handles of points placed
// at the reference positions. Similarity and Dist are nil when they
// mean nothing for the class.
type Annotation struct {
	Name       string
	Class      Class
	Object     string
	Key        PairKey
	Pos1, Pos2 r3.Vec
	Markers    []int
	Similarity *float64
	Dist       *float64
	Severity   Severity
}

// Annotator receives annotations as operations produce them. The
// core does not look at what comes back, beyond passing on errors.
type Annotator interface {
	Annotate(a Annotation) error
}

type nopAnnotator struct{}

func (nopAnnotator) Annotate(Annotation) error { return nil }

// Recorder keeps annotations in memory.
type Recorder struct {
	Got []Annotation
}

// Annotate appends a to the list.
func (r *Recorder) Annotate(a Annotation) error {
	r.Got = append(r.Got, a)
	return nil
}

// Class returns the recorded annotations of one class.
func (r *Recorder) Class(c Class) []Annotation {
	var ret []Annotation
	for _, a := range r.Got {
		if a.Class == c {
			ret = append(ret, a)
		}
	}
	return ret
}

func fptr(x float64) *float64 { return &x }
