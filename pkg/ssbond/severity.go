package ssbond

// Severity says how far an SG-SG distance is from a real disulfide.
type Severity int

const (
	SevUnset    Severity = iota
	Tight                // about right for a bond
	Stretched            // too long, but could be fixed
	Broken               // not a bond
)

// Severity boundaries in Angstrom. A distance equal to tightBelow is
// Stretched. A distance equal to brokenAbove is still Stretched.
const (
	tightBelow  = 3.0
	brokenAbove = 4.5
)

var sevNames = [...]string{"unset", "tight", "stretched", "broken"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(sevNames) {
		return "unknown"
	}
	return sevNames[s]
}

// Classify is used by import, transfer and check.
func Classify(d float64) Severity {
	switch {
	case d < tightBelow:
		return Tight
	case d <= brokenAbove:
		return Stretched
	default:
		return Broken
	}
}
