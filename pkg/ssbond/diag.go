package ssbond

import "fmt"

// Diagnostic reports a row or bond that was skipped. Line is the
// line number in an input file, or 0.
type Diagnostic struct {
	Line int
	Key  string
	Msg  string
}

func (d Diagnostic) String() string {
	switch {
	case d.Line > 0 && d.Key != "":
		return fmt.Sprintf("line %d: %s: %s", d.Line, d.Key, d.Msg)
	case d.Line > 0:
		return fmt.Sprintf("line %d: %s", d.Line, d.Msg)
	case d.Key != "":
		return d.Key + ": " + d.Msg
	}
	return d.Msg
}
