package cmmn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/andrew-torda/ssbond/pdb/cmmn"
)

var seltests = []struct {
	in   string
	want Selection
	e    bool
}{
	{"A/26/SG", Selection{Chain: "A", HasResi: true, ResiLo: 26, ResiHi: 26, Names: []string{"SG"}}, false},
	{"B", Selection{Chain: "B"}, false},
	{"*", Selection{}, false},
	{"", Selection{}, false},
	{"A/10:20/CA", Selection{Chain: "A", HasResi: true, ResiLo: 10, ResiHi: 20, Names: []string{"CA"}}, false},
	{"*/*/SG/CYS+CYX", Selection{Names: []string{"SG"}, ResNames: []string{"CYS", "CYX"}}, false},
	{"A/-3:2", Selection{Chain: "A", HasResi: true, ResiLo: -3, ResiHi: 2}, false},
	{"A/x/SG", Selection{}, true},
	{"A/20:10", Selection{}, true},
	{"A/1/SG/CYS/extra", Selection{}, true},
}

func TestParseSelection(t *testing.T) {
	for _, test := range seltests {
		s, err := ParseSelection(test.in)
		if test.e {
			assert.ErrorIs(t, err, ErrBadSelection, test.in)
			continue
		}
		require.NoError(t, err, test.in)
		assert.Equal(t, test.want, s, test.in)
	}
}

func TestSelectionStringRoundTrip(t *testing.T) {
	for _, in := range []string{"A/26/SG", "A/10:20/CA", "*/*/SG/CYS+CYX", "B/*/*"} {
		s, err := ParseSelection(in)
		require.NoError(t, err)
		s2, err := ParseSelection(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, s2, in)
	}
}

func TestMatch(t *testing.T) {
	a := Atom{Serial: 7, Name: "SG", ResName: "CYS", Chain: "A", ResNum: 26}
	assert.True(t, Selection{}.Match(&a))
	assert.True(t, Residue("A", 26, "SG").Match(&a))
	assert.False(t, Residue("A", 27, "SG").Match(&a))
	assert.False(t, Residue("B", 26, "SG").Match(&a))
	assert.False(t, Residue("A", 26, "CA").Match(&a))
	assert.True(t, Residue("A", 26, "").Match(&a))
	assert.True(t, Selection{Serial: 7}.Match(&a))
	assert.False(t, Selection{Serial: 8}.Match(&a))
	assert.True(t, Selection{ResNames: []string{"CYX", "CYS"}}.Match(&a))
	assert.False(t, Selection{ResNames: []string{"ALA"}}.Match(&a))
}

func TestMatchBlankChain(t *testing.T) {
	a := Atom{Name: "SG", Chain: "A", ResNum: 26}
	blank := Atom{Name: "SG", ResNum: 26}
	assert.False(t, Residue("", 26, "SG").Match(&a))
	assert.True(t, Residue("", 26, "SG").Match(&blank))
	assert.True(t, Selection{HasResi: true, ResiLo: 26, ResiHi: 26}.Match(&a), "empty chain is a wildcard")
	s, err := ParseSelection("*/26/SG")
	require.NoError(t, err)
	assert.True(t, s.Match(&a))
}
