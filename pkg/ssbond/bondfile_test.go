package ssbond_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew-torda/ssbond/brokenio"
	"github.com/andrew-torda/ssbond/pkg/ssbond"
)

func TestSeverity(t *testing.T) {
	for _, tt := range []struct {
		d    float64
		want ssbond.Severity
	}{
		{2.05, ssbond.Tight},
		{2.1, ssbond.Tight},
		{2.9999, ssbond.Tight},
		{3.0, ssbond.Stretched},
		{3.8, ssbond.Stretched},
		{4.5, ssbond.Stretched},
		{4.5001, ssbond.Broken},
		{5.0, ssbond.Broken},
	} {
		assert.Equal(t, tt.want, ssbond.Classify(tt.d), "%g", tt.d)
	}
	assert.Equal(t, "stretched", ssbond.Stretched.String())
	assert.Equal(t, "unknown", ssbond.Severity(99).String())
}

const messyCSV = `Chain1,Resi1,Chain2,Resi2,Note
# comment
A, 84 ,A,26,Detected

B,12,B,40
A,x,A,3,bad
A,1,A
   
C,5,D,6,note,extra
`

func TestReadRecords(t *testing.T) {
	recs, diags, err := ssbond.ReadRecords(strings.NewReader(messyCSV))
	require.NoError(t, err)
	assert.Equal(t, []ssbond.Record{
		{Key: ssbond.NewPairKey("A", 26, "A", 84), Note: "Detected", Line: 3},
		{Key: ssbond.NewPairKey("B", 12, "B", 40), Line: 5},
		{Key: ssbond.NewPairKey("C", 5, "D", 6), Note: "note", Line: 9},
	}, recs)
	require.Len(t, diags, 2)
	assert.Equal(t, 6, diags[0].Line)
	assert.Contains(t, diags[0].String(), `"x"`)
	assert.Equal(t, 7, diags[1].Line)
}

func TestReadRecordsEmpty(t *testing.T) {
	for _, s := range []string{"", "\n\n", "Chain1,Resi1,Chain2,Resi2,Note\n", "  Chain1,Resi1,Chain2,Resi2,Note\n", "# nothing\n"} {
		recs, diags, err := ssbond.ReadRecords(strings.NewReader(s))
		require.NoError(t, err)
		assert.Empty(t, recs)
		assert.Empty(t, diags)
	}
}

// TestReadRecordsBroken cuts the input after the second data row.
func TestReadRecordsBroken(t *testing.T) {
	rdr := brokenio.NewReader(strings.NewReader(messyCSV))
	rdr.SetFailAfter(strings.Index(messyCSV, "A,x"))
	rdr.SetChunk(7)
	recs, _, err := ssbond.ReadRecords(rdr)
	assert.ErrorIs(t, err, brokenio.ErrBroken)
	assert.Len(t, recs, 2)
}

func TestRecordsRoundTrip(t *testing.T) {
	in := []ssbond.Record{
		{Key: ssbond.NewPairKey("A", 26, "A", 84), Note: ssbond.NoteDefault},
		{Key: ssbond.NewPairKey("A", 58, "B", 3), Note: "has, comma"},
		{Key: ssbond.NewPairKey("C", -2, "C", 10)},
	}
	var buf bytes.Buffer
	require.NoError(t, ssbond.WriteRecords(&buf, in))
	assert.True(t, strings.HasPrefix(buf.String(), "Chain1,Resi1,Chain2,Resi2,Note\nA,26,A,84,Detected\n"))

	out, diags, err := ssbond.ReadRecords(&buf)
	require.NoError(t, err)
	assert.Empty(t, diags)
	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, in[i].Key, out[i].Key)
		assert.Equal(t, in[i].Note, out[i].Note)
	}

	path := filepath.Join(t.TempDir(), "bonds.csv")
	require.NoError(t, ssbond.WriteRecordFile(path, in))
	out, _, err = ssbond.ReadRecordFile(path)
	require.NoError(t, err)
	assert.Equal(t, ssbond.RecordKeys(in), ssbond.RecordKeys(out))

	_, _, err = ssbond.ReadRecordFile(filepath.Join(t.TempDir(), "not_there.csv"))
	assert.Error(t, err)
}

func TestSSBondLine(t *testing.T) {
	assert.Equal(t, "SSBOND   1 CYS A   26    CYS A   84                          1555",
		ssbond.SSBondLine(1, ssbond.NewPairKey("A", 84, "A", 26)))
	assert.Equal(t, "SSBOND  12 CYS B    5    CYS C 1234                          1555",
		ssbond.SSBondLine(12, ssbond.NewPairKey("B", 5, "C", 1234)))
}

func TestInjectSSBond(t *testing.T) {
	orig := "HEADER    TEST\n" +
		"SSBOND   1 CYS A    1    CYS A    9                          1555\n" +
		"ATOM      1  CA  ALA A   1       0.000   0.000   0.000  1.00  0.00           C\n" +
		"SSBOND   2 CYS A    2    CYS A    8                          1555\n" +
		"END"
	keys := []ssbond.PairKey{ssbond.NewPairKey("A", 26, "A", 84), ssbond.NewPairKey("A", 58, "A", 110)}
	want := ssbond.SSBondLine(1, keys[0]) + "\n" + ssbond.SSBondLine(2, keys[1]) + "\n" +
		"HEADER    TEST\n" +
		"ATOM      1  CA  ALA A   1       0.000   0.000   0.000  1.00  0.00           C\n" +
		"END"

	var buf bytes.Buffer
	require.NoError(t, ssbond.InjectSSBondStream(strings.NewReader(orig), &buf, keys))
	assert.Equal(t, want, buf.String())

	path := filepath.Join(t.TempDir(), "x.pdb")
	require.NoError(t, os.WriteFile(path, []byte(orig), 0o644))
	require.NoError(t, ssbond.InjectSSBond(path, keys))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, string(got))

	require.NoError(t, ssbond.InjectSSBond(path, nil))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(got), "SSBOND")

	assert.Error(t, ssbond.InjectSSBond(filepath.Join(t.TempDir(), "none.pdb"), keys))
}
