package ssbond

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

// Bond files are comma separated, one bond per row, after a header.
// Coordinates are not kept. They come from whatever structure the
// file is applied to.
const (
	headerTag   = "Chain"
	commentChar = '#'
	NoteDefault = "Detected"
)

var bondFileHeader = []string{"Chain1", "Resi1", "Chain2", "Resi2", "Note"}

// Record is one row of a bond file. Line is where it was read from,
// or 0.
type Record struct {
	Key  PairKey
	Note string
	Line int
}

// RecordsFromBonds gives a record with the same note for every bond.
func RecordsFromBonds(bonds []Bond, note string) []Record {
	recs := make([]Record, len(bonds))
	for i := range bonds {
		recs[i] = Record{Key: bonds[i].Key, Note: note}
	}
	return recs
}

// RecordKeys pulls the keys out of some records.
func RecordKeys(recs []Record) []PairKey {
	keys := make([]PairKey, len(recs))
	for i, r := range recs {
		keys[i] = r.Key
	}
	return keys
}

// WriteRecords writes the header and one row per record.
func WriteRecords(w io.Writer, recs []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(bondFileHeader); err != nil {
		return err
	}
	for _, r := range recs {
		k := r.Key
		row := []string{k.Chain1, strconv.Itoa(k.Resi1), k.Chain2, strconv.Itoa(k.Resi2), r.Note}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// blankRow is true for rows that were only white space.
func blankRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// parseRow turns fields into a record. Keys are put in canonical
// order, whatever order the file had them in.
func parseRow(row []string) (Record, error) {
	var rec Record
	if len(row) < 4 {
		return rec, fmt.Errorf("want at least 4 fields, got %d", len(row))
	}
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}
	r1, err := strconv.Atoi(row[1])
	if err != nil {
		return rec, fmt.Errorf("residue number %q", row[1])
	}
	r2, err := strconv.Atoi(row[3])
	if err != nil {
		return rec, fmt.Errorf("residue number %q", row[3])
	}
	rec.Key = NewPairKey(row[0], r1, row[2], r2)
	if len(row) > 4 {
		rec.Note = row[4]
	}
	return rec, nil
}

// ReadRecords reads a bond file. Blank lines, comments and header
// lines are skipped. Rows that cannot be read are skipped and
// reported in the diagnostics. The error is only for a reader that
// fails.
func ReadRecords(r io.Reader) ([]Record, []Diagnostic, error) {
	cr := csv.NewReader(r)
	cr.Comment = commentChar
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	var recs []Record
	var diags []Diagnostic
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				diags = append(diags, Diagnostic{Line: perr.Line, Msg: perr.Err.Error()})
				continue
			}
			return recs, diags, err
		}
		line, _ := cr.FieldPos(0)
		if blankRow(row) || strings.HasPrefix(strings.TrimSpace(row[0]), headerTag) {
			continue
		}
		rec, err := parseRow(row)
		if err != nil {
			diags = append(diags, Diagnostic{Line: line, Msg: err.Error()})
			continue
		}
		rec.Line = line
		recs = append(recs, rec)
	}
	return recs, diags, nil
}

// ReadRecordFile is ReadRecords on a named file.
func ReadRecordFile(path string) ([]Record, []Diagnostic, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer fp.Close()
	recs, diags, err := ReadRecords(fp)
	if err != nil {
		return recs, diags, fmt.Errorf("reading %s: %w", path, err)
	}
	return recs, diags, nil
}

// WriteRecordFile is WriteRecords to a new file.
func WriteRecordFile(path string, recs []Record) (err error) {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, fp.Close()) }()
	if err = WriteRecords(fp, recs); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
