// 16 Oct 2026
// Package report prints the results of the bond operations, either
// as plain text tables or as JSON, one object per result.

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/andrew-torda/ssbond/pkg/ssbond"
	"github.com/andrew-torda/ssbond/pkg/survey"
)

const (
	wideRule   = 100
	narrowRule = 65
	none       = "---"
)

// Printer writes reports to w.
type Printer struct {
	w      io.Writer
	json   bool
	colour bool
}

// New returns a printer. format is "text" or "json".
func New(w io.Writer, format string) (*Printer, error) {
	switch format {
	case "", "text":
		return &Printer{w: w}, nil
	case "json":
		return &Printer{w: w, json: true}, nil
	}
	return nil, fmt.Errorf("report format %q, want text or json", format)
}

// SetColour turns colour in text tables on or off. It is off until
// this is called.
func (p *Printer) SetColour(on bool) { p.colour = on }

var statusAttr = map[string]color.Attribute{
	"SHARED":       color.FgGreen,
	"MISSING":      color.FgRed,
	"NEW/ARTIFACT": color.FgBlue,
	"TIGHT":        color.FgGreen,
	"STRETCHED":    color.FgYellow,
	"BROKEN":       color.FgRed,
}

// paint colours an already padded cell, so escape codes do not upset
// the column widths.
func (p *Printer) paint(cell, status string) string {
	attr, ok := statusAttr[status]
	if !p.colour || !ok {
		return cell
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(cell)
}

func (p *Printer) emit(v interface{}) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func rule(n int) string { return strings.Repeat("-", n) }

// bondJSON is a bond without its atoms.
type bondJSON struct {
	Label    string     `json:"label"`
	Chain1   string     `json:"chain1"`
	Resi1    int        `json:"resi1"`
	Chain2   string     `json:"chain2"`
	Resi2    int        `json:"resi2"`
	Dist     float64    `json:"dist"`
	Midpoint [3]float64 `json:"midpoint"`
	Seqs     [2]string  `json:"seqs"`
}

func toJSON(b *ssbond.Bond) bondJSON {
	k := b.Key
	return bondJSON{
		Label: b.Label(), Chain1: k.Chain1, Resi1: k.Resi1, Chain2: k.Chain2, Resi2: k.Resi2,
		Dist:     b.Length(),
		Midpoint: [3]float64{b.Midpoint.X, b.Midpoint.Y, b.Midpoint.Z},
		Seqs:     b.Seqs,
	}
}

// Bonds lists the bonds found by a scan.
func (p *Printer) Bonds(how, object string, bonds []ssbond.Bond) error {
	if p.json {
		out := struct {
			Scan   string     `json:"scan"`
			Object string     `json:"object"`
			Bonds  []bondJSON `json:"bonds"`
		}{Scan: how, Object: object, Bonds: make([]bondJSON, 0, len(bonds))}
		for i := range bonds {
			out.Bonds = append(out.Bonds, toJSON(&bonds[i]))
		}
		return p.emit(out)
	}
	fmt.Fprintf(p.w, "[%s] %s: %d bonds\n", how, object, len(bonds))
	for i := range bonds {
		b := &bonds[i]
		fmt.Fprintf(p.w, "  %-22s %6.2f A  %s %s\n", b.Label(), b.Length(), b.Seqs[0], b.Seqs[1])
	}
	return nil
}

// matchRow is one line of a comparison.
type matchRow struct {
	Status string   `json:"status"`
	Ref    string   `json:"ref,omitempty"`
	Target string   `json:"target,omitempty"`
	SeqSim *float64 `json:"seq_sim,omitempty"`
	Dist   *float64 `json:"dist,omitempty"`
}

func compareRows(res *ssbond.CompareResult) []matchRow {
	var rows []matchRow
	for _, c := range res.Rec.Shared {
		sim, d := c.Score, c.Dist
		rows = append(rows, matchRow{
			Status: ssbond.Shared.String(), Ref: res.Ref[c.Ref].Label(), Target: res.Tgt[c.Tgt].Label(),
			SeqSim: &sim, Dist: &d,
		})
	}
	for _, i := range res.Rec.Missing {
		rows = append(rows, matchRow{Status: ssbond.Missing.String(), Ref: res.Ref[i].Label()})
	}
	for _, j := range res.Rec.New {
		rows = append(rows, matchRow{Status: ssbond.New.String(), Target: res.Tgt[j].Label()})
	}
	return rows
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}

// Compare prints shared, then missing, then new bonds.
func (p *Printer) Compare(res *ssbond.CompareResult) error {
	rows := compareRows(res)
	if p.json {
		return p.emit(struct {
			Ref         string     `json:"ref"`
			Target      string     `json:"target"`
			RefBonds    int        `json:"ref_bonds"`
			TargetBonds int        `json:"target_bonds"`
			RefFallback bool       `json:"ref_fallback"`
			Rows        []matchRow `json:"rows"`
		}{res.RefName, res.TgtName, len(res.Ref), len(res.Tgt), res.RefFallback, rows})
	}
	fmt.Fprintf(p.w, "[compare] %s (ref) vs %s (target)\n", res.RefName, res.TgtName)
	if res.RefFallback {
		fmt.Fprintln(p.w, "  reference has no topology, bonds found by distance")
	}
	fmt.Fprintf(p.w, "  ref bonds: %d | target bonds: %d\n", len(res.Ref), len(res.Tgt))
	fmt.Fprintln(p.w, rule(wideRule))
	fmt.Fprintf(p.w, "%-15s | %-22s | %-22s | %-6s | %s\n", "STATUS", "Ref Bond", "Target Bond", "SeqSim", "Dist")
	fmt.Fprintln(p.w, rule(wideRule))
	for _, r := range rows {
		sim, dist := "-     ", "-"
		if r.SeqSim != nil {
			sim = fmt.Sprintf("%-6.2f", *r.SeqSim)
			dist = fmt.Sprintf("%.1f A", *r.Dist)
		}
		status := r.Status
		if status == ssbond.New.String() {
			status = "NEW/ARTIFACT"
		}
		cell := p.paint(fmt.Sprintf("%-15s", status), status)
		fmt.Fprintf(p.w, "%s | %-22s | %-22s | %s | %s\n", cell, orNone(r.Ref), orNone(r.Target), sim, dist)
	}
	fmt.Fprintln(p.w, rule(wideRule))
	return nil
}

// Autobond says how many bonds were made.
func (p *Printer) Autobond(object string, cutoff float64, res *ssbond.AutobondResult) error {
	if p.json {
		out := struct {
			Object  string     `json:"object"`
			Cutoff  float64    `json:"cutoff"`
			Created int        `json:"created"`
			Bonds   []bondJSON `json:"bonds"`
			Skipped []string   `json:"skipped,omitempty"`
		}{Object: object, Cutoff: cutoff, Created: res.Created, Bonds: make([]bondJSON, 0, len(res.Bonds))}
		for i := range res.Bonds {
			out.Bonds = append(out.Bonds, toJSON(&res.Bonds[i]))
		}
		out.Skipped = diagStrings(res.Diags)
		return p.emit(out)
	}
	fmt.Fprintf(p.w, "[autobond] %s (cutoff %.2f A): created %d bonds\n", object, cutoff, res.Created)
	printDiags(p.w, res.Diags)
	return nil
}

type checkJSON struct {
	Bond     string   `json:"bond"`
	Found    bool     `json:"found"`
	Dist     *float64 `json:"dist,omitempty"`
	Severity string   `json:"severity,omitempty"`
}

func checksJSON(checks []ssbond.BondCheck) []checkJSON {
	out := make([]checkJSON, 0, len(checks))
	for _, c := range checks {
		cj := checkJSON{Bond: c.Key.String(), Found: c.Found}
		if c.Found {
			d := c.Dist
			cj.Dist, cj.Severity = &d, c.Severity.String()
		}
		out = append(out, cj)
	}
	return out
}

func diagStrings(diags []ssbond.Diagnostic) []string {
	var s []string
	for _, d := range diags {
		s = append(s, d.String())
	}
	return s
}

func printDiags(w io.Writer, diags []ssbond.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "  skipped: %s\n", d)
	}
}

// Applied reports transfer and import: which bonds were made and how
// stretched they are.
func (p *Printer) Applied(verb, object string, res *ssbond.KeyResult) error {
	if p.json {
		return p.emit(struct {
			Op      string      `json:"op"`
			Object  string      `json:"object"`
			Count   int         `json:"count"`
			Bonds   []checkJSON `json:"bonds"`
			Skipped []string    `json:"skipped,omitempty"`
		}{verb, object, len(res.Applied), checksJSON(res.Applied), diagStrings(res.Diags)})
	}
	fmt.Fprintf(p.w, "[%s] %s: %d bonds\n", verb, object, len(res.Applied))
	for _, c := range res.Applied {
		fmt.Fprintf(p.w, "  %-22s %6.2f A  %s\n", c.Key, c.Dist, c.Severity)
	}
	printDiags(p.w, res.Diags)
	return nil
}

func checkLabel(k ssbond.PairKey) string {
	return fmt.Sprintf("%s:%d - %s:%d", k.Chain1, k.Resi1, k.Chain2, k.Resi2)
}

// Checks prints measured distances, with missing atoms marked.
func (p *Printer) Checks(object string, checks []ssbond.BondCheck) error {
	if p.json {
		return p.emit(struct {
			Object string      `json:"object"`
			Bonds  []checkJSON `json:"bonds"`
		}{object, checksJSON(checks)})
	}
	fmt.Fprintf(p.w, "[check] %s\n", object)
	fmt.Fprintln(p.w, rule(narrowRule))
	fmt.Fprintf(p.w, "%-25s | %-10s | %s\n", "Bond (Chain:Resi)", "Dist (A)", "Status")
	fmt.Fprintln(p.w, rule(narrowRule))
	for _, c := range checks {
		if !c.Found {
			fmt.Fprintf(p.w, "%-25s | %-10s | %s\n", checkLabel(c.Key), none, "[MISSING ATOM]")
			continue
		}
		status := strings.ToUpper(c.Severity.String())
		fmt.Fprintf(p.w, "%-25s | %-10.2f | %s\n", checkLabel(c.Key), c.Dist, p.paint(status, status))
	}
	fmt.Fprintln(p.w, rule(narrowRule))
	return nil
}

// Exported says where a bond file went.
func (p *Printer) Exported(object, path string, recs []ssbond.Record) error {
	if p.json {
		keys := make([]string, len(recs))
		for i, r := range recs {
			keys[i] = r.Key.String()
		}
		return p.emit(struct {
			Object string   `json:"object"`
			Path   string   `json:"path"`
			Bonds  []string `json:"bonds"`
		}{object, path, keys})
	}
	fmt.Fprintf(p.w, "[export] %s -> %s: saved %d bonds\n", object, path, len(recs))
	return nil
}

// Snapped says how far things moved.
func (p *Printer) Snapped(object string, res *ssbond.SnapResult) error {
	if p.json {
		return p.emit(struct {
			Object string     `json:"object"`
			Shift  [3]float64 `json:"shift"`
			Moved  int        `json:"moved"`
			Dist   float64    `json:"dist"`
		}{object, [3]float64{res.Shift.X, res.Shift.Y, res.Shift.Z}, res.Moved, res.Dist})
	}
	fmt.Fprintf(p.w, "[snap] %s: moved %d atoms by (%.3f, %.3f, %.3f), distance now %.3f A\n",
		object, res.Moved, res.Shift.X, res.Shift.Y, res.Shift.Z, res.Dist)
	return nil
}

// Saved says what went into a saved file.
func (p *Printer) Saved(object, path string, keys []ssbond.PairKey, diags []ssbond.Diagnostic) error {
	if p.json {
		s := make([]string, len(keys))
		for i, k := range keys {
			s[i] = k.String()
		}
		return p.emit(struct {
			Object  string   `json:"object"`
			Path    string   `json:"path"`
			SSBond  []string `json:"ssbond"`
			Skipped []string `json:"skipped,omitempty"`
		}{object, path, s, diagStrings(diags)})
	}
	fmt.Fprintf(p.w, "[save] %s -> %s: %d SSBOND records\n", object, path, len(keys))
	printDiags(p.w, diags)
	return nil
}

// Survey prints one line per file and the totals.
func (p *Printer) Survey(sum *survey.Summary) error {
	if p.json {
		return p.emit(sum)
	}
	fmt.Fprintf(p.w, "%-30s %5s %5s %5s %6s  %s\n", "File", "Cys", "Topo", "Dist", "Unrec", "tight/stretched/broken")
	fmt.Fprintln(p.w, rule(narrowRule+15))
	for i := range sum.Files {
		f := &sum.Files[i]
		if f.Err != nil {
			fmt.Fprintf(p.w, "%-30s %s\n", f.Path, p.paint("FAILED", "BROKEN")+": "+f.Error)
			continue
		}
		fmt.Fprintf(p.w, "%-30s %5d %5d %5d %6d  %d/%d/%d\n", f.Path, f.NCys, f.Topology, f.Distance,
			f.Unrecorded, f.Severity[ssbond.Tight.String()], f.Severity[ssbond.Stretched.String()],
			f.Severity[ssbond.Broken.String()])
	}
	fmt.Fprintln(p.w, rule(narrowRule+15))
	fmt.Fprintf(p.w, "%d files, %d failed, %d topology, %d distance, %d unrecorded\n",
		sum.NFile, sum.NFailed, sum.Topology, sum.Distance, sum.Unrecorded)
	return nil
}
