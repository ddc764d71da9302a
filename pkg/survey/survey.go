// Package survey runs the disulfide scans over many structure files at
// once. Each file is read into its own structure, so the workers share
// nothing but the logger.
package survey

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/andrew-torda/ssbond/pdb"
	"github.com/andrew-torda/ssbond/pdb/cmmn"
	"github.com/andrew-torda/ssbond/pkg/ssbond"
)

// Suffixes picked up when walking a directory. Files named directly
// are read whatever they are called.
var Suffixes = []string{".pdb", ".ent", ".pdb.gz", ".ent.gz"}

var cysSG = cmmn.Selection{Names: []string{"SG"}, ResNames: []string{"CYS", "CYX"}}

// Options for Run. The zero value uses one worker per CPU and the
// default scan cutoff.
type Options struct {
	Workers int
	Cutoff  float64
	Window  int
	Log     *zap.Logger
}

// FileResult is what we learnt from one file.
type FileResult struct {
	Path       string         `json:"path"`
	Name       string         `json:"name,omitempty"`
	NAtom      int            `json:"n_atom"`
	NCys       int            `json:"n_cys"`
	Topology   int            `json:"topology"`
	Distance   int            `json:"distance"`
	Unrecorded int            `json:"unrecorded"` // close pairs with no bond in the file
	Severity   map[string]int `json:"severity,omitempty"`
	Err        error          `json:"-"`
	Error      string         `json:"error,omitempty"`
}

// Summary is the result of Run, with files in path order.
type Summary struct {
	Files      []FileResult `json:"files"`
	NFile      int          `json:"n_file"`
	NFailed    int          `json:"n_failed"`
	Topology   int          `json:"topology"`
	Distance   int          `json:"distance"`
	Unrecorded int          `json:"unrecorded"`
}

func wanted(name string) bool {
	name = strings.ToLower(name)
	for _, s := range Suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// Collect expands directories into the structure files below them.
// Plain file arguments are kept as they are. The result is sorted and
// has no duplicates.
func Collect(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && wanted(d.Name()) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// one reads and scans a single file. Failures are kept in the result.
func one(path string, opts *Options) FileResult {
	res := FileResult{Path: path}
	fail := func(err error) FileResult {
		res.Err, res.Error = err, err.Error()
		opts.Log.Warn("survey", zap.String("path", path), zap.Error(err))
		return res
	}
	st, err := pdb.ReadFile(path)
	if err != nil {
		return fail(err)
	}
	res.Name, res.NAtom, res.NCys = st.Name(), st.NAtom(), st.Count(cysSG)
	sopts := &ssbond.Options{Window: opts.Window, Log: opts.Log}
	top, err := ssbond.ScanTopology(st, sopts)
	if err != nil {
		return fail(err)
	}
	near, err := ssbond.ScanDistance(st, opts.Cutoff, sopts)
	if err != nil {
		return fail(err)
	}
	res.Topology, res.Distance = len(top), len(near)
	known := make(map[ssbond.PairKey]bool, len(top))
	for i := range top {
		known[top[i].Key] = true
		if res.Severity == nil {
			res.Severity = make(map[string]int)
		}
		res.Severity[ssbond.Classify(top[i].Length()).String()]++
	}
	for i := range near {
		if !known[near[i].Key] {
			res.Unrecorded++
		}
	}
	opts.Log.Debug("survey", zap.String("path", path), zap.Int("topology", res.Topology),
		zap.Int("distance", res.Distance))
	return res
}

// Run reads every file under paths with a pool of workers and scans
// each one by topology and by distance. An unreadable structure is
// recorded in its FileResult. The error is for a bad path argument or
// a cancelled context.
func Run(ctx context.Context, paths []string, opts Options) (*Summary, error) {
	files, err := Collect(paths)
	if err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Cutoff <= 0 {
		opts.Cutoff = ssbond.DefaultCutoff
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	results := make([]FileResult, len(files))
	jobs := make(chan int)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := range files {
			if err := gctx.Err(); err != nil {
				return err
			}
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < opts.Workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				results[i] = one(files[i], &opts)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := &Summary{Files: results, NFile: len(results)}
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			sum.NFailed++
			continue
		}
		sum.Topology += r.Topology
		sum.Distance += r.Distance
		sum.Unrecorded += r.Unrecorded
	}
	opts.Log.Info("survey done", zap.Int("files", sum.NFile), zap.Int("failed", sum.NFailed),
		zap.Int("workers", opts.Workers))
	return sum, nil
}
