package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/andrew-torda/ssbond/pdb"
	"github.com/andrew-torda/ssbond/pdb/cmmn"
	"github.com/andrew-torda/ssbond/pkg/common"
	"github.com/andrew-torda/ssbond/pkg/ssbond"
	"github.com/andrew-torda/ssbond/pkg/survey"
)

var everything cmmn.Selection

// floatFlag is the flag's value if it was given, otherwise the value
// from the config.
func floatFlag(cmd *cobra.Command, name string, fromCfg float64) float64 {
	if !cmd.Flags().Changed(name) {
		return fromCfg
	}
	f, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		return fromCfg
	}
	return f
}

// saveIf writes s to path, if there is one.
func (a *app) saveIf(s *pdb.Structure, path string) error {
	if path == "" {
		return nil
	}
	if err := s.Save(path, everything); err != nil {
		return err
	}
	a.log.Info("saved", zap.String("object", s.Name()), zap.String("path", path), zap.Int("bonds", s.NBond()))
	return nil
}

// openCSV opens a bond file for reading.
func openCSV(path string) (*os.File, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bond file: %w", err)
	}
	return fp, nil
}

func scanTopologyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scan-topology FILE",
		Short: "List disulfides in a structure's CONECT and SSBOND records",
		Args:  nArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(args[0])
			if err != nil {
				return err
			}
			bonds, err := ssbond.ScanTopology(s, a.opts)
			if err != nil {
				return err
			}
			return a.printer.Bonds("topology", s.Name(), bonds)
		},
	}
}

func scanDistanceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan-distance FILE",
		Short: "List cysteine sulfur pairs closer than a cutoff",
		Args:  nArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(args[0])
			if err != nil {
				return err
			}
			cutoff := floatFlag(cmd, "cutoff", a.cfg.Scan.Cutoff)
			bonds, err := ssbond.ScanDistance(s, cutoff, a.opts)
			if err != nil {
				return err
			}
			return a.printer.Bonds("distance", s.Name(), bonds)
		},
	}
	cmd.Flags().Float64("cutoff", 0, "SG-SG distance cutoff in A (default from scan.cutoff)")
	return cmd
}

func compareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare REF TARGET",
		Short: "Compare the disulfides of a reference structure and a model",
		Long: `The reference bonds come from its topology, or from distances if it
has none. Target bonds always come from distances. Bonds are paired by
midpoint distance and the sequence around each cysteine.`,
		Args: nArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.load(args[0])
			if err != nil {
				return err
			}
			tgt, err := a.load(args[1])
			if err != nil {
				return err
			}
			tol := floatFlag(cmd, "tolerance", a.cfg.Match.Tolerance)
			res, err := ssbond.Compare(ref, tgt, tol, a.opts)
			if err != nil {
				return err
			}
			return a.printer.Compare(res)
		},
	}
	cmd.Flags().Float64("tolerance", 0, "largest midpoint distance for a match (default from match.tolerance)")
	return cmd
}

func autobondCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "autobond FILE",
		Short: "Bond every pair of cysteine sulfurs closer than a cutoff",
		Args:  nArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(args[0])
			if err != nil {
				return err
			}
			cutoff := floatFlag(cmd, "cutoff", a.cfg.Scan.Cutoff)
			res, err := ssbond.Autobond(s, cutoff, a.opts)
			if err != nil {
				return err
			}
			if err := a.printer.Autobond(s.Name(), cutoff, res); err != nil {
				return err
			}
			return a.saveIf(s, out)
		},
	}
	cmd.Flags().Float64("cutoff", 0, "SG-SG distance cutoff in A (default from scan.cutoff)")
	cmd.Flags().StringVarP(&out, "write", "w", "", "save the bonded structure here")
	return cmd
}

func transferCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "transfer SOURCE TARGET",
		Short: "Copy the disulfides of one structure onto another",
		Args:  nArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.load(args[0])
			if err != nil {
				return err
			}
			tgt, err := a.load(args[1])
			if err != nil {
				return err
			}
			res, err := ssbond.Transfer(src, tgt, a.opts)
			if err != nil {
				return err
			}
			if err := a.printer.Applied("transfer", tgt.Name(), res); err != nil {
				return err
			}
			return a.saveIf(tgt, out)
		},
	}
	cmd.Flags().StringVarP(&out, "write", "w", "", "save the target, with its new bonds, here")
	return cmd
}

func exportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export FILE CSV",
		Short: "Write the sulfur pairs closer than a cutoff to a bond file",
		Args:  nArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			s, err := a.load(args[0])
			if err != nil {
				return err
			}
			fp, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, fp.Close()) }()
			cutoff := floatFlag(cmd, "cutoff", a.cfg.Export.Cutoff)
			recs, err := ssbond.Export(s, fp, cutoff, a.opts)
			if err != nil {
				return err
			}
			return a.printer.Exported(s.Name(), args[1], recs)
		},
	}
	cmd.Flags().Float64("cutoff", 0, "SG-SG distance cutoff in A (default from export.cutoff)")
	return cmd
}

func importCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "import FILE CSV",
		Short: "Bond the pairs listed in a bond file",
		Args:  nArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(args[0])
			if err != nil {
				return err
			}
			fp, err := openCSV(args[1])
			if err != nil {
				return err
			}
			defer fp.Close()
			res, err := ssbond.Import(s, fp, a.opts)
			if err != nil {
				return err
			}
			if err := a.printer.Applied("import", s.Name(), res); err != nil {
				return err
			}
			return a.saveIf(s, out)
		},
	}
	cmd.Flags().StringVarP(&out, "write", "w", "", "save the bonded structure here")
	return cmd
}

// parseSel reads a selection from the command line.
func parseSel(str string) (cmmn.Selection, error) {
	sel, err := cmmn.ParseSelection(str)
	if err != nil {
		return sel, fmt.Errorf("%w: %v", common.ErrUsage, err)
	}
	return sel, nil
}

func snapCmd(a *app) *cobra.Command {
	var out, object string
	cmd := &cobra.Command{
		Use:   "snap FIXED_FILE FIXED_SEL MOVING_FILE MOVING_SEL",
		Short: "Translate a structure so one of its atoms sits on an atom of another",
		Long: `Selections are chain/residue/atom, like A/26/SG. The first atom of
MOVING_SEL is moved onto the first atom of FIXED_SEL. The whole moving
structure is shifted, or only the atoms in --object.`,
		Args: nArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			fixedSel, err := parseSel(args[1])
			if err != nil {
				return err
			}
			movingSel, err := parseSel(args[3])
			if err != nil {
				return err
			}
			obj := everything
			if object != "" {
				if obj, err = parseSel(object); err != nil {
					return err
				}
			}
			fixed, err := a.load(args[0])
			if err != nil {
				return err
			}
			moving, err := a.load(args[2])
			if err != nil {
				return err
			}
			res, err := ssbond.Snap(fixed, fixedSel, moving, movingSel, obj, a.opts)
			if err != nil {
				return err
			}
			if err := a.printer.Snapped(moving.Name(), res); err != nil {
				return err
			}
			return a.saveIf(moving, out)
		},
	}
	cmd.Flags().StringVar(&object, "object", "", "atoms to move (default: the whole moving structure)")
	cmd.Flags().StringVarP(&out, "write", "w", "", "save the moved structure here")
	_ = cmd.MarkFlagRequired("write")
	return cmd
}

func checkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE CSV",
		Short: "Measure the bonds in a bond file without changing anything",
		Args:  nArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(args[0])
			if err != nil {
				return err
			}
			fp, err := openCSV(args[1])
			if err != nil {
				return err
			}
			defer fp.Close()
			checks, _, err := ssbond.CheckDistances(s, fp, a.opts)
			if err != nil {
				return err
			}
			return a.printer.Checks(s.Name(), checks)
		},
	}
}

func saveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save FILE CSV OUT",
		Short: "Save a structure with SSBOND records for the bonds in a bond file",
		Args:  nArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(args[0])
			if err != nil {
				return err
			}
			fp, err := openCSV(args[1])
			if err != nil {
				return err
			}
			defer fp.Close()
			keys, diags, err := ssbond.SaveWithBondRecords(s, fp, args[2], a.opts)
			if err != nil {
				return err
			}
			return a.printer.Saved(s.Name(), args[2], keys, diags)
		},
	}
}

func surveyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "survey PATH...",
		Short: "Scan every structure file under some directories",
		Long: `survey reads every .pdb and .ent file (plain or gzipped) below the
given directories, and any files named directly, with a pool of
workers. For each one it counts the disulfides recorded in the file,
the sulfur pairs closer than the cutoff and the close pairs that have
no record. Files that cannot be read are listed, not fatal.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: survey wants at least one path", common.ErrUsage)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			workers := a.cfg.Survey.Workers
			if cmd.Flags().Changed("workers") {
				workers, _ = cmd.Flags().GetInt("workers")
			}
			sum, err := survey.Run(cmd.Context(), args, survey.Options{
				Workers: workers,
				Cutoff:  floatFlag(cmd, "cutoff", a.cfg.Scan.Cutoff),
				Window:  a.cfg.Fingerprint.Window,
				Log:     a.log.Named("survey"),
			})
			if err != nil {
				return err
			}
			return a.printer.Survey(sum)
		},
	}
	cmd.Flags().Float64("cutoff", 0, "SG-SG distance cutoff in A (default from scan.cutoff)")
	cmd.Flags().IntP("workers", "j", 0, "number of files read at once (default from survey.workers)")
	return cmd
}
