// 16 Oct 2026
// Package cli is the ssbond command line. Each verb is a cobra
// subcommand that loads structures, calls one operation from
// pkg/ssbond and prints a report.

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/andrew-torda/ssbond/pdb"
	"github.com/andrew-torda/ssbond/pkg/annotate"
	"github.com/andrew-torda/ssbond/pkg/common"
	"github.com/andrew-torda/ssbond/pkg/config"
	"github.com/andrew-torda/ssbond/pkg/logging"
	"github.com/andrew-torda/ssbond/pkg/report"
	"github.com/andrew-torda/ssbond/pkg/ssbond"
)

// app is what the subcommands share once flags and config are read.
type app struct {
	v       *viper.Viper
	out     io.Writer
	cfgPath string
	script  string
	noColor bool

	cfg        *config.Config
	log        *zap.Logger
	printer    *report.Printer
	scriptFile *os.File
	opts       *ssbond.Options
}

// setup runs before every subcommand.
func (a *app) setup() error {
	cfg, err := config.Load(a.v, a.cfgPath)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUsage, err)
	}
	a.cfg = cfg
	if a.log, err = logging.New(cfg.LogConfig()); err != nil {
		return err
	}
	if a.printer, err = report.New(a.out, cfg.Output); err != nil {
		return fmt.Errorf("%w: %v", common.ErrUsage, err)
	}
	a.printer.SetColour(!a.noColor && !color.NoColor && a.out == os.Stdout)
	a.opts = cfg.Options()
	a.opts.Log = a.log
	ann := annotate.Multi{annotate.NewLog(a.log.Named("annotate"))}
	if a.script != "" {
		if a.scriptFile, err = os.Create(a.script); err != nil {
			return err
		}
		ann = append(ann, annotate.NewScript(a.scriptFile))
	}
	a.opts.Annotator = ann
	return nil
}

// teardown closes what setup opened.
func (a *app) teardown() error {
	var err error
	if a.scriptFile != nil {
		err = multierr.Append(err, a.scriptFile.Close())
		a.scriptFile = nil
	}
	if a.log != nil {
		_ = a.log.Sync() // fails on stderr for some terminals
	}
	return err
}

// load reads a structure from a file, or from the PDB for names
// like pdb:1abc.
func (a *app) load(name string) (*pdb.Structure, error) {
	if code, ok := strings.CutPrefix(name, pdb.FetchPrefix); ok {
		a.log.Info("fetching", zap.String("code", code))
		return pdb.Fetch(code, 0)
	}
	s, err := pdb.ReadFile(name)
	if err != nil {
		return nil, err
	}
	a.log.Debug("read structure", zap.String("file", name), zap.Int("atoms", s.NAtom()))
	return s, nil
}

// nArgs is cobra.ExactArgs, but marks the error as a usage error.
func nArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%w: %s wants %d arguments, got %d", common.ErrUsage, cmd.Name(), n, len(args))
		}
		return nil
	}
}

// NewRootCommand builds the command tree writing reports to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	root, _ := newRoot(out)
	return root
}

func newRoot(out io.Writer) (*cobra.Command, *app) {
	a := &app{v: config.New(), out: out}
	root := &cobra.Command{
		Use:   "ssbond",
		Short: "Find, compare and move disulfide bonds in protein structures",
		Long: `ssbond finds disulfide bonds in PDB files, either from their CONECT and
SSBOND records or from sulfur distances. It compares the bonds of a
reference and a model, copies bonds between structures and keeps lists
of bonds in small csv files.`,
		PersistentPreRunE:  func(*cobra.Command, []string) error { return a.setup() },
		PersistentPostRunE: func(*cobra.Command, []string) error { return a.teardown() },
		SilenceUsage:       true,
		SilenceErrors:      true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgPath, "config", "c", "", "yaml config file")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "console", "log format (console, json)")
	pf.StringP("output", "o", config.OutText, "report format (text, json)")
	pf.StringVar(&a.script, "script", "", "write viewer commands to this file")
	pf.BoolVar(&a.noColor, "no-color", false, "no colour in text reports")
	for flag, key := range map[string]string{
		"log-level":  config.KeyLogLevel,
		"log-format": config.KeyLogFormat,
		"output":     config.KeyOutput,
	} {
		if err := a.v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err) // only if the flag names above are wrong
		}
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", common.ErrUsage, err)
	})
	root.AddCommand(
		scanTopologyCmd(a), scanDistanceCmd(a), compareCmd(a), autobondCmd(a),
		transferCmd(a), exportCmd(a), importCmd(a), snapCmd(a), checkCmd(a), saveCmd(a),
		surveyCmd(a),
	)
	return root, a
}

// Execute runs the command line and returns the exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	root, a := newRoot(stdout)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	err = multierr.Append(err, a.teardown()) // post run is skipped after errors
	if err != nil {
		fmt.Fprintln(stderr, "ssbond:", err)
	}
	return common.ExitCode(err)
}
