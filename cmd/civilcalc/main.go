// Command civilcalc runs civil time calculations from the command line:
// adding durations to dates, measuring between them, rounding and
// inspecting calendar fields.
//
// Defaults come from a TOML or YAML config file, CIVILCALC_* environment
// variables and flags, in increasing precedence.
//
// Usage:
//
//	civilcalc add 2021-01-31 P1M
//	civilcalc until 2021-01-31 2021-03-01 --largest month
//	civilcalc round PT1H30M --smallest hour
//	civilcalc fields 2024-03-11 --calendar hebrew
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rabitt1ove/civiltime"

	_ "time/tzdata"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// app is the state shared by the subcommands of one invocation.
type app struct {
	out, errOut io.Writer
	cfgFile     string
	verbose     bool
	flags       Config

	cfg    *Config
	set    settings
	engine *civiltime.Engine
	log    *slog.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}
	root := &cobra.Command{
		Use:           "civilcalc",
		Short:         "Calendar-aware date and time arithmetic",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `civilcalc adds durations to dates, date-times and zoned values,
measures the duration between them and rounds the results.

Values are ISO 8601 strings: 2024-03-10, 2024-03-10T02:30,
2024-03-10T02:30[America/New_York], 2024-03-10T07:30Z, 2024-03,
10:30, P1Y2M3DT4H.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (TOML or YAML; default $CIVILCALC_CONFIG)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")
	pf.StringVar(&a.flags.Calendar, "calendar", "", "calendar for new values (default iso8601)")
	pf.StringVar(&a.flags.TimeZone, "time-zone", "", "time zone for zoned output (default UTC)")
	pf.StringVar(&a.flags.Overflow, "overflow", "", "constrain or reject")
	pf.StringVar(&a.flags.Disambiguation, "disambiguation", "", "compatible, earlier, later or reject")
	pf.StringVar(&a.flags.Offset, "offset", "", "use, prefer, ignore or reject")
	pf.StringVar(&a.flags.RoundingMode, "rounding-mode", "", "rounding mode, e.g. halfExpand")

	root.AddCommand(
		a.newMoveCmd("add", false),
		a.newMoveCmd("subtract", true),
		a.newDiffCmd("until", false),
		a.newDiffCmd("since", true),
		a.newRoundCmd(),
		a.newTotalCmd(),
		a.newParseCmd(),
		a.newFieldsCmd(),
		a.newCalendarsCmd(),
		a.newBatchCmd(),
	)
	return root
}

// setup loads the config, applies flag overrides and builds the engine.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.cfgFile)
	if err != nil {
		return err
	}
	overrides := map[string]struct{ dst, src *string }{
		"calendar":       {&cfg.Calendar, &a.flags.Calendar},
		"time-zone":      {&cfg.TimeZone, &a.flags.TimeZone},
		"overflow":       {&cfg.Overflow, &a.flags.Overflow},
		"disambiguation": {&cfg.Disambiguation, &a.flags.Disambiguation},
		"offset":         {&cfg.Offset, &a.flags.Offset},
		"rounding-mode":  {&cfg.RoundingMode, &a.flags.RoundingMode},
	}
	for name, o := range overrides {
		if cmd.Flags().Changed(name) {
			*o.dst = *o.src
		}
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	set, err := cfg.settings()
	if err != nil {
		return err
	}
	a.cfg, a.set = cfg, set
	a.log = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: set.logLevel}))
	a.engine = civiltime.New()
	if err := cfg.registerAliases(a.engine); err != nil {
		return err
	}
	a.log.Debug("configuration loaded",
		"config", a.cfgFile,
		"calendar", set.calendar,
		"time_zone", set.timeZone,
		"overflow", set.overflow,
		"disambiguation", set.disambiguation,
		"aliases", len(cfg.TimeZones))
	return nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
