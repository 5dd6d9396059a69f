package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rabitt1ove/civiltime"
)

// --- value parsing and printing ---

// parsePoint reads any point-like value. The first form that fits wins:
// zoned date-time, instant, date-time, date, year-month, time of day.
func (a *app) parsePoint(s string) (civiltime.Point, error) {
	e := a.engine
	head, rest, _ := strings.Cut(s, "[")
	annotation, _, _ := strings.Cut(rest, "]")
	switch {
	case rest != "" && !strings.Contains(annotation, "="):
		return e.ParseZonedDateTime(s, civiltime.ZonedOptions{
			Disambiguation: a.set.disambiguation,
			Offset:         a.set.offset,
		})
	case strings.ContainsAny(head, "Zz") && strings.ContainsAny(head, "Tt "):
		return e.ParseInstant(s)
	case strings.ContainsAny(head, "Tt ") && len(head) > 8:
		dt, err := e.ParsePlainDateTime(s)
		if err != nil {
			return nil, err
		}
		return a.withCalendar(dt, s)
	}
	if d, err := e.ParsePlainDate(s); err == nil {
		return a.withCalendar(d, s)
	}
	if ym, err := e.ParsePlainYearMonth(s); err == nil {
		return ym, nil
	}
	if t, err := e.ParsePlainTime(s); err == nil {
		return t, nil
	}
	return nil, fmt.Errorf("cannot parse %q as a date, time or zoned value", s)
}

// withCalendar applies the configured calendar to values that carry no
// calendar annotation of their own.
func (a *app) withCalendar(p civiltime.Point, s string) (civiltime.Point, error) {
	if strings.Contains(s, "u-ca=") {
		return p, nil
	}
	cal, err := a.engine.LookupCalendar(a.set.calendar)
	if err != nil {
		return nil, err
	}
	id := cal.ID()
	if id == civiltime.ISO8601 {
		return p, nil
	}
	switch v := p.(type) {
	case civiltime.PlainDate:
		v.Calendar = id
		return v, nil
	case civiltime.PlainDateTime:
		v.Calendar = id
		return v, nil
	}
	return p, nil
}

func (a *app) parseDuration(s string) (civiltime.Duration, error) {
	return a.engine.ParseDuration(s)
}

func isDuration(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return strings.HasPrefix(s, "P") || strings.HasPrefix(s, "p")
}

// formatPoint prints a value in its canonical ISO 8601 form.
func (a *app) formatPoint(v any) (string, error) {
	switch p := v.(type) {
	case civiltime.ZonedDateTime:
		return a.engine.FormatZoned(p, civiltime.FormatOptions{})
	case civiltime.Instant:
		if a.set.timeZone == civiltime.UTC {
			return p.String(), nil
		}
		return a.engine.FormatInstant(p, a.set.timeZone, civiltime.FormatOptions{})
	case civiltime.Duration:
		return p.String(), nil
	case fmt.Stringer:
		return p.String(), nil
	}
	return "", fmt.Errorf("unsupported value %T", v)
}

// offsetString prints an offset as ±HH:MM, with seconds when present.
func offsetString(nanos int64) string {
	sign := '+'
	if nanos < 0 {
		sign, nanos = '-', -nanos
	}
	sec := nanos / 1e9
	out := fmt.Sprintf("%c%02d:%02d", sign, sec/3600, sec/60%60)
	if sec%60 != 0 {
		out += fmt.Sprintf(":%02d", sec%60)
	}
	return out
}

func typeName(v any) string {
	switch v.(type) {
	case civiltime.PlainDate:
		return "PlainDate"
	case civiltime.PlainDateTime:
		return "PlainDateTime"
	case civiltime.PlainYearMonth:
		return "PlainYearMonth"
	case civiltime.PlainTime:
		return "PlainTime"
	case civiltime.ZonedDateTime:
		return "ZonedDateTime"
	case civiltime.Instant:
		return "Instant"
	case civiltime.Duration:
		return "Duration"
	}
	return fmt.Sprintf("%T", v)
}

// --- operations shared by commands and batch rows ---

func (a *app) move(value, duration string, subtract bool) (string, error) {
	p, err := a.parsePoint(value)
	if err != nil {
		return "", err
	}
	d, err := a.parseDuration(duration)
	if err != nil {
		return "", err
	}
	move := a.engine.Move
	if subtract {
		move = a.engine.Subtract
	}
	out, err := move(p, d, a.set.overflow)
	if err != nil {
		return "", err
	}
	a.log.Debug("moved value", "from", value, "by", d.String(), "subtract", subtract)
	return a.formatPoint(out)
}

// diffFlags are the string forms of DiffOptions and RoundOptions.
type diffFlags struct {
	largest, smallest string
	increment         int64
	mode              string
}

func (f diffFlags) units() (largest, smallest civiltime.Unit, mode civiltime.RoundingMode, err error) {
	if largest, err = civiltime.ParseUnit(f.largest); err != nil {
		return
	}
	if smallest, err = civiltime.ParseUnit(f.smallest); err != nil {
		return
	}
	mode, err = civiltime.ParseRoundingMode(f.mode)
	return
}

func (a *app) diff(from, to string, f diffFlags, since bool) (string, error) {
	p0, err := a.parsePoint(from)
	if err != nil {
		return "", err
	}
	p1, err := a.parsePoint(to)
	if err != nil {
		return "", err
	}
	largest, smallest, mode, err := f.units()
	if err != nil {
		return "", err
	}
	if mode == civiltime.RoundDefault {
		mode = a.set.roundingMode
	}
	opts := civiltime.DiffOptions{
		LargestUnit:       largest,
		SmallestUnit:      smallest,
		RoundingIncrement: f.increment,
		RoundingMode:      mode,
	}
	measure := a.engine.Until
	if since {
		measure = a.engine.Since
	}
	d, err := measure(p0, p1, opts)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

func (a *app) round(value string, f diffFlags, relativeTo string) (string, error) {
	largest, smallest, mode, err := f.units()
	if err != nil {
		return "", err
	}
	if mode == civiltime.RoundDefault {
		mode = a.set.roundingMode
	}
	opts := civiltime.RoundOptions{
		SmallestUnit:      smallest,
		LargestUnit:       largest,
		RoundingIncrement: f.increment,
		RoundingMode:      mode,
	}
	if relativeTo != "" {
		if opts.RelativeTo, err = a.parsePoint(relativeTo); err != nil {
			return "", err
		}
	}
	var v any
	if isDuration(value) {
		v, err = a.parseDuration(value)
	} else {
		v, err = a.parsePoint(value)
	}
	if err != nil {
		return "", err
	}
	out, err := a.engine.Round(v, opts)
	if err != nil {
		return "", err
	}
	return a.formatPoint(out)
}

func (a *app) total(duration, unit, relativeTo string) (string, error) {
	d, err := a.parseDuration(duration)
	if err != nil {
		return "", err
	}
	u, err := civiltime.ParseUnit(unit)
	if err != nil {
		return "", err
	}
	var rel civiltime.Point
	if relativeTo != "" {
		if rel, err = a.parsePoint(relativeTo); err != nil {
			return "", err
		}
	}
	n, err := a.engine.Total(d, u, rel)
	if err != nil {
		return "", err
	}
	return n.String(), nil
}

// --- commands ---

func (a *app) newMoveCmd(name string, subtract bool) *cobra.Command {
	verb := "Add a duration to"
	if subtract {
		verb = "Subtract a duration from"
	}
	return &cobra.Command{
		Use:   name + " VALUE DURATION",
		Short: verb + " a date, time or zoned value",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			out, err := a.move(args[0], args[1], subtract)
			if err != nil {
				return err
			}
			a.printf("%s\n", out)
			return nil
		},
	}
}

func (a *app) addRoundingFlags(cmd *cobra.Command, f *diffFlags) {
	cmd.Flags().StringVar(&f.largest, "largest", "", "largest unit of the result")
	cmd.Flags().StringVar(&f.smallest, "smallest", "", "smallest unit of the result")
	cmd.Flags().Int64Var(&f.increment, "increment", 0, "rounding increment in units of --smallest")
	cmd.Flags().StringVar(&f.mode, "mode", "", "rounding mode (default from config)")
}

func (a *app) newDiffCmd(name string, since bool) *cobra.Command {
	var f diffFlags
	short := "Measure the duration from FROM to TO"
	if since {
		short = "Measure the duration from TO back to FROM"
	}
	cmd := &cobra.Command{
		Use:   name + " FROM TO",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			out, err := a.diff(args[0], args[1], f, since)
			if err != nil {
				return err
			}
			a.printf("%s\n", out)
			return nil
		},
	}
	a.addRoundingFlags(cmd, &f)
	return cmd
}

func (a *app) newRoundCmd() *cobra.Command {
	var (
		f          diffFlags
		relativeTo string
	)
	cmd := &cobra.Command{
		Use:   "round VALUE",
		Short: "Round a duration or a date, time or zoned value",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			out, err := a.round(args[0], f, relativeTo)
			if err != nil {
				return err
			}
			a.printf("%s\n", out)
			return nil
		},
	}
	a.addRoundingFlags(cmd, &f)
	cmd.Flags().StringVar(&relativeTo, "relative-to", "", "start point for calendar units")
	return cmd
}

func (a *app) newTotalCmd() *cobra.Command {
	var unit, relativeTo string
	cmd := &cobra.Command{
		Use:   "total DURATION",
		Short: "Express a duration as a decimal number of one unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			out, err := a.total(args[0], unit, relativeTo)
			if err != nil {
				return err
			}
			a.printf("%s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&unit, "unit", "", "unit to total in (required)")
	cmd.Flags().StringVar(&relativeTo, "relative-to", "", "start point for calendar units")
	_ = cmd.MarkFlagRequired("unit")
	return cmd
}

func (a *app) newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse VALUE",
		Short: "Print the type and normalized form of a value",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var (
				v   any
				err error
			)
			if isDuration(args[0]) {
				v, err = a.parseDuration(args[0])
			} else {
				v, err = a.parsePoint(args[0])
			}
			if err != nil {
				return err
			}
			out, err := a.formatPoint(v)
			if err != nil {
				return err
			}
			a.printf("%s\t%s\n", typeName(v), out)
			return nil
		},
	}
}

// fieldsOutput is the YAML shape printed by the fields command.
type fieldsOutput struct {
	Calendar     string  `yaml:"calendar"`
	Year         int     `yaml:"year"`
	Month        int     `yaml:"month"`
	MonthCode    string  `yaml:"month_code"`
	Day          int     `yaml:"day"`
	Era          string  `yaml:"era,omitempty"`
	EraYear      *int    `yaml:"era_year,omitempty"`
	DayOfWeek    int     `yaml:"day_of_week"`
	DayOfYear    int     `yaml:"day_of_year"`
	DaysInMonth  int     `yaml:"days_in_month"`
	DaysInYear   int     `yaml:"days_in_year"`
	MonthsInYear int     `yaml:"months_in_year"`
	InLeapYear   bool    `yaml:"in_leap_year"`
	Offset       *string `yaml:"offset,omitempty"`
	HoursInDay   *string `yaml:"hours_in_day,omitempty"`
}

func (a *app) fields(value string) (fieldsOutput, error) {
	p, err := a.parsePoint(value)
	if err != nil {
		return fieldsOutput{}, err
	}
	var (
		date civiltime.PlainDate
		out  fieldsOutput
	)
	switch v := p.(type) {
	case civiltime.PlainDate:
		date = v
	case civiltime.PlainDateTime:
		date = v.Date()
	case civiltime.ZonedDateTime:
		dt, err := a.engine.PlainDateTimeOf(v)
		if err != nil {
			return fieldsOutput{}, err
		}
		date = dt.Date()
		offset, err := a.engine.OffsetNanoseconds(v)
		if err != nil {
			return fieldsOutput{}, err
		}
		hours, err := a.engine.HoursInDay(v)
		if err != nil {
			return fieldsOutput{}, err
		}
		o := offsetString(offset)
		h := hours.String()
		out.Offset, out.HoursInDay = &o, &h
	default:
		return fieldsOutput{}, fmt.Errorf("%s has no calendar fields", typeName(p))
	}
	f, err := a.engine.CalendarFields(date)
	if err != nil {
		return fieldsOutput{}, err
	}
	out.Calendar = civiltime.ISO8601
	if date.Calendar != "" {
		out.Calendar = date.Calendar
	}
	out.Year, out.Month, out.MonthCode, out.Day = f.Year, f.Month, f.MonthCode, f.Day
	if f.Era != "" {
		out.Era, out.EraYear = f.Era, &f.EraYear
	}
	out.DayOfWeek, out.DayOfYear = f.DayOfWeek, f.DayOfYear
	out.DaysInMonth, out.DaysInYear = f.DaysInMonth, f.DaysInYear
	out.MonthsInYear, out.InLeapYear = f.MonthsInYear, f.InLeapYear
	return out, nil
}

func (a *app) newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields VALUE",
		Short: "Print the calendar fields of a date as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			out, err := a.fields(args[0])
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(a.out)
			enc.SetIndent(2)
			if err := enc.Encode(out); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func (a *app) newCalendarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendars",
		Short: "List the built-in calendar identifiers",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, id := range civiltime.CalendarIDs() {
				a.printf("%s\n", id)
			}
			return nil
		},
	}
}
