package civiltime

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	yearPattern     = `(?P<year>[+-]\d{6}|\d{4})`
	fractionPattern = `(?:[.,](?P<fraction>\d{1,9}))?`
	timePattern     = `(?P<hour>\d{2})(?::?(?P<minute>\d{2})(?::?(?P<second>\d{2})` + fractionPattern + `)?)?`
	offsetPattern   = `(?P<zulu>[Zz])|(?P<offset>[+-]\d{2}(?::?\d{2}(?::?\d{2}(?:[.,]\d{1,9})?)?)?)`
	annotations     = `(?P<annotations>(?:\[[^\[\]]*\])*)`
)

var (
	dateTimeRE = regexp.MustCompile(`^` + yearPattern + `-?(?P<month>\d{2})-?(?P<day>\d{2})` +
		`(?:[Tt ]` + timePattern + `)?(?:` + offsetPattern + `)?` + annotations + `$`)

	timeOnlyRE      = regexp.MustCompile(`^[Tt]?` + timePattern + `(?:` + offsetPattern + `)?` + annotations + `$`)
	yearMonthRE     = regexp.MustCompile(`^` + yearPattern + `-?(?P<month>\d{2})` + annotations + `$`)
	offsetRE        = regexp.MustCompile(`^([+-])(\d{2})(?::?(\d{2})(?::?(\d{2})(?:[.,](\d{1,9}))?)?)?$`)
	annotationRE    = regexp.MustCompile(`\[(!)?([^\[\]=]*)(?:=([^\[\]]*))?\]`)
	annotationKeyRE = regexp.MustCompile(`^[a-z_][a-z0-9_-]*$`)
	monthDayRE      = regexp.MustCompile(`^(?:--)?(\d{2})-?(\d{2})` + annotations + `$`)

	durationRE = regexp.MustCompile(`^(?i)(?P<sign>[+-])?P` +
		`(?:(?P<years>\d+)Y)?(?:(?P<months>\d+)M)?(?:(?P<weeks>\d+)W)?(?:(?P<days>\d+)D)?` +
		`(?:(?P<t>T)(?:(?P<hours>\d+)(?:[.,](?P<hfrac>\d{1,9}))?H)?` +
		`(?:(?P<minutes>\d+)(?:[.,](?P<mfrac>\d{1,9}))?M)?` +
		`(?:(?P<seconds>\d+)(?:[.,](?P<sfrac>\d{1,9}))?S)?)?$`)
)

// submatches returns the named groups of re in s, or nil on no match.
func submatches(re *regexp.Regexp, s string) map[string]string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for i, name := range re.SubexpNames() {
		if name != "" {
			out[name] = m[i]
		}
	}
	return out
}

// parsed holds the fields of an ISO 8601 string before validation.
type parsed struct {
	year, month, day int
	hasDate          bool
	hasTime          bool
	time             ISOTime
	zulu             bool
	hasOffset        bool
	offset           int64
	// offsetMinutes is set when the offset was written without seconds.
	offsetMinutes    bool
	timeZone         string
	calendar         string
}

func (p parsed) dateTime() ISODateTime {
	return ISODateTime{ISODate: ISODate{Year: p.year, Month: p.month, Day: p.day}, ISOTime: p.time}
}

func parseYear(op, s, input string) (int, error) {
	if s == "-000000" {
		return 0, syntaxErrorf(op, "negative zero year in %q", input)
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, syntaxErrorf(op, "invalid year in %q", input)
	}
	return y, nil
}

// atoi converts a group the regexp has already restricted to digits.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// fractionNanos scales a fraction of up to nine digits to nanoseconds.
func fractionNanos(s string) int64 {
	if s == "" {
		return 0
	}
	n, _ := strconv.ParseInt(s+strings.Repeat("0", 9-len(s)), 10, 64)
	return n
}

func parseTimeGroups(op, input string, g map[string]string) (ISOTime, error) {
	t := ISOTime{Hour: atoi(g["hour"]), Minute: atoi(g["minute"]), Second: atoi(g["second"])}
	ns := fractionNanos(g["fraction"])
	t.Millisecond = int(ns / nanoInMilli)
	t.Microsecond = int(ns % nanoInMilli / nanoInMicro)
	t.Nanosecond = int(ns % nanoInMicro)
	if t.Second == 60 {
		t.Second = 59
	}
	if t.Hour > 23 || t.Minute > 59 || t.Second > 59 {
		return ISOTime{}, rangeErrorf(op, "time out of range in %q", input)
	}
	return t, nil
}

func parseZoneGroups(op, input string, g map[string]string, p *parsed) error {
	if g["zulu"] != "" {
		p.zulu = true
	}
	if s := g["offset"]; s != "" {
		off, err := parseOffset(s)
		if err != nil {
			return withOp(err, op)
		}
		p.hasOffset, p.offset = true, off
		p.offsetMinutes = offsetRE.FindStringSubmatch(s)[4] == ""
	}
	return parseAnnotations(op, input, g["annotations"], p)
}

// parseAnnotations reads a time zone annotation, which must come first,
// and key-value annotations. Only u-ca is understood; other keys are
// ignored unless marked critical.
func parseAnnotations(op, input, s string, p *parsed) error {
	calendars := 0
	criticalCalendar := false
	for i, m := range annotationRE.FindAllStringSubmatch(s, -1) {
		critical, key, value := m[1] != "", m[2], m[3]
		if !strings.Contains(m[0], "=") {
			if i != 0 || key == "" {
				return syntaxErrorf(op, "misplaced time zone annotation in %q", input)
			}
			p.timeZone = key
			continue
		}
		if !annotationKeyRE.MatchString(key) || value == "" {
			return syntaxErrorf(op, "invalid annotation %s in %q", m[0], input)
		}
		switch key {
		case "u-ca":
			if calendars == 0 {
				p.calendar = value
			}
			calendars++
			criticalCalendar = criticalCalendar || critical
		default:
			if critical {
				return syntaxErrorf(op, "unsupported critical annotation %s in %q", m[0], input)
			}
		}
	}
	if calendars > 1 && criticalCalendar {
		return syntaxErrorf(op, "conflicting calendar annotations in %q", input)
	}
	return nil
}

// parseDateTimeString parses a date with an optional time, offset and
// annotations.
func parseDateTimeString(op, s string) (parsed, error) {
	g := submatches(dateTimeRE, s)
	if g == nil {
		return parsed{}, syntaxErrorf(op, "invalid date-time %q", s)
	}
	var p parsed
	year, err := parseYear(op, g["year"], s)
	if err != nil {
		return parsed{}, err
	}
	p.year, p.month, p.day, p.hasDate = year, atoi(g["month"]), atoi(g["day"]), true
	if g["hour"] != "" {
		p.hasTime = true
		if p.time, err = parseTimeGroups(op, s, g); err != nil {
			return parsed{}, err
		}
	}
	if err := parseZoneGroups(op, s, g, &p); err != nil {
		return parsed{}, err
	}
	if (p.zulu || p.hasOffset) && !p.hasTime {
		return parsed{}, syntaxErrorf(op, "offset without a time in %q", s)
	}
	return p, nil
}

// parseOffset parses a UTC offset such as "+05:30", "-0800" or
// "+01:00:00.5".
func parseOffset(s string) (int64, error) {
	m := offsetRE.FindStringSubmatch(s)
	if m == nil {
		return 0, syntaxErrorf("", "invalid offset %q", s)
	}
	h, mi, sec := atoi(m[2]), atoi(m[3]), atoi(m[4])
	if h > 23 || mi > 59 || sec > 59 {
		return 0, rangeErrorf("", "offset %q out of range", s)
	}
	n := int64(h)*nanoInHour + int64(mi)*nanoInMinute + int64(sec)*nanoInSecond + fractionNanos(m[5])
	if m[1] == "-" {
		n = -n
	}
	return n, nil
}

// calendarFor validates the calendar annotation of p.
func (e *Engine) calendarFor(op string, p parsed) (string, error) {
	if p.calendar == "" {
		return "", nil
	}
	c, err := e.LookupCalendar(p.calendar)
	if err != nil {
		return "", withOp(err, op)
	}
	if c.ID() == ISO8601 {
		return "", nil
	}
	return c.ID(), nil
}

// ParsePlainDate parses an ISO 8601 date such as "2024-03-10" or
// "2024-03-10[u-ca=hebrew]". A time part is accepted and dropped.
func (e *Engine) ParsePlainDate(s string) (PlainDate, error) {
	const op = "ParsePlainDate"
	p, err := parseDateTimeString(op, s)
	if err != nil {
		return PlainDate{}, err
	}
	if p.zulu {
		return PlainDate{}, rangeErrorf(op, "UTC designator not allowed in %q", s)
	}
	date, err := regulateISODate(op, p.year, p.month, p.day, Reject)
	if err != nil {
		return PlainDate{}, err
	}
	if date, err = checkISODate(op, date); err != nil {
		return PlainDate{}, err
	}
	cal, err := e.calendarFor(op, p)
	if err != nil {
		return PlainDate{}, err
	}
	return PlainDate{ISO: date, Calendar: cal}, nil
}

// withOpRename replaces the Op of a parse error raised by a helper parse.
func withOpRename(err error, op string) error {
	var pe *Error
	if errors.As(err, &pe) {
		pe.Op = op
	}
	return err
}

// ParsePlainDateTime parses an ISO 8601 date-time. UTC designators are
// rejected because a plain value has no exact time; an offset or time
// zone annotation is ignored.
func (e *Engine) ParsePlainDateTime(s string) (PlainDateTime, error) {
	const op = "ParsePlainDateTime"
	p, err := parseDateTimeString(op, s)
	if err != nil {
		return PlainDateTime{}, err
	}
	if p.zulu {
		return PlainDateTime{}, rangeErrorf(op, "UTC designator not allowed in %q", s)
	}
	date, err := regulateISODate(op, p.year, p.month, p.day, Reject)
	if err != nil {
		return PlainDateTime{}, err
	}
	dt, err := checkISODateTime(op, ISODateTime{ISODate: date, ISOTime: p.time})
	if err != nil {
		return PlainDateTime{}, err
	}
	cal, err := e.calendarFor(op, p)
	if err != nil {
		return PlainDateTime{}, err
	}
	return PlainDateTime{ISO: dt, Calendar: cal}, nil
}

// ParsePlainTime parses a time such as "10:30", "T103000.5" or the time
// part of a date-time.
func (e *Engine) ParsePlainTime(s string) (PlainTime, error) {
	const op = "ParsePlainTime"
	var p parsed
	if g := submatches(timeOnlyRE, s); g != nil && !ambiguousTime(s) {
		t, err := parseTimeGroups(op, s, g)
		if err != nil {
			return PlainTime{}, err
		}
		p.hasTime, p.time = true, t
		if err := parseZoneGroups(op, s, g, &p); err != nil {
			return PlainTime{}, err
		}
	} else {
		var err error
		if p, err = parseDateTimeString(op, s); err != nil {
			return PlainTime{}, err
		}
		if !p.hasTime {
			return PlainTime{}, syntaxErrorf(op, "missing time in %q", s)
		}
		if _, err := regulateISODate(op, p.year, p.month, p.day, Reject); err != nil {
			return PlainTime{}, err
		}
	}
	if p.zulu {
		return PlainTime{}, rangeErrorf(op, "UTC designator not allowed in %q", s)
	}
	if _, err := e.calendarFor(op, p); err != nil {
		return PlainTime{}, err
	}
	return PlainTime{ISO: p.time}, nil
}

// ambiguousTime reports whether s, lacking a T prefix, also reads as a
// valid year-month or month-day.
func ambiguousTime(s string) bool {
	if s[0] == 'T' || s[0] == 't' {
		return false
	}
	if g := submatches(yearMonthRE, s); g != nil {
		if m := atoi(g["month"]); m >= 1 && m <= 12 {
			return true
		}
	}
	if m := monthDayRE.FindStringSubmatch(s); m != nil {
		month, day := atoi(m[1]), atoi(m[2])
		return month >= 1 && month <= 12 && day >= 1 && day <= isoDaysInMonth(1972, month)
	}
	return false
}

// ParsePlainYearMonth parses "2024-03" for ISO months, or a full date
// whose calendar month is taken for other calendars.
func (e *Engine) ParsePlainYearMonth(s string) (PlainYearMonth, error) {
	const op = "ParsePlainYearMonth"
	if g := submatches(yearMonthRE, s); g != nil {
		var p parsed
		year, err := parseYear(op, g["year"], s)
		if err != nil {
			return PlainYearMonth{}, err
		}
		if err := parseAnnotations(op, s, g["annotations"], &p); err != nil {
			return PlainYearMonth{}, err
		}
		cal, err := e.calendarFor(op, p)
		if err != nil {
			return PlainYearMonth{}, err
		}
		if cal != "" {
			return PlainYearMonth{}, rangeErrorf(op, "calendar %s needs a reference day in %q", cal, s)
		}
		date, err := regulateISODate(op, year, atoi(g["month"]), 1, Reject)
		if err != nil {
			return PlainYearMonth{}, err
		}
		if _, err := checkISODate(op, date); err != nil {
			return PlainYearMonth{}, err
		}
		return PlainYearMonth{ISO: date}, nil
	}
	dt, err := e.ParsePlainDateTime(s)
	if err != nil {
		return PlainYearMonth{}, withOpRename(err, op)
	}
	return e.NewPlainYearMonth(dt.ISO.ISODate, dt.Calendar)
}

// ParsePlainMonthDay parses "12-25", "--12-25" or "1225" for ISO
// month-days, or a full date whose calendar month code and day are taken.
func (e *Engine) ParsePlainMonthDay(s string) (PlainMonthDay, error) {
	const op = "ParsePlainMonthDay"
	if m := monthDayRE.FindStringSubmatch(s); m != nil {
		var p parsed
		if err := parseAnnotations(op, s, m[3], &p); err != nil {
			return PlainMonthDay{}, err
		}
		cal, err := e.calendarFor(op, p)
		if err != nil {
			return PlainMonthDay{}, err
		}
		if cal != "" {
			return PlainMonthDay{}, rangeErrorf(op, "calendar %s needs a reference year in %q", cal, s)
		}
		date, err := regulateISODate(op, monthDayReferenceEnd.Year, atoi(m[1]), atoi(m[2]), Reject)
		if err != nil {
			return PlainMonthDay{}, err
		}
		return PlainMonthDay{ISO: date}, nil
	}
	dt, err := e.ParsePlainDateTime(s)
	if err != nil {
		return PlainMonthDay{}, withOpRename(err, op)
	}
	md, err := e.MonthDayOf(dt.Date())
	if err != nil {
		return PlainMonthDay{}, withOpRename(err, op)
	}
	return md, nil
}

// ParseInstant parses a date-time with a Z designator or an offset.
func (e *Engine) ParseInstant(s string) (Instant, error) {
	const op = "ParseInstant"
	p, err := parseDateTimeString(op, s)
	if err != nil {
		return Instant{}, err
	}
	if !p.zulu && !p.hasOffset {
		return Instant{}, rangeErrorf(op, "missing UTC offset in %q", s)
	}
	if _, err := regulateISODate(op, p.year, p.month, p.day, Reject); err != nil {
		return Instant{}, err
	}
	if _, err := e.calendarFor(op, p); err != nil {
		return Instant{}, err
	}
	epoch := p.dateTime().epochNano()
	if !p.zulu {
		epoch = epoch.AddNanos(-p.offset)
	}
	if _, err := checkEpochNano(op, epoch); err != nil {
		return Instant{}, err
	}
	return Instant{Epoch: epoch}, nil
}

// ZonedOptions controls how a local time resolves to an instant.
type ZonedOptions struct {
	// Disambiguation picks among repeated or skipped local times.
	Disambiguation Disambiguation
	// Offset decides what an explicit offset that disagrees with the time
	// zone means. The zero value rejects such strings.
	Offset OffsetPolicy
}

// ParseZonedDateTime parses a date-time with a bracketed time zone, such
// as "2024-03-10T03:30-04:00[America/New_York]". A date alone means the
// start of that day.
func (e *Engine) ParseZonedDateTime(s string, opts ZonedOptions) (ZonedDateTime, error) {
	const op = "ParseZonedDateTime"
	p, err := parseDateTimeString(op, s)
	if err != nil {
		return ZonedDateTime{}, err
	}
	if p.timeZone == "" {
		return ZonedDateTime{}, typeErrorf(op, "missing time zone annotation in %q", s)
	}
	tz, err := e.LookupTimeZone(p.timeZone)
	if err != nil {
		return ZonedDateTime{}, withOp(err, op)
	}
	cal, err := e.calendarFor(op, p)
	if err != nil {
		return ZonedDateTime{}, err
	}
	date, err := regulateISODate(op, p.year, p.month, p.day, Reject)
	if err != nil {
		return ZonedDateTime{}, err
	}
	dt, err := checkISODateTime(op, ISODateTime{ISODate: date, ISOTime: p.time})
	if err != nil {
		return ZonedDateTime{}, err
	}

	var epoch DayTimeNano
	switch {
	case p.zulu:
		epoch, err = checkEpochNano(op, dt.epochNano())
	case !p.hasTime:
		epoch, _, err = dayBounds(op, tz, date)
	default:
		epoch, err = instantForOffset(op, tz, dt, p.offset, p.hasOffset, p.offsetMinutes, opts.Disambiguation, opts.Offset)
	}
	if err != nil {
		return ZonedDateTime{}, err
	}
	return ZonedDateTime{Epoch: epoch, TimeZone: tz.ID(), Calendar: cal}, nil
}

// ParseDuration parses an ISO 8601 duration such as "P1Y2M3DT4H5M6.5S" or
// "-PT1.5H". Only the last time component may have a fraction, which is
// spread over the smaller components.
func (e *Engine) ParseDuration(s string) (Duration, error) {
	return ParseDuration(s)
}

// ParseDuration parses an ISO 8601 duration. See [Engine.ParseDuration].
func ParseDuration(s string) (Duration, error) {
	const op = "ParseDuration"
	g := submatches(durationRE, s)
	if g == nil {
		return Duration{}, syntaxErrorf(op, "invalid duration %q", s)
	}
	dateGiven := g["years"] != "" || g["months"] != "" || g["weeks"] != "" || g["days"] != ""
	timeGiven := g["hours"] != "" || g["minutes"] != "" || g["seconds"] != ""
	if (!dateGiven && !timeGiven) || (g["t"] != "" && !timeGiven) {
		return Duration{}, syntaxErrorf(op, "invalid duration %q", s)
	}
	if (g["hfrac"] != "" && (g["minutes"] != "" || g["seconds"] != "")) ||
		(g["mfrac"] != "" && g["seconds"] != "") {
		return Duration{}, syntaxErrorf(op, "fraction on a non-final component in %q", s)
	}

	var d Duration
	for _, f := range [...]struct {
		group string
		unit  Unit
	}{
		{"years", Year}, {"months", Month}, {"weeks", Week}, {"days", Day},
		{"hours", Hour}, {"minutes", Minute}, {"seconds", Second},
	} {
		if g[f.group] == "" {
			continue
		}
		v, err := strconv.ParseInt(g[f.group], 10, 64)
		if err != nil {
			return Duration{}, rangeErrorf(op, "%s out of range in %q", f.unit, s)
		}
		d = d.with(f.unit, v)
	}

	// Spread the fraction of the last time component over smaller units.
	var fracNanos int64
	switch {
	case g["hfrac"] != "":
		fracNanos = fractionNanos(g["hfrac"]) * (nanoInHour / nanoInSecond)
		d.Minutes = fracNanos / nanoInMinute
		fracNanos %= nanoInMinute
	case g["mfrac"] != "":
		fracNanos = fractionNanos(g["mfrac"]) * (nanoInMinute / nanoInSecond)
	case g["sfrac"] != "":
		fracNanos = fractionNanos(g["sfrac"])
	}
	if g["sfrac"] == "" {
		d.Seconds += fracNanos / nanoInSecond
		fracNanos %= nanoInSecond
	}
	d.Milliseconds = fracNanos / nanoInMilli
	d.Microseconds = fracNanos % nanoInMilli / nanoInMicro
	d.Nanoseconds = fracNanos % nanoInMicro

	if g["sign"] == "-" {
		d = d.Negated()
	}
	if err := d.Validate(); err != nil {
		return Duration{}, withOp(err, op)
	}
	return d, nil
}
