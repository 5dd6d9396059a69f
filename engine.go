// Package civiltime provides calendar-aware civil time arithmetic: adding
// durations to dates, date-times and zoned values, measuring the duration
// between two of them, and rounding the results.
//
// Dates are held as proleptic ISO 8601 fields and viewed through a
// [Calendar], so month and year arithmetic follows the calendar's own
// months (Hebrew leap months, 13-month Coptic years) while the underlying
// day count stays exact. Zoned values resolve local times through a
// [TimeZone], disambiguating repeated and skipped wall-clock times.
//
// Basic usage with package-level functions:
//
//	d, _ := civiltime.ParsePlainDate("2021-01-31")
//	next, _ := civiltime.Add(d, civiltime.Duration{Months: 1}, civiltime.Constrain)
//	next.String() // "2021-02-28"
//
//	end, _ := civiltime.ParsePlainDate("2021-03-01")
//	dur, _ := civiltime.Until(d, end, civiltime.DiffOptions{LargestUnit: civiltime.Month})
//	dur.String() // "P1M1D"
//
// For isolated custom calendars and time zones, create an Engine:
//
//	e := civiltime.New()
//	e.RegisterTimeZone(myZone)
package civiltime

import (
	"sync"
	"time"

	"github.com/govalues/decimal"
	"golang.org/x/sync/singleflight"
)

// Engine resolves calendar and time zone identifiers and runs every
// operation against them. Create one with [New]. All methods are safe for
// concurrent use.
type Engine struct {
	mu              sync.RWMutex
	customCalendars map[string]Calendar
	calendarCache   map[string]Calendar
	customZones     map[string]TimeZone
	zoneCache       map[string]TimeZone
	loads           singleflight.Group
	now             func() time.Time
}

// New creates an Engine backed by the built-in calendars and the system
// time zone database.
func New() *Engine {
	return &Engine{
		customCalendars: make(map[string]Calendar),
		calendarCache:   make(map[string]Calendar),
		customZones:     make(map[string]TimeZone),
		zoneCache:       make(map[string]TimeZone),
	}
}

// defaultEngine is the engine used by top-level functions.
var defaultEngine = New()

// Default returns the engine used by the package-level functions.
func Default() *Engine { return defaultEngine }

// storedCalendar returns the identifier a value keeps for c. ISO 8601 is
// stored as the empty string.
func storedCalendar(c Calendar) string {
	if c.ID() == ISO8601 {
		return ""
	}
	return c.ID()
}

// NewPlainDate validates iso and cal.
func (e *Engine) NewPlainDate(iso ISODate, cal string) (PlainDate, error) {
	const op = "NewPlainDate"
	c, err := e.LookupCalendar(cal)
	if err != nil {
		return PlainDate{}, withOp(err, op)
	}
	d, err := regulateISODate(op, iso.Year, iso.Month, iso.Day, Reject)
	if err != nil {
		return PlainDate{}, err
	}
	if d, err = checkISODate(op, d); err != nil {
		return PlainDate{}, err
	}
	return PlainDate{ISO: d, Calendar: storedCalendar(c)}, nil
}

// NewPlainDateTime validates iso and cal.
func (e *Engine) NewPlainDateTime(iso ISODateTime, cal string) (PlainDateTime, error) {
	const op = "NewPlainDateTime"
	c, err := e.LookupCalendar(cal)
	if err != nil {
		return PlainDateTime{}, withOp(err, op)
	}
	d, err := regulateISODate(op, iso.Year, iso.Month, iso.Day, Reject)
	if err != nil {
		return PlainDateTime{}, err
	}
	t, err := regulateISOTime(op, iso.ISOTime, Reject)
	if err != nil {
		return PlainDateTime{}, err
	}
	dt, err := checkISODateTime(op, ISODateTime{ISODate: d, ISOTime: t})
	if err != nil {
		return PlainDateTime{}, err
	}
	return PlainDateTime{ISO: dt, Calendar: storedCalendar(c)}, nil
}

// NewPlainYearMonth returns the calendar month of cal that contains iso.
func (e *Engine) NewPlainYearMonth(iso ISODate, cal string) (PlainYearMonth, error) {
	const op = "NewPlainYearMonth"
	d, err := e.NewPlainDate(iso, cal)
	if err != nil {
		return PlainYearMonth{}, withOpRename(err, op)
	}
	c, err := e.LookupCalendar(cal)
	if err != nil {
		return PlainYearMonth{}, withOp(err, op)
	}
	first, err := firstOfMonth(c, d.ISO)
	if err != nil {
		return PlainYearMonth{}, withOp(err, op)
	}
	return PlainYearMonth{ISO: first, Calendar: d.Calendar}, nil
}

// NewZonedDateTime validates epoch, tz and cal.
func (e *Engine) NewZonedDateTime(epoch DayTimeNano, tz, cal string) (ZonedDateTime, error) {
	const op = "NewZonedDateTime"
	epoch, err := checkEpochNano(op, epoch)
	if err != nil {
		return ZonedDateTime{}, err
	}
	zone, err := e.LookupTimeZone(tz)
	if err != nil {
		return ZonedDateTime{}, withOp(err, op)
	}
	c, err := e.LookupCalendar(cal)
	if err != nil {
		return ZonedDateTime{}, withOp(err, op)
	}
	return ZonedDateTime{Epoch: epoch, TimeZone: zone.ID(), Calendar: storedCalendar(c)}, nil
}

// ZonedFromDateTime resolves the wall-clock time dt in tz.
func (e *Engine) ZonedFromDateTime(dt PlainDateTime, tz string, disambiguation Disambiguation) (ZonedDateTime, error) {
	const op = "ZonedFromDateTime"
	zone, err := e.LookupTimeZone(tz)
	if err != nil {
		return ZonedDateTime{}, withOp(err, op)
	}
	iso, err := checkISODateTime(op, dt.ISO)
	if err != nil {
		return ZonedDateTime{}, err
	}
	epoch, err := singleInstantFor(op, zone, iso, disambiguation)
	if err != nil {
		return ZonedDateTime{}, err
	}
	return ZonedDateTime{Epoch: epoch, TimeZone: zone.ID(), Calendar: dt.Calendar}, nil
}

// PlainDateTimeOf returns the wall-clock time of z.
func (e *Engine) PlainDateTimeOf(z ZonedDateTime) (PlainDateTime, error) {
	zone, err := e.LookupTimeZone(z.TimeZone)
	if err != nil {
		return PlainDateTime{}, withOp(err, "PlainDateTimeOf")
	}
	return PlainDateTime{ISO: localDateTime(zone, z.Epoch), Calendar: z.Calendar}, nil
}

// OffsetNanoseconds returns the UTC offset in effect at z.
func (e *Engine) OffsetNanoseconds(z ZonedDateTime) (int64, error) {
	zone, err := e.LookupTimeZone(z.TimeZone)
	if err != nil {
		return 0, withOp(err, "OffsetNanoseconds")
	}
	return zone.OffsetNanosecondsFor(z.Epoch), nil
}

// StartOfDay returns the first instant of z's local day, which is not
// midnight when a transition skips it.
func (e *Engine) StartOfDay(z ZonedDateTime) (ZonedDateTime, error) {
	const op = "StartOfDay"
	zone, err := e.LookupTimeZone(z.TimeZone)
	if err != nil {
		return ZonedDateTime{}, withOp(err, op)
	}
	start, _, err := dayBounds(op, zone, localDateTime(zone, z.Epoch).ISODate)
	if err != nil {
		return ZonedDateTime{}, err
	}
	z.Epoch = start
	return z, nil
}

// HoursInDay returns the length of z's local day in hours, such as 23 or
// 25 on a daylight saving transition.
func (e *Engine) HoursInDay(z ZonedDateTime) (decimal.Decimal, error) {
	const op = "HoursInDay"
	zone, err := e.LookupTimeZone(z.TimeZone)
	if err != nil {
		return decimal.Decimal{}, withOp(err, op)
	}
	start, end, err := dayBounds(op, zone, localDateTime(zone, z.Epoch).ISODate)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return ratToDecimal(op, bigRatOf(end.Sub(start), DayTimeNano{}.AddNanos(nanoInHour)))
}

// DateFields names a date in a calendar's own terms. Year may be given
// directly or as Era and EraYear; Month as an ordinal or as a MonthCode
// such as "M05L". When both forms are given they must agree.
type DateFields struct {
	Era       string
	EraYear   *int
	Year      *int
	Month     int
	MonthCode string
	Day       int
}

// DateFromFields builds a date of calendar cal from fields. Out-of-range
// months and days are clamped or rejected according to overflow.
func (e *Engine) DateFromFields(cal string, f DateFields, overflow Overflow) (PlainDate, error) {
	const op = "DateFromFields"
	fc, err := e.fieldCalendarFor(op, cal)
	if err != nil {
		return PlainDate{}, err
	}
	year, ok, err := fieldYear(op, fc, f)
	if err != nil {
		return PlainDate{}, err
	}
	if !ok {
		return PlainDate{}, typeErrorf(op, "year is required")
	}

	month := f.Month
	if f.MonthCode != "" {
		code, leap, err := ParseMonthCode(f.MonthCode)
		if err != nil {
			return PlainDate{}, withOpRename(err, op)
		}
		m, exact := fc.monthForCode(year, code, leap)
		if !exact && overflow == Reject {
			return PlainDate{}, rangeErrorf(op, "month %s does not exist in year %d", f.MonthCode, year)
		}
		if f.Month != 0 && f.Month != m {
			return PlainDate{}, rangeErrorf(op, "month %d disagrees with month code %s", f.Month, f.MonthCode)
		}
		month = m
	}
	if month == 0 {
		return PlainDate{}, typeErrorf(op, "month or monthCode is required")
	}
	if f.Day == 0 {
		return PlainDate{}, typeErrorf(op, "day is required")
	}
	d, err := fc.dateFromParts(op, year, month, f.Day, overflow)
	if err != nil {
		return PlainDate{}, err
	}
	return PlainDate{ISO: d, Calendar: storedCalendar(fc)}, nil
}

// fieldCalendarFor resolves cal to a calendar that can build dates from
// calendar-native fields.
func (e *Engine) fieldCalendarFor(op, cal string) (fieldCalendar, error) {
	c, err := e.LookupCalendar(cal)
	if err != nil {
		return nil, withOp(err, op)
	}
	fc, ok := c.(fieldCalendar)
	if !ok {
		return nil, typeErrorf(op, "calendar %s cannot build dates from fields", c.ID())
	}
	return fc, nil
}

// fieldYear resolves the calendar year named by f. ok is false when f
// names no year at all.
func fieldYear(op string, fc fieldCalendar, f DateFields) (year int, ok bool, err error) {
	switch {
	case f.Era != "" && f.EraYear != nil:
		y, known := fc.yearFromEra(f.Era, *f.EraYear)
		if !known {
			return 0, false, rangeErrorf(op, "unknown era %q for calendar %s", f.Era, fc.ID())
		}
		if f.Year != nil && *f.Year != y {
			return 0, false, rangeErrorf(op, "year %d disagrees with era year %s %d", *f.Year, f.Era, *f.EraYear)
		}
		return y, true, nil
	case f.Era != "" || f.EraYear != nil:
		return 0, false, typeErrorf(op, "era and eraYear must be given together")
	case f.Year != nil:
		return *f.Year, true, nil
	}
	return 0, false, nil
}

// CalendarDate is a date described in its calendar's terms.
type CalendarDate struct {
	Year         int
	Month        int
	MonthCode    string
	Day          int
	Era          string // empty for calendars without eras
	EraYear      int
	DayOfWeek    int    // 1 is Monday
	DayOfYear    int
	DaysInMonth  int
	DaysInYear   int
	MonthsInYear int
	InLeapYear   bool
}

// CalendarFields describes d in its own calendar.
func (e *Engine) CalendarFields(d PlainDate) (CalendarDate, error) {
	c, err := e.LookupCalendar(d.Calendar)
	if err != nil {
		return CalendarDate{}, withOp(err, "CalendarFields")
	}
	y, m, day := c.DateParts(d.ISO)
	code, leap := c.MonthCodeParts(y, m)
	_, weekday := floorDivMod(d.ISO.epochDays()+3, 7)
	out := CalendarDate{
		Year:         y,
		Month:        m,
		MonthCode:    FormatMonthCode(code, leap),
		Day:          day,
		DayOfWeek:    int(weekday) + 1,
		DaysInMonth:  c.DaysInMonth(y, m),
		MonthsInYear: c.MonthsInYear(y),
		InLeapYear:   c.InLeapYear(y),
	}
	if era, eraYear, ok := c.Era(d.ISO); ok {
		out.Era, out.EraYear = era, eraYear
	}
	for month := 1; month <= out.MonthsInYear; month++ {
		n := c.DaysInMonth(y, month)
		out.DaysInYear += n
		if month < m {
			out.DayOfYear += n
		}
	}
	out.DayOfYear += day
	return out, nil
}

// --- Package-level convenience functions ---

// Add moves p by d on the default engine.
func Add[P Point](p P, d Duration, overflow Overflow) (P, error) {
	out, err := defaultEngine.Move(p, d, overflow)
	if err != nil {
		var zero P
		return zero, err
	}
	return out.(P), nil
}

// Subtract moves p back by d on the default engine.
func Subtract[P Point](p P, d Duration, overflow Overflow) (P, error) {
	return Add(p, d.Negated(), overflow)
}

// Until returns the duration from p0 to p1 on the default engine.
func Until[P Point](p0, p1 P, opts DiffOptions) (Duration, error) {
	return defaultEngine.Until(p0, p1, opts)
}

// Since returns the duration from p1 to p0 on the default engine.
func Since[P Point](p0, p1 P, opts DiffOptions) (Duration, error) {
	return defaultEngine.Since(p0, p1, opts)
}

// RoundDuration rounds d on the default engine.
func RoundDuration(d Duration, opts RoundOptions) (Duration, error) {
	return defaultEngine.RoundDuration(d, opts)
}

// LookupCalendar returns a calendar of the default engine.
func LookupCalendar(id string) (Calendar, error) { return defaultEngine.LookupCalendar(id) }

// LookupTimeZone returns a time zone of the default engine.
func LookupTimeZone(id string) (TimeZone, error) { return defaultEngine.LookupTimeZone(id) }

// RegisterCalendar adds a custom calendar to the default engine.
func RegisterCalendar(c Calendar) { defaultEngine.RegisterCalendar(c) }

// RegisterTimeZone adds a custom time zone to the default engine.
func RegisterTimeZone(tz TimeZone) { defaultEngine.RegisterTimeZone(tz) }

// ParsePlainMonthDay parses an ISO 8601 month-day on the default engine.
func ParsePlainMonthDay(s string) (PlainMonthDay, error) { return defaultEngine.ParsePlainMonthDay(s) }

// ParsePlainDate parses an ISO 8601 date on the default engine.
func ParsePlainDate(s string) (PlainDate, error) { return defaultEngine.ParsePlainDate(s) }

// ParsePlainDateTime parses an ISO 8601 date-time on the default engine.
func ParsePlainDateTime(s string) (PlainDateTime, error) { return defaultEngine.ParsePlainDateTime(s) }

// ParsePlainTime parses an ISO 8601 time on the default engine.
func ParsePlainTime(s string) (PlainTime, error) { return defaultEngine.ParsePlainTime(s) }

// ParsePlainYearMonth parses an ISO 8601 year-month on the default engine.
func ParsePlainYearMonth(s string) (PlainYearMonth, error) {
	return defaultEngine.ParsePlainYearMonth(s)
}

// ParseInstant parses an ISO 8601 instant on the default engine.
func ParseInstant(s string) (Instant, error) { return defaultEngine.ParseInstant(s) }

// ParseZonedDateTime parses a zoned ISO 8601 string on the default engine.
func ParseZonedDateTime(s string, opts ZonedOptions) (ZonedDateTime, error) {
	return defaultEngine.ParseZonedDateTime(s, opts)
}
