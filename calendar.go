package civiltime

import (
	"fmt"
	"strconv"
	"strings"
)

// Calendar is the capability set the engine needs from a calendar system.
// Years, months and days are in the calendar's own numbering; months are
// ordinal positions within the year starting at 1.
type Calendar interface {
	ID() string
	DateParts(d ISODate) (year, month, day int)
	// MonthCodeParts returns a month identity that is stable across
	// leap-month insertion, e.g. (5, true) for M05L.
	MonthCodeParts(year, month int) (monthCodeNumber int, isLeapMonth bool)
	MonthsInYear(year int) int
	DaysInMonth(year, month int) int
	InLeapYear(year int) bool
	MonthAdd(year, month, delta int) (int, int)
	DateAdd(d ISODate, dur Duration, overflow Overflow) (ISODate, error)
	DateUntil(d0, d1 ISODate, largestUnit Unit) (Duration, error)
	// Era returns ok=false for calendars without eras.
	Era(d ISODate) (era string, eraYear int, ok bool)
}

// fieldCalendar is implemented by the built-in calendars, which can also
// build dates from calendar-native fields.
type fieldCalendar interface {
	Calendar
	dateFromParts(op string, year, month, day int, overflow Overflow) (ISODate, error)
	monthForCode(year, code int, leap bool) (month int, exact bool)
	yearFromEra(era string, eraYear int) (int, bool)
}

// Overflow selects how out-of-range fields are handled. The zero value is
// [Constrain].
type Overflow int

const (
	// Constrain clamps fields to the nearest valid value.
	Constrain Overflow = iota
	// Reject fails with a range error.
	Reject
)

func (o Overflow) String() string {
	if o == Reject {
		return "reject"
	}
	return "constrain"
}

// ParseOverflow parses "constrain" or "reject"; the empty string is Constrain.
func ParseOverflow(s string) (Overflow, error) {
	switch strings.ToLower(s) {
	case "", "constrain":
		return Constrain, nil
	case "reject":
		return Reject, nil
	}
	return Constrain, rangeErrorf("ParseOverflow", "invalid overflow %q", s)
}

// FormatMonthCode renders a month code such as "M03" or "M05L".
func FormatMonthCode(number int, leap bool) string {
	s := fmt.Sprintf("M%02d", number)
	if leap {
		s += "L"
	}
	return s
}

// ParseMonthCode parses a month code such as "M03" or "M05L".
func ParseMonthCode(s string) (number int, leap bool, err error) {
	if len(s) < 3 || s[0] != 'M' {
		return 0, false, rangeErrorf("ParseMonthCode", "invalid month code %q", s)
	}
	digits := s[1:]
	if strings.HasSuffix(digits, "L") {
		leap = true
		digits = strings.TrimSuffix(digits, "L")
	}
	if len(digits) != 2 {
		return 0, false, rangeErrorf("ParseMonthCode", "invalid month code %q", s)
	}
	number, convErr := strconv.Atoi(digits)
	if convErr != nil || number < 1 {
		return 0, false, rangeErrorf("ParseMonthCode", "invalid month code %q", s)
	}
	return number, leap, nil
}

// calendarArith is the arithmetic core of a built-in calendar.
type calendarArith interface {
	epochDaysFromParts(year, month, day int) int64
	partsFromEpochDays(days int64) (year, month, day int)
	// fixedMonthsInYear is 0 when the month count varies by year.
	fixedMonthsInYear() int
	monthsInYear(year int) int
	// monthsBeforeYear counts months from an arbitrary origin to the start
	// of year. Only used when the month count varies.
	monthsBeforeYear(year int) int64
	daysInMonth(year, month int) int
	inLeapYear(year int) bool
	// leapMonth is the ordinal of the leap month in year, or 0.
	leapMonth(year int) int
	era(d ISODate, year int) (string, int, bool)
	yearFromEra(era string, eraYear int) (int, bool)
}

// arithCalendar implements [Calendar] on top of a calendarArith, sharing
// one move and diff algorithm among all built-in calendars.
type arithCalendar struct {
	id string
	a  calendarArith
}

func (c *arithCalendar) ID() string { return c.id }

func (c *arithCalendar) DateParts(d ISODate) (int, int, int) {
	return c.a.partsFromEpochDays(d.epochDays())
}

func (c *arithCalendar) MonthCodeParts(year, month int) (int, bool) {
	lm := c.a.leapMonth(year)
	switch {
	case lm == 0 || month < lm:
		return month, false
	case month == lm:
		return month - 1, true
	}
	return month - 1, false
}

func (c *arithCalendar) monthForCode(year, code int, leap bool) (int, bool) {
	lm := c.a.leapMonth(year)
	if leap {
		if lm != 0 && lm == code+1 {
			return lm, true
		}
		m, _ := c.monthForCode(year, code+1, false)
		return m, false
	}
	if lm != 0 && code >= lm {
		return code + 1, true
	}
	return code, true
}

func (c *arithCalendar) MonthsInYear(year int) int { return c.a.monthsInYear(year) }

func (c *arithCalendar) DaysInMonth(year, month int) int { return c.a.daysInMonth(year, month) }

func (c *arithCalendar) InLeapYear(year int) bool { return c.a.inLeapYear(year) }

func (c *arithCalendar) Era(d ISODate) (string, int, bool) {
	year, _, _ := c.DateParts(d)
	return c.a.era(d, year)
}

func (c *arithCalendar) yearFromEra(era string, eraYear int) (int, bool) {
	return c.a.yearFromEra(era, eraYear)
}

// monthIndex returns a running month count with consecutive values for
// consecutive months.
func (c *arithCalendar) monthIndex(year, month int) int64 {
	if n := c.a.fixedMonthsInYear(); n > 0 {
		return int64(year)*int64(n) + int64(month-1)
	}
	return c.a.monthsBeforeYear(year) + int64(month-1)
}

// maxMonthAddSteps bounds the year search in MonthAdd for calendars with a
// variable month count. Each step closes at least 12/13 of the gap.
const maxMonthAddSteps = 64

func (c *arithCalendar) MonthAdd(year, month, delta int) (int, int) {
	if delta == 0 {
		return year, month
	}
	if n := int64(c.a.fixedMonthsInYear()); n > 0 {
		y, m := floorDivMod(int64(year)*n+int64(month-1)+int64(delta), n)
		return int(y), int(m) + 1
	}
	target := c.monthIndex(year, month) + int64(delta)
	y := year
	for i := 0; i < maxMonthAddSteps; i++ {
		start := c.a.monthsBeforeYear(y)
		switch {
		case target < start:
			y += int(floorDiv(target-start, 13))
		case target >= start+int64(c.a.monthsInYear(y)):
			y += max(1, int((target-start)/13))
		default:
			return y, int(target-start) + 1
		}
	}
	panic("civiltime: month addition did not converge")
}

func (c *arithCalendar) dateFromParts(op string, year, month, day int, overflow Overflow) (ISODate, error) {
	if month < 1 || day < 1 {
		return ISODate{}, rangeErrorf(op, "month and day must be positive")
	}
	if err := c.checkYear(op, year); err != nil {
		return ISODate{}, err
	}
	m, err := constrainInt(op, "month", month, 1, c.a.monthsInYear(year), overflow)
	if err != nil {
		return ISODate{}, err
	}
	d, err := constrainInt(op, "day", day, 1, c.a.daysInMonth(year, m), overflow)
	if err != nil {
		return ISODate{}, err
	}
	return isoDateFromEpochDaysChecked(op, c.a.epochDaysFromParts(year, m, d))
}

// checkYear rejects years lying wholly outside the supported date range.
// The bounds are the calendar's own years of the first and last
// representable days, so a partial year at either end passes and the
// exact day is checked afterwards.
func (c *arithCalendar) checkYear(op string, year int) error {
	lo, _, _ := c.a.partsFromEpochDays(-maxEpochDays - 1)
	hi, _, _ := c.a.partsFromEpochDays(maxEpochDays)
	if year < lo || year > hi {
		return rangeErrorf(op, "year %d out of range", year)
	}
	return nil
}

// DateAdd moves d by years, then months, clamping or rejecting the day,
// then adds weeks and days as a flat offset. Time components are folded
// into whole days, truncating toward zero.
func (c *arithCalendar) DateAdd(d ISODate, dur Duration, overflow Overflow) (ISODate, error) {
	const op = "DateAdd"
	if err := dur.Validate(); err != nil {
		return ISODate{}, withOp(err, op)
	}
	timeDays, _ := dur.timeNano().truncParts()
	days := dur.Weeks*7 + dur.Days + timeDays
	epochDays := d.epochDays()
	if dur.Years != 0 || dur.Months != 0 {
		y, m, day := c.DateParts(d)
		if dur.Years != 0 {
			code, leap := c.MonthCodeParts(y, m)
			y += int(dur.Years)
			if err := c.checkYear(op, y); err != nil {
				return ISODate{}, err
			}
			mm, exact := c.monthForCode(y, code, leap)
			if !exact && overflow == Reject {
				return ISODate{}, rangeErrorf(op, "month %s does not exist in year %d", FormatMonthCode(code, leap), y)
			}
			var err error
			if m, err = constrainInt(op, "month", mm, 1, c.a.monthsInYear(y), overflow); err != nil {
				return ISODate{}, err
			}
		}
		if dur.Months != 0 {
			y, m = c.MonthAdd(y, m, int(dur.Months))
		}
		if err := c.checkYear(op, y); err != nil {
			return ISODate{}, err
		}
		var err error
		if day, err = constrainInt(op, "day", day, 1, c.a.daysInMonth(y, m), overflow); err != nil {
			return ISODate{}, err
		}
		epochDays = c.a.epochDaysFromParts(y, m, day)
	}
	return isoDateFromEpochDaysChecked(op, epochDays+days)
}

// DateUntil returns the calendar-natural difference from d0 to d1. Units
// up to week are computed from the day count alone.
func (c *arithCalendar) DateUntil(d0, d1 ISODate, largest Unit) (Duration, error) {
	if largest <= Week {
		days := d1.epochDays() - d0.epochDays()
		if largest == Week {
			return Duration{Weeks: days / 7, Days: days % 7}, nil
		}
		return Duration{Days: days}, nil
	}
	y0, m0, day0 := c.DateParts(d0)
	y1, m1, day1 := c.DateParts(d1)
	years, months, days := c.diffYearMonthDay(y0, m0, day0, y1, m1, day1)
	if largest == Month {
		midY, midM := c.landYear(y0, m0, years)
		months += int(c.monthIndex(midY, midM) - c.monthIndex(y0, m0))
		years = 0
	}
	return Duration{Years: int64(years), Months: int64(months), Days: int64(days)}, nil
}

// landYear returns the month reached by moving (year, month) by years
// while keeping its month code, constrained to the target year.
func (c *arithCalendar) landYear(year, month, years int) (int, int) {
	if years == 0 {
		return year, month
	}
	code, leap := c.MonthCodeParts(year, month)
	y := year + years
	m, _ := c.monthForCode(y, code, leap)
	return y, min(m, c.a.monthsInYear(y))
}

// diffYearMonthDay decomposes the span between two calendar dates into
// years, months and days that never overshoot the end date. A day delta
// pointing against the overall sign steps the end month back once, and a
// month delta pointing against it then steps the year back once.
func (c *arithCalendar) diffYearMonthDay(y0, m0, d0, y1, m1, d1 int) (years, months, days int) {
	monthsFrom := func(years, y1, m1 int) int {
		midY, midM := c.landYear(y0, m0, years)
		return int(c.monthIndex(y1, m1) - c.monthIndex(midY, midM))
	}
	dayDiff := func(y1, m1 int) (int, int) {
		dim := c.a.daysInMonth(y1, m1)
		return d1 - min(d0, dim), dim
	}

	years = y1 - y0
	months = monthsFrom(years, y1, m1)
	days, dim := dayDiff(y1, m1)
	sign := signInt(years)
	if sign == 0 {
		sign = signInt(months)
	}
	if sign == 0 {
		sign = signInt(days)
	}
	if sign == 0 {
		return 0, 0, 0
	}

	if signInt(days) == -sign {
		oldDim := dim
		y1, m1 = c.MonthAdd(y1, m1, -sign)
		years = y1 - y0
		months = monthsFrom(years, y1, m1)
		days, dim = dayDiff(y1, m1)
		if sign < 0 {
			days -= oldDim
		} else {
			days += dim
		}
	}
	if signInt(months) == -sign {
		years -= sign
		months = monthsFrom(years, y1, m1)
	}
	if signInt(years) == -sign || signInt(months) == -sign || signInt(days) == -sign {
		panic(fmt.Sprintf("civiltime: year/month/day difference did not settle: %d/%d/%d", years, months, days))
	}
	return years, months, days
}

func signInt(n int) int {
	return sign64(int64(n))
}
