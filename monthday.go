package civiltime

// monthDayReferenceEnd is the latest reference date a month-day may use.
var monthDayReferenceEnd = ISODate{Year: 1972, Month: 12, Day: 31}

// monthDaySearchYears bounds the backward scan for a reference year. A
// Hebrew leap month recurs within 19 years.
const monthDaySearchYears = 100

// monthDayReference returns the latest date on or before 1972-12-31 that
// has the given month code and day. A day no year of the month reaches is
// clamped to the longest such month or rejected.
func monthDayReference(op string, c fieldCalendar, code int, leap bool, day int, overflow Overflow) (ISODate, error) {
	if day < 1 {
		return ISODate{}, rangeErrorf(op, "day must be positive")
	}
	y0, _, _ := c.DateParts(monthDayReferenceEnd)
	longest := 0
	for y := y0; y > y0-monthDaySearchYears; y-- {
		m, exact := c.monthForCode(y, code, leap)
		if !exact || m > c.MonthsInYear(y) {
			continue
		}
		n := c.DaysInMonth(y, m)
		longest = max(longest, n)
		if day > n {
			continue
		}
		d, err := c.dateFromParts(op, y, m, day, Reject)
		if err != nil {
			return ISODate{}, err
		}
		if d.Compare(monthDayReferenceEnd) <= 0 {
			return d, nil
		}
	}
	switch {
	case longest == 0:
		return ISODate{}, rangeErrorf(op, "month %s does not exist in calendar %s", FormatMonthCode(code, leap), c.ID())
	case overflow == Reject || day <= longest:
		return ISODate{}, rangeErrorf(op, "day %d out of range for month %s", day, FormatMonthCode(code, leap))
	}
	return monthDayReference(op, c, code, leap, longest, Reject)
}

// MonthDayFromFields builds a month-day of calendar cal from a MonthCode
// and Day. A Year, given directly or by era, resolves an ordinal Month and
// constrains the day as in that year. ISO 8601 also accepts a Month alone.
func (e *Engine) MonthDayFromFields(cal string, f DateFields, overflow Overflow) (PlainMonthDay, error) {
	const op = "MonthDayFromFields"
	fc, err := e.fieldCalendarFor(op, cal)
	if err != nil {
		return PlainMonthDay{}, err
	}
	if f.Day == 0 {
		return PlainMonthDay{}, typeErrorf(op, "day is required")
	}
	if f.Month < 0 || f.Day < 0 {
		return PlainMonthDay{}, rangeErrorf(op, "month and day must be positive")
	}
	_, hasYear, err := fieldYear(op, fc, f)
	if err != nil {
		return PlainMonthDay{}, err
	}

	var code int
	var leap bool
	day := f.Day
	switch {
	case hasYear:
		d, err := e.DateFromFields(cal, f, overflow)
		if err != nil {
			return PlainMonthDay{}, withOpRename(err, op)
		}
		y, m, dd := fc.DateParts(d.ISO)
		code, leap = fc.MonthCodeParts(y, m)
		day = dd
	case f.MonthCode != "":
		if code, leap, err = ParseMonthCode(f.MonthCode); err != nil {
			return PlainMonthDay{}, withOpRename(err, op)
		}
		if f.Month != 0 {
			if fc.ID() != ISO8601 {
				return PlainMonthDay{}, typeErrorf(op, "month needs a year in calendar %s", fc.ID())
			}
			if leap || f.Month != code {
				return PlainMonthDay{}, rangeErrorf(op, "month %d disagrees with month code %s", f.Month, f.MonthCode)
			}
		}
	case f.Month != 0:
		if fc.ID() != ISO8601 {
			return PlainMonthDay{}, typeErrorf(op, "monthCode or year is required in calendar %s", fc.ID())
		}
		if code, err = constrainInt(op, "month", f.Month, 1, 12, overflow); err != nil {
			return PlainMonthDay{}, err
		}
	default:
		return PlainMonthDay{}, typeErrorf(op, "month or monthCode is required")
	}

	ref, err := monthDayReference(op, fc, code, leap, day, overflow)
	if err != nil {
		return PlainMonthDay{}, err
	}
	return PlainMonthDay{ISO: ref, Calendar: storedCalendar(fc)}, nil
}

// MonthDayOf returns the month-day of d in its calendar.
func (e *Engine) MonthDayOf(d PlainDate) (PlainMonthDay, error) {
	const op = "MonthDayOf"
	fc, err := e.fieldCalendarFor(op, d.Calendar)
	if err != nil {
		return PlainMonthDay{}, err
	}
	y, m, day := fc.DateParts(d.ISO)
	code, leap := fc.MonthCodeParts(y, m)
	ref, err := monthDayReference(op, fc, code, leap, day, Constrain)
	if err != nil {
		return PlainMonthDay{}, err
	}
	return PlainMonthDay{ISO: ref, Calendar: storedCalendar(fc)}, nil
}

// MonthDayFields returns the MonthCode and Day of md. The result can be
// passed back to [Engine.MonthDayFromFields].
func (e *Engine) MonthDayFields(md PlainMonthDay) (DateFields, error) {
	c, err := e.LookupCalendar(md.Calendar)
	if err != nil {
		return DateFields{}, withOp(err, "MonthDayFields")
	}
	y, m, day := c.DateParts(md.ISO)
	code, leap := c.MonthCodeParts(y, m)
	return DateFields{MonthCode: FormatMonthCode(code, leap), Day: day}, nil
}

// MonthDayToPlainDate places md in a calendar year. A leap month missing
// from year falls to the month after it and the day is clamped, so
// 02-29 becomes 02-28 in a common year.
func (e *Engine) MonthDayToPlainDate(md PlainMonthDay, year int) (PlainDate, error) {
	const op = "MonthDayToPlainDate"
	f, err := e.MonthDayFields(md)
	if err != nil {
		return PlainDate{}, withOpRename(err, op)
	}
	f.Year = &year
	d, err := e.DateFromFields(md.Calendar, f, Constrain)
	if err != nil {
		return PlainDate{}, withOpRename(err, op)
	}
	return d, nil
}
