package civiltime

// Move adds d to p and returns a point of the same type. Calendar
// components go through p's calendar under overflow; time components are
// added in exact nanoseconds. Zoned values add their time components in
// absolute time, so a day across a DST transition keeps its real length.
func (e *Engine) Move(p Point, d Duration, overflow Overflow) (Point, error) {
	const op = "Move"
	if err := d.Validate(); err != nil {
		return nil, withOp(err, op)
	}
	var (
		out Point
		err error
	)
	switch v := p.(type) {
	case PlainDate:
		out, err = e.moveDate(v, d, overflow)
	case PlainDateTime:
		out, err = e.moveDateTime(v, d, overflow)
	case PlainYearMonth:
		out, err = e.moveYearMonth(v, d, overflow)
	case PlainTime:
		out = moveTime(v, d)
	case ZonedDateTime:
		out, err = e.moveZoned(v, d, overflow)
	case Instant:
		out, err = moveInstant(v, d)
	default:
		return nil, typeErrorf(op, "unsupported point %T", p)
	}
	if err != nil {
		return nil, withOp(err, op)
	}
	return out, nil
}

// Subtract moves p back by d.
func (e *Engine) Subtract(p Point, d Duration, overflow Overflow) (Point, error) {
	return e.Move(p, d.Negated(), overflow)
}

func (e *Engine) moveDate(p PlainDate, d Duration, overflow Overflow) (PlainDate, error) {
	cal, err := e.LookupCalendar(p.Calendar)
	if err != nil {
		return PlainDate{}, err
	}
	if _, err := checkISODate("", p.ISO); err != nil {
		return PlainDate{}, err
	}
	timeDays, _ := d.timeNano().truncParts()
	dateDur := d.dateOnly()
	dateDur.Days += timeDays
	date, err := moveISODate(cal, p.ISO, dateDur, overflow)
	if err != nil {
		return PlainDate{}, err
	}
	return PlainDate{ISO: date, Calendar: p.Calendar}, nil
}

func (e *Engine) moveDateTime(p PlainDateTime, d Duration, overflow Overflow) (PlainDateTime, error) {
	cal, err := e.LookupCalendar(p.Calendar)
	if err != nil {
		return PlainDateTime{}, err
	}
	if _, err := checkISODateTime("", p.ISO); err != nil {
		return PlainDateTime{}, err
	}
	dt, err := moveISODateTime(cal, p.ISO, d, overflow)
	if err != nil {
		return PlainDateTime{}, err
	}
	return PlainDateTime{ISO: dt, Calendar: p.Calendar}, nil
}

func (e *Engine) moveYearMonth(p PlainYearMonth, d Duration, overflow Overflow) (PlainYearMonth, error) {
	if d.clearBelow(Month) != d {
		return PlainYearMonth{}, rangeErrorf("", "year-month arithmetic takes years and months only")
	}
	cal, err := e.LookupCalendar(p.Calendar)
	if err != nil {
		return PlainYearMonth{}, err
	}
	start, err := firstOfMonth(cal, p.ISO)
	if err != nil {
		return PlainYearMonth{}, err
	}
	date, err := moveISODate(cal, start, Duration{Years: d.Years, Months: d.Months}, overflow)
	if err != nil {
		return PlainYearMonth{}, err
	}
	return PlainYearMonth{ISO: date, Calendar: p.Calendar}, nil
}

// firstOfMonth returns the first day of the calendar month containing d.
func firstOfMonth(cal Calendar, d ISODate) (ISODate, error) {
	_, _, day := cal.DateParts(d)
	return isoDateFromEpochDaysChecked("", d.epochDays()-int64(day-1))
}

// moveTime adds the time components of d, wrapping around midnight.
func moveTime(p PlainTime, d Duration) PlainTime {
	t, _ := p.ISO.addTimeNano(d.timeNano())
	return PlainTime{ISO: t}
}

func (e *Engine) moveZoned(p ZonedDateTime, d Duration, overflow Overflow) (ZonedDateTime, error) {
	cal, err := e.LookupCalendar(p.Calendar)
	if err != nil {
		return ZonedDateTime{}, err
	}
	tz, err := e.LookupTimeZone(p.TimeZone)
	if err != nil {
		return ZonedDateTime{}, err
	}
	epoch, err := moveZonedEpoch(cal, tz, p.Epoch, d, overflow)
	if err != nil {
		return ZonedDateTime{}, err
	}
	return ZonedDateTime{Epoch: epoch, TimeZone: p.TimeZone, Calendar: p.Calendar}, nil
}

func moveInstant(p Instant, d Duration) (Instant, error) {
	if d.hasCalendarUnits() || d.Days != 0 {
		return Instant{}, rangeErrorf("", "instants cannot be moved by days or calendar units")
	}
	epoch, err := checkEpochNano("", p.Epoch.Add(d.timeNano()))
	if err != nil {
		return Instant{}, err
	}
	return Instant{Epoch: epoch}, nil
}

// moveISODate applies years, months, weeks and days. Day-only moves skip
// the calendar.
func moveISODate(cal Calendar, date ISODate, d Duration, overflow Overflow) (ISODate, error) {
	if d.hasCalendarUnits() {
		return cal.DateAdd(date, d, overflow)
	}
	if d.Days == 0 {
		return date, nil
	}
	return isoDateFromEpochDaysChecked("", date.epochDays()+d.Days)
}

// moveISODateTime adds the time components first and folds whole days
// that spill over midnight into the date components.
func moveISODateTime(cal Calendar, dt ISODateTime, d Duration, overflow Overflow) (ISODateTime, error) {
	t, dayDelta := dt.ISOTime.addTimeNano(d.timeNano())
	dateDur := d.dateOnly()
	dateDur.Days += dayDelta
	date, err := moveISODate(cal, dt.ISODate, dateDur, overflow)
	if err != nil {
		return ISODateTime{}, err
	}
	return checkISODateTime("", ISODateTime{ISODate: date, ISOTime: t})
}

// moveZonedEpoch moves the local date by the calendar components, keeping
// the wall-clock time, then adds the time components in absolute time.
func moveZonedEpoch(cal Calendar, tz TimeZone, epoch DayTimeNano, d Duration, overflow Overflow) (DayTimeNano, error) {
	const op = ""
	if dateDur := d.dateOnly(); !dateDur.Blank() {
		local := localDateTime(tz, epoch)
		date, err := moveISODate(cal, local.ISODate, dateDur, overflow)
		if err != nil {
			return DayTimeNano{}, err
		}
		dt, err := checkISODateTime(op, ISODateTime{ISODate: date, ISOTime: local.ISOTime})
		if err != nil {
			return DayTimeNano{}, err
		}
		if epoch, err = singleInstantFor(op, tz, dt, Compatible); err != nil {
			return DayTimeNano{}, err
		}
	}
	return checkEpochNano(op, epoch.Add(d.timeNano()))
}
