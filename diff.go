package civiltime

// DiffOptions configures [Engine.Until] and [Engine.Since].
type DiffOptions struct {
	// LargestUnit is the largest unit of the result. UnitAuto picks the
	// natural unit of the point type: days for dates and date-times, hours
	// for times and zoned values, seconds for instants, years for months.
	LargestUnit Unit
	// SmallestUnit is the unit the result is rounded to. UnitAuto means
	// nanoseconds, or days for dates and months for year-months.
	SmallestUnit Unit
	// RoundingIncrement rounds to multiples of this many smallest units;
	// 0 means 1.
	RoundingIncrement int64
	// RoundingMode defaults to [RoundTrunc].
	RoundingMode RoundingMode
}

// diffSettings are resolved DiffOptions.
type diffSettings struct {
	largest  Unit
	smallest Unit
	inc      int64
	mode     RoundingMode
}

func (s diffSettings) exact() bool {
	return s.smallest == Nanosecond && s.inc == 1
}

// resolveDiffOptions applies the defaults of a point type whose results
// range over [lo, hi] units.
func resolveDiffOptions(op string, opts DiffOptions, lo, hi, defLargest, defSmallest Unit) (diffSettings, error) {
	s := diffSettings{
		largest:  opts.LargestUnit,
		smallest: opts.SmallestUnit,
		inc:      incrementOrOne(opts.RoundingIncrement),
		mode:     opts.RoundingMode.or(RoundTrunc),
	}
	if s.smallest == UnitAuto {
		s.smallest = defSmallest
	}
	if s.largest == UnitAuto {
		s.largest = maxUnit(defLargest, s.smallest)
	}
	for _, u := range [...]Unit{s.smallest, s.largest} {
		if u < lo || u > hi {
			return diffSettings{}, rangeErrorf(op, "unit %s not allowed here", u)
		}
	}
	if s.largest < s.smallest {
		return diffSettings{}, rangeErrorf(op, "largest unit %s is smaller than smallest unit %s", s.largest, s.smallest)
	}
	if err := validateIncrement(op, s.inc, s.smallest, maximumIncrement(s.smallest), false); err != nil {
		return diffSettings{}, err
	}
	if s.smallest.isCalendar() && s.inc > 1 && s.largest != s.smallest {
		return diffSettings{}, rangeErrorf(op, "rounding increment of %s needs largest unit %s", s.smallest, s.smallest)
	}
	return s, nil
}

// Until returns the duration from p0 to p1, which must be points of the
// same type. Calendar-bearing points must share a calendar, and zoned
// points measured in days or larger must share a time zone.
func (e *Engine) Until(p0, p1 Point, opts DiffOptions) (Duration, error) {
	const op = "Until"
	d, err := e.diff(op, p0, p1, opts)
	if err != nil {
		return Duration{}, withOp(err, op)
	}
	return d, nil
}

// Since returns the duration from p1 to p0. It rounds the same way as
// [Engine.Until] with the endpoints swapped, so that ceil and floor keep
// their direction on the time line.
func (e *Engine) Since(p0, p1 Point, opts DiffOptions) (Duration, error) {
	const op = "Since"
	opts.RoundingMode = opts.RoundingMode.or(RoundTrunc).negate()
	d, err := e.diff(op, p0, p1, opts)
	if err != nil {
		return Duration{}, withOp(err, op)
	}
	return d.Negated(), nil
}

func (e *Engine) diff(op string, p0, p1 Point, opts DiffOptions) (Duration, error) {
	switch a := p0.(type) {
	case PlainDate:
		b, ok := p1.(PlainDate)
		if !ok {
			break
		}
		return e.diffDates(op, a, b, opts)
	case PlainDateTime:
		b, ok := p1.(PlainDateTime)
		if !ok {
			break
		}
		return e.diffDateTimes(op, a, b, opts)
	case PlainYearMonth:
		b, ok := p1.(PlainYearMonth)
		if !ok {
			break
		}
		return e.diffYearMonths(op, a, b, opts)
	case PlainTime:
		b, ok := p1.(PlainTime)
		if !ok {
			break
		}
		s, err := resolveDiffOptions(op, opts, Nanosecond, Hour, Hour, Nanosecond)
		if err != nil {
			return Duration{}, err
		}
		return diffExact(op, DayTimeNano{Nanos: b.ISO.nanoOfDay()}.AddNanos(-a.ISO.nanoOfDay()), s)
	case ZonedDateTime:
		b, ok := p1.(ZonedDateTime)
		if !ok {
			break
		}
		return e.diffZoned(op, a, b, opts)
	case Instant:
		b, ok := p1.(Instant)
		if !ok {
			break
		}
		s, err := resolveDiffOptions(op, opts, Nanosecond, Hour, Second, Nanosecond)
		if err != nil {
			return Duration{}, err
		}
		return diffExact(op, b.Epoch.Sub(a.Epoch), s)
	default:
		return Duration{}, typeErrorf(op, "unsupported point %T", p0)
	}
	return Duration{}, typeErrorf(op, "cannot measure from %T to %T", p0, p1)
}

// diffExact rounds an exact span and balances it up to s.largest, which
// is at most a day.
func diffExact(op string, span DayTimeNano, s diffSettings) (Duration, error) {
	rounded, ok := roundDayTimeNano(span, s.smallest.nanos()*s.inc, s.mode)
	if !ok {
		return Duration{}, rangeErrorf(op, "duration out of range")
	}
	return durationFromNano(op, rounded, s.largest)
}

// commonCalendar looks up the calendar shared by both ends of a diff.
func (e *Engine) commonCalendar(op, a, b string) (Calendar, error) {
	if !sameCalendar(a, b) {
		return nil, rangeErrorf(op, "cannot measure between calendars %s and %s", calendarID(a), calendarID(b))
	}
	return e.LookupCalendar(a)
}

func (e *Engine) diffDates(op string, a, b PlainDate, opts DiffOptions) (Duration, error) {
	s, err := resolveDiffOptions(op, opts, Day, Year, Day, Day)
	if err != nil {
		return Duration{}, err
	}
	cal, err := e.commonCalendar(op, a.Calendar, b.Calendar)
	if err != nil {
		return Duration{}, err
	}
	for _, d := range [...]ISODate{a.ISO, b.ISO} {
		if _, err := checkISODate(op, d); err != nil {
			return Duration{}, err
		}
	}
	if s.largest == Day {
		days := b.ISO.epochDays() - a.ISO.epochDays()
		return Duration{Days: roundInt64(days, s.inc, s.mode)}, nil
	}
	dur, err := cal.DateUntil(a.ISO, b.ISO, s.largest)
	if err != nil {
		return Duration{}, err
	}
	if s.smallest == Day && s.inc == 1 {
		return dur, nil
	}
	end := ISODateTime{ISODate: b.ISO}.epochNano()
	m := dateTimeMarker{cal: cal, start: ISODateTime{ISODate: a.ISO}}
	return roundRelativeDuration(dur, end, s.largest, s.smallest, s.inc, s.mode, m)
}

func (e *Engine) diffDateTimes(op string, a, b PlainDateTime, opts DiffOptions) (Duration, error) {
	s, err := resolveDiffOptions(op, opts, Nanosecond, Year, Day, Nanosecond)
	if err != nil {
		return Duration{}, err
	}
	cal, err := e.commonCalendar(op, a.Calendar, b.Calendar)
	if err != nil {
		return Duration{}, err
	}
	for _, dt := range [...]ISODateTime{a.ISO, b.ISO} {
		if _, err := checkISODateTime(op, dt); err != nil {
			return Duration{}, err
		}
	}
	end := b.ISO.epochNano()
	if !s.largest.isCalendar() {
		return diffExact(op, end.Sub(a.ISO.epochNano()), s)
	}

	// The time residual must share the sign of the date difference, so an
	// end time earlier in the day borrows a day from the end date.
	timeNanos := b.ISO.nanoOfDay() - a.ISO.nanoOfDay()
	endDate := b.ISO.ISODate
	if dateSign := b.ISO.ISODate.Compare(a.ISO.ISODate); dateSign != 0 && sign64(timeNanos) == -dateSign {
		endDate = endDate.addDays(int64(-dateSign))
		timeNanos += int64(dateSign) * nanoInDay
	}
	dateDur, err := cal.DateUntil(a.ISO.ISODate, endDate, s.largest)
	if err != nil {
		return Duration{}, err
	}
	timeDur, err := durationFromNano(op, DayTimeNano{}.AddNanos(timeNanos), Hour)
	if err != nil {
		return Duration{}, err
	}
	dur := combineDurations(dateDur, timeDur)
	if s.exact() {
		return dur, dur.Validate()
	}
	return roundRelativeDuration(dur, end, s.largest, s.smallest, s.inc, s.mode, dateTimeMarker{cal: cal, start: a.ISO})
}

func (e *Engine) diffYearMonths(op string, a, b PlainYearMonth, opts DiffOptions) (Duration, error) {
	s, err := resolveDiffOptions(op, opts, Month, Year, Year, Month)
	if err != nil {
		return Duration{}, err
	}
	cal, err := e.commonCalendar(op, a.Calendar, b.Calendar)
	if err != nil {
		return Duration{}, err
	}
	start, err := firstOfMonth(cal, a.ISO)
	if err != nil {
		return Duration{}, err
	}
	stop, err := firstOfMonth(cal, b.ISO)
	if err != nil {
		return Duration{}, err
	}
	if start == stop {
		return Duration{}, nil
	}
	dur, err := cal.DateUntil(start, stop, s.largest)
	if err != nil {
		return Duration{}, err
	}
	if s.smallest == Month && s.inc == 1 {
		return dur, nil
	}
	end := ISODateTime{ISODate: stop}.epochNano()
	m := dateTimeMarker{cal: cal, start: ISODateTime{ISODate: start}}
	return roundRelativeDuration(dur, end, s.largest, s.smallest, s.inc, s.mode, m)
}

// maxZonedDayCorrections bounds the search for an intermediate local date
// whose resolved instant does not pass the end instant.
const maxZonedDayCorrections = 3

func (e *Engine) diffZoned(op string, a, b ZonedDateTime, opts DiffOptions) (Duration, error) {
	s, err := resolveDiffOptions(op, opts, Nanosecond, Year, Hour, Nanosecond)
	if err != nil {
		return Duration{}, err
	}
	if s.largest < Day {
		return diffExact(op, b.Epoch.Sub(a.Epoch), s)
	}
	cal, err := e.commonCalendar(op, a.Calendar, b.Calendar)
	if err != nil {
		return Duration{}, err
	}
	tz, err := e.LookupTimeZone(a.TimeZone)
	if err != nil {
		return Duration{}, err
	}
	other, err := e.LookupTimeZone(b.TimeZone)
	if err != nil {
		return Duration{}, err
	}
	if !sameTimeZone(tz, other) {
		return Duration{}, rangeErrorf(op, "cannot measure days between time zones %s and %s", tz.ID(), other.ID())
	}
	sign := b.Epoch.Cmp(a.Epoch)
	if sign == 0 {
		return Duration{}, nil
	}

	start := localDateTime(tz, a.Epoch)
	endLocal := localDateTime(tz, b.Epoch)
	var dur Duration
	if start.ISODate == endLocal.ISODate {
		if dur, err = durationFromNano(op, b.Epoch.Sub(a.Epoch), Hour); err != nil {
			return Duration{}, err
		}
	} else {
		// Step the end date back toward the start until the start time
		// on that date resolves to an instant not past the end.
		correction := int64(0)
		if sign64(endLocal.nanoOfDay()-start.nanoOfDay()) == -sign {
			correction++
		}
		var (
			mid     ISODate
			residue DayTimeNano
			found   bool
		)
		for i := 0; i < maxZonedDayCorrections && !found; i++ {
			mid = endLocal.ISODate.addDays(-correction * int64(sign))
			midDT, err := checkISODateTime(op, ISODateTime{ISODate: mid, ISOTime: start.ISOTime})
			if err != nil {
				return Duration{}, err
			}
			midEpoch, err := singleInstantFor(op, tz, midDT, Compatible)
			if err != nil {
				return Duration{}, err
			}
			residue = b.Epoch.Sub(midEpoch)
			found = residue.Sign() != -sign
			correction++
		}
		if !found {
			return Duration{}, rangeErrorf(op, "cannot resolve a day boundary in %s", tz.ID())
		}
		dateDur, err := cal.DateUntil(start.ISODate, mid, s.largest)
		if err != nil {
			return Duration{}, err
		}
		timeDur, err := durationFromNano(op, residue, Hour)
		if err != nil {
			return Duration{}, err
		}
		dur = combineDurations(dateDur, timeDur)
	}
	if s.exact() {
		return dur, dur.Validate()
	}
	m := zonedMarker{cal: cal, tz: tz, start: a.Epoch}
	return roundRelativeDuration(dur, b.Epoch, s.largest, s.smallest, s.inc, s.mode, m)
}
