package civiltime

import (
	"math/big"
)

// RoundOptions configures rounding of durations and points.
type RoundOptions struct {
	// SmallestUnit is the unit to round to. Required for points.
	SmallestUnit Unit
	// LargestUnit bounds the result for durations. UnitAuto keeps the
	// duration's own largest unit.
	LargestUnit Unit
	// RoundingIncrement rounds to multiples of this many units; 0 means 1.
	RoundingIncrement int64
	// RoundingMode defaults to [RoundHalfExpand].
	RoundingMode RoundingMode
	// RelativeTo anchors calendar units when rounding durations. It must be
	// a PlainDate, PlainDateTime or ZonedDateTime.
	RelativeTo Point
}

const maxRoundingIncrement = 1_000_000_000

// maximumIncrement returns the number of unit in the next larger unit, or
// 0 for units that take any increment.
func maximumIncrement(u Unit) int64 {
	switch u {
	case Hour:
		return 24
	case Minute, Second:
		return 60
	case Millisecond, Microsecond, Nanosecond:
		return 1000
	}
	return 0
}

// validateIncrement checks inc against the upper bound max, which inc
// must divide evenly. max 0 means unbounded.
func validateIncrement(op string, inc int64, u Unit, maxInc int64, inclusive bool) error {
	if inc < 1 || inc > maxRoundingIncrement {
		return rangeErrorf(op, "rounding increment %d out of range", inc)
	}
	if maxInc == 0 {
		return nil
	}
	if inc > maxInc || (!inclusive && inc == maxInc) || maxInc%inc != 0 {
		return rangeErrorf(op, "rounding increment %d invalid for %s", inc, u)
	}
	return nil
}

func incrementOrOne(inc int64) int64 {
	if inc == 0 {
		return 1
	}
	return inc
}

// relativeMarker anchors a duration so that calendar units get a length.
type relativeMarker interface {
	// epochAfter returns the exact time reached by moving the anchor by d.
	// Plain anchors measure their local time as if it were UTC.
	epochAfter(d Duration) (DayTimeNano, error)
	zoned() bool
}

type dateTimeMarker struct {
	cal   Calendar
	start ISODateTime
}

func (m dateTimeMarker) epochAfter(d Duration) (DayTimeNano, error) {
	dt, err := moveISODateTime(m.cal, m.start, d, Constrain)
	if err != nil {
		return DayTimeNano{}, err
	}
	return dt.epochNano(), nil
}

func (dateTimeMarker) zoned() bool { return false }

type zonedMarker struct {
	cal   Calendar
	tz    TimeZone
	start DayTimeNano
}

func (m zonedMarker) epochAfter(d Duration) (DayTimeNano, error) {
	return moveZonedEpoch(m.cal, m.tz, m.start, d, Constrain)
}

func (zonedMarker) zoned() bool { return true }

// roundRelativeDuration rounds dur, which spans from the marker to end,
// to a multiple of inc smallest units, then carries into larger units up
// to largest where the rounding pushed past a unit boundary.
func roundRelativeDuration(dur Duration, end DayTimeNano, largest, smallest Unit, inc int64, mode RoundingMode, m relativeMarker) (Duration, error) {
	if (smallest == Nanosecond && inc == 1) || dur.Sign() == 0 {
		return dur, nil
	}
	var (
		rounded Duration
		newEnd  DayTimeNano
		grew    bool
		err     error
	)
	switch {
	case smallest.isCalendar() || (smallest == Day && m.zoned()):
		rounded, newEnd, grew, err = nudgeToCalendarUnit(dur, end, smallest, inc, mode, m)
	case m.zoned():
		rounded, newEnd, grew, err = nudgeToZonedTime(dur, smallest, inc, mode, m)
	default:
		rounded, newEnd, grew, err = nudgeToDayOrTime(dur, end, largest, smallest, inc, mode)
	}
	if err != nil {
		return Duration{}, err
	}
	if grew && smallest != Week {
		if rounded, err = bubbleRelativeDuration(rounded, newEnd, largest, maxUnit(Day, smallest), m); err != nil {
			return Duration{}, err
		}
	}
	if err := rounded.Validate(); err != nil {
		return Duration{}, err
	}
	return rounded, nil
}

// nudgeToCalendarUnit brackets end between the anchor moved by the
// truncated duration and by one more increment, and rounds the exact
// position of end within that bracket.
func nudgeToCalendarUnit(dur Duration, end DayTimeNano, smallest Unit, inc int64, mode RoundingMode, m relativeMarker) (Duration, DayTimeNano, bool, error) {
	sign := int64(dur.Sign())
	truncated := dur.Get(smallest) / inc * inc
	base := dur.clearBelow(smallest).with(smallest, truncated)
	next := base.with(smallest, truncated+inc*sign)

	e0, err := m.epochAfter(base)
	if err != nil {
		return Duration{}, DayTimeNano{}, false, err
	}
	e1, err := m.epochAfter(next)
	if err != nil {
		return Duration{}, DayTimeNano{}, false, err
	}
	num := end.Sub(e0)
	den := e1.Sub(e0)

	var expand bool
	switch {
	case num.IsZero() || int64(num.Sign()) == -sign:
	case num.Abs().Cmp(den.Abs()) >= 0:
		expand = true
	default:
		half := num.Abs().Add(num.Abs()).Cmp(den.Abs())
		odd := (truncated/inc)%2 != 0
		expand = mode.expands(int(sign), half, odd)
	}
	if expand {
		return next, e1, true, nil
	}
	return base, e0, false, nil
}

// nudgeToZonedTime rounds the time components of a zoned duration and
// carries into days when the result reaches the real length of the day
// that follows the date components.
func nudgeToZonedTime(dur Duration, smallest Unit, inc int64, mode RoundingMode, m relativeMarker) (Duration, DayTimeNano, bool, error) {
	sign := dur.Sign()
	nanoInc := smallest.nanos() * inc
	rounded, ok := roundDayTimeNano(dur.timeNano(), nanoInc, mode)
	if !ok {
		return Duration{}, DayTimeNano{}, false, rangeErrorf("", "duration out of range")
	}
	dateDur := dur.dateOnly()
	dayStart, err := m.epochAfter(dateDur)
	if err != nil {
		return Duration{}, DayTimeNano{}, false, err
	}
	dayEnd, err := m.epochAfter(dateDur.with(Day, dateDur.Days+int64(sign)))
	if err != nil {
		return Duration{}, DayTimeNano{}, false, err
	}
	beyond := rounded.Sub(dayEnd.Sub(dayStart))

	var end DayTimeNano
	dayDelta := 0
	if beyond.IsZero() || beyond.Sign() == sign {
		dayDelta = sign
		if rounded, ok = roundDayTimeNano(beyond, nanoInc, mode); !ok {
			return Duration{}, DayTimeNano{}, false, rangeErrorf("", "duration out of range")
		}
		end = dayEnd.Add(rounded)
	} else {
		end = dayStart.Add(rounded)
	}
	timeDur, err := durationFromNano("", rounded, Hour)
	if err != nil {
		return Duration{}, DayTimeNano{}, false, err
	}
	out := combineDurations(dateDur.with(Day, dateDur.Days+int64(dayDelta)), timeDur)
	return out, end, dayDelta != 0, nil
}

// nudgeToDayOrTime rounds days and time components together, treating
// days as 24 hours.
func nudgeToDayOrTime(dur Duration, end DayTimeNano, largest, smallest Unit, inc int64, mode RoundingMode) (Duration, DayTimeNano, bool, error) {
	sign := dur.Sign()
	span := dur.dayTimeNano()
	rounded, ok := roundDayTimeNano(span, smallest.nanos()*inc, mode)
	if !ok {
		return Duration{}, DayTimeNano{}, false, rangeErrorf("", "duration out of range")
	}
	wholeBefore, _ := span.truncParts()
	wholeAfter, _ := rounded.truncParts()
	grew := sign64(wholeAfter-wholeBefore) == sign

	dayTime, err := durationFromNano("", rounded, minUnit(largest, Day))
	if err != nil {
		return Duration{}, DayTimeNano{}, false, err
	}
	out := combineDurations(dur.clearBelow(Week), dayTime)
	return out, end.Add(rounded.Sub(span)), grew, nil
}

// bubbleRelativeDuration carries a rounded duration into larger units
// while end has reached the anchor moved by one more of that unit. Weeks
// take part only when they are the largest unit.
func bubbleRelativeDuration(dur Duration, end DayTimeNano, largest, smallest Unit, m relativeMarker) (Duration, error) {
	sign := dur.Sign()
	for u := smallest + 1; u <= largest; u++ {
		if u == Week && largest != Week {
			continue
		}
		candidate := dur.clearBelow(u)
		candidate = candidate.with(u, candidate.Get(u)+int64(sign))
		threshold, err := m.epochAfter(candidate)
		if err != nil {
			return Duration{}, err
		}
		if end.Cmp(threshold) == -sign {
			break
		}
		dur = candidate
	}
	return dur, nil
}

// combineDurations adds the components of a and b.
func combineDurations(a, b Duration) Duration {
	return Duration{
		Years:        a.Years + b.Years,
		Months:       a.Months + b.Months,
		Weeks:        a.Weeks + b.Weeks,
		Days:         a.Days + b.Days,
		Hours:        a.Hours + b.Hours,
		Minutes:      a.Minutes + b.Minutes,
		Seconds:      a.Seconds + b.Seconds,
		Milliseconds: a.Milliseconds + b.Milliseconds,
		Microseconds: a.Microseconds + b.Microseconds,
		Nanoseconds:  a.Nanoseconds + b.Nanoseconds,
	}
}

// markerFor turns a relativeTo point into a rounding anchor. Plain dates
// anchor at midnight.
func (e *Engine) markerFor(p Point) (relativeMarker, error) {
	switch v := p.(type) {
	case PlainDate:
		return e.markerFor(v.At(PlainTime{}))
	case PlainDateTime:
		cal, err := e.LookupCalendar(v.Calendar)
		if err != nil {
			return nil, err
		}
		if _, err := checkISODateTime("", v.ISO); err != nil {
			return nil, err
		}
		return dateTimeMarker{cal: cal, start: v.ISO}, nil
	case ZonedDateTime:
		cal, err := e.LookupCalendar(v.Calendar)
		if err != nil {
			return nil, err
		}
		tz, err := e.LookupTimeZone(v.TimeZone)
		if err != nil {
			return nil, err
		}
		return zonedMarker{cal: cal, tz: tz, start: v.Epoch}, nil
	}
	return nil, typeErrorf("", "relativeTo must be a PlainDate, PlainDateTime or ZonedDateTime, not %T", p)
}

// RoundDuration rounds d to opts.SmallestUnit and balances it up to
// opts.LargestUnit. Without RelativeTo days are 24 hours and weeks,
// months and years cannot be involved.
func (e *Engine) RoundDuration(d Duration, opts RoundOptions) (Duration, error) {
	const op = "RoundDuration"
	if err := d.Validate(); err != nil {
		return Duration{}, withOp(err, op)
	}
	if opts.SmallestUnit == UnitAuto && opts.LargestUnit == UnitAuto {
		return Duration{}, typeErrorf(op, "smallest or largest unit is required")
	}
	smallest := opts.SmallestUnit
	if smallest == UnitAuto {
		smallest = Nanosecond
	}
	largest := opts.LargestUnit
	if largest == UnitAuto {
		largest = maxUnit(d.LargestUnit(), smallest)
	}
	if largest < smallest {
		return Duration{}, rangeErrorf(op, "largest unit %s is smaller than smallest unit %s", largest, smallest)
	}
	inc := incrementOrOne(opts.RoundingIncrement)
	if err := validateIncrement(op, inc, smallest, maximumIncrement(smallest), false); err != nil {
		return Duration{}, err
	}
	mode := opts.RoundingMode.or(RoundHalfExpand)

	if opts.RelativeTo == nil {
		if d.hasCalendarUnits() || largest.isCalendar() {
			return Duration{}, rangeErrorf(op, "relativeTo is required for weeks, months and years")
		}
		rounded, ok := roundDayTimeNano(d.dayTimeNano(), smallest.nanos()*inc, mode)
		if !ok {
			return Duration{}, rangeErrorf(op, "duration out of range")
		}
		out, err := durationFromNano(op, rounded, largest)
		return out, err
	}

	start, end, err := e.relativeSpan(opts.RelativeTo, d)
	if err != nil {
		return Duration{}, withOp(err, op)
	}
	out, err := e.Until(start, end, DiffOptions{
		LargestUnit:       largest,
		SmallestUnit:      smallest,
		RoundingIncrement: inc,
		RoundingMode:      mode,
	})
	if err != nil {
		return Duration{}, withOp(err, op)
	}
	return out, nil
}

// relativeSpan returns the anchor point and the anchor moved by d. Plain
// dates become date-times at midnight so that time components survive.
func (e *Engine) relativeSpan(rel Point, d Duration) (Point, Point, error) {
	switch v := rel.(type) {
	case PlainDate:
		rel = v.At(PlainTime{})
	case PlainDateTime, ZonedDateTime:
	default:
		return nil, nil, typeErrorf("", "relativeTo must be a PlainDate, PlainDateTime or ZonedDateTime, not %T", rel)
	}
	end, err := e.Move(rel, d, Constrain)
	if err != nil {
		return nil, nil, err
	}
	return rel, end, nil
}

// RoundInstant rounds i to a multiple of opts.RoundingIncrement smallest
// units counted from the epoch. The increment must divide a 24-hour day.
func (e *Engine) RoundInstant(i Instant, opts RoundOptions) (Instant, error) {
	const op = "RoundInstant"
	smallest, inc, mode, err := pointRoundOptions(op, opts, Hour, nanoInDay)
	if err != nil {
		return Instant{}, err
	}
	rounded, ok := roundDayTimeNano(i.Epoch, smallest.nanos()*inc, mode)
	if !ok {
		return Instant{}, rangeErrorf(op, "instant out of range")
	}
	return NewInstant(rounded)
}

// pointRoundOptions validates options for rounding a point. perUnit is
// the length of the span the increment must divide, such as a day.
func pointRoundOptions(op string, opts RoundOptions, maxSmallest Unit, perUnit int64) (Unit, int64, RoundingMode, error) {
	smallest := opts.SmallestUnit
	if smallest == UnitAuto {
		return 0, 0, 0, typeErrorf(op, "smallest unit is required")
	}
	if smallest > maxSmallest {
		return 0, 0, 0, rangeErrorf(op, "cannot round to %s", smallest)
	}
	inc := incrementOrOne(opts.RoundingIncrement)
	maxInc := perUnit / smallest.nanos()
	inclusive := true
	if perUnit == 0 {
		maxInc, inclusive = maximumIncrement(smallest), false
		if smallest == Day {
			maxInc, inclusive = 1, true
		}
	}
	if err := validateIncrement(op, inc, smallest, maxInc, inclusive); err != nil {
		return 0, 0, 0, err
	}
	return smallest, inc, opts.RoundingMode.or(RoundHalfExpand), nil
}

// roundTimeOfDay rounds a nanosecond-of-day and reports the whole days
// carried, which is 0 or 1.
func roundTimeOfDay(t ISOTime, smallest Unit, inc int64, mode RoundingMode) (ISOTime, int64) {
	n := roundInt64(t.nanoOfDay(), smallest.nanos()*inc, mode)
	if n >= nanoInDay {
		return isoTimeFromNano(n - nanoInDay), 1
	}
	return isoTimeFromNano(n), 0
}

// RoundDateTime rounds the wall-clock time of dt, carrying into the date.
func (e *Engine) RoundDateTime(dt PlainDateTime, opts RoundOptions) (PlainDateTime, error) {
	const op = "RoundDateTime"
	smallest, inc, mode, err := pointRoundOptions(op, opts, Day, 0)
	if err != nil {
		return PlainDateTime{}, err
	}
	t, carry := roundTimeOfDay(dt.ISO.ISOTime, smallest, inc, mode)
	out, err := checkISODateTime(op, ISODateTime{ISODate: dt.ISO.addDays(carry), ISOTime: t})
	if err != nil {
		return PlainDateTime{}, err
	}
	return PlainDateTime{ISO: out, Calendar: dt.Calendar}, nil
}

// RoundTime rounds t, wrapping around midnight.
func (e *Engine) RoundTime(t PlainTime, opts RoundOptions) (PlainTime, error) {
	smallest, inc, mode, err := pointRoundOptions("RoundTime", opts, Hour, 0)
	if err != nil {
		return PlainTime{}, err
	}
	out, _ := roundTimeOfDay(t.ISO, smallest, inc, mode)
	return PlainTime{ISO: out}, nil
}

// RoundZoned rounds the wall-clock time of z. Rounding to days uses the
// real length of the local day; other units keep z's offset when the
// rounded local time still has it.
func (e *Engine) RoundZoned(z ZonedDateTime, opts RoundOptions) (ZonedDateTime, error) {
	const op = "RoundZoned"
	smallest, inc, mode, err := pointRoundOptions(op, opts, Day, 0)
	if err != nil {
		return ZonedDateTime{}, err
	}
	tz, err := e.LookupTimeZone(z.TimeZone)
	if err != nil {
		return ZonedDateTime{}, withOp(err, op)
	}
	local := localDateTime(tz, z.Epoch)

	var epoch DayTimeNano
	if smallest == Day {
		dayStart, dayEnd, err := dayBounds(op, tz, local.ISODate)
		if err != nil {
			return ZonedDateTime{}, err
		}
		num := z.Epoch.Sub(dayStart)
		den := dayEnd.Sub(dayStart)
		half := num.Add(num).Cmp(den)
		epoch = dayStart
		if !num.IsZero() && mode.expands(1, half, false) {
			epoch = dayEnd
		}
	} else {
		t, carry := roundTimeOfDay(local.ISOTime, smallest, inc, mode)
		dt, err := checkISODateTime(op, ISODateTime{ISODate: local.addDays(carry), ISOTime: t})
		if err != nil {
			return ZonedDateTime{}, err
		}
		offset := tz.OffsetNanosecondsFor(z.Epoch)
		if epoch, err = instantForOffset(op, tz, dt, offset, true, false, Compatible, OffsetPrefer); err != nil {
			return ZonedDateTime{}, err
		}
	}
	return ZonedDateTime{Epoch: epoch, TimeZone: z.TimeZone, Calendar: z.Calendar}, nil
}

// dayBounds returns the first instants of date and of the following day.
func dayBounds(op string, tz TimeZone, date ISODate) (DayTimeNano, DayTimeNano, error) {
	start, err := singleInstantFor(op, tz, ISODateTime{ISODate: date}, Compatible)
	if err != nil {
		return DayTimeNano{}, DayTimeNano{}, err
	}
	end, err := singleInstantFor(op, tz, ISODateTime{ISODate: date.addDays(1)}, Compatible)
	if err != nil {
		return DayTimeNano{}, DayTimeNano{}, err
	}
	return start, end, nil
}

// Round rounds a Duration, Instant, PlainDateTime, PlainTime or
// ZonedDateTime and returns a value of the same type.
func (e *Engine) Round(v any, opts RoundOptions) (any, error) {
	switch x := v.(type) {
	case Duration:
		return e.RoundDuration(x, opts)
	case Instant:
		return e.RoundInstant(x, opts)
	case PlainDateTime:
		return e.RoundDateTime(x, opts)
	case PlainTime:
		return e.RoundTime(x, opts)
	case ZonedDateTime:
		return e.RoundZoned(x, opts)
	}
	return nil, typeErrorf("Round", "cannot round %T", v)
}

// bigRatOf returns num/den as a rational.
func bigRatOf(num, den DayTimeNano) *big.Rat {
	return new(big.Rat).SetFrac(num.Big(), den.Big())
}
