package civiltime

import (
	"math/big"

	"github.com/govalues/decimal"
)

// maxDecimalDigits is the coefficient precision of decimal.Decimal.
const maxDecimalDigits = 19

// Total returns d expressed in unit as an exact decimal, rounded only
// where the value needs more than 19 significant digits. relativeTo is
// required when d or unit involve weeks, months or years, and is used for
// days when it is a ZonedDateTime.
func (e *Engine) Total(d Duration, unit Unit, relativeTo Point) (decimal.Decimal, error) {
	const op = "Total"
	if err := d.Validate(); err != nil {
		return decimal.Decimal{}, withOp(err, op)
	}
	if unit < Nanosecond || unit > Year {
		return decimal.Decimal{}, typeErrorf(op, "unit is required")
	}
	if relativeTo == nil {
		if d.hasCalendarUnits() || unit.isCalendar() {
			return decimal.Decimal{}, rangeErrorf(op, "relativeTo is required for weeks, months and years")
		}
		return ratToDecimal(op, bigRatOf(d.dayTimeNano(), DayTimeNano{}.AddNanos(unit.nanos())))
	}

	start, end, err := e.relativeSpan(relativeTo, d)
	if err != nil {
		return decimal.Decimal{}, withOp(err, op)
	}
	m, err := e.markerFor(start)
	if err != nil {
		return decimal.Decimal{}, withOp(err, op)
	}
	startEpoch, endEpoch := pointEpoch(start), pointEpoch(end)
	if unit.isTime() || (unit == Day && !m.zoned()) {
		return ratToDecimal(op, bigRatOf(endEpoch.Sub(startEpoch), DayTimeNano{}.AddNanos(unit.nanos())))
	}

	dur, err := e.Until(start, end, DiffOptions{LargestUnit: unit})
	if err != nil {
		return decimal.Decimal{}, withOp(err, op)
	}
	whole := dur.Get(unit)
	sign := int64(dur.Sign())
	if sign == 0 {
		return decimal.Decimal{}, nil
	}
	base := dur.clearBelow(unit)
	e0, err := m.epochAfter(base)
	if err != nil {
		return decimal.Decimal{}, withOp(err, op)
	}
	e1, err := m.epochAfter(base.with(unit, whole+sign))
	if err != nil {
		return decimal.Decimal{}, withOp(err, op)
	}
	frac := bigRatOf(endEpoch.Sub(e0), e1.Sub(e0).Abs())
	total := new(big.Rat).SetInt64(whole)
	return ratToDecimal(op, total.Add(total, frac))
}

// pointEpoch returns the exact time of a zoned point, or the local time of
// a plain one measured as if it were UTC.
func pointEpoch(p Point) DayTimeNano {
	switch v := p.(type) {
	case ZonedDateTime:
		return v.Epoch
	case PlainDateTime:
		return v.ISO.epochNano()
	case PlainDate:
		return ISODateTime{ISODate: v.ISO}.epochNano()
	}
	return DayTimeNano{}
}

// ratToDecimal converts r to the closest decimal with at most 19
// significant digits.
func ratToDecimal(op string, r *big.Rat) (decimal.Decimal, error) {
	intPart := new(big.Int).Quo(r.Num(), r.Denom())
	intDigits := len(intPart.Abs(intPart).String())
	if intPart.Sign() == 0 {
		intDigits = 0
	}
	if intDigits > maxDecimalDigits {
		return decimal.Decimal{}, rangeErrorf(op, "total exceeds %d digits", maxDecimalDigits)
	}
	out, err := decimal.Parse(r.FloatString(maxDecimalDigits - intDigits))
	if err != nil {
		return decimal.Decimal{}, wrapRangef(err, op, "total not representable")
	}
	return out.Trim(0), nil
}

// CompareDurations orders a and b by length. Durations with weeks, months
// or years need relativeTo to give those units a length; with a
// ZonedDateTime relativeTo, days take their real length too.
func (e *Engine) CompareDurations(a, b Duration, relativeTo Point) (int, error) {
	const op = "CompareDurations"
	for _, d := range [...]Duration{a, b} {
		if err := d.Validate(); err != nil {
			return 0, withOp(err, op)
		}
	}
	if a == b {
		return 0, nil
	}
	calendarUnits := a.hasCalendarUnits() || b.hasCalendarUnits()
	_, zoned := relativeTo.(ZonedDateTime)
	if !calendarUnits && !(zoned && (a.Days != 0 || b.Days != 0)) {
		return a.dayTimeNano().Cmp(b.dayTimeNano()), nil
	}
	if relativeTo == nil {
		return 0, rangeErrorf(op, "relativeTo is required for weeks, months and years")
	}
	start, endA, err := e.relativeSpan(relativeTo, a)
	if err != nil {
		return 0, withOp(err, op)
	}
	endB, err := e.Move(start, b, Constrain)
	if err != nil {
		return 0, withOp(err, op)
	}
	return pointEpoch(endA).Cmp(pointEpoch(endB)), nil
}

// AddDurations returns a + b balanced up to the larger of their largest
// units. Without relativeTo neither may contain weeks, months or years.
func (e *Engine) AddDurations(a, b Duration, relativeTo Point) (Duration, error) {
	const op = "AddDurations"
	out, err := e.addDurations(op, a, b, relativeTo)
	if err != nil {
		return Duration{}, withOp(err, op)
	}
	return out, nil
}

// SubtractDurations returns a - b.
func (e *Engine) SubtractDurations(a, b Duration, relativeTo Point) (Duration, error) {
	const op = "SubtractDurations"
	out, err := e.addDurations(op, a, b.Negated(), relativeTo)
	if err != nil {
		return Duration{}, withOp(err, op)
	}
	return out, nil
}

func (e *Engine) addDurations(op string, a, b Duration, relativeTo Point) (Duration, error) {
	for _, d := range [...]Duration{a, b} {
		if err := d.Validate(); err != nil {
			return Duration{}, err
		}
	}
	largest := maxUnit(a.LargestUnit(), b.LargestUnit())
	if relativeTo == nil {
		if largest.isCalendar() {
			return Duration{}, rangeErrorf(op, "relativeTo is required for weeks, months and years")
		}
		return durationFromNano(op, a.dayTimeNano().Add(b.dayTimeNano()), largest)
	}
	start, mid, err := e.relativeSpan(relativeTo, a)
	if err != nil {
		return Duration{}, err
	}
	end, err := e.Move(mid, b, Constrain)
	if err != nil {
		return Duration{}, err
	}
	return e.Until(start, end, DiffOptions{LargestUnit: largest})
}
