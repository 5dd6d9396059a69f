package civiltime

import (
	"math/big"
)

// Duration is a span expressed in ten signed components. All nonzero
// components share one sign; [NewDuration] and every operation of this
// package reject durations that mix signs.
type Duration struct {
	Years        int64
	Months       int64
	Weeks        int64
	Days         int64
	Hours        int64
	Minutes      int64
	Seconds      int64
	Milliseconds int64
	Microseconds int64
	Nanoseconds  int64
}

var (
	maxCalendarField = int64(1) << 32
	maxDurationSecs  = new(big.Int).Lsh(big.NewInt(1), 53)
)

// NewDuration returns a validated Duration.
func NewDuration(years, months, weeks, days, hours, minutes, seconds, milliseconds, microseconds, nanoseconds int64) (Duration, error) {
	d := Duration{
		Years:        years,
		Months:       months,
		Weeks:        weeks,
		Days:         days,
		Hours:        hours,
		Minutes:      minutes,
		Seconds:      seconds,
		Milliseconds: milliseconds,
		Microseconds: microseconds,
		Nanoseconds:  nanoseconds,
	}
	if err := d.Validate(); err != nil {
		return Duration{}, withOp(err, "NewDuration")
	}
	return d, nil
}

func (d Duration) fields() [10]int64 {
	return [10]int64{
		d.Nanoseconds, d.Microseconds, d.Milliseconds, d.Seconds, d.Minutes,
		d.Hours, d.Days, d.Weeks, d.Months, d.Years,
	}
}

// Get returns the component for u.
func (d Duration) Get(u Unit) int64 {
	if u < Nanosecond || u > Year {
		return 0
	}
	return d.fields()[u-Nanosecond]
}

// with returns d with the component for u set to v.
func (d Duration) with(u Unit, v int64) Duration {
	switch u {
	case Nanosecond:
		d.Nanoseconds = v
	case Microsecond:
		d.Microseconds = v
	case Millisecond:
		d.Milliseconds = v
	case Second:
		d.Seconds = v
	case Minute:
		d.Minutes = v
	case Hour:
		d.Hours = v
	case Day:
		d.Days = v
	case Week:
		d.Weeks = v
	case Month:
		d.Months = v
	case Year:
		d.Years = v
	}
	return d
}

// clearBelow zeroes every component smaller than u.
func (d Duration) clearBelow(u Unit) Duration {
	for unit := Nanosecond; unit < u; unit++ {
		d = d.with(unit, 0)
	}
	return d
}

// Sign returns -1, 0 or +1.
func (d Duration) Sign() int {
	for _, v := range d.fields() {
		if v != 0 {
			return sign64(v)
		}
	}
	return 0
}

// Blank reports whether every component is zero.
func (d Duration) Blank() bool {
	return d == Duration{}
}

// Negated returns d with every component negated.
func (d Duration) Negated() Duration {
	return Duration{
		Years:        -d.Years,
		Months:       -d.Months,
		Weeks:        -d.Weeks,
		Days:         -d.Days,
		Hours:        -d.Hours,
		Minutes:      -d.Minutes,
		Seconds:      -d.Seconds,
		Milliseconds: -d.Milliseconds,
		Microseconds: -d.Microseconds,
		Nanoseconds:  -d.Nanoseconds,
	}
}

// Abs returns d with every component made non-negative.
func (d Duration) Abs() Duration {
	if d.Sign() < 0 {
		return d.Negated()
	}
	return d
}

// LargestUnit returns the largest unit with a nonzero component, or
// [Nanosecond] for a blank duration.
func (d Duration) LargestUnit() Unit {
	f := d.fields()
	for u := Year; u > Nanosecond; u-- {
		if f[u-Nanosecond] != 0 {
			return u
		}
	}
	return Nanosecond
}

func (d Duration) hasCalendarUnits() bool {
	return d.Years != 0 || d.Months != 0 || d.Weeks != 0
}

// Validate reports whether d mixes signs or exceeds the representable
// range: calendar components below 2^32 in magnitude and the days and time
// components together below 2^53 seconds.
func (d Duration) Validate() error {
	sign := 0
	for _, v := range d.fields() {
		s := sign64(v)
		if s == 0 {
			continue
		}
		if sign != 0 && s != sign {
			return rangeErrorf("", "mixed-sign duration %s", d)
		}
		sign = s
	}
	for _, v := range []int64{d.Years, d.Months, d.Weeks} {
		if abs64(v) >= maxCalendarField {
			return rangeErrorf("", "duration calendar component out of range")
		}
	}
	secs := new(big.Int).Quo(d.bigNanos(), big.NewInt(nanoInSecond))
	if secs.CmpAbs(maxDurationSecs) >= 0 {
		return rangeErrorf("", "duration time span out of range")
	}
	return nil
}

// bigNanos sums days and time components exactly, treating a day as 24 hours.
func (d Duration) bigNanos() *big.Int {
	sum := new(big.Int)
	for u := Nanosecond; u <= Day; u++ {
		v := big.NewInt(d.Get(u))
		sum.Add(sum, v.Mul(v, big.NewInt(u.nanos())))
	}
	return sum
}

// timeNano returns the hours..nanoseconds components as one span. d must
// be valid.
func (d Duration) timeNano() DayTimeNano {
	var sum DayTimeNano
	for u := Nanosecond; u < Day; u++ {
		sum = sum.Add(dayTimeNanoFromUnits(d.Get(u), u.nanos()))
	}
	return sum
}

// dayTimeNano returns the days..nanoseconds components as one span with
// 24-hour days. d must be valid.
func (d Duration) dayTimeNano() DayTimeNano {
	return d.timeNano().Add(DayTimeNano{Days: d.Days})
}

// dateOnly returns d with hours..nanoseconds cleared.
func (d Duration) dateOnly() Duration {
	return d.clearBelow(Day)
}

// durationFromNano splits span into components no larger than largest,
// which must be at most [Day].
func durationFromNano(op string, span DayTimeNano, largest Unit) (Duration, error) {
	var d Duration
	days, nanos := span.truncParts()
	if largest >= Day {
		d.Days = days
	} else {
		q, r := new(big.Int).QuoRem(span.Big(), big.NewInt(largest.nanos()), new(big.Int))
		if !q.IsInt64() {
			return Duration{}, rangeErrorf(op, "duration out of range for %s", largest)
		}
		d = d.with(largest, q.Int64())
		nanos = r.Int64()
		largest--
	}
	for u := minUnit(largest, Hour); u >= Nanosecond; u-- {
		n := u.nanos()
		d = d.with(u, nanos/n)
		nanos %= n
	}
	if err := d.Validate(); err != nil {
		return Duration{}, withOp(err, op)
	}
	return d, nil
}
