package civiltime

import (
	"math/big"
)

const (
	nanoInMicro  int64 = 1_000
	nanoInMilli  int64 = 1_000_000
	nanoInSecond int64 = 1_000_000_000
	nanoInMinute int64 = 60 * nanoInSecond
	nanoInHour   int64 = 60 * nanoInMinute
	nanoInDay    int64 = 24 * nanoInHour
	nanoInWeek   int64 = 7 * nanoInDay

	secInDay int64 = 86_400

	// maxEpochDays bounds instants to ±10^8 days around 1970-01-01T00:00Z.
	maxEpochDays int64 = 100_000_000
)

// DayTimeNano is an exact nanosecond count split into whole days and a
// nanosecond-of-day remainder. Nanos is always in [0, nanoInDay), so the
// value is Days*86400e9 + Nanos. It represents both instants (nanoseconds
// since 1970-01-01T00:00Z) and signed spans.
type DayTimeNano struct {
	Days  int64
	Nanos int64
}

// NewDayTimeNano normalizes days and nanos into a DayTimeNano.
func NewDayTimeNano(days, nanos int64) DayTimeNano {
	q, r := floorDivMod(nanos, nanoInDay)
	return DayTimeNano{Days: days + q, Nanos: r}
}

// dayTimeNanoFromUnits returns n*unitNanos without overflowing int64.
func dayTimeNanoFromUnits(n, unitNanos int64) DayTimeNano {
	perDay := nanoInDay / unitNanos
	days, rem := floorDivMod(n, perDay)
	return DayTimeNano{Days: days, Nanos: rem * unitNanos}
}

// Add returns d+o.
func (d DayTimeNano) Add(o DayTimeNano) DayTimeNano {
	return NewDayTimeNano(d.Days+o.Days, d.Nanos+o.Nanos)
}

// Sub returns d-o.
func (d DayTimeNano) Sub(o DayTimeNano) DayTimeNano {
	return NewDayTimeNano(d.Days-o.Days, d.Nanos-o.Nanos)
}

// AddNanos returns d+n.
func (d DayTimeNano) AddNanos(n int64) DayTimeNano {
	return d.Add(dayTimeNanoFromUnits(n, 1))
}

// Neg returns -d.
func (d DayTimeNano) Neg() DayTimeNano {
	return NewDayTimeNano(-d.Days, -d.Nanos)
}

// Cmp compares d and o and returns -1, 0 or +1.
func (d DayTimeNano) Cmp(o DayTimeNano) int {
	switch {
	case d.Days < o.Days:
		return -1
	case d.Days > o.Days:
		return 1
	case d.Nanos < o.Nanos:
		return -1
	case d.Nanos > o.Nanos:
		return 1
	}
	return 0
}

// Sign returns -1, 0 or +1.
func (d DayTimeNano) Sign() int {
	return d.Cmp(DayTimeNano{})
}

// IsZero reports whether d is zero.
func (d DayTimeNano) IsZero() bool {
	return d.Days == 0 && d.Nanos == 0
}

// Abs returns |d|.
func (d DayTimeNano) Abs() DayTimeNano {
	if d.Sign() < 0 {
		return d.Neg()
	}
	return d
}

// Big returns d as a single big integer of nanoseconds.
func (d DayTimeNano) Big() *big.Int {
	n := big.NewInt(d.Days)
	n.Mul(n, big.NewInt(nanoInDay))
	return n.Add(n, big.NewInt(d.Nanos))
}

// Int64 returns d as nanoseconds when it fits in an int64.
func (d DayTimeNano) Int64() (int64, bool) {
	n := d.Big()
	if !n.IsInt64() {
		return 0, false
	}
	return n.Int64(), true
}

// truncParts returns d as days and a remainder truncated toward zero, so
// both results share d's sign.
func (d DayTimeNano) truncParts() (days, nanos int64) {
	if d.Days < 0 && d.Nanos > 0 {
		return d.Days + 1, d.Nanos - nanoInDay
	}
	return d.Days, d.Nanos
}

// dayTimeNanoFromBig converts n nanoseconds back into a DayTimeNano.
func dayTimeNanoFromBig(n *big.Int) (DayTimeNano, bool) {
	q, r := new(big.Int).DivMod(n, big.NewInt(nanoInDay), new(big.Int))
	if !q.IsInt64() {
		return DayTimeNano{}, false
	}
	return DayTimeNano{Days: q.Int64(), Nanos: r.Int64()}, true
}

// inInstantRange reports whether d lies within ±10^8 days of the epoch.
func (d DayTimeNano) inInstantRange() bool {
	if d.Days < -maxEpochDays || d.Days > maxEpochDays {
		return false
	}
	return d.Days != maxEpochDays || d.Nanos == 0
}

func checkEpochNano(op string, d DayTimeNano) (DayTimeNano, error) {
	if !d.inInstantRange() {
		return DayTimeNano{}, rangeErrorf(op, "instant out of range")
	}
	return d, nil
}

// epochSeconds returns floor(d / 1s).
func (d DayTimeNano) epochSeconds() int64 {
	return d.Days*secInDay + d.Nanos/nanoInSecond
}

// floorDivMod returns q, r such that a = q*b + r and 0 <= r < |b| for b > 0.
func floorDivMod(a, b int64) (int64, int64) {
	q, r := a/b, a%b
	if r != 0 && (r < 0) != (b < 0) {
		q--
		r += b
	}
	return q, r
}

func floorDiv(a, b int64) int64 {
	q, _ := floorDivMod(a, b)
	return q
}

func sign64(n int64) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
