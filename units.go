package civiltime

import (
	"fmt"
	"math/big"
	"strings"
)

// Unit is a duration unit. Units are totally ordered from [Nanosecond] to
// [Year]; the zero value means "not specified".
type Unit int

const (
	UnitAuto Unit = iota
	Nanosecond
	Microsecond
	Millisecond
	Second
	Minute
	Hour
	Day
	Week
	Month
	Year
)

var unitNames = [...]string{
	UnitAuto:    "auto",
	Nanosecond:  "nanosecond",
	Microsecond: "microsecond",
	Millisecond: "millisecond",
	Second:      "second",
	Minute:      "minute",
	Hour:        "hour",
	Day:         "day",
	Week:        "week",
	Month:       "month",
	Year:        "year",
}

// unitNanos holds the fixed length of every unit up to a (24-hour) week.
var unitNanos = [...]int64{
	Nanosecond:  1,
	Microsecond: nanoInMicro,
	Millisecond: nanoInMilli,
	Second:      nanoInSecond,
	Minute:      nanoInMinute,
	Hour:        nanoInHour,
	Day:         nanoInDay,
	Week:        nanoInWeek,
}

func (u Unit) String() string {
	if u < UnitAuto || u > Year {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitNames[u]
}

// ParseUnit parses a singular or plural unit name such as "month" or
// "hours". The empty string and "auto" yield [UnitAuto].
func ParseUnit(s string) (Unit, error) {
	name := strings.TrimSuffix(strings.ToLower(s), "s")
	if name == "" {
		return UnitAuto, nil
	}
	for u, n := range unitNames {
		if n == name {
			return Unit(u), nil
		}
	}
	return UnitAuto, rangeErrorf("ParseUnit", "invalid unit %q", s)
}

func (u Unit) isCalendar() bool { return u >= Week }

func (u Unit) isTime() bool { return u >= Nanosecond && u < Day }

func (u Unit) nanos() int64 { return unitNanos[u] }

func maxUnit(a, b Unit) Unit {
	if a > b {
		return a
	}
	return b
}

func minUnit(a, b Unit) Unit {
	if a < b {
		return a
	}
	return b
}

// RoundingMode selects how a value between two increments is rounded.
// The zero value means the operation's default.
type RoundingMode int

const (
	RoundDefault RoundingMode = iota
	RoundCeil
	RoundFloor
	RoundExpand
	RoundTrunc
	RoundHalfCeil
	RoundHalfFloor
	RoundHalfExpand
	RoundHalfTrunc
	RoundHalfEven
)

var roundingModeNames = [...]string{
	RoundDefault:    "default",
	RoundCeil:       "ceil",
	RoundFloor:      "floor",
	RoundExpand:     "expand",
	RoundTrunc:      "trunc",
	RoundHalfCeil:   "halfCeil",
	RoundHalfFloor:  "halfFloor",
	RoundHalfExpand: "halfExpand",
	RoundHalfTrunc:  "halfTrunc",
	RoundHalfEven:   "halfEven",
}

func (m RoundingMode) String() string {
	if m < RoundDefault || m > RoundHalfEven {
		return fmt.Sprintf("RoundingMode(%d)", int(m))
	}
	return roundingModeNames[m]
}

// ParseRoundingMode parses a mode name such as "halfExpand". Matching is
// case-insensitive.
func ParseRoundingMode(s string) (RoundingMode, error) {
	if s == "" {
		return RoundDefault, nil
	}
	for m, n := range roundingModeNames {
		if strings.EqualFold(n, s) {
			return RoundingMode(m), nil
		}
	}
	return RoundDefault, rangeErrorf("ParseRoundingMode", "invalid rounding mode %q", s)
}

func (m RoundingMode) or(def RoundingMode) RoundingMode {
	if m == RoundDefault {
		return def
	}
	return m
}

// negate swaps the directional modes, so that rounding a negated value
// and negating the result matches rounding the original.
func (m RoundingMode) negate() RoundingMode {
	switch m {
	case RoundCeil:
		return RoundFloor
	case RoundFloor:
		return RoundCeil
	case RoundHalfCeil:
		return RoundHalfFloor
	case RoundHalfFloor:
		return RoundHalfCeil
	}
	return m
}

// expands reports whether a value with the given sign, lying strictly
// between two increments, moves away from zero. half compares the
// remainder with half an increment (-1 below, 0 exactly, +1 above) and odd
// reports whether the truncated quotient is odd.
func (m RoundingMode) expands(sign, half int, odd bool) bool {
	switch m {
	case RoundCeil:
		return sign > 0
	case RoundFloor:
		return sign < 0
	case RoundExpand:
		return true
	case RoundTrunc:
		return false
	}
	if half != 0 {
		return half > 0
	}
	switch m {
	case RoundHalfCeil:
		return sign > 0
	case RoundHalfFloor:
		return sign < 0
	case RoundHalfTrunc:
		return false
	case RoundHalfEven:
		return odd
	}
	return true
}

// roundBig rounds n to a multiple of inc.
func roundBig(n, inc *big.Int, mode RoundingMode) *big.Int {
	q, r := new(big.Int).QuoRem(n, inc, new(big.Int))
	if r.Sign() != 0 {
		twice := new(big.Int).Abs(r)
		twice.Lsh(twice, 1)
		half := twice.Cmp(new(big.Int).Abs(inc))
		if mode.expands(n.Sign(), half, q.Bit(0) == 1) {
			q.Add(q, big.NewInt(int64(n.Sign())))
		}
	}
	return q.Mul(q, inc)
}

// roundInt64 rounds n to a multiple of inc.
func roundInt64(n, inc int64, mode RoundingMode) int64 {
	q, r := n/inc, n%inc
	if r == 0 {
		return n
	}
	half := sign64(2*abs64(r) - inc)
	if mode.expands(sign64(n), half, q%2 != 0) {
		q += int64(sign64(n))
	}
	return q * inc
}

// roundDayTimeNano rounds d to a multiple of inc nanoseconds.
func roundDayTimeNano(d DayTimeNano, inc int64, mode RoundingMode) (DayTimeNano, bool) {
	if inc == 1 {
		return d, true
	}
	return dayTimeNanoFromBig(roundBig(d.Big(), big.NewInt(inc), mode))
}
