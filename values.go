package civiltime

import (
	"math/big"
)

// Point is a value that durations can be added to and measured between:
// [PlainDate], [PlainDateTime], [PlainYearMonth], [PlainTime],
// [ZonedDateTime] or [Instant].
type Point interface {
	point()
}

// PlainDate is a calendar date without a time or zone. An empty Calendar
// means ISO 8601.
type PlainDate struct {
	ISO      ISODate
	Calendar string
}

// PlainDateTime is a calendar date and wall-clock time without a zone.
type PlainDateTime struct {
	ISO      ISODateTime
	Calendar string
}

// PlainYearMonth is a month of a calendar. ISO holds the first day of the
// month so that non-ISO months are identified exactly.
type PlainYearMonth struct {
	ISO      ISODate
	Calendar string
}

// PlainMonthDay is a day of the calendar year without a year, such as a
// birthday. ISO holds a reference date with that month code and day: in
// 1972 for ISO 8601, otherwise the latest such date on or before
// 1972-12-31. It is not a [Point]; place it in a year with
// [Engine.MonthDayToPlainDate] first.
type PlainMonthDay struct {
	ISO      ISODate
	Calendar string
}

// PlainTime is a wall-clock time without a date.
type PlainTime struct {
	ISO ISOTime
}

// ZonedDateTime is an instant viewed in a time zone and calendar.
type ZonedDateTime struct {
	Epoch    DayTimeNano
	TimeZone string
	Calendar string
}

// Instant is an exact point in time.
type Instant struct {
	Epoch DayTimeNano
}

func (PlainDate) point()      {}
func (PlainDateTime) point()  {}
func (PlainYearMonth) point() {}
func (PlainTime) point()      {}
func (ZonedDateTime) point()  {}
func (Instant) point()        {}

func calendarID(id string) string {
	if id == "" {
		return ISO8601
	}
	return id
}

// Date returns the date part of dt.
func (dt PlainDateTime) Date() PlainDate {
	return PlainDate{ISO: dt.ISO.ISODate, Calendar: dt.Calendar}
}

// Time returns the wall-clock part of dt.
func (dt PlainDateTime) Time() PlainTime {
	return PlainTime{ISO: dt.ISO.ISOTime}
}

// At combines d with a wall-clock time.
func (d PlainDate) At(t PlainTime) PlainDateTime {
	return PlainDateTime{ISO: ISODateTime{ISODate: d.ISO, ISOTime: t.ISO}, Calendar: d.Calendar}
}

// Compare orders two dates by their ISO fields.
func (d PlainDate) Compare(o PlainDate) int { return d.ISO.Compare(o.ISO) }

// Compare orders two date-times by their ISO fields.
func (dt PlainDateTime) Compare(o PlainDateTime) int { return dt.ISO.Compare(o.ISO) }

// Compare orders two months by their first days.
func (ym PlainYearMonth) Compare(o PlainYearMonth) int { return ym.ISO.Compare(o.ISO) }

// Compare orders two times of day.
func (t PlainTime) Compare(o PlainTime) int { return t.ISO.Compare(o.ISO) }

// Compare orders two zoned values by instant.
func (z ZonedDateTime) Compare(o ZonedDateTime) int { return z.Epoch.Cmp(o.Epoch) }

// Compare orders two instants.
func (i Instant) Compare(o Instant) int { return i.Epoch.Cmp(o.Epoch) }

// Instant returns the exact time of z.
func (z ZonedDateTime) Instant() Instant { return Instant{Epoch: z.Epoch} }

// NewPlainTime validates t.
func NewPlainTime(t ISOTime, overflow Overflow) (PlainTime, error) {
	t, err := regulateISOTime("NewPlainTime", t, overflow)
	if err != nil {
		return PlainTime{}, err
	}
	return PlainTime{ISO: t}, nil
}

// NewInstant returns the instant epoch nanoseconds after 1970-01-01T00:00Z.
func NewInstant(epoch DayTimeNano) (Instant, error) {
	e, err := checkEpochNano("NewInstant", epoch)
	if err != nil {
		return Instant{}, err
	}
	return Instant{Epoch: e}, nil
}

// InstantFromEpochSeconds returns the instant sec seconds after the epoch.
func InstantFromEpochSeconds(sec int64) (Instant, error) {
	return NewInstant(dayTimeNanoFromUnits(sec, nanoInSecond))
}

// InstantFromEpochMilliseconds returns the instant ms milliseconds after the epoch.
func InstantFromEpochMilliseconds(ms int64) (Instant, error) {
	return NewInstant(dayTimeNanoFromUnits(ms, nanoInMilli))
}

// InstantFromEpochMicroseconds returns the instant us microseconds after the epoch.
func InstantFromEpochMicroseconds(us int64) (Instant, error) {
	return NewInstant(dayTimeNanoFromUnits(us, nanoInMicro))
}

// InstantFromEpochNanoseconds returns the instant ns nanoseconds after the
// epoch. The full instant range needs more than 64 bits.
func InstantFromEpochNanoseconds(ns *big.Int) (Instant, error) {
	e, ok := dayTimeNanoFromBig(ns)
	if !ok {
		return Instant{}, rangeErrorf("InstantFromEpochNanoseconds", "instant out of range")
	}
	return NewInstant(e)
}

// EpochMilliseconds returns floor(i / 1ms).
func (i Instant) EpochMilliseconds() int64 {
	return i.Epoch.Days*(nanoInDay/nanoInMilli) + i.Epoch.Nanos/nanoInMilli
}

// EpochNanoseconds returns i as a big integer of nanoseconds.
func (i Instant) EpochNanoseconds() *big.Int {
	return i.Epoch.Big()
}
