package civiltime

// ISODate is a proleptic Gregorian calendar date. It is comparable and is
// the canonical storage for dates of every calendar.
type ISODate struct {
	Year  int
	Month int
	Day   int
}

// ISOTime is a wall-clock time of day.
type ISOTime struct {
	Hour        int
	Minute      int
	Second      int
	Millisecond int
	Microsecond int
	Nanosecond  int
}

// ISODateTime is an ISO date with a time of day.
type ISODateTime struct {
	ISODate
	ISOTime
}

const (
	minISOYear = -271821
	maxISOYear = 275760

	// epochDays of 1970-01-01 counted from 0000-03-01.
	unixEpochShift = 719468
)

func (d ISODate) before(other ISODate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d ISODate) after(other ISODate) bool {
	return other.before(d)
}

func (d ISODate) inRange(from, to ISODate) bool {
	return !d.before(from) && !to.before(d)
}

// Compare returns -1, 0 or +1 when d is before, equal to or after other.
func (d ISODate) Compare(other ISODate) int {
	switch {
	case d.before(other):
		return -1
	case d.after(other):
		return 1
	}
	return 0
}

// Compare orders two times of day.
func (t ISOTime) Compare(other ISOTime) int {
	return sign64(t.nanoOfDay() - other.nanoOfDay())
}

// Compare orders two date-times.
func (dt ISODateTime) Compare(other ISODateTime) int {
	if c := dt.ISODate.Compare(other.ISODate); c != 0 {
		return c
	}
	return dt.ISOTime.Compare(other.ISOTime)
}

func isoLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func isoDaysInMonth(year, month int) int {
	switch month {
	case 2:
		if isoLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	}
	return 31
}

func isoDaysInYear(year int) int {
	if isoLeapYear(year) {
		return 366
	}
	return 365
}

// epochDaysFromISO counts days from 1970-01-01 using the era-based
// civil-from-days algorithm, valid for any int64 year within range.
func epochDaysFromISO(year, month, day int) int64 {
	y := int64(year)
	if month <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	m := int64(month)
	var mp int64
	if m > 2 {
		mp = m - 3
	} else {
		mp = m + 9
	}
	doy := (153*mp+2)/5 + int64(day) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - unixEpochShift
}

// isoFromEpochDays is the inverse of epochDaysFromISO.
func isoFromEpochDays(days int64) ISODate {
	z := days + unixEpochShift
	era := floorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	m := mp + 3
	if mp >= 10 {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return ISODate{Year: int(y), Month: int(m), Day: int(d)}
}

func (d ISODate) epochDays() int64 {
	return epochDaysFromISO(d.Year, d.Month, d.Day)
}

// addDays returns d moved by n days without a range check.
func (d ISODate) addDays(n int64) ISODate {
	if n == 0 {
		return d
	}
	return isoFromEpochDays(d.epochDays() + n)
}

func (t ISOTime) nanoOfDay() int64 {
	return int64(t.Hour)*nanoInHour +
		int64(t.Minute)*nanoInMinute +
		int64(t.Second)*nanoInSecond +
		int64(t.Millisecond)*nanoInMilli +
		int64(t.Microsecond)*nanoInMicro +
		int64(t.Nanosecond)
}

// isoTimeFromNano splits a nanosecond-of-day in [0, nanoInDay).
func isoTimeFromNano(n int64) ISOTime {
	return ISOTime{
		Hour:        int(n / nanoInHour),
		Minute:      int(n % nanoInHour / nanoInMinute),
		Second:      int(n % nanoInMinute / nanoInSecond),
		Millisecond: int(n % nanoInSecond / nanoInMilli),
		Microsecond: int(n % nanoInMilli / nanoInMicro),
		Nanosecond:  int(n % nanoInMicro),
	}
}

// epochNano interprets dt as UTC.
func (dt ISODateTime) epochNano() DayTimeNano {
	return DayTimeNano{Days: dt.epochDays(), Nanos: dt.nanoOfDay()}
}

func isoDateTimeFromEpochNano(e DayTimeNano) ISODateTime {
	return ISODateTime{ISODate: isoFromEpochDays(e.Days), ISOTime: isoTimeFromNano(e.Nanos)}
}

// addTimeNano adds span to t and returns the new time with the number of
// whole days that overflowed.
func (t ISOTime) addTimeNano(span DayTimeNano) (ISOTime, int64) {
	sum := span.AddNanos(t.nanoOfDay())
	return isoTimeFromNano(sum.Nanos), sum.Days
}

// The supported date range keeps every date-time within one day of the
// instant range, so that any local time can still be given an offset.
func (d ISODate) inBounds() bool {
	if d.Year < minISOYear || d.Year > maxISOYear {
		return false
	}
	days := d.epochDays()
	return days >= -maxEpochDays-1 && days <= maxEpochDays
}

func (dt ISODateTime) inBounds() bool {
	if !dt.ISODate.inBounds() {
		return false
	}
	return dt.epochDays() != -maxEpochDays-1 || dt.nanoOfDay() > 0
}

func checkISODate(op string, d ISODate) (ISODate, error) {
	if !d.inBounds() {
		return ISODate{}, rangeErrorf(op, "date %04d-%02d-%02d out of range", d.Year, d.Month, d.Day)
	}
	return d, nil
}

func checkISODateTime(op string, dt ISODateTime) (ISODateTime, error) {
	if !dt.inBounds() {
		return ISODateTime{}, rangeErrorf(op, "date-time out of range")
	}
	return dt, nil
}

func isoDateFromEpochDaysChecked(op string, days int64) (ISODate, error) {
	if days < -maxEpochDays-1 || days > maxEpochDays {
		return ISODate{}, rangeErrorf(op, "date out of range")
	}
	return isoFromEpochDays(days), nil
}

// constrainInt clamps v to [lo, hi] or, under Reject, fails when it is
// outside.
func constrainInt(op, name string, v, lo, hi int, overflow Overflow) (int, error) {
	if v >= lo && v <= hi {
		return v, nil
	}
	if overflow == Reject {
		return 0, rangeErrorf(op, "%s %d out of range [%d, %d]", name, v, lo, hi)
	}
	return min(max(v, lo), hi), nil
}

// regulateISODate validates or clamps raw ISO fields.
func regulateISODate(op string, year, month, day int, overflow Overflow) (ISODate, error) {
	if month < 1 || day < 1 {
		return ISODate{}, rangeErrorf(op, "month and day must be positive")
	}
	m, err := constrainInt(op, "month", month, 1, 12, overflow)
	if err != nil {
		return ISODate{}, err
	}
	d, err := constrainInt(op, "day", day, 1, isoDaysInMonth(year, m), overflow)
	if err != nil {
		return ISODate{}, err
	}
	return checkISODate(op, ISODate{Year: year, Month: m, Day: d})
}

// regulateISOTime validates or clamps raw time fields.
func regulateISOTime(op string, t ISOTime, overflow Overflow) (ISOTime, error) {
	limits := []struct {
		name string
		v    *int
		max  int
	}{
		{"hour", &t.Hour, 23},
		{"minute", &t.Minute, 59},
		{"second", &t.Second, 59},
		{"millisecond", &t.Millisecond, 999},
		{"microsecond", &t.Microsecond, 999},
		{"nanosecond", &t.Nanosecond, 999},
	}
	for _, l := range limits {
		v, err := constrainInt(op, l.name, *l.v, 0, l.max, overflow)
		if err != nil {
			return ISOTime{}, err
		}
		*l.v = v
	}
	return t, nil
}
