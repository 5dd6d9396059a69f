package civiltime

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Precision selects how many fractional second digits are printed.
// The zero value prints as many as needed.
type Precision int

const (
	PrecisionAuto   Precision = 0
	PrecisionMinute Precision = -1
)

// Digits returns a precision of n fractional second digits, 0 to 9.
func Digits(n int) Precision { return Precision(n + 1) }

// digits maps p to -1 for auto, -2 for minutes or the fixed digit count.
func (p Precision) digits() int {
	switch p {
	case PrecisionAuto:
		return -1
	case PrecisionMinute:
		return -2
	}
	return int(p) - 1
}

// increment returns the rounding step of p in nanoseconds.
func (p Precision) increment() int64 {
	switch d := p.digits(); {
	case d == -1:
		return 1
	case d == -2:
		return nanoInMinute
	default:
		inc := int64(1)
		for i := 0; i < 9-d; i++ {
			inc *= 10
		}
		return inc
	}
}

func (p Precision) valid() bool {
	return p >= PrecisionMinute && p <= Digits(9)
}

// CalendarDisplay controls the [u-ca=...] annotation.
type CalendarDisplay int

const (
	// CalendarAuto prints the annotation for calendars other than ISO 8601.
	CalendarAuto CalendarDisplay = iota
	CalendarAlways
	CalendarNever
	// CalendarCritical prints the annotation with the critical flag.
	CalendarCritical
)

// TimeZoneDisplay controls the time zone annotation of zoned values.
type TimeZoneDisplay int

const (
	TimeZoneAuto TimeZoneDisplay = iota
	TimeZoneNever
	TimeZoneCritical
)

// OffsetDisplay controls the UTC offset of zoned values.
type OffsetDisplay int

const (
	OffsetAuto OffsetDisplay = iota
	OffsetNever
)

// FormatOptions configures ISO 8601 output. The zero value prints the
// shortest exact form.
type FormatOptions struct {
	Precision Precision
	// RoundingMode applies when Precision drops digits; defaults to
	// [RoundTrunc].
	RoundingMode RoundingMode
	Calendar     CalendarDisplay
	TimeZone     TimeZoneDisplay
	Offset       OffsetDisplay
}

func (o FormatOptions) check(op string) error {
	if !o.Precision.valid() {
		return rangeErrorf(op, "invalid precision %d", int(o.Precision))
	}
	return nil
}

// formatYear prints years 0..9999 with four digits and others with a
// sign and six digits.
func formatYear(y int) string {
	if y >= 0 && y <= 9999 {
		return fmt.Sprintf("%04d", y)
	}
	if y < 0 {
		return fmt.Sprintf("-%06d", -y)
	}
	return fmt.Sprintf("+%06d", y)
}

func formatISODate(d ISODate) string {
	return fmt.Sprintf("%s-%02d-%02d", formatYear(d.Year), d.Month, d.Day)
}

// formatFraction prints the nanoseconds of a second. digits -1 trims
// trailing zeros; 0 prints nothing.
func formatFraction(nanos int64, digits int) string {
	if digits == 0 || (digits < 0 && nanos == 0) {
		return ""
	}
	s := fmt.Sprintf("%09d", nanos)
	if digits < 0 {
		s = strings.TrimRight(s, "0")
	} else {
		s = s[:digits]
	}
	return "." + s
}

// formatISOTime prints t with digits fractional digits, -1 for as many as
// needed or -2 to stop at minutes.
func formatISOTime(t ISOTime, digits int) string {
	hm := fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
	if digits == -2 {
		return hm
	}
	sub := int64(t.Millisecond)*nanoInMilli + int64(t.Microsecond)*nanoInMicro + int64(t.Nanosecond)
	return fmt.Sprintf("%s:%02d%s", hm, t.Second, formatFraction(sub, digits))
}

func formatISODateTime(dt ISODateTime, digits int) string {
	return formatISODate(dt.ISODate) + "T" + formatISOTime(dt.ISOTime, digits)
}

// formatOffset prints an offset as ±HH:MM, adding seconds and a fraction
// when they are nonzero unless roundMinutes is set.
func formatOffset(nanos int64, roundMinutes bool) string {
	if roundMinutes {
		nanos = roundInt64(nanos, nanoInMinute, RoundHalfExpand)
	}
	sign := "+"
	if nanos < 0 {
		sign, nanos = "-", -nanos
	}
	s := fmt.Sprintf("%s%02d:%02d", sign, nanos/nanoInHour, nanos%nanoInHour/nanoInMinute)
	if rest := nanos % nanoInMinute; rest != 0 {
		s += fmt.Sprintf(":%02d%s", rest/nanoInSecond, formatFraction(rest%nanoInSecond, -1))
	}
	return s
}

func formatCalendarAnnotation(id string, display CalendarDisplay) string {
	id = calendarID(id)
	switch display {
	case CalendarNever:
		return ""
	case CalendarAuto:
		if normalizeCalendarID(id) == ISO8601 {
			return ""
		}
	case CalendarCritical:
		return "[!u-ca=" + id + "]"
	}
	return "[u-ca=" + id + "]"
}

// String returns the ISO 8601 form of d, such as "P1Y2M3DT4H5M6.5S".
// A zero duration prints as "P0D".
func (d Duration) String() string {
	return formatDuration(d, -1)
}

func formatDuration(d Duration, digits int) string {
	if d.Blank() && digits < 0 {
		return "P0D"
	}
	a := d.Abs()
	var b strings.Builder
	if d.Sign() < 0 {
		b.WriteByte('-')
	}
	b.WriteByte('P')
	for _, part := range [...]struct {
		v          int64
		designator byte
	}{{a.Years, 'Y'}, {a.Months, 'M'}, {a.Weeks, 'W'}, {a.Days, 'D'}} {
		if part.v != 0 {
			b.WriteString(strconv.FormatInt(part.v, 10))
			b.WriteByte(part.designator)
		}
	}

	sub := big.NewInt(a.Seconds)
	sub.Mul(sub, big.NewInt(nanoInSecond))
	sub.Add(sub, new(big.Int).Mul(big.NewInt(a.Milliseconds), big.NewInt(nanoInMilli)))
	sub.Add(sub, new(big.Int).Mul(big.NewInt(a.Microseconds), big.NewInt(nanoInMicro)))
	sub.Add(sub, big.NewInt(a.Nanoseconds))
	secs, frac := new(big.Int).QuoRem(sub, big.NewInt(nanoInSecond), new(big.Int))

	showSeconds := sub.Sign() != 0 || digits >= 0 ||
		(a.Hours == 0 && a.Minutes == 0 && a.Years == 0 && a.Months == 0 && a.Weeks == 0 && a.Days == 0)
	if a.Hours != 0 || a.Minutes != 0 || showSeconds {
		b.WriteByte('T')
	}
	if a.Hours != 0 {
		b.WriteString(strconv.FormatInt(a.Hours, 10) + "H")
	}
	if a.Minutes != 0 {
		b.WriteString(strconv.FormatInt(a.Minutes, 10) + "M")
	}
	if showSeconds {
		b.WriteString(secs.String())
		b.WriteString(formatFraction(frac.Int64(), digits))
		b.WriteByte('S')
	}
	return b.String()
}

func (d PlainDate) String() string {
	return formatISODate(d.ISO) + formatCalendarAnnotation(d.Calendar, CalendarAuto)
}

func (dt PlainDateTime) String() string {
	return formatISODateTime(dt.ISO, -1) + formatCalendarAnnotation(dt.Calendar, CalendarAuto)
}

// String prints YYYY-MM for ISO months. Other calendars need the
// reference day to identify the month.
func (ym PlainYearMonth) String() string {
	return formatYearMonth(ym, CalendarAuto)
}

func formatYearMonth(ym PlainYearMonth, display CalendarDisplay) string {
	ann := formatCalendarAnnotation(ym.Calendar, display)
	if normalizeCalendarID(calendarID(ym.Calendar)) == ISO8601 {
		return fmt.Sprintf("%s-%02d", formatYear(ym.ISO.Year), ym.ISO.Month) + ann
	}
	return formatISODate(ym.ISO) + formatCalendarAnnotation(ym.Calendar, max(display, CalendarAlways))
}

// String prints MM-DD for ISO month-days and the reference date with a
// calendar annotation otherwise.
func (md PlainMonthDay) String() string {
	return formatMonthDay(md, CalendarAuto)
}

// FormatMonthDay prints md with the chosen calendar annotation.
func (e *Engine) FormatMonthDay(md PlainMonthDay, opts FormatOptions) string {
	return formatMonthDay(md, opts.Calendar)
}

func formatMonthDay(md PlainMonthDay, display CalendarDisplay) string {
	ann := formatCalendarAnnotation(md.Calendar, display)
	if normalizeCalendarID(calendarID(md.Calendar)) == ISO8601 {
		return fmt.Sprintf("%02d-%02d", md.ISO.Month, md.ISO.Day) + ann
	}
	return formatISODate(md.ISO) + formatCalendarAnnotation(md.Calendar, max(display, CalendarAlways))
}

func (t PlainTime) String() string {
	return formatISOTime(t.ISO, -1)
}

// String prints i in UTC, such as "2024-01-01T00:00:00Z".
func (i Instant) String() string {
	return formatISODateTime(isoDateTimeFromEpochNano(i.Epoch), -1) + "Z"
}

// String prints z with its offset and time zone using the default engine.
func (z ZonedDateTime) String() string {
	s, err := Default().FormatZoned(z, FormatOptions{})
	if err != nil {
		return z.Instant().String() + "[" + z.TimeZone + "]"
	}
	return s
}

// FormatDate prints d with the chosen calendar annotation.
func (e *Engine) FormatDate(d PlainDate, opts FormatOptions) string {
	return formatISODate(d.ISO) + formatCalendarAnnotation(d.Calendar, opts.Calendar)
}

// FormatYearMonth prints ym with the chosen calendar annotation.
func (e *Engine) FormatYearMonth(ym PlainYearMonth, opts FormatOptions) string {
	return formatYearMonth(ym, opts.Calendar)
}

// FormatDateTime prints dt rounded to opts.Precision.
func (e *Engine) FormatDateTime(dt PlainDateTime, opts FormatOptions) (string, error) {
	const op = "FormatDateTime"
	if err := opts.check(op); err != nil {
		return "", err
	}
	n := roundInt64(dt.ISO.nanoOfDay(), opts.Precision.increment(), opts.RoundingMode.or(RoundTrunc))
	iso := ISODateTime{ISODate: dt.ISO.ISODate, ISOTime: isoTimeFromNano(n % nanoInDay)}
	if n >= nanoInDay {
		iso.ISODate = iso.addDays(1)
	}
	iso, err := checkISODateTime(op, iso)
	if err != nil {
		return "", err
	}
	return formatISODateTime(iso, opts.Precision.digits()) + formatCalendarAnnotation(dt.Calendar, opts.Calendar), nil
}

// FormatTime prints t rounded to opts.Precision, wrapping at midnight.
func (e *Engine) FormatTime(t PlainTime, opts FormatOptions) (string, error) {
	if err := opts.check("FormatTime"); err != nil {
		return "", err
	}
	n := roundInt64(t.ISO.nanoOfDay(), opts.Precision.increment(), opts.RoundingMode.or(RoundTrunc))
	return formatISOTime(isoTimeFromNano(n%nanoInDay), opts.Precision.digits()), nil
}

// FormatInstant prints i rounded to opts.Precision. An empty tz prints UTC
// with a Z designator; otherwise the local time in tz with its offset.
func (e *Engine) FormatInstant(i Instant, tz string, opts FormatOptions) (string, error) {
	const op = "FormatInstant"
	if err := opts.check(op); err != nil {
		return "", err
	}
	epoch, ok := roundDayTimeNano(i.Epoch, opts.Precision.increment(), opts.RoundingMode.or(RoundTrunc))
	if !ok {
		return "", rangeErrorf(op, "instant out of range")
	}
	epoch, err := checkEpochNano(op, epoch)
	if err != nil {
		return "", err
	}
	if tz == "" {
		return formatISODateTime(isoDateTimeFromEpochNano(epoch), opts.Precision.digits()) + "Z", nil
	}
	zone, err := e.LookupTimeZone(tz)
	if err != nil {
		return "", withOp(err, op)
	}
	offset := zone.OffsetNanosecondsFor(epoch)
	local := isoDateTimeFromEpochNano(epoch.AddNanos(offset))
	return formatISODateTime(local, opts.Precision.digits()) + formatOffset(offset, true), nil
}

// FormatZoned prints z as a local date-time with offset, time zone and
// calendar annotations, such as "2024-03-10T03:30:00-04:00[America/New_York]".
func (e *Engine) FormatZoned(z ZonedDateTime, opts FormatOptions) (string, error) {
	const op = "FormatZoned"
	if err := opts.check(op); err != nil {
		return "", err
	}
	zone, err := e.LookupTimeZone(z.TimeZone)
	if err != nil {
		return "", withOp(err, op)
	}
	epoch, ok := roundDayTimeNano(z.Epoch, opts.Precision.increment(), opts.RoundingMode.or(RoundTrunc))
	if !ok {
		return "", rangeErrorf(op, "instant out of range")
	}
	if epoch, err = checkEpochNano(op, epoch); err != nil {
		return "", err
	}
	offset := zone.OffsetNanosecondsFor(epoch)
	var b strings.Builder
	b.WriteString(formatISODateTime(isoDateTimeFromEpochNano(epoch.AddNanos(offset)), opts.Precision.digits()))
	if opts.Offset != OffsetNever {
		b.WriteString(formatOffset(offset, true))
	}
	switch opts.TimeZone {
	case TimeZoneAuto:
		b.WriteString("[" + zone.ID() + "]")
	case TimeZoneCritical:
		b.WriteString("[!" + zone.ID() + "]")
	}
	b.WriteString(formatCalendarAnnotation(z.Calendar, opts.Calendar))
	return b.String(), nil
}

// FormatDuration prints d with its time components rounded to
// opts.Precision. Minute precision is not allowed for durations.
func (e *Engine) FormatDuration(d Duration, opts FormatOptions) (string, error) {
	const op = "FormatDuration"
	if err := d.Validate(); err != nil {
		return "", withOp(err, op)
	}
	if err := opts.check(op); err != nil {
		return "", err
	}
	if opts.Precision == PrecisionMinute {
		return "", rangeErrorf(op, "durations cannot be printed to minutes")
	}
	if opts.Precision == PrecisionAuto {
		return d.String(), nil
	}
	rounded, ok := roundDayTimeNano(d.timeNano(), opts.Precision.increment(), opts.RoundingMode.or(RoundTrunc))
	if !ok {
		return "", rangeErrorf(op, "duration out of range")
	}
	timeDur, err := durationFromNano(op, rounded, minUnit(maxUnit(d.LargestUnit(), Second), Hour))
	if err != nil {
		return "", err
	}
	out := combineDurations(d.dateOnly(), timeDur)
	if err := out.Validate(); err != nil {
		return "", withOp(err, op)
	}
	return formatDuration(out, opts.Precision.digits()), nil
}
