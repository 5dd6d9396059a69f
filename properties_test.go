package civiltime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabitt1ove/civiltime"
)

var datePairs = [][2]string{
	{"2024-01-15", "2024-03-10"},
	{"2024-01-31", "2024-02-29"},
	{"2019-02-28", "2024-02-29"},
	{"2024-05-31", "2023-11-30"},
	{"2024-02-10", "2025-03-01"},
	{"2023-09-16", "2024-10-03"},
	{"2024-03-10", "2024-03-11"},
	{"1999-12-31", "2000-01-01"},
	{"2024-07-04", "2024-07-04"},
}

// sameSign fails unless every component of d has the sign of d.
func sameSign(t *testing.T, d civiltime.Duration, msgAndArgs ...any) {
	t.Helper()
	s := d.Sign()
	for _, v := range []int64{
		d.Years, d.Months, d.Weeks, d.Days, d.Hours, d.Minutes,
		d.Seconds, d.Milliseconds, d.Microseconds, d.Nanoseconds,
	} {
		switch {
		case v > 0:
			assert.Equal(t, 1, s, msgAndArgs...)
		case v < 0:
			assert.Equal(t, -1, s, msgAndArgs...)
		}
	}
	assert.NoError(t, d.Validate(), msgAndArgs...)
}

func TestUntil_Antisymmetric(t *testing.T) {
	t.Parallel()

	e := civiltime.New()
	for _, p := range datePairs {
		a, b := isoDate(t, p[0]), isoDate(t, p[1])
		for _, largest := range []civiltime.Unit{civiltime.Day, civiltime.Week} {
			fwd, err := e.Until(a, b, civiltime.DiffOptions{LargestUnit: largest})
			require.NoError(t, err)
			back, err := e.Until(b, a, civiltime.DiffOptions{LargestUnit: largest})
			require.NoError(t, err)
			assert.Equal(t, fwd, back.Negated(), "%s..%s (largest %s)", p[0], p[1], largest)
		}
	}

	dateTimes := [][2]string{
		{"2024-01-01T23:00", "2024-01-03T01:00"},
		{"2024-03-10T10:30:15.123456789", "2023-12-31T23:59:59.999"},
		{"2024-02-29T12:00", "2024-02-29T11:59:59.5"},
	}
	for _, p := range dateTimes {
		a, b := plainDateTime(t, p[0]), plainDateTime(t, p[1])
		for _, opts := range []civiltime.DiffOptions{
			{},
			{LargestUnit: civiltime.Hour},
			{LargestUnit: civiltime.Week},
			{SmallestUnit: civiltime.Minute},
			{LargestUnit: civiltime.Hour, SmallestUnit: civiltime.Second},
		} {
			fwd, err := e.Until(a, b, opts)
			require.NoError(t, err)
			back, err := e.Until(b, a, opts)
			require.NoError(t, err)
			assert.Equal(t, fwd, back.Negated(), "%s..%s %+v", p[0], p[1], opts)
		}
	}

	zonedPairs := [][2]string{
		{"2024-03-09T12:00[America/New_York]", "2024-03-10T12:00[America/New_York]"},
		{"2024-11-03T01:30-04:00[America/New_York]", "2024-11-03T01:30-05:00[America/New_York]"},
		{"2024-01-01T00:00[UTC]", "2024-06-01T12:00[Europe/London]"},
	}
	for _, p := range zonedPairs {
		a, b := zoned(t, p[0]), zoned(t, p[1])
		for _, largest := range []civiltime.Unit{civiltime.UnitAuto, civiltime.Minute, civiltime.Second} {
			fwd, err := e.Until(a, b, civiltime.DiffOptions{LargestUnit: largest})
			require.NoError(t, err)
			back, err := e.Until(b, a, civiltime.DiffOptions{LargestUnit: largest})
			require.NoError(t, err)
			assert.Equal(t, fwd, back.Negated(), "%s..%s (largest %s)", p[0], p[1], largest)
		}
	}
}

func TestUntil_SignInvariant(t *testing.T) {
	t.Parallel()

	e := civiltime.New()
	units := []civiltime.Unit{civiltime.Year, civiltime.Month, civiltime.Week, civiltime.Day}
	for _, cal := range []string{civiltime.ISO8601, civiltime.Hebrew, civiltime.IslamicCivil, civiltime.Coptic} {
		for _, p := range datePairs {
			a, b := inCalendar(isoDate(t, p[0]), cal), inCalendar(isoDate(t, p[1]), cal)
			for _, largest := range units {
				d, err := e.Until(a, b, civiltime.DiffOptions{LargestUnit: largest})
				require.NoError(t, err)
				sameSign(t, d, "%s %s..%s (largest %s)", cal, p[0], p[1], largest)
				assert.Equal(t, b.Compare(a), d.Sign(), "%s %s..%s (largest %s)", cal, p[0], p[1], largest)
			}
		}
	}

	dateTimes := [][2]string{
		{"2024-01-31T23:00", "2024-03-01T01:00"},
		{"2024-03-01T01:00", "2024-01-31T23:00"},
		{"2024-02-29T12:00:00.000000001", "2025-02-28T11:59:59.999999999"},
	}
	for _, p := range dateTimes {
		a, b := plainDateTime(t, p[0]), plainDateTime(t, p[1])
		for _, largest := range append(units, civiltime.Hour, civiltime.Nanosecond) {
			d, err := e.Until(a, b, civiltime.DiffOptions{LargestUnit: largest})
			require.NoError(t, err)
			sameSign(t, d, "%s..%s (largest %s)", p[0], p[1], largest)
		}
	}

	zonedPairs := [][2]string{
		{"2024-01-31T09:00[America/New_York]", "2024-03-31T08:00[America/New_York]"},
		{"2024-03-31T08:00[America/New_York]", "2024-01-31T09:00[America/New_York]"},
		{"2024-03-09T12:00[America/New_York]", "2024-03-10T11:00[America/New_York]"},
	}
	for _, p := range zonedPairs {
		a, b := zoned(t, p[0]), zoned(t, p[1])
		for _, largest := range append(units, civiltime.Hour) {
			d, err := e.Until(a, b, civiltime.DiffOptions{LargestUnit: largest})
			require.NoError(t, err)
			sameSign(t, d, "%s..%s (largest %s)", p[0], p[1], largest)
			assert.Equal(t, b.Compare(a), d.Sign(), "%s..%s (largest %s)", p[0], p[1], largest)
		}
	}
}

func TestUntil_AddsBackInCalendars(t *testing.T) {
	t.Parallel()

	e := civiltime.New()
	units := []civiltime.Unit{civiltime.Year, civiltime.Month, civiltime.Week, civiltime.Day}
	for _, cal := range []string{civiltime.Hebrew, civiltime.IslamicCivil, civiltime.Japanese, civiltime.Coptic} {
		t.Run(cal, func(t *testing.T) {
			for _, p := range datePairs {
				a, b := inCalendar(isoDate(t, p[0]), cal), inCalendar(isoDate(t, p[1]), cal)
				for _, largest := range units {
					d, err := e.Until(a, b, civiltime.DiffOptions{LargestUnit: largest})
					require.NoError(t, err)
					got, err := e.Move(a, d, civiltime.Constrain)
					require.NoError(t, err)
					assert.Equal(t, b, got, "%s + %s (largest %s)", p[0], d, largest)
				}
			}

			a := civiltime.PlainDateTime{ISO: plainDateTime(t, "2024-02-10T18:30").ISO, Calendar: cal}
			b := civiltime.PlainDateTime{ISO: plainDateTime(t, "2025-03-01T06:15").ISO, Calendar: cal}
			for _, largest := range units {
				d, err := e.Until(a, b, civiltime.DiffOptions{LargestUnit: largest})
				require.NoError(t, err)
				got, err := e.Move(a, d, civiltime.Constrain)
				require.NoError(t, err)
				assert.Equal(t, b, got, "+ %s (largest %s)", d, largest)
			}
		})
	}
}

func TestUntil_AddsBackZoned(t *testing.T) {
	t.Parallel()

	e := civiltime.New()
	pairs := [][2]string{
		{"2024-01-31T09:00[America/New_York]", "2024-03-31T10:00[America/New_York]"},
		{"2024-03-31T10:00[America/New_York]", "2024-01-31T09:00[America/New_York]"},
		{"2024-03-09T12:00[America/New_York]", "2024-03-10T11:00[America/New_York]"},
		{"2024-11-02T12:00[America/New_York]", "2024-11-03T12:00[America/New_York]"},
		{"2024-11-03T12:00[America/New_York]", "2024-11-02T12:00[America/New_York]"},
		{"2023-06-15T08:00[Europe/London]", "2024-02-29T17:45[Europe/London]"},
		{"2024-02-29T17:45[Europe/London]", "2023-06-15T08:00[Europe/London]"},
	}
	for _, p := range pairs {
		a, b := zoned(t, p[0]), zoned(t, p[1])
		for _, largest := range []civiltime.Unit{civiltime.Year, civiltime.Month, civiltime.Day, civiltime.Hour} {
			d, err := e.Until(a, b, civiltime.DiffOptions{LargestUnit: largest})
			require.NoError(t, err)
			got, err := e.Move(a, d, civiltime.Constrain)
			require.NoError(t, err)
			assert.Equal(t, b.Epoch, got.(civiltime.ZonedDateTime).Epoch, "%s + %s (largest %s)", p[0], d, largest)
		}
	}
}

func TestRound_Idempotent(t *testing.T) {
	t.Parallel()

	e := civiltime.New()
	timeOpts := []civiltime.RoundOptions{
		{SmallestUnit: civiltime.Hour},
		{SmallestUnit: civiltime.Minute, RoundingIncrement: 15, RoundingMode: civiltime.RoundCeil},
		{SmallestUnit: civiltime.Second, RoundingMode: civiltime.RoundHalfEven},
		{SmallestUnit: civiltime.Millisecond, RoundingMode: civiltime.RoundFloor},
	}
	dayOpts := append([]civiltime.RoundOptions{{SmallestUnit: civiltime.Day}}, timeOpts...)

	tm, err := civiltime.ParsePlainTime("23:52:29.5009")
	require.NoError(t, err)
	i, err := civiltime.ParseInstant("2024-01-01T10:22:30.5005Z")
	require.NoError(t, err)
	points := []struct {
		v    any
		opts []civiltime.RoundOptions
	}{
		{plainDateTime(t, "2024-01-01T23:59:59.6"), dayOpts},
		{plainDateTime(t, "2024-03-10T10:29:30.0015"), dayOpts},
		{tm, timeOpts},
		{i, timeOpts},
		{zoned(t, "2024-03-10T01:59:59.9-05:00[America/New_York]"), dayOpts},
		{zoned(t, "2024-11-03T01:45-05:00[America/New_York]"), dayOpts},
		{zoned(t, "2024-03-10T12:30[America/New_York]"), dayOpts},
	}
	for _, p := range points {
		for _, opts := range p.opts {
			once, err := e.Round(p.v, opts)
			require.NoError(t, err, "%v %+v", p.v, opts)
			twice, err := e.Round(once, opts)
			require.NoError(t, err)
			assert.Equal(t, once, twice, "%v %+v", p.v, opts)
		}
	}

	durations := []struct {
		d    civiltime.Duration
		opts civiltime.RoundOptions
	}{
		{civiltime.Duration{Hours: 1, Minutes: 29}, civiltime.RoundOptions{SmallestUnit: civiltime.Hour}},
		{civiltime.Duration{Minutes: 53}, civiltime.RoundOptions{SmallestUnit: civiltime.Minute, RoundingIncrement: 15}},
		{civiltime.Duration{Hours: -36, Seconds: -1}, civiltime.RoundOptions{LargestUnit: civiltime.Day, SmallestUnit: civiltime.Minute}},
		{civiltime.Duration{Days: 40}, civiltime.RoundOptions{SmallestUnit: civiltime.Month, RelativeTo: isoDate(t, "2024-01-31")}},
		{civiltime.Duration{Months: 19, Days: 20, Hours: 13}, civiltime.RoundOptions{LargestUnit: civiltime.Year, SmallestUnit: civiltime.Day, RelativeTo: plainDateTime(t, "2024-02-29T00:00")}},
		{civiltime.Duration{Days: 1, Hours: 12}, civiltime.RoundOptions{SmallestUnit: civiltime.Day, RelativeTo: zoned(t, "2024-03-09T12:00[America/New_York]")}},
	}
	for _, tt := range durations {
		once, err := e.RoundDuration(tt.d, tt.opts)
		require.NoError(t, err, "%s %+v", tt.d, tt.opts)
		twice, err := e.RoundDuration(once, tt.opts)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "%s %+v", tt.d, tt.opts)
	}
}
