package civiltime_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabitt1ove/civiltime"
)

func mustDuration(t *testing.T, s string) civiltime.Duration {
	t.Helper()
	d, err := civiltime.ParseDuration(s)
	require.NoError(t, err, s)
	return d
}

func TestAdd_PlainDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		date string
		dur  string
		want string
	}{
		{"2021-01-31", "P1M", "2021-02-28"},
		{"2024-01-31", "P1M", "2024-02-29"},
		{"2024-02-29", "P1Y", "2025-02-28"},
		{"2024-02-29", "-P1Y", "2023-02-28"},
		{"2024-01-31", "P1M1D", "2024-03-01"},
		{"2024-01-01", "P1W", "2024-01-08"},
		{"2024-01-01", "PT36H", "2024-01-02"},
		{"2024-01-01", "-PT36H", "2023-12-31"},
		{"2024-12-31", "P1D", "2025-01-01"},
		{"2024-01-01", "P0D", "2024-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.date+"+"+tt.dur, func(t *testing.T) {
			got, err := civiltime.Add(isoDate(t, tt.date), mustDuration(t, tt.dur), civiltime.Constrain)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestAdd_RejectOverflow(t *testing.T) {
	t.Parallel()

	_, err := civiltime.Add(isoDate(t, "2021-01-31"), civiltime.Duration{Months: 1}, civiltime.Reject)
	assert.True(t, errors.Is(err, civiltime.ErrRange), "%v", err)

	got, err := civiltime.Add(isoDate(t, "2021-01-15"), civiltime.Duration{Months: 1}, civiltime.Reject)
	require.NoError(t, err)
	assert.Equal(t, "2021-02-15", got.String())
}

func TestAdd_PlainDateTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dt   string
		dur  string
		want string
	}{
		{"2024-01-01T23:00", "PT2H", "2024-01-02T01:00:00"},
		{"2024-01-31T12:00", "P1MT12H", "2024-03-01T00:00:00"},
		{"2024-03-01T00:00", "-PT0.000000001S", "2024-02-29T23:59:59.999999999"},
		{"2024-01-01T00:00", "PT1000000H", "2138-01-29T16:00:00"},
	}
	for _, tt := range tests {
		got, err := civiltime.Add(plainDateTime(t, tt.dt), mustDuration(t, tt.dur), civiltime.Constrain)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.String(), "%s + %s", tt.dt, tt.dur)
	}
}

func TestAdd_PlainTime(t *testing.T) {
	t.Parallel()

	tm, err := civiltime.ParsePlainTime("23:30")
	require.NoError(t, err)

	got, err := civiltime.Add(tm, civiltime.Duration{Hours: 1}, civiltime.Constrain)
	require.NoError(t, err)
	assert.Equal(t, "00:30:00", got.String())

	got, err = civiltime.Add(tm, civiltime.Duration{Days: 3, Minutes: 45}, civiltime.Constrain)
	require.NoError(t, err)
	assert.Equal(t, "00:15:00", got.String(), "days do not move a time of day")

	got, err = civiltime.Subtract(tm, civiltime.Duration{Hours: 24, Seconds: 1}, civiltime.Constrain)
	require.NoError(t, err)
	assert.Equal(t, "23:29:59", got.String())
}

func TestAdd_PlainYearMonth(t *testing.T) {
	t.Parallel()

	ym, err := civiltime.ParsePlainYearMonth("2024-11")
	require.NoError(t, err)

	got, err := civiltime.Add(ym, civiltime.Duration{Months: 3}, civiltime.Constrain)
	require.NoError(t, err)
	assert.Equal(t, "2025-02", got.String())

	got, err = civiltime.Subtract(ym, civiltime.Duration{Years: 1, Months: 11}, civiltime.Constrain)
	require.NoError(t, err)
	assert.Equal(t, "2022-12", got.String())

	_, err = civiltime.Add(ym, civiltime.Duration{Days: 1}, civiltime.Constrain)
	assert.True(t, errors.Is(err, civiltime.ErrRange), "%v", err)
}

func TestAdd_Instant(t *testing.T) {
	t.Parallel()

	i, err := civiltime.ParseInstant("2024-01-01T00:00Z")
	require.NoError(t, err)

	got, err := civiltime.Add(i, civiltime.Duration{Hours: 36}, civiltime.Constrain)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02T12:00:00Z", got.String())

	_, err = civiltime.Add(i, civiltime.Duration{Days: 1}, civiltime.Constrain)
	assert.True(t, errors.Is(err, civiltime.ErrRange), "days have no fixed length for instants: %v", err)

	last, err := civiltime.NewInstant(civiltime.NewDayTimeNano(100_000_000, 0))
	require.NoError(t, err)
	_, err = civiltime.Add(last, civiltime.Duration{Nanoseconds: 1}, civiltime.Constrain)
	assert.True(t, errors.Is(err, civiltime.ErrRange), "%v", err)
}

func TestAdd_Zoned(t *testing.T) {
	t.Parallel()

	e := civiltime.New()
	start := zoned(t, "2024-03-09T12:00[America/New_York]")
	tests := []struct {
		dur  string
		want string
	}{
		{"P1D", "2024-03-10T12:00:00-04:00[America/New_York]"},
		{"PT24H", "2024-03-10T13:00:00-04:00[America/New_York]"},
		{"P1DT1H", "2024-03-10T13:00:00-04:00[America/New_York]"},
		{"-P1M", "2024-02-09T12:00:00-05:00[America/New_York]"},
	}
	for _, tt := range tests {
		t.Run(tt.dur, func(t *testing.T) {
			got, err := e.Move(start, mustDuration(t, tt.dur), civiltime.Constrain)
			require.NoError(t, err)
			s, err := e.FormatZoned(got.(civiltime.ZonedDateTime), civiltime.FormatOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
		})
	}

	// The wall-clock time lands in the gap and moves forward.
	got, err := e.Move(zoned(t, "2024-03-09T02:30[America/New_York]"), civiltime.Duration{Days: 1}, civiltime.Constrain)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10T07:30:00Z", got.(civiltime.ZonedDateTime).Instant().String())
}

func TestAdd_OutOfRange(t *testing.T) {
	t.Parallel()

	_, err := civiltime.Add(isoDate(t, "+275760-09-13"), civiltime.Duration{Days: 1}, civiltime.Constrain)
	assert.True(t, errors.Is(err, civiltime.ErrRange), "%v", err)

	_, err = civiltime.Add(isoDate(t, "2024-01-01"), civiltime.Duration{Years: 300_000}, civiltime.Constrain)
	assert.True(t, errors.Is(err, civiltime.ErrRange), "%v", err)

	_, err = civiltime.Add(isoDate(t, "2024-01-01"), civiltime.Duration{Days: 1, Hours: -1}, civiltime.Constrain)
	assert.True(t, errors.Is(err, civiltime.ErrRange), "mixed signs: %v", err)
}

func TestAdd_CalendarsAtLimits(t *testing.T) {
	t.Parallel()

	for _, cal := range civiltime.CalendarIDs() {
		t.Run(cal, func(t *testing.T) {
			first := inCalendar(isoDate(t, "-271821-04-19"), cal)
			got, err := civiltime.Add(first, civiltime.Duration{Months: 1}, civiltime.Constrain)
			require.NoError(t, err)
			assert.Equal(t, 1, got.Compare(first))

			last := inCalendar(isoDate(t, "+275760-09-13"), cal)
			got, err = civiltime.Add(last, civiltime.Duration{Months: -1}, civiltime.Constrain)
			require.NoError(t, err)
			assert.Equal(t, -1, got.Compare(last))

			_, err = civiltime.Add(first, civiltime.Duration{Months: -1}, civiltime.Constrain)
			assert.True(t, errors.Is(err, civiltime.ErrRange), "%v", err)
			_, err = civiltime.Add(last, civiltime.Duration{Years: 1}, civiltime.Constrain)
			assert.True(t, errors.Is(err, civiltime.ErrRange), "%v", err)
		})
	}

	got, err := civiltime.Add(inCalendar(isoDate(t, "-271821-04-19"), civiltime.IslamicCivil), civiltime.Duration{Months: 1}, civiltime.Constrain)
	require.NoError(t, err)
	assert.Equal(t, "-271821-05-19[u-ca=islamic-civil]", got.String())
}

func TestMove_UnsupportedPoint(t *testing.T) {
	t.Parallel()

	_, err := civiltime.Default().Move(nil, civiltime.Duration{Days: 1}, civiltime.Constrain)
	assert.True(t, errors.Is(err, civiltime.ErrType), "%v", err)
}
