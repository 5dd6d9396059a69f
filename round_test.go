package civiltime_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabitt1ove/civiltime"
)

func TestRoundDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   civiltime.Duration
		opts civiltime.RoundOptions
		want string
	}{
		{"below half", civiltime.Duration{Hours: 1, Minutes: 29}, civiltime.RoundOptions{SmallestUnit: civiltime.Hour}, "PT1H"},
		{"half expands", civiltime.Duration{Hours: 1, Minutes: 30}, civiltime.RoundOptions{SmallestUnit: civiltime.Hour}, "PT2H"},
		{"floor", civiltime.Duration{Hours: 1, Minutes: 59}, civiltime.RoundOptions{SmallestUnit: civiltime.Hour, RoundingMode: civiltime.RoundFloor}, "PT1H"},
		{"negative half expands away", civiltime.Duration{Hours: -1, Minutes: -30}, civiltime.RoundOptions{SmallestUnit: civiltime.Hour}, "-PT2H"},
		{"balance up", civiltime.Duration{Minutes: 130}, civiltime.RoundOptions{LargestUnit: civiltime.Hour}, "PT2H10M"},
		{"balance into days", civiltime.Duration{Hours: 36}, civiltime.RoundOptions{LargestUnit: civiltime.Day}, "P1DT12H"},
		{"balance down", civiltime.Duration{Days: 1, Hours: 2}, civiltime.RoundOptions{LargestUnit: civiltime.Minute}, "PT1560M"},
		{"increment", civiltime.Duration{Hours: 1, Minutes: 7}, civiltime.RoundOptions{SmallestUnit: civiltime.Minute, RoundingIncrement: 15}, "PT1H"},
		{"increment stays in minutes", civiltime.Duration{Minutes: 53}, civiltime.RoundOptions{SmallestUnit: civiltime.Minute, RoundingIncrement: 15}, "PT60M"},
		{"seconds", civiltime.Duration{Seconds: 1, Milliseconds: 500}, civiltime.RoundOptions{SmallestUnit: civiltime.Second, RoundingMode: civiltime.RoundHalfEven}, "PT2S"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := civiltime.RoundDuration(tt.in, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestRoundDuration_RelativeTo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       civiltime.Duration
		opts     civiltime.RoundOptions
		relative string
		want     string
	}{
		{"days into months", civiltime.Duration{Days: 40}, civiltime.RoundOptions{LargestUnit: civiltime.Month}, "2024-01-01", "P1M9D"},
		{"days into months in February", civiltime.Duration{Days: 40}, civiltime.RoundOptions{LargestUnit: civiltime.Month}, "2024-02-01", "P1M11D"},
		{"round to months", civiltime.Duration{Days: 40}, civiltime.RoundOptions{SmallestUnit: civiltime.Month}, "2024-01-01", "P1M"},
		{"round to years", civiltime.Duration{Months: 18}, civiltime.RoundOptions{SmallestUnit: civiltime.Year}, "2024-01-01", "P1Y"},
		{"round up to years", civiltime.Duration{Months: 19}, civiltime.RoundOptions{SmallestUnit: civiltime.Year}, "2024-01-01", "P2Y"},
		{"months into years", civiltime.Duration{Months: 14, Days: 3}, civiltime.RoundOptions{LargestUnit: civiltime.Year}, "2024-01-01", "P1Y2M3D"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.RelativeTo = isoDate(t, tt.relative)
			got, err := civiltime.RoundDuration(tt.in, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestRoundDuration_ZonedRelativeTo(t *testing.T) {
	t.Parallel()

	e := civiltime.New()
	start := zoned(t, "2024-03-10T00:00[America/New_York]")

	got, err := e.RoundDuration(civiltime.Duration{Hours: 24}, civiltime.RoundOptions{LargestUnit: civiltime.Day, RelativeTo: start})
	require.NoError(t, err)
	assert.Equal(t, "P1DT1H", got.String(), "the first day has 23 hours")

	got, err = e.RoundDuration(civiltime.Duration{Hours: 35}, civiltime.RoundOptions{SmallestUnit: civiltime.Day, RelativeTo: start})
	require.NoError(t, err)
	assert.Equal(t, "P2D", got.String())
}

func TestRoundDuration_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   civiltime.Duration
		opts civiltime.RoundOptions
		kind error
	}{
		{"no units", civiltime.Duration{Hours: 1}, civiltime.RoundOptions{}, civiltime.ErrType},
		{"months without relativeTo", civiltime.Duration{Months: 1}, civiltime.RoundOptions{SmallestUnit: civiltime.Day}, civiltime.ErrRange},
		{"largest months without relativeTo", civiltime.Duration{Days: 40}, civiltime.RoundOptions{LargestUnit: civiltime.Month}, civiltime.ErrRange},
		{"largest below smallest", civiltime.Duration{Hours: 1}, civiltime.RoundOptions{SmallestUnit: civiltime.Hour, LargestUnit: civiltime.Minute}, civiltime.ErrRange},
		{"increment does not divide", civiltime.Duration{Hours: 1}, civiltime.RoundOptions{SmallestUnit: civiltime.Minute, RoundingIncrement: 7}, civiltime.ErrRange},
		{"increment equals the next unit", civiltime.Duration{Hours: 1}, civiltime.RoundOptions{SmallestUnit: civiltime.Minute, RoundingIncrement: 60}, civiltime.ErrRange},
		{"time relativeTo", civiltime.Duration{Hours: 1}, civiltime.RoundOptions{SmallestUnit: civiltime.Hour, RelativeTo: civiltime.PlainTime{}}, civiltime.ErrType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := civiltime.RoundDuration(tt.in, tt.opts)
			assert.True(t, errors.Is(err, tt.kind), "got %v, want %v", err, tt.kind)
		})
	}
}

func TestRoundPoints(t *testing.T) {
	t.Parallel()

	e := civiltime.New()

	i, err := civiltime.ParseInstant("2024-01-01T10:29:30Z")
	require.NoError(t, err)
	ri, err := e.RoundInstant(i, civiltime.RoundOptions{SmallestUnit: civiltime.Minute})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T10:30:00Z", ri.String())
	ri, err = e.RoundInstant(i, civiltime.RoundOptions{SmallestUnit: civiltime.Hour})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T10:00:00Z", ri.String())
	ri, err = e.RoundInstant(i, civiltime.RoundOptions{SmallestUnit: civiltime.Hour, RoundingIncrement: 12})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T12:00:00Z", ri.String())

	dt, err := e.RoundDateTime(plainDateTime(t, "2024-01-01T23:59:59.5"), civiltime.RoundOptions{SmallestUnit: civiltime.Second})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02T00:00:00", dt.String())
	dt, err = e.RoundDateTime(plainDateTime(t, "2024-01-01T11:59"), civiltime.RoundOptions{SmallestUnit: civiltime.Day})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T00:00:00", dt.String())

	tm, err := civiltime.ParsePlainTime("23:59:45")
	require.NoError(t, err)
	rt, err := e.RoundTime(tm, civiltime.RoundOptions{SmallestUnit: civiltime.Minute})
	require.NoError(t, err)
	assert.Equal(t, "00:00:00", rt.String())
	rt, err = e.RoundTime(tm, civiltime.RoundOptions{SmallestUnit: civiltime.Minute, RoundingIncrement: 20, RoundingMode: civiltime.RoundFloor})
	require.NoError(t, err)
	assert.Equal(t, "23:40:00", rt.String())
}

func TestRoundZoned(t *testing.T) {
	t.Parallel()

	e := civiltime.New()
	tests := []struct {
		in       string
		smallest civiltime.Unit
		want     string
	}{
		// The day is 23 hours long, so noon is before its midpoint.
		{"2024-03-10T12:00[America/New_York]", civiltime.Day, "2024-03-10T00:00:00-05:00[America/New_York]"},
		{"2024-03-10T12:30[America/New_York]", civiltime.Day, "2024-03-11T00:00:00-04:00[America/New_York]"},
		{"2024-11-03T01:20-05:00[America/New_York]", civiltime.Hour, "2024-11-03T01:00:00-05:00[America/New_York]"},
		{"2024-11-03T01:45-05:00[America/New_York]", civiltime.Hour, "2024-11-03T02:00:00-05:00[America/New_York]"},
		{"2024-11-03T01:20-04:00[America/New_York]", civiltime.Hour, "2024-11-03T01:00:00-04:00[America/New_York]"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := e.RoundZoned(zoned(t, tt.in), civiltime.RoundOptions{SmallestUnit: tt.smallest})
			require.NoError(t, err)
			s, err := e.FormatZoned(got, civiltime.FormatOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestRound_Dispatch(t *testing.T) {
	t.Parallel()

	e := civiltime.New()
	got, err := e.Round(civiltime.Duration{Minutes: 90}, civiltime.RoundOptions{SmallestUnit: civiltime.Hour})
	require.NoError(t, err)
	assert.Equal(t, civiltime.Duration{Hours: 2}, got)

	_, err = e.Round(isoDate(t, "2024-01-01"), civiltime.RoundOptions{SmallestUnit: civiltime.Day})
	assert.True(t, errors.Is(err, civiltime.ErrType), "dates cannot be rounded: %v", err)

	i, err := civiltime.ParseInstant("2024-01-01T00:00Z")
	require.NoError(t, err)
	_, err = e.Round(i, civiltime.RoundOptions{})
	assert.True(t, errors.Is(err, civiltime.ErrType), "smallest unit is required: %v", err)
	_, err = e.Round(i, civiltime.RoundOptions{SmallestUnit: civiltime.Day})
	assert.True(t, errors.Is(err, civiltime.ErrRange), "instants do not round to days: %v", err)
	_, err = e.Round(i, civiltime.RoundOptions{SmallestUnit: civiltime.Hour, RoundingIncrement: 7})
	assert.True(t, errors.Is(err, civiltime.ErrRange), "7 hours do not divide a day: %v", err)
}
