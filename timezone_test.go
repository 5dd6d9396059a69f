package civiltime_test

import (
	"errors"
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabitt1ove/civiltime"
)

const newYork = "America/New_York"

func plainDateTime(t *testing.T, s string) civiltime.PlainDateTime {
	t.Helper()
	dt, err := civiltime.ParsePlainDateTime(s)
	require.NoError(t, err)
	return dt
}

func zoned(t *testing.T, s string) civiltime.ZonedDateTime {
	t.Helper()
	z, err := civiltime.ParseZonedDateTime(s, civiltime.ZonedOptions{})
	require.NoError(t, err)
	return z
}

func TestZonedFromDateTime_Gap(t *testing.T) {
	t.Parallel()

	e := civiltime.New()
	dt := plainDateTime(t, "2024-03-10T02:30")
	tests := []struct {
		disambiguation civiltime.Disambiguation
		want           string
	}{
		{civiltime.Compatible, "2024-03-10T07:30:00Z"},
		{civiltime.Earlier, "2024-03-10T06:30:00Z"},
		{civiltime.Later, "2024-03-10T07:30:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.disambiguation.String(), func(t *testing.T) {
			z, err := e.ZonedFromDateTime(dt, newYork, tt.disambiguation)
			require.NoError(t, err)
			assert.Equal(t, tt.want, z.Instant().String())
		})
	}

	_, err := e.ZonedFromDateTime(dt, newYork, civiltime.DisambiguationReject)
	assert.True(t, errors.Is(err, civiltime.ErrRange), "reject in a gap: %v", err)
}

func TestZonedFromDateTime_Fold(t *testing.T) {
	t.Parallel()

	e := civiltime.New()
	dt := plainDateTime(t, "2024-11-03T01:30")
	tests := []struct {
		disambiguation civiltime.Disambiguation
		want           string
	}{
		{civiltime.Compatible, "2024-11-03T01:30:00-04:00[America/New_York]"},
		{civiltime.Earlier, "2024-11-03T01:30:00-04:00[America/New_York]"},
		{civiltime.Later, "2024-11-03T01:30:00-05:00[America/New_York]"},
	}
	for _, tt := range tests {
		t.Run(tt.disambiguation.String(), func(t *testing.T) {
			z, err := e.ZonedFromDateTime(dt, newYork, tt.disambiguation)
			require.NoError(t, err)
			s, err := e.FormatZoned(z, civiltime.FormatOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
		})
	}

	_, err := e.ZonedFromDateTime(dt, newYork, civiltime.DisambiguationReject)
	assert.True(t, errors.Is(err, civiltime.ErrRange), "reject in a fold: %v", err)
}

func TestParseZonedDateTime_OffsetPolicy(t *testing.T) {
	t.Parallel()

	e := civiltime.New()
	tests := []struct {
		name    string
		in      string
		policy  civiltime.OffsetPolicy
		want    string
		wantErr bool
	}{
		{"matching offset picks the later fold", "2024-11-03T01:30-05:00[America/New_York]", civiltime.OffsetReject, "2024-11-03T06:30:00Z", false},
		{"matching offset picks the earlier fold", "2024-11-03T01:30-04:00[America/New_York]", civiltime.OffsetReject, "2024-11-03T05:30:00Z", false},
		{"wrong offset rejected", "2024-03-12T12:00+01:00[America/New_York]", civiltime.OffsetReject, "", true},
		{"wrong offset used", "2024-03-12T12:00+01:00[America/New_York]", civiltime.OffsetUse, "2024-03-12T11:00:00Z", false},
		{"wrong offset preferred", "2024-03-12T12:00+01:00[America/New_York]", civiltime.OffsetPrefer, "2024-03-12T16:00:00Z", false},
		{"wrong offset ignored", "2024-03-12T12:00+01:00[America/New_York]", civiltime.OffsetIgnore, "2024-03-12T16:00:00Z", false},
		{"zulu is exact", "2024-03-12T12:00Z[America/New_York]", civiltime.OffsetReject, "2024-03-12T12:00:00Z", false},
		{"date only is start of day", "2024-03-12[America/New_York]", civiltime.OffsetReject, "2024-03-12T04:00:00Z", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, err := e.ParseZonedDateTime(tt.in, civiltime.ZonedOptions{Offset: tt.policy})
			if tt.wantErr {
				assert.True(t, errors.Is(err, civiltime.ErrRange), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, z.Instant().String())
		})
	}
}

func TestParseZonedDateTime_SubMinuteOffsets(t *testing.T) {
	t.Parallel()

	e := civiltime.New()
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"minute precision matches local mean time", "1850-06-01T12:00-04:56[America/New_York]", "1850-06-01T16:56:02Z", false},
		{"exact seconds match", "1850-06-01T12:00-04:56:02[America/New_York]", "1850-06-01T16:56:02Z", false},
		{"explicit seconds must be exact", "1850-06-01T12:00-04:56:00[America/New_York]", "", true},
		{"minute precision still compares minutes", "1850-06-01T12:00-04:55[America/New_York]", "", true},
		{"positive offset", "1900-06-01T12:00+00:09[Europe/Paris]", "1900-06-01T11:50:39Z", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, err := e.ParseZonedDateTime(tt.in, civiltime.ZonedOptions{})
			if tt.wantErr {
				assert.True(t, errors.Is(err, civiltime.ErrRange), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, z.Instant().String())
		})
	}

	for _, in := range []string{"1850-06-01T12:00[America/New_York]", "1900-06-01T12:00[Europe/Paris]"} {
		z := zoned(t, in)
		again, err := e.ParseZonedDateTime(z.String(), civiltime.ZonedOptions{})
		require.NoError(t, err, z.String())
		assert.Equal(t, z, again, z.String())
	}
	assert.Equal(t, "1850-06-01T12:00:00-04:56[America/New_York]", zoned(t, "1850-06-01T12:00[America/New_York]").String())
}

func TestParseZonedDateTime_MissingZone(t *testing.T) {
	t.Parallel()

	_, err := civiltime.ParseZonedDateTime("2024-03-12T12:00+01:00", civiltime.ZonedOptions{})
	assert.True(t, errors.Is(err, civiltime.ErrType), "got %v", err)

	_, err = civiltime.ParseZonedDateTime("2024-03-12T12:00[Mars/Olympus_Mons]", civiltime.ZonedOptions{})
	assert.True(t, errors.Is(err, civiltime.ErrRange), "got %v", err)
}

func TestHoursInDay(t *testing.T) {
	t.Parallel()

	e := civiltime.New()
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-10T12:00[America/New_York]", "23"},
		{"2024-11-03T12:00[America/New_York]", "25"},
		{"2024-06-01T12:00[America/New_York]", "24"},
		{"2024-10-06T12:00[Australia/Lord_Howe]", "23.5"},
		{"2024-06-01T12:00[UTC]", "24"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h, err := e.HoursInDay(zoned(t, tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.String())
		})
	}
}

func TestStartOfDay(t *testing.T) {
	t.Parallel()

	e := civiltime.New()
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-10T12:00[America/New_York]", "2024-03-10T00:00:00-05:00[America/New_York]"},
		// Midnight was skipped when daylight saving time began.
		{"2018-11-04T12:00[America/Sao_Paulo]", "2018-11-04T01:00:00-02:00[America/Sao_Paulo]"},
	}
	for _, tt := range tests {
		start, err := e.StartOfDay(zoned(t, tt.in))
		require.NoError(t, err)
		s, err := e.FormatZoned(start, civiltime.FormatOptions{})
		require.NoError(t, err)
		assert.Equal(t, tt.want, s)
	}
}

func TestOffsetNanoseconds(t *testing.T) {
	t.Parallel()

	e := civiltime.New()
	off, err := e.OffsetNanoseconds(zoned(t, "2024-07-01T00:00[America/New_York]"))
	require.NoError(t, err)
	assert.Equal(t, int64(-4*3600e9), off)

	dt, err := e.PlainDateTimeOf(zoned(t, "2024-07-01T00:00Z[Asia/Kolkata]"))
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01T05:30:00", dt.String())
}

func TestLookupTimeZone(t *testing.T) {
	t.Parallel()

	e := civiltime.New()
	tests := []struct {
		in   string
		want string
	}{
		{"UTC", "UTC"},
		{"utc", "UTC"},
		{"Etc/UTC", "UTC"},
		{"+05:30", "+05:30"},
		{"-0800", "-08:00"},
		{"+00:00", "+00:00"},
		{"America/New_York", "America/New_York"},
		{" Asia/Tokyo ", "Asia/Tokyo"},
	}
	for _, tt := range tests {
		tz, err := e.LookupTimeZone(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, tz.ID(), tt.in)
	}

	for _, bad := range []string{"", "Local", "Nowhere/City", "+25:00", "+5"} {
		_, err := e.LookupTimeZone(bad)
		assert.True(t, errors.Is(err, civiltime.ErrRange), "LookupTimeZone(%q) = %v", bad, err)
	}
}

func TestNewFixedTimeZone(t *testing.T) {
	t.Parallel()

	tz, err := civiltime.NewFixedTimeZone(-(5*3600 + 45*60) * 1e9)
	require.NoError(t, err)
	assert.Equal(t, "-05:45", tz.ID())

	tz, err = civiltime.NewFixedTimeZone(3600e9 + 1)
	require.NoError(t, err)
	assert.Equal(t, "+01:00:00.000000001", tz.ID())

	_, err = civiltime.NewFixedTimeZone(24 * 3600e9)
	assert.True(t, errors.Is(err, civiltime.ErrRange))
}

// officeZone is a custom zone three hours ahead of UTC.
type officeZone struct{}

func (officeZone) ID() string { return "Example/Office" }

func (officeZone) OffsetNanosecondsFor(civiltime.DayTimeNano) int64 { return 3 * 3600e9 }

func (officeZone) PossibleInstantsFor(dt civiltime.ISODateTime) []civiltime.DayTimeNano {
	z, _ := civiltime.NewFixedTimeZone(3 * 3600e9)
	return z.PossibleInstantsFor(dt)
}

func TestRegisterTimeZone(t *testing.T) {
	t.Parallel()

	e := civiltime.New()
	_, err := e.LookupTimeZone("Example/Office")
	require.Error(t, err)

	e.RegisterTimeZone(officeZone{})
	z, err := e.ParseZonedDateTime("2024-01-01T12:00[Example/Office]", civiltime.ZonedOptions{})
	require.NoError(t, err)
	s, err := e.FormatZoned(z, civiltime.FormatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T12:00:00+03:00[Example/Office]", s)

	e.UnregisterTimeZone("Example/Office")
	_, err = e.LookupTimeZone("Example/Office")
	assert.True(t, errors.Is(err, civiltime.ErrRange))
}

func TestParseDisambiguationAndOffsetPolicy(t *testing.T) {
	t.Parallel()

	d, err := civiltime.ParseDisambiguation("Later")
	require.NoError(t, err)
	assert.Equal(t, civiltime.Later, d)
	d, err = civiltime.ParseDisambiguation("")
	require.NoError(t, err)
	assert.Equal(t, civiltime.Compatible, d)
	_, err = civiltime.ParseDisambiguation("nearest")
	assert.Error(t, err)

	p, err := civiltime.ParseOffsetPolicy("prefer")
	require.NoError(t, err)
	assert.Equal(t, civiltime.OffsetPrefer, p)
	_, err = civiltime.ParseOffsetPolicy("trust")
	assert.Error(t, err)
}
