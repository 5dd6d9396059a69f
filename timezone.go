package civiltime

import (
	"slices"
	"strings"
	"time"
)

// TimeZone is the capability set the engine needs from a time zone.
type TimeZone interface {
	ID() string
	// OffsetNanosecondsFor returns the UTC offset in effect at epoch.
	OffsetNanosecondsFor(epoch DayTimeNano) int64
	// PossibleInstantsFor returns the instants, in ascending order, whose
	// local time is dt: none in a gap, two in a fold.
	PossibleInstantsFor(dt ISODateTime) []DayTimeNano
}

// UTC is the identifier of the UTC time zone.
const UTC = "UTC"

// Disambiguation selects one instant for a local time that occurs zero or
// two times. The zero value is [Compatible].
type Disambiguation int

const (
	// Compatible picks the earlier instant in a fold and shifts forward by
	// the gap length in a gap.
	Compatible Disambiguation = iota
	Earlier
	Later
	// DisambiguationReject fails unless there is exactly one instant.
	DisambiguationReject
)

var disambiguationNames = [...]string{"compatible", "earlier", "later", "reject"}

func (d Disambiguation) String() string {
	if d < Compatible || d > DisambiguationReject {
		return "disambiguation(?)"
	}
	return disambiguationNames[d]
}

// ParseDisambiguation parses a policy name; the empty string is Compatible.
func ParseDisambiguation(s string) (Disambiguation, error) {
	if s == "" {
		return Compatible, nil
	}
	for i, n := range disambiguationNames {
		if strings.EqualFold(n, s) {
			return Disambiguation(i), nil
		}
	}
	return Compatible, rangeErrorf("ParseDisambiguation", "invalid disambiguation %q", s)
}

// OffsetPolicy selects how an explicit UTC offset attached to a local time
// is reconciled with the time zone. The zero value is [OffsetReject].
type OffsetPolicy int

const (
	// OffsetReject fails when the offset is not valid for the zone.
	OffsetReject OffsetPolicy = iota
	// OffsetUse trusts the offset and ignores the zone's rules.
	OffsetUse
	// OffsetPrefer keeps the offset when it is one of the candidates and
	// otherwise falls back to disambiguation.
	OffsetPrefer
	// OffsetIgnore disregards the offset.
	OffsetIgnore
)

var offsetPolicyNames = [...]string{"reject", "use", "prefer", "ignore"}

func (p OffsetPolicy) String() string {
	if p < OffsetReject || p > OffsetIgnore {
		return "offset(?)"
	}
	return offsetPolicyNames[p]
}

// ParseOffsetPolicy parses a policy name; the empty string is OffsetReject.
func ParseOffsetPolicy(s string) (OffsetPolicy, error) {
	if s == "" {
		return OffsetReject, nil
	}
	for i, n := range offsetPolicyNames {
		if strings.EqualFold(n, s) {
			return OffsetPolicy(i), nil
		}
	}
	return OffsetReject, rangeErrorf("ParseOffsetPolicy", "invalid offset policy %q", s)
}

// fixedZone is a constant UTC offset.
type fixedZone struct {
	id     string
	offset int64
}

// NewFixedTimeZone returns a zone with a constant offset, identified by its
// formatted offset such as "+05:30".
func NewFixedTimeZone(offsetNanos int64) (TimeZone, error) {
	if abs64(offsetNanos) >= nanoInDay {
		return nil, rangeErrorf("NewFixedTimeZone", "offset out of range")
	}
	if offsetNanos == 0 {
		return fixedZone{id: "+00:00"}, nil
	}
	return fixedZone{id: formatOffset(offsetNanos, false), offset: offsetNanos}, nil
}

func (z fixedZone) ID() string { return z.id }

func (z fixedZone) OffsetNanosecondsFor(DayTimeNano) int64 { return z.offset }

func (z fixedZone) PossibleInstantsFor(dt ISODateTime) []DayTimeNano {
	return []DayTimeNano{dt.epochNano().AddNanos(-z.offset)}
}

// locationZone is a named IANA zone backed by the time package database.
type locationZone struct {
	id  string
	loc *time.Location
}

func (z locationZone) ID() string { return z.id }

func (z locationZone) OffsetNanosecondsFor(epoch DayTimeNano) int64 {
	_, offset := time.Unix(epoch.epochSeconds(), 0).In(z.loc).Zone()
	return int64(offset) * nanoInSecond
}

// PossibleInstantsFor tries the offsets in effect one day either side of
// the local time and keeps each candidate whose own offset agrees.
func (z locationZone) PossibleInstantsFor(dt ISODateTime) []DayTimeNano {
	return possibleInstantsFor(z, dt)
}

func possibleInstantsFor(z TimeZone, dt ISODateTime) []DayTimeNano {
	local := dt.epochNano()
	before := z.OffsetNanosecondsFor(local.Add(DayTimeNano{Days: -1}))
	after := z.OffsetNanosecondsFor(local.Add(DayTimeNano{Days: 1}))
	offsets := []int64{before}
	if after != before {
		offsets = append(offsets, after)
	}
	var out []DayTimeNano
	for _, off := range offsets {
		candidate := local.AddNanos(-off)
		if z.OffsetNanosecondsFor(candidate) == off {
			out = append(out, candidate)
		}
	}
	slices.SortFunc(out, DayTimeNano.Cmp)
	return out
}

// singleInstantFor resolves a local time in tz to one instant.
func singleInstantFor(op string, tz TimeZone, dt ISODateTime, disambiguation Disambiguation) (DayTimeNano, error) {
	candidates := tz.PossibleInstantsFor(dt)
	switch {
	case len(candidates) == 1:
		return checkEpochNano(op, candidates[0])
	case disambiguation == DisambiguationReject:
		if len(candidates) == 0 {
			return DayTimeNano{}, rangeErrorf(op, "local time %s does not exist in %s", formatISODateTime(dt, -1), tz.ID())
		}
		return DayTimeNano{}, rangeErrorf(op, "local time %s is ambiguous in %s", formatISODateTime(dt, -1), tz.ID())
	case len(candidates) > 1:
		if disambiguation == Later {
			return checkEpochNano(op, candidates[len(candidates)-1])
		}
		return checkEpochNano(op, candidates[0])
	}

	// Gap: shift the local time by the gap length and resolve again.
	local := dt.epochNano()
	before := tz.OffsetNanosecondsFor(local.Add(DayTimeNano{Days: -1}))
	after := tz.OffsetNanosecondsFor(local.Add(DayTimeNano{Days: 1}))
	gap := after - before
	if disambiguation == Earlier {
		shifted := tz.PossibleInstantsFor(isoDateTimeFromEpochNano(local.AddNanos(-gap)))
		if len(shifted) == 0 {
			return DayTimeNano{}, rangeErrorf(op, "cannot resolve local time in %s", tz.ID())
		}
		return checkEpochNano(op, shifted[0])
	}
	shifted := tz.PossibleInstantsFor(isoDateTimeFromEpochNano(local.AddNanos(gap)))
	if len(shifted) == 0 {
		return DayTimeNano{}, rangeErrorf(op, "cannot resolve local time in %s", tz.ID())
	}
	return checkEpochNano(op, shifted[len(shifted)-1])
}

// instantForOffset resolves a local time that carries an explicit offset.
// With matchMinutes, a candidate also matches when its offset rounds to
// offset at minute precision, so that strings printed with a rounded
// sub-minute offset resolve back to the instant they came from.
func instantForOffset(op string, tz TimeZone, dt ISODateTime, offset int64, hasOffset, matchMinutes bool, disambiguation Disambiguation, policy OffsetPolicy) (DayTimeNano, error) {
	if !hasOffset || policy == OffsetIgnore {
		return singleInstantFor(op, tz, dt, disambiguation)
	}
	if policy == OffsetUse {
		return checkEpochNano(op, dt.epochNano().AddNanos(-offset))
	}
	for _, candidate := range tz.PossibleInstantsFor(dt) {
		candidateOffset := tz.OffsetNanosecondsFor(candidate)
		if candidateOffset == offset {
			return checkEpochNano(op, candidate)
		}
		if matchMinutes && roundInt64(candidateOffset, nanoInMinute, RoundHalfExpand) == offset {
			return checkEpochNano(op, candidate)
		}
	}
	if policy == OffsetReject {
		return DayTimeNano{}, rangeErrorf(op, "offset %s is invalid for %s in %s", formatOffset(offset, false), formatISODateTime(dt, -1), tz.ID())
	}
	return singleInstantFor(op, tz, dt, disambiguation)
}

// localDateTime returns the wall-clock time of epoch in tz.
func localDateTime(tz TimeZone, epoch DayTimeNano) ISODateTime {
	return isoDateTimeFromEpochNano(epoch.AddNanos(tz.OffsetNanosecondsFor(epoch)))
}
