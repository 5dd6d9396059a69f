package civiltime

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// calendarAliases maps legacy and BCP 47 spellings onto catalog IDs.
var calendarAliases = map[string]string{
	"islamicc":            IslamicCivil,
	"ethiopic-amete-alem": EthiopicAA,
	"gregorian":           Gregorian,
}

// normalizeCalendarID folds id for lookup. Calendar identifiers are ASCII
// and case-insensitive.
func normalizeCalendarID(id string) string {
	key := cases.Fold().String(strings.TrimSpace(id))
	if key == "" {
		return ISO8601
	}
	if alias, ok := calendarAliases[key]; ok {
		return alias
	}
	return key
}

// LookupCalendar returns the calendar for id: a registered custom calendar
// first, then the built-in catalog. Unknown IDs are a range error.
func (e *Engine) LookupCalendar(id string) (Calendar, error) {
	key := normalizeCalendarID(id)

	e.mu.RLock()
	c, ok := e.customCalendars[key]
	if !ok {
		c, ok = e.calendarCache[key]
	}
	e.mu.RUnlock()
	if ok {
		return c, nil
	}

	ctor, ok := calendarCatalog[key]
	if !ok {
		return nil, rangeErrorf("LookupCalendar", "unknown calendar %q", id)
	}
	c = ctor()

	e.mu.Lock()
	defer e.mu.Unlock()
	if cached, ok := e.calendarCache[key]; ok {
		return cached, nil
	}
	e.calendarCache[key] = c
	return c, nil
}

// RegisterCalendar adds a custom calendar under its ID. A custom calendar
// takes precedence over a built-in one with the same ID.
func (e *Engine) RegisterCalendar(c Calendar) {
	key := normalizeCalendarID(c.ID())
	e.mu.Lock()
	defer e.mu.Unlock()
	e.customCalendars[key] = c
}

// UnregisterCalendar removes a previously registered custom calendar.
// Has no effect if no custom calendar has that ID.
func (e *Engine) UnregisterCalendar(id string) {
	key := normalizeCalendarID(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.customCalendars, key)
}

// CalendarForLocale returns the calendar requested by the -u-ca- extension
// of a BCP 47 locale such as "ja-JP-u-ca-japanese", or ISO 8601 when the
// locale names none.
func (e *Engine) CalendarForLocale(locale string) (string, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return "", wrapRangef(err, "CalendarForLocale", "invalid locale %q", locale)
	}
	ca := tag.TypeForKey("ca")
	if ca == "" {
		return ISO8601, nil
	}
	c, err := e.LookupCalendar(ca)
	if err != nil {
		return "", withOp(err, "CalendarForLocale")
	}
	return c.ID(), nil
}

// LookupTimeZone returns the time zone for id: "UTC", a UTC offset such as
// "+05:30", a registered custom zone, or an IANA zone name. IANA zones are
// loaded once and cached; concurrent first lookups share one load.
func (e *Engine) LookupTimeZone(id string) (TimeZone, error) {
	const op = "LookupTimeZone"
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, rangeErrorf(op, "empty time zone")
	}
	if isUTCName(id) {
		return fixedZone{id: UTC}, nil
	}
	if id[0] == '+' || id[0] == '-' {
		offset, err := parseOffset(id)
		if err != nil {
			return nil, wrapRangef(err, op, "invalid offset time zone %q", id)
		}
		return NewFixedTimeZone(offset)
	}

	e.mu.RLock()
	tz, ok := e.customZones[id]
	if !ok {
		tz, ok = e.zoneCache[id]
	}
	e.mu.RUnlock()
	if ok {
		return tz, nil
	}

	v, err, _ := e.loads.Do(id, func() (any, error) {
		if id == "Local" {
			return nil, rangeErrorf(op, "the local time zone has no stable identifier")
		}
		loc, err := time.LoadLocation(id)
		if err != nil {
			return nil, wrapRangef(err, op, "unknown time zone %q", id)
		}
		tz := locationZone{id: loc.String(), loc: loc}
		e.mu.Lock()
		e.zoneCache[id] = tz
		e.mu.Unlock()
		return tz, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(TimeZone), nil
}

func isUTCName(id string) bool {
	switch cases.Fold().String(id) {
	case "utc", "etc/utc", "etc/gmt", "gmt", "z":
		return true
	}
	return false
}

// RegisterTimeZone adds a custom time zone under its ID, taking precedence
// over an IANA zone with the same name.
func (e *Engine) RegisterTimeZone(tz TimeZone) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.customZones[tz.ID()] = tz
}

// UnregisterTimeZone removes a previously registered custom time zone.
func (e *Engine) UnregisterTimeZone(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.customZones, id)
}

// ResetCache drops every cached calendar and time zone. Custom
// registrations are kept.
func (e *Engine) ResetCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calendarCache = make(map[string]Calendar)
	e.zoneCache = make(map[string]TimeZone)
}

// sameTimeZone reports whether two zones are the same zone. Identity is
// the resolved identifier, which lookup makes canonical for offsets and
// keeps exact for names, so "UTC" and "+00:00" are distinct zones.
func sameTimeZone(a, b TimeZone) bool {
	return a.ID() == b.ID()
}

// sameCalendar reports whether two calendar identifiers name one calendar.
func sameCalendar(a, b string) bool {
	return normalizeCalendarID(a) == normalizeCalendarID(b)
}
