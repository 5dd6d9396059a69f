package civiltime

import "time"

// SetClock replaces the wall clock read by the Now methods. A nil clock
// restores [time.Now].
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
}

func (e *Engine) readClock() time.Time {
	e.mu.RLock()
	now := e.now
	e.mu.RUnlock()
	if now == nil {
		return time.Now()
	}
	return now()
}

// NowInstant returns the current instant.
func (e *Engine) NowInstant() (Instant, error) {
	t := e.readClock()
	epoch := dayTimeNanoFromUnits(t.Unix(), nanoInSecond).AddNanos(int64(t.Nanosecond()))
	i, err := NewInstant(epoch)
	if err != nil {
		return Instant{}, withOpRename(err, "NowInstant")
	}
	return i, nil
}

// Now returns the current time in tz with the ISO 8601 calendar. An empty
// tz means UTC; the host's local zone has no stable identifier to keep.
func (e *Engine) Now(tz string) (ZonedDateTime, error) {
	const op = "Now"
	if tz == "" {
		tz = UTC
	}
	zone, err := e.LookupTimeZone(tz)
	if err != nil {
		return ZonedDateTime{}, withOp(err, op)
	}
	i, err := e.NowInstant()
	if err != nil {
		return ZonedDateTime{}, withOpRename(err, op)
	}
	return ZonedDateTime{Epoch: i.Epoch, TimeZone: zone.ID()}, nil
}

// NowPlainDateTime returns the current wall-clock date and time in tz.
func (e *Engine) NowPlainDateTime(tz string) (PlainDateTime, error) {
	z, err := e.Now(tz)
	if err != nil {
		return PlainDateTime{}, withOpRename(err, "NowPlainDateTime")
	}
	return e.PlainDateTimeOf(z)
}

// NowPlainDate returns the current date in tz.
func (e *Engine) NowPlainDate(tz string) (PlainDate, error) {
	dt, err := e.NowPlainDateTime(tz)
	if err != nil {
		return PlainDate{}, withOpRename(err, "NowPlainDate")
	}
	return dt.Date(), nil
}

// Now returns the current time in tz on the default engine.
func Now(tz string) (ZonedDateTime, error) { return defaultEngine.Now(tz) }
