package civiltime

const (
	ISO8601   = "iso8601"
	Gregorian = "gregory"
)

// isoArith is the proleptic Gregorian arithmetic shared by the ISO calendar
// and every calendar that only renumbers ISO years.
type isoArith struct {
	// yearOffset is added to the ISO year to get the calendar year.
	yearOffset int
}

func (a isoArith) epochDaysFromParts(year, month, day int) int64 {
	return epochDaysFromISO(year-a.yearOffset, month, day)
}

func (a isoArith) partsFromEpochDays(days int64) (int, int, int) {
	d := isoFromEpochDays(days)
	return d.Year + a.yearOffset, d.Month, d.Day
}

func (isoArith) fixedMonthsInYear() int { return 12 }

func (isoArith) monthsInYear(int) int { return 12 }

func (isoArith) monthsBeforeYear(year int) int64 { return int64(year) * 12 }

func (a isoArith) daysInMonth(year, month int) int {
	return isoDaysInMonth(year-a.yearOffset, month)
}

func (a isoArith) inLeapYear(year int) bool { return isoLeapYear(year - a.yearOffset) }

func (isoArith) leapMonth(int) int { return 0 }

func (isoArith) era(ISODate, int) (string, int, bool) { return "", 0, false }

func (isoArith) yearFromEra(string, int) (int, bool) { return 0, false }

// eraPair numbers years forward from 1 in a main era and backward from 1
// in an inverse era before it.
type eraPair struct {
	isoArith
	main, inverse string
}

func (a eraPair) era(_ ISODate, year int) (string, int, bool) {
	if year < 1 && a.inverse != "" {
		return a.inverse, 1 - year, true
	}
	return a.main, year, true
}

func (a eraPair) yearFromEra(era string, eraYear int) (int, bool) {
	switch era {
	case a.main:
		return eraYear, true
	case a.inverse:
		if a.inverse == "" {
			return 0, false
		}
		return 1 - eraYear, true
	}
	return 0, false
}

func newISOCalendar() *arithCalendar {
	return &arithCalendar{id: ISO8601, a: isoArith{}}
}

func newGregorianCalendar() *arithCalendar {
	return &arithCalendar{id: Gregorian, a: eraPair{main: "ce", inverse: "bce"}}
}
