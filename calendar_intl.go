package civiltime

// Identifiers of the built-in non-ISO calendars.
const (
	Japanese     = "japanese"
	ROC          = "roc"
	Buddhist     = "buddhist"
	IslamicCivil = "islamic-civil"
	IslamicTbla  = "islamic-tbla"
	Coptic       = "coptic"
	Ethiopic     = "ethiopic"
	EthiopicAA   = "ethioaa"
	Hebrew       = "hebrew"
	Indian       = "indian"
)

// rdUnixEpoch is the fixed day number (1 = 0001-01-01 proleptic
// Gregorian) of 1970-01-01.
const rdUnixEpoch = 719163

// calendarCatalog lists every built-in calendar by identifier.
var calendarCatalog = map[string]func() *arithCalendar{
	ISO8601:   newISOCalendar,
	Gregorian: newGregorianCalendar,
	Japanese: func() *arithCalendar {
		return &arithCalendar{id: Japanese, a: japaneseArith{}}
	},
	ROC: func() *arithCalendar {
		return &arithCalendar{id: ROC, a: eraPair{isoArith: isoArith{yearOffset: -1911}, main: "roc", inverse: "broc"}}
	},
	Buddhist: func() *arithCalendar {
		return &arithCalendar{id: Buddhist, a: eraPair{isoArith: isoArith{yearOffset: 543}, main: "be"}}
	},
	IslamicCivil: func() *arithCalendar {
		return &arithCalendar{id: IslamicCivil, a: islamicArith{epoch: 227015}}
	},
	IslamicTbla: func() *arithCalendar {
		return &arithCalendar{id: IslamicTbla, a: islamicArith{epoch: 227014}}
	},
	Coptic: func() *arithCalendar {
		return &arithCalendar{id: Coptic, a: copticArith{epoch: 103605, main: "coptic", inverse: "coptic-inverse"}}
	},
	Ethiopic: func() *arithCalendar {
		return &arithCalendar{id: Ethiopic, a: copticArith{epoch: 2796, main: "ethiopic", alem: true}}
	},
	EthiopicAA: func() *arithCalendar {
		return &arithCalendar{id: EthiopicAA, a: copticArith{epoch: 2796, yearOffset: ameteAlemOffset, main: "ethioaa"}}
	},
	Hebrew: func() *arithCalendar {
		return &arithCalendar{id: Hebrew, a: hebrewArith{}}
	},
	Indian: func() *arithCalendar {
		return &arithCalendar{id: Indian, a: indianArith{}}
	},
}

// CalendarIDs returns the identifiers of the built-in calendars.
func CalendarIDs() []string {
	return []string{
		ISO8601, Gregorian, Japanese, ROC, Buddhist, IslamicCivil, IslamicTbla,
		Coptic, Ethiopic, EthiopicAA, Hebrew, Indian,
	}
}

// japaneseEra is one imperial era; eras partition time from meiji onward.
type japaneseEra struct {
	name       string
	start, end ISODate
}

var japaneseEras = []japaneseEra{
	{"reiwa", ISODate{2019, 5, 1}, ISODate{maxISOYear, 12, 31}},
	{"heisei", ISODate{1989, 1, 8}, ISODate{2019, 4, 30}},
	{"showa", ISODate{1926, 12, 25}, ISODate{1989, 1, 7}},
	{"taisho", ISODate{1912, 7, 30}, ISODate{1926, 12, 24}},
	{"meiji", ISODate{1868, 9, 8}, ISODate{1912, 7, 29}},
}

// japaneseArith uses ISO years with imperial eras, falling back to ce/bce
// before meiji.
type japaneseArith struct {
	isoArith
}

func (japaneseArith) era(d ISODate, year int) (string, int, bool) {
	for _, e := range japaneseEras {
		if d.inRange(e.start, e.end) {
			return e.name, year - e.start.Year + 1, true
		}
	}
	return eraPair{main: "ce", inverse: "bce"}.era(d, year)
}

func (japaneseArith) yearFromEra(era string, eraYear int) (int, bool) {
	for _, e := range japaneseEras {
		if e.name == era {
			return e.start.Year + eraYear - 1, true
		}
	}
	return eraPair{main: "ce", inverse: "bce"}.yearFromEra(era, eraYear)
}

// islamicArith is the tabular Islamic calendar with 11 leap years in a
// 30-year cycle. epoch is the fixed day number of 1 Muharram AH 1.
type islamicArith struct {
	epoch int64
}

func (a islamicArith) fixed(year, month, day int) int64 {
	y, m := int64(year), int64(month)
	return a.epoch - 1 + (y-1)*354 + floorDiv(3+11*y, 30) + 29*(m-1) + m/2 + int64(day)
}

func (a islamicArith) epochDaysFromParts(year, month, day int) int64 {
	return a.fixed(year, month, day) - rdUnixEpoch
}

func (a islamicArith) partsFromEpochDays(days int64) (int, int, int) {
	rd := days + rdUnixEpoch
	y := int(floorDiv(30*(rd-a.epoch)+10646, 10631))
	for a.fixed(y+1, 1, 1) <= rd {
		y++
	}
	for a.fixed(y, 1, 1) > rd {
		y--
	}
	m := 1
	for m < 12 && a.fixed(y, m+1, 1) <= rd {
		m++
	}
	return y, m, int(rd-a.fixed(y, m, 1)) + 1
}

func (islamicArith) fixedMonthsInYear() int { return 12 }

func (islamicArith) monthsInYear(int) int { return 12 }

func (islamicArith) monthsBeforeYear(year int) int64 { return int64(year) * 12 }

func (a islamicArith) inLeapYear(year int) bool {
	_, r := floorDivMod(14+11*int64(year), 30)
	return r < 11
}

func (a islamicArith) daysInMonth(year, month int) int {
	if month%2 == 1 || (month == 12 && a.inLeapYear(year)) {
		return 30
	}
	return 29
}

func (islamicArith) leapMonth(int) int { return 0 }

func (islamicArith) era(_ ISODate, year int) (string, int, bool) {
	return eraPair{main: "ah", inverse: "bh"}.era(ISODate{}, year)
}

func (islamicArith) yearFromEra(era string, eraYear int) (int, bool) {
	return eraPair{main: "ah", inverse: "bh"}.yearFromEra(era, eraYear)
}

// ameteAlemOffset converts Amete Mihret years to Amete Alem years.
const ameteAlemOffset = 5500

// copticArith serves the Coptic and Ethiopian calendars: twelve 30-day
// months and a 5- or 6-day thirteenth month. epoch is the fixed day number
// of the first day of year 1; yearOffset is added to get the calendar year.
type copticArith struct {
	epoch         int64
	yearOffset    int
	main, inverse string
	// alem numbers years before the first Amete Mihret year in Amete Alem.
	alem bool
}

func (a copticArith) fixed(year, month, day int) int64 {
	y := int64(year - a.yearOffset)
	return a.epoch - 1 + 365*(y-1) + floorDiv(y, 4) + 30*int64(month-1) + int64(day)
}

func (a copticArith) epochDaysFromParts(year, month, day int) int64 {
	return a.fixed(year, month, day) - rdUnixEpoch
}

func (a copticArith) partsFromEpochDays(days int64) (int, int, int) {
	rd := days + rdUnixEpoch
	y := int(floorDiv(4*(rd-a.epoch)+1463, 1461)) + a.yearOffset
	m := int((rd-a.fixed(y, 1, 1))/30) + 1
	return y, m, int(rd-a.fixed(y, m, 1)) + 1
}

func (copticArith) fixedMonthsInYear() int { return 13 }

func (copticArith) monthsInYear(int) int { return 13 }

func (copticArith) monthsBeforeYear(year int) int64 { return int64(year) * 13 }

func (a copticArith) inLeapYear(year int) bool {
	_, r := floorDivMod(int64(year-a.yearOffset), 4)
	return r == 3
}

func (a copticArith) daysInMonth(year, month int) int {
	if month < 13 {
		return 30
	}
	if a.inLeapYear(year) {
		return 6
	}
	return 5
}

func (copticArith) leapMonth(int) int { return 0 }

func (a copticArith) era(_ ISODate, year int) (string, int, bool) {
	if a.alem && year < 1 {
		return EthiopicAA, year + ameteAlemOffset, true
	}
	return eraPair{main: a.main, inverse: a.inverse}.era(ISODate{}, year)
}

func (a copticArith) yearFromEra(era string, eraYear int) (int, bool) {
	if a.alem && era == EthiopicAA {
		return eraYear - ameteAlemOffset, true
	}
	return eraPair{main: a.main, inverse: a.inverse}.yearFromEra(era, eraYear)
}

// hebrewEpoch is the fixed day number of 1 Tishri AM 1.
const hebrewEpoch = -1373427

// hebrewArith is the arithmetic Hebrew calendar. Months are numbered from
// Tishri; in leap years Adar I (M05L) is month 6 and the following months
// shift by one.
type hebrewArith struct{}

func (hebrewArith) inLeapYear(year int) bool {
	_, r := floorDivMod(7*int64(year)+1, 19)
	return r < 7
}

func (hebrewArith) monthsBeforeYear(year int) int64 {
	return floorDiv(235*int64(year)-234, 19)
}

// elapsedDays counts days from the epoch to the molad of Tishri of year,
// applying the first postponement rule.
func (a hebrewArith) elapsedDays(year int) int64 {
	months := a.monthsBeforeYear(year)
	parts := 12084 + 13753*months
	days := 29*months + floorDiv(parts, 25920)
	if _, r := floorDivMod(3*(days+1), 7); r < 3 {
		days++
	}
	return days
}

// newYear is the fixed day number of 1 Tishri of year.
func (a hebrewArith) newYear(year int) int64 {
	ny0, ny1, ny2 := a.elapsedDays(year-1), a.elapsedDays(year), a.elapsedDays(year+1)
	var delay int64
	switch {
	case ny2-ny1 == 356:
		delay = 2
	case ny1-ny0 == 382:
		delay = 1
	}
	return hebrewEpoch + ny1 + delay
}

func (a hebrewArith) daysInYear(year int) int {
	return int(a.newYear(year+1) - a.newYear(year))
}

func (hebrewArith) fixedMonthsInYear() int { return 0 }

func (a hebrewArith) monthsInYear(year int) int {
	if a.inLeapYear(year) {
		return 13
	}
	return 12
}

func (a hebrewArith) leapMonth(year int) int {
	if a.inLeapYear(year) {
		return 6
	}
	return 0
}

// hebrewTailMonths are Adar through Elul.
var hebrewTailMonths = [...]int{29, 30, 29, 30, 29, 30, 29}

func (a hebrewArith) daysInMonth(year, month int) int {
	switch month {
	case 1:
		return 30
	case 2:
		if a.daysInYear(year)%10 == 5 {
			return 30
		}
		return 29
	case 3:
		if a.daysInYear(year)%10 == 3 {
			return 29
		}
		return 30
	case 4:
		return 29
	case 5:
		return 30
	}
	if a.inLeapYear(year) {
		if month == 6 {
			return 30
		}
		month--
	}
	return hebrewTailMonths[month-6]
}

func (a hebrewArith) fixed(year, month, day int) int64 {
	rd := a.newYear(year)
	for m := 1; m < month; m++ {
		rd += int64(a.daysInMonth(year, m))
	}
	return rd + int64(day) - 1
}

func (a hebrewArith) epochDaysFromParts(year, month, day int) int64 {
	return a.fixed(year, month, day) - rdUnixEpoch
}

func (a hebrewArith) partsFromEpochDays(days int64) (int, int, int) {
	rd := days + rdUnixEpoch
	y := int(floorDiv((rd-hebrewEpoch)*98496, 35975351)) + 1
	for a.newYear(y) > rd {
		y--
	}
	for a.newYear(y+1) <= rd {
		y++
	}
	rem := int(rd - a.newYear(y))
	m := 1
	for rem >= a.daysInMonth(y, m) {
		rem -= a.daysInMonth(y, m)
		m++
	}
	return y, m, rem + 1
}

func (hebrewArith) era(_ ISODate, year int) (string, int, bool) {
	return "am", year, true
}

func (hebrewArith) yearFromEra(era string, eraYear int) (int, bool) {
	if era == "am" {
		return eraYear, true
	}
	return 0, false
}

// indianArith is the Indian national (Saka) calendar. Its year starts on
// 22 March, or 21 March in Gregorian leap years, 78 years after the ISO
// year it overlaps.
type indianArith struct{}

const sakaOffset = 78

func (indianArith) inLeapYear(year int) bool { return isoLeapYear(year + sakaOffset) }

func (a indianArith) yearStart(year int) int64 {
	day := 22
	if a.inLeapYear(year) {
		day = 21
	}
	return epochDaysFromISO(year+sakaOffset, 3, day)
}

func (a indianArith) daysInMonth(year, month int) int {
	switch {
	case month == 1 && a.inLeapYear(year):
		return 31
	case month == 1:
		return 30
	case month <= 6:
		return 31
	}
	return 30
}

func (a indianArith) daysBeforeMonth(year, month int) int64 {
	var n int64
	if month > 1 {
		n += int64(a.daysInMonth(year, 1))
	}
	n += 31 * int64(min(max(month-2, 0), 5))
	n += 30 * int64(max(month-7, 0))
	return n
}

func (a indianArith) epochDaysFromParts(year, month, day int) int64 {
	return a.yearStart(year) + a.daysBeforeMonth(year, month) + int64(day) - 1
}

func (a indianArith) partsFromEpochDays(days int64) (int, int, int) {
	y := isoFromEpochDays(days).Year - sakaOffset
	if days < a.yearStart(y) {
		y--
	}
	rem := int(days - a.yearStart(y))
	m := 1
	for rem >= a.daysInMonth(y, m) {
		rem -= a.daysInMonth(y, m)
		m++
	}
	return y, m, rem + 1
}

func (indianArith) fixedMonthsInYear() int { return 12 }

func (indianArith) monthsInYear(int) int { return 12 }

func (indianArith) monthsBeforeYear(year int) int64 { return int64(year) * 12 }

func (indianArith) leapMonth(int) int { return 0 }

func (indianArith) era(_ ISODate, year int) (string, int, bool) {
	return "saka", year, true
}

func (indianArith) yearFromEra(era string, eraYear int) (int, bool) {
	if era == "saka" {
		return eraYear, true
	}
	return 0, false
}
