package civiltime

import (
	"math/big"
	"testing"
)

func TestParseUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Unit
		wantErr bool
	}{
		{"", UnitAuto, false},
		{"auto", UnitAuto, false},
		{"year", Year, false},
		{"Years", Year, false},
		{"weeks", Week, false},
		{"nanosecond", Nanosecond, false},
		{"microseconds", Microsecond, false},
		{"fortnight", UnitAuto, true},
		{"ss", UnitAuto, true},
	}
	for _, tt := range tests {
		got, err := ParseUnit(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseUnit(%q) error = %v, wantErr = %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseUnit(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestUnitOrder(t *testing.T) {
	t.Parallel()

	for u := Nanosecond; u < Year; u++ {
		if !(u < u+1) || maxUnit(u, u+1) != u+1 || minUnit(u, u+1) != u {
			t.Errorf("units %v and %v are out of order", u, u+1)
		}
	}
	if !Week.isCalendar() || Day.isCalendar() {
		t.Error("calendar units start at week")
	}
	if !Hour.isTime() || Day.isTime() {
		t.Error("time units stop below day")
	}
	if got := Unit(42).String(); got != "Unit(42)" {
		t.Errorf("Unit(42).String() = %q", got)
	}
}

func TestParseRoundingMode(t *testing.T) {
	t.Parallel()

	for m := RoundDefault; m <= RoundHalfEven; m++ {
		got, err := ParseRoundingMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseRoundingMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if got, err := ParseRoundingMode("HALFEXPAND"); err != nil || got != RoundHalfExpand {
		t.Errorf("ParseRoundingMode is case-insensitive, got %v, %v", got, err)
	}
	if _, err := ParseRoundingMode("up"); err == nil {
		t.Error("ParseRoundingMode(\"up\") should fail")
	}
}

// roundingTable lists n rounded to a multiple of 10 for -25..25.
var roundingTable = []struct {
	mode RoundingMode
	want [6]int64 // for 25, 15, 5, -5, -15, -25
}{
	{RoundCeil, [6]int64{30, 20, 10, 0, -10, -20}},
	{RoundFloor, [6]int64{20, 10, 0, -10, -20, -30}},
	{RoundExpand, [6]int64{30, 20, 10, -10, -20, -30}},
	{RoundTrunc, [6]int64{20, 10, 0, 0, -10, -20}},
	{RoundHalfCeil, [6]int64{30, 20, 10, 0, -10, -20}},
	{RoundHalfFloor, [6]int64{20, 10, 0, -10, -20, -30}},
	{RoundHalfExpand, [6]int64{30, 20, 10, -10, -20, -30}},
	{RoundHalfTrunc, [6]int64{20, 10, 0, 0, -10, -20}},
	{RoundHalfEven, [6]int64{20, 20, 0, 0, -20, -20}},
}

func TestRoundInt64(t *testing.T) {
	t.Parallel()

	inputs := [6]int64{25, 15, 5, -5, -15, -25}
	for _, tt := range roundingTable {
		t.Run(tt.mode.String(), func(t *testing.T) {
			for i, n := range inputs {
				if got := roundInt64(n, 10, tt.mode); got != tt.want[i] {
					t.Errorf("roundInt64(%d, 10) = %d, want %d", n, got, tt.want[i])
				}
				got := roundBig(big.NewInt(n), big.NewInt(10), tt.mode)
				if got.Int64() != tt.want[i] {
					t.Errorf("roundBig(%d, 10) = %v, want %d", n, got, tt.want[i])
				}
			}
		})
	}
}

func TestRoundInt64_OffHalf(t *testing.T) {
	t.Parallel()

	for _, mode := range []RoundingMode{RoundHalfCeil, RoundHalfFloor, RoundHalfExpand, RoundHalfTrunc, RoundHalfEven} {
		if got := roundInt64(14, 10, mode); got != 10 {
			t.Errorf("%v: roundInt64(14, 10) = %d, want 10", mode, got)
		}
		if got := roundInt64(-16, 10, mode); got != -20 {
			t.Errorf("%v: roundInt64(-16, 10) = %d, want -20", mode, got)
		}
		if got := roundInt64(30, 10, mode); got != 30 {
			t.Errorf("%v: exact multiples are unchanged, got %d", mode, got)
		}
	}
}

func TestRoundingModeNegate(t *testing.T) {
	t.Parallel()

	// Rounding -n with the negated mode mirrors rounding n.
	for _, tt := range roundingTable {
		for _, n := range []int64{25, 15, 5, 14, 16} {
			want := -roundInt64(n, 10, tt.mode)
			if got := roundInt64(-n, 10, tt.mode.negate()); got != want {
				t.Errorf("%v: roundInt64(%d) with negated mode = %d, want %d", tt.mode, -n, got, want)
			}
		}
	}
	if RoundDefault.or(RoundTrunc) != RoundTrunc || RoundCeil.or(RoundTrunc) != RoundCeil {
		t.Error("or should only replace the default mode")
	}
}

func TestRoundDayTimeNano(t *testing.T) {
	t.Parallel()

	d := NewDayTimeNano(1, 12*nanoInHour)
	got, ok := roundDayTimeNano(d, nanoInDay, RoundHalfEven)
	if !ok || got != NewDayTimeNano(2, 0) {
		t.Errorf("1.5 days half-even = %v", got)
	}
	got, ok = roundDayTimeNano(d.Neg(), nanoInDay, RoundHalfExpand)
	if !ok || got != NewDayTimeNano(-2, 0) {
		t.Errorf("-1.5 days half-expand = %v", got)
	}
	got, ok = roundDayTimeNano(d, 1, RoundCeil)
	if !ok || got != d {
		t.Errorf("increment 1 should be a no-op, got %v", got)
	}
}
