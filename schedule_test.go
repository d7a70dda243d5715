package eurailnet

import (
	"errors"
	"testing"
)

func daySetOf(days ...int) DaySet {
	var ds DaySet
	for _, d := range days {
		ds = ds.With(d)
	}
	return ds
}

func TestParseDays(t *testing.T) {
	for _, tc := range []struct {
		in      string
		want    DaySet
		wantErr bool
	}{
		{in: "Daily", want: AllDays},
		{in: "daily", want: AllDays},
		{in: "DAILY", want: AllDays},
		{in: "Mon|Tue|Wed", want: daySetOf(0, 1, 2)},
		{in: "Mon,Wed,Fri", want: daySetOf(0, 2, 4)},
		{in: "MON-FRI", want: daySetOf(0, 1, 2, 3, 4)},
		{in: "mon-fri", want: daySetOf(0, 1, 2, 3, 4)},
		// Range wraps past the week end.
		{in: "FRI-MON", want: daySetOf(4, 5, 6, 0)},
		{in: "SAT-SUN", want: daySetOf(5, 6)},
		{in: "Sun", want: daySetOf(6)},
		{in: "Monday|Tuesday", want: daySetOf(0, 1)},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "Mon|Funday", wantErr: true},
		{in: "XXX-FRI", wantErr: true},
		{in: "|", wantErr: true},
	} {
		got, err := ParseDays(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDays(%q): expected error, got %v", tc.in, got)
				continue
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("ParseDays(%q): error %v is not a ValidationError", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDays(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDays(%q) = %v, want %v", tc.in, got.Days(), tc.want.Days())
		}
	}
}

func TestDaySetContains(t *testing.T) {
	ds := daySetOf(0, 6)
	if !ds.Contains(0) || !ds.Contains(6) {
		t.Error("members missing from day set")
	}
	if ds.Contains(3) {
		t.Error("day set contains non-member")
	}
	if ds.Contains(-1) || ds.Contains(7) {
		t.Error("out-of-range weekday reported as member")
	}
}

func TestParsePriceInt(t *testing.T) {
	for _, tc := range []struct {
		in      string
		want    int
		wantErr error
	}{
		{in: "100", want: 100},
		{in: " 1,250 ", want: 1250},
		{in: "€90", want: 90},
		{in: "$75", want: 75},
		{in: "£30", want: 30},
		{in: "0", want: 0},
		{in: "", wantErr: &FormatError{}},
		{in: "  ", wantErr: &FormatError{}},
		{in: "abc", wantErr: &FormatError{}},
		{in: "12.50", wantErr: &FormatError{}},
		{in: "-5", wantErr: &ValidationError{}},
	} {
		got, err := ParsePriceInt(tc.in)
		switch tc.wantErr.(type) {
		case *FormatError:
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Errorf("ParsePriceInt(%q): want FormatError, got %v", tc.in, err)
			}
		case *ValidationError:
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("ParsePriceInt(%q): want ValidationError, got %v", tc.in, err)
			}
		default:
			if err != nil {
				t.Errorf("ParsePriceInt(%q): %v", tc.in, err)
			} else if got != tc.want {
				t.Errorf("ParsePriceInt(%q) = %d, want %d", tc.in, got, tc.want)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	for _, tc := range []struct{ in, want string }{
		{"Paris", "paris"},
		{"  PARIS  ", "paris"},
		{"Zürich", "zurich"},
		{"Genève", "geneve"},
		{"São  Paulo", "sao paulo"},
		{"La   Rochelle ", "la rochelle"},
		{"Straße", "strasse"},
		{"", ""},
	} {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if Normalize("Straße") != Normalize("STRASSE") {
		t.Error("case folding must equate sharp s with ss")
	}
}
