package eurailnet

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DaySet is a set of operating weekdays, 0=Monday..6=Sunday, as a bitmask.
type DaySet uint8

// AllDays covers the full week ("Daily").
const AllDays DaySet = 1<<7 - 1

func (d DaySet) Contains(weekday int) bool {
	return weekday >= 0 && weekday <= 6 && d&(1<<uint(weekday)) != 0
}

func (d DaySet) With(weekday int) DaySet { return d | 1<<uint(weekday) }

// Days returns the member weekdays in ascending order.
func (d DaySet) Days() []int {
	out := make([]int, 0, 7)
	for w := 0; w <= 6; w++ {
		if d.Contains(w) {
			out = append(out, w)
		}
	}
	return out
}

func (d DaySet) String() string {
	if d == AllDays {
		return "Daily"
	}
	names := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	var parts []string
	for _, w := range d.Days() {
		parts = append(parts, names[w])
	}
	return strings.Join(parts, "|")
}

var dayIndex = map[string]int{
	"MON": 0, "TUE": 1, "WED": 2, "THU": 3, "FRI": 4, "SAT": 5, "SUN": 6,
}

var deaccent = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

func stripAccents(s string) string {
	out, _, err := transform.String(deaccent, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize produces the lookup key used for every city and train
// comparison: accents stripped, case folded, whitespace collapsed. Full
// case folding is needed because NFKD leaves ligature-style letters intact:
// "Straße" and "Strasse" must share a key.
func Normalize(name string) string {
	// cases.Caser carries internal state, so build one per call.
	s := cases.Fold().String(stripAccents(name))
	return strings.Join(strings.Fields(s), " ")
}

func dayToken(tok string) (int, error) {
	t := strings.ToUpper(strings.TrimSpace(stripAccents(tok)))
	if len(t) > 3 {
		t = t[:3]
	}
	d, ok := dayIndex[t]
	if !ok {
		return 0, &ValidationError{Msg: fmt.Sprintf("unknown day token %q", tok)}
	}
	return d, nil
}

// ParseDays parses a days-of-operation field. Accepted forms: "Daily"
// (case-insensitive), a single hyphenated range of 3-letter tokens that may
// wrap the week end ("FRI-MON"), or a "|"- or ","-separated token list.
func ParseDays(s string) (DaySet, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, &ValidationError{Msg: "empty days_of_operation"}
	}
	if strings.EqualFold(raw, "daily") {
		return AllDays, nil
	}
	if strings.Contains(raw, "-") && !strings.Contains(raw, ",") {
		parts := strings.SplitN(raw, "-", 2)
		start, err := dayToken(parts[0])
		if err != nil {
			return 0, err
		}
		end, err := dayToken(parts[1])
		if err != nil {
			return 0, err
		}
		var ds DaySet
		for w := start; ; w = (w + 1) % 7 {
			ds = ds.With(w)
			if w == end {
				break
			}
		}
		return ds, nil
	}
	sep := ","
	if strings.Contains(raw, "|") {
		sep = "|"
	}
	var ds DaySet
	for _, tok := range strings.Split(raw, sep) {
		if strings.TrimSpace(tok) == "" {
			continue
		}
		w, err := dayToken(tok)
		if err != nil {
			return 0, err
		}
		ds = ds.With(w)
	}
	if ds == 0 {
		return 0, &ValidationError{Msg: fmt.Sprintf("no day tokens in %q", s)}
	}
	return ds, nil
}

// ParsePriceInt parses a flat fare, tolerating currency symbols, thousands
// separators, and stray whitespace.
func ParsePriceInt(s string) (int, error) {
	t := strings.Map(func(r rune) rune {
		if r == '€' || r == '$' || r == '£' || r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if t == "" {
		return 0, &FormatError{Msg: "empty price"}
	}
	n, err := strconv.Atoi(t)
	if err != nil {
		return 0, &FormatError{Msg: fmt.Sprintf("invalid price %q", s)}
	}
	if n < 0 {
		return 0, &ValidationError{Msg: fmt.Sprintf("negative price %q", s)}
	}
	return n, nil
}
