package textutil

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DefaultDateLayout is the layout FormatTime uses when given "".
const DefaultDateLayout = "yyyy-mm-dd"

type dateToken struct {
	re    *regexp.Regexp
	value func(time.Time) int
}

var dateTokens = []dateToken{
	{regexp.MustCompile(`y+`), func(t time.Time) int { return t.Year() }},
	{regexp.MustCompile(`m+`), func(t time.Time) int { return int(t.Month()) }},
	{regexp.MustCompile(`d+`), func(t time.Time) int { return t.Day() }},
	{regexp.MustCompile(`h+`), func(t time.Time) int { return t.Hour() }},
	{regexp.MustCompile(`M+`), func(t time.Time) int { return t.Minute() }},
	{regexp.MustCompile(`s+`), func(t time.Time) int { return t.Second() }},
}

// dateStringLayouts are tried in order by FormatValue.
var dateStringLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// FormatTime renders t with a token layout such as "yyyy-mm-dd hh:MM".
func FormatTime(t time.Time, layout string) string {
	if layout == "" {
		layout = DefaultDateLayout
	}
	for _, tok := range dateTokens {
		loc := tok.re.FindStringIndex(layout)
		if loc == nil {
			continue
		}
		width := loc[1] - loc[0]
		v := strconv.Itoa(tok.value(t))
		if width > 1 {
			v = PadStart(v, width, "0")
		}
		layout = layout[:loc[0]] + v + layout[loc[1]:]
	}
	return layout
}

// FormatValue is FormatTime over a loosely typed date: a time.Time, unix
// milliseconds (int, int64, float64) or a date string in one of the common
// layouts. nil, 0, "" and the zero time format the current time.
func FormatValue(v any, layout string) (string, error) {
	t, err := toTime(v)
	if err != nil {
		return "", err
	}
	return FormatTime(t, layout), nil
}

func toTime(v any) (time.Time, error) {
	switch d := v.(type) {
	case nil:
		return time.Now(), nil
	case time.Time:
		if d.IsZero() {
			return time.Now(), nil
		}
		return d, nil
	case int:
		return fromMillis(int64(d)), nil
	case int64:
		return fromMillis(d), nil
	case float64:
		return fromMillis(int64(d)), nil
	case string:
		if d == "" {
			return time.Now(), nil
		}
		for _, l := range dateStringLayouts {
			if t, err := time.ParseInLocation(l, d, time.Local); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognised date %q", d)
	default:
		return time.Time{}, fmt.Errorf("unsupported date type %T", v)
	}
}

// fromMillis treats 0 as unset.
func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Now()
	}
	return time.UnixMilli(ms)
}
