package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TrimPos selects which whitespace Trim removes.
type TrimPos string

const (
	TrimBoth  TrimPos = "both"
	TrimLeft  TrimPos = "left"
	TrimRight TrimPos = "right"
	TrimAll   TrimPos = "all"
)

// Trim removes whitespace from s according to pos. Unknown positions return
// s unchanged.
func Trim(s string, pos TrimPos) string {
	switch pos {
	case TrimBoth:
		return strings.TrimSpace(s)
	case TrimLeft:
		return strings.TrimLeftFunc(s, unicode.IsSpace)
	case TrimRight:
		return strings.TrimRightFunc(s, unicode.IsSpace)
	case TrimAll:
		return strings.Join(strings.Fields(s), "")
	default:
		return s
	}
}

// PadStart left-pads s with fill until it is length runes long. Strings
// already that long are returned as is; an empty fill pads with spaces.
func PadStart(s string, length int, fill string) string {
	n := utf8.RuneCountInString(s)
	if n >= length {
		return s
	}
	if fill == "" {
		fill = " "
	}

	var b strings.Builder
	need := length - n
	for need > 0 {
		for _, r := range fill {
			if need == 0 {
				break
			}
			b.WriteRune(r)
			need--
		}
	}
	b.WriteString(s)
	return b.String()
}

// Ext returns the lower-cased text after the last dot of name, or the whole
// lower-cased name when it has no dot.
func Ext(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(name)
}
