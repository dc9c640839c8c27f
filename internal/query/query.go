// Package query converts between JSON-shaped maps and URL query strings.
package query

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/ironsheep/image-compress-mcp/internal/objects"
)

// ArrayFormat selects how slice values are written by Params.
type ArrayFormat string

const (
	// Indices writes ids[0]=1&ids[1]=2.
	Indices ArrayFormat = "indices"
	// Brackets writes ids[]=1&ids[]=2.
	Brackets ArrayFormat = "brackets"
	// Repeat writes ids=1&ids=2.
	Repeat ArrayFormat = "repeat"
	// Comma writes ids=1,2.
	Comma ArrayFormat = "comma"
)

// ParseArrayFormat maps a name to an ArrayFormat. Unknown names return
// Brackets and false.
func ParseArrayFormat(s string) (ArrayFormat, bool) {
	switch f := ArrayFormat(strings.ToLower(s)); f {
	case Indices, Brackets, Repeat, Comma:
		return f, true
	default:
		return Brackets, false
	}
}

// Params encodes data as a query string. Void values are skipped and keys
// are written in sorted order. With prefix set, a non-empty result starts
// with "?". An empty string is returned when nothing remains.
func Params(data map[string]any, prefix bool, format ArrayFormat) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		v := data[k]
		if objects.IsVoid(v) {
			continue
		}
		key := url.QueryEscape(k)

		items, ok := sliceItems(v)
		if !ok {
			parts = append(parts, key+"="+url.QueryEscape(stringify(v)))
			continue
		}

		switch format {
		case Indices:
			for i, item := range items {
				parts = append(parts, key+"["+strconv.Itoa(i)+"]="+url.QueryEscape(item))
			}
		case Repeat:
			for _, item := range items {
				parts = append(parts, key+"="+url.QueryEscape(item))
			}
		case Comma:
			escaped := make([]string, len(items))
			for i, item := range items {
				escaped[i] = url.QueryEscape(item)
			}
			parts = append(parts, key+"="+strings.Join(escaped, ","))
		default:
			for _, item := range items {
				parts = append(parts, key+"[]="+url.QueryEscape(item))
			}
		}
	}

	if len(parts) == 0 {
		return ""
	}
	out := strings.Join(parts, "&")
	if prefix {
		out = "?" + out
	}
	return out
}

// Parse decodes a query string such as "name=xxx&age=11" into a map. A
// leading "?" is ignored, the last value of a repeated key wins, and
// malformed escapes are kept verbatim.
func Parse(s string) map[string]string {
	out := make(map[string]string)
	s = strings.TrimPrefix(s, "?")
	for _, pair := range strings.Split(s, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		out[unescape(k)] = unescape(v)
	}
	return out
}

// FormData flattens obj into form values. Slice values are expanded to
// key[0], key[1], and so on.
func FormData(obj map[string]any) url.Values {
	form := make(url.Values, len(obj))
	for k, v := range obj {
		if items, ok := sliceItems(v); ok {
			for i, item := range items {
				form.Add(k+"["+strconv.Itoa(i)+"]", item)
			}
			continue
		}
		form.Add(k, stringify(v))
	}
	return form
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

// sliceItems stringifies the elements of any slice or array value other
// than []byte.
func sliceItems(v any) ([]string, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	items := make([]string, rv.Len())
	for i := range items {
		items[i] = stringify(rv.Index(i).Interface())
	}
	return items, true
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
