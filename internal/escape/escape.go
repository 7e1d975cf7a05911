// Package escape neutralises markup in text that came from the upstream API
// before it is placed inside rendered HTML.
package escape

import (
	"fmt"
	"reflect"
	"strings"
)

var replacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// HTML returns the string form of v with & < > " ' replaced by entities.
// Falsy values (nil, "", false, numeric zero) yield "".
func HTML(v any) string {
	if isFalsy(v) {
		return ""
	}
	return replacer.Replace(fmt.Sprint(v))
}

func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return rv.IsZero()
	}
	return false
}
