// Package navigation builds the zone and category menus. The active entry is
// derived from the selected key on every render; nothing is toggled in place.
package navigation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type Entry struct {
	Key   string
	Label string
}

// Item is an Entry ready for rendering.
type Item struct {
	Key    string
	Label  string
	Active bool
}

// Items marks exactly the entry whose key equals selected as active. An
// unknown selected key leaves every item inactive.
func Items(entries []Entry, selected string) []Item {
	out := make([]Item, len(entries))
	for i, e := range entries {
		out[i] = Item{Key: e.Key, Label: e.Label, Active: e.Key == selected}
	}
	return out
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Normalize trims and lower-cases a key taken from a query string.
func Normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
