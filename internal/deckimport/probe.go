package deckimport

import (
	"strings"

	"github.com/tidwall/gjson"
)

// firstString returns the first non-empty string found at any of paths.
func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		v := r.Get(p)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if s := strings.TrimSpace(v.String()); s != "" {
			return s
		}
	}
	return ""
}

// quantity reads the first numeric quantity at paths, defaulting to 1.
// Fractional values are truncated and anything below 1 becomes 1.
func quantity(r gjson.Result, paths ...string) int {
	for _, p := range paths {
		v := r.Get(p)
		if v.Type != gjson.Number && v.Type != gjson.String {
			continue
		}
		n := v.Float()
		if n >= 1 {
			return int(n)
		}
		return 1
	}
	return 1
}

// rows coerces an object keyed by id or an array into its member objects, in
// document order.
func rows(r gjson.Result) []gjson.Result {
	if !r.IsObject() && !r.IsArray() {
		return nil
	}
	var out []gjson.Result
	r.ForEach(func(_, value gjson.Result) bool {
		if value.IsObject() {
			out = append(out, value)
		}
		return true
	})
	return out
}

func stringList(r gjson.Result) []string {
	out := []string{}
	if !r.IsArray() {
		return out
	}
	for _, v := range r.Array() {
		if s := v.String(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// displayFormat capitalizes a provider format name ("commander" -> "Commander").
func displayFormat(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
