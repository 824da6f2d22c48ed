package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// rule is one stage of name resolution: a match or nothing, no score.
type rule[T any] func(name string) (T, bool)

// clean trims the input and composes Hangul, since transcripts may carry
// decomposed jamo that would never equal a table key.
func clean(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func exactRule[T any](t table[T]) rule[T] {
	return func(name string) (T, bool) {
		return t.lookup(clean(name))
	}
}

func noSpaceExactRule[T any](t table[T]) rule[T] {
	return func(name string) (T, bool) {
		return t.lookup(stripSpaces(clean(name)))
	}
}

// substringRule accepts the first key, in table order, that contains or is
// contained by the name, compared first as given and then without spaces.
func substringRule[T any](t table[T]) rule[T] {
	return func(name string) (T, bool) {
		cleaned := clean(name)
		compact := stripSpaces(cleaned)
		for _, e := range t {
			if strings.Contains(cleaned, e.key) || strings.Contains(e.key, cleaned) {
				return e.value, true
			}
			key := stripSpaces(e.key)
			if strings.Contains(compact, key) || strings.Contains(key, compact) {
				return e.value, true
			}
		}
		var zero T
		return zero, false
	}
}

// pipeline runs rules in order and stops at the first match. Blank input
// never matches: every key would contain it.
func pipeline[T any](rules ...rule[T]) rule[T] {
	return func(name string) (T, bool) {
		var zero T
		if clean(name) == "" {
			return zero, false
		}
		for _, r := range rules {
			if v, ok := r(name); ok {
				return v, true
			}
		}
		return zero, false
	}
}

func ranked[T any](t table[T]) rule[T] {
	return pipeline(exactRule(t), noSpaceExactRule(t), substringRule(t))
}
