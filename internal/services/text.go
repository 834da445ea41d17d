package services

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// normalizeTag folds a free-form tag for case-insensitive comparison.
// A Caser is stateful, so one is built per call.
func normalizeTag(s string) string {
	s = strings.TrimSpace(norm.NFC.String(s))
	if s == "" {
		return ""
	}
	return cases.Fold().String(s)
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if n := normalizeTag(tag); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// tagSet is a folded set of tags for membership checks.
type tagSet map[string]struct{}

func newTagSet(tags ...[]string) tagSet {
	set := make(tagSet)
	for _, group := range tags {
		for _, tag := range group {
			if n := normalizeTag(tag); n != "" {
				set[n] = struct{}{}
			}
		}
	}
	return set
}

func (s tagSet) has(tag string) bool {
	_, ok := s[tag]
	return ok
}

func (s tagSet) hasAny(tags ...string) bool {
	for _, tag := range tags {
		if s.has(tag) {
			return true
		}
	}
	return false
}

func containsFolded(values []string, target string) bool {
	target = normalizeTag(target)
	for _, v := range values {
		if normalizeTag(v) == target {
			return true
		}
	}
	return false
}

func (s tagSet) intersects(other tagSet) bool {
	for tag := range other {
		if s.has(tag) {
			return true
		}
	}
	return false
}
