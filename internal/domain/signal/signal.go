// Package signal normalizes raw stored label and color payloads into
// comparable sets. All extraction is parse-or-default: absent or malformed
// input yields the empty set, never an error.
package signal

import "strings"

// Set is a normalized string set.
type Set map[string]struct{}

// Contains reports membership.
func (s Set) Contains(v string) bool {
	_, ok := s[v]
	return ok
}

// Intersection returns the number of elements present in both sets.
func (s Set) Intersection(other Set) int {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for v := range small {
		if large.Contains(v) {
			n++
		}
	}
	return n
}

// LabelSet extracts a lower-cased label set from a labels payload of the form
// {"labels": [{"label"|"description": string, "score": number}, ...]} as
// decoded from JSON. Each entry may carry either key; "label" wins.
func LabelSet(payload any) Set {
	out := Set{}
	obj, ok := payload.(map[string]any)
	if !ok {
		return out
	}
	items, ok := obj["labels"].([]any)
	if !ok {
		return out
	}
	for _, raw := range items {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		text, _ := entry["label"].(string)
		if text == "" {
			text, _ = entry["description"].(string)
		}
		if text == "" {
			continue
		}
		out[strings.ToLower(text)] = struct{}{}
	}
	return out
}

// ColorSet extracts a lower-cased hex color set from a color list. Accepts
// both []string and the []any shape produced by JSON decoding.
func ColorSet(colors any) Set {
	out := Set{}
	switch list := colors.(type) {
	case []string:
		for _, c := range list {
			if c != "" {
				out[strings.ToLower(c)] = struct{}{}
			}
		}
	case []any:
		for _, raw := range list {
			if c, ok := raw.(string); ok && c != "" {
				out[strings.ToLower(c)] = struct{}{}
			}
		}
	}
	return out
}
