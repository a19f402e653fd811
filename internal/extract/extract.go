package extract

import (
	"slices"
	"strconv"
	"strings"

	"github.com/redactyl/imgstrip/internal/jsontree"
)

// JPEGPrefix is how a JPEG file starts once base64 encoded (FF D8 FF).
const JPEGPrefix = "/9j/"

// DefaultKeys are the object keys whose values are inspected for payloads.
var DefaultKeys = []string{"src", "image"}

// Matcher decides which object entries hold a payload. An entry matches when
// its key is one of Keys and its value is a string starting with Prefix.
type Matcher struct {
	Keys   []string
	Prefix string
}

// DefaultMatcher recognises JPEG payloads under "src" and "image".
func DefaultMatcher() Matcher {
	return Matcher{Keys: slices.Clone(DefaultKeys), Prefix: JPEGPrefix}
}

// Matches is the payload predicate shared by every traversal.
func (m Matcher) Matches(key string, v jsontree.Value) bool {
	if v.Kind() != jsontree.KindString || !strings.HasPrefix(v.Text(), m.Prefix) {
		return false
	}
	return slices.Contains(m.Keys, key)
}

// Extract returns every matching payload in depth-first pre-order: array
// items by index, object members in insertion order. Duplicates are kept;
// see Dedup.
func (m Matcher) Extract(v jsontree.Value) []string {
	var out []string
	m.walk(v, nil, func(_ []string, payload string) {
		out = append(out, payload)
	})
	return out
}

// Location is a single match: where it was found and what it holds.
type Location struct {
	Path  string `json:"path"` // JSON pointer, e.g. "/items/0/src"
	Value string `json:"-"`
}

// Locate returns every match with its JSON pointer, in the same order as
// Extract.
func (m Matcher) Locate(v jsontree.Value) []Location {
	var out []Location
	m.walk(v, nil, func(path []string, payload string) {
		out = append(out, Location{Path: pointer(path), Value: payload})
	})
	return out
}

func (m Matcher) walk(v jsontree.Value, path []string, visit func(path []string, payload string)) {
	switch v.Kind() {
	case jsontree.KindArray:
		for i, item := range v.Items() {
			m.walk(item, append(path, strconv.Itoa(i)), visit)
		}
	case jsontree.KindObject:
		for _, mem := range v.Members() {
			p := append(path, mem.Key)
			if m.Matches(mem.Key, mem.Value) {
				visit(p, mem.Value.Text())
				continue
			}
			m.walk(mem.Value, p, visit)
		}
	}
}

// Redact returns a copy of v in which every matching value is replaced by
// the empty string. v itself is never modified.
func (m Matcher) Redact(v jsontree.Value) jsontree.Value {
	switch v.Kind() {
	case jsontree.KindArray:
		items := v.Items()
		for i := range items {
			items[i] = m.Redact(items[i])
		}
		return jsontree.NewArray(items...)
	case jsontree.KindObject:
		members := v.Members()
		for i, mem := range members {
			if m.Matches(mem.Key, mem.Value) {
				members[i].Value = jsontree.NewString("")
			} else {
				members[i].Value = m.Redact(mem.Value)
			}
		}
		return jsontree.NewObject(members...)
	default:
		return v
	}
}

// Dedup keeps the first occurrence of each string, preserving order.
// Comparison is exact byte equality.
func Dedup(xs []string) []string {
	seen := make(map[string]struct{}, len(xs))
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
	}
	return out
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func pointer(path []string) string {
	if len(path) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, seg := range path {
		sb.WriteByte('/')
		sb.WriteString(pointerEscaper.Replace(seg))
	}
	return sb.String()
}
