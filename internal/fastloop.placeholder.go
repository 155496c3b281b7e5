package internal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ReservedIndexName substitutes the item's 1-based position.
const ReservedIndexName = "index"

// placeholderPattern matches `{{identifier}}` where identifier is one or more
// word characters. No whitespace tolerance inside the braces, no nesting.
var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Substitute replaces every placeholder in template from item in a single
// left-to-right pass. Replaced text is never re-scanned. The reserved name
// "index" yields index+1; an absent key or nil value yields the empty string.
// The result is trimmed of leading and trailing whitespace.
func Substitute(template string, item map[string]any, index int) string {
	out := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[2 : len(match)-2]
		if name == ReservedIndexName {
			return strconv.Itoa(index + 1)
		}
		v, ok := item[name]
		if !ok || v == nil {
			return ""
		}
		return fmt.Sprint(v)
	})
	return strings.TrimSpace(out)
}

// PlaceholderNames returns the distinct placeholder identifiers in template,
// in first-occurrence order. Used by the CLI linting output.
func PlaceholderNames(template string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
