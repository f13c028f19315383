package errshape

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultResourceName qualifies canonical paths when the caller names no resource.
const DefaultResourceName = "resource"

// pathRewrite rewrites one connector path shape into its canonical form.
// build receives the lower-cased resource name and the submatches.
type pathRewrite struct {
	pattern *regexp.Regexp
	build   func(resource string, m []string) string
}

// pathRewrites run in order on the lower-cased raw path.
var pathRewrites = []pathRewrite{
	{
		// lines[N].X.uid -> {resource}.lineitems.N.X.id
		pattern: regexp.MustCompile(`lines\[(\d+)\]\.(\w+)\.uid\b`),
		build: func(resource string, m []string) string {
			return resource + ".lineitems." + m[1] + "." + m[2] + ".id"
		},
	},
	{
		// lines[N].X -> {resource}.lineitems.N.X
		pattern: regexp.MustCompile(`lines\[(\d+)\]\.(\w+)`),
		build: func(resource string, m []string) string {
			return resource + ".lineitems." + m[1] + "." + m[2]
		},
	},
	{
		pattern: regexp.MustCompile(`^elements\[(\d+)\]\.`),
		build: func(resource string, m []string) string {
			return resource + ".elements." + m[1] + "."
		},
	},
	{
		pattern: regexp.MustCompile(`^request\.body\.`),
		build: func(resource string, _ []string) string {
			return resource + "."
		},
	},
}

// lower applies Unicode full lower-casing. A Caser is stateful, so each call
// gets its own.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// LooksLikePath reports whether s reads as a structured field path rather
// than prose: it contains a dot and no space.
func LooksLikePath(s string) bool {
	return strings.Contains(s, ".") && !strings.Contains(s, " ")
}

// NormalizePath converts a connector field path such as "Lines[0].TaxCode.UID"
// into canonical lower-case segments qualified by resource, for example
// [invoice lineitems 0 taxcode id]. It returns nil when raw does not look like
// a path.
func NormalizePath(raw, resource string) []string {
	if !LooksLikePath(raw) {
		return nil
	}
	if resource == "" {
		resource = DefaultResourceName
	}
	resource = lower(resource)

	p := lower(raw)
	for _, rw := range pathRewrites {
		p = rw.pattern.ReplaceAllStringFunc(p, func(match string) string {
			return rw.build(resource, rw.pattern.FindStringSubmatch(match))
		})
	}

	parts := strings.Split(p, ".")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	if len(segments) == 0 {
		return nil
	}
	return segments
}
