// Package sectionfilter removes configured heading-delimited sections from
// Markdown content.
package sectionfilter

import (
	"regexp"
	"strings"
)

var headingRe = regexp.MustCompile(`^(#{1,6}) (.*)$`)

// Strip drops every section whose heading title exactly matches one of
// excludedTitles. A matching heading opens an exclusion at its depth; all
// following lines, including deeper headings and their content, are dropped
// until a heading at the same or a shallower depth appears. That heading is
// evaluated fresh and may itself re-open the exclusion. The result is trimmed
// of leading and trailing whitespace.
func Strip(content string, excludedTitles []string) string {
	if len(excludedTitles) == 0 {
		return strings.TrimSpace(content)
	}

	excluded := make(map[string]struct{}, len(excludedTitles))
	for _, t := range excludedTitles {
		t = strings.TrimSpace(t)
		if t != "" {
			excluded[t] = struct{}{}
		}
	}

	var kept []string
	excludeDepth := 0 // 0 means not excluding

	for _, line := range strings.Split(content, "\n") {
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			if excludeDepth == 0 {
				kept = append(kept, line)
			}
			continue
		}

		depth := len(m[1])
		title := strings.TrimSpace(m[2])

		if excludeDepth > 0 && depth > excludeDepth {
			// Nested under an excluded section.
			continue
		}

		// At or above the excluded depth: the exclusion closes and the
		// heading is evaluated fresh.
		if _, drop := excluded[title]; drop {
			excludeDepth = depth
			continue
		}
		excludeDepth = 0
		kept = append(kept, line)
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}
