package importer

import "strings"

// Extract applies an extraction rule to a raw cell value. With no rule the
// value passes through unchanged.
//
// With a prefix rule, prefix+"/" is searched case-insensitively anywhere in
// the value and the segment after it, up to the next "/" or end of string,
// is returned: Extract("https://x.com/go/promo123", "go") == "promo123".
// When prefix+"/" is absent, a bare prefix standing at the start of the
// value or of a path segment matches instead and the remainder up to the
// next "/" is returned. A value without the prefix comes back unchanged —
// extraction never fails, and callers detect a no-op by comparing output to
// input ("nogo-here" does not contain the segment "go" and is untouched).
func Extract(raw string, rule *ExtractionRule) string {
	if rule == nil || rule.Prefix == "" {
		return raw
	}

	lower := strings.ToLower(raw)
	prefix := strings.ToLower(rule.Prefix)

	if idx := strings.Index(lower, prefix+"/"); idx >= 0 {
		return untilSlash(raw[idx+len(prefix)+1:])
	}

	if idx := segmentIndex(lower, prefix); idx >= 0 {
		return untilSlash(raw[idx+len(prefix):])
	}

	return raw
}

// untilSlash returns s truncated at the first "/".
func untilSlash(s string) string {
	if cut := strings.IndexByte(s, '/'); cut >= 0 {
		return s[:cut]
	}
	return s
}

// segmentIndex finds prefix at the start of s or of a path segment, so the
// bare-prefix fallback does not fire on words that merely contain it.
func segmentIndex(s, prefix string) int {
	from := 0
	for {
		idx := strings.Index(s[from:], prefix)
		if idx < 0 {
			return -1
		}
		idx += from
		if idx == 0 || s[idx-1] == '/' {
			return idx
		}
		from = idx + 1
	}
}
