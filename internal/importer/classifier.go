package importer

import "strings"

// ColumnKind tags what a classified column redirects by.
type ColumnKind int

const (
	// KindGeo marks a per-country redirect column; Code holds the ISO
	// 3166-1 alpha-2 country code.
	KindGeo ColumnKind = iota
	// KindDevice marks a per-device redirect column; Code holds the device
	// type (desktop, mobile, tablet).
	KindDevice
)

// Device types recognized by the classifier.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
)

// DetectedColumn is the classifier's verdict for one header.
type DetectedColumn struct {
	Header string
	Kind   ColumnKind
	Code   string
}

// roleSuffixes are stripped from the end of a normalized header before
// lookup, longest variants first so " url" wins over "url". "redirect" is a
// role word too: "US Redirect URL" must reduce to "us".
var roleSuffixes = []string{
	" redirect", "_redirect", "-redirect", "redirect",
	" url", "_url", "-url", "url",
	" link", "_link", "-link", "link",
	" page", "_page", "-page", "page",
}

// Classify infers a special-purpose redirect column from header text alone.
// Geography is tried first and short-circuits; a header matching neither
// detector yields ok == false and stays under explicit-mapping control.
func Classify(header string) (DetectedColumn, bool) {
	name := normalizeHeader(header)
	if name == "" {
		return DetectedColumn{}, false
	}

	if code, ok := lookupCountry(name); ok {
		return DetectedColumn{Header: header, Kind: KindGeo, Code: code}, true
	}

	switch name {
	case DeviceDesktop, DeviceMobile, DeviceTablet:
		return DetectedColumn{Header: header, Kind: KindDevice, Code: name}, true
	}

	return DetectedColumn{}, false
}

// ClassifyHeaders runs the classifier over every header that is not already
// explicitly mapped; explicit ColumnMapping entries take precedence.
func ClassifyHeaders(headers []string, mapping ColumnMapping) []DetectedColumn {
	var detected []DetectedColumn
	for _, header := range headers {
		if _, mapped := mapping[header]; mapped {
			continue
		}
		if col, ok := Classify(header); ok {
			detected = append(detected, col)
		}
	}
	return detected
}

// normalizeHeader lowercases, trims, and strips role suffixes ("US Redirect
// URL" -> "us"). Suffixes are stripped repeatedly so stacked role words all
// come off.
func normalizeHeader(header string) string {
	name := strings.ToLower(strings.TrimSpace(header))

	for {
		name = strings.TrimRight(name, " _-")
		stripped := false
		for _, suffix := range roleSuffixes {
			if rest, ok := strings.CutSuffix(name, suffix); ok && rest != "" {
				name = rest
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}

	return strings.TrimRight(name, " _-")
}

// lookupCountry resolves a normalized header against the country table.
// Underscores and hyphens are treated as spaces first, then variants with
// spaces replaced by underscore, by hyphen, or removed entirely are tried,
// so "united_states", "new-zealand", and "unitedstates" all land on the
// space-separated table keys.
func lookupCountry(name string) (string, bool) {
	spaced := strings.ReplaceAll(strings.ReplaceAll(name, "_", " "), "-", " ")

	candidates := []string{
		name,
		spaced,
		strings.ReplaceAll(spaced, " ", "_"),
		strings.ReplaceAll(spaced, " ", "-"),
		strings.ReplaceAll(spaced, " ", ""),
	}

	for _, cand := range candidates {
		if code, ok := countryCodes[cand]; ok {
			return code, true
		}
	}
	return "", false
}
