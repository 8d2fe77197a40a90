package importer

import (
	"fmt"
	"strings"
)

// TargetField identifies the link-record field a source column feeds.
type TargetField string

// Target fields accepted by the record-creation API. Device-specific
// redirects are composite values built with DeviceRedirectField.
const (
	FieldUnmapped       TargetField = ""
	FieldDestinationURL TargetField = "destination_url"
	FieldSlug           TargetField = "slug"
	FieldTitle          TargetField = "title"
	FieldDescription    TargetField = "description"
	FieldRedirectCode   TargetField = "redirect_code"
	FieldCategoryID     TargetField = "category_id"
	FieldTags           TargetField = "tags"
	FieldRoute          TargetField = "route"
)

const deviceRedirectPrefix = "device_redirect:"

// DeviceRedirectField builds the composite target for a per-device redirect
// column, e.g. DeviceRedirectField("mobile") == "device_redirect:mobile".
func DeviceRedirectField(device string) TargetField {
	return TargetField(deviceRedirectPrefix + device)
}

// DeviceRedirect reports whether f is a per-device redirect target and, if
// so, which device type it addresses.
func (f TargetField) DeviceRedirect() (string, bool) {
	if !strings.HasPrefix(string(f), deviceRedirectPrefix) {
		return "", false
	}
	return strings.TrimPrefix(string(f), deviceRedirectPrefix), true
}

// Valid reports whether f is one of the accepted target fields.
func (f TargetField) Valid() bool {
	switch f {
	case FieldUnmapped, FieldDestinationURL, FieldSlug, FieldTitle,
		FieldDescription, FieldRedirectCode, FieldCategoryID, FieldTags, FieldRoute:
		return true
	}
	if device, ok := f.DeviceRedirect(); ok {
		return device == DeviceDesktop || device == DeviceMobile || device == DeviceTablet
	}
	return false
}

// ColumnMapping declares which target field each source header feeds.
// Headers absent from the map are unmapped unless the classifier detects
// them.
type ColumnMapping map[string]TargetField

// ExtractionRule transforms a raw cell value before it is used as a slug.
// The prefix is matched case-insensitively as a path segment; see Extract.
type ExtractionRule struct {
	Prefix string
}

// ExtractionRules associates rules with source headers. Rules may only be
// attached to columns mapped to the slug field.
type ExtractionRules map[string]ExtractionRule

// Validate checks that m uses known target fields and that every rule in
// rules sits on a slug-mapped column.
func Validate(m ColumnMapping, rules ExtractionRules) error {
	for header, field := range m {
		if !field.Valid() {
			return fmt.Errorf("column %q: unknown target field %q", header, field)
		}
	}
	for header := range rules {
		if m[header] != FieldSlug {
			return &RuleError{Header: header}
		}
	}
	return nil
}

// HasDestination reports whether the required destination URL is covered,
// either by an explicit mapping or by a classified redirect column. A
// detected geo or device column carries a URL, so it satisfies the
// requirement on its own.
func HasDestination(m ColumnMapping, detected []DetectedColumn) bool {
	for _, field := range m {
		if field == FieldDestinationURL {
			return true
		}
	}
	return len(detected) > 0
}
