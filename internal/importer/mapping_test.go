package importer

import (
	"errors"
	"testing"
)

func TestTargetFieldValid(t *testing.T) {
	valid := []TargetField{
		FieldUnmapped, FieldDestinationURL, FieldSlug, FieldTitle,
		FieldDescription, FieldRedirectCode, FieldCategoryID, FieldTags,
		FieldRoute,
		DeviceRedirectField(DeviceDesktop),
		DeviceRedirectField(DeviceMobile),
		DeviceRedirectField(DeviceTablet),
	}
	for _, f := range valid {
		if !f.Valid() {
			t.Errorf("%q should be valid", f)
		}
	}

	invalid := []TargetField{"bogus", "device_redirect:watch", "destination"}
	for _, f := range invalid {
		if f.Valid() {
			t.Errorf("%q should be invalid", f)
		}
	}
}

func TestDeviceRedirect(t *testing.T) {
	device, ok := DeviceRedirectField("mobile").DeviceRedirect()
	if !ok || device != "mobile" {
		t.Errorf("DeviceRedirect() = (%q, %v), want (mobile, true)", device, ok)
	}

	if _, ok := FieldSlug.DeviceRedirect(); ok {
		t.Error("slug should not be a device redirect")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mapping ColumnMapping
		rules   ExtractionRules
		wantErr bool
	}{
		{
			name:    "valid mapping without rules",
			mapping: ColumnMapping{"URL": FieldDestinationURL, "Name": FieldTitle},
		},
		{
			name:    "rule on slug column",
			mapping: ColumnMapping{"URL": FieldDestinationURL, "Slug": FieldSlug},
			rules:   ExtractionRules{"Slug": {Prefix: "go"}},
		},
		{
			name:    "rule on non-slug column rejected",
			mapping: ColumnMapping{"URL": FieldDestinationURL, "Name": FieldTitle},
			rules:   ExtractionRules{"Name": {Prefix: "go"}},
			wantErr: true,
		},
		{
			name:    "rule on unmapped column rejected",
			mapping: ColumnMapping{"URL": FieldDestinationURL},
			rules:   ExtractionRules{"Mystery": {Prefix: "go"}},
			wantErr: true,
		},
		{
			name:    "unknown target field rejected",
			mapping: ColumnMapping{"URL": "not_a_field"},
			wantErr: true,
		},
		{
			name: "empty mapping is fine",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.mapping, tt.rules)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRuleErrorType(t *testing.T) {
	err := Validate(
		ColumnMapping{"URL": FieldDestinationURL},
		ExtractionRules{"URL": {Prefix: "go"}},
	)

	var ruleErr *RuleError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("expected *RuleError, got %T", err)
	}
	if ruleErr.Header != "URL" {
		t.Errorf("RuleError header = %q, want URL", ruleErr.Header)
	}
}

func TestHasDestination(t *testing.T) {
	tests := []struct {
		name     string
		mapping  ColumnMapping
		detected []DetectedColumn
		want     bool
	}{
		{
			name:    "explicit destination mapping",
			mapping: ColumnMapping{"URL": FieldDestinationURL},
			want:    true,
		},
		{
			name:     "detected geo column satisfies requirement",
			detected: []DetectedColumn{{Header: "US", Kind: KindGeo, Code: "US"}},
			want:     true,
		},
		{
			name:     "detected device column satisfies requirement",
			detected: []DetectedColumn{{Header: "Mobile", Kind: KindDevice, Code: "mobile"}},
			want:     true,
		},
		{
			name:    "mapping without destination",
			mapping: ColumnMapping{"Name": FieldTitle, "Slug": FieldSlug},
			want:    false,
		},
		{
			name: "nothing at all",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasDestination(tt.mapping, tt.detected); got != tt.want {
				t.Errorf("HasDestination() = %v, want %v", got, tt.want)
			}
		})
	}
}
