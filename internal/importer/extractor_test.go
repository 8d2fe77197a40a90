package importer

import "testing"

func TestExtract(t *testing.T) {
	goRule := &ExtractionRule{Prefix: "go"}

	tests := []struct {
		name string
		raw  string
		rule *ExtractionRule
		want string
	}{
		{
			name: "no rule passes value through",
			raw:  "https://x.com/go/promo123",
			rule: nil,
			want: "https://x.com/go/promo123",
		},
		{
			name: "empty prefix passes value through",
			raw:  "anything",
			rule: &ExtractionRule{},
			want: "anything",
		},
		{
			name: "segment after prefix",
			raw:  "https://x.com/go/promo123",
			rule: goRule,
			want: "promo123",
		},
		{
			name: "segment stops at next slash",
			raw:  "https://x.com/go/promo123/extra",
			rule: goRule,
			want: "promo123",
		},
		{
			name: "prefix match is case-insensitive",
			raw:  "https://x.com/GO/Promo123",
			rule: goRule,
			want: "Promo123",
		},
		{
			name: "prefix absent leaves value unchanged",
			raw:  "nogo-here",
			rule: goRule,
			want: "nogo-here",
		},
		{
			name: "bare prefix at segment start takes remainder",
			raw:  "https://x.com/go-promo",
			rule: goRule,
			want: "-promo",
		},
		{
			name: "bare prefix at value start takes remainder",
			raw:  "go-promo/rest",
			rule: goRule,
			want: "-promo",
		},
		{
			name: "prefix embedded in a word does not match",
			raw:  "https://x.com/logo-here",
			rule: goRule,
			want: "https://x.com/logo-here",
		},
		{
			name: "value without prefix unchanged",
			raw:  "https://x.com/other/path",
			rule: goRule,
			want: "https://x.com/other/path",
		},
		{
			name: "empty value unchanged",
			raw:  "",
			rule: goRule,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.raw, tt.rule); got != tt.want {
				t.Errorf("Extract(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
