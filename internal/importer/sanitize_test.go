package importer

import (
	"bytes"
	"testing"
)

func TestSanitizeUTF8(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  []byte
	}{
		{
			name:  "valid ascii unchanged",
			input: []byte("url,slug"),
			want:  []byte("url,slug"),
		},
		{
			name:  "valid multibyte unchanged",
			input: []byte("caf\xc3\xa9"),
			want:  []byte("caf\xc3\xa9"),
		},
		{
			name:  "invalid byte replaced",
			input: []byte{0x80},
			want:  []byte("�"),
		},
		{
			name:  "latin-1 high byte replaced",
			input: []byte("caf\xe9"),
			want:  []byte("caf�"),
		},
		{
			name:  "mixed valid and invalid",
			input: []byte("ok\x93bad\x94"),
			want:  []byte("ok�bad�"),
		},
		{
			name:  "empty input",
			input: []byte{},
			want:  []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeUTF8(tt.input); !bytes.Equal(got, tt.want) {
				t.Errorf("sanitizeUTF8(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
