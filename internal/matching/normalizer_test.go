package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Empty string",
			input: "",
			want:  "",
		},
		{
			name:  "Whitespace only",
			input: "   ",
			want:  "",
		},
		{
			name:  "Trims and lowercases",
			input: "  Cafe Sora  ",
			want:  "cafesora",
		},
		{
			name:  "Strips hyphens",
			input: "03-1234-5678",
			want:  "0312345678",
		},
		{
			name:  "Full-width to half-width",
			input: "ＣＡＦＥ　ＳＯＲＡ",
			want:  "cafesora",
		},
		{
			name:  "Full-width digits",
			input: "渋谷2−10−7",
			want:  "渋谷2107",
		},
		{
			name:  "Strips parentheses and dots",
			input: "cafe(sora).",
			want:  "cafesora",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"  Cafe Sora  ",
		"03-1234-5678",
		"東京都渋谷区道玄坂2-10-7",
		"ＩＺＡＫＡＹＡ　ほたる",
		"",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		assert.Equal(t, once, twice, "normalize must be idempotent for %q", input)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Hyphenated", "03-1234-5678", "0312345678"},
		{"Plain digits", "0312345678", "0312345678"},
		{"Full-width digits", "０３−１２３４−５６７８", "0312345678"},
		{"With country prefix text", "tel: 03 1234 5678", "0312345678"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.input))
		})
	}
}

func TestAddressTokens(t *testing.T) {
	tokens := AddressTokens("東京都渋谷区道玄坂2-10-7")
	assert.Contains(t, tokens, "東京都渋谷区道玄坂")
	assert.Contains(t, tokens, "2107")

	assert.Nil(t, AddressTokens(""))
}
