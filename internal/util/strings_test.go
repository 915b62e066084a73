package util

import "testing"

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{
			name:     "short string unchanged",
			input:    "hello",
			maxWidth: 10,
			expected: "hello",
		},
		{
			name:     "exact width unchanged",
			input:    "hello",
			maxWidth: 5,
			expected: "hello",
		},
		{
			name:     "long string truncated",
			input:    "hello world",
			maxWidth: 8,
			expected: "hello w…",
		},
		{
			name:     "zero width is empty",
			input:    "hello",
			maxWidth: 0,
			expected: "",
		},
		{
			name:     "wide characters count double",
			input:    "日本語テスト",
			maxWidth: 5,
			expected: "日本…",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			maxWidth: 3,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateWidth(tt.input, tt.maxWidth); got != tt.expected {
				t.Errorf("TruncateWidth(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.expected)
			}
			if w := Width(TruncateWidth(tt.input, tt.maxWidth)); w > tt.maxWidth {
				t.Errorf("result width %d exceeds %d", w, tt.maxWidth)
			}
		})
	}
}

func TestFitWidth(t *testing.T) {
	if got := FitWidth("ab", 5); got != "ab   " {
		t.Errorf("FitWidth pad = %q", got)
	}
	if got := FitWidth("abcdefgh", 5); Width(got) != 5 {
		t.Errorf("FitWidth truncate = %q (width %d)", got, Width(got))
	}
}
