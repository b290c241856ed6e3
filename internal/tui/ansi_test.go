package tui

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestFitToWidth(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		width         int
		expectedWidth int
	}{
		{
			name:          "short string gets padded",
			input:         "hello",
			width:         10,
			expectedWidth: 10,
		},
		{
			name:          "exact width unchanged",
			input:         "hello",
			width:         5,
			expectedWidth: 5,
		},
		{
			name:          "long string gets truncated",
			input:         "hello world",
			width:         5,
			expectedWidth: 5,
		},
		{
			name:          "string with ANSI codes - short",
			input:         "\x1b[32mhi\x1b[0m",
			width:         10,
			expectedWidth: 10,
		},
		{
			name:          "string with ANSI codes - truncate",
			input:         "\x1b[32mhello world\x1b[0m",
			width:         5,
			expectedWidth: 5,
		},
		{
			name:          "empty string",
			input:         "",
			width:         5,
			expectedWidth: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FitToWidth(tt.input, tt.width)
			// Use lipgloss.Width to check visual width
			resultWidth := len(result) // For simple cases without ANSI
			if tt.input == "" || tt.input[0] != '\x1b' {
				// For plain text, check length
				if len(result) != tt.expectedWidth {
					t.Errorf("FitToWidth(%q, %d) has len %d, want %d", tt.input, tt.width, len(result), tt.expectedWidth)
				}
			}
			// For all cases, the visual width should match
			_ = resultWidth // Avoid unused variable if we add more checks later
		})
	}
}

func TestFitCellContent(t *testing.T) {
	tests := []struct {
		input string
		width int
		want  string
	}{
		{"hello", 8, "hello   "},
		{"hello world", 6, "hello…"},
		{"hello", 1, "…"},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := FitCellContent(tt.input, tt.width); got != tt.want {
			t.Errorf("FitCellContent(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
		}
	}
}

func TestPlaceOverlay(t *testing.T) {
	bg := "..........\n..........\n.........."
	got := placeOverlay(3, 1, "ab\ncd", bg)
	want := "..........\n...ab.....\n...cd....."
	if ansi.Strip(got) != want {
		t.Errorf("placeOverlay() =\n%s\nwant\n%s", got, want)
	}
}
