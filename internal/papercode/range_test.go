package papercode

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/nkzzz-xD/EasyPastPapers/internal/apperrors"
	"github.com/nkzzz-xD/EasyPastPapers/internal/models"
)

func tokenStrings(tokens []models.SessionToken) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.String()
	}
	return out
}

func TestParseRange(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single session", "s14", []string{"s14"}},
		{"uppercase single session", "W09", []string{"w09"}},
		{"session range", "s14-16", []string{"s14", "s15", "s16"}},
		{"specimen range", "y20-21", []string{"y20", "y21"}},
		{"year range", "14-15", []string{"m14", "s14", "w14", "y14", "m15", "s15", "w15", "y15"}},
		{"single year", "03", []string{"m03", "s03", "w03", "y03"}},
		{"current year allowed", "s26", []string{"s26"}},
		{"degenerate range", "s14-14", []string{"s14"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseRange(tt.input, now)
			if err != nil {
				t.Fatalf("ParseRange(%q) error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(tokenStrings(got), tt.want) {
				t.Errorf("ParseRange(%q) = %v, want %v", tt.input, tokenStrings(got), tt.want)
			}
		})
	}
}

func TestParseRange_Errors(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	inputs := []string{
		"",
		"x14",
		"s1",
		"s14-",
		"s17-14",
		"17-14",
		"s27",
		"20-30",
		"2014",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			_, err := ParseRange(input, now)
			if err == nil {
				t.Fatalf("ParseRange(%q) expected error", input)
			}
			if !errors.Is(err, &apperrors.ErrInvalidRange{}) {
				t.Errorf("ParseRange(%q) error = %v, want ErrInvalidRange", input, err)
			}
		})
	}
}
