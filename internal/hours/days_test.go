package hours

import (
	"errors"
	"slices"
	"testing"

	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/domain"
)

func TestExpandDays(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []domain.Weekday
	}{
		{
			name:     "single day",
			input:    "Sat",
			expected: []domain.Weekday{domain.Saturday},
		},
		{
			name:     "range",
			input:    "Mon-Wed",
			expected: []domain.Weekday{domain.Monday, domain.Tuesday, domain.Wednesday},
		},
		{
			name:  "range and single day",
			input: "Tues-Fri,Sun",
			expected: []domain.Weekday{
				domain.Tuesday, domain.Wednesday, domain.Thursday, domain.Friday, domain.Sunday,
			},
		},
		{
			name:     "separated by comma and space",
			input:    "Mon, Wed",
			expected: []domain.Weekday{domain.Monday, domain.Wednesday},
		},
		{
			name:     "whole week",
			input:    "Mon-Sun",
			expected: domain.Weekdays(),
		},
		{
			name:     "overlapping ranges keep duplicates",
			input:    "Mon-Tues,Tues",
			expected: []domain.Weekday{domain.Monday, domain.Tuesday, domain.Tuesday},
		},
		{
			name:     "descending range does not wrap",
			input:    "Sun-Mon",
			expected: []domain.Weekday{},
		},
		{
			name:     "descending range next to valid day",
			input:    "Sun-Mon,Wed",
			expected: []domain.Weekday{domain.Wednesday},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ExpandDays(test.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(got, test.expected) {
				t.Fatalf("expected %v, got %v", test.expected, got)
			}
		})
	}
}

func TestExpandDays_NoDaysFound(t *testing.T) {
	inputs := []string{"", "Daily", "monday", "Tue", "11"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ExpandDays(input)
			if !errors.Is(err, ErrNoDaysFound) {
				t.Fatalf("expected ErrNoDaysFound, got %v", err)
			}
		})
	}
}

func TestExpandDays_RangeLength(t *testing.T) {
	all := domain.Weekdays()
	for i := range all {
		for j := i; j < len(all); j++ {
			token := string(all[i]) + "-" + string(all[j])
			got, err := ExpandDays(token)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", token, err)
			}
			if len(got) != j-i+1 {
				t.Fatalf("%s: expected %d days, got %d", token, j-i+1, len(got))
			}
			for k, day := range got {
				if day != all[i+k] {
					t.Fatalf("%s: expected %v at position %d, got %v", token, all[i+k], k, day)
				}
			}
		}
	}
}
