package hours

import (
	"errors"
	"testing"

	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/domain"
)

func TestParseTimeToken(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected domain.ClockTime
	}{
		{name: "hour only am", input: "11 am", expected: domain.NewClockTime(11, 0, 0)},
		{name: "hour only pm", input: "5 pm", expected: domain.NewClockTime(17, 0, 0)},
		{name: "midnight", input: "12 am", expected: domain.NewClockTime(0, 0, 0)},
		{name: "noon", input: "12 pm", expected: domain.NewClockTime(12, 0, 0)},
		{name: "with minutes after midnight", input: "12:30 am", expected: domain.NewClockTime(0, 30, 0)},
		{name: "with minutes", input: "1:30 am", expected: domain.NewClockTime(1, 30, 0)},
		{name: "leading zero", input: "05:45 pm", expected: domain.NewClockTime(17, 45, 0)},
		{name: "upper case meridiem", input: "10 PM", expected: domain.NewClockTime(22, 0, 0)},
		{name: "surrounding spaces", input: "  11:30 am ", expected: domain.NewClockTime(11, 30, 0)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ParseTimeToken(test.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != test.expected {
				t.Fatalf("expected %v, got %v", test.expected, got)
			}
		})
	}
}

func TestParseTimeToken_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"11",
		"13 pm",
		"0 am",
		"11:60 am",
		"11:5 am",
		"11 xm",
		"11pm",
		"11 : 30 am",
		"eleven am",
		"11:30",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseTimeToken(input)
			if !errors.Is(err, ErrMalformedTimeToken) {
				t.Fatalf("expected ErrMalformedTimeToken, got %v", err)
			}
		})
	}
}

func TestParseTimeToken_RoundTrip(t *testing.T) {
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			c := domain.NewClockTime(h, m, 0)
			got, err := ParseTimeToken(c.Format12())
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", c.Format12(), err)
			}
			if got != c {
				t.Fatalf("%s: expected %v, got %v", c.Format12(), c, got)
			}
			again, err := ParseTimeToken(got.Format12())
			if err != nil || again != got {
				t.Fatalf("%s: second round trip gave %v, %v", c.Format12(), again, err)
			}
		}
	}
}
