package util

import "testing"

func TestParseNumber(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  float64
	}{
		{name: "plain", input: "42", want: 42},
		{name: "decimal", input: "4.50", want: 4.5},
		{name: "decimal comma", input: "1,5", want: 1.5},
		{name: "thousand comma", input: "1,000.00", want: 1000},
		{name: "thousand dot", input: "1.000", want: 1000},
		{name: "trailing percent", input: "23.33%", want: 23.33},
		{name: "float passthrough", input: 3.9, want: 3.9},
		{name: "int passthrough", input: 7, want: 7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseNumber(tc.input)
			if !ok {
				t.Fatalf("ParseNumber(%v) not ok", tc.input)
			}
			if got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestParseNumberRejects(t *testing.T) {
	for _, input := range []any{"", "n/a", "precio", nil, []string{"1"}} {
		if _, ok := ParseNumber(input); ok {
			t.Fatalf("ParseNumber(%v) unexpectedly ok", input)
		}
	}
}
