package dialog

import "testing"

func TestParseTemperature(t *testing.T) {
	cases := []struct {
		input string
		want  float64
	}{
		{"4.3", 4.3},
		{"4,3", 4.3},
		{"-18", -18},
		{"- 18", -18},
		{"+ 2.5", 2.5},
		{"  7  ", 7},
	}

	for _, tc := range cases {
		got, err := ParseTemperature(tc.input)
		if err != nil {
			t.Errorf("ParseTemperature(%q) returned error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTemperature(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseTemperature_Rejects(t *testing.T) {
	for _, input := range []string{"abc", "4,5,6", "", "--5", "4.3C"} {
		if _, err := ParseTemperature(input); err == nil {
			t.Errorf("ParseTemperature(%q) should have failed", input)
		}
	}
}

func TestParseOperatorName(t *testing.T) {
	got, err := ParseOperatorName("  Иван   Петров ")
	if err != nil {
		t.Fatalf("ParseOperatorName returned error: %v", err)
	}
	if got != "Иван Петров" {
		t.Errorf("Expected %q, got %q", "Иван Петров", got)
	}
}

func TestParseOperatorName_Rejects(t *testing.T) {
	for _, input := range []string{"Иван", "Иван Петров Сидоров", "", "   "} {
		if _, err := ParseOperatorName(input); err == nil {
			t.Errorf("ParseOperatorName(%q) should have failed", input)
		}
	}
}
