package dialog

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTemperature normalizes and parses a temperature reading. Commas are
// accepted as decimal separators and whitespace between a leading sign and
// the digits is tolerated ("- 18" reads as -18).
func ParseTemperature(text string) (float64, error) {
	normalized := strings.TrimSpace(strings.ReplaceAll(text, ",", "."))
	if normalized != "" && (normalized[0] == '-' || normalized[0] == '+') {
		normalized = normalized[:1] + strings.TrimLeft(normalized[1:], " \t")
	}

	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, fmt.Errorf("not a temperature: %q", text)
	}
	return value, nil
}

// ParseOperatorName validates a two-token full name and returns it with
// normalized spacing.
func ParseOperatorName(text string) (string, error) {
	parts := strings.Fields(text)
	if len(parts) != 2 {
		return "", fmt.Errorf("expected first and last name, got %d tokens", len(parts))
	}
	return parts[0] + " " + parts[1], nil
}
