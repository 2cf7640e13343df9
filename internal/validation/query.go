package validation

import "strings"

// SanitizeQuery trims input, turns control whitespace into spaces, collapses
// runs of spaces and caps the result at maxLen runes. maxLen <= 0 disables the cap.
func SanitizeQuery(input string, maxLen int) string {
	input = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(input)
	input = strings.Join(strings.Fields(input), " ")

	if maxLen > 0 {
		if r := []rune(input); len(r) > maxLen {
			input = strings.TrimSpace(string(r[:maxLen]))
		}
	}
	return input
}
