package netlist

import (
	"strings"
	"unicode"
)

// Singleton analysis directives: a netlist holds at most one of these,
// so AddInstruction overwrites an existing one instead of appending.
var uniqueInstructions = map[string]bool{
	".AC":    true,
	".DC":    true,
	".TRAN":  true,
	".NOISE": true,
	".TF":    true,
}

func toUpperRune(r rune) rune { return unicode.ToUpper(r) }

// lineCommand classifies one continuation-joined line and returns its
// command token: a component prefix character, "+" for a continuation,
// "*" for a comment or blank line, or the upper-cased directive keyword
// from the dot to the next whitespace. Unrecognized leading characters
// are a syntax error.
func lineCommand(line string) (string, error) {
	runes := []rune(line)
	for i, ch := range runes {
		if ch == ' ' || ch == '\t' {
			continue
		}
		ch = toUpperRune(ch)
		if _, ok := grammar[ch]; ok {
			return string(ch), nil
		}
		if ch == '+' {
			return "+", nil
		}
		if strings.ContainsRune("#;*\n\r", ch) {
			return "*", nil
		}
		if ch == '.' {
			j := i + 1
			for j < len(runes) && !strings.ContainsRune(" \t\r\n", runes[j]) {
				j++
			}
			return strings.ToUpper(string(runes[i:j])), nil
		}
		return "", &UnknownPrefixError{Line: line}
	}
	// Only spaces and tabs: treat as a blank line.
	return "*", nil
}

// firstToken returns the first whitespace-delimited token upper-cased,
// used for case-insensitive designator and directive lookups.
func firstToken(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

// isUniqueInstruction reports whether the line carries one of the
// singleton analysis directives.
func isUniqueInstruction(line string) bool {
	cmd, err := lineCommand(line)
	return err == nil && uniqueInstructions[cmd]
}
