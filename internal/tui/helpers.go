package tui

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"posterm/internal/apperror"
)

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 120

// editRune processes a keystroke for inline text editing. Handles
// backspace (rune-aware) and single printable characters; other keys
// (enter, esc, arrows) leave the text unchanged.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	default:
		if utf8.RuneCountInString(key) == 1 {
			if utf8.RuneCountInString(text) >= maxInputLen {
				return text
			}
			return text + key
		}
		return text
	}
}

// money renders an amount the way the counter expects it: R$ with two
// decimal places, exact.
func money(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

// parseAmount parses operator input into an exact decimal, accepting the
// comma decimal separator used on Brazilian keyboards.
func parseAmount(s string) (decimal.Decimal, error) {
	normalized := make([]rune, 0, len(s))
	for _, r := range s {
		if r == ',' {
			r = '.'
		}
		if r == ' ' {
			continue
		}
		normalized = append(normalized, r)
	}
	return decimal.NewFromString(string(normalized))
}

// userMessage turns any error into status-bar text, preferring the
// server-supplied message for request failures.
func userMessage(err error) string {
	return apperror.Message(err)
}

// truncate limits a cell to width runes, ellipsizing.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
