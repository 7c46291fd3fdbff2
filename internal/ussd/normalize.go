// Package ussd holds the navigation and flow logic behind the USSD menus:
// turning the aggregator's cumulative input into a navigation stack,
// rendering menus, and stepping the per-feature flows.
package ussd

import (
	"strconv"
	"strings"
)

const (
	inputSeparator = "*"
	backToken      = "0"
)

// Normalize turns the cumulative "*"-joined input into the effective
// selection path. A "0" pops the previous selection (back navigation) and is
// a no-op on an empty stack. Tokens are pushed verbatim and not validated
// here; SelectIndex tolerates surrounding whitespace.
//
// Index 0 is the company, index 1 the feature, the rest are flow inputs.
func Normalize(text string) []string {
	stack := make([]string, 0, strings.Count(text, inputSeparator)+1)
	for _, token := range strings.Split(text, inputSeparator) {
		if token == "" {
			continue
		}
		if token == backToken {
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			continue
		}
		stack = append(stack, token)
	}
	return stack
}

// SelectIndex parses a 1-based menu selection and returns the 0-based index
// when it falls within [1, n].
func SelectIndex(token string, n int) (int, bool) {
	choice, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil || choice < 1 || choice > n {
		return 0, false
	}
	return choice - 1, true
}
