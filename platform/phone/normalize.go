// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// unknownRegion makes the parser rely on the number's own country code.
const unknownRegion = "ZZ"

// NormalizeE164 formats an international phone number to E.164. Numbers
// must carry their country code ("+" or "00" prefix); local notation is
// ambiguous across countries and reports false. The second result is also
// false when the input is empty or not a valid number.
func NormalizeE164(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "00") {
		trimmed = "+" + strings.TrimPrefix(trimmed, "00")
	}
	if !strings.HasPrefix(trimmed, "+") {
		return "", false
	}

	number, err := phonenumbers.Parse(trimmed, unknownRegion)
	if err != nil {
		return "", false
	}

	if !phonenumbers.IsValidNumber(number) {
		return "", false
	}

	return phonenumbers.Format(number, phonenumbers.E164), true
}
