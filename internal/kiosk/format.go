package kiosk

import "strings"

// onlyDigits strips every non-digit rune from s.
func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatDOB normalizes raw date-of-birth input into a progressive
// MM/DD/YYYY string. Non-digits are stripped and input is capped at
// eight digits, so "01152025" renders as "01/15/2025" and a partial
// "0115" renders as "01/15".
func FormatDOB(raw string) string {
	digits := onlyDigits(raw)
	if len(digits) > 8 {
		digits = digits[:8]
	}

	switch {
	case len(digits) <= 2:
		return digits
	case len(digits) <= 4:
		return digits[:2] + "/" + digits[2:]
	default:
		return digits[:2] + "/" + digits[2:4] + "/" + digits[4:]
	}
}

// FormatPhone normalizes raw phone input into a progressive
// North-American (AAA) BBB-CCCC string, capped at ten digits.
// "5165551234" renders as "(516) 555-1234".
func FormatPhone(raw string) string {
	digits := onlyDigits(raw)
	if len(digits) > 10 {
		digits = digits[:10]
	}

	switch {
	case len(digits) == 0:
		return ""
	case len(digits) <= 3:
		return "(" + digits
	case len(digits) <= 6:
		return "(" + digits[:3] + ") " + digits[3:]
	default:
		return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
	}
}
