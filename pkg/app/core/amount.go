package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ValidateAmount checks user-entered amount text at keystroke time.
// Accepted shape: digits, at most one decimal separator ('.' or ','), more
// digits. A trailing separator and the empty string are accepted because the
// user may be mid-typing. Signs, exponents, letters and a second separator
// are rejected.
//
// On acceptance the raw text is returned unchanged as normalized: numeric
// coercion happens only at submission time, so user-typed formatting (e.g.
// the trailing separator) survives re-renders.
func ValidateAmount(raw string) (accepted bool, normalized string) {
	seenSep := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' || r == ',':
			if seenSep {
				return false, ""
			}
			seenSep = true
		default:
			return false, ""
		}
	}
	return true, raw
}

// ParseAmount coerces accepted amount text to a decimal for submission.
// Empty text (and a bare separator) coerce to zero. The comma separator is
// normalized to '.' here and only here; the display text keeps the comma.
func ParseAmount(raw string) (decimal.Decimal, error) {
	ok, _ := ValidateAmount(raw)
	if !ok {
		return decimal.Zero, ErrAmountInvalid
	}

	s := strings.ReplaceAll(raw, ",", ".")
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrAmountInvalid
	}
	return d, nil
}
