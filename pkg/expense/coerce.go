package expense

import (
	"math"
	"strconv"
	"strings"
)

// MaxAmount is the safety ceiling for a single expense amount. Values above it
// are almost certainly corrupted concatenations coming from the upstream API.
const MaxAmount float64 = 999_999_999

// CoerceAmount converts an upstream amount value of unknown type into a usable
// float64. It is deterministic and never fails:
//   - finite numbers pass through,
//   - strings are stripped of everything but digits, '.' and '-' and parsed,
//   - anything unparseable, non-finite, nil or of another type becomes 0,
//   - results above MaxAmount are clamped to exactly MaxAmount.
//
// Negative amounts pass through unclamped; callers treat them as a
// data-quality signal, not a computation error.
func CoerceAmount(value any) float64 {
	return coerceAmount(value).value
}

type coercionOutcome struct {
	value     float64
	missing   bool
	malformed bool
	clamped   bool
}

func coerceAmount(value any) coercionOutcome {
	var amount float64
	switch v := value.(type) {
	case nil:
		return coercionOutcome{missing: true}
	case float64:
		amount = v
	case float32:
		amount = float64(v)
	case int:
		amount = float64(v)
	case int64:
		amount = float64(v)
	case string:
		parsed, err := parseAmountString(v)
		if err != nil {
			return coercionOutcome{malformed: true}
		}
		amount = parsed
	default:
		return coercionOutcome{malformed: true}
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return coercionOutcome{malformed: true}
	}
	if amount > MaxAmount {
		return coercionOutcome{value: MaxAmount, clamped: true}
	}
	return coercionOutcome{value: amount}
}

func parseAmountString(s string) (float64, error) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return strconv.ParseFloat(b.String(), 64)
}
