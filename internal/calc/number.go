package calc

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ParseNumber converts display text to a number.
//
// It reads the longest numeric prefix of text (optional sign, digits,
// optional fraction, optional exponent, or "Infinity") and ignores the
// rest. Text without a numeric prefix yields NaN; parsing never fails.
func ParseNumber(text string) float64 {
	s := strings.TrimLeft(text, " \t\n\r\v\f")

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		if s[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return math.NaN()
	}

	// Exponent only counts when at least one exponent digit follows.
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		start := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > start {
			i = j
		}
	}

	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return v
}

// FormatNumber renders v the way the display stores numbers: integers
// without a decimal point, the shortest digits that round-trip, and
// exponent notation (1e+21, 1e-7) outside [1e-6, 1e21).
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	digits, exp := shortestDigits(v)
	k := len(digits)
	n := exp + 1 // position of the decimal point relative to digits

	var b strings.Builder
	b.WriteString(sign)
	switch {
	case k <= n && n <= 21:
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", n-k))
	case 0 < n && n <= 21:
		b.WriteString(digits[:n])
		b.WriteByte('.')
		b.WriteString(digits[n:])
	case -6 < n && n <= 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -n))
		b.WriteString(digits)
	default:
		b.WriteByte(digits[0])
		if k > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		b.WriteString(exponentSuffix(n - 1))
	}
	return b.String()
}

// formatExponential renders v in exponent notation with exactly
// fractionDigits digits after the point, e.g. 1.235e+13. Ties round away
// from zero, judged on the exact binary value of v.
func formatExponential(v float64, fractionDigits int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return FormatNumber(v)
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	digits, exp := exactDigits(v)
	keep := fractionDigits + 1
	head := []byte(digits[:keep])
	if digits[keep] >= '5' {
		i := keep - 1
		for ; i >= 0 && head[i] == '9'; i-- {
			head[i] = '0'
		}
		if i < 0 {
			head = append([]byte{'1'}, head[:keep-1]...)
			exp++
		} else {
			head[i]++
		}
	}

	mantissa := string(head[:1])
	if fractionDigits > 0 {
		mantissa += "." + string(head[1:])
	}
	return sign + mantissa + exponentSuffix(exp)
}

// maxExactDigits covers the longest exact decimal expansion of a float64.
const maxExactDigits = 768

// exactDigits returns every significant decimal digit of a non-negative
// finite v and the base-10 exponent of the first one.
func exactDigits(v float64) (string, int) {
	s := new(big.Float).SetFloat64(v).Text('e', maxExactDigits)
	mantissa, exp, _ := strings.Cut(s, "e")
	e, _ := strconv.Atoi(exp)
	return strings.Replace(mantissa, ".", "", 1), e
}

// shortestDigits returns the shortest round-trip decimal digits of a
// positive finite v and the base-10 exponent of the first digit.
func shortestDigits(v float64) (string, int) {
	s := strconv.FormatFloat(v, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	e, _ := strconv.Atoi(exp)
	return strings.Replace(mantissa, ".", "", 1), e
}

// exponentSuffix renders an exponent without zero padding.
func exponentSuffix(e int) string {
	if e < 0 {
		return "e-" + strconv.Itoa(-e)
	}
	return "e+" + strconv.Itoa(e)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
