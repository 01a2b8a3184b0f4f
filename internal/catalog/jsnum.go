package catalog

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/five82/shelf/internal/api"
)

// ParseFloat reads the longest leading decimal literal of s, the way
// JavaScript's parseFloat does: "12.5 USD" is 12.5, "$12" is NaN.
func ParseFloat(s string) float64 {
	s = strings.TrimLeftFunc(s, isJSSpace)
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
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return math.NaN()
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}

	f, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}

// ParseInt reads the leading integer of s like JavaScript's parseInt with
// no radix: optional sign, "0x" selects hexadecimal, NaN when no digit
// leads.
func ParseInt(s string) float64 {
	s = strings.TrimLeftFunc(s, isJSSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	radix := 10
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		radix = 16
		s = s[2:]
	}

	n := 0.0
	digits := 0
	for i := 0; i < len(s); i++ {
		d := digitValue(s[i])
		if d < 0 || d >= radix {
			break
		}
		n = n*float64(radix) + float64(d)
		digits++
	}
	if digits == 0 {
		return math.NaN()
	}
	if neg {
		return -n
	}
	return n
}

// NumberOf converts an attribute value to a number with parseFloat
// semantics. Booleans, null and nested values are NaN.
func NumberOf(v api.Value) float64 {
	switch v.Kind() {
	case api.ValueNumber:
		f, _ := v.Float()
		return f
	case api.ValueString:
		s, _ := v.Str()
		return ParseFloat(s)
	default:
		return math.NaN()
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func digitValue(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'z':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'Z':
		return int(b-'A') + 10
	default:
		return -1
	}
}

func isJSSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}
