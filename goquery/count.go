package goquery

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// tenThousand is the magnitude of the 万 / w suffix.
const tenThousand = 10000

// ParseCount converts a localized, possibly abbreviated count such as
// "1.2万", "3.5w" or "1,024" to an integer. Text without digits yields 0.
func ParseCount(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	if strings.Contains(text, "万") || strings.ContainsRune(strings.ToLower(text), 'w') {
		n, ok := leadingFloat(keepDigitsAndDots(text))
		if !ok {
			return 0
		}
		v := math.Floor(n * tenThousand)
		if v >= math.MaxInt {
			return math.MaxInt
		}
		return int(v)
	}

	digits := keepDigits(text)
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt
	}
	if err != nil {
		return 0
	}
	return n
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func keepDigitsAndDots(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// leadingFloat parses the longest numeric prefix of s, so "1.2.3" reads as 1.2.
func leadingFloat(s string) (float64, bool) {
	end := 0
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c == '.' {
			if seenDot {
				break
			}
			seenDot = true
		}
		end++
	}
	prefix := strings.TrimSuffix(s[:end], ".")
	if prefix == "" || prefix == "." {
		return 0, false
	}
	n, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
