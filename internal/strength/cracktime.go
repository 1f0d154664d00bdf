package strength

import (
	"math"
	"unicode/utf8"
)

// GuessesPerSecond is the assumed offline attack rate.
const GuessesPerSecond = 10_000

const (
	minute  = 60.0
	hour    = 3600.0
	day     = 86400.0
	year    = 31536000.0
	century = 3153600000.0
)

// EstimateCrackTime returns a human-readable brute-force time for password,
// assuming the attacker knows which character classes it uses. The empty
// password yields "".
func EstimateCrackTime(password string) string {
	if password == "" {
		return ""
	}

	c := classify(password)
	charset := 0
	if c.lower {
		charset += 26
	}
	if c.upper {
		charset += 26
	}
	if c.digit {
		charset += 10
	}
	if c.symbol {
		charset += 32
	}

	// Overflows to +Inf for long passwords, which lands in the last bucket.
	combinations := math.Pow(float64(charset), float64(utf8.RuneCountInString(password)))
	return crackTimeBucket(combinations / GuessesPerSecond)
}

func crackTimeBucket(seconds float64) string {
	switch {
	case seconds < minute:
		return "Less than a minute"
	case seconds < hour:
		return "Minutes"
	case seconds < day:
		return "Hours"
	case seconds < year:
		return "Days"
	case seconds < century:
		return "Years"
	default:
		return "Centuries"
	}
}
