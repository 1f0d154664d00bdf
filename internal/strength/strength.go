// Package strength scores passwords on a 0-10 scale and estimates how long a
// brute-force attack would take.
package strength

import (
	"strings"
	"unicode/utf8"
)

// Label is the coarse strength bucket derived from a score.
type Label string

const (
	LabelNone       Label = "none"
	LabelWeak       Label = "weak"
	LabelMedium     Label = "medium"
	LabelStrong     Label = "strong"
	LabelVeryStrong Label = "very_strong"
)

const MaxScore = 10

// Result is the outcome of Evaluate.
type Result struct {
	Score     int    `json:"score"`
	Label     Label  `json:"label"`
	Feedback  string `json:"feedback"`
	CrackTime string `json:"crack_time,omitempty"`
}

var weakPrefixes = []string{"123456", "password", "qwerty", "abc123"}

// Evaluate scores password. It is deterministic and has no side effects.
func Evaluate(password string) Result {
	if password == "" {
		return Result{Score: 0, Label: LabelNone, Feedback: "No password entered"}
	}

	classes := classify(password)
	score := 0

	switch n := utf8.RuneCountInString(password); {
	case n >= 12:
		score += 4
	case n >= 8:
		score += 2
	default:
		score++
	}

	if classes.upper {
		score++
	}
	if classes.lower {
		score++
	}
	if classes.digit {
		score++
	}
	if classes.symbol {
		score += 2
	}

	if hasRepeatRun(password, 3) {
		score--
	}
	if hasWeakPrefix(password) {
		score -= 3
	}

	score = max(0, min(MaxScore, score))
	label, feedback := labelFor(score)

	return Result{
		Score:     score,
		Label:     label,
		Feedback:  feedback,
		CrackTime: EstimateCrackTime(password),
	}
}

func labelFor(score int) (Label, string) {
	switch {
	case score >= 8:
		return LabelVeryStrong, "Excellent, very strong password!"
	case score >= 6:
		return LabelStrong, "Good, strong password"
	case score >= 4:
		return LabelMedium, "Fair, but could be improved"
	default:
		return LabelWeak, "Weak password, add more complexity"
	}
}

type charClasses struct {
	upper, lower, digit, symbol bool
}

// classify reports which character classes occur. Only ASCII letters and
// digits count as alphanumeric; anything else is a symbol.
func classify(password string) charClasses {
	var c charClasses
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			c.upper = true
		case r >= 'a' && r <= 'z':
			c.lower = true
		case r >= '0' && r <= '9':
			c.digit = true
		default:
			c.symbol = true
		}
	}
	return c
}

// hasRepeatRun reports whether s contains n or more identical consecutive runes.
func hasRepeatRun(s string, n int) bool {
	var prev rune
	run := 0
	for i, r := range s {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= n {
			return true
		}
		prev = r
	}
	return false
}

func hasWeakPrefix(password string) bool {
	lower := strings.ToLower(password)
	for _, p := range weakPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
