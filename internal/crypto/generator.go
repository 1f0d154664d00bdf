package crypto

import (
	"crypto/rand"
	"math/big"
)

const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	numberChars    = "0123456789"
	symbolChars    = "!@#$%^&*()_-+=<>?/[]{}|"
)

// GeneratorOptions is the character-class policy for Generate.
type GeneratorOptions struct {
	Length    int
	Uppercase bool
	Lowercase bool
	Numbers   bool
	Symbols   bool
}

// DefaultOptions returns sensible defaults: 16 characters with all types enabled.
func DefaultOptions() GeneratorOptions {
	return GeneratorOptions{
		Length:    16,
		Uppercase: true,
		Lowercase: true,
		Numbers:   true,
		Symbols:   true,
	}
}

// ClassCount reports how many character classes the options select.
// A policy with nothing selected counts as one (the lowercase fallback).
func (o GeneratorOptions) ClassCount() int {
	return len(o.charsets())
}

func (o GeneratorOptions) charsets() []string {
	var sets []string
	if o.Uppercase {
		sets = append(sets, uppercaseChars)
	}
	if o.Lowercase {
		sets = append(sets, lowercaseChars)
	}
	if o.Numbers {
		sets = append(sets, numberChars)
	}
	if o.Symbols {
		sets = append(sets, symbolChars)
	}
	if len(sets) == 0 {
		sets = append(sets, lowercaseChars)
	}
	return sets
}

// Generate creates a random password from the selected character classes using
// crypto/rand. Selecting no class falls back to lowercase letters. When Length is
// at least the number of selected classes, every class appears at least once.
// A non-positive Length yields an empty string. The only error source is the
// system random reader.
func Generate(opts GeneratorOptions) (string, error) {
	if opts.Length <= 0 {
		return "", nil
	}

	sets := opts.charsets()
	var pool string
	for _, s := range sets {
		pool += s
	}

	result := make([]byte, opts.Length)

	// One character per class first, as many as fit.
	seeded := min(len(sets), opts.Length)
	for i := 0; i < seeded; i++ {
		ch, err := randChar(sets[i])
		if err != nil {
			return "", err
		}
		result[i] = ch
	}

	for i := seeded; i < opts.Length; i++ {
		ch, err := randChar(pool)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}

	if err := secureShuffle(result); err != nil {
		return "", err
	}

	return string(result), nil
}

// randChar picks a random character from charset using crypto/rand.
func randChar(charset string) (byte, error) {
	n, err := randIndex(len(charset))
	if err != nil {
		return 0, err
	}
	return charset[n], nil
}

func randIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// secureShuffle performs a Fisher-Yates shuffle using crypto/rand.
func secureShuffle(data []byte) error {
	for i := len(data) - 1; i > 0; i-- {
		j, err := randIndex(i + 1)
		if err != nil {
			return err
		}
		data[i], data[j] = data[j], data[i]
	}
	return nil
}
