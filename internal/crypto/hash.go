package crypto

import (
	"errors"
	"fmt"

	"github.com/alexedwards/argon2id"
)

var ErrInvalidHashFormat = errors.New("invalid encoded hash format")

// hashParams are the Argon2id parameters for account passwords.
var hashParams = &argon2id.Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

// HashPassword hashes an account password with Argon2id and returns it in
// PHC string format.
func HashPassword(password string) (string, error) {
	hash, err := argon2id.CreateHash(password, hashParams)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return hash, nil
}

// VerifyPassword reports whether password matches the encoded Argon2id hash.
func VerifyPassword(password, encodedHash string) (bool, error) {
	match, err := argon2id.ComparePasswordAndHash(password, encodedHash)
	if err != nil {
		if errors.Is(err, argon2id.ErrInvalidHash) || errors.Is(err, argon2id.ErrIncompatibleVersion) {
			return false, ErrInvalidHashFormat
		}
		return false, err
	}
	return match, nil
}
