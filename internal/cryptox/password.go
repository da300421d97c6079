// Package cryptox implements salted password hashing for user credentials.
//
// Hashing uses argon2id, which is deliberately expensive to compute so that
// brute-forcing leaked hashes stays impractical. Each user gets a fresh
// random salt; verification recomputes the hash with the stored salt and
// compares in constant time.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize = 16

	// argon2id parameters
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// GenerateSalt returns a fresh random salt. Never reuse a salt across users.
func GenerateSalt() []byte {
	return common.GenerateRandByteArray(saltSize)
}

// HashPassword derives an argon2id hash of password with the given salt.
// The result is deterministic for identical (password, salt) pairs.
func HashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyPassword recomputes the hash of the candidate password with the
// stored salt and compares it to the stored hash in constant time.
func VerifyPassword(password, salt, storedHash []byte) bool {
	candidate := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(candidate, storedHash) == 1
}
