// Package cryptox derives the credential hash the quiz API expects in place
// of a plain password.
package cryptox

import (
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

// credentialSalt is fixed so that the same password always yields the same
// hash; the identifier cannot be used because login accepts either the email
// or the display name.
var credentialSalt = []byte("quizstate/credential/v1")

// DeriveKey stretches password with Argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// CredentialHash returns the hex-encoded credential sent on login and
// registration.
func CredentialHash(password []byte) string {
	return hex.EncodeToString(DeriveKey(password, credentialSalt))
}

// Wipe zeroes b in place.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
