// Package auth provides password hashing and staff TOTP MFA
// (SPEC_FULL.md §4.17), injected into internal/player's login flow as
// plain function values so that package stays free of a crypto
// dependency.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes plain with bcrypt's default cost, matching the
// teacher's roadmap item "Implement bcrypt password hashing".
func HashPassword(plain string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt only errors on a too-long password or a bad cost; the
		// cost here is always valid, so fall back to rejecting any
		// verify against an empty hash rather than panicking.
		return ""
	}
	return string(hash)
}

// VerifyPassword reports whether plain matches hash.
func VerifyPassword(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
