package auth

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPasswordRoundTrip(t *testing.T) {
	hash := HashPassword("correct horse battery staple")
	require.NotEmpty(t, hash)
	require.True(t, VerifyPassword(hash, "correct horse battery staple"))
	require.False(t, VerifyPassword(hash, "wrong password"))
}

func TestVerifyPasswordRejectsEmptyHash(t *testing.T) {
	require.False(t, VerifyPassword("", "anything"))
}

func TestEnrollProducesValidatableSecret(t *testing.T) {
	enrollment, err := Enroll("AmbonMUD", "staffer")
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	require.NotEmpty(t, enrollment.QrPngData)

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.True(t, ValidateCode(enrollment.Secret, code))
}

func TestValidateCodeRejectsGarbage(t *testing.T) {
	enrollment, err := Enroll("AmbonMUD", "staffer")
	require.NoError(t, err)
	require.False(t, ValidateCode(enrollment.Secret, "000000000"))
}
