package auth

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	_ "github.com/boombuler/barcode" // linked for otp.Key.Image's QR rendering
)

// Enrollment is the result of starting TOTP enrollment for a staff
// account (spec §4.17): the raw secret to persist and a PNG QR code
// for the authenticator app.
type Enrollment struct {
	Secret    string
	QrPngData []byte
}

// Enroll generates a new TOTP secret for accountName under issuer and
// renders its QR code as PNG, mirroring the teacher's roadmap MFA
// provisioning item.
func Enroll(issuer, accountName string) (Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountName,
	})
	if err != nil {
		return Enrollment{}, fmt.Errorf("generating totp key: %w", err)
	}
	return enrollmentFromKey(key)
}

func enrollmentFromKey(key *otp.Key) (Enrollment, error) {
	img, err := key.Image(256, 256)
	if err != nil {
		return Enrollment{}, fmt.Errorf("rendering qr code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Enrollment{}, fmt.Errorf("encoding qr png: %w", err)
	}
	return Enrollment{Secret: key.Secret(), QrPngData: buf.Bytes()}, nil
}

// ValidateCode checks a submitted TOTP code against secret (spec
// §4.17's PhasePromptMfaCode challenge).
func ValidateCode(secret, code string) bool {
	return totp.Validate(code, secret)
}
