package totp

import (
	"errors"
	"net/url"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

var (
	// ErrInvalidSecret is returned when a secret fails base32 decoding.
	ErrInvalidSecret = errors.New("totp: invalid secret key")
	// ErrInvalidParams is returned by GetTOTPURI when required params are missing.
	ErrInvalidParams = errors.New("totp: account name and issuer are required")
)

// TOTPParams configures URI generation for authenticator app enrollment.
type TOTPParams struct {
	Secret      string
	AccountName string
	Issuer      string
	Algorithm   string // SHA1 (default), SHA256, SHA512
	Digits      int    // 6 (default) or 8
	Period      uint   // seconds, 30 (default)
}

// GenerateSecretKey returns a new cryptographically random base32-encoded
// secret suitable for RFC 6238 TOTP.
func GenerateSecretKey() (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "placeholder",
		AccountName: "placeholder",
	})
	if err != nil {
		return "", err
	}
	return key.Secret(), nil
}

// GetTOTPURI builds an otpauth:// URI for QR-code based authenticator enrollment.
func GetTOTPURI(params TOTPParams) (string, error) {
	if params.AccountName == "" || params.Issuer == "" {
		return "", ErrInvalidParams
	}

	period := params.Period
	if period == 0 {
		period = 30
	}

	q := url.Values{}
	q.Set("secret", params.Secret)
	q.Set("issuer", params.Issuer)
	q.Set("algorithm", algorithmFor(params.Algorithm).String())
	q.Set("digits", digitsFor(params.Digits).String())
	q.Set("period", periodString(period))

	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + params.Issuer + ":" + params.AccountName,
		RawQuery: q.Encode(),
	}

	if _, err := otp.NewKeyFromURL(u.String()); err != nil {
		return "", errors.Join(ErrInvalidSecret, err)
	}
	return u.String(), nil
}

// GenerateTOTP returns the current 6-digit code for secret.
func GenerateTOTP(secret string) (string, error) {
	return GenerateTOTPWithTime(secret, time.Now())
}

// GenerateTOTPWithTime returns the code for secret at instant t, useful for
// deterministic tests.
func GenerateTOTPWithTime(secret string, t time.Time) (string, error) {
	code, err := totp.GenerateCodeCustom(secret, t, totp.ValidateOpts{
		Period:    30,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", errors.Join(ErrInvalidSecret, err)
	}
	return code, nil
}

// ValidateTOTP checks code against secret, tolerating one period of clock
// drift on either side (±30 seconds).
func ValidateTOTP(secret, code string) (bool, error) {
	valid, err := totp.ValidateCustom(code, secret, time.Now(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false, errors.Join(ErrInvalidSecret, err)
	}
	return valid, nil
}

func algorithmFor(name string) otp.Algorithm {
	switch name {
	case "SHA256":
		return otp.AlgorithmSHA256
	case "SHA512":
		return otp.AlgorithmSHA512
	default:
		return otp.AlgorithmSHA1
	}
}

func digitsFor(n int) otp.Digits {
	if n == 8 {
		return otp.DigitsEight
	}
	return otp.DigitsSix
}

func periodString(period uint) string {
	switch period {
	case 60:
		return "60"
	default:
		return "30"
	}
}
