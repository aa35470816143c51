package jwt

import (
	"encoding/json"
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned for malformed tokens or nbf validation failures.
	ErrInvalidToken = errors.New("jwt: invalid token")
	// ErrExpiredToken is returned when the token's exp claim is in the past.
	ErrExpiredToken = errors.New("jwt: token has expired")
	// ErrInvalidSignature is returned when signature verification fails.
	ErrInvalidSignature = errors.New("jwt: invalid signature")
	// ErrUnexpectedSigningMethod is returned when a token's alg header doesn't match HS256.
	ErrUnexpectedSigningMethod = errors.New("jwt: unexpected signing method")
	// ErrInvalidSigningMethod is returned for tokens using deprecated/unsupported methods.
	ErrInvalidSigningMethod = errors.New("jwt: invalid signing method")
	// ErrMissingSigningKey is returned when a Service is constructed without a key.
	ErrMissingSigningKey = errors.New("jwt: missing signing key")
	// ErrInvalidSigningKey is returned when the supplied key fails minimum strength checks.
	ErrInvalidSigningKey = errors.New("jwt: invalid signing key")
	// ErrInvalidClaims is returned when claims fail to marshal/unmarshal cleanly.
	ErrInvalidClaims = errors.New("jwt: invalid claims")
	// ErrMissingClaims is returned by Generate when given a nil claims value.
	ErrMissingClaims = errors.New("jwt: missing claims")
)

// minKeyLen is the minimum signing key length in bytes, matching HMAC-SHA256's
// recommended key strength.
const minKeyLen = 32

// StandardClaims holds the RFC 7519 registered claim names.
type StandardClaims struct {
	ID        string `json:"jti,omitempty"`
	Subject   string `json:"sub,omitempty"`
	Issuer    string `json:"iss,omitempty"`
	Audience  string `json:"aud,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	NotBefore int64  `json:"nbf,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
}

// Valid implements jwtlib.Claims, enforcing exp/nbf against wall-clock time.
func (c StandardClaims) Valid() error {
	now := time.Now().Unix()
	if c.ExpiresAt != 0 && now > c.ExpiresAt {
		return ErrExpiredToken
	}
	if c.NotBefore != 0 && now < c.NotBefore {
		return ErrInvalidToken
	}
	return nil
}

// Service generates and validates HMAC-SHA256 signed JWTs.
type Service struct {
	key []byte
}

// New creates a Service using the given signing key. The key must be at
// least 32 bytes to provide adequate HMAC-SHA256 strength.
func New(key []byte) (*Service, error) {
	if len(key) == 0 {
		return nil, ErrMissingSigningKey
	}
	if len(key) < minKeyLen {
		return nil, ErrInvalidSigningKey
	}
	return &Service{key: key}, nil
}

// NewFromString creates a Service from a string signing key.
func NewFromString(key string) (*Service, error) {
	return New([]byte(key))
}

// Generate signs claims and returns the encoded token string.
func (s *Service) Generate(claims any) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}

	mapClaims, err := toMapClaims(claims)
	if err != nil {
		return "", errors.Join(ErrInvalidClaims, err)
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, mapClaims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", errors.Join(ErrInvalidSigningKey, err)
	}
	return signed, nil
}

// Parse validates a token's signature and temporal claims, then decodes its
// payload into dst, which must be a pointer.
func (s *Service) Parse(tokenString string, dst any) error {
	claims := jwtlib.MapClaims{}
	parsed, err := jwtlib.ParseWithClaims(tokenString, claims, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, ErrUnexpectedSigningMethod
		}
		return s.key, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))

	if err != nil {
		switch {
		case errors.Is(err, jwtlib.ErrTokenExpired):
			return ErrExpiredToken
		case errors.Is(err, jwtlib.ErrTokenSignatureInvalid):
			return ErrInvalidSignature
		case errors.Is(err, ErrUnexpectedSigningMethod):
			return ErrUnexpectedSigningMethod
		default:
			return errors.Join(ErrInvalidToken, err)
		}
	}

	if !parsed.Valid {
		return ErrInvalidToken
	}

	raw, err := json.Marshal(claims)
	if err != nil {
		return errors.Join(ErrInvalidClaims, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.Join(ErrInvalidClaims, err)
	}

	if v, ok := dst.(interface{ Valid() error }); ok {
		if err := v.Valid(); err != nil {
			return err
		}
	} else if sc, ok := extractStandardClaims(dst); ok {
		if err := sc.Valid(); err != nil {
			return err
		}
	}

	return nil
}

// toMapClaims round-trips an arbitrary claims struct through JSON into a
// jwtlib.MapClaims, so callers aren't required to implement jwtlib.Claims.
func toMapClaims(claims any) (jwtlib.MapClaims, error) {
	raw, err := json.Marshal(claims)
	if err != nil {
		return nil, err
	}
	m := jwtlib.MapClaims{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// extractStandardClaims detects an embedded StandardClaims on dst's concrete
// type without requiring the caller to implement a Valid method explicitly.
func extractStandardClaims(dst any) (StandardClaims, bool) {
	switch v := dst.(type) {
	case *StandardClaims:
		return *v, true
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return StandardClaims{}, false
		}
		var sc StandardClaims
		if err := json.Unmarshal(raw, &sc); err != nil {
			return StandardClaims{}, false
		}
		return sc, true
	}
}
