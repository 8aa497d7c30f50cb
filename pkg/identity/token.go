package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	headerType      = "JWT"
	headerAlgorithm = "HS256"
)

type tokenHeader struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

// User is the authenticated dashboard user.
type User struct {
	ID    string
	Email string
}

// SessionClaims is the claim set carried by dashboard session tokens.
type SessionClaims struct {
	Subject   string `json:"sub"`
	Email     string `json:"email,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
}

// Valid checks the temporal claims against the current time.
// Zero values are treated as unset per RFC 7519.
func (c SessionClaims) Valid() error {
	if c.ExpiresAt > 0 && time.Now().Unix() > c.ExpiresAt {
		return ErrExpiredToken
	}
	return nil
}

// Verifier validates HS256 session tokens. The signing key is shared with
// the marketplace backend and kept in memory only.
type Verifier struct {
	signingKey []byte
}

// NewVerifier creates a Verifier with the provided signing key.
// The key should be at least 32 bytes for HMAC-SHA256.
func NewVerifier(signingKey []byte) (*Verifier, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	return &Verifier{signingKey: signingKey}, nil
}

// Verify validates the token signature, algorithm and temporal claims, and
// returns the authenticated user.
func (v *Verifier) Verify(token string) (User, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return User{}, ErrInvalidToken
	}

	payload := parts[0] + "." + parts[1]
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(v.sign(payload))) != 1 {
		return User{}, ErrInvalidSignature
	}

	headerJSON, err := base64URLDecode(parts[0])
	if err != nil {
		return User{}, fmt.Errorf("failed to decode token header: %w", err)
	}
	var header tokenHeader
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return User{}, fmt.Errorf("failed to unmarshal token header: %w", err)
	}
	// Reject unexpected algorithms to prevent algorithm confusion attacks.
	if header.Algorithm != headerAlgorithm {
		return User{}, ErrUnexpectedSigning
	}

	claimsJSON, err := base64URLDecode(parts[1])
	if err != nil {
		return User{}, fmt.Errorf("failed to decode token claims: %w", err)
	}
	var claims SessionClaims
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return User{}, fmt.Errorf("failed to unmarshal token claims: %w", err)
	}
	if err := claims.Valid(); err != nil {
		return User{}, err
	}
	if claims.Subject == "" {
		return User{}, ErrInvalidToken
	}

	return User{ID: claims.Subject, Email: claims.Email}, nil
}

// Issue creates a signed session token for the given claims.
// Exists for tests and local development; production tokens come from the
// marketplace backend.
func (v *Verifier) Issue(claims SessionClaims) (string, error) {
	headerJSON, err := json.Marshal(tokenHeader{Type: headerType, Algorithm: headerAlgorithm})
	if err != nil {
		return "", fmt.Errorf("failed to marshal token header: %w", err)
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal token claims: %w", err)
	}

	payload := base64URLEncode(headerJSON) + "." + base64URLEncode(claimsJSON)
	return payload + "." + v.sign(payload), nil
}

func (v *Verifier) sign(payload string) string {
	h := hmac.New(sha256.New, v.signingKey)
	h.Write([]byte(payload))
	return base64URLEncode(h.Sum(nil))
}

// JWT tokens omit base64 padding per RFC 7515.
func base64URLEncode(data []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(data), "=")
}

func base64URLDecode(s string) ([]byte, error) {
	switch len(s) % 4 {
	case 2:
		s += "=="
	case 3:
		s += "="
	}
	return base64.URLEncoding.DecodeString(s)
}
