package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpired is returned when the signature checks out but the token is
	// past its expiry. Callers surface this distinctly ("link expired,
	// request a new one") from a generic rejection.
	ErrExpired = errors.New("token expired")
	// ErrInvalid is returned on signature or shape failure.
	ErrInvalid = errors.New("invalid token")
	// ErrWrongPurpose is returned when the claims decode but the embedded
	// purpose does not match the purpose the caller expected.
	ErrWrongPurpose = errors.New("token purpose mismatch")
	// ErrUnknownPurpose is returned when no key/TTL pair is configured for
	// the requested purpose.
	ErrUnknownPurpose = errors.New("unknown token purpose")
)

const minSecretBytes = 32

// KeyConfig is one purpose-scoped signing key and its token lifetime.
type KeyConfig struct {
	Secret []byte
	TTL    time.Duration
}

// Config maps each token purpose to an independently configured signing
// secret and TTL. Purposes must not share secrets: a leaked reset key must
// not be able to forge access tokens.
type Config struct {
	Issuer   string
	Leeway   time.Duration
	Purposes map[string]KeyConfig
}

// Claims is the signed claim set carried by every token: subject account
// ID, optional email, and the purpose the token was minted for.
type Claims struct {
	Email   string `json:"email,omitempty"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Manager mints and validates purpose-scoped HS256 tokens. It is immutable
// after construction and safe for concurrent use. Tokens are stateless and
// never persisted.
type Manager struct {
	config Config
}

func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Purposes) == 0 {
		return nil, errors.New("at least one token purpose required")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}

	seen := make(map[string]string, len(cfg.Purposes))
	for purpose, kc := range cfg.Purposes {
		if purpose == "" {
			return nil, errors.New("empty token purpose")
		}
		if len(kc.Secret) < minSecretBytes {
			return nil, fmt.Errorf("purpose %q: secret must be at least %d bytes", purpose, minSecretBytes)
		}
		if kc.TTL <= 0 {
			return nil, fmt.Errorf("purpose %q: TTL must be positive", purpose)
		}
		if prev, ok := seen[string(kc.Secret)]; ok {
			return nil, fmt.Errorf("purposes %q and %q share a signing secret", prev, purpose)
		}
		seen[string(kc.Secret)] = purpose
	}

	return &Manager{config: cfg}, nil
}

// Mint signs a token for subject scoped to purpose, expiring after the
// purpose's configured TTL.
func (m *Manager) Mint(subject, email, purpose string) (string, error) {
	kc, ok := m.config.Purposes[purpose]
	if !ok {
		return "", ErrUnknownPurpose
	}

	now := time.Now()
	claims := Claims{
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(kc.TTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(kc.Secret)
}

// Validate verifies signature and expiry against the key configured for
// expectedPurpose and checks the embedded purpose claim. Expiry is only
// reported once the signature has been verified, so ErrExpired always means
// "genuine token, too old".
func (m *Manager) Validate(tokenStr, expectedPurpose string) (*Claims, error) {
	kc, ok := m.config.Purposes[expectedPurpose]
	if !ok {
		return nil, ErrUnknownPurpose
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return kc.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		// A token minted for another purpose is signed with another key, so
		// it surfaces here as a signature failure. Decode the claims without
		// verification to report the purpose mismatch precisely; the claims
		// are untrusted and only the error is returned.
		if purpose := unverifiedPurpose(tokenStr); purpose != "" && purpose != expectedPurpose {
			return nil, ErrWrongPurpose
		}
		return nil, ErrInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}
	if claims.Purpose != expectedPurpose {
		return nil, ErrWrongPurpose
	}
	if claims.Subject == "" {
		return nil, ErrInvalid
	}

	return claims, nil
}

func unverifiedPurpose(tokenStr string) string {
	var claims Claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenStr, &claims); err != nil {
		return ""
	}
	return claims.Purpose
}
