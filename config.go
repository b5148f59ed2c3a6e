package goIdentity

import (
	"bytes"
	"errors"
	"time"
)

// Config is constructed explicitly and passed to the Builder; the engine
// never reads process environment. Signing secrets are one key/TTL pair per
// token purpose so a leaked key for one flow cannot forge tokens for
// another.
type Config struct {
	Token    TokenConfig
	OTP      OTPConfig
	Password PasswordConfig
	Session  SessionConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig carries the independently configured signing secrets and
// lifetimes for access, refresh, and reset-password tokens.
type TokenConfig struct {
	Issuer        string
	Leeway        time.Duration
	AccessSecret  []byte
	AccessTTL     time.Duration
	RefreshSecret []byte
	RefreshTTL    time.Duration
	ResetSecret   []byte
	ResetTTL      time.Duration
}

/*
====================================
OTP CONFIG
====================================
*/

// OTPConfig controls one-time code generation. Digits must be in 6..10;
// TTL applies to every purpose.
type OTPConfig struct {
	Digits int
	TTL    time.Duration
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig holds argon2id parameters for the default hasher.
// Memory is in KiB.
type PasswordConfig struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls the Redis session adjunct.
type SessionConfig struct {
	RedisPrefix string
	TTL         time.Duration
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			Issuer:     "goIdentity",
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
			ResetTTL:   10 * time.Minute,
		},
		OTP: OTPConfig{
			Digits: 6,
			TTL:    5 * time.Minute,
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Session: SessionConfig{
			RedisPrefix: "ids",
			TTL:         24 * time.Hour,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the cross-field invariants the token and OTP subsystems
// rely on. The token manager re-checks secret length and TTLs at
// construction; duplicate-secret detection here produces a clearer error
// before Build wires anything.
func (c Config) Validate() error {
	secrets := [][]byte{c.Token.AccessSecret, c.Token.RefreshSecret, c.Token.ResetSecret}
	for i, s := range secrets {
		if len(s) == 0 {
			return errors.New("all token signing secrets must be configured")
		}
		for j := i + 1; j < len(secrets); j++ {
			if bytes.Equal(s, secrets[j]) {
				return errors.New("token signing secrets must be distinct per purpose")
			}
		}
	}
	if c.Token.AccessTTL <= 0 || c.Token.RefreshTTL <= 0 || c.Token.ResetTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if c.OTP.Digits < 6 || c.OTP.Digits > 10 {
		return errors.New("OTP digits must be between 6 and 10")
	}
	if c.OTP.TTL <= 0 {
		return errors.New("OTP TTL must be positive")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session TTL must be positive")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.AccessSecret = cloneBytes(cfg.Token.AccessSecret)
	out.Token.RefreshSecret = cloneBytes(cfg.Token.RefreshSecret)
	out.Token.ResetSecret = cloneBytes(cfg.Token.ResetSecret)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
