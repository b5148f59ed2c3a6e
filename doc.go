// Package goIdentity is an embeddable identity and credential lifecycle
// engine. It authenticates accounts by password or by an assertion from an
// external identity provider, runs purpose-scoped one-time codes for email
// verification, password recovery and step-up checks, mints and validates
// purpose-scoped signed tokens, and drives the password flows (forgot,
// reset, set, change) on top of a pluggable account repository.
//
// The engine is storage-agnostic: callers supply an AccountRepository
// whose Update method performs an atomic read-modify-write, and every
// state transition in the engine goes through it. Sessions are an optional
// adjunct backed by Redis. Passwords hash with argon2id, tokens sign with
// HS256 under a distinct secret per purpose.
//
// Construction goes through the builder:
//
//	engine, err := goIdentity.New().
//		WithConfig(cfg).
//		WithRepository(repo).
//		WithRedis(rdb).
//		WithEmailSender(mailer).
//		Build()
//
// Every rejection is a typed sentinel error (ErrWrongPassword,
// ErrCodeExpired, ErrTokenPurpose, ...) classifiable with KindOf, so
// transport layers can map outcomes without string matching.
package goIdentity
