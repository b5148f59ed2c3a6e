// Package token implements the purpose-scoped token issuer. Every token is
// a signed, time-bounded claim set {subject, purpose, iat, exp}; each
// purpose (access, refresh, reset_password) signs with its own secret and
// TTL so a token minted for one flow cannot be replayed in another.
package token
