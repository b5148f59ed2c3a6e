package goIdentity

import "errors"

// Every expected business outcome is a sentinel rejection value, never a
// fault: callers branch with errors.Is and map to transport concerns with
// KindOf. Only infrastructure failures (store unreachable, misconfigured
// keys) flow through as ordinary errors.
var (
	// ErrUserNotFound is returned when no account matches the email or ID.
	ErrUserNotFound = errors.New("user does not exist")
	// ErrAccountExists is returned when creating an account whose email is
	// already taken.
	ErrAccountExists = errors.New("account already exists")
	// ErrUserDeleted is returned when the resolved account is soft-deleted.
	ErrUserDeleted = errors.New("user is deleted")
	// ErrAccountInactive is returned when the account's activity flag is
	// populated and not ACTIVE.
	ErrAccountInactive = errors.New("account is not active")
	// ErrNotVerified is returned by ForgotPassword for accounts that never
	// completed email verification.
	ErrNotVerified = errors.New("user is not verified")
	// ErrAlreadyVerified is returned when requesting an email-verification
	// code for an account that is already verified.
	ErrAlreadyVerified = errors.New("user is already verified")

	// ErrExternalLoginRequired is returned by password login for accounts
	// that signed up with an external identity and never set a password:
	// sign in with the external provider first, then set one.
	ErrExternalLoginRequired = errors.New("account uses external identity; sign in with it, then set a password")
	// ErrNoPasswordSet is returned when a password operation needs an
	// existing digest and the account has none. Distinct from
	// ErrWrongPassword by design.
	ErrNoPasswordSet = errors.New("no password set for this account")
	// ErrWrongPassword is returned when the supplied password does not
	// match the stored digest.
	ErrWrongPassword = errors.New("password does not match")
	// ErrPasswordAlreadySet is returned by SetPassword once the account
	// holds both a password and an external identity; changes must go
	// through ChangePassword from then on.
	ErrPasswordAlreadySet = errors.New("password already set; use the change-password flow")
	// ErrNoAssertionEmail is returned when the external identity assertion
	// carries no email address.
	ErrNoAssertionEmail = errors.New("no email found in identity assertion")

	// ErrNoPendingCode is returned when verifying and no code is pending.
	ErrNoPendingCode = errors.New("no pending one-time code")
	// ErrCodePurposeMismatch is returned when the pending code was issued
	// for a different purpose, even if the code string matches.
	ErrCodePurposeMismatch = errors.New("one-time code purpose mismatch")
	// ErrCodeExpired is returned when the pending code is past its TTL;
	// the code is cleared in the same update.
	ErrCodeExpired = errors.New("one-time code expired")
	// ErrCodeMismatch is returned when the code string does not match. The
	// pending code is left in place so the user may retry within the TTL.
	ErrCodeMismatch = errors.New("invalid one-time code")

	// ErrTokenExpired is returned for a genuine token past its expiry, so
	// the user-facing message can say "expired, request a new one".
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned on token signature or shape failure.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenPurpose is returned when a token minted for one purpose is
	// presented for another.
	ErrTokenPurpose = errors.New("token purpose mismatch")

	// ErrSessionNotFound is the authentication-loss condition: the session
	// is unknown, expired, or its account no longer exists.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionUnavailable is returned when the session backend is down.
	ErrSessionUnavailable = errors.New("session backend unavailable")

	// ErrInvalidInput is returned for requests missing required fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEngineNotReady is returned when the engine is missing a required
	// dependency.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// Kind is the stable machine-checkable classification of a rejection,
// independent of its human-readable message.
type Kind int

const (
	// KindUnknown covers infrastructure faults and unclassified errors.
	KindUnknown Kind = iota
	// KindNotFound means no such account.
	KindNotFound
	// KindConflict means the state already exists (duplicate account,
	// password already set, already verified).
	KindConflict
	// KindUnauthenticated means a failed proof: bad password, bad or
	// expired token, bad one-time code, lost session.
	KindUnauthenticated
	// KindForbidden means the account state blocks the operation.
	KindForbidden
	// KindInvalidInput means the request shape was malformed.
	KindInvalidInput
)

// KindOf classifies err into the rejection taxonomy. Unrecognized errors,
// including wrapped infrastructure faults, report KindUnknown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrUserNotFound):
		return KindNotFound
	case errors.Is(err, ErrAccountExists),
		errors.Is(err, ErrPasswordAlreadySet),
		errors.Is(err, ErrAlreadyVerified):
		return KindConflict
	case errors.Is(err, ErrWrongPassword),
		errors.Is(err, ErrNoPasswordSet),
		errors.Is(err, ErrExternalLoginRequired),
		errors.Is(err, ErrNoAssertionEmail),
		errors.Is(err, ErrNoPendingCode),
		errors.Is(err, ErrCodePurposeMismatch),
		errors.Is(err, ErrCodeExpired),
		errors.Is(err, ErrCodeMismatch),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrTokenPurpose),
		errors.Is(err, ErrSessionNotFound):
		return KindUnauthenticated
	case errors.Is(err, ErrUserDeleted),
		errors.Is(err, ErrAccountInactive),
		errors.Is(err, ErrNotVerified):
		return KindForbidden
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	default:
		return KindUnknown
	}
}
