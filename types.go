package goIdentity

import (
	"context"
	"time"
)

// ProviderKind identifies an authentication method bound to an account.
// An account holds at most one provider entry per kind.
type ProviderKind string

const (
	// ProviderCredentials is the email/password provider.
	ProviderCredentials ProviderKind = "credentials"
	// ProviderExternal is a third-party identity provider whose assertions
	// arrive already verified upstream.
	ProviderExternal ProviderKind = "external"
)

// Purpose scopes one-time codes (and the reset token) to a single flow so a
// secret obtained in one flow cannot be replayed in another.
type Purpose string

const (
	// PurposeVerifyEmail marks the email-verification flow; successful
	// verification flips Account.Verified exactly once.
	PurposeVerifyEmail Purpose = "verify_email"
	// PurposeResetPassword gates the forgot-password flow.
	PurposeResetPassword Purpose = "reset_password"
	// PurposeStepUp gates step-up re-authentication of an already
	// authenticated account.
	PurposeStepUp Purpose = "2fa"
)

// ActiveState is the externally owned activity flag. The engine reads and
// honors it but never transitions it.
type ActiveState string

const (
	// ActiveStateUnspecified means the flag was never populated; treated as
	// active for authentication purposes.
	ActiveStateUnspecified ActiveState = ""
	// ActiveStateActive permits authentication.
	ActiveStateActive ActiveState = "ACTIVE"
	// ActiveStateInactive blocks authentication.
	ActiveStateInactive ActiveState = "INACTIVE"
	// ActiveStateBlocked blocks authentication.
	ActiveStateBlocked ActiveState = "BLOCKED"
)

// PendingCode is the single one-time code an account may hold at any
// instant. Issuing a new code overwrites it unconditionally.
type PendingCode struct {
	Code      string
	Purpose   Purpose
	ExpiresAt time.Time
}

// Account is the identity record. Email is stored lowercase; PasswordHash
// is empty unless a credentials provider is linked; Providers maps each
// provider kind to the provider-assigned subject identifier.
type Account struct {
	ID           string
	Email        string
	Name         string
	Picture      string
	PasswordHash string
	Providers    map[ProviderKind]string
	Verified     bool
	Active       ActiveState
	Deleted      bool
	Pending      *PendingCode
}

// Clone returns a deep copy. Repository implementations use it to keep
// callers from aliasing stored state.
func (a Account) Clone() Account {
	out := a
	if a.Providers != nil {
		out.Providers = make(map[ProviderKind]string, len(a.Providers))
		for kind, id := range a.Providers {
			out.Providers[kind] = id
		}
	}
	if a.Pending != nil {
		pending := *a.Pending
		out.Pending = &pending
	}
	return out
}

// Provider reports the subject ID linked for kind, if any.
func (a Account) Provider(kind ProviderKind) (string, bool) {
	id, ok := a.Providers[kind]
	return id, ok
}

// AccountRepository is the persistence capability the engine consumes. It
// is the single point of truth and concurrency arbitration: Update must be
// an atomic read-modify-write of one account record: apply receives the
// current record, mutates it in place, and the result is persisted as one
// write. When apply returns an error nothing is written and the error is
// returned unchanged. Apply may be invoked more than once if the
// implementation retries on contention, so it must be idempotent on its
// captured state.
//
// Implementations return ErrUserNotFound for missing accounts and
// ErrAccountExists from Create on a duplicate email.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (Account, error)
	FindByID(ctx context.Context, id string) (Account, error)
	Create(ctx context.Context, account Account) (Account, error)
	Update(ctx context.Context, id string, apply func(*Account) error) (Account, error)
}

// Hasher is the opaque one-way credential hasher. Verify must compare in
// constant time.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}

// Message is an outbound notification carrying a one-time code.
type Message struct {
	To           string
	TemplateName string
	TemplateData map[string]string
}

// EmailSender delivers notifications best-effort. A delivery failure never
// rolls back engine state; the user simply requests a fresh code.
type EmailSender interface {
	Send(ctx context.Context, msg Message) error
}

// ExternalAssertion is the upstream-verified identity the external provider
// hands over after its handshake. The engine trusts the provider's address
// verification and does not re-verify Email.
type ExternalAssertion struct {
	Email       string
	DisplayName string
	PictureURL  string
	SubjectID   string
}

// CreateAccountInput is the input for Engine.CreateAccount.
type CreateAccountInput struct {
	Email    string
	Password string
	Name     string
}

// TokenPair is the access/refresh pair minted for an authenticated account.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
