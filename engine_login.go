package goIdentity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// AuthenticateWithPassword runs the password entry point of the login state
// machine and returns the authenticated account or a typed rejection. The
// rejection reasons are deliberately distinct (missing user, deleted,
// inactive, external-only, no password, wrong password); collapsing them
// into a non-enumerable message is the transport layer's call.
func (e *Engine) AuthenticateWithPassword(ctx context.Context, email, plaintext string) (Account, error) {
	if !e.ready() {
		return Account{}, ErrEngineNotReady
	}

	email = normalizeEmail(email)

	acct, err := e.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.rejectLogin(ctx, "", ErrUserNotFound, email)
		}
		return Account{}, err
	}

	if err := liveAccount(acct); err != nil {
		e.rejectLogin(ctx, acct.ID, err, email)
		return Account{}, err
	}

	_, hasExternal := acct.Provider(ProviderExternal)
	_, hasCredentials := acct.Provider(ProviderCredentials)

	// Signed up with the external provider and never set a password: guide
	// the user to the set-password flow instead of a generic rejection.
	if hasExternal && !hasCredentials && acct.PasswordHash == "" {
		e.rejectLogin(ctx, acct.ID, ErrExternalLoginRequired, email)
		return Account{}, ErrExternalLoginRequired
	}
	if acct.PasswordHash == "" {
		e.rejectLogin(ctx, acct.ID, ErrNoPasswordSet, email)
		return Account{}, ErrNoPasswordSet
	}

	ok, err := e.hasher.Verify(plaintext, acct.PasswordHash)
	if err != nil {
		return Account{}, err
	}
	if !ok {
		e.rejectLogin(ctx, acct.ID, ErrWrongPassword, email)
		return Account{}, ErrWrongPassword
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, acct.ID, nil, nil)
	return acct, nil
}

func (e *Engine) rejectLogin(ctx context.Context, accountID string, reason error, email string) {
	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, auditEventLoginFailure, false, accountID, reason, func() map[string]string {
		return map[string]string{"email": email}
	})
}

// AuthenticateWithExternalIdentity runs the external-identity entry point.
// The assertion arrives already verified by the upstream provider; its
// email is trusted. Unknown addresses are auto-provisioned as verified
// accounts with a single external provider entry and no password; known
// accounts get the provider link recorded idempotently, healing accounts
// first created through credentials signup.
func (e *Engine) AuthenticateWithExternalIdentity(ctx context.Context, assertion ExternalAssertion) (Account, error) {
	if !e.ready() {
		return Account{}, ErrEngineNotReady
	}

	if assertion.Email == "" {
		e.metricInc(MetricExternalLoginFailure)
		e.emitAudit(ctx, auditEventExternalLoginFailure, false, "", ErrNoAssertionEmail, nil)
		return Account{}, ErrNoAssertionEmail
	}

	email := normalizeEmail(assertion.Email)

	acct, err := e.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		created, provisionErr := e.provisionExternalAccount(ctx, email, assertion)
		if provisionErr == nil {
			return created, nil
		}
		if !errors.Is(provisionErr, ErrAccountExists) {
			return Account{}, provisionErr
		}
		// Lost a provisioning race; fall through to the linking path.
		acct, err = e.repo.FindByEmail(ctx, email)
	}
	if err != nil {
		return Account{}, err
	}

	acct, err = e.ensureLinked(ctx, acct, ProviderExternal, assertion.SubjectID)
	if err != nil {
		return Account{}, err
	}

	e.metricInc(MetricExternalLoginSuccess)
	e.emitAudit(ctx, auditEventExternalLoginSuccess, true, acct.ID, nil, nil)
	return acct, nil
}

func (e *Engine) provisionExternalAccount(ctx context.Context, email string, assertion ExternalAssertion) (Account, error) {
	created, err := e.repo.Create(ctx, Account{
		ID:       uuid.NewString(),
		Email:    email,
		Name:     assertion.DisplayName,
		Picture:  assertion.PictureURL,
		Verified: true,
		Active:   ActiveStateActive,
		Providers: map[ProviderKind]string{
			ProviderExternal: assertion.SubjectID,
		},
	})
	if err != nil {
		return Account{}, err
	}

	e.metricInc(MetricAccountProvisioned)
	e.metricInc(MetricExternalLoginSuccess)
	e.emitAudit(ctx, auditEventAccountProvisioned, true, created.ID, nil, func() map[string]string {
		return map[string]string{"provider": string(ProviderExternal)}
	})
	return created, nil
}
