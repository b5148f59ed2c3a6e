package goIdentity

import (
	"context"
	"errors"
	"strings"

	"github.com/MrEthical07/goIdentity/token"
)

// ForgotPassword starts the recovery flow by issuing a reset-purpose code
// to a known, verified, live account. The typed rejections reveal whether
// an address is registered and verified; callers that need enumeration
// resistance must flatten them at the transport boundary.
func (e *Engine) ForgotPassword(ctx context.Context, email string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	acct, err := e.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if !acct.Verified {
		return ErrNotVerified
	}
	if acct.Deleted {
		return ErrUserDeleted
	}

	if err := e.issueCode(ctx, acct, PurposeResetPassword); err != nil {
		return err
	}

	e.emitAudit(ctx, auditEventResetRequested, true, acct.ID, nil, nil)
	return nil
}

// VerifyResetCodeAndIssueToken consumes a reset-purpose code and, on
// success, mints a short-lived reset token that authorizes exactly one
// ResetPassword call window. Code errors pass through unchanged.
func (e *Engine) VerifyResetCodeAndIssueToken(ctx context.Context, email, code string) (string, error) {
	if !e.ready() {
		return "", ErrEngineNotReady
	}

	email = normalizeEmail(email)
	if err := e.VerifyOneTimeCode(ctx, email, code, PurposeResetPassword); err != nil {
		return "", err
	}

	acct, err := e.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	reset, err := e.tokens.Mint(acct.ID, acct.Email, tokenPurposeReset)
	if err != nil {
		return "", err
	}

	e.metricInc(MetricResetTokenIssued)
	e.emitAudit(ctx, auditEventResetTokenIssued, true, acct.ID, nil, nil)
	return reset, nil
}

// ResetPassword exchanges a valid reset token for a new password. It does
// not require the old password; possession of the token is the proof of
// control established by the code flow.
func (e *Engine) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	claims, err := e.tokens.Validate(strings.TrimSpace(resetToken), tokenPurposeReset)
	if err != nil {
		return mapTokenError(err)
	}

	digest, err := e.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	updated, err := e.repo.Update(ctx, claims.Subject, func(a *Account) error {
		if a.Deleted {
			return ErrUserDeleted
		}
		a.PasswordHash = digest
		if a.Providers == nil {
			a.Providers = make(map[ProviderKind]string, 1)
		}
		if _, ok := a.Providers[ProviderCredentials]; !ok {
			a.Providers[ProviderCredentials] = a.Email
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.metricInc(MetricPasswordReset)
	e.emitAudit(ctx, auditEventPasswordReset, true, updated.ID, nil, nil)
	return nil
}

// SetPassword attaches a first password to an account that signed up
// through the external provider. Once a password exists alongside an
// external link the path is closed and ChangePassword is the only way
// forward.
func (e *Engine) SetPassword(ctx context.Context, accountID, newPassword string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	updated, err := e.attachCredentials(ctx, accountID, newPassword)
	if err != nil {
		return err
	}

	e.metricInc(MetricPasswordSet)
	e.emitAudit(ctx, auditEventPasswordSet, true, updated.ID, nil, nil)
	return nil
}

// ChangePassword rotates the password of an authenticated account. The
// old password is verified first; an account with no password at all is
// pointed at the set-password path instead.
func (e *Engine) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	acct, err := e.repo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if acct.PasswordHash == "" {
		return ErrNoPasswordSet
	}

	ok, err := e.hasher.Verify(oldPassword, acct.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrWrongPassword
	}

	digest, err := e.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	updated, err := e.repo.Update(ctx, acct.ID, func(a *Account) error {
		// Verified against the hash read above; a concurrent wipe of the
		// password means the proof no longer stands.
		if a.PasswordHash == "" {
			return ErrNoPasswordSet
		}
		a.PasswordHash = digest
		return nil
	})
	if err != nil {
		return err
	}

	e.metricInc(MetricPasswordChanged)
	e.emitAudit(ctx, auditEventPasswordChanged, true, updated.ID, nil, nil)
	return nil
}

// mapTokenError translates the token subpackage's sentinels into the
// engine's error space.
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, token.ErrExpired):
		return ErrTokenExpired
	case errors.Is(err, token.ErrWrongPurpose):
		return ErrTokenPurpose
	case errors.Is(err, token.ErrUnknownPurpose):
		return err
	default:
		return ErrTokenInvalid
	}
}
