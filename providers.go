package goIdentity

import "context"

// ensureLinked records a provider entry for kind if the account has none.
// Idempotent: an existing entry of the same kind wins, even with a
// different subject ID. Used after external login to self-heal accounts
// created out-of-band.
func (e *Engine) ensureLinked(ctx context.Context, acct Account, kind ProviderKind, providerID string) (Account, error) {
	if _, ok := acct.Provider(kind); ok {
		return acct, nil
	}

	updated, err := e.repo.Update(ctx, acct.ID, func(a *Account) error {
		if a.Providers == nil {
			a.Providers = make(map[ProviderKind]string, 1)
		}
		if _, ok := a.Providers[kind]; !ok {
			a.Providers[kind] = providerID
		}
		return nil
	})
	if err != nil {
		return Account{}, err
	}

	e.emitAudit(ctx, auditEventProviderLinked, true, updated.ID, nil, func() map[string]string {
		return map[string]string{"provider": string(kind)}
	})
	return updated, nil
}

// attachCredentials is the first-time password path. It closes once the
// account holds both a password and an external identity link; from then
// on password changes must prove the old password via ChangePassword. The
// already-set check runs inside the atomic update so a concurrent attach
// cannot slip past it.
func (e *Engine) attachCredentials(ctx context.Context, accountID, plaintext string) (Account, error) {
	// Hash outside the update: CPU-bound work has no business inside the
	// store's read-modify-write window.
	digest, err := e.hasher.Hash(plaintext)
	if err != nil {
		return Account{}, err
	}

	return e.repo.Update(ctx, accountID, func(a *Account) error {
		if _, hasExternal := a.Providers[ProviderExternal]; hasExternal && a.PasswordHash != "" {
			return ErrPasswordAlreadySet
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
}
