package goIdentity

import (
	"context"

	"github.com/google/uuid"
)

// CreateAccount registers a credentials account. The account starts
// unverified; callers normally follow up with IssueOneTimeCode for
// PurposeVerifyEmail. Duplicate addresses surface as ErrAccountExists
// from the repository.
func (e *Engine) CreateAccount(ctx context.Context, in CreateAccountInput) (Account, error) {
	if !e.ready() {
		return Account{}, ErrEngineNotReady
	}

	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return Account{}, ErrInvalidInput
	}

	digest, err := e.hasher.Hash(in.Password)
	if err != nil {
		return Account{}, err
	}

	created, err := e.repo.Create(ctx, Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         in.Name,
		PasswordHash: digest,
		Active:       ActiveStateActive,
		Providers: map[ProviderKind]string{
			ProviderCredentials: email,
		},
	})
	if err != nil {
		return Account{}, err
	}

	e.metricInc(MetricAccountCreated)
	e.emitAudit(ctx, auditEventAccountCreated, true, created.ID, nil, nil)
	return created, nil
}
