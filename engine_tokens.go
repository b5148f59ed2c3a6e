package goIdentity

import "context"

// Token purposes registered with the manager. Each purpose signs with its
// own secret, so a token minted for one can never validate as another.
const (
	tokenPurposeAccess  = "access"
	tokenPurposeRefresh = "refresh"
	tokenPurposeReset   = "reset_password"
)

// MintTokenPair issues a fresh access and refresh token for an account
// that has already been authenticated. The account is re-read so a
// deletion or deactivation between login and minting is honored.
func (e *Engine) MintTokenPair(ctx context.Context, accountID string) (TokenPair, error) {
	if !e.ready() {
		return TokenPair{}, ErrEngineNotReady
	}

	acct, err := e.repo.FindByID(ctx, accountID)
	if err != nil {
		return TokenPair{}, err
	}
	if err := liveAccount(acct); err != nil {
		return TokenPair{}, err
	}

	access, err := e.tokens.Mint(acct.ID, acct.Email, tokenPurposeAccess)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := e.tokens.Mint(acct.ID, acct.Email, tokenPurposeRefresh)
	if err != nil {
		return TokenPair{}, err
	}

	e.metricInc(MetricTokenPairMinted)
	e.emitAudit(ctx, auditEventTokenPairMinted, true, acct.ID, nil, nil)
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// RefreshAccessToken validates a refresh token and mints a new access
// token for its subject. The refresh token itself is not rotated; it
// stays valid until its own expiry.
func (e *Engine) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if !e.ready() {
		return "", ErrEngineNotReady
	}

	claims, err := e.tokens.Validate(refreshToken, tokenPurposeRefresh)
	if err != nil {
		return "", mapTokenError(err)
	}

	acct, err := e.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		return "", err
	}
	if err := liveAccount(acct); err != nil {
		return "", err
	}

	access, err := e.tokens.Mint(acct.ID, acct.Email, tokenPurposeAccess)
	if err != nil {
		return "", err
	}

	e.metricInc(MetricTokenRefreshed)
	e.emitAudit(ctx, auditEventTokenRefreshed, true, acct.ID, nil, nil)
	return access, nil
}

// liveAccount rejects accounts that must not receive new tokens.
func liveAccount(acct Account) error {
	if acct.Deleted {
		return ErrUserDeleted
	}
	if acct.Active != ActiveStateUnspecified && acct.Active != ActiveStateActive {
		return ErrAccountInactive
	}
	return nil
}
