package goIdentity

import (
	"context"
	"errors"

	"github.com/MrEthical07/goIdentity/session"
)

// CreateSession stores an opaque session keyed to the account and returns
// its identifier. The session holds only the account ID; everything else
// is rehydrated from the repository on resolve.
func (e *Engine) CreateSession(ctx context.Context, accountID string) (string, error) {
	if !e.ready() {
		return "", ErrEngineNotReady
	}
	if e.sessions == nil {
		return "", ErrSessionUnavailable
	}

	id, err := e.sessions.Create(ctx, accountID)
	if err != nil {
		return "", mapSessionError(err)
	}

	e.metricInc(MetricSessionCreated)
	e.emitAudit(ctx, auditEventSessionCreated, true, accountID, nil, nil)
	return id, nil
}

// ResolveSession rehydrates the account behind a session identifier. A
// session pointing at an account that no longer exists is deleted on the
// spot and reported as not found.
func (e *Engine) ResolveSession(ctx context.Context, sessionID string) (Account, error) {
	if !e.ready() {
		return Account{}, ErrEngineNotReady
	}
	if e.sessions == nil {
		return Account{}, ErrSessionUnavailable
	}

	accountID, err := e.sessions.Resolve(ctx, sessionID)
	if err != nil {
		return Account{}, mapSessionError(err)
	}

	acct, err := e.repo.FindByID(ctx, accountID)
	if errors.Is(err, ErrUserNotFound) {
		// Dangling session; the account was removed underneath it.
		_ = e.sessions.Delete(ctx, sessionID)
		e.metricInc(MetricSessionLost)
		e.emitAudit(ctx, auditEventSessionLost, false, accountID, err, nil)
		return Account{}, ErrSessionNotFound
	}
	if err != nil {
		return Account{}, err
	}
	return acct, nil
}

// DeleteSession removes a session. Deleting an unknown session is not an
// error.
func (e *Engine) DeleteSession(ctx context.Context, sessionID string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if e.sessions == nil {
		return ErrSessionUnavailable
	}
	if err := e.sessions.Delete(ctx, sessionID); err != nil {
		return mapSessionError(err)
	}
	return nil
}

func mapSessionError(err error) error {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return ErrSessionNotFound
	case errors.Is(err, session.ErrUnavailable):
		return ErrSessionUnavailable
	default:
		return err
	}
}
