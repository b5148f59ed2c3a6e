package goIdentity

import (
	"context"
	"testing"
)

func TestMintTokenPair(t *testing.T) {
	ctx := context.Background()

	t.Run("mints a distinct access and refresh token", func(t *testing.T) {
		engine, repo, _ := newTestEngine(t)
		acct := seedVerifiedAccount(t, repo, "user@example.com")

		pair, err := engine.MintTokenPair(ctx, acct.ID)
		requireNoError(t, err)
		if pair.AccessToken == "" || pair.RefreshToken == "" {
			t.Fatal("empty token in pair")
		}
		if pair.AccessToken == pair.RefreshToken {
			t.Fatal("access and refresh tokens must differ")
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		engine, _, _ := newTestEngine(t)
		_, err := engine.MintTokenPair(ctx, "missing")
		requireErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("deleted account", func(t *testing.T) {
		engine, repo, _ := newTestEngine(t)
		acct := repo.seed(t, Account{Email: "gone@example.com", Deleted: true})
		_, err := engine.MintTokenPair(ctx, acct.ID)
		requireErrorIs(t, err, ErrUserDeleted)
	})

	t.Run("inactive account", func(t *testing.T) {
		engine, repo, _ := newTestEngine(t)
		acct := repo.seed(t, Account{Email: "idle@example.com", Active: ActiveStateInactive})
		_, err := engine.MintTokenPair(ctx, acct.ID)
		requireErrorIs(t, err, ErrAccountInactive)
	})
}

func TestRefreshAccessToken(t *testing.T) {
	ctx := context.Background()

	t.Run("mints a new access token", func(t *testing.T) {
		engine, repo, _ := newTestEngine(t)
		acct := seedVerifiedAccount(t, repo, "user@example.com")
		pair, err := engine.MintTokenPair(ctx, acct.ID)
		requireNoError(t, err)

		access, err := engine.RefreshAccessToken(ctx, pair.RefreshToken)
		requireNoError(t, err)
		if access == "" {
			t.Fatal("empty access token")
		}
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		engine, repo, _ := newTestEngine(t)
		acct := seedVerifiedAccount(t, repo, "user@example.com")
		pair, err := engine.MintTokenPair(ctx, acct.ID)
		requireNoError(t, err)

		_, err = engine.RefreshAccessToken(ctx, pair.AccessToken)
		requireErrorIs(t, err, ErrTokenPurpose)
	})

	t.Run("garbage token", func(t *testing.T) {
		engine, _, _ := newTestEngine(t)
		_, err := engine.RefreshAccessToken(ctx, "garbage")
		requireErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("account deactivated after mint", func(t *testing.T) {
		engine, repo, _ := newTestEngine(t)
		acct := seedVerifiedAccount(t, repo, "user@example.com")
		pair, err := engine.MintTokenPair(ctx, acct.ID)
		requireNoError(t, err)

		repo.mu.Lock()
		a := repo.accounts[acct.ID]
		a.Active = ActiveStateBlocked
		repo.accounts[acct.ID] = a
		repo.mu.Unlock()

		_, err = engine.RefreshAccessToken(ctx, pair.RefreshToken)
		requireErrorIs(t, err, ErrAccountInactive)
	})
}
