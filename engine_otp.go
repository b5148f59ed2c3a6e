package goIdentity

import (
	"context"
	"crypto/subtle"
	"strconv"
	"time"

	"github.com/MrEthical07/goIdentity/internal"
)

// IssueOneTimeCode generates a fresh purpose-scoped code for the account
// behind email and stores it as the single pending code, unconditionally
// overwriting any prior one. Delivery is dispatched best-effort after the
// code is persisted; a delivery failure is audited but never fails the
// call and never rolls the stored code back.
func (e *Engine) IssueOneTimeCode(ctx context.Context, email string, purpose Purpose) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	acct, err := e.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if purpose == PurposeVerifyEmail && acct.Verified {
		return ErrAlreadyVerified
	}

	return e.issueCode(ctx, acct, purpose)
}

func (e *Engine) issueCode(ctx context.Context, acct Account, purpose Purpose) error {
	code, err := internal.NewOTP(e.config.OTP.Digits)
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(e.config.OTP.TTL)

	updated, err := e.repo.Update(ctx, acct.ID, func(a *Account) error {
		a.Pending = &PendingCode{
			Code:      code,
			Purpose:   purpose,
			ExpiresAt: expiresAt,
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.metricInc(MetricCodeIssued)
	e.emitAudit(ctx, auditEventCodeIssued, true, updated.ID, nil, func() map[string]string {
		return map[string]string{"purpose": string(purpose)}
	})

	if e.mailer != nil {
		// Fire-and-forget: the caller's success does not wait on delivery,
		// and cancelling the request must not cancel the send.
		go e.deliverCode(context.WithoutCancel(ctx), updated, code, purpose)
	}
	return nil
}

func (e *Engine) deliverCode(ctx context.Context, acct Account, code string, purpose Purpose) {
	minutes := int(e.config.OTP.TTL / time.Minute)
	err := e.mailer.Send(ctx, Message{
		To:           acct.Email,
		TemplateName: "otp",
		TemplateData: map[string]string{
			"name":             acct.Name,
			"otp":              code,
			"expiresInMinutes": strconv.Itoa(minutes),
		},
	})
	if err != nil {
		e.metricInc(MetricCodeDeliveryFailed)
		e.emitAudit(ctx, auditEventCodeDeliveryFailed, false, acct.ID, err, func() map[string]string {
			return map[string]string{"purpose": string(purpose)}
		})
	}
}

// VerifyOneTimeCode checks code against the account's pending code. The
// checks run in a fixed order (pending, purpose, expiry, value) so a stale
// wrong-purpose code still reports the purpose mismatch precisely. An
// expired code is cleared in the same persisted update that rejects it; a
// mismatched value leaves the pending code in place so the user can retry
// within the TTL. Throttling retries is an external concern.
//
// On success the code is cleared, so it can never be consumed twice, and
// for PurposeVerifyEmail the account is marked verified in the same atomic
// update.
func (e *Engine) VerifyOneTimeCode(ctx context.Context, email string, code string, purpose Purpose) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	acct, err := e.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	// The expired branch must both persist the cleared code and reject the
	// call, so the closure records that outcome instead of returning it.
	// The closure can run again on store contention; outcome is reset on
	// every pass.
	var outcome error
	_, err = e.repo.Update(ctx, acct.ID, func(a *Account) error {
		outcome = nil
		pending := a.Pending

		switch {
		case pending == nil:
			return ErrNoPendingCode
		case pending.Purpose != purpose:
			return ErrCodePurposeMismatch
		case !time.Now().Before(pending.ExpiresAt):
			a.Pending = nil
			outcome = ErrCodeExpired
			return nil
		case subtle.ConstantTimeCompare([]byte(pending.Code), []byte(code)) != 1:
			return ErrCodeMismatch
		default:
			a.Pending = nil
			if purpose == PurposeVerifyEmail {
				a.Verified = true
			}
			return nil
		}
	})
	if err == nil && outcome != nil {
		err = outcome
	}
	if err != nil {
		if KindOf(err) != KindUnknown {
			e.metricInc(MetricCodeRejected)
			e.emitAudit(ctx, auditEventCodeRejected, false, acct.ID, err, func() map[string]string {
				return map[string]string{"purpose": string(purpose)}
			})
		}
		return err
	}

	e.metricInc(MetricCodeVerified)
	e.emitAudit(ctx, auditEventCodeVerified, true, acct.ID, nil, func() map[string]string {
		return map[string]string{"purpose": string(purpose)}
	})
	return nil
}
