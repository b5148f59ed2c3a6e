package goIdentity

import (
	"context"
	"time"
)

const (
	auditEventLoginSuccess         = "login_success"
	auditEventLoginFailure         = "login_failure"
	auditEventExternalLoginSuccess = "external_login_success"
	auditEventExternalLoginFailure = "external_login_failure"
	auditEventAccountProvisioned   = "account_provisioned"
	auditEventAccountCreated       = "account_created"
	auditEventProviderLinked       = "provider_linked"
	auditEventCodeIssued           = "otp_issued"
	auditEventCodeDeliveryFailed   = "otp_delivery_failed"
	auditEventCodeVerified         = "otp_verified"
	auditEventCodeRejected         = "otp_rejected"
	auditEventResetRequested       = "password_reset_requested"
	auditEventResetTokenIssued     = "password_reset_token_issued"
	auditEventPasswordReset        = "password_reset"
	auditEventPasswordSet          = "password_set"
	auditEventPasswordChanged      = "password_changed"
	auditEventTokenPairMinted      = "token_pair_minted"
	auditEventTokenRefreshed       = "token_refreshed"
	auditEventSessionCreated       = "session_created"
	auditEventSessionLost          = "session_lost"
)

// emitAudit builds the event lazily: metadataBuilder runs only when a
// dispatcher is configured.
func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	accountID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		AccountID: accountID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if err != nil {
		event.Error = err.Error()
	}

	e.audit.Emit(ctx, event)
}
