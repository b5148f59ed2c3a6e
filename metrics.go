package goIdentity

import "sync/atomic"

// MetricID identifies one in-process counter.
type MetricID uint8

const (
	// MetricLoginSuccess counts successful password logins.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts rejected password logins.
	MetricLoginFailure
	// MetricExternalLoginSuccess counts successful external-identity logins.
	MetricExternalLoginSuccess
	// MetricExternalLoginFailure counts rejected external-identity logins.
	MetricExternalLoginFailure
	// MetricAccountProvisioned counts accounts auto-created on first
	// external login.
	MetricAccountProvisioned
	// MetricAccountCreated counts explicit credential signups.
	MetricAccountCreated
	// MetricCodeIssued counts one-time codes stored.
	MetricCodeIssued
	// MetricCodeVerified counts one-time codes consumed successfully.
	MetricCodeVerified
	// MetricCodeRejected counts failed verification attempts.
	MetricCodeRejected
	// MetricCodeDeliveryFailed counts notification dispatch failures.
	MetricCodeDeliveryFailed
	// MetricResetTokenIssued counts reset tokens minted after code
	// verification.
	MetricResetTokenIssued
	// MetricPasswordReset counts completed reset-password flows.
	MetricPasswordReset
	// MetricPasswordSet counts first-time password attachments.
	MetricPasswordSet
	// MetricPasswordChanged counts completed change-password flows.
	MetricPasswordChanged
	// MetricTokenPairMinted counts access/refresh pair mints.
	MetricTokenPairMinted
	// MetricTokenRefreshed counts access tokens minted from refresh tokens.
	MetricTokenRefreshed
	// MetricSessionCreated counts sessions stored.
	MetricSessionCreated
	// MetricSessionLost counts rehydration failures.
	MetricSessionLost

	metricIDCount
)

// Metrics is a fixed set of atomic counters. When disabled every operation
// is a no-op; a nil *Metrics is also valid.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]atomic.Uint64
}

func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Snapshot returns a point-in-time copy of all counters.
func (m *Metrics) Snapshot() map[MetricID]uint64 {
	out := make(map[MetricID]uint64, metricIDCount)
	if m == nil || !m.enabled {
		return out
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		out[id] = m.counters[id].Load()
	}
	return out
}
