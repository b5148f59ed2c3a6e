package goIdentity

import (
	"strings"

	"github.com/MrEthical07/goIdentity/session"
	"github.com/MrEthical07/goIdentity/token"
)

// Engine orchestrates the identity and credential lifecycle: login by
// password or external identity, one-time codes, purpose-scoped tokens,
// and the password flows. It holds no mutable cross-request state of its
// own; the AccountRepository is the single point of truth and every
// mutation goes through its atomic Update.
type Engine struct {
	config   Config
	repo     AccountRepository
	hasher   Hasher
	tokens   *token.Manager
	sessions *session.Store
	mailer   EmailSender
	audit    *auditDispatcher
	metrics  *Metrics
}

// Close flushes and stops the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were discarded because the
// dispatch buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of the engine's counters.
func (e *Engine) MetricsSnapshot() map[MetricID]uint64 {
	if e == nil {
		return map[MetricID]uint64{}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) ready() bool {
	return e != nil && e.repo != nil && e.hasher != nil
}

// normalizeEmail applies the canonical form used for every lookup and
// every stored address: trimmed, lowercase.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
