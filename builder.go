package goIdentity

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goIdentity/password"
	"github.com/MrEthical07/goIdentity/session"
	"github.com/MrEthical07/goIdentity/token"
)

// Builder assembles an Engine. Construction is allocation-only: no I/O
// happens until Engine methods are called.
type Builder struct {
	config Config
	redis  *redis.Client

	repo      AccountRepository
	hasher    Hasher
	mailer    EmailSender
	auditSink AuditSink

	built bool
}

func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the default configuration. Signing secrets are not
// part of the defaults and must always be supplied here.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis supplies the client backing the session adjunct.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithRepository supplies the account store. Required.
func (b *Builder) WithRepository(repo AccountRepository) *Builder {
	b.repo = repo
	return b
}

// WithHasher overrides the default argon2id hasher.
func (b *Builder) WithHasher(h Hasher) *Builder {
	b.hasher = h
	return b
}

// WithEmailSender supplies the best-effort notification dispatcher. When
// absent, issued codes are stored but never delivered.
func (b *Builder) WithEmailSender(sender EmailSender) *Builder {
	b.mailer = sender
	return b
}

// WithAuditSink supplies the destination for audit events.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.repo == nil {
		return nil, errors.New("account repository required")
	}
	if b.redis == nil {
		return nil, errors.New("redis client required")
	}

	tm, err := token.NewManager(token.Config{
		Issuer: cfg.Token.Issuer,
		Leeway: cfg.Token.Leeway,
		Purposes: map[string]token.KeyConfig{
			tokenPurposeAccess:  {Secret: cloneBytes(cfg.Token.AccessSecret), TTL: cfg.Token.AccessTTL},
			tokenPurposeRefresh: {Secret: cloneBytes(cfg.Token.RefreshSecret), TTL: cfg.Token.RefreshTTL},
			tokenPurposeReset:   {Secret: cloneBytes(cfg.Token.ResetSecret), TTL: cfg.Token.ResetTTL},
		},
	})
	if err != nil {
		return nil, err
	}

	hasher := b.hasher
	if hasher == nil {
		hasher, err = password.NewArgon2(password.Config{
			Memory:      cfg.Password.Memory,
			Time:        cfg.Password.Time,
			Parallelism: cfg.Password.Parallelism,
			SaltLength:  cfg.Password.SaltLength,
			KeyLength:   cfg.Password.KeyLength,
		})
		if err != nil {
			return nil, err
		}
	}

	engine := &Engine{
		config:   cfg,
		repo:     b.repo,
		hasher:   hasher,
		tokens:   tm,
		sessions: session.NewStore(b.redis, cfg.Session.RedisPrefix, cfg.Session.TTL),
		mailer:   b.mailer,
		audit:    newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:  NewMetrics(cfg.Metrics),
	}

	b.built = true
	return engine, nil
}
